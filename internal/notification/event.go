package notification

import "sort"

// RecipientSet is an immutable, de-duplicated set of user ids. Non-positive ids are dropped.
type RecipientSet struct {
	ids []int64
}

func NewRecipientSet(ids ...int64) RecipientSet {
	if len(ids) == 0 {
		return RecipientSet{}
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return RecipientSet{ids: out}
}

func (s RecipientSet) Union(other RecipientSet) RecipientSet {
	merged := make([]int64, 0, len(s.ids)+len(other.ids))
	merged = append(merged, s.ids...)
	merged = append(merged, other.ids...)
	return NewRecipientSet(merged...)
}

func (s RecipientSet) Without(ids ...int64) RecipientSet {
	if len(ids) == 0 || len(s.ids) == 0 {
		return s
	}
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := make([]int64, 0, len(s.ids))
	for _, id := range s.ids {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return RecipientSet{ids: out}
}

func (s RecipientSet) Intersect(other RecipientSet) RecipientSet {
	out := make([]int64, 0)
	for _, id := range s.ids {
		if other.Contains(id) {
			out = append(out, id)
		}
	}
	return RecipientSet{ids: out}
}

func (s RecipientSet) Contains(id int64) bool {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	return i < len(s.ids) && s.ids[i] == id
}

func (s RecipientSet) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the ids in ascending order.
func (s RecipientSet) IDs() []int64 {
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

// Escalation is the single widening decision for an event: either none, or widen the
// recipients to every member of the named staff groups.
type Escalation struct {
	groups []string
}

// NoEscalation leaves the recipient set as classified.
var NoEscalation = Escalation{}

func WidenToGroups(groups ...string) Escalation {
	return Escalation{groups: append([]string(nil), groups...)}
}

func (e Escalation) Widens() bool {
	return len(e.groups) > 0
}

func (e Escalation) Groups() []string {
	return append([]string(nil), e.groups...)
}

// Event is the result of classifying one invocation.
type Event struct {
	Type        Type
	ReferenceID int64
	ActorID     int64

	Description      string
	MergeDescription string
	ChildReferenceID int64

	Recipients RecipientSet
	Escalation Escalation
	// Exclude is removed after escalation, e.g. the assignee of a ticket moved to discussion.
	Exclude RecipientSet

	// Global events write one shared row and email every opted-in user.
	Global bool
}

// Merges reports whether repeat events against the same unread row collapse into MergeDescription.
func (e *Event) Merges() bool {
	return e.MergeDescription != ""
}
