package models

// Staff group identifiers.
const (
	GroupOwner        = "owner"
	GroupAdmin        = "admin"
	GroupMod          = "mod"
	GroupResearcherTL = "researcher_tl"
	GroupResearcher   = "researcher"
	GroupDevTL        = "dev_tl"
	GroupDeveloper    = "developer"
	GroupScout        = "scout"
)

var staffGroups = map[string]bool{
	GroupOwner:        true,
	GroupAdmin:        true,
	GroupMod:          true,
	GroupResearcherTL: true,
	GroupResearcher:   true,
	GroupDevTL:        true,
	GroupDeveloper:    true,
	GroupScout:        true,
}

type User struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	GroupID         int    `json:"groupId"`
	GroupIdentifier string `json:"groupIdentifier"`
}

// IsStaff reports whether the user's group is one of the staff groups.
func (u User) IsStaff() bool {
	return staffGroups[u.GroupIdentifier]
}
