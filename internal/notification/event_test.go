package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecipientSet(t *testing.T) {
	s := NewRecipientSet(5, 3, 0, -2, 3, 9)

	assert.Equal(t, []int64{3, 5, 9}, s.IDs())
	assert.True(t, s.Contains(5))
	assert.False(t, s.Contains(4))
	assert.Equal(t, 3, s.Len())

	assert.Equal(t, []int64{1, 3, 5, 9}, s.Union(NewRecipientSet(1, 9)).IDs())
	assert.Equal(t, []int64{3, 9}, s.Without(5, 42).IDs())
	assert.Equal(t, []int64{5}, s.Intersect(NewRecipientSet(5, 6)).IDs())

	ids := s.IDs()
	ids[0] = 100
	assert.Equal(t, []int64{3, 5, 9}, s.IDs(), "IDs returns a copy")
}

func TestRecipientSet_Empty(t *testing.T) {
	var s RecipientSet

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(1))
	assert.Empty(t, s.Without(1).IDs())
	assert.Equal(t, []int64{1}, s.Union(NewRecipientSet(1)).IDs())
}

func TestEscalation(t *testing.T) {
	assert.False(t, NoEscalation.Widens())

	e := WidenToGroups("mod", "admin")
	assert.True(t, e.Widens())
	assert.Equal(t, []string{"mod", "admin"}, e.Groups())
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		content string
		want    []string
	}{
		{"@Alice hi", []string{"alice"}},
		{"cc @Alice, @bob and @ALICE", []string{"alice", "bob"}},
		{"mail me at carol@example.com", []string{}},
		{"@@double", []string{}},
		{"(@dash-name_1)", []string{"dash-name_1"}},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTags(tt.content))
		})
	}
}

func TestTypeCatalog(t *testing.T) {
	registry := classifiers()
	for _, typ := range Types() {
		if typ.SchedulerOnly() {
			assert.NotContains(t, registry, typ)
			continue
		}
		assert.Contains(t, registry, typ, "every raisable type has a classifier")
		assert.NotEmpty(t, typ.Family())
	}
	assert.Len(t, Types(), 36)
}
