package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewerPrivileged(t *testing.T) {
	tests := []struct {
		roles []string
		want  bool
	}{
		{nil, false},
		{[]string{RolePublic}, false},
		{[]string{RoleRegistered, RoleAnonymous}, false},
		{[]string{RoleRegistered, "Subscribed"}, true},
		{[]string{" admin "}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Viewer{Roles: tt.roles}.Privileged(), "%v", tt.roles)
	}
}

func leaderboard(n int) ([]RankedEntity, []Membership) {
	entities := make([]RankedEntity, n)
	memberships := make([]Membership, 0, n)
	for i := 0; i < n; i++ {
		id := uint64(i + 1)
		entities[i] = RankedEntity{EntityID: id, EntityName: fmt.Sprintf("e%02d", id), TotalFollowers: int64(1000 - i)}
		memberships = append(memberships, Membership{EntityID: id, CategoryID: 1})
	}
	AssignRanks(entities)
	return entities, memberships
}

func TestPublicView(t *testing.T) {
	entities, memberships := leaderboard(15)
	memberships[12].CategoryID = 2
	memberships[13].CategoryID = 2
	memberships = append(memberships,
		Membership{EntityID: 14, CategoryID: 3},
		Membership{EntityID: 15, CategoryID: 4},
		Membership{EntityID: 2, CategoryID: 5},
		Membership{EntityID: 15, CategoryID: 5},
	)

	view := PublicView(entities, memberships, 10)

	ids := make([]uint64, 0, len(view))
	for _, e := range view {
		ids = append(ids, e.EntityID)
	}
	assert.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 13, 14, 15}, ids)
	assert.Equal(t, 13, view[10].Rank)
}

func TestPublicViewShortList(t *testing.T) {
	entities, memberships := leaderboard(4)
	assert.Len(t, PublicView(entities, memberships, 10), 4)
	assert.Len(t, PublicView(entities, memberships, 0), 4)
}

func TestApplyVisibility(t *testing.T) {
	entities, memberships := leaderboard(25)
	assert.Len(t, ApplyVisibility(Viewer{Roles: []string{RoleAdmin}}, entities, memberships, 10), 25)
	assert.Len(t, ApplyVisibility(Viewer{}, entities, memberships, 10), 10)
}
