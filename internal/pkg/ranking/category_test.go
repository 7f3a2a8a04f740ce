package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parent(id uint64) *uint64 { return &id }

func sampleTree() *Tree {
	return NewTree([]Category{
		{ID: 1, Name: "media"},
		{ID: 2, Name: "news", ParentID: parent(1)},
		{ID: 3, Name: "local news", ParentID: parent(2)},
		{ID: 4, Name: "retail"},
		{ID: 5, Name: "orphan", ParentID: parent(42)},
		{ID: 6, Name: "loop-a", ParentID: parent(7)},
		{ID: 7, Name: "loop-b", ParentID: parent(6)},
	})
}

func TestTreeRoot(t *testing.T) {
	tree := sampleTree()

	root, ok := tree.Root(3)
	require.True(t, ok)
	assert.Equal(t, "media", root.Name)

	root, ok = tree.Root(4)
	require.True(t, ok)
	assert.Equal(t, uint64(4), root.ID)

	root, ok = tree.Root(5)
	require.True(t, ok)
	assert.Equal(t, "orphan", root.Name)

	_, ok = tree.Root(6)
	assert.True(t, ok, "cycles terminate")

	_, ok = tree.Root(100)
	assert.False(t, ok)
}

func TestTreeDescendants(t *testing.T) {
	tree := sampleTree()
	assert.Equal(t, []uint64{1, 2, 3}, tree.Descendants(1))
	assert.Equal(t, []uint64{4}, tree.Descendants(4))
	assert.ElementsMatch(t, []uint64{6, 7}, tree.Descendants(6))
	assert.Nil(t, tree.Descendants(100))
}

func TestEntitiesIn(t *testing.T) {
	tree := sampleTree()
	memberships := []Membership{
		{EntityID: 10, CategoryID: 3},
		{EntityID: 11, CategoryID: 2},
		{EntityID: 10, CategoryID: 1},
		{EntityID: 12, CategoryID: 4},
	}
	assert.Equal(t, []uint64{10, 11}, tree.EntitiesIn(1, memberships))
	assert.Equal(t, []uint64{10}, tree.EntitiesIn(3, memberships))
	assert.Empty(t, tree.EntitiesIn(100, memberships))
}

func TestAnnotateAndGroupByRoot(t *testing.T) {
	tree := sampleTree()
	memberships := []Membership{
		{EntityID: 10, EntityName: "daily", CategoryID: 3, CategoryName: "local news"},
		{EntityID: 10, EntityName: "daily", CategoryID: 4, CategoryName: "retail"},
		{EntityID: 11, EntityName: "herald", CategoryID: 2, CategoryName: "news"},
		{EntityID: 12, EntityName: "shop", CategoryID: 4, CategoryName: "retail"},
	}
	entities := []RankedEntity{
		{EntityID: 10, EntityName: "daily", TotalFollowers: 50},
		{EntityID: 11, EntityName: "herald", TotalFollowers: 90},
		{EntityID: 12, EntityName: "shop", TotalFollowers: 70},
		{EntityID: 13, EntityName: "loner", TotalFollowers: 10},
	}
	AssignRanks(entities)
	Annotate(entities, memberships)
	assert.Equal(t, "news", entities[0].Category)
	assert.Equal(t, "local news", entities[2].Category)
	assert.Empty(t, entities[3].Category)

	groups := GroupByRoot(entities, memberships, tree)
	require.Len(t, groups, 2)

	assert.Equal(t, "media", groups[0].Root)
	assert.Equal(t, []string{"herald", "daily"}, names(groups[0].Entities))
	assert.Equal(t, []int{1, 2}, ranks(groups[0].Entities))
	assert.Equal(t, "media", groups[0].Entities[1].Category)

	assert.Equal(t, "retail", groups[1].Root)
	assert.Equal(t, []string{"shop", "daily"}, names(groups[1].Entities))

	assert.Equal(t, 3, entities[2].Rank, "grouping leaves the global ranking untouched")
}
