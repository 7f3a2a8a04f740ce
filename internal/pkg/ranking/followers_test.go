package ranking

import (
	"Influence/internal/pkg/platform"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func count(n int64) *int64 { return &n }

var day = time.Date(2024, 6, 1, 6, 47, 0, 0, time.UTC)

func TestLatestPerPage(t *testing.T) {
	rows := []FollowerRow{
		{EntityID: 1, PageID: "a", Platform: platform.Instagram, RecordedAt: day, Followers: count(100)},
		{EntityID: 1, PageID: "a", Platform: platform.Instagram, RecordedAt: day.AddDate(0, 0, 2), Followers: count(120)},
		{EntityID: 1, PageID: "a", Platform: platform.Instagram, RecordedAt: day.AddDate(0, 0, 1), Followers: count(110)},
		{EntityID: 1, PageID: "a", Platform: platform.Instagram, RecordedAt: day.AddDate(0, 0, 3)},
		{EntityID: 1, PageID: "b", Platform: platform.YouTube, RecordedAt: day, Followers: count(7)},
	}

	latest := LatestPerPage(rows)
	require.Len(t, latest, 2)
	assert.Equal(t, int64(120), *latest[0].Followers)
	assert.Equal(t, "b", latest[1].PageID)
}

func TestRankByFollowers(t *testing.T) {
	rows := []FollowerRow{
		{EntityID: 1, EntityName: "acme", PageID: "a1", Platform: platform.Instagram, RecordedAt: day, Followers: count(300), PageURL: "https://instagram.com/acme"},
		{EntityID: 1, EntityName: "acme", PageID: "a2", Platform: platform.Instagram, RecordedAt: day, Followers: count(500), PageURL: "https://instagram.com/acme2"},
		{EntityID: 2, EntityName: "beta", PageID: "b1", Platform: platform.YouTube, RecordedAt: day, Followers: count(800)},
		{EntityID: 3, EntityName: "alpha", PageID: "c1", Platform: platform.X, RecordedAt: day, Followers: count(800)},
		{EntityID: 4, EntityName: "delta", PageID: "d1", Platform: platform.TikTok, RecordedAt: day, Followers: count(50)},
		{EntityID: 5, EntityName: "ghost", PageID: "e1", Platform: platform.TikTok, RecordedAt: day},
	}

	ranked := RankByFollowers(rows)
	require.Len(t, ranked, 4)

	assert.Equal(t, "acme", ranked[0].EntityName)
	assert.Equal(t, 1, ranked[2].Rank)

	assert.Equal(t, []string{"acme", "alpha", "beta", "delta"}, names(ranked))
	assert.Equal(t, []int{1, 1, 1, 4}, ranks(ranked))

	ig := ranked[0].Platforms[platform.Instagram]
	assert.Equal(t, int64(800), ig.Followers)
	assert.Equal(t, "a2", ig.PageID)
	assert.Equal(t, "https://instagram.com/acme2", ig.PageURL)
}

func TestAssignRanksSkipsAfterTie(t *testing.T) {
	entities := []RankedEntity{
		{EntityID: 1, EntityName: "c", TotalFollowers: 10},
		{EntityID: 2, EntityName: "a", TotalFollowers: 30},
		{EntityID: 3, EntityName: "b", TotalFollowers: 30},
		{EntityID: 4, EntityName: "d", TotalFollowers: 5},
	}
	AssignRanks(entities)
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(entities))
	assert.Equal(t, []int{1, 1, 3, 4}, ranks(entities))
}

func TestFilterReranks(t *testing.T) {
	entities := []RankedEntity{
		{EntityID: 1, EntityName: "a", TotalFollowers: 30},
		{EntityID: 2, EntityName: "b", TotalFollowers: 20},
		{EntityID: 3, EntityName: "c", TotalFollowers: 10},
	}
	AssignRanks(entities)

	sub := Filter(entities, []uint64{3, 2, 99})
	assert.Equal(t, []string{"b", "c"}, names(sub))
	assert.Equal(t, []int{1, 2}, ranks(sub))
	assert.Equal(t, 2, entities[1].Rank)
}

func TestAssignRanksProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ranks follow SQL RANK semantics", prop.ForAll(
		func(totals []int64) bool {
			entities := make([]RankedEntity, len(totals))
			for i, n := range totals {
				entities[i] = RankedEntity{EntityID: uint64(i), EntityName: fmt.Sprintf("e%03d", i), TotalFollowers: n}
			}
			AssignRanks(entities)

			if !sort.SliceIsSorted(entities, func(i, j int) bool {
				return entities[i].TotalFollowers > entities[j].TotalFollowers
			}) {
				return false
			}
			for i, e := range entities {
				higher := 0
				for _, o := range entities {
					if o.TotalFollowers > e.TotalFollowers {
						higher++
					}
				}
				if e.Rank != higher+1 {
					return false
				}
				if i > 0 && e.Rank < entities[i-1].Rank {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(0, 20)),
	))

	properties.TestingRun(t)
}

func names(entities []RankedEntity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.EntityName)
	}
	return out
}

func ranks(entities []RankedEntity) []int {
	out := make([]int, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.Rank)
	}
	return out
}
