package snapshot

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instagramSnap(t *testing.T, page string, day time.Time, data string) *Snapshot {
	t.Helper()
	snap, _, err := Normalize(Raw{PageID: page, Platform: "instagram", RecordedAt: day, Data: []byte(data)})
	require.NoError(t, err)
	return snap
}

func TestComputeGainsSkipsEmptyDays(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	snaps := []*Snapshot{
		instagramSnap(t, "pg", d1, `{"posts": [{"id": "A", "likes": 10, "comments": 2}]}`),
		instagramSnap(t, "pg", d1.AddDate(0, 0, 1), `{"posts": []}`),
		instagramSnap(t, "pg", d1.AddDate(0, 0, 2), `{"posts": [{"id": "A", "likes": 15, "comments": 1}]}`),
	}

	days, err := ComputeGains(snaps)
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, "2024-01-01", days[0].Day)
	require.Len(t, days[0].Posts, 1)
	assert.False(t, days[0].Posts[0].HasGain())

	assert.Equal(t, "2024-01-02", days[1].Day)
	assert.Empty(t, days[1].Posts)

	require.Len(t, days[2].Posts, 1)
	g := days[2].Posts[0]
	assert.Equal(t, "2024-01-01", g.Baseline)
	assert.Equal(t, int64(5), g.Gains["likes"])
	assert.Equal(t, int64(-1), g.Gains["comments"], "negative gains are kept")
	assert.Equal(t, int64(15), g.Metrics["likes"])
}

func TestComputeGainsNewPost(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	snaps := []*Snapshot{
		instagramSnap(t, "pg", d1, `{"posts": [{"id": "A", "likes": 1}]}`),
		instagramSnap(t, "pg", d1.AddDate(0, 0, 1), `{"posts": [{"id": "A", "likes": 3}, {"id": "B", "likes": 50}]}`),
	}

	days, err := ComputeGains(snaps)
	require.NoError(t, err)
	require.Len(t, days[1].Posts, 2)

	b := days[1].Posts[1]
	assert.Equal(t, "B", b.PostID)
	assert.False(t, b.HasGain())
	fields := b.Fields()
	_, ok := fields["gained_likes"]
	assert.False(t, ok)
	assert.Equal(t, "instagram", fields["platform"])

	a := days[1].Posts[0].Fields()
	assert.Equal(t, int64(2), a["gained_likes"])
	assert.Equal(t, int64(0), a["gained_comments"])
}

func TestComputeGainsCoercesValues(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	snaps := []*Snapshot{
		instagramSnap(t, "pg", d1, `{"posts": [{"id": "A", "likes": "n/a", "comments": 3.9}]}`),
		instagramSnap(t, "pg", d1.AddDate(0, 0, 1), `{"posts": [{"id": "A", "likes": 7.5, "comments": "5"}]}`),
	}

	days, err := ComputeGains(snaps)
	require.NoError(t, err)
	g := days[1].Posts[0]
	assert.Equal(t, int64(7), g.Gains["likes"])
	assert.Equal(t, int64(2), g.Gains["comments"])
}

func TestComputeGainsSameDayLatestWins(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	snaps := []*Snapshot{
		instagramSnap(t, "pg", d1, `{"posts": [{"id": "A", "likes": 1}]}`),
		instagramSnap(t, "pg", d1.AddDate(0, 0, 1).Add(5*time.Hour), `{"posts": [{"id": "A", "likes": 9}]}`),
		instagramSnap(t, "pg", d1.AddDate(0, 0, 1), `{"posts": [{"id": "A", "likes": 4}]}`),
	}

	days, err := ComputeGains(snaps)
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Len(t, days[1].Posts, 1)
	assert.Equal(t, int64(8), days[1].Posts[0].Gains["likes"])
}

func TestComputeGainsSeparatesPages(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	xSnap, _, err := Normalize(Raw{PageID: "pg-x", Platform: "x", RecordedAt: d1.AddDate(0, 0, 1),
		Data: []byte(`{"posts": [{"post_id": "A", "likes": 100}]}`)})
	require.NoError(t, err)

	snaps := []*Snapshot{
		instagramSnap(t, "pg-a", d1, `{"posts": [{"id": "A", "likes": 1}]}`),
		instagramSnap(t, "pg-b", d1.AddDate(0, 0, 1), `{"posts": [{"id": "A", "likes": 5}]}`),
		xSnap,
	}

	days, err := ComputeGains(snaps)
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Len(t, days[1].Posts, 2)
	for _, p := range days[1].Posts {
		assert.False(t, p.HasGain(), "post ids are page-local")
	}
}

func TestComputeGainsEmpty(t *testing.T) {
	days, err := ComputeGains(nil)
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestComputeGainsIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	properties.Property("gains are identical on repeated runs", prop.ForAll(
		func(likes []int, gaps []bool) bool {
			var snaps []*Snapshot
			for i, l := range likes {
				data := fmt.Sprintf(`{"posts": [{"id": "A", "likes": %d}, {"id": "B%d", "likes": 1}]}`, l, i%3)
				if i < len(gaps) && gaps[i] {
					data = `{"posts": []}`
				}
				snap, _, err := Normalize(Raw{PageID: "pg", Platform: "instagram", RecordedAt: start.AddDate(0, 0, i), Data: []byte(data)})
				if err != nil {
					return false
				}
				snaps = append(snaps, snap)
			}

			first, err1 := ComputeGains(snaps)
			second, err2 := ComputeGains(snaps)
			if err1 != nil || err2 != nil {
				return false
			}
			return reflect.DeepEqual(first, second)
		},
		gen.SliceOf(gen.IntRange(0, 10000)),
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
