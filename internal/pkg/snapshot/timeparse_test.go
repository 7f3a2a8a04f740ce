package snapshot

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostTime(t *testing.T) {
	ref := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"rfc3339 millis", "2018-02-05T10:39:41.000Z", "2018-02-05T10:39:41Z"},
		{"rfc3339 offset", "2024-03-09T23:00:00+02:00", "2024-03-09T21:00:00Z"},
		{"no zone", "2024-03-01T08:15:00", "2024-03-01T08:15:00Z"},
		{"space separated", "2024-03-01 08:15:00", "2024-03-01T08:15:00Z"},
		{"date only", "2024-03-01", "2024-03-01T00:00:00Z"},
		{"unix seconds", json.Number("1709251200"), "2024-03-01T00:00:00Z"},
		{"unix millis", json.Number("1709251200000"), "2024-03-01T00:00:00Z"},
		{"unix string", "1709251200", "2024-03-01T00:00:00Z"},
		{"relative days", "3 days ago", "2024-03-07T12:00:00Z"},
		{"relative hour", "1 hour ago", "2024-03-10T11:00:00Z"},
		{"relative weeks", "2 Weeks ago", "2024-02-25T12:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePostTime(tt.input, ref)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Format(time.RFC3339))
		})
	}
}

func TestParsePostTimeInvalid(t *testing.T) {
	ref := time.Now()
	for _, v := range []any{nil, "", "yesterday-ish", true, map[string]any{}, 1e300, -1e300} {
		got, ok := ParsePostTime(v, ref)
		assert.False(t, ok, "%v", v)
		assert.Nil(t, got)
	}
}

func TestDayOf(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	assert.Equal(t, "2024-01-01", DayOf(time.Date(2024, 1, 2, 1, 0, 0, 0, loc)))
}
