package snapshot

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DayLayout 快照按天分组使用的日期格式
const DayLayout = time.DateOnly

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

var relativeRegex = regexp.MustCompile(`^(\d+)\s+(minute|hour|day|week|month|year)s?\s+ago$`)

// DayOf 返回时间在 UTC 下的日期键
func DayOf(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// ParsePostTime 解析帖子时间，支持 ISO8601、纯日期、unix 秒/毫秒以及 "3 days ago" 这类相对时间
// 相对时间以快照的 recorded_at 为基准
func ParsePostTime(v any, ref time.Time) (*time.Time, bool) {
	switch val := v.(type) {
	case string:
		return parseTimeString(strings.TrimSpace(val), ref)
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return unixTime(n), true
		}
		f, err := val.Float64()
		if err != nil {
			return nil, false
		}
		return unixFloat(f)
	case float64:
		return unixFloat(val)
	case int64:
		return unixTime(val), true
	default:
		return nil, false
	}
}

func parseTimeString(s string, ref time.Time) (*time.Time, bool) {
	if s == "" {
		return nil, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return unixTime(n), true
	}
	return parseRelative(strings.ToLower(s), ref)
}

func parseRelative(s string, ref time.Time) (*time.Time, bool) {
	m := relativeRegex.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, false
	}

	var t time.Time
	switch m[2] {
	case "minute":
		t = ref.Add(-time.Duration(n) * time.Minute)
	case "hour":
		t = ref.Add(-time.Duration(n) * time.Hour)
	case "day":
		t = ref.AddDate(0, 0, -n)
	case "week":
		t = ref.AddDate(0, 0, -7*n)
	case "month":
		// 粗略按 30 天
		t = ref.AddDate(0, 0, -30*n)
	case "year":
		t = ref.AddDate(0, 0, -365*n)
	}
	t = t.UTC()
	return &t, true
}

func unixFloat(f float64) (*time.Time, bool) {
	n, ok := truncate(f)
	if !ok {
		return nil, false
	}
	return unixTime(n), true
}

// unixTime 超过 1e12 视为毫秒
func unixTime(n int64) *time.Time {
	var t time.Time
	if n > 1e12 || n < -1e12 {
		t = time.UnixMilli(n).UTC()
	} else {
		t = time.Unix(n, 0).UTC()
	}
	return &t
}
