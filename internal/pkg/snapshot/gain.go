package snapshot

import (
	"Influence/internal/pkg/platform"
	"sort"
)

// PostGain 帖子在某天的指标与相对基线日的增量
type PostGain struct {
	Record
	// Baseline 基线日期，为空表示没有可比较的更早数据
	Baseline string
	Metrics  map[string]int64
	// Gains 为 nil 表示新帖子，不参与增量评分
	Gains map[string]int64
}

// HasGain 是否存在基线匹配
func (g *PostGain) HasGain() bool {
	return g.Gains != nil
}

// Fields 原始字段加上 gained_<metric>，对应互动统计接口的帖子结构
func (g *PostGain) Fields() map[string]any {
	out := make(map[string]any, len(g.Record.Fields)+len(g.Gains)+3)
	for k, v := range g.Record.Fields {
		out[k] = v
	}
	out["platform"] = string(g.Platform)
	out["page_id"] = g.PageID
	out["recorded_at"] = g.Day
	for name, v := range g.Gains {
		out[platform.GainKey(name)] = v
	}
	return out
}

// DayGains 某一天所有页面的帖子增量
type DayGains struct {
	Day   string
	Posts []PostGain
}

// series 单个页面在单个平台上的按天帖子
type series struct {
	schema *platform.Schema
	days   map[string]*dayPosts
}

type dayPosts struct {
	order []string
	posts map[string]Record
}

func (d *dayPosts) put(r Record) {
	prev, ok := d.posts[r.PostID]
	if !ok {
		d.order = append(d.order, r.PostID)
	} else if r.RecordedAt.Before(prev.RecordedAt) {
		return
	}
	d.posts[r.PostID] = r
}

// ComputeGains 按天计算每个帖子相对最近一个非空日期的指标增量
// 空快照的日期会保留在结果中，但不会作为基线
func ComputeGains(snaps []*Snapshot) ([]DayGains, error) {
	all := make(map[string]*series)
	allDays := make(map[string]struct{})

	for _, snap := range snaps {
		if snap == nil {
			continue
		}
		key := string(snap.Platform) + "|" + snap.PageID
		s, ok := all[key]
		if !ok {
			schema, err := platform.Lookup(string(snap.Platform))
			if err != nil {
				return nil, err
			}
			s = &series{schema: schema, days: make(map[string]*dayPosts)}
			all[key] = s
		}

		day := snap.Day
		if day == "" {
			day = DayOf(snap.RecordedAt)
		}
		allDays[day] = struct{}{}
		dp, ok := s.days[day]
		if !ok {
			dp = &dayPosts{posts: make(map[string]Record)}
			s.days[day] = dp
		}
		for _, r := range snap.Posts {
			dp.put(r)
		}
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	byDay := make(map[string][]PostGain, len(allDays))
	for _, k := range keys {
		for day, gains := range all[k].gains() {
			byDay[day] = append(byDay[day], gains...)
		}
	}

	days := make([]string, 0, len(allDays))
	for d := range allDays {
		days = append(days, d)
	}
	sort.Strings(days)

	result := make([]DayGains, 0, len(days))
	for _, d := range days {
		posts := byDay[d]
		if posts == nil {
			posts = []PostGain{}
		}
		result = append(result, DayGains{Day: d, Posts: posts})
	}
	return result, nil
}

func (s *series) gains() map[string][]PostGain {
	days := make([]string, 0, len(s.days))
	for d := range s.days {
		days = append(days, d)
	}
	sort.Strings(days)

	metrics := s.schema.MetricNames()
	out := make(map[string][]PostGain, len(days))
	for i, day := range days {
		current := s.days[day]

		var baseline *dayPosts
		var baselineDay string
		for j := i - 1; j >= 0; j-- {
			if prev := s.days[days[j]]; len(prev.posts) > 0 {
				baseline = prev
				baselineDay = days[j]
				break
			}
		}

		posts := make([]PostGain, 0, len(current.order))
		for _, id := range current.order {
			r := current.posts[id]
			g := PostGain{Record: r, Metrics: metricValues(r.Fields, metrics)}
			if baseline != nil {
				if before, ok := baseline.posts[id]; ok {
					g.Baseline = baselineDay
					g.Gains = make(map[string]int64, len(metrics))
					for _, m := range metrics {
						g.Gains[m] = ToInt64(r.Fields[m]) - ToInt64(before.Fields[m])
					}
				}
			}
			posts = append(posts, g)
		}
		out[day] = posts
	}
	return out
}

func metricValues(fields map[string]any, metrics []string) map[string]int64 {
	values := make(map[string]int64, len(metrics))
	for _, m := range metrics {
		values[m] = ToInt64(fields[m])
	}
	return values
}
