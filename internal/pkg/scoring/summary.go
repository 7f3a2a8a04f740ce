package scoring

import (
	"Influence/internal/pkg/platform"
	"Influence/internal/pkg/snapshot"
)

// DaySummary 某一天的得分汇总
type DaySummary struct {
	Date           string                                 `json:"date"`
	TotalScore     float64                                `json:"total_score"`
	PlatformScores map[platform.Platform]float64          `json:"platform_scores"`
	DayGains       map[platform.Platform]map[string]int64 `json:"day_gains"`
	PostCount      int                                    `json:"post_count"`
}

// Summarize 逐日汇总每个平台的得分和指标增量
// 新帖子计入平台但不贡献得分，PostCount 只统计有基线的帖子
func Summarize(days []snapshot.DayGains) ([]DaySummary, error) {
	result := make([]DaySummary, 0, len(days))
	for _, day := range days {
		row := DaySummary{
			Date:           day.Day,
			PlatformScores: make(map[platform.Platform]float64),
			DayGains:       make(map[platform.Platform]map[string]int64),
		}
		for i := range day.Posts {
			post := &day.Posts[i]
			s, err := ScorePost(post)
			if err != nil {
				return nil, err
			}
			row.PlatformScores[post.Platform] += s
			row.TotalScore += s

			gains, ok := row.DayGains[post.Platform]
			if !ok {
				gains = make(map[string]int64)
				row.DayGains[post.Platform] = gains
			}
			schema, _ := platform.Lookup(string(post.Platform))
			for _, m := range schema.MetricNames() {
				gains[m] += post.Gains[m]
			}
			if post.HasGain() {
				row.PostCount++
			}
		}
		result = append(result, row)
	}
	return result, nil
}

// Composite 实体在时间窗口内的综合得分
type Composite struct {
	Total          float64                       `json:"total_score"`
	Average        float64                       `json:"average_score"`
	WeightedTotal  float64                       `json:"weighted_score"`
	PostCount      int                           `json:"post_count"`
	PlatformTotals map[platform.Platform]float64 `json:"platform_totals"`
}

// EntityComposite 汇总所有天、所有平台的得分
// WeightedTotal 再乘以平台权重，Average 为每个有基线帖子的平均得分
// 应传入插值前的汇总，否则补齐的值会被重复计入
func EntityComposite(summary []DaySummary) (Composite, error) {
	c := Composite{PlatformTotals: make(map[platform.Platform]float64)}
	for _, row := range summary {
		for p, s := range row.PlatformScores {
			c.PlatformTotals[p] += s
		}
		c.Total += row.TotalScore
		c.PostCount += row.PostCount
	}
	for p, s := range c.PlatformTotals {
		schema, err := platform.Lookup(string(p))
		if err != nil {
			return Composite{}, err
		}
		c.WeightedTotal += s * schema.Weight
	}
	if c.PostCount > 0 {
		c.Average = c.Total / float64(c.PostCount)
	}
	return c, nil
}
