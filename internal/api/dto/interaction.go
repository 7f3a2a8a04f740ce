package dto

import (
	"Influence/internal/pkg/scoring"
	"Influence/internal/pkg/snapshot"
)

// DayPostsDTO 某天的帖子，帖子为原始字段加 gained_<metric>
type DayPostsDTO struct {
	Day   string           `json:"day"`
	Posts []map[string]any `json:"posts"`
}

type InteractionStatsDTO struct {
	EntityID uint64         `json:"entity_id"`
	Days     []DayPostsDTO  `json:"days"`
	Stats    snapshot.Stats `json:"stats"`
}

type ScoreSummaryDTO struct {
	EntityID  uint64               `json:"entity_id"`
	Summary   []scoring.DaySummary `json:"summary"`
	Composite scoring.Composite    `json:"composite"`
	Stats     snapshot.Stats       `json:"stats"`
}

type TopPostsDTO struct {
	EntityID uint64           `json:"entity_id"`
	Day      string           `json:"day"`
	Posts    []map[string]any `json:"posts"`
}
