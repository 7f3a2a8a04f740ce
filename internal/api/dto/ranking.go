package dto

import (
	"Influence/internal/pkg/ranking"
	"time"
)

// RankingExportDTO 每日导出到对象存储的排行
type RankingExportDTO struct {
	Day         string                 `json:"day"`
	GeneratedAt time.Time              `json:"generated_at"`
	Entities    []ranking.RankedEntity `json:"entities"`
}

type CompetitorRankingDTO struct {
	EntityIDs []uint64 `json:"entity_ids" validate:"required,min=1,max=100"`
}

type CollectDTO struct {
	Platform string `json:"platform" validate:"required,platform"`
}
