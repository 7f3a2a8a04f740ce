package job

import (
	"Influence/internal/pkg/logger"
	"Influence/internal/pkg/snapshot"
	"Influence/internal/service"
	log "log/slog"
	"time"
)

// RankingRefreshJob 重建粉丝排名，并导出前一天的排名
type RankingRefreshJob struct {
	rankingSvc service.RankingService
}

func NewRankingRefreshJob(rankingSvc service.RankingService) *RankingRefreshJob {
	return &RankingRefreshJob{rankingSvc: rankingSvc}
}

func (s *RankingRefreshJob) Run() {
	ctx := logger.NewJobContext("ranking")

	if err := s.rankingSvc.RefreshRanking(ctx); err != nil {
		log.ErrorContext(ctx, "refresh ranking error", "err", err)
		return
	}

	day := snapshot.DayOf(time.Now().AddDate(0, 0, -1))
	if err := s.rankingSvc.ExportRanking(ctx, day); err != nil {
		log.ErrorContext(ctx, "export ranking error", "day", day, "err", err)
	}
}
