package job

import (
	"Influence/internal/pkg/logger"
	"Influence/internal/service"
	log "log/slog"
)

// CollectJob 依次采集所有配置了数据集的平台
type CollectJob struct {
	collectionSvc service.CollectionService
}

func NewCollectJob(collectionSvc service.CollectionService) *CollectJob {
	return &CollectJob{collectionSvc: collectionSvc}
}

func (s *CollectJob) Run() {
	ctx := logger.NewJobContext("collect")

	for _, p := range s.collectionSvc.Platforms() {
		run, err := s.collectionSvc.Collect(ctx, string(p))
		if err != nil {
			log.ErrorContext(ctx, "collect platform error", "platform", p, "err", err)
			continue
		}
		log.InfoContext(ctx, "collect platform success",
			"platform", p,
			"run_id", run.ID,
			"matched", run.Matched,
			"unmatched", len(run.Unmatched))
	}
}
