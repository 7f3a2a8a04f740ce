package service

import (
	"Influence/internal/model"
	"Influence/internal/pkg/collector"
	"Influence/internal/pkg/consts"
	"Influence/internal/pkg/minio"
	"Influence/internal/pkg/platform"
	"Influence/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"gorm.io/datatypes"
)

const (
	collectLockTTL = 2 * time.Hour
	defaultRunList = 20
)

// Collector 外部采集接口，由 collector.Client 实现
type Collector interface {
	DatasetID(p platform.Platform) (string, bool)
	Platforms() []platform.Platform
	Trigger(ctx context.Context, p platform.Platform, urls []string) (string, error)
	WaitUntilReady(ctx context.Context, snapshotID string) error
	Download(ctx context.Context, snapshotID string) ([]byte, error)
}

type CollectionService interface {
	Collect(ctx context.Context, platformName string) (*model.CollectionRun, error)
	ListRuns(ctx context.Context, platformName string, limit int) ([]*model.CollectionRun, error)
	Platforms() []platform.Platform
}

type collectionServiceImpl struct {
	collector     Collector
	pageDBRepo    repository.PageRepo
	historyDBRepo repository.PageHistoryRepo
	runDBRepo     repository.CollectionRunRepo
	cache         Cache
	store         ObjectStore
}

func NewCollectionService(
	collector Collector,
	pageDBRepo repository.PageRepo,
	historyDBRepo repository.PageHistoryRepo,
	runDBRepo repository.CollectionRunRepo,
	cache Cache,
	store ObjectStore,
) CollectionService {
	return &collectionServiceImpl{
		collector:     collector,
		pageDBRepo:    pageDBRepo,
		historyDBRepo: historyDBRepo,
		runDBRepo:     runDBRepo,
		cache:         cache,
		store:         store,
	}
}

// Collect 采集平台上所有页面，结果按链接匹配写入快照
// 没有匹配到结果的页面记录在本次运行中，不视为失败
func (s *collectionServiceImpl) Collect(ctx context.Context, platformName string) (*model.CollectionRun, error) {
	p, err := platform.Parse(platformName)
	if err != nil {
		return nil, err
	}
	if _, ok := s.collector.DatasetID(p); !ok {
		return nil, ErrCollectorNotConfigured
	}

	unlock, ok, err := s.cache.Lock(ctx, consts.CollectLock+string(p), collectLockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCollectionRunning
	}
	defer unlock()

	pages, err := s.pageDBRepo.ListPagesByPlatform(ctx, string(p))
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrEmptyResult
	}

	run := &model.CollectionRun{
		Platform:  string(p),
		Status:    collector.StatusRunning,
		Pages:     len(pages),
		StartedAt: time.Now(),
	}
	if err = s.runDBRepo.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	if err = s.collect(ctx, p, pages, run); err != nil {
		log.ErrorContext(ctx, "collection failed", "platform", p, "run_id", run.ID, "err", err)
		run.Status = collector.StatusFailed
		run.Error = err.Error()
	} else {
		run.Status = collector.StatusReady
	}
	finished := time.Now()
	run.FinishedAt = &finished
	if updateErr := s.runDBRepo.UpdateRun(context.WithoutCancel(ctx), run); updateErr != nil {
		log.ErrorContext(ctx, "update collection run error", "run_id", run.ID, "err", updateErr)
	}
	if err != nil {
		return run, err
	}

	log.InfoContext(ctx, "collection finished",
		"platform", p,
		"run_id", run.ID,
		"pages", run.Pages,
		"matched", run.Matched,
		"unmatched", len(run.Unmatched),
	)
	return run, nil
}

func (s *collectionServiceImpl) collect(ctx context.Context, p platform.Platform, pages []*model.Page, run *model.CollectionRun) error {
	urls := make([]string, 0, len(pages))
	for _, page := range pages {
		urls = append(urls, page.Link)
	}

	snapshotID, err := s.collector.Trigger(ctx, p, urls)
	if err != nil {
		return err
	}
	run.SnapshotID = snapshotID
	if err = s.collector.WaitUntilReady(ctx, snapshotID); err != nil {
		return err
	}
	data, err := s.collector.Download(ctx, snapshotID)
	if err != nil {
		return err
	}

	recordedAt := time.Now().UTC()
	key, err := s.store.PutObject(ctx, minio.RawObjectKey(string(p), recordedAt), data, "application/json")
	if err != nil {
		return err
	}
	run.ArchiveKey = key

	results, err := collector.ParseResults(data)
	if err != nil {
		return err
	}
	byLink := make(map[string]collector.Result, len(results))
	for _, r := range results {
		k := collector.MatchKey(r.URL)
		if _, ok := byLink[k]; !ok {
			byLink[k] = r
		}
	}

	histories := make([]*model.PageHistory, 0, len(pages))
	dirty := make([]string, 0, len(pages))
	unmatched := make(model.StringList, 0)
	for _, page := range pages {
		r, ok := byLink[collector.MatchKey(page.Link)]
		if !ok {
			unmatched = append(unmatched, page.Link)
			continue
		}
		histories = append(histories, &model.PageHistory{
			PageID:     page.ID,
			Data:       datatypes.JSON(r.Raw),
			RecordedAt: recordedAt,
		})
		dirty = append(dirty, strconv.FormatUint(page.ID, 10))
	}
	run.Matched = len(histories)
	run.Unmatched = unmatched
	if len(unmatched) > 0 {
		log.WarnContext(ctx, "pages without collection result", "platform", p, "links", []string(unmatched))
	}
	if len(histories) == 0 {
		return nil
	}

	if err = s.historyDBRepo.CreateHistory(ctx, histories); err != nil {
		return err
	}
	if err = s.cache.AddToSet(ctx, consts.PageHistoryDirtyKey, dirty...); err != nil {
		log.WarnContext(ctx, "mark pages dirty error", "err", err)
	}
	return nil
}

func (s *collectionServiceImpl) ListRuns(ctx context.Context, platformName string, limit int) ([]*model.CollectionRun, error) {
	if platformName != "" {
		p, err := platform.Parse(platformName)
		if err != nil {
			return nil, err
		}
		platformName = string(p)
	}
	if limit <= 0 || limit > maxSearchSize {
		limit = defaultRunList
	}
	return s.runDBRepo.ListRecentRuns(ctx, platformName, limit)
}

// Platforms 已配置数据集的平台
func (s *collectionServiceImpl) Platforms() []platform.Platform {
	return s.collector.Platforms()
}
