package service

import (
	"Influence/internal/api/dto"
	"Influence/internal/model"
	"Influence/internal/pkg/consts"
	"Influence/internal/pkg/platform"
	"Influence/internal/pkg/scoring"
	"Influence/internal/pkg/snapshot"
	"Influence/internal/repository"
	"context"
	log "log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type InteractionService interface {
	GetInteractionStats(ctx context.Context, entityID uint64, platformName string) (*dto.InteractionStatsDTO, error)
	GetScoreSummary(ctx context.Context, entityID uint64, platformName string) (*dto.ScoreSummaryDTO, error)
	GetTopPosts(ctx context.Context, entityID uint64, platformName string, day string, k int) (*dto.TopPostsDTO, error)
	GetRecentPosts(ctx context.Context, entityID uint64, n int) ([]map[string]any, error)
	InvalidateEntity(ctx context.Context, entityID uint64) error
}

type interactionServiceImpl struct {
	entityDBRepo  repository.EntityRepo
	pageDBRepo    repository.PageRepo
	historyDBRepo repository.PageHistoryRepo
	cache         Cache
	cacheTTL      time.Duration
}

func NewInteractionService(
	entityDBRepo repository.EntityRepo,
	pageDBRepo repository.PageRepo,
	historyDBRepo repository.PageHistoryRepo,
	cache Cache,
	cacheTTL time.Duration,
) InteractionService {
	return &interactionServiceImpl{
		entityDBRepo:  entityDBRepo,
		pageDBRepo:    pageDBRepo,
		historyDBRepo: historyDBRepo,
		cache:         cache,
		cacheTTL:      cacheTTL,
	}
}

// GetInteractionStats 按天列出帖子及相对上一个有数据的日期的增量
func (s *interactionServiceImpl) GetInteractionStats(ctx context.Context, entityID uint64, platformName string) (*dto.InteractionStatsDTO, error) {
	days, stats, err := s.gains(ctx, entityID, platformName)
	if err != nil {
		return nil, err
	}
	result := &dto.InteractionStatsDTO{
		EntityID: entityID,
		Days:     make([]dto.DayPostsDTO, 0, len(days)),
		Stats:    stats,
	}
	for _, day := range days {
		posts := make([]map[string]any, 0, len(day.Posts))
		for i := range day.Posts {
			posts = append(posts, day.Posts[i].Fields())
		}
		result.Days = append(result.Days, dto.DayPostsDTO{Day: day.Day, Posts: posts})
	}
	return result, nil
}

// GetScoreSummary 每日得分补齐缺失日期，综合分按原始得分计算
func (s *interactionServiceImpl) GetScoreSummary(ctx context.Context, entityID uint64, platformName string) (*dto.ScoreSummaryDTO, error) {
	days, stats, err := s.gains(ctx, entityID, platformName)
	if err != nil {
		return nil, err
	}
	summary, err := scoring.Summarize(days)
	if err != nil {
		return nil, err
	}
	composite, err := scoring.EntityComposite(summary)
	if err != nil {
		return nil, err
	}
	return &dto.ScoreSummaryDTO{
		EntityID:  entityID,
		Summary:   scoring.FillMissingScores(summary),
		Composite: composite,
		Stats:     stats,
	}, nil
}

// GetTopPosts day 为空时取最后一天，k 超出范围时取默认值或上限
func (s *interactionServiceImpl) GetTopPosts(ctx context.Context, entityID uint64, platformName string, day string, k int) (*dto.TopPostsDTO, error) {
	if k <= 0 {
		k = consts.DefaultTopPosts
	}
	if k > consts.MaxTopPosts {
		k = consts.MaxTopPosts
	}
	days, _, err := s.gains(ctx, entityID, platformName)
	if err != nil {
		return nil, err
	}

	var target snapshot.DayGains
	if day == "" {
		target = days[len(days)-1]
	} else {
		var ok bool
		if target, ok = scoring.FindDay(days, day); !ok {
			return nil, ErrEmptyResult
		}
	}

	ranked, err := scoring.TopPosts(target, k)
	if err != nil {
		return nil, err
	}
	posts := make([]map[string]any, 0, len(ranked))
	for i := range ranked {
		posts = append(posts, ranked[i].Fields())
	}
	return &dto.TopPostsDTO{EntityID: entityID, Day: target.Day, Posts: posts}, nil
}

// GetRecentPosts 各页面最新快照中发布时间最近的 n 个帖子，没有发布时间的帖子不参与
func (s *interactionServiceImpl) GetRecentPosts(ctx context.Context, entityID uint64, n int) ([]map[string]any, error) {
	if n <= 0 {
		n = consts.DefaultRecentPosts
	}
	if n > consts.MaxTopPosts {
		n = consts.MaxTopPosts
	}
	if err := s.checkEntity(ctx, entityID); err != nil {
		return nil, err
	}

	rows, err := s.historyDBRepo.GetLatestPerPage(ctx, []uint64{entityID})
	if err != nil {
		return nil, err
	}
	snaps, stats, err := snapshot.NormalizeAll(supportedOnly(ctx, toRaw(rows)))
	if err != nil {
		return nil, err
	}
	logStats(ctx, "normalize latest snapshots", stats)

	records := make([]snapshot.Record, 0)
	for _, r := range snapshot.Flatten(snaps) {
		if r.PostedAt != nil {
			records = append(records, r)
		}
	}
	if len(records) == 0 {
		return nil, ErrEmptyResult
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.PostedAt.Equal(*b.PostedAt) {
			return a.PostedAt.After(*b.PostedAt)
		}
		return a.PostID < b.PostID
	})
	if len(records) > n {
		records = records[:n]
	}

	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		fields := make(map[string]any, len(r.Fields)+4)
		for k, v := range r.Fields {
			fields[k] = v
		}
		fields["platform"] = string(r.Platform)
		fields["page_id"] = r.PageID
		fields["post_id"] = r.PostID
		fields["posted_at"] = r.PostedAt
		out = append(out, fields)
	}
	return out, nil
}

// InvalidateEntity 实体有新快照或页面变化时清理派生缓存
func (s *interactionServiceImpl) InvalidateEntity(ctx context.Context, entityID uint64) error {
	return s.cache.Delete(ctx, entityCacheKeys(entityID)...)
}

func (s *interactionServiceImpl) gains(ctx context.Context, entityID uint64, platformName string) ([]snapshot.DayGains, snapshot.Stats, error) {
	var stats snapshot.Stats
	raws, err := s.snapshots(ctx, entityID, platformName)
	if err != nil {
		return nil, stats, err
	}
	snaps, stats, err := snapshot.NormalizeAll(raws)
	if err != nil {
		return nil, stats, err
	}
	logStats(ctx, "normalize entity snapshots", stats)

	days, err := snapshot.ComputeGains(snaps)
	if err != nil {
		return nil, stats, err
	}
	if len(days) == 0 {
		return nil, stats, ErrEmptyResult
	}
	return days, stats, nil
}

// snapshots 按平台并发读取快照行，每个平台单独缓存
func (s *interactionServiceImpl) snapshots(ctx context.Context, entityID uint64, platformName string) ([]snapshot.Raw, error) {
	platforms, err := s.platforms(ctx, entityID, platformName)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	byPlatform := make(map[platform.Platform][]snapshot.Raw, len(platforms))
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range platforms {
		g.Go(func() error {
			raws, err := s.platformSnapshots(gctx, entityID, p)
			if err != nil {
				return err
			}
			mu.Lock()
			byPlatform[p] = raws
			mu.Unlock()
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	raws := make([]snapshot.Raw, 0)
	for _, p := range platforms {
		raws = append(raws, byPlatform[p]...)
	}
	if len(raws) == 0 {
		return nil, ErrEmptyResult
	}
	sort.SliceStable(raws, func(i, j int) bool {
		return raws[i].RecordedAt.Before(raws[j].RecordedAt)
	})
	return raws, nil
}

func (s *interactionServiceImpl) platformSnapshots(ctx context.Context, entityID uint64, p platform.Platform) ([]snapshot.Raw, error) {
	key := interactionCacheKey(entityID, p)
	var raws []snapshot.Raw
	hit, err := s.cache.GetJSON(ctx, key, &raws)
	if err != nil {
		log.WarnContext(ctx, "read interaction cache error", "key", key, "err", err)
	}
	if hit {
		return raws, nil
	}

	rows, err := s.historyDBRepo.GetEntitySnapshots(ctx, entityID, string(p), time.Time{})
	if err != nil {
		return nil, err
	}
	raws = toRaw(rows)
	if err = s.cache.SetJSON(ctx, key, raws, s.cacheTTL); err != nil {
		log.WarnContext(ctx, "write interaction cache error", "key", key, "err", err)
	}
	return raws, nil
}

// platforms 指定平台时校验注册表，否则取实体页面所在的全部平台
func (s *interactionServiceImpl) platforms(ctx context.Context, entityID uint64, platformName string) ([]platform.Platform, error) {
	if err := s.checkEntity(ctx, entityID); err != nil {
		return nil, err
	}
	if platformName != "" {
		p, err := platform.Parse(platformName)
		if err != nil {
			return nil, err
		}
		return []platform.Platform{p}, nil
	}

	pages, err := s.pageDBRepo.ListPagesByEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return pagePlatforms(ctx, pages), nil
}

func (s *interactionServiceImpl) checkEntity(ctx context.Context, entityID uint64) error {
	entity, err := s.entityDBRepo.GetEntityById(ctx, entityID)
	if err != nil {
		return err
	}
	if entity == nil {
		return ErrEntityNotFound
	}
	return nil
}

func pagePlatforms(ctx context.Context, pages []*model.Page) []platform.Platform {
	seen := make(map[platform.Platform]struct{})
	out := make([]platform.Platform, 0)
	for _, page := range pages {
		p, err := platform.Parse(page.Platform)
		if err != nil {
			log.WarnContext(ctx, "page on unsupported platform", "page_id", page.ID, "platform", page.Platform)
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// supportedOnly 丢弃未注册平台的快照，只记录日志
func supportedOnly(ctx context.Context, raws []snapshot.Raw) []snapshot.Raw {
	out := make([]snapshot.Raw, 0, len(raws))
	for _, r := range raws {
		if _, err := platform.Parse(r.Platform); err != nil {
			log.WarnContext(ctx, "skip snapshot of unsupported platform", "page_id", r.PageID, "platform", r.Platform)
			continue
		}
		out = append(out, r)
	}
	return out
}
