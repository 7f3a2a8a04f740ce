package service

import (
	"Influence/internal/api/dto"
	"Influence/internal/pkg/consts"
	"Influence/internal/pkg/minio"
	"Influence/internal/pkg/ranking"
	"Influence/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

type RankingService interface {
	GetRanking(ctx context.Context, viewer ranking.Viewer) ([]ranking.RankedEntity, error)
	GetCategoryRanking(ctx context.Context, categoryID uint64) ([]ranking.RankedEntity, error)
	GetCompetitorRanking(ctx context.Context, entityIDs []uint64) ([]ranking.RankedEntity, error)
	GetRootCategoryRanking(ctx context.Context, viewer ranking.Viewer) ([]ranking.RootGroup, error)
	GetLeaderboard(ctx context.Context, n int) ([]ranking.RankedEntity, error)
	RefreshRanking(ctx context.Context) error
	ExportRanking(ctx context.Context, day string) error
	GetExportedRanking(ctx context.Context, day string) (*dto.RankingExportDTO, error)
}

// rankingSnapshot 一次完整计算的排名及其分类信息
type rankingSnapshot struct {
	Entities    []ranking.RankedEntity `json:"entities"`
	Memberships []ranking.Membership   `json:"memberships"`
	Categories  []ranking.Category     `json:"categories"`
	BuiltAt     time.Time              `json:"built_at"`
}

type rankingServiceImpl struct {
	categoryDBRepo repository.CategoryRepo
	historyDBRepo  repository.PageHistoryRepo
	cache          Cache
	store          ObjectStore
	publicTopN     int
	cacheTTL       time.Duration
	group          singleflight.Group
}

func NewRankingService(
	categoryDBRepo repository.CategoryRepo,
	historyDBRepo repository.PageHistoryRepo,
	cache Cache,
	store ObjectStore,
	publicTopN int,
	cacheTTL time.Duration,
) RankingService {
	if publicTopN <= 0 {
		publicTopN = ranking.DefaultPublicTopN
	}
	return &rankingServiceImpl{
		categoryDBRepo: categoryDBRepo,
		historyDBRepo:  historyDBRepo,
		cache:          cache,
		store:          store,
		publicTopN:     publicTopN,
		cacheTTL:       cacheTTL,
	}
}

// GetRanking 全部实体的粉丝排名，非特权用户只能看到公开视图
func (s *rankingServiceImpl) GetRanking(ctx context.Context, viewer ranking.Viewer) ([]ranking.RankedEntity, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(snap.Entities) == 0 {
		return nil, ErrEmptyResult
	}
	return ranking.ApplyVisibility(viewer, snap.Entities, snap.Memberships, s.publicTopN), nil
}

// GetCategoryRanking 分类及其子分类内的实体重新排名
func (s *rankingServiceImpl) GetCategoryRanking(ctx context.Context, categoryID uint64) ([]ranking.RankedEntity, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	tree := ranking.NewTree(snap.Categories)
	if _, ok := tree.Get(categoryID); !ok {
		return nil, ErrCategoryNotFound
	}
	out := ranking.Filter(snap.Entities, tree.EntitiesIn(categoryID, snap.Memberships))
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	return out, nil
}

func (s *rankingServiceImpl) GetCompetitorRanking(ctx context.Context, entityIDs []uint64) ([]ranking.RankedEntity, error) {
	if len(entityIDs) == 0 {
		return nil, ErrParamInvalid
	}
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := ranking.Filter(snap.Entities, entityIDs)
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	return out, nil
}

// GetRootCategoryRanking 按顶层分类分组排名，公开视图在每个分组内单独计算
func (s *rankingServiceImpl) GetRootCategoryRanking(ctx context.Context, viewer ranking.Viewer) ([]ranking.RootGroup, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	tree := ranking.NewTree(snap.Categories)
	groups := ranking.GroupByRoot(snap.Entities, snap.Memberships, tree)
	if len(groups) == 0 {
		return nil, ErrEmptyResult
	}
	if viewer.Privileged() {
		return groups, nil
	}

	for i := range groups {
		scope := make(map[uint64]struct{})
		for _, id := range tree.Descendants(groups[i].RootID) {
			scope[id] = struct{}{}
		}
		memberships := make([]ranking.Membership, 0)
		for _, m := range snap.Memberships {
			if _, ok := scope[m.CategoryID]; ok {
				memberships = append(memberships, m)
			}
		}
		groups[i].Entities = ranking.PublicView(groups[i].Entities, memberships, s.publicTopN)
	}
	return groups, nil
}

// GetLeaderboard 从排行榜 ZSET 读取前 n 名，ZSET 为空时退回完整排名
func (s *rankingServiceImpl) GetLeaderboard(ctx context.Context, n int) ([]ranking.RankedEntity, error) {
	if n <= 0 {
		n = s.publicTopN
	}
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(snap.Entities) == 0 {
		return nil, ErrEmptyResult
	}

	members, err := s.cache.TopOfBoard(ctx, consts.RankingBoardKey, int64(n))
	if err != nil {
		log.WarnContext(ctx, "read ranking board error", "err", err)
	}
	if board := boardEntities(snap.Entities, members, n); len(board) > 0 {
		return board, nil
	}
	if len(snap.Entities) > n {
		return snap.Entities[:n], nil
	}
	return snap.Entities, nil
}

// boardEntities 按排名快照的顺序输出 ZSET 中的成员
// ZSET 对同分成员按成员名倒序，边界上的并列按快照顺序（名称、id）补齐
func boardEntities(ordered []ranking.RankedEntity, members []string, n int) []ranking.RankedEntity {
	followers := make(map[uint64]int64, len(ordered))
	for _, e := range ordered {
		followers[e.EntityID] = e.TotalFollowers
	}
	onBoard := make(map[uint64]struct{}, len(members))
	var lowest int64
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		total, ok := followers[id]
		if !ok {
			continue
		}
		if len(onBoard) == 0 || total < lowest {
			lowest = total
		}
		onBoard[id] = struct{}{}
	}
	if len(onBoard) == 0 {
		return nil
	}

	out := make([]ranking.RankedEntity, 0, len(onBoard))
	for _, e := range ordered {
		if len(out) == n {
			break
		}
		if _, ok := onBoard[e.EntityID]; ok || e.TotalFollowers == lowest {
			out = append(out, e)
		}
	}
	return out
}

// RefreshRanking 重新计算排名，写入缓存和排行榜
func (s *rankingServiceImpl) RefreshRanking(ctx context.Context) error {
	unlock, ok, err := s.cache.Lock(ctx, consts.RankingRefreshLock, time.Minute)
	if err != nil {
		return err
	}
	if !ok {
		log.InfoContext(ctx, "ranking refresh is running elsewhere")
		return nil
	}
	defer unlock()

	snap, err := s.build(ctx)
	if err != nil {
		return err
	}
	if err = s.cache.SetJSON(ctx, consts.RankingCacheKey, snap, s.cacheTTL); err != nil {
		return err
	}

	scores := make(map[string]float64, len(snap.Entities))
	for _, e := range snap.Entities {
		scores[strconv.FormatUint(e.EntityID, 10)] = float64(e.TotalFollowers)
	}
	if err = s.cache.ReplaceBoard(ctx, consts.RankingBoardKey, scores); err != nil {
		return err
	}
	log.InfoContext(ctx, "ranking refreshed", "entities", len(snap.Entities))
	return nil
}

// ExportRanking 将某天的完整排名归档到对象存储，每天只导出一次
func (s *rankingServiceImpl) ExportRanking(ctx context.Context, day string) error {
	doneKey := consts.RankingExportedKey + day
	var done bool
	if hit, err := s.cache.GetJSON(ctx, doneKey, &done); err != nil {
		log.WarnContext(ctx, "read export marker error", "key", doneKey, "err", err)
	} else if hit && done {
		return nil
	}

	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(&dto.RankingExportDTO{
		Day:         day,
		GeneratedAt: snap.BuiltAt,
		Entities:    snap.Entities,
	})
	if err != nil {
		return err
	}
	key, err := s.store.PutObject(ctx, minio.RankingObjectKey(day), data, "application/json")
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "ranking exported", "day", day, "object", key, "entities", len(snap.Entities))

	if err = s.cache.SetJSON(ctx, doneKey, true, 48*time.Hour); err != nil {
		log.WarnContext(ctx, "write export marker error", "key", doneKey, "err", err)
	}
	return nil
}

// load 优先读缓存，未命中时合并并发请求只计算一次
func (s *rankingServiceImpl) load(ctx context.Context) (*rankingSnapshot, error) {
	snap := &rankingSnapshot{}
	hit, err := s.cache.GetJSON(ctx, consts.RankingCacheKey, snap)
	if err != nil {
		log.WarnContext(ctx, "read ranking cache error", "err", err)
	}
	if hit {
		return snap, nil
	}

	v, err, _ := s.group.Do(consts.RankingCacheKey, func() (interface{}, error) {
		built, err := s.build(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetJSON(ctx, consts.RankingCacheKey, built, s.cacheTTL); err != nil {
			log.WarnContext(ctx, "write ranking cache error", "err", err)
		}
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*rankingSnapshot), nil
}

func (s *rankingServiceImpl) build(ctx context.Context) (*rankingSnapshot, error) {
	rows, err := s.historyDBRepo.GetLatestPerPage(ctx, nil)
	if err != nil {
		return nil, err
	}
	categoryRows, err := s.categoryDBRepo.GetCategoryRows(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryDBRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	memberships := toMemberships(categoryRows)
	entities := ranking.RankByFollowers(toFollowerRows(ctx, rows))
	ranking.Annotate(entities, memberships)
	return &rankingSnapshot{
		Entities:    entities,
		Memberships: memberships,
		Categories:  toCategories(categories),
		BuiltAt:     time.Now().UTC(),
	}, nil
}

// GetExportedRanking 读取某天归档的排名，未导出时返回 ErrEmptyResult
func (s *rankingServiceImpl) GetExportedRanking(ctx context.Context, day string) (*dto.RankingExportDTO, error) {
	data, err := s.store.GetObject(ctx, minio.RankingObjectKey(day))
	if err != nil {
		if errors.Is(err, minio.ErrObjectNotFound) {
			return nil, ErrEmptyResult
		}
		return nil, err
	}
	var export dto.RankingExportDTO
	if err = json.Unmarshal(data, &export); err != nil {
		return nil, err
	}
	return &export, nil
}
