package service

import (
	"Influence/internal/api/dto"
	"Influence/internal/pkg/platform"
	"Influence/internal/pkg/ranking"
	"Influence/internal/pkg/scoring"
	"Influence/internal/pkg/snapshot"
	"Influence/internal/repository"
	"context"
	"sort"
	"time"
)

type FollowerService interface {
	GetFollowersHistory(ctx context.Context, entityID uint64) (dto.FollowerGraph, error)
	GetFollowersComparison(ctx context.Context, entityID uint64) (dto.FollowerGraph, error)
	CompareEntities(ctx context.Context, entityIDs []uint64) (dto.FollowerGraph, error)
	GetFollowersSeries(ctx context.Context, entityID uint64) ([]scoring.Point, error)
}

type followerServiceImpl struct {
	entityDBRepo   repository.EntityRepo
	categoryDBRepo repository.CategoryRepo
	historyDBRepo  repository.PageHistoryRepo
}

func NewFollowerService(
	entityDBRepo repository.EntityRepo,
	categoryDBRepo repository.CategoryRepo,
	historyDBRepo repository.PageHistoryRepo,
) FollowerService {
	return &followerServiceImpl{
		entityDBRepo:   entityDBRepo,
		categoryDBRepo: categoryDBRepo,
		historyDBRepo:  historyDBRepo,
	}
}

func (s *followerServiceImpl) GetFollowersHistory(ctx context.Context, entityID uint64) (dto.FollowerGraph, error) {
	if err := s.checkEntity(ctx, entityID); err != nil {
		return nil, err
	}
	return s.graph(ctx, []uint64{entityID})
}

// GetFollowersComparison 与该实体至少共享一个分类的所有实体
func (s *followerServiceImpl) GetFollowersComparison(ctx context.Context, entityID uint64) (dto.FollowerGraph, error) {
	if err := s.checkEntity(ctx, entityID); err != nil {
		return nil, err
	}
	categoryIDs, err := s.categoryDBRepo.GetCategoryIdsByEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	shared := make(map[uint64]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		shared[id] = struct{}{}
	}

	ids := []uint64{entityID}
	if len(shared) > 0 {
		rows, err := s.categoryDBRepo.GetCategoryRows(ctx)
		if err != nil {
			return nil, err
		}
		seen := map[uint64]struct{}{entityID: {}}
		for _, r := range rows {
			if _, ok := shared[r.CategoryID]; !ok {
				continue
			}
			if _, ok := seen[r.EntityID]; ok {
				continue
			}
			seen[r.EntityID] = struct{}{}
			ids = append(ids, r.EntityID)
		}
	}
	return s.graph(ctx, ids)
}

func (s *followerServiceImpl) CompareEntities(ctx context.Context, entityIDs []uint64) (dto.FollowerGraph, error) {
	if len(entityIDs) == 0 {
		return nil, ErrParamInvalid
	}
	entities, err := s.entityDBRepo.GetEntitiesByIds(ctx, entityIDs)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, ErrEntityNotFound
	}
	ids := make([]uint64, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID)
	}
	return s.graph(ctx, ids)
}

// GetFollowersSeries 每天各平台粉丝数之和，没有快照的日期按前后有效值补齐
func (s *followerServiceImpl) GetFollowersSeries(ctx context.Context, entityID uint64) ([]scoring.Point, error) {
	if err := s.checkEntity(ctx, entityID); err != nil {
		return nil, err
	}
	rows, err := s.historyDBRepo.GetHistoryByEntities(ctx, []uint64{entityID})
	if err != nil {
		return nil, err
	}
	records := dailyFollowers(toFollowerRows(ctx, rows))
	if len(records) == 0 {
		return nil, ErrEmptyResult
	}

	totals := make(map[string]float64)
	for _, r := range records[entityID] {
		totals[r.Date] += float64(r.Followers)
	}
	return scoring.InterpolatePoints(calendar(totals)), nil
}

// graph 以实体名为键，丢弃没有粉丝数的快照
func (s *followerServiceImpl) graph(ctx context.Context, entityIDs []uint64) (dto.FollowerGraph, error) {
	rows, err := s.historyDBRepo.GetHistoryByEntities(ctx, entityIDs)
	if err != nil {
		return nil, err
	}
	followerRows := toFollowerRows(ctx, rows)
	names := make(map[uint64]string, len(entityIDs))
	for _, r := range followerRows {
		names[r.EntityID] = r.EntityName
	}

	records := dailyFollowers(followerRows)
	if len(records) == 0 {
		return nil, ErrEmptyResult
	}
	graph := make(dto.FollowerGraph, len(records))
	for id, list := range records {
		graph[names[id]] = &dto.FollowerSeriesDTO{EntityID: id, Records: list}
	}
	return graph, nil
}

func (s *followerServiceImpl) checkEntity(ctx context.Context, entityID uint64) error {
	entity, err := s.entityDBRepo.GetEntityById(ctx, entityID)
	if err != nil {
		return err
	}
	if entity == nil {
		return ErrEntityNotFound
	}
	return nil
}

// dailyFollowers 每个页面每天取最后一次快照，同一平台的页面相加
func dailyFollowers(rows []ranking.FollowerRow) map[uint64][]dto.FollowerRecordDTO {
	type pageDay struct {
		page string
		day  string
	}
	type platformDay struct {
		entity   uint64
		platform platform.Platform
		day      string
	}

	latest := make(map[pageDay]ranking.FollowerRow)
	for _, r := range rows {
		if r.Followers == nil {
			continue
		}
		k := pageDay{page: string(r.Platform) + "|" + r.PageID, day: snapshot.DayOf(r.RecordedAt)}
		if prev, ok := latest[k]; !ok || !r.RecordedAt.Before(prev.RecordedAt) {
			latest[k] = r
		}
	}

	sums := make(map[platformDay]int64)
	for k, r := range latest {
		sums[platformDay{entity: r.EntityID, platform: r.Platform, day: k.day}] += *r.Followers
	}

	out := make(map[uint64][]dto.FollowerRecordDTO)
	for k, n := range sums {
		out[k.entity] = append(out[k.entity], dto.FollowerRecordDTO{
			Date:      k.day,
			Platform:  string(k.platform),
			Followers: n,
		})
	}
	for _, list := range out {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Date != list[j].Date {
				return list[i].Date < list[j].Date
			}
			return list[i].Platform < list[j].Platform
		})
	}
	return out
}

// calendar 从第一天到最后一天逐日展开，缺失的日期值为 nil
func calendar(values map[string]float64) []scoring.Point {
	if len(values) == 0 {
		return nil
	}
	days := make([]string, 0, len(values))
	for d := range values {
		days = append(days, d)
	}
	sort.Strings(days)

	first, err := time.Parse(time.DateOnly, days[0])
	if err != nil {
		return pointsOf(days, values)
	}
	last, err := time.Parse(time.DateOnly, days[len(days)-1])
	if err != nil {
		return pointsOf(days, values)
	}

	points := make([]scoring.Point, 0, int(last.Sub(first).Hours()/24)+1)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		day := d.Format(time.DateOnly)
		p := scoring.Point{Date: day}
		if v, ok := values[day]; ok {
			p.Value = &v
		}
		points = append(points, p)
	}
	return points
}

func pointsOf(days []string, values map[string]float64) []scoring.Point {
	points := make([]scoring.Point, 0, len(days))
	for _, d := range days {
		v := values[d]
		points = append(points, scoring.Point{Date: d, Value: &v})
	}
	return points
}

