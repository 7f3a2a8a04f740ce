package service

import (
	"Influence/internal/api/dto"
	"Influence/internal/model"
	"Influence/internal/pkg/consts"
	"Influence/internal/pkg/es"
	"Influence/internal/pkg/platform"
	"Influence/internal/pkg/util"
	"Influence/internal/repository"
	"context"
	log "log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/jinzhu/copier"
)

const (
	defaultSearchSize = 20
	maxSearchSize     = 100
)

type EntityService interface {
	AddEntity(ctx context.Context, entityDTO *dto.CreateEntityDTO) (*dto.EntityDTO, error)
	ListEntities(ctx context.Context) ([]*dto.EntityDTO, error)
	GetEntity(ctx context.Context, id uint64) (*dto.EntityDTO, error)
	DeleteEntity(ctx context.Context, id uint64) error
	SearchEntities(ctx context.Context, prefix string, cursor string, size int) (*dto.EntitySearchDTO, error)
	GetProfileCard(ctx context.Context, id uint64) (*dto.ProfileCardDTO, error)
}

type entityServiceImpl struct {
	entityDBRepo   repository.EntityRepo
	categoryDBRepo repository.CategoryRepo
	historyDBRepo  repository.PageHistoryRepo
	entityESRepo   es.EntityRepo
	cache          Cache
	cacheTTL       time.Duration
}

func NewEntityService(
	entityDBRepo repository.EntityRepo,
	categoryDBRepo repository.CategoryRepo,
	historyDBRepo repository.PageHistoryRepo,
	entityESRepo es.EntityRepo,
	cache Cache,
	cacheTTL time.Duration,
) EntityService {
	return &entityServiceImpl{
		entityDBRepo:   entityDBRepo,
		categoryDBRepo: categoryDBRepo,
		historyDBRepo:  historyDBRepo,
		entityESRepo:   entityESRepo,
		cache:          cache,
		cacheTTL:       cacheTTL,
	}
}

// AddEntity 名称和类型统一小写去空白，名称重复返回 ErrEntityExist
func (s *entityServiceImpl) AddEntity(ctx context.Context, entityDTO *dto.CreateEntityDTO) (*dto.EntityDTO, error) {
	name := util.NormalizeName(entityDTO.Name)
	entityType := util.NormalizeName(entityDTO.Type)
	if name == "" {
		return nil, ErrParamInvalid
	}
	if !consts.IsEntityType(entityType) {
		return nil, ErrEntityTypeInvalid
	}

	exist, err := s.entityDBRepo.GetEntityByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEntityExist
	}

	var category *model.Category
	if entityDTO.CategoryID != nil {
		category, err = s.categoryDBRepo.GetCategoryById(ctx, *entityDTO.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
	}

	entity := &model.Entity{Name: name, Type: entityType}
	if err = s.entityDBRepo.CreateEntity(ctx, entity, entityDTO.CategoryID); err != nil {
		return nil, err
	}

	doc := &es.EntityES{
		ID:         entity.ID,
		Name:       entity.Name,
		Type:       entity.Type,
		Categories: []string{},
		Platforms:  []string{},
		CreatedAt:  entity.CreatedAt,
	}
	if category != nil {
		entity.Categories = []model.Category{*category}
		doc.Categories = append(doc.Categories, category.Name)
	}
	if err = s.entityESRepo.IndexEntity(ctx, doc); err != nil {
		log.ErrorContext(ctx, "index entity error", "entity_id", entity.ID, "err", err)
	}

	s.dropRanking(ctx)
	return toEntityDTO(entity)
}

func (s *entityServiceImpl) ListEntities(ctx context.Context) ([]*dto.EntityDTO, error) {
	entities, err := s.entityDBRepo.ListEntities(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.EntityDTO, 0, len(entities))
	for _, e := range entities {
		d, err := toEntityDTO(e)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *entityServiceImpl) GetEntity(ctx context.Context, id uint64) (*dto.EntityDTO, error) {
	entity, err := s.entityDBRepo.GetEntityById(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrEntityNotFound
	}
	return toEntityDTO(entity)
}

// DeleteEntity 级联删除页面、快照和分类关联
func (s *entityServiceImpl) DeleteEntity(ctx context.Context, id uint64) error {
	entity, err := s.entityDBRepo.GetEntityById(ctx, id)
	if err != nil {
		return err
	}
	if entity == nil {
		return ErrEntityNotFound
	}
	if err = s.entityDBRepo.DeleteEntity(ctx, id); err != nil {
		return err
	}
	if err = s.entityESRepo.DeleteEntity(ctx, id); err != nil {
		log.ErrorContext(ctx, "unindex entity error", "entity_id", id, "err", err)
	}
	if err = s.cache.Delete(ctx, entityCacheKeys(id)...); err != nil {
		log.WarnContext(ctx, "drop entity cache error", "entity_id", id, "err", err)
	}
	s.dropRanking(ctx)
	return nil
}

// SearchEntities 名称前缀搜索，cursor 为上一页返回的游标
func (s *entityServiceImpl) SearchEntities(ctx context.Context, prefix string, cursor string, size int) (*dto.EntitySearchDTO, error) {
	prefix = util.NormalizeName(prefix)
	if prefix == "" {
		return nil, ErrParamInvalid
	}
	if size <= 0 {
		size = defaultSearchSize
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}
	after, err := util.DecodeCursor(cursor)
	if err != nil {
		return nil, ErrParamInvalid
	}

	docs, err := s.entityESRepo.SearchByPrefix(ctx, prefix, after, size)
	if err != nil {
		return nil, err
	}

	result := &dto.EntitySearchDTO{Items: make([]*dto.EntityBriefDTO, 0, len(docs))}
	for _, d := range docs {
		brief := &dto.EntityBriefDTO{}
		if err = copier.Copy(brief, d); err != nil {
			return nil, err
		}
		result.Items = append(result.Items, brief)
	}
	if len(docs) == size {
		result.Cursor = util.EncodeCursor(docs[len(docs)-1].Sort)
	}
	return result, nil
}

// GetProfileCard 每个页面最新快照中的粉丝数、头像和简介
func (s *entityServiceImpl) GetProfileCard(ctx context.Context, id uint64) (*dto.ProfileCardDTO, error) {
	key := consts.EntityProfileKey + strconv.FormatUint(id, 10)
	card := &dto.ProfileCardDTO{}
	hit, err := s.cache.GetJSON(ctx, key, card)
	if err != nil {
		log.WarnContext(ctx, "read profile cache error", "key", key, "err", err)
	}
	if hit {
		return card, nil
	}

	entity, err := s.entityDBRepo.GetEntityById(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrEntityNotFound
	}

	rows, err := s.historyDBRepo.GetLatestPerPage(ctx, []uint64{id})
	if err != nil {
		return nil, err
	}
	followerRows := toFollowerRows(ctx, rows)
	if len(followerRows) == 0 {
		return nil, ErrEmptyResult
	}

	// 同一平台多个页面时保留粉丝最多的页面
	sort.SliceStable(followerRows, func(i, j int) bool {
		return followersOf(followerRows[i].Followers) > followersOf(followerRows[j].Followers)
	})
	card = &dto.ProfileCardDTO{
		EntityID:   entity.ID,
		EntityName: entity.Name,
		Platforms:  make(map[platform.Platform]*dto.ProfileDTO),
	}
	for _, r := range followerRows {
		card.TotalFollowers += followersOf(r.Followers)
		if _, ok := card.Platforms[r.Platform]; ok {
			continue
		}
		card.Platforms[r.Platform] = &dto.ProfileDTO{
			PageID:          r.PageID,
			PageURL:         r.PageURL,
			Followers:       r.Followers,
			ProfileImageURL: r.ProfileURL,
			Biography:       r.Biography,
			RecordedAt:      r.RecordedAt,
		}
	}

	if err = s.cache.SetJSON(ctx, key, card, s.cacheTTL); err != nil {
		log.WarnContext(ctx, "write profile cache error", "key", key, "err", err)
	}
	return card, nil
}

func (s *entityServiceImpl) dropRanking(ctx context.Context) {
	if err := s.cache.Delete(ctx, consts.RankingCacheKey); err != nil {
		log.WarnContext(ctx, "drop ranking cache error", "err", err)
	}
}

func followersOf(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}

func toEntityDTO(entity *model.Entity) (*dto.EntityDTO, error) {
	out := &dto.EntityDTO{}
	if err := copier.Copy(out, entity); err != nil {
		return nil, err
	}
	return out, nil
}
