package service

import (
	"Influence/internal/api/dto"
	"Influence/internal/model"
	"Influence/internal/pkg/consts"
	"Influence/internal/pkg/es"
	"Influence/internal/pkg/platform"
	"Influence/internal/repository"
	"context"
	log "log/slog"
	"sort"
	"strings"

	"github.com/jinzhu/copier"
)

type PageService interface {
	AddPage(ctx context.Context, pageDTO *dto.CreatePageDTO) (*dto.PageDTO, error)
	ListPages(ctx context.Context, platformName string, entityID uint64) ([]*dto.PageDTO, error)
	DeletePage(ctx context.Context, id uint64) error
}

type pageServiceImpl struct {
	pageDBRepo   repository.PageRepo
	entityDBRepo repository.EntityRepo
	entityESRepo es.EntityRepo
	cache        Cache
}

func NewPageService(pageDBRepo repository.PageRepo, entityDBRepo repository.EntityRepo, entityESRepo es.EntityRepo, cache Cache) PageService {
	return &pageServiceImpl{
		pageDBRepo:   pageDBRepo,
		entityDBRepo: entityDBRepo,
		entityESRepo: entityESRepo,
		cache:        cache,
	}
}

// AddPage 平台必须在注册表中，uuid 由平台和链接确定
func (s *pageServiceImpl) AddPage(ctx context.Context, pageDTO *dto.CreatePageDTO) (*dto.PageDTO, error) {
	p, err := platform.Parse(pageDTO.Platform)
	if err != nil {
		return nil, err
	}
	link := strings.TrimSpace(pageDTO.Link)
	if link == "" {
		return nil, ErrParamInvalid
	}

	entity, err := s.entityDBRepo.GetEntityById(ctx, pageDTO.EntityID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrEntityNotFound
	}

	exist, err := s.pageDBRepo.GetPageByLink(ctx, link)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrPageExist
	}

	page := &model.Page{
		UUID:     model.PageUUID(p, link),
		Name:     strings.TrimSpace(pageDTO.Name),
		Link:     link,
		Platform: string(p),
		EntityID: entity.ID,
	}
	if exist, err = s.pageDBRepo.GetPageByUUID(ctx, page.UUID); err != nil {
		return nil, err
	} else if exist != nil {
		return nil, ErrPageExist
	}
	if err = s.pageDBRepo.CreatePage(ctx, page); err != nil {
		return nil, err
	}

	entity.Pages = append(entity.Pages, *page)
	s.reindex(ctx, entity)
	s.invalidate(ctx, entity.ID)
	return toPageDTO(page)
}

func (s *pageServiceImpl) ListPages(ctx context.Context, platformName string, entityID uint64) ([]*dto.PageDTO, error) {
	var pages []*model.Page
	var err error
	switch {
	case entityID != 0:
		pages, err = s.pageDBRepo.ListPagesByEntity(ctx, entityID)
	case platformName != "":
		p, perr := platform.Parse(platformName)
		if perr != nil {
			return nil, perr
		}
		pages, err = s.pageDBRepo.ListPagesByPlatform(ctx, string(p))
	default:
		pages, err = s.pageDBRepo.ListPages(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*dto.PageDTO, 0, len(pages))
	for _, page := range pages {
		if platformName != "" && !strings.EqualFold(page.Platform, strings.TrimSpace(platformName)) {
			continue
		}
		d, err := toPageDTO(page)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// DeletePage 同时删除该页面的快照和物化帖子
func (s *pageServiceImpl) DeletePage(ctx context.Context, id uint64) error {
	page, err := s.pageDBRepo.GetPageById(ctx, id)
	if err != nil {
		return err
	}
	if page == nil {
		return ErrPageNotFound
	}
	if err = s.pageDBRepo.DeletePage(ctx, id); err != nil {
		return err
	}
	if entity, err := s.entityDBRepo.GetEntityById(ctx, page.EntityID); err == nil && entity != nil {
		s.reindex(ctx, entity)
	}
	s.invalidate(ctx, page.EntityID)
	return nil
}

// reindex 页面变化后更新搜索文档中的平台列表
func (s *pageServiceImpl) reindex(ctx context.Context, entity *model.Entity) {
	doc := &es.EntityES{
		ID:         entity.ID,
		Name:       entity.Name,
		Type:       entity.Type,
		Categories: make([]string, 0, len(entity.Categories)),
		Platforms:  make([]string, 0, len(entity.Pages)),
		CreatedAt:  entity.CreatedAt,
	}
	for _, c := range entity.Categories {
		doc.Categories = append(doc.Categories, c.Name)
	}
	seen := make(map[string]struct{})
	for _, page := range entity.Pages {
		if _, ok := seen[page.Platform]; ok {
			continue
		}
		seen[page.Platform] = struct{}{}
		doc.Platforms = append(doc.Platforms, page.Platform)
	}
	sort.Strings(doc.Platforms)
	if err := s.entityESRepo.IndexEntity(ctx, doc); err != nil {
		log.ErrorContext(ctx, "reindex entity error", "entity_id", entity.ID, "err", err)
	}
}

func (s *pageServiceImpl) invalidate(ctx context.Context, entityID uint64) {
	keys := append(entityCacheKeys(entityID), consts.RankingCacheKey)
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.WarnContext(ctx, "drop entity cache error", "entity_id", entityID, "err", err)
	}
}

func toPageDTO(page *model.Page) (*dto.PageDTO, error) {
	out := &dto.PageDTO{}
	if err := copier.Copy(out, page); err != nil {
		return nil, err
	}
	return out, nil
}
