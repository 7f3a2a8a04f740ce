package service

import (
	"Influence/internal/api/dto"
	"Influence/internal/model"
	"Influence/internal/pkg/consts"
	"Influence/internal/pkg/ranking"
	"Influence/internal/repository"
	"context"
	log "log/slog"
	"strings"
)

type CategoryService interface {
	AddCategory(ctx context.Context, categoryDTO *dto.CreateCategoryDTO) (*dto.CategoryDTO, error)
	ListCategories(ctx context.Context) ([]*dto.CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uint64) error
	LinkEntity(ctx context.Context, linkDTO *dto.LinkEntityDTO) error
}

type categoryServiceImpl struct {
	categoryDBRepo repository.CategoryRepo
	entityDBRepo   repository.EntityRepo
	cache          Cache
}

func NewCategoryService(categoryDBRepo repository.CategoryRepo, entityDBRepo repository.EntityRepo, cache Cache) CategoryService {
	return &categoryServiceImpl{
		categoryDBRepo: categoryDBRepo,
		entityDBRepo:   entityDBRepo,
		cache:          cache,
	}
}

func (s *categoryServiceImpl) AddCategory(ctx context.Context, categoryDTO *dto.CreateCategoryDTO) (*dto.CategoryDTO, error) {
	name := strings.TrimSpace(categoryDTO.Name)
	if name == "" {
		return nil, ErrParamInvalid
	}
	exist, err := s.categoryDBRepo.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrCategoryExist
	}
	if categoryDTO.ParentID != nil {
		parent, err := s.categoryDBRepo.GetCategoryById(ctx, *categoryDTO.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCategoryNotFound
		}
	}

	category := &model.Category{Name: name, ParentID: categoryDTO.ParentID}
	if err = s.categoryDBRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return &dto.CategoryDTO{ID: category.ID, Name: category.Name, ParentID: category.ParentID}, nil
}

// ListCategories 附带每个分类的根分类名称
func (s *categoryServiceImpl) ListCategories(ctx context.Context) ([]*dto.CategoryDTO, error) {
	categories, err := s.categoryDBRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	tree := ranking.NewTree(toCategories(categories))
	out := make([]*dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		d := &dto.CategoryDTO{ID: c.ID, Name: c.Name, ParentID: c.ParentID}
		if root, ok := tree.Root(c.ID); ok {
			d.Root = root.Name
		}
		out = append(out, d)
	}
	return out, nil
}

// DeleteCategory 子分类上移一级，实体关联随之删除
func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id uint64) error {
	category, err := s.categoryDBRepo.GetCategoryById(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	if err = s.categoryDBRepo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.dropRanking(ctx)
	return nil
}

func (s *categoryServiceImpl) LinkEntity(ctx context.Context, linkDTO *dto.LinkEntityDTO) error {
	entity, err := s.entityDBRepo.GetEntityById(ctx, linkDTO.EntityID)
	if err != nil {
		return err
	}
	if entity == nil {
		return ErrEntityNotFound
	}
	category, err := s.categoryDBRepo.GetCategoryById(ctx, linkDTO.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	if err = s.categoryDBRepo.LinkEntity(ctx, linkDTO.EntityID, linkDTO.CategoryID); err != nil {
		return err
	}
	s.dropRanking(ctx)
	return nil
}

func (s *categoryServiceImpl) dropRanking(ctx context.Context) {
	if err := s.cache.Delete(ctx, consts.RankingCacheKey); err != nil {
		log.WarnContext(ctx, "drop ranking cache error", "err", err)
	}
}

func toCategories(categories []*model.Category) []ranking.Category {
	out := make([]ranking.Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, ranking.Category{ID: c.ID, Name: c.Name, ParentID: c.ParentID})
	}
	return out
}

func toMemberships(rows []model.CategoryRow) []ranking.Membership {
	out := make([]ranking.Membership, 0, len(rows))
	for _, r := range rows {
		out = append(out, ranking.Membership{
			EntityID:     r.EntityID,
			EntityName:   r.EntityName,
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
		})
	}
	return out
}
