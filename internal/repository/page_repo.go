package repository

import (
	"Influence/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PageRepo interface {
	CreatePage(ctx context.Context, page *model.Page) error
	GetPageById(ctx context.Context, id uint64) (*model.Page, error)
	GetPageByUUID(ctx context.Context, uuid string) (*model.Page, error)
	GetPageByLink(ctx context.Context, link string) (*model.Page, error)
	ListPages(ctx context.Context) ([]*model.Page, error)
	ListPagesByPlatform(ctx context.Context, platform string) ([]*model.Page, error)
	ListPagesByEntity(ctx context.Context, entityID uint64) ([]*model.Page, error)
	DeletePage(ctx context.Context, id uint64) error
}

type PageRepoImpl struct {
	db *gorm.DB
}

func NewPageRepo(db *gorm.DB) PageRepo {
	return &PageRepoImpl{db: db}
}

func (s *PageRepoImpl) CreatePage(ctx context.Context, page *model.Page) error {
	return s.db.WithContext(ctx).Create(page).Error
}

func (s *PageRepoImpl) GetPageById(ctx context.Context, id uint64) (*model.Page, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *PageRepoImpl) GetPageByUUID(ctx context.Context, uuid string) (*model.Page, error) {
	return s.first(ctx, "uuid = ?", uuid)
}

func (s *PageRepoImpl) GetPageByLink(ctx context.Context, link string) (*model.Page, error) {
	return s.first(ctx, "link = ?", link)
}

func (s *PageRepoImpl) first(ctx context.Context, query string, arg any) (*model.Page, error) {
	page := &model.Page{}
	result := s.db.WithContext(ctx).Where(query, arg).First(page)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return page, nil
}

func (s *PageRepoImpl) ListPages(ctx context.Context) ([]*model.Page, error) {
	pages := make([]*model.Page, 0)
	result := s.db.WithContext(ctx).Order("id").Find(&pages)
	if result.Error != nil {
		return nil, result.Error
	}
	return pages, nil
}

func (s *PageRepoImpl) ListPagesByPlatform(ctx context.Context, platform string) ([]*model.Page, error) {
	pages := make([]*model.Page, 0)
	result := s.db.WithContext(ctx).Where("platform = ?", platform).Order("id").Find(&pages)
	if result.Error != nil {
		return nil, result.Error
	}
	return pages, nil
}

func (s *PageRepoImpl) ListPagesByEntity(ctx context.Context, entityID uint64) ([]*model.Page, error) {
	pages := make([]*model.Page, 0)
	result := s.db.WithContext(ctx).Where("entity_id = ?", entityID).Order("id").Find(&pages)
	if result.Error != nil {
		return nil, result.Error
	}
	return pages, nil
}

// DeletePage 删除页面及其快照和物化帖子
func (s *PageRepoImpl) DeletePage(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		page := &model.Page{}
		if result := tx.First(page, id); result.Error != nil {
			return result.Error
		}
		if result := tx.Where("page_id = ?", id).Delete(&model.PageHistory{}); result.Error != nil {
			return result.Error
		}
		if result := tx.Where("page_uuid = ?", page.UUID).Delete(&model.Post{}); result.Error != nil {
			return result.Error
		}
		return tx.Delete(&model.Page{}, id).Error
	})
}
