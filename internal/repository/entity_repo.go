package repository

import (
	"Influence/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntityRepo interface {
	CreateEntity(ctx context.Context, entity *model.Entity, categoryID *uint64) error
	GetEntityById(ctx context.Context, id uint64) (*model.Entity, error)
	GetEntityByName(ctx context.Context, name string) (*model.Entity, error)
	GetEntitiesByIds(ctx context.Context, ids []uint64) ([]*model.Entity, error)
	ListEntities(ctx context.Context) ([]*model.Entity, error)
	DeleteEntity(ctx context.Context, id uint64) error
}

type EntityRepoImpl struct {
	db *gorm.DB
}

func NewEntityRepo(db *gorm.DB) EntityRepo {
	return &EntityRepoImpl{db: db}
}

// CreateEntity 创建实体，categoryID 不为空时同时建立分类关联
func (s *EntityRepoImpl) CreateEntity(ctx context.Context, entity *model.Entity, categoryID *uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Omit(clause.Associations).Create(entity); result.Error != nil {
			return result.Error
		}
		if categoryID == nil {
			return nil
		}
		link := &model.EntityCategory{EntityID: entity.ID, CategoryID: *categoryID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error
	})
}

func (s *EntityRepoImpl) GetEntityById(ctx context.Context, id uint64) (*model.Entity, error) {
	entity := &model.Entity{}
	result := s.db.WithContext(ctx).
		Preload("Pages").
		Preload("Categories").
		First(entity, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return entity, nil
}

func (s *EntityRepoImpl) GetEntityByName(ctx context.Context, name string) (*model.Entity, error) {
	entity := &model.Entity{}
	result := s.db.WithContext(ctx).Where("name = ?", name).First(entity)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return entity, nil
}

func (s *EntityRepoImpl) GetEntitiesByIds(ctx context.Context, ids []uint64) ([]*model.Entity, error) {
	entities := make([]*model.Entity, 0)
	if len(ids) == 0 {
		return entities, nil
	}
	result := s.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&entities)
	if result.Error != nil {
		return nil, result.Error
	}
	return entities, nil
}

func (s *EntityRepoImpl) ListEntities(ctx context.Context) ([]*model.Entity, error) {
	entities := make([]*model.Entity, 0)
	result := s.db.WithContext(ctx).Order("name").Find(&entities)
	if result.Error != nil {
		return nil, result.Error
	}
	return entities, nil
}

// DeleteEntity 删除实体及其页面、快照、物化帖子和分类关联
func (s *EntityRepoImpl) DeleteEntity(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pageIDs := tx.Model(&model.Page{}).Select("id").Where("entity_id = ?", id)
		pageUUIDs := tx.Model(&model.Page{}).Select("uuid").Where("entity_id = ?", id)

		if result := tx.Where("page_id IN (?)", pageIDs).Delete(&model.PageHistory{}); result.Error != nil {
			return result.Error
		}
		if result := tx.Where("page_uuid IN (?)", pageUUIDs).Delete(&model.Post{}); result.Error != nil {
			return result.Error
		}
		if result := tx.Where("entity_id = ?", id).Delete(&model.Page{}); result.Error != nil {
			return result.Error
		}
		if result := tx.Where("entity_id = ?", id).Delete(&model.EntityCategory{}); result.Error != nil {
			return result.Error
		}
		return tx.Delete(&model.Entity{}, id).Error
	})
}
