package repository

import (
	"Influence/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepo interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategoryById(ctx context.Context, id uint64) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	DeleteCategory(ctx context.Context, id uint64) error
	LinkEntity(ctx context.Context, entityID, categoryID uint64) error
	GetCategoryRows(ctx context.Context) ([]model.CategoryRow, error)
	GetCategoryIdsByEntity(ctx context.Context, entityID uint64) ([]uint64, error)
}

type CategoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &CategoryRepoImpl{db: db}
}

func (s *CategoryRepoImpl) CreateCategory(ctx context.Context, category *model.Category) error {
	return s.db.WithContext(ctx).Create(category).Error
}

func (s *CategoryRepoImpl) GetCategoryById(ctx context.Context, id uint64) (*model.Category, error) {
	category := &model.Category{}
	result := s.db.WithContext(ctx).First(category, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return category, nil
}

func (s *CategoryRepoImpl) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	category := &model.Category{}
	result := s.db.WithContext(ctx).Where("name = ?", name).First(category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return category, nil
}

func (s *CategoryRepoImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories := make([]*model.Category, 0)
	result := s.db.WithContext(ctx).Order("name").Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}
	return categories, nil
}

// DeleteCategory 删除分类，子分类挂到被删分类的父节点上
func (s *CategoryRepoImpl) DeleteCategory(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category := &model.Category{}
		if result := tx.First(category, id); result.Error != nil {
			return result.Error
		}
		if result := tx.Model(&model.Category{}).
			Where("parent_id = ?", id).
			Update("parent_id", category.ParentID); result.Error != nil {
			return result.Error
		}
		if result := tx.Where("category_id = ?", id).Delete(&model.EntityCategory{}); result.Error != nil {
			return result.Error
		}
		return tx.Delete(&model.Category{}, id).Error
	})
}

func (s *CategoryRepoImpl) LinkEntity(ctx context.Context, entityID, categoryID uint64) error {
	link := &model.EntityCategory{EntityID: entityID, CategoryID: categoryID}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error
}

// GetCategoryRows 所有实体与分类的关联
func (s *CategoryRepoImpl) GetCategoryRows(ctx context.Context) ([]model.CategoryRow, error) {
	rows := make([]model.CategoryRow, 0)
	result := s.db.WithContext(ctx).
		Table("entity_categories AS ec").
		Select("ec.entity_id, e.name AS entity_name, ec.category_id, c.name AS category_name").
		Joins("JOIN entities e ON e.id = ec.entity_id").
		Joins("JOIN categories c ON c.id = ec.category_id").
		Order("ec.entity_id, ec.category_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (s *CategoryRepoImpl) GetCategoryIdsByEntity(ctx context.Context, entityID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	result := s.db.WithContext(ctx).
		Model(&model.EntityCategory{}).
		Where("entity_id = ?", entityID).
		Pluck("category_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}
