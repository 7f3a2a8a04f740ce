package model

import "time"

// Category 分类，ParentID 为空表示顶层分类
type Category struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(128);not null;uniqueIndex:uk_category_name" json:"name"`
	ParentID  *uint64   `gorm:"index:idx_parent_id" json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

type EntityCategory struct {
	EntityID   uint64 `gorm:"primaryKey" json:"entity_id"`
	CategoryID uint64 `gorm:"primaryKey;index:idx_category_id" json:"category_id"`
}

func (EntityCategory) TableName() string {
	return "entity_categories"
}

// CategoryRow 实体与分类的关联查询结果
type CategoryRow struct {
	EntityID     uint64
	EntityName   string
	CategoryID   uint64
	CategoryName string
}
