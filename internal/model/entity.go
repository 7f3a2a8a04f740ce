package model

import "time"

// Entity 被追踪的公司、网红或小商家
type Entity struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(128);not null;uniqueIndex:uk_entity_name" json:"name"`
	Type      string    `gorm:"type:varchar(32);not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`

	// 关联关系
	Pages      []Page     `gorm:"foreignKey:EntityID;references:ID" json:"pages,omitempty"`
	Categories []Category `gorm:"many2many:entity_categories;joinForeignKey:EntityID;joinReferences:CategoryID" json:"categories,omitempty"`
}

func (Entity) TableName() string {
	return "entities"
}
