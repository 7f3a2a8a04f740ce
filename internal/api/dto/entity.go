package dto

import (
	"Influence/internal/pkg/platform"
	"time"
)

type CreateEntityDTO struct {
	Name       string  `json:"name" validate:"required,max=128"`
	Type       string  `json:"type" validate:"required,entity_type"`
	CategoryID *uint64 `json:"category_id,omitempty"`
}

type EntityDTO struct {
	ID         uint64        `json:"id"`
	Name       string        `json:"name"`
	Type       string        `json:"type"`
	CreatedAt  time.Time     `json:"created_at"`
	Categories []CategoryDTO `json:"categories,omitempty"`
	Pages      []PageDTO     `json:"pages,omitempty"`
}

// EntitySearchDTO 前缀搜索结果，Cursor 为空表示没有下一页
type EntitySearchDTO struct {
	Items  []*EntityBriefDTO `json:"items"`
	Cursor string            `json:"cursor"`
}

type EntityBriefDTO struct {
	ID         uint64   `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Categories []string `json:"categories"`
	Platforms  []string `json:"platforms"`
}

// ProfileCardDTO 实体各平台最新的主页信息
type ProfileCardDTO struct {
	EntityID       uint64                            `json:"entity_id"`
	EntityName     string                            `json:"entity_name"`
	TotalFollowers int64                             `json:"total_followers"`
	Platforms      map[platform.Platform]*ProfileDTO `json:"platforms"`
}

type ProfileDTO struct {
	PageID          string    `json:"page_id"`
	PageURL         string    `json:"page_url"`
	Followers       *int64    `json:"followers"`
	ProfileImageURL string    `json:"profile_image_url"`
	Biography       string    `json:"biography"`
	RecordedAt      time.Time `json:"recorded_at"`
}
