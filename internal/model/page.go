package model

import (
	"Influence/internal/pkg/platform"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PageNamespace 页面 UUID 的命名空间
var PageNamespace = uuid.MustParse("9f4d5a52-0c4b-4c1e-9b7a-6b8d3e2f1a10")

// Page 实体在某个平台上的主页
type Page struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UUID      string    `gorm:"type:char(36);not null;uniqueIndex:uk_page_uuid" json:"uuid"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Link      string    `gorm:"type:varchar(512);not null;uniqueIndex:uk_page_link" json:"link"`
	Platform  string    `gorm:"type:varchar(32);not null;index:idx_platform" json:"platform"`
	EntityID  uint64    `gorm:"not null;index:idx_entity_id" json:"entity_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Page) TableName() string {
	return "pages"
}

// PageUUID 同一平台同一链接总是得到相同的 UUID
func PageUUID(p platform.Platform, link string) string {
	key := string(p) + "|" + strings.TrimRight(strings.TrimSpace(link), "/")
	return uuid.NewSHA1(PageNamespace, []byte(key)).String()
}
