package model

import (
	"time"

	"gorm.io/datatypes"
)

// Post 每个帖子最新一次快照的物化结果
type Post struct {
	ID         uint64         `gorm:"primaryKey" json:"id"`
	PageUUID   string         `gorm:"type:char(36);not null;uniqueIndex:uk_post,priority:1" json:"page_uuid"`
	Platform   string         `gorm:"type:varchar(32);not null;uniqueIndex:uk_post,priority:2;index:idx_platform_posted,priority:1" json:"platform"`
	PostID     string         `gorm:"type:varchar(128);not null;uniqueIndex:uk_post,priority:3" json:"post_id"`
	PostedAt   *time.Time     `gorm:"index:idx_platform_posted,priority:2" json:"posted_at"`
	URL        string         `gorm:"type:varchar(1024)" json:"url"`
	Likes      int64          `gorm:"not null;default:0" json:"likes"`
	Comments   int64          `gorm:"not null;default:0" json:"comments"`
	Shares     int64          `gorm:"not null;default:0" json:"shares"`
	Views      int64          `gorm:"not null;default:0" json:"views"`
	Extra      datatypes.JSON `gorm:"type:json" json:"extra"`
	RecordedAt time.Time      `gorm:"not null" json:"recorded_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}
