package model

import (
	"time"

	"gorm.io/datatypes"
)

// PageHistory 页面的一次原始抓取快照，只追加不修改
type PageHistory struct {
	ID         uint64         `gorm:"primaryKey" json:"id"`
	PageID     uint64         `gorm:"not null;index:idx_page_recorded,priority:1" json:"page_id"`
	Data       datatypes.JSON `gorm:"type:json" json:"data"`
	RecordedAt time.Time      `gorm:"not null;index:idx_page_recorded,priority:2" json:"recorded_at"`
}

func (PageHistory) TableName() string {
	return "pages_history"
}

// SnapshotRow 带页面信息的快照查询结果
type SnapshotRow struct {
	HistoryID  uint64
	PageID     uint64
	PageUUID   string
	PageName   string
	PageLink   string
	Platform   string
	EntityID   uint64
	EntityName string
	Data       []byte
	RecordedAt time.Time
}
