package model

import "time"

// CollectionRun 一次数据采集任务的记录
type CollectionRun struct {
	ID         uint64     `gorm:"primaryKey" json:"id"`
	Platform   string     `gorm:"type:varchar(32);not null;index:idx_platform" json:"platform"`
	SnapshotID string     `gorm:"type:varchar(128);not null" json:"snapshot_id"`
	Status     string     `gorm:"type:varchar(32);not null" json:"status"`
	Pages      int        `gorm:"not null;default:0" json:"pages"`
	Matched    int        `gorm:"not null;default:0" json:"matched"`
	Unmatched  StringList `gorm:"type:json" json:"unmatched"`
	ArchiveKey string     `gorm:"type:varchar(255)" json:"archive_key"`
	Error      string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

func (CollectionRun) TableName() string {
	return "collection_runs"
}
