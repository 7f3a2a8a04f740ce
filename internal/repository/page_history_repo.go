package repository

import (
	"Influence/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type PageHistoryRepo interface {
	CreateHistory(ctx context.Context, histories []*model.PageHistory) error
	GetLatestByPage(ctx context.Context, pageID uint64) (*model.SnapshotRow, error)
	GetEntitySnapshots(ctx context.Context, entityID uint64, platform string, since time.Time) ([]model.SnapshotRow, error)
	GetPageSnapshots(ctx context.Context, pageID uint64) ([]model.SnapshotRow, error)
	GetLatestPerPage(ctx context.Context, entityIDs []uint64) ([]model.SnapshotRow, error)
	GetHistoryByEntities(ctx context.Context, entityIDs []uint64) ([]model.SnapshotRow, error)
}

type PageHistoryRepoImpl struct {
	db *gorm.DB
}

func NewPageHistoryRepo(db *gorm.DB) PageHistoryRepo {
	return &PageHistoryRepoImpl{db: db}
}

const snapshotColumns = "h.id AS history_id, h.page_id, p.uuid AS page_uuid, p.name AS page_name, " +
	"p.link AS page_link, p.platform, p.entity_id, e.name AS entity_name, h.data, h.recorded_at"

// snapshots 快照连同页面和实体信息
func (s *PageHistoryRepoImpl) snapshots(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("pages_history AS h").
		Select(snapshotColumns).
		Joins("JOIN pages p ON p.id = h.page_id").
		Joins("JOIN entities e ON e.id = p.entity_id")
}

func (s *PageHistoryRepoImpl) CreateHistory(ctx context.Context, histories []*model.PageHistory) error {
	if len(histories) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(histories, 100).Error
}

func (s *PageHistoryRepoImpl) GetLatestByPage(ctx context.Context, pageID uint64) (*model.SnapshotRow, error) {
	row := &model.SnapshotRow{}
	result := s.snapshots(ctx).
		Where("h.page_id = ?", pageID).
		Order("h.recorded_at DESC").
		Limit(1).
		Take(row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return row, nil
}

// GetEntitySnapshots 实体所有页面的快照，按时间升序，platform 为空表示所有平台
func (s *PageHistoryRepoImpl) GetEntitySnapshots(ctx context.Context, entityID uint64, platform string, since time.Time) ([]model.SnapshotRow, error) {
	rows := make([]model.SnapshotRow, 0)
	query := s.snapshots(ctx).Where("p.entity_id = ?", entityID)
	if platform != "" {
		query = query.Where("p.platform = ?", platform)
	}
	if !since.IsZero() {
		query = query.Where("h.recorded_at >= ?", since)
	}
	result := query.Order("h.recorded_at ASC, h.id ASC").Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

// GetPageSnapshots 单个页面的所有快照，最新的在前
func (s *PageHistoryRepoImpl) GetPageSnapshots(ctx context.Context, pageID uint64) ([]model.SnapshotRow, error) {
	rows := make([]model.SnapshotRow, 0)
	result := s.snapshots(ctx).
		Where("h.page_id = ?", pageID).
		Order("h.recorded_at DESC, h.id DESC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

// GetLatestPerPage 每个页面 recorded_at 最大的快照，entityIDs 为空表示所有实体
func (s *PageHistoryRepoImpl) GetLatestPerPage(ctx context.Context, entityIDs []uint64) ([]model.SnapshotRow, error) {
	rows := make([]model.SnapshotRow, 0)
	latest := s.db.WithContext(ctx).
		Table("pages_history").
		Select("page_id, MAX(recorded_at) AS recorded_at").
		Group("page_id")

	query := s.snapshots(ctx).
		Joins("JOIN (?) latest ON latest.page_id = h.page_id AND latest.recorded_at = h.recorded_at", latest)
	if len(entityIDs) > 0 {
		query = query.Where("p.entity_id IN ?", entityIDs)
	}
	result := query.Order("p.entity_id, h.page_id").Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

// GetHistoryByEntities 多个实体的全部快照，按时间升序
func (s *PageHistoryRepoImpl) GetHistoryByEntities(ctx context.Context, entityIDs []uint64) ([]model.SnapshotRow, error) {
	rows := make([]model.SnapshotRow, 0)
	if len(entityIDs) == 0 {
		return rows, nil
	}
	result := s.snapshots(ctx).
		Where("p.entity_id IN ?", entityIDs).
		Order("h.recorded_at ASC, h.id ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}
