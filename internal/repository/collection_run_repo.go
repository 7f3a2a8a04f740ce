package repository

import (
	"Influence/internal/model"
	"context"

	"gorm.io/gorm"
)

type CollectionRunRepo interface {
	CreateRun(ctx context.Context, run *model.CollectionRun) error
	UpdateRun(ctx context.Context, run *model.CollectionRun) error
	ListRecentRuns(ctx context.Context, platform string, limit int) ([]*model.CollectionRun, error)
}

type CollectionRunRepoImpl struct {
	db *gorm.DB
}

func NewCollectionRunRepo(db *gorm.DB) CollectionRunRepo {
	return &CollectionRunRepoImpl{db: db}
}

func (s *CollectionRunRepoImpl) CreateRun(ctx context.Context, run *model.CollectionRun) error {
	return s.db.WithContext(ctx).Create(run).Error
}

func (s *CollectionRunRepoImpl) UpdateRun(ctx context.Context, run *model.CollectionRun) error {
	return s.db.WithContext(ctx).
		Model(&model.CollectionRun{}).
		Where("id = ?", run.ID).
		Select("snapshot_id", "status", "pages", "matched", "unmatched", "archive_key", "error", "finished_at").
		Updates(run).Error
}

func (s *CollectionRunRepoImpl) ListRecentRuns(ctx context.Context, platform string, limit int) ([]*model.CollectionRun, error) {
	runs := make([]*model.CollectionRun, 0)
	query := s.db.WithContext(ctx).Order("started_at DESC, id DESC").Limit(limit)
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if result := query.Find(&runs); result.Error != nil {
		return nil, result.Error
	}
	return runs, nil
}
