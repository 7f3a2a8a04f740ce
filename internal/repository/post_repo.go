package repository

import (
	"Influence/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepo interface {
	UpsertPosts(ctx context.Context, posts []*model.Post) error
	GetPostById(ctx context.Context, id uint64) (*model.Post, error)
	GetPostByKey(ctx context.Context, pageUUID, platform, postID string) (*model.Post, error)
	ListPostsByPlatform(ctx context.Context, platform string, limit int) ([]*model.Post, error)
	ListPostsByPages(ctx context.Context, pageUUIDs []string, limit int) ([]*model.Post, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db: db}
}

// UpsertPosts 按 (page_uuid, platform, post_id) 写入，已存在时只在快照更新时覆盖
func (s *PostRepoImpl) UpsertPosts(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "page_uuid"}, {Name: "platform"}, {Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"posted_at", "url", "likes", "comments", "shares", "views", "extra", "recorded_at", "updated_at",
		}),
	}).CreateInBatches(posts, 200).Error
}

func (s *PostRepoImpl) GetPostById(ctx context.Context, id uint64) (*model.Post, error) {
	post := &model.Post{}
	result := s.db.WithContext(ctx).First(post, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return post, nil
}

func (s *PostRepoImpl) GetPostByKey(ctx context.Context, pageUUID, platform, postID string) (*model.Post, error) {
	post := &model.Post{}
	result := s.db.WithContext(ctx).
		Where("page_uuid = ? AND platform = ? AND post_id = ?", pageUUID, platform, postID).
		First(post)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return post, nil
}

func (s *PostRepoImpl) ListPostsByPlatform(ctx context.Context, platform string, limit int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	result := s.db.WithContext(ctx).
		Where("platform = ?", platform).
		Order("posted_at DESC, id DESC").
		Limit(limit).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (s *PostRepoImpl) ListPostsByPages(ctx context.Context, pageUUIDs []string, limit int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	if len(pageUUIDs) == 0 {
		return posts, nil
	}
	result := s.db.WithContext(ctx).
		Where("page_uuid IN ?", pageUUIDs).
		Order("posted_at DESC, id DESC").
		Limit(limit).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}
