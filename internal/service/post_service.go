package service

import (
	"Influence/internal/api/dto"
	"Influence/internal/model"
	"Influence/internal/pkg/platform"
	"Influence/internal/pkg/snapshot"
	"Influence/internal/repository"
	"context"
	log "log/slog"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
)

const (
	defaultPostLimit = 50
	maxPostLimit     = 500
)

type PostService interface {
	GetPost(ctx context.Context, id uint64) (*dto.PostDTO, error)
	GetPostsByPlatform(ctx context.Context, platformName string, limit int) ([]*dto.PostDTO, error)
	GetPostsByEntity(ctx context.Context, entityID uint64, limit int) ([]*dto.PostDTO, error)
	GetPostHistory(ctx context.Context, pageUUID, platformName, postID string) ([]map[string]any, error)
	MaterializePage(ctx context.Context, pageID uint64) (uint64, int, snapshot.Stats, error)
}

type postServiceImpl struct {
	postDBRepo    repository.PostRepo
	pageDBRepo    repository.PageRepo
	entityDBRepo  repository.EntityRepo
	historyDBRepo repository.PageHistoryRepo
}

func NewPostService(
	postDBRepo repository.PostRepo,
	pageDBRepo repository.PageRepo,
	entityDBRepo repository.EntityRepo,
	historyDBRepo repository.PageHistoryRepo,
) PostService {
	return &postServiceImpl{
		postDBRepo:    postDBRepo,
		pageDBRepo:    pageDBRepo,
		entityDBRepo:  entityDBRepo,
		historyDBRepo: historyDBRepo,
	}
}

func (s *postServiceImpl) GetPost(ctx context.Context, id uint64) (*dto.PostDTO, error) {
	post, err := s.postDBRepo.GetPostById(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return toPostDTO(ctx, post)
}

func (s *postServiceImpl) GetPostsByPlatform(ctx context.Context, platformName string, limit int) ([]*dto.PostDTO, error) {
	p, err := platform.Parse(platformName)
	if err != nil {
		return nil, err
	}
	posts, err := s.postDBRepo.ListPostsByPlatform(ctx, string(p), postLimit(limit))
	if err != nil {
		return nil, err
	}
	return toPostDTOs(ctx, posts)
}

func (s *postServiceImpl) GetPostsByEntity(ctx context.Context, entityID uint64, limit int) ([]*dto.PostDTO, error) {
	entity, err := s.entityDBRepo.GetEntityById(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrEntityNotFound
	}
	pages, err := s.pageDBRepo.ListPagesByEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrEmptyResult
	}
	uuids := make([]string, 0, len(pages))
	for _, page := range pages {
		uuids = append(uuids, page.UUID)
	}
	posts, err := s.postDBRepo.ListPostsByPages(ctx, uuids, postLimit(limit))
	if err != nil {
		return nil, err
	}
	return toPostDTOs(ctx, posts)
}

// GetPostHistory 帖子在页面每次快照中的记录，按时间倒序
func (s *postServiceImpl) GetPostHistory(ctx context.Context, pageUUID, platformName, postID string) ([]map[string]any, error) {
	p, err := platform.Parse(platformName)
	if err != nil {
		return nil, err
	}
	page, err := s.pageDBRepo.GetPageByUUID(ctx, pageUUID)
	if err != nil {
		return nil, err
	}
	if page == nil || page.Platform != string(p) {
		return nil, ErrPageNotFound
	}

	rows, err := s.historyDBRepo.GetPageSnapshots(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	snaps, stats, err := snapshot.NormalizeAll(toRaw(rows))
	if err != nil {
		return nil, err
	}
	logStats(ctx, "normalize page snapshots", stats)

	history := make([]map[string]any, 0)
	for _, snap := range snaps {
		for _, r := range snap.Posts {
			if r.PostID != postID {
				continue
			}
			fields := make(map[string]any, len(r.Fields)+3)
			for k, v := range r.Fields {
				fields[k] = v
			}
			fields["platform"] = string(r.Platform)
			fields["page_id"] = r.PageID
			fields["recorded_at"] = r.RecordedAt
			history = append(history, fields)
		}
	}
	if len(history) == 0 {
		return nil, ErrPostNotFound
	}
	return history, nil
}

// MaterializePage 将页面最新快照中的帖子写入 posts 表，返回页面所属实体和写入条数
func (s *postServiceImpl) MaterializePage(ctx context.Context, pageID uint64) (uint64, int, snapshot.Stats, error) {
	var stats snapshot.Stats
	row, err := s.historyDBRepo.GetLatestByPage(ctx, pageID)
	if err != nil {
		return 0, 0, stats, err
	}
	if row == nil {
		return 0, 0, stats, ErrEmptyResult
	}

	schema, err := platform.Lookup(row.Platform)
	if err != nil {
		return row.EntityID, 0, stats, err
	}
	snap, stats, err := snapshot.Normalize(toRaw([]model.SnapshotRow{*row})[0])
	if err != nil {
		return row.EntityID, 0, stats, err
	}

	posts := make([]*model.Post, 0, len(snap.Posts))
	for _, r := range snap.Posts {
		post, err := toPostModel(schema, r)
		if err != nil {
			log.WarnContext(ctx, "skip post with unencodable fields", "page_id", pageID, "post_id", r.PostID, "err", err)
			continue
		}
		posts = append(posts, post)
	}
	if err = s.postDBRepo.UpsertPosts(ctx, posts); err != nil {
		return row.EntityID, 0, stats, err
	}
	return row.EntityID, len(posts), stats, nil
}

// toPostModel 核心计数字段按平台的列映射取值，其余原始字段保存在 Extra
func toPostModel(schema *platform.Schema, r snapshot.Record) (*model.Post, error) {
	cols := schema.Columns
	post := &model.Post{
		PageUUID:   r.PageID,
		Platform:   string(r.Platform),
		PostID:     r.PostID,
		PostedAt:   r.PostedAt,
		Likes:      counter(r.Fields, cols.Likes),
		Comments:   counter(r.Fields, cols.Comments),
		Shares:     counter(r.Fields, cols.Shares),
		Views:      counter(r.Fields, cols.Views),
		RecordedAt: r.RecordedAt,
	}
	if cols.URL != "" {
		if u, ok := r.Fields[cols.URL].(string); ok {
			post.URL = u
		}
	}

	extra := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		switch k {
		case schema.IDField, cols.URL, cols.Likes, cols.Comments, cols.Shares, cols.Views:
			continue
		}
		extra[k] = v
	}
	data, err := snapshot.MarshalFields(extra)
	if err != nil {
		return nil, err
	}
	post.Extra = datatypes.JSON(data)
	return post, nil
}

func counter(fields map[string]any, name string) int64 {
	if name == "" {
		return 0
	}
	return snapshot.ToInt64(fields[name])
}

func postLimit(limit int) int {
	if limit <= 0 {
		return defaultPostLimit
	}
	if limit > maxPostLimit {
		return maxPostLimit
	}
	return limit
}

func toPostDTO(ctx context.Context, post *model.Post) (*dto.PostDTO, error) {
	postDTO := &dto.PostDTO{
		ID:         post.ID,
		PageUUID:   post.PageUUID,
		Platform:   post.Platform,
		PostID:     post.PostID,
		PostedAt:   post.PostedAt,
		URL:        post.URL,
		Likes:      post.Likes,
		Comments:   post.Comments,
		Shares:     post.Shares,
		Views:      post.Views,
		RecordedAt: post.RecordedAt,
	}
	if len(post.Extra) > 0 {
		if err := json.Unmarshal(post.Extra, &postDTO.Extra); err != nil {
			log.WarnContext(ctx, "decode post extra error", "post_id", post.ID, "err", err)
		}
	}
	return postDTO, nil
}

func toPostDTOs(ctx context.Context, posts []*model.Post) ([]*dto.PostDTO, error) {
	out := make([]*dto.PostDTO, 0, len(posts))
	for _, post := range posts {
		postDTO, err := toPostDTO(ctx, post)
		if err != nil {
			return nil, err
		}
		out = append(out, postDTO)
	}
	return out, nil
}
