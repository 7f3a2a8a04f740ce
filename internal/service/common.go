package service

import (
	"Influence/internal/model"
	"Influence/internal/pkg/consts"
	"Influence/internal/pkg/platform"
	"Influence/internal/pkg/ranking"
	"Influence/internal/pkg/snapshot"
	"context"
	log "log/slog"
	"strconv"
	"time"
)

// Cache 服务层依赖的缓存操作，由 redis.Cache 实现
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	AddToSet(ctx context.Context, key string, members ...string) error
	ReplaceBoard(ctx context.Context, key string, scores map[string]float64) error
	TopOfBoard(ctx context.Context, key string, n int64) ([]string, error)
	Lock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error)
}

// ObjectStore 归档存储，由 minio.Archive 实现
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// entityCacheKeys 实体的全部派生缓存
func entityCacheKeys(entityID uint64) []string {
	id := strconv.FormatUint(entityID, 10)
	keys := []string{consts.EntityProfileKey + id}
	for _, p := range platform.All() {
		keys = append(keys, interactionCacheKey(entityID, p))
	}
	return keys
}

func interactionCacheKey(entityID uint64, p platform.Platform) string {
	return consts.EntityInteractionKey + strconv.FormatUint(entityID, 10) + ":" + string(p)
}

// toRaw 快照行转换为规范化输入，页面以 uuid 标识
func toRaw(rows []model.SnapshotRow) []snapshot.Raw {
	raws := make([]snapshot.Raw, 0, len(rows))
	for _, r := range rows {
		raws = append(raws, snapshot.Raw{
			PageID:     r.PageUUID,
			PageName:   r.PageName,
			Platform:   r.Platform,
			RecordedAt: r.RecordedAt,
			Data:       r.Data,
		})
	}
	return raws
}

// toFollowerRows 读取每行快照的主页信息，未注册平台的页面跳过
func toFollowerRows(ctx context.Context, rows []model.SnapshotRow) []ranking.FollowerRow {
	out := make([]ranking.FollowerRow, 0, len(rows))
	for _, r := range rows {
		raw := snapshot.Raw{PageID: r.PageUUID, Platform: r.Platform, RecordedAt: r.RecordedAt, Data: r.Data}
		profile, err := snapshot.ExtractProfile(raw)
		if err != nil {
			log.WarnContext(ctx, "skip snapshot of unsupported platform", "page_id", r.PageID, "platform", r.Platform)
			continue
		}
		out = append(out, ranking.FollowerRow{
			EntityID:   r.EntityID,
			EntityName: r.EntityName,
			PageID:     r.PageUUID,
			PageURL:    r.PageLink,
			Platform:   platform.Platform(r.Platform),
			RecordedAt: r.RecordedAt,
			Followers:  profile.Followers,
			ProfileURL: profile.AvatarURL,
			Biography:  profile.Biography,
		})
	}
	return out
}

func logStats(ctx context.Context, msg string, stats snapshot.Stats) {
	if stats.SkippedSnapshots == 0 && stats.SkippedPosts == 0 && stats.MissingID == 0 && stats.MissingDate == 0 {
		return
	}
	log.WarnContext(ctx, msg,
		"snapshots", stats.Snapshots,
		"posts", stats.Posts,
		"skipped_snapshots", stats.SkippedSnapshots,
		"skipped_posts", stats.SkippedPosts,
		"missing_id", stats.MissingID,
		"missing_date", stats.MissingDate,
	)
}
