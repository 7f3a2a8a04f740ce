package job

import (
	"Influence/internal/pkg/consts"
	"Influence/internal/pkg/logger"
	"Influence/internal/pkg/redis"
	"Influence/internal/pkg/snapshot"
	"Influence/internal/pkg/util"
	"Influence/internal/service"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const materializeLockTTL = 10 * time.Minute

// PostMaterializeJob 把有新快照的页面的帖子写入 posts 表
type PostMaterializeJob struct {
	postSvc        service.PostService
	interactionSvc service.InteractionService
}

func NewPostMaterializeJob(postSvc service.PostService, interactionSvc service.InteractionService) *PostMaterializeJob {
	return &PostMaterializeJob{
		postSvc:        postSvc,
		interactionSvc: interactionSvc,
	}
}

func (s *PostMaterializeJob) Run() {
	ctx := logger.NewJobContext("materialize")

	token := uuid.NewString()
	ok, err := redis.TryLock(ctx, consts.MaterializeLock, token, materializeLockTTL, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire materialize lock error", "err", err)
		return
	}
	if !ok {
		log.InfoContext(ctx, "materialize job is running elsewhere")
		return
	}
	defer redis.UnLock(context.WithoutCancel(ctx), consts.MaterializeLock, token)

	pageIDs, err := takeDirtyPages(ctx)
	if err != nil {
		log.ErrorContext(ctx, "take dirty pages error", "err", err)
		return
	}
	if len(pageIDs) == 0 {
		return
	}

	var total snapshot.Stats
	entities := make(map[uint64]struct{})
	failed := make([]string, 0)
	posts := 0
	for _, pid := range pageIDs {
		entityID, count, stats, err := s.postSvc.MaterializePage(ctx, pid)
		total.Add(stats)
		if err != nil {
			if errors.Is(err, service.ErrEmptyResult) {
				continue
			}
			log.ErrorContext(ctx, "materialize page error", "page_id", pid, "err", err)
			failed = append(failed, strconv.FormatUint(pid, 10))
			continue
		}
		posts += count
		entities[entityID] = struct{}{}
	}

	for entityID := range entities {
		if err = s.interactionSvc.InvalidateEntity(ctx, entityID); err != nil {
			log.WarnContext(ctx, "invalidate entity cache error", "entity_id", entityID, "err", err)
		}
	}

	// 失败的页面放回脏集合，下一轮重试
	if len(failed) > 0 {
		if err = redis.SAdd(ctx, consts.PageHistoryDirtyKey, failed...); err != nil {
			log.ErrorContext(ctx, "requeue failed pages error", "err", err)
		}
	}
	if err = redis.DeleteKey(ctx, consts.PageHistoryProcessingKey); err != nil {
		log.ErrorContext(ctx, "delete page processing set error", "err", err)
	}

	log.InfoContext(ctx, "materialize posts success",
		"page_count", len(pageIDs),
		"entity_count", len(entities),
		"post_count", posts,
		"failed", len(failed),
		"skipped_snapshots", total.SkippedSnapshots,
		"skipped_posts", total.SkippedPosts,
		"missing_id", total.MissingID,
		"missing_date", total.MissingDate,
	)
}

// takeDirtyPages 上一轮遗留的处理集合优先，否则把脏集合改名为处理集合
func takeDirtyPages(ctx context.Context) ([]uint64, error) {
	members, err := redis.GetSet(ctx, consts.PageHistoryProcessingKey)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		if err = redis.Rename(ctx, consts.PageHistoryDirtyKey, consts.PageHistoryProcessingKey); err != nil {
			if isNoSuchKey(err) {
				return nil, nil
			}
			return nil, err
		}
		if members, err = redis.GetSet(ctx, consts.PageHistoryProcessingKey); err != nil {
			return nil, err
		}
	}
	return util.StrSliceToUInt64Slice(members)
}

func isNoSuchKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "no such key")
}
