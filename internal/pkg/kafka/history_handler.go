package kafka

import (
	"Influence/internal/model"
	"Influence/internal/pkg/consts"
	"Influence/internal/pkg/redis"
	"Influence/internal/repository"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
)

// EntityInvalidator 实体相关缓存失效
type EntityInvalidator interface {
	InvalidateEntity(ctx context.Context, entityID uint64) error
}

// HistoryHandler 消费 pages_history 的 binlog，新快照写入后标记页面待物化并清理缓存
type HistoryHandler struct {
	pageDBRepo  repository.PageRepo
	invalidator EntityInvalidator
}

func NewHistoryHandler(pageDBRepo repository.PageRepo, invalidator EntityInvalidator) *HistoryHandler {
	return &HistoryHandler{
		pageDBRepo:  pageDBRepo,
		invalidator: invalidator,
	}
}

func (s *HistoryHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("pages_history consumer setup")
	return nil
}

func (s *HistoryHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("pages_history consumer cleanup")
	return nil
}

func (s *HistoryHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("process batch error", "err", err)
		return err
	}
	return nil
}

func (s *HistoryHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, model.PageHistory{}.TableName())
	if err != nil {
		return err
	}
	if canalMsg.Type != CanalInsert {
		return ErrSkipMessage
	}

	pageIDs := PageIDs(canalMsg)
	if len(pageIDs) == 0 {
		return ErrSkipMessage
	}

	members := make([]string, 0, len(pageIDs))
	for _, id := range pageIDs {
		members = append(members, strconv.FormatUint(id, 10))
	}
	if err = redis.SAdd(ctx, consts.PageHistoryDirtyKey, members...); err != nil {
		return err
	}

	entities := make(map[uint64]struct{})
	for _, id := range pageIDs {
		page, err := s.pageDBRepo.GetPageById(ctx, id)
		if err != nil {
			return err
		}
		if page == nil {
			log.WarnContext(ctx, "snapshot for unknown page", "page_id", id)
			continue
		}
		entities[page.EntityID] = struct{}{}
	}
	for entityID := range entities {
		if err = s.invalidator.InvalidateEntity(ctx, entityID); err != nil {
			return err
		}
	}

	// 粉丝数变化后排行需要重建
	return redis.DeleteKey(ctx, consts.RankingCacheKey)
}

// PageIDs 取出消息中去重后的 page_id
func PageIDs(msg *CanalMessage) []uint64 {
	seen := make(map[uint64]struct{}, len(msg.Data))
	ids := make([]uint64, 0, len(msg.Data))
	for _, row := range msg.Data {
		id := StrToUint64(row["page_id"])
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
