package kafka

import (
	"Influence/internal/api/config"
	"Influence/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	historyConsumer sarama.ConsumerGroup
	historyHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	pageDBRepo repository.PageRepo,
	invalidator EntityInvalidator,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	historyConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaHistoryConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	historyHandler := NewHistoryHandler(pageDBRepo, invalidator)

	return &ConsumerManager{
		historyConsumer: historyConsumer,
		historyHandler:  historyHandler,
	}, nil
}

// Start 启动所有消费者，阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		for err := range m.historyConsumer.Errors() {
			log.Error("History consumer error", "err", err)
		}
	}()

	go func() {
		topic := cfg.KafkaHistoryConsumer.Topic
		log.Info("History consumer started", "topic", topic)
		for {
			if err := m.historyConsumer.Consume(ctx, []string{topic}, m.historyHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.historyConsumer.Close(); err != nil {
		log.Error("Failed to close history consumer", "err", err)
	}
	return nil
}
