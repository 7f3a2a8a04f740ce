package es

import (
	"Influence/internal/api/config"
	"Influence/internal/pkg/logger"
	"context"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

var Client *elasticsearch.TypedClient

var EntityIndex string

const (
	NotFoundCode = 404
	ConflictCode = 409
)

// InitClient 初始化 Elasticsearch 客户端并确保实体索引存在
func InitClient() error {
	elasticCfg := config.Cfg.Elastic

	EntityIndex = elasticCfg.Indices.EntityIndex

	cfg := elasticsearch.Config{
		Addresses: []string{elasticCfg.Address},
		Username:  elasticCfg.Username,
		Password:  elasticCfg.Password,
		Transport: &logger.ESTransport{
			Transport: http.DefaultTransport,
		},
	}

	var err error
	Client, err = elasticsearch.NewTypedClient(cfg)
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return err
	}

	ctx := context.Background()
	info, err := Client.Info().Do(ctx)
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return err
	}
	log.Info("Connected to Elasticsearch", "version", info.Version.Int)

	return ensureEntityIndex(ctx)
}

func ensureEntityIndex(ctx context.Context) error {
	exists, err := Client.Indices.Exists(EntityIndex).Do(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	name := types.NewTextProperty()
	name.Fields = map[string]types.Property{"keyword": types.NewKeywordProperty()}

	_, err = Client.Indices.Create(EntityIndex).
		Mappings(&types.TypeMapping{
			Properties: map[string]types.Property{
				"id":         types.NewLongNumberProperty(),
				"name":       name,
				"type":       types.NewKeywordProperty(),
				"categories": types.NewKeywordProperty(),
				"platforms":  types.NewKeywordProperty(),
				"created_at": types.NewDateProperty(),
			},
		}).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == 400 {
			// 并发启动时索引可能已被其他实例创建
			return nil
		}
		return err
	}
	log.Info("Created Elasticsearch index", "index", EntityIndex)
	return nil
}
