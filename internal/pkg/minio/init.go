package minio

import (
	"Influence/internal/api/config"
	"context"
	"fmt"
	log "log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

var (
	// Client 全局 MinIO 客户端实例
	Client *minio.Client
	// ArchiveBucket 原始采集数据与排行导出的存储桶
	ArchiveBucket string
)

// 原始采集数据保留天数，排行导出不过期
const rawRetentionDays = 90

// Init 初始化 MinIO 客户端
func Init() error {
	cfg := config.Cfg.MinIO

	var endpoint string
	var useSSL bool
	if cfg.InternalEndpoint != "" {
		endpoint = cfg.InternalEndpoint
		useSSL = cfg.InternalUseSSL
	} else {
		endpoint = cfg.ExternalEndpoint
		useSSL = true
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.ArchiveBucket)
	if err != nil {
		return fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.ArchiveBucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", cfg.ArchiveBucket, err)
		}
		log.Info("Created MinIO bucket", "bucket", cfg.ArchiveBucket)
	}

	Client = client
	ArchiveBucket = cfg.ArchiveBucket
	return ensureRawLifecycle(ctx)
}

// ensureRawLifecycle 为 raw/ 前缀设置过期策略
func ensureRawLifecycle(ctx context.Context) error {
	lcConfig, err := Client.GetBucketLifecycle(ctx, ArchiveBucket)
	if err != nil {
		lcConfig = lifecycle.NewConfiguration()
	}

	for _, rule := range lcConfig.Rules {
		if rule.Status == "Enabled" &&
			rule.Expiration.Days == rawRetentionDays &&
			rule.RuleFilter.Prefix == RawPrefix {
			log.Info("检测到已存在兼容的过期策略", "ruleID", rule.ID)
			return nil
		}
	}

	lcConfig.Rules = append(lcConfig.Rules, lifecycle.Rule{
		ID:         "RawArchiveExpireRule",
		Status:     "Enabled",
		RuleFilter: lifecycle.Filter{Prefix: RawPrefix},
		Expiration: lifecycle.Expiration{
			Days: rawRetentionDays,
		},
	})
	if err = Client.SetBucketLifecycle(ctx, ArchiveBucket, lcConfig); err != nil {
		return fmt.Errorf("设置生命周期失败: %w", err)
	}
	log.Info("已设置原始采集数据的过期策略", "days", rawRetentionDays)
	return nil
}
