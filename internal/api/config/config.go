package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	cfg, err := loadConfig(viper.GetViper(), "./configs")
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}

func loadConfig(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("INFLUENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 100)
	v.SetDefault("database.max_lifetime", 3600)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("mongo.database", "influence")
	v.SetDefault("minio.archive_bucket", "influence-archive")
	v.SetDefault("elastic.indices.entity_index", "entities")
	v.SetDefault("jwt.issuer", "influence")
	v.SetDefault("collector.poll_interval", 15*time.Second)
	v.SetDefault("ranking.public_top_n", 10)
	v.SetDefault("ranking.cache_ttl", 10*time.Minute)
	v.SetDefault("jobs.materialize", "@every 10m")
	v.SetDefault("jobs.ranking", "0 0 * * * *")
	v.SetDefault("jobs.collect", "0 47 6 * * *")
}
