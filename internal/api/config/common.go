package config

import "time"

// Config 配置主体
type Config struct {
	Server               ServerConfig         `mapstructure:"server"`
	DB                   DBConfig             `mapstructure:"database"`
	Redis                RedisConfig          `mapstructure:"redis"`
	Mongo                MongoConfig          `mapstructure:"mongo"`
	MinIO                MinIOConfig          `mapstructure:"minio"`
	Elastic              ElasticConfig        `mapstructure:"elastic"`
	Kafka                KafkaConfig          `mapstructure:"kafka"`
	KafkaHistoryConsumer KafkaHistoryConsumer `mapstructure:"kafka_history_consumer"`
	Logstash             LogstashConfig       `mapstructure:"logstash"`
	JWT                  JWTConfig            `mapstructure:"jwt"`
	Collector            CollectorConfig      `mapstructure:"collector"`
	Ranking              RankingConfig        `mapstructure:"ranking"`
	Jobs                 JobsConfig           `mapstructure:"jobs"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
	// AllowOrigins 为空时放行所有来源
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig 备注存储
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	ArchiveBucket    string `mapstructure:"archive_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	EntityIndex string `mapstructure:"entity_index"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaHistoryConsumer pages_history 的 binlog 主题
type KafkaHistoryConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// LogstashConfig 远程日志
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// CollectorConfig 数据采集接口，Datasets 为平台到数据集 id 的映射
type CollectorConfig struct {
	URL          string            `mapstructure:"url"`
	ApiKey       string            `mapstructure:"api_key"`
	PollInterval time.Duration     `mapstructure:"poll_interval"`
	Datasets     map[string]string `mapstructure:"datasets"`
}

type RankingConfig struct {
	PublicTopN int           `mapstructure:"public_top_n"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

// JobsConfig 定时任务的 cron 表达式，支持秒字段
type JobsConfig struct {
	Materialize string `mapstructure:"materialize"`
	Ranking     string `mapstructure:"ranking"`
	Collect     string `mapstructure:"collect"`
}
