package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
server:
  port: 9000
database:
  dsn: "root:root@tcp(127.0.0.1:3306)/influence?parseTime=true"
collector:
  url: "https://api.example.com/datasets/v3"
  poll_interval: 30s
  datasets:
    instagram: gd_abc
    youtube: gd_def
ranking:
  public_top_n: 5
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(sample), 0o644))

	cfg, err := loadConfig(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Collector.PollInterval)
	assert.Equal(t, "gd_abc", cfg.Collector.Datasets["instagram"])
	assert.Equal(t, 5, cfg.Ranking.PublicTopN)

	assert.Equal(t, 10*time.Minute, cfg.Ranking.CacheTTL)
	assert.Equal(t, "0 47 6 * * *", cfg.Jobs.Collect)
	assert.Equal(t, "entities", cfg.Elastic.Indices.EntityIndex)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(sample), 0o644))
	t.Setenv("INFLUENCE_SERVER_PORT", "7000")

	cfg, err := loadConfig(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := loadConfig(viper.New(), t.TempDir())
	assert.ErrorContains(t, err, "config file not found")
}
