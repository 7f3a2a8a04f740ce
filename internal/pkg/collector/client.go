package collector

import (
	"Influence/internal/api/config"
	"Influence/internal/pkg/platform"
	"context"
	log "log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	StatusReady   = "ready"
	StatusRunning = "running"
	StatusFailed  = "failed"
)

var (
	ErrCollectionFailed = errors.New("data collection failed")
	ErrNoSnapshotID     = errors.New("collector returned no snapshot id")
)

// Client 数据集采集接口，流程为 trigger -> progress -> snapshot
type Client struct {
	http     *resty.Client
	datasets map[string]string
	interval time.Duration
}

func NewClient(cfg config.CollectorConfig) *Client {
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")+"/datasets/v3").
		SetAuthToken(cfg.ApiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(60 * time.Second)

	datasets := make(map[string]string, len(cfg.Datasets))
	for name, id := range cfg.Datasets {
		p, err := platform.Parse(name)
		if err != nil {
			log.Warn("ignore dataset for unsupported platform", "platform", name)
			continue
		}
		datasets[string(p)] = id
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Client{http: http, datasets: datasets, interval: interval}
}

// DatasetID 平台对应的数据集，未配置返回 false
func (c *Client) DatasetID(p platform.Platform) (string, bool) {
	id, ok := c.datasets[string(p)]
	return id, ok && id != ""
}

// Platforms 已配置数据集的平台
func (c *Client) Platforms() []platform.Platform {
	var out []platform.Platform
	for _, p := range platform.All() {
		if _, ok := c.DatasetID(p); ok {
			out = append(out, p)
		}
	}
	return out
}

type triggerResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

type progressResponse struct {
	Status string `json:"status"`
}

// Inputs 每个链接一条采集输入，部分平台需要额外字段
func Inputs(p platform.Platform, urls []string) []map[string]any {
	inputs := make([]map[string]any, 0, len(urls))
	for _, u := range urls {
		entry := map[string]any{"url": u}
		switch p {
		case platform.TikTok:
			entry["country"] = ""
		case platform.X:
			entry["max_number_of_posts"] = 10
		}
		inputs = append(inputs, entry)
	}
	return inputs
}

// Trigger 发起一次采集，返回快照 id
func (c *Client) Trigger(ctx context.Context, p platform.Platform, urls []string) (string, error) {
	datasetID, ok := c.DatasetID(p)
	if !ok {
		return "", errors.Errorf("no dataset configured for %s", p)
	}

	var result triggerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"dataset_id":     datasetID,
			"include_errors": "true",
		}).
		SetBody(Inputs(p, urls)).
		SetResult(&result).
		Post("/trigger")
	if err != nil {
		return "", errors.Wrap(err, "trigger collection")
	}
	if resp.IsError() {
		return "", errors.Errorf("trigger collection: status %d: %s", resp.StatusCode(), resp.String())
	}
	if result.SnapshotID == "" {
		return "", ErrNoSnapshotID
	}
	return result.SnapshotID, nil
}

// Progress 查询快照状态
func (c *Client) Progress(ctx context.Context, snapshotID string) (string, error) {
	var result progressResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/progress/" + snapshotID)
	if err != nil {
		return "", errors.Wrap(err, "query progress")
	}
	if resp.IsError() {
		return "", errors.Errorf("query progress: status %d", resp.StatusCode())
	}
	return result.Status, nil
}

// WaitUntilReady 按固定间隔轮询直到 ready，任何一次查询失败都直接返回
func (c *Client) WaitUntilReady(ctx context.Context, snapshotID string) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		status, err := c.Progress(ctx, snapshotID)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "collection progress", "snapshot_id", snapshotID, "status", status)
		switch status {
		case StatusReady:
			return nil
		case StatusFailed:
			return errors.Wrap(ErrCollectionFailed, snapshotID)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Download 下载快照的 JSON 结果
func (c *Client) Download(ctx context.Context, snapshotID string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("format", "json").
		Get("/snapshot/" + snapshotID)
	if err != nil {
		return nil, errors.Wrap(err, "download snapshot")
	}
	if resp.IsError() {
		return nil, errors.Errorf("download snapshot: status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
