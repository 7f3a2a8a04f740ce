package collector

import (
	"Influence/internal/api/config"
	"Influence/internal/pkg/platform"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.CollectorConfig{
		URL:          srv.URL,
		ApiKey:       "key",
		PollInterval: time.Millisecond,
		Datasets:     map[string]string{"Instagram": "gd_ig", "x": "gd_x", "myspace": "gd_nope"},
	})
}

func TestNewClientDatasets(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	id, ok := c.DatasetID(platform.Instagram)
	assert.True(t, ok)
	assert.Equal(t, "gd_ig", id)
	_, ok = c.DatasetID(platform.TikTok)
	assert.False(t, ok)
	assert.Equal(t, []platform.Platform{platform.Instagram, platform.X}, c.Platforms())
}

func TestTrigger(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/v3/trigger", r.URL.Path)
		assert.Equal(t, "gd_x", r.URL.Query().Get("dataset_id"))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var inputs []map[string]any
		require.NoError(t, json.Unmarshal(body, &inputs))
		require.Len(t, inputs, 1)
		assert.Equal(t, "https://x.com/acme", inputs[0]["url"])
		assert.EqualValues(t, 10, inputs[0]["max_number_of_posts"])

		_, _ = w.Write([]byte(`{"snapshot_id":"s_1"}`))
	})

	id, err := c.Trigger(context.Background(), platform.X, []string{"https://x.com/acme"})
	require.NoError(t, err)
	assert.Equal(t, "s_1", id)

	_, err = c.Trigger(context.Background(), platform.TikTok, []string{"u"})
	assert.Error(t, err)
}

func TestTriggerWithoutSnapshotID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"quota"}`))
	})
	_, err := c.Trigger(context.Background(), platform.Instagram, []string{"u"})
	assert.ErrorIs(t, err, ErrNoSnapshotID)
}

func TestWaitUntilReady(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/v3/progress/s_1", r.URL.Path)
		if calls.Add(1) < 3 {
			_, _ = w.Write([]byte(`{"status":"running"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	require.NoError(t, c.WaitUntilReady(context.Background(), "s_1"))
	assert.Equal(t, int32(3), calls.Load())
}

func TestWaitUntilReadyFailed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"failed"}`))
	})
	assert.ErrorIs(t, c.WaitUntilReady(context.Background(), "s_1"), ErrCollectionFailed)
}

func TestWaitUntilReadyPollError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	assert.Error(t, c.WaitUntilReady(context.Background(), "s_1"))
}

func TestDownloadAndParse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/v3/snapshot/s_1", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte(`[
			{"url":"https://www.instagram.com/acme/","followers":10,"posts":[]},
			{"input":{"url":"https://instagram.com/beta"},"error":"private"},
			{"followers":3}
		]`))
	})

	data, err := c.Download(context.Background(), "s_1")
	require.NoError(t, err)

	results, err := ParseResults(data)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://www.instagram.com/acme/", results[0].URL)
	assert.Equal(t, "https://instagram.com/beta", results[1].URL)
	assert.Equal(t, MatchKey("http://instagram.com/acme"), MatchKey(results[0].URL))

	_, err = ParseResults([]byte(`{"error":"Invalid JSON"}`))
	assert.Error(t, err)
}
