package service

import (
	"Influence/internal/model"
	"Influence/internal/pkg/collector"
	"Influence/internal/pkg/consts"
	"Influence/internal/pkg/platform"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const collected = `[
	{"url": "https://www.instagram.com/acme/", "followers": 120, "posts": []},
	{"input": {"url": "https://instagram.com/globex"}, "followers": 80},
	{"url": "https://instagram.com/stranger", "followers": 1}
]`

type collectionFixture struct {
	svc       *collectionServiceImpl
	collector *mockCollector
	store     *mockStore
	cache     *memCache
	history   *fakeHistoryRepo
	runs      *fakeRunRepo
}

func newCollectionFixture() *collectionFixture {
	pages := &fakePageRepo{pages: []*model.Page{
		{ID: 1, Link: "https://instagram.com/acme", Platform: "instagram", EntityID: 1},
		{ID: 2, Link: "https://instagram.com/globex", Platform: "instagram", EntityID: 2},
		{ID: 3, Link: "https://instagram.com/initech", Platform: "instagram", EntityID: 3},
		{ID: 4, Link: "https://x.com/acme", Platform: "x", EntityID: 1},
	}}
	f := &collectionFixture{
		collector: &mockCollector{},
		store:     &mockStore{},
		cache:     newMemCache(),
		history:   &fakeHistoryRepo{},
		runs:      &fakeRunRepo{},
	}
	f.svc = NewCollectionService(f.collector, pages, f.history, f.runs, f.cache, f.store).(*collectionServiceImpl)
	return f
}

func TestCollectMatchesResultsToPages(t *testing.T) {
	f := newCollectionFixture()
	urls := []string{"https://instagram.com/acme", "https://instagram.com/globex", "https://instagram.com/initech"}
	f.collector.On("DatasetID", platform.Instagram).Return("gd_ig", true)
	f.collector.On("Trigger", mock.Anything, platform.Instagram, urls).Return("s_1", nil)
	f.collector.On("WaitUntilReady", mock.Anything, "s_1").Return(nil)
	f.collector.On("Download", mock.Anything, "s_1").Return([]byte(collected), nil)
	f.store.On("PutObject", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "raw/instagram/")
	}), []byte(collected), "application/json").Return("raw/instagram/run.json", nil)

	run, err := f.svc.Collect(context.Background(), "instagram")
	require.NoError(t, err)
	assert.Equal(t, collector.StatusReady, run.Status)
	assert.Equal(t, "s_1", run.SnapshotID)
	assert.Equal(t, 3, run.Pages)
	assert.Equal(t, 2, run.Matched)
	assert.Equal(t, model.StringList{"https://instagram.com/initech"}, run.Unmatched)
	assert.Equal(t, "raw/instagram/run.json", run.ArchiveKey)
	assert.NotNil(t, run.FinishedAt)

	require.Len(t, f.history.created, 2)
	assert.Equal(t, uint64(1), f.history.created[0].PageID)
	assert.Contains(t, string(f.history.created[0].Data), "instagram.com/acme")
	assert.Equal(t, f.history.created[0].RecordedAt, f.history.created[1].RecordedAt)
	assert.Equal(t, []string{"1", "2"}, f.cache.members(consts.PageHistoryDirtyKey))

	require.Len(t, f.runs.updated, 1)
	f.collector.AssertExpectations(t)
	f.store.AssertExpectations(t)
}

func TestCollectFailedPollMarksRunFailed(t *testing.T) {
	f := newCollectionFixture()
	f.collector.On("DatasetID", platform.Instagram).Return("gd_ig", true)
	f.collector.On("Trigger", mock.Anything, platform.Instagram, mock.Anything).Return("s_2", nil)
	f.collector.On("WaitUntilReady", mock.Anything, "s_2").Return(collector.ErrCollectionFailed)

	run, err := f.svc.Collect(context.Background(), "instagram")
	assert.ErrorIs(t, err, collector.ErrCollectionFailed)
	require.NotNil(t, run)
	assert.Equal(t, collector.StatusFailed, run.Status)
	assert.Equal(t, collector.ErrCollectionFailed.Error(), run.Error)
	assert.Empty(t, f.history.created)
	f.collector.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)
}

func TestCollectPreconditions(t *testing.T) {
	f := newCollectionFixture()
	ctx := context.Background()
	f.collector.On("DatasetID", platform.TikTok).Return("", false)
	f.collector.On("DatasetID", platform.Instagram).Return("gd_ig", true)
	f.collector.On("DatasetID", platform.YouTube).Return("gd_yt", true)

	_, err := f.svc.Collect(ctx, "friendster")
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)

	_, err = f.svc.Collect(ctx, "tiktok")
	assert.ErrorIs(t, err, ErrCollectorNotConfigured)

	_, err = f.svc.Collect(ctx, "youtube")
	assert.ErrorIs(t, err, ErrEmptyResult)

	unlock, ok, err := f.cache.Lock(ctx, consts.CollectLock+"instagram", collectLockTTL)
	require.NoError(t, err)
	require.True(t, ok)
	defer unlock()
	_, err = f.svc.Collect(ctx, "instagram")
	assert.ErrorIs(t, err, ErrCollectionRunning)
}

func TestCollectArchiveErrorFailsRun(t *testing.T) {
	f := newCollectionFixture()
	f.collector.On("DatasetID", platform.X).Return("gd_x", true)
	f.collector.On("Trigger", mock.Anything, platform.X, []string{"https://x.com/acme"}).Return("s_3", nil)
	f.collector.On("WaitUntilReady", mock.Anything, "s_3").Return(nil)
	f.collector.On("Download", mock.Anything, "s_3").Return([]byte(`[]`), nil)
	f.store.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("minio down"))

	run, err := f.svc.Collect(context.Background(), "x")
	assert.Error(t, err)
	assert.Equal(t, collector.StatusFailed, run.Status)
	assert.Equal(t, "minio down", run.Error)
}

func TestListRuns(t *testing.T) {
	f := newCollectionFixture()
	f.runs.runs = []*model.CollectionRun{{ID: 1, Platform: "x"}, {ID: 2, Platform: "instagram"}, {ID: 3, Platform: "x"}}

	runs, err := f.svc.ListRuns(context.Background(), "X", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, uint64(3), runs[0].ID)

	_, err = f.svc.ListRuns(context.Background(), "friendster", 0)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}
