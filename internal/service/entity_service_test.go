package service

import (
	"Influence/internal/api/dto"
	"Influence/internal/model"
	"Influence/internal/pkg/consts"
	"Influence/internal/pkg/platform"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entityFixture struct {
	svc      *entityServiceImpl
	entities *fakeEntityRepo
	es       *fakeESRepo
	cache    *memCache
	history  *fakeHistoryRepo
}

func newEntityFixture() *entityFixture {
	f := &entityFixture{
		entities: newFakeEntityRepo(),
		es:       newFakeESRepo(),
		cache:    newMemCache(),
		history:  &fakeHistoryRepo{},
	}
	categories := &fakeCategoryRepo{categories: []*model.Category{{ID: 1, Name: "retail"}}}
	f.svc = NewEntityService(f.entities, categories, f.history, f.es, f.cache, time.Minute).(*entityServiceImpl)
	return f
}

func TestAddEntityNormalizesName(t *testing.T) {
	f := newEntityFixture()
	ctx := context.Background()

	entity, err := f.svc.AddEntity(ctx, &dto.CreateEntityDTO{Name: "  ACME Corp ", Type: "Company", CategoryID: uint64Ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, "acme corp", entity.Name)
	assert.Equal(t, consts.EntityTypeCompany, entity.Type)
	require.Len(t, entity.Categories, 1)
	assert.Equal(t, "retail", entity.Categories[0].Name)

	doc := f.es.indexed[entity.ID]
	require.NotNil(t, doc)
	assert.Equal(t, []string{"retail"}, doc.Categories)
	assert.Contains(t, f.cache.deleted, consts.RankingCacheKey)

	_, err = f.svc.AddEntity(ctx, &dto.CreateEntityDTO{Name: "acme corp", Type: "company"})
	assert.ErrorIs(t, err, ErrEntityExist)
	_, err = f.svc.AddEntity(ctx, &dto.CreateEntityDTO{Name: "other", Type: "charity"})
	assert.ErrorIs(t, err, ErrEntityTypeInvalid)
	_, err = f.svc.AddEntity(ctx, &dto.CreateEntityDTO{Name: "other", Type: "influencer", CategoryID: uint64Ptr(9)})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteEntityDropsIndexAndCache(t *testing.T) {
	f := newEntityFixture()
	ctx := context.Background()

	entity, err := f.svc.AddEntity(ctx, &dto.CreateEntityDTO{Name: "acme", Type: "company"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEntity(ctx, entity.ID))
	assert.NotContains(t, f.es.indexed, entity.ID)
	assert.Contains(t, f.cache.deleted, interactionCacheKey(entity.ID, platform.YouTube))
	assert.ErrorIs(t, f.svc.DeleteEntity(ctx, entity.ID), ErrEntityNotFound)
}

func TestSearchEntitiesCursor(t *testing.T) {
	f := newEntityFixture()
	ctx := context.Background()
	for _, name := range []string{"acme", "acme labs", "acorn", "globex"} {
		_, err := f.svc.AddEntity(ctx, &dto.CreateEntityDTO{Name: name, Type: "company"})
		require.NoError(t, err)
	}

	first, err := f.svc.SearchEntities(ctx, " AC", "", 2)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "acme", first.Items[0].Name)
	assert.NotEmpty(t, first.Cursor)
	assert.Equal(t, []string{"ac"}, f.es.searched)

	all, err := f.svc.SearchEntities(ctx, "ac", "", 10)
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
	assert.Empty(t, all.Cursor)

	_, err = f.svc.SearchEntities(ctx, "ac", "%%%", 10)
	assert.ErrorIs(t, err, ErrParamInvalid)
	_, err = f.svc.SearchEntities(ctx, "  ", "", 10)
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestGetProfileCard(t *testing.T) {
	f := newEntityFixture()
	ctx := context.Background()
	f.entities.entities[1] = &model.Entity{ID: 1, Name: "acme", Type: "company"}

	_, err := f.svc.GetProfileCard(ctx, 1)
	assert.ErrorIs(t, err, ErrEmptyResult)

	f.history.rows = []model.SnapshotRow{
		snapshotRow(1, "acme", 1, platform.Instagram, jan1, `{"followers": 100, "profile_image_link": "https://img/old.png"}`),
		snapshotRow(1, "acme", 1, platform.Instagram, jan2, `{"followers": 150, "profile_image_link": "https://img/acme.png", "biography": "we make things"}`),
		snapshotRow(1, "acme", 2, platform.YouTube, jan2, `[{"subscribers": 40, "Description": "channel"}]`),
	}
	card, err := f.svc.GetProfileCard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(190), card.TotalFollowers)
	require.Contains(t, card.Platforms, platform.Instagram)
	ig := card.Platforms[platform.Instagram]
	assert.Equal(t, "https://img/acme.png", ig.ProfileImageURL)
	assert.Equal(t, "we make things", ig.Biography)
	assert.Equal(t, "channel", card.Platforms[platform.YouTube].Biography)

	f.history.rows = nil
	cached, err := f.svc.GetProfileCard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(190), cached.TotalFollowers)

	_, err = f.svc.GetProfileCard(ctx, 2)
	assert.ErrorIs(t, err, ErrEntityNotFound)
}
