package service

import (
	"Influence/internal/model"
	"Influence/internal/pkg/es"
	"Influence/internal/pkg/mongo"
	"Influence/internal/pkg/platform"
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	sets    map[string]map[string]struct{}
	boards  map[string]map[string]float64
	locks   map[string]bool
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{
		values: make(map[string][]byte),
		sets:   make(map[string]map[string]struct{}),
		boards: make(map[string]map[string]float64),
		locks:  make(map[string]bool),
	}
}

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

func (c *memCache) AddToSet(_ context.Context, key string, members ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sets[key] == nil {
		c.sets[key] = make(map[string]struct{})
	}
	for _, m := range members {
		c.sets[key][m] = struct{}{}
	}
	return nil
}

func (c *memCache) ReplaceBoard(_ context.Context, key string, scores map[string]float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boards[key] = scores
	return nil
}

func (c *memCache) TopOfBoard(_ context.Context, key string, n int64) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	board := c.boards[key]
	members := make([]string, 0, len(board))
	for m := range board {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		if board[members[i]] != board[members[j]] {
			return board[members[i]] > board[members[j]]
		}
		return members[i] > members[j]
	})
	if int64(len(members)) > n {
		members = members[:n]
	}
	return members, nil
}

func (c *memCache) Lock(_ context.Context, key string, _ time.Duration) (func(), bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] {
		return func() {}, false, nil
	}
	c.locks[key] = true
	return func() {
		c.mu.Lock()
		delete(c.locks, key)
		c.mu.Unlock()
	}, true, nil
}

func (c *memCache) members(key string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.sets[key]))
	for m := range c.sets[key] {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

type fakeEntityRepo struct {
	entities map[uint64]*model.Entity
	nextID   uint64
}

func newFakeEntityRepo(entities ...*model.Entity) *fakeEntityRepo {
	r := &fakeEntityRepo{entities: make(map[uint64]*model.Entity)}
	for _, e := range entities {
		r.entities[e.ID] = e
		if e.ID > r.nextID {
			r.nextID = e.ID
		}
	}
	return r
}

func (r *fakeEntityRepo) CreateEntity(_ context.Context, entity *model.Entity, _ *uint64) error {
	r.nextID++
	entity.ID = r.nextID
	entity.CreatedAt = time.Now()
	r.entities[entity.ID] = entity
	return nil
}

func (r *fakeEntityRepo) GetEntityById(_ context.Context, id uint64) (*model.Entity, error) {
	return r.entities[id], nil
}

func (r *fakeEntityRepo) GetEntityByName(_ context.Context, name string) (*model.Entity, error) {
	for _, e := range r.entities {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeEntityRepo) GetEntitiesByIds(_ context.Context, ids []uint64) ([]*model.Entity, error) {
	out := make([]*model.Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEntityRepo) ListEntities(_ context.Context) ([]*model.Entity, error) {
	out := make([]*model.Entity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEntityRepo) DeleteEntity(_ context.Context, id uint64) error {
	delete(r.entities, id)
	return nil
}

type fakeCategoryRepo struct {
	categories []*model.Category
	rows       []model.CategoryRow
}

func (r *fakeCategoryRepo) CreateCategory(_ context.Context, category *model.Category) error {
	category.ID = uint64(len(r.categories) + 1)
	r.categories = append(r.categories, category)
	return nil
}

func (r *fakeCategoryRepo) GetCategoryById(_ context.Context, id uint64) (*model.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) GetCategoryByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) ListCategories(_ context.Context) ([]*model.Category, error) {
	return r.categories, nil
}

func (r *fakeCategoryRepo) DeleteCategory(_ context.Context, id uint64) error {
	out := r.categories[:0]
	for _, c := range r.categories {
		if c.ID != id {
			out = append(out, c)
		}
	}
	r.categories = out
	return nil
}

func (r *fakeCategoryRepo) LinkEntity(_ context.Context, entityID, categoryID uint64) error {
	r.rows = append(r.rows, model.CategoryRow{EntityID: entityID, CategoryID: categoryID})
	return nil
}

func (r *fakeCategoryRepo) GetCategoryRows(_ context.Context) ([]model.CategoryRow, error) {
	return r.rows, nil
}

func (r *fakeCategoryRepo) GetCategoryIdsByEntity(_ context.Context, entityID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	for _, row := range r.rows {
		if row.EntityID == entityID {
			ids = append(ids, row.CategoryID)
		}
	}
	return ids, nil
}

type fakePageRepo struct {
	pages []*model.Page
}

func (r *fakePageRepo) CreatePage(_ context.Context, page *model.Page) error {
	page.ID = uint64(len(r.pages) + 1)
	r.pages = append(r.pages, page)
	return nil
}

func (r *fakePageRepo) GetPageById(_ context.Context, id uint64) (*model.Page, error) {
	return r.find(func(p *model.Page) bool { return p.ID == id }), nil
}

func (r *fakePageRepo) GetPageByUUID(_ context.Context, uuid string) (*model.Page, error) {
	return r.find(func(p *model.Page) bool { return p.UUID == uuid }), nil
}

func (r *fakePageRepo) GetPageByLink(_ context.Context, link string) (*model.Page, error) {
	return r.find(func(p *model.Page) bool { return p.Link == link }), nil
}

func (r *fakePageRepo) ListPages(_ context.Context) ([]*model.Page, error) {
	return r.pages, nil
}

func (r *fakePageRepo) ListPagesByPlatform(_ context.Context, name string) ([]*model.Page, error) {
	return r.filter(func(p *model.Page) bool { return p.Platform == name }), nil
}

func (r *fakePageRepo) ListPagesByEntity(_ context.Context, entityID uint64) ([]*model.Page, error) {
	return r.filter(func(p *model.Page) bool { return p.EntityID == entityID }), nil
}

func (r *fakePageRepo) DeletePage(_ context.Context, id uint64) error {
	r.pages = r.filter(func(p *model.Page) bool { return p.ID != id })
	return nil
}

func (r *fakePageRepo) find(match func(*model.Page) bool) *model.Page {
	for _, p := range r.pages {
		if match(p) {
			return p
		}
	}
	return nil
}

func (r *fakePageRepo) filter(match func(*model.Page) bool) []*model.Page {
	out := make([]*model.Page, 0)
	for _, p := range r.pages {
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}

// fakeHistoryRepo 快照行按 recorded_at 升序保存
type fakeHistoryRepo struct {
	mu      sync.Mutex
	rows    []model.SnapshotRow
	created []*model.PageHistory
}

func (r *fakeHistoryRepo) CreateHistory(_ context.Context, histories []*model.PageHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, histories...)
	return nil
}

func (r *fakeHistoryRepo) GetLatestByPage(_ context.Context, pageID uint64) (*model.SnapshotRow, error) {
	rows := r.where(func(row model.SnapshotRow) bool { return row.PageID == pageID })
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[len(rows)-1], nil
}

func (r *fakeHistoryRepo) GetEntitySnapshots(_ context.Context, entityID uint64, name string, since time.Time) ([]model.SnapshotRow, error) {
	return r.where(func(row model.SnapshotRow) bool {
		return row.EntityID == entityID && row.Platform == name && !row.RecordedAt.Before(since)
	}), nil
}

func (r *fakeHistoryRepo) GetPageSnapshots(_ context.Context, pageID uint64) ([]model.SnapshotRow, error) {
	rows := r.where(func(row model.SnapshotRow) bool { return row.PageID == pageID })
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

func (r *fakeHistoryRepo) GetLatestPerPage(_ context.Context, entityIDs []uint64) ([]model.SnapshotRow, error) {
	latest := make(map[uint64]model.SnapshotRow)
	for _, row := range r.where(entityFilter(entityIDs)) {
		latest[row.PageID] = row
	}
	out := make([]model.SnapshotRow, 0, len(latest))
	for _, row := range latest {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PageID < out[j].PageID })
	return out, nil
}

func (r *fakeHistoryRepo) GetHistoryByEntities(_ context.Context, entityIDs []uint64) ([]model.SnapshotRow, error) {
	return r.where(entityFilter(entityIDs)), nil
}

func (r *fakeHistoryRepo) where(match func(model.SnapshotRow) bool) []model.SnapshotRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.SnapshotRow, 0)
	for _, row := range r.rows {
		if match(row) {
			out = append(out, row)
		}
	}
	return out
}

func entityFilter(ids []uint64) func(model.SnapshotRow) bool {
	return func(row model.SnapshotRow) bool {
		if ids == nil {
			return true
		}
		for _, id := range ids {
			if row.EntityID == id {
				return true
			}
		}
		return false
	}
}

type fakePostRepo struct {
	posts    []*model.Post
	upserted []*model.Post
}

func (r *fakePostRepo) UpsertPosts(_ context.Context, posts []*model.Post) error {
	r.upserted = append(r.upserted, posts...)
	return nil
}

func (r *fakePostRepo) GetPostById(_ context.Context, id uint64) (*model.Post, error) {
	for _, p := range r.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePostRepo) GetPostByKey(_ context.Context, pageUUID, name, postID string) (*model.Post, error) {
	for _, p := range r.posts {
		if p.PageUUID == pageUUID && p.Platform == name && p.PostID == postID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePostRepo) ListPostsByPlatform(_ context.Context, name string, limit int) ([]*model.Post, error) {
	out := make([]*model.Post, 0)
	for _, p := range r.posts {
		if p.Platform == name && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) ListPostsByPages(_ context.Context, uuids []string, limit int) ([]*model.Post, error) {
	out := make([]*model.Post, 0)
	for _, p := range r.posts {
		for _, u := range uuids {
			if p.PageUUID == u && len(out) < limit {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

type fakeRunRepo struct {
	runs    []*model.CollectionRun
	updated []model.CollectionRun
}

func (r *fakeRunRepo) CreateRun(_ context.Context, run *model.CollectionRun) error {
	run.ID = uint64(len(r.runs) + 1)
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeRunRepo) UpdateRun(_ context.Context, run *model.CollectionRun) error {
	r.updated = append(r.updated, *run)
	return nil
}

func (r *fakeRunRepo) ListRecentRuns(_ context.Context, name string, limit int) ([]*model.CollectionRun, error) {
	out := make([]*model.CollectionRun, 0)
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if name == "" || r.runs[i].Platform == name {
			out = append(out, r.runs[i])
		}
	}
	return out, nil
}

type fakeESRepo struct {
	indexed  map[uint64]*es.EntityES
	searched []string
}

func newFakeESRepo() *fakeESRepo {
	return &fakeESRepo{indexed: make(map[uint64]*es.EntityES)}
}

func (r *fakeESRepo) IndexEntity(_ context.Context, entity *es.EntityES) error {
	r.indexed[entity.ID] = entity
	return nil
}

func (r *fakeESRepo) DeleteEntity(_ context.Context, id uint64) error {
	delete(r.indexed, id)
	return nil
}

func (r *fakeESRepo) SearchByPrefix(_ context.Context, prefix string, _ []interface{}, size int) ([]*es.EntityES, error) {
	r.searched = append(r.searched, prefix)
	out := make([]*es.EntityES, 0)
	for _, e := range r.indexed {
		if strings.HasPrefix(e.Name, prefix) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > size {
		out = out[:size]
	}
	for _, e := range out {
		e.Sort = []interface{}{e.Name, e.ID}
	}
	return out, nil
}

type fakeNoteRepo struct {
	notes map[string]*mongo.NoteModel
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[string]*mongo.NoteModel)}
}

func (r *fakeNoteRepo) CreateNote(_ context.Context, note *mongo.NoteModel) error {
	note.ID = primitive.NewObjectID()
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt
	r.notes[note.ID.Hex()] = note
	return nil
}

func (r *fakeNoteRepo) GetByID(_ context.Context, id string) (*mongo.NoteModel, error) {
	return r.notes[id], nil
}

func (r *fakeNoteRepo) ListForTarget(_ context.Context, targetType string, targetID, viewerID uint64) ([]*mongo.NoteModel, error) {
	out := make([]*mongo.NoteModel, 0)
	for _, n := range r.notes {
		if n.TargetType != targetType || n.TargetID != targetID || n.Status == "deleted" {
			continue
		}
		if n.Visibility == "public" || n.AuthorID == viewerID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNoteRepo) ListByAuthor(_ context.Context, authorID uint64, limit, offset int64) ([]*mongo.NoteModel, error) {
	out := make([]*mongo.NoteModel, 0)
	for _, n := range r.notes {
		if n.AuthorID == authorID && n.Status != "deleted" {
			out = append(out, n)
		}
	}
	if offset >= int64(len(out)) {
		return []*mongo.NoteModel{}, nil
	}
	out = out[offset:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNoteRepo) UpdateContent(_ context.Context, id string, authorID uint64, content, visibility string) (bool, error) {
	n, ok := r.notes[id]
	if !ok || n.AuthorID != authorID || n.Status == "deleted" {
		return false, nil
	}
	n.Content = content
	if visibility != "" {
		n.Visibility = visibility
	}
	return true, nil
}

func (r *fakeNoteRepo) SetStatus(_ context.Context, id string, authorID uint64, status string) (bool, error) {
	n, ok := r.notes[id]
	if !ok || n.AuthorID != authorID || n.Status == "deleted" {
		return false, nil
	}
	n.Status = status
	return true, nil
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type mockCollector struct {
	mock.Mock
}

func (m *mockCollector) DatasetID(p platform.Platform) (string, bool) {
	args := m.Called(p)
	return args.String(0), args.Bool(1)
}

func (m *mockCollector) Platforms() []platform.Platform {
	args := m.Called()
	return args.Get(0).([]platform.Platform)
}

func (m *mockCollector) Trigger(ctx context.Context, p platform.Platform, urls []string) (string, error) {
	args := m.Called(ctx, p, urls)
	return args.String(0), args.Error(1)
}

func (m *mockCollector) WaitUntilReady(ctx context.Context, snapshotID string) error {
	return m.Called(ctx, snapshotID).Error(0)
}

func (m *mockCollector) Download(ctx context.Context, snapshotID string) ([]byte, error) {
	args := m.Called(ctx, snapshotID)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// snapshotRow 构造一条快照行，页面 uuid 由平台和页面 id 推导
func snapshotRow(entityID uint64, entityName string, pageID uint64, p platform.Platform, at time.Time, data string) model.SnapshotRow {
	link := "https://example.com/" + string(p) + "/" + entityName + "/" + strconv.FormatUint(pageID, 10)
	return model.SnapshotRow{
		HistoryID:  uint64(at.Unix()),
		PageID:     pageID,
		PageUUID:   model.PageUUID(p, link),
		PageName:   entityName,
		PageLink:   link,
		Platform:   string(p),
		EntityID:   entityID,
		EntityName: entityName,
		Data:       []byte(data),
		RecordedAt: at,
	}
}
