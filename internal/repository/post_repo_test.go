package repository

import (
	"Influence/internal/model"
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertPosts(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO `posts` .* ON DUPLICATE KEY UPDATE `posted_at`=VALUES\\(`posted_at`\\)").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := NewPostRepo(db).UpsertPosts(context.Background(), []*model.Post{{
		PageUUID:   "uuid-1",
		Platform:   "instagram",
		PostID:     "p1",
		Likes:      10,
		Extra:      []byte(`{"id":"p1"}`),
		RecordedAt: time.Now(),
	}})
	require.NoError(t, err)
}

func TestGetPostByKey(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `posts` WHERE page_uuid = \\? AND platform = \\? AND post_id = \\?").
		WithArgs("uuid-1", "x", "42", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "page_uuid", "platform", "post_id", "likes"}).
			AddRow(5, "uuid-1", "x", "42", 77))

	post, err := NewPostRepo(db).GetPostByKey(context.Background(), "uuid-1", "x", "42")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, int64(77), post.Likes)
}

func TestListPostsByPagesEmpty(t *testing.T) {
	db, _ := newMockDB(t)
	posts, err := NewPostRepo(db).ListPostsByPages(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}
