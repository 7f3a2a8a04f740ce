package minio

import (
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestObjectKeys(t *testing.T) {
	at := time.Date(2024, 1, 1, 6, 47, 0, 0, time.FixedZone("CST", 8*3600))
	assert.Equal(t, "raw/instagram/20231231T224700Z.json", RawObjectKey("instagram", at))
	assert.Equal(t, "ranking/2024-01-01.json", RankingObjectKey("2024-01-01"))
}

func TestArchiveWithoutClient(t *testing.T) {
	a := NewArchive(nil, "bucket")
	_, err := a.PutObject(t.Context(), "k", []byte("{}"), "application/json")
	assert.Error(t, err)
	_, err = a.GetObject(t.Context(), "k")
	assert.Error(t, err)
}

func TestWrapObjectError(t *testing.T) {
	notFound := minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
	err := wrapObjectError(notFound, "read object", "ranking/2024-01-01.json")
	assert.True(t, errors.Is(err, ErrObjectNotFound))
	assert.Contains(t, err.Error(), "ranking/2024-01-01.json")

	err = wrapObjectError(minio.ErrorResponse{Code: "AccessDenied"}, "get object", "k")
	assert.False(t, errors.Is(err, ErrObjectNotFound))
}
