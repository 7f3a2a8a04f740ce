package minio

import (
	"bytes"
	"context"
	"io"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

const (
	RawPrefix     = "raw/"
	RankingPrefix = "ranking/"
)

// ErrObjectNotFound 对象不存在
var ErrObjectNotFound = errors.New("object not found")

// RawObjectKey 原始采集数据的对象名，例如 raw/instagram/20240101T064700Z.json
func RawObjectKey(platform string, at time.Time) string {
	return path.Join(RawPrefix, platform, at.UTC().Format("20060102T150405Z")+".json")
}

// RankingObjectKey 每日排行导出的对象名
func RankingObjectKey(day string) string {
	return path.Join(RankingPrefix, day+".json")
}

// Archive 归档存储，封装存储桶
type Archive struct {
	client *minio.Client
	bucket string
}

func NewArchive(client *minio.Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// PutObject 上传对象，返回对象名
func (a *Archive) PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if a.client == nil {
		return "", errors.New("minio client is not initialized")
	}
	info, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "put object %s", key)
	}
	return info.Key, nil
}

// GetObject 读取完整对象
func (a *Archive) GetObject(ctx context.Context, key string) ([]byte, error) {
	if a.client == nil {
		return nil, errors.New("minio client is not initialized")
	}
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, wrapObjectError(err, "get object", key)
	}
	defer func() {
		_ = obj.Close()
	}()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, wrapObjectError(err, "read object", key)
	}
	return data, nil
}

// wrapObjectError NoSuchKey 转换为 ErrObjectNotFound，GetObject 的错误可能在读取时才出现
func wrapObjectError(err error, op, key string) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return errors.Wrapf(ErrObjectNotFound, "%s %s", op, key)
	}
	return errors.Wrapf(err, "%s %s", op, key)
}
