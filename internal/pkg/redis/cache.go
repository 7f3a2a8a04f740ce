package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cache 服务层使用的缓存，基于全局 Rdb
type Cache struct{}

func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	return GetJSON(ctx, key, dst)
}

func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	return SetJSON(ctx, key, value, ttl)
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	return DeleteKey(ctx, keys...)
}

func (c *Cache) AddToSet(ctx context.Context, key string, members ...string) error {
	return SAdd(ctx, key, members...)
}

func (c *Cache) ReplaceBoard(ctx context.Context, key string, scores map[string]float64) error {
	return ReplaceZSet(ctx, key, scores)
}

func (c *Cache) TopOfBoard(ctx context.Context, key string, n int64) ([]string, error) {
	return ZRevRange(ctx, key, 0, n-1)
}

func (c *Cache) Lock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := TryLock(ctx, key, token, ttl, 1)
	if err != nil || !ok {
		return func() {}, ok, err
	}
	return func() { UnLock(context.WithoutCancel(ctx), key, token) }, true, nil
}
