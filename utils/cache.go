package utils

import (
	"FileVault/internal/repo"
	"FileVault/model"
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis cache client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get reads a cached value.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set writes a cached value.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, string(data), expiration).Err()
}

// Delete removes a cache entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

const fileListCacheKey = "file:list:active"
const fileListCacheTTL = 30 * time.Second

// GetFileListFromCache returns the cached active file list, if present.
func GetFileListFromCache(ctx context.Context) ([]model.FileRecord, bool) {
	if repo.Redis == nil {
		return nil, false
	}
	cache := NewRedisCache(repo.Redis)
	var files []model.FileRecord
	if err := cache.Get(ctx, fileListCacheKey, &files); err != nil {
		return nil, false
	}
	return files, true
}

// SetFileListToCache caches the active file list.
func SetFileListToCache(ctx context.Context, files []model.FileRecord) error {
	if repo.Redis == nil {
		return nil
	}
	return NewRedisCache(repo.Redis).Set(ctx, fileListCacheKey, files, fileListCacheTTL)
}

// InvalidateFileListCache drops the cached file list after upload or delete.
func InvalidateFileListCache(ctx context.Context) error {
	if repo.Redis == nil {
		return nil
	}
	return NewRedisCache(repo.Redis).Delete(ctx, fileListCacheKey)
}
