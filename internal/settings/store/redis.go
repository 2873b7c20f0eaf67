package store

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"voxlab/internal/platform/redis"
	"voxlab/pkg/platform/sentinel"
)

// cacheTTL bounds how stale a cached setting can be if an invalidation is
// ever lost.
const cacheTTL = 5 * time.Minute

const cachePrefix = "voxlab:settings:"

// CachedStore is a Redis read-through cache in front of another settings
// store. The status engine reads the same two keys on every refresh, so this
// keeps those reads off the database. Writes invalidate before delegating.
type CachedStore struct {
	inner  interface {
		Get(ctx context.Context, key string) (string, error)
		Set(ctx context.Context, key, value string) error
		IncrementInt(ctx context.Context, key string, initial int) (int, error)
	}
	cache *redis.Client
}

func NewCached(inner *PostgresStore, cache *redis.Client) *CachedStore {
	return &CachedStore{inner: inner, cache: cache}
}

func (s *CachedStore) Get(ctx context.Context, key string) (string, error) {
	cached, err := s.cache.Client.Get(ctx, cachePrefix+key).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, goredis.Nil) {
		// Cache trouble falls through to the source of truth.
		return s.inner.Get(ctx, key)
	}

	value, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	_ = s.cache.Client.Set(ctx, cachePrefix+key, value, cacheTTL).Err()
	return value, nil
}

func (s *CachedStore) Set(ctx context.Context, key, value string) error {
	if err := s.invalidate(ctx, key); err != nil {
		return err
	}
	return s.inner.Set(ctx, key, value)
}

func (s *CachedStore) IncrementInt(ctx context.Context, key string, initial int) (int, error) {
	if err := s.invalidate(ctx, key); err != nil {
		return 0, err
	}
	return s.inner.IncrementInt(ctx, key, initial)
}

// invalidate must succeed before a write proceeds: serving a stale rules
// version after a bump would silently hide staleness from the dashboard.
func (s *CachedStore) invalidate(ctx context.Context, key string) error {
	err := s.cache.Client.Del(ctx, cachePrefix+key).Err()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return sentinel.ErrUnavailable
	}
	return nil
}
