package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cached value could not be decoded
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// scanBatch is the SCAN COUNT hint and the DEL batch size.
const scanBatch = 100

// Backend stores opaque values under string keys with a per-entry TTL.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Get returns ErrCacheMiss if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores data for ttl. A non-positive ttl is a no-op.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// DeleteMatching removes every key matching a glob pattern and
	// returns how many were removed.
	DeleteMatching(ctx context.Context, pattern string) (int, error)
}

// RedisBackend is a Backend on top of Redis.
type RedisBackend struct {
	redis *redis.Client
}

// NewRedisBackend creates a new cache backend with Redis.
func NewRedisBackend(redisClient *redis.Client) *RedisBackend {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisBackend{
		redis: redisClient,
	}
}

// Name implements Backend.
func (b *RedisBackend) Name() string { return "redis" }

// Get implements Backend.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// Set implements Backend. Redis expires the key on its own.
func (b *RedisBackend) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired, don't cache
		return nil
	}

	if err := b.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete implements Backend.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// DeleteMatching implements Backend using SCAN MATCH so the server is never
// blocked by KEYS. Keys are deleted in batches as they are found.
func (b *RedisBackend) DeleteMatching(ctx context.Context, pattern string) (int, error) {
	removed := 0
	batch := make([]string, 0, scanBatch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := b.redis.Del(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}

	iter := b.redis.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan: %w", err)
	}

	if err := flush(); err != nil {
		return removed, err
	}
	return removed, nil
}
