package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis connects to a local Redis and skips the test when none is
// running. Integration tests use testcontainers-go instead.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewRedisBackend(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	backend := NewRedisBackend(client)
	if backend == nil {
		t.Fatal("NewRedisBackend returned nil")
	}
	if backend.redis != client {
		t.Error("RedisBackend redis client not set correctly")
	}
}

func TestNewRedisBackend_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewRedisBackend should panic with nil redis client")
		}
	}()
	NewRedisBackend(nil)
}

func TestRedisBackend_SetAndGet(t *testing.T) {
	backend := NewRedisBackend(setupTestRedis(t))
	ctx := context.Background()

	if err := backend.Set(ctx, "gamepicker_k", []byte(`{"test":"data"}`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := backend.Get(ctx, "gamepicker_k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"test":"data"}` {
		t.Errorf("Data mismatch: got %s", got)
	}
}

func TestRedisBackend_Get_CacheMiss(t *testing.T) {
	backend := NewRedisBackend(setupTestRedis(t))

	if _, err := backend.Get(context.Background(), "nonexistent"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisBackend_Set_ZeroTTL(t *testing.T) {
	backend := NewRedisBackend(setupTestRedis(t))
	ctx := context.Background()

	if err := backend.Set(ctx, "k", []byte("x"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := backend.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss for zero TTL, got %v", err)
	}
}

func TestRedisBackend_DeleteMatching(t *testing.T) {
	backend := NewRedisBackend(setupTestRedis(t))
	ctx := context.Background()

	// More than one SCAN/DEL batch
	for i := 0; i < scanBatch+25; i++ {
		key := DefaultKeyPrefix + HistoryKey(10, i+1, "", "")
		if err := backend.Set(ctx, key, []byte("x"), time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	keep := DefaultKeyPrefix + GameDetailsKey(42)
	_ = backend.Set(ctx, keep, []byte("x"), time.Minute)

	removed, err := backend.DeleteMatching(ctx, DefaultKeyPrefix+HistoryInvalidationPattern)
	if err != nil {
		t.Fatalf("DeleteMatching failed: %v", err)
	}
	if removed != scanBatch+25 {
		t.Errorf("removed = %d, want %d", removed, scanBatch+25)
	}
	if _, err := backend.Get(ctx, keep); err != nil {
		t.Errorf("non-matching key removed: %v", err)
	}
	if _, err := backend.Get(ctx, fmt.Sprintf("%shistory_10_1_Title_asc", DefaultKeyPrefix)); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("history key survived invalidation: %v", err)
	}
}
