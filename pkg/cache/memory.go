package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemorySize bounds the number of entries held by a MemoryBackend.
const DefaultMemorySize = 10000

// MemoryBackend is an in-process Backend for single-instance deployments
// and tests. Entries carry their own expiry; the LRU bound keeps memory flat.
type MemoryBackend struct {
	lru *expirable.LRU[string, Entry]
}

// NewMemoryBackend creates a memory backend holding at most size entries.
// A non-positive size uses DefaultMemorySize.
func NewMemoryBackend(size int) *MemoryBackend {
	if size <= 0 {
		size = DefaultMemorySize
	}
	// TTL 0 disables LRU-wide expiry; each Entry expires individually.
	return &MemoryBackend{
		lru: expirable.NewLRU[string, Entry](size, nil, 0),
	}
}

// Name implements Backend.
func (b *MemoryBackend) Name() string { return "memory" }

// Get implements Backend.
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := b.lru.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	if entry.IsExpired() {
		b.lru.Remove(key)
		return nil, ErrCacheMiss
	}
	return entry.Data, nil
}

// Set implements Backend.
func (b *MemoryBackend) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.lru.Add(key, NewEntry(data, ttl))
	return nil
}

// Delete implements Backend.
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.lru.Remove(key)
	return nil
}

// DeleteMatching implements Backend with the pattern syntax described in
// pattern.go.
func (b *MemoryBackend) DeleteMatching(_ context.Context, pattern string) (int, error) {
	removed := 0
	for _, key := range b.lru.Keys() {
		if matchPattern(pattern, key) {
			if b.lru.Remove(key) {
				removed++
			}
		}
	}
	return removed, nil
}

// Len returns the number of entries currently held, expired ones included.
func (b *MemoryBackend) Len() int {
	return b.lru.Len()
}

// NoopBackend disables caching: every read misses and writes are dropped.
type NoopBackend struct{}

// Name implements Backend.
func (NoopBackend) Name() string { return "none" }

// Get implements Backend.
func (NoopBackend) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }

// Set implements Backend.
func (NoopBackend) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete implements Backend.
func (NoopBackend) Delete(context.Context, string) error { return nil }

// DeleteMatching implements Backend.
func (NoopBackend) DeleteMatching(context.Context, string) (int, error) { return 0, nil }
