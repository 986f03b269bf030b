package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Gateway is the best-effort cache facade used by the engine. It never
// returns errors: failures are logged and counted, then degrade to a miss
// or a no-op.
type Gateway struct {
	backend Backend
	prefix  string
	logger  zerolog.Logger
}

// NewGateway wraps backend. An empty prefix uses DefaultKeyPrefix.
func NewGateway(backend Backend, prefix string, logger zerolog.Logger) *Gateway {
	if backend == nil {
		backend = NoopBackend{}
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Gateway{
		backend: backend,
		prefix:  prefix,
		logger:  logger.With().Str("cache_layer", backend.Name()).Logger(),
	}
}

// Layer returns the backend name.
func (g *Gateway) Layer() string {
	return g.backend.Name()
}

// Get decodes the value stored under key into dst and reports whether it
// was a hit. Decode failures are treated as misses.
func (g *Gateway) Get(ctx context.Context, key string, dst any) bool {
	layer := g.backend.Name()

	data, err := g.backend.Get(ctx, g.prefix+key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			CacheErrors.WithLabelValues("get").Inc()
			g.logger.Warn().Err(err).Str("key", key).Msg("Cache get error")
		}
		CacheMisses.WithLabelValues(layer).Inc()
		g.logger.Debug().Str("key", key).Msg("Cache miss")
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		CacheErrors.WithLabelValues("decode").Inc()
		CacheMisses.WithLabelValues(layer).Inc()
		g.logger.Warn().Err(ErrInvalidEntry).AnErr("cause", err).Str("key", key).Msg("Discarding undecodable cache entry")
		return false
	}

	CacheHits.WithLabelValues(layer).Inc()
	g.logger.Debug().Str("key", key).Msg("Cache hit")
	return true
}

// Set encodes value and stores it under key for ttl.
func (g *Gateway) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		CacheErrors.WithLabelValues("encode").Inc()
		g.logger.Warn().Err(err).Str("key", key).Msg("Failed to encode cache value")
		return
	}

	if err := g.backend.Set(ctx, g.prefix+key, data, ttl); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		g.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache value")
		return
	}

	g.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("Cached value")
}

// Remove deletes a single key.
func (g *Gateway) Remove(ctx context.Context, key string) {
	if err := g.backend.Delete(ctx, g.prefix+key); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		g.logger.Warn().Err(err).Str("key", key).Msg("Failed to remove cache key")
		return
	}
	g.logger.Debug().Str("key", key).Msg("Removed cache key")
}

// RemoveByPattern deletes every key under the gateway prefix whose
// remainder matches the glob pattern. The prefix is matched literally.
func (g *Gateway) RemoveByPattern(ctx context.Context, pattern string) {
	pattern = EscapePattern(g.prefix) + pattern
	removed, err := g.backend.DeleteMatching(ctx, pattern)
	if removed > 0 {
		InvalidatedKeys.Add(float64(removed))
	}
	if err != nil {
		CacheErrors.WithLabelValues("delete_matching").Inc()
		g.logger.Warn().Err(err).Str("pattern", pattern).Int("removed", removed).Msg("Failed to remove cache keys by pattern")
		return
	}

	if removed == 0 {
		g.logger.Debug().Str("pattern", pattern).Msg("No keys found matching pattern")
		return
	}
	g.logger.Info().Str("pattern", pattern).Int("removed", removed).Msg("Removed cache keys matching pattern")
}
