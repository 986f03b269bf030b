// Package cache provides the best-effort cache layer used by the
// recommendation engine.
//
// The layer is split in two:
//
//   - A Backend stores opaque byte values under string keys with a per-entry
//     TTL. Three backends exist: RedisBackend (networked, shared between
//     instances), MemoryBackend (in-process, expirable LRU) and NoopBackend
//     (caching disabled). The backend is selected by configuration.
//   - A Gateway wraps a backend, namespaces keys with a prefix, encodes values
//     as JSON and swallows every failure. A backend error is logged, counted
//     and then treated as a miss (reads) or a no-op (writes, removals).
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	gw := cache.NewGateway(cache.NewRedisBackend(redisClient), cache.DefaultKeyPrefix, logger)
//
//	var rec recommend.Recommendation
//	if gw.Get(ctx, cache.RecommendationKey(genres, platform, ramGB), &rec) {
//		// hit
//	}
//
//	gw.Set(ctx, key, rec, cache.RecommendationTTL)
//	gw.RemoveByPattern(ctx, cache.HistoryInvalidationPattern)
//
// # Keys
//
// Keys are deterministic: genre lists are trimmed, lowercased, de-duplicated
// and sorted, so requests that differ only in genre order or case share one
// entry. See key.go for the formats and TTLs of each layer.
//
// # Patterns
//
// RemoveByPattern takes a glob relative to the gateway prefix. The prefix is
// escaped and prepended, so "history_*" under the prefix "gp:" becomes
// "gp:history_*" whatever characters the prefix holds. '*' matches any
// sequence, '/' included, on every backend (see pattern.go).
//
// # Metrics
//
//   - gamepicker_cache_hits_total{layer} - Cache hits
//   - gamepicker_cache_misses_total{layer} - Cache misses
//   - gamepicker_cache_errors_total{operation} - Swallowed backend/codec errors
//   - gamepicker_cache_invalidated_keys_total - Keys removed by pattern
package cache
