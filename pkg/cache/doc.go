// Package cache provides the gateway's Redis-backed response cache.
//
// The store is a thin layer over Redis string get/set with per-entry
// TTL. The facade owns serialization; the store treats payloads as
// opaque strings and Redis enforces expiry. The cache is advisory: a
// missing or malformed entry simply falls through to the upstream
// analyzer, it never fails a request on its own.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	store := cache.NewStore(redisClient)
//
//	key := cache.TrendingKey("newest", "", 1, 20)
//
//	payload, err := store.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from the analyzer, then:
//		_ = store.Set(ctx, key, payload, 30*time.Second)
//	}
//
// # Key Formats
//
// Keys are deterministic and collision-free across operations:
//
//   - dashboard_data
//   - trending:{sortBy}:{platform}:{page}:{limit} (absent filter → "all")
//   - trajectory:{videoID}
//
// # Metrics
//
// The store exports Prometheus metrics:
//
//   - gateway_cache_hits_total{layer="redis"} - Cache hits
//   - gateway_cache_misses_total - Cache misses
//   - gateway_cache_size_bytes{layer="redis"} - Bytes written
//   - gateway_cache_errors_total{operation} - Cache operation errors
package cache
