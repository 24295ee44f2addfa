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
	// or its TTL has elapsed.
	ErrCacheMiss = errors.New("cache miss")
)

// Store handles caching operations with Redis backend.
//
// Payloads are opaque strings; callers own serialization. Expiry is
// enforced by Redis via the TTL passed to Set, so a Get after the TTL
// window behaves exactly like a key that was never written.
type Store struct {
	redis *redis.Client
}

// NewStore creates a new cache store with Redis backend.
func NewStore(redisClient *redis.Client) *Store {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Store{
		redis: redisClient,
	}
}

// Get retrieves a cached payload by key.
// Returns ErrCacheMiss if the key doesn't exist or has expired.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	payload, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.Inc()
			return "", ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return "", fmt.Errorf("redis get: %w", err)
	}

	CacheHits.WithLabelValues("redis").Inc()
	return payload, nil
}

// Set stores a payload under key for the given TTL.
// A non-positive TTL skips the write entirely.
func (s *Store) Set(ctx context.Context, key, payload string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, key, payload, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	CacheSize.WithLabelValues("redis").Add(float64(len(payload)))
	return nil
}

// Delete removes a cache entry.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
