// Package videos implements the gateway's aggregation facade: the
// read-through caching layer in front of the virality analyzer.
//
// Each operation follows the same policy: check the cache, on miss
// fetch from the analyzer (concurrently where an operation spans more
// than one upstream resource), write the result back with the tier's
// TTL, return it. The cache never changes observable semantics; a
// malformed or missing entry simply falls through to the analyzer.
package videos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/trendpulse/api-gateway/pkg/analyzer"
	"github.com/trendpulse/api-gateway/pkg/cache"
)

// Freshness tiers. Live views change with every ingest cycle, so their
// staleness window is tight; snapshot histories only grow, so they can
// be held an order of magnitude longer.
const (
	// LiveTTL is the expiry for dashboard and trending entries.
	LiveTTL = 30 * time.Second

	// HistoricalTTL is the expiry for trajectory entries.
	HistoricalTTL = 300 * time.Second
)

// CacheStore is the facade's view of the response cache.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, payload string, ttl time.Duration) error
}

// AnalyzerClient is the facade's view of the upstream analyzer.
type AnalyzerClient interface {
	Stats(ctx context.Context) (*analyzer.DashboardStats, error)
	Leaderboard(ctx context.Context) ([]analyzer.VideoSummary, error)
	Trending(ctx context.Context, q analyzer.TrendingQuery) (*analyzer.TrendingPage, error)
	Trajectory(ctx context.Context, videoID string) ([]analyzer.TrajectoryPoint, error)
}

// Service is the aggregation facade. It holds no per-request state and
// is safe for concurrent use.
type Service struct {
	store  CacheStore
	client AnalyzerClient
	group  singleflight.Group
	logger zerolog.Logger
}

// NewService creates the facade with its injected collaborators.
func NewService(store CacheStore, client AnalyzerClient) *Service {
	if store == nil {
		panic("cache store cannot be nil")
	}
	if client == nil {
		panic("analyzer client cannot be nil")
	}
	return &Service{
		store:  store,
		client: client,
		logger: log.With().Str("component", "videos-facade").Logger(),
	}
}

// Dashboard returns the merged dashboard bundle: aggregate stats plus
// the virality leaderboard, fetched concurrently on a cache miss. Both
// halves must succeed; a dashboard missing half its content is worse
// than an explicit error, so there is no partial-result path.
func (s *Service) Dashboard(ctx context.Context) (*analyzer.DashboardBundle, error) {
	var cached analyzer.DashboardBundle
	if s.fromCache(ctx, cache.DashboardKey, &cached) {
		return &cached, nil
	}

	v, err, _ := s.group.Do(cache.DashboardKey, func() (any, error) {
		return s.fetchDashboard(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*analyzer.DashboardBundle), nil
}

func (s *Service) fetchDashboard(ctx context.Context) (*analyzer.DashboardBundle, error) {
	var (
		stats *analyzer.DashboardStats
		board []analyzer.VideoSummary
	)

	// Both fetches start without waiting on each other; the first
	// failure cancels its sibling via the group context, which is fine
	// because the bundle is unusable without both halves.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.client.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		board, err = s.client.Leaderboard(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bundle := &analyzer.DashboardBundle{
		Stats:       *stats,
		Leaderboard: board,
	}
	s.toCache(ctx, cache.DashboardKey, bundle, LiveTTL)
	return bundle, nil
}

// Trending returns one page of the trending listing. Query parameters
// are forwarded verbatim; each distinct (sort, platform, page, limit)
// combination caches independently.
func (s *Service) Trending(ctx context.Context, q analyzer.TrendingQuery) (*analyzer.TrendingPage, error) {
	key := cache.TrendingKey(q.SortBy, q.Platform, q.Page, q.Limit)

	var cached analyzer.TrendingPage
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		page, err := s.client.Trending(ctx, q)
		if err != nil {
			return nil, err
		}
		s.toCache(ctx, key, page, LiveTTL)
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*analyzer.TrendingPage), nil
}

// Trajectory returns the snapshot history of one video in upstream
// order. An unknown id is not validated here; an empty history is a
// valid, cacheable result.
func (s *Service) Trajectory(ctx context.Context, videoID string) ([]analyzer.TrajectoryPoint, error) {
	key := cache.TrajectoryKey(videoID)

	var cached []analyzer.TrajectoryPoint
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		points, err := s.client.Trajectory(ctx, videoID)
		if err != nil {
			return nil, err
		}
		s.toCache(ctx, key, points, HistoricalTTL)
		return points, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]analyzer.TrajectoryPoint), nil
}

// fromCache reports whether key held a fresh, well-formed entry and
// deserialized it into out. Store errors and undecodable entries count
// as misses: the cache is advisory, never authoritative.
func (s *Service) fromCache(ctx context.Context, key string, out any) bool {
	payload, err := s.store.Get(ctx, key)
	if err != nil {
		if err != cache.ErrCacheMiss {
			s.logger.Warn().Err(err).Str("key", key).Msg("Cache get error")
		}
		return false
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Malformed cache entry, treating as miss")
		return false
	}
	s.logger.Debug().Str("key", key).Bool("cache_hit", true).Msg("Serving from cache")
	return true
}

// toCache serializes value and writes it under key. Write failures are
// logged and swallowed; the fetched result is still served.
func (s *Service) toCache(ctx context.Context, key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to serialize cache entry")
		return
	}
	if err := s.store.Set(ctx, key, string(payload), ttl); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache response")
		return
	}
	s.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("Cached response")
}
