// Package testutil provides testing utilities for the TrendPulse gateway.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock analyzer endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAnalyzer is a configurable mock analyzer service for testing.
type MockAnalyzer struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	requestCount int
	pathCounts   map[string]int
	lastHeader   http.Header
}

// NewMockAnalyzer creates a new mock analyzer server with healthy
// defaults for all four internal endpoints.
func NewMockAnalyzer() *MockAnalyzer {
	mock := &MockAnalyzer{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.pathCounts[r.URL.Path]++
		mock.lastHeader = r.Header.Clone()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAnalyzer) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAnalyzer) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAnalyzer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.pathCounts = make(map[string]int)
	m.lastHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAnalyzer) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockAnalyzer) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// RequestCount returns the total number of requests served.
func (m *MockAnalyzer) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// PathCount returns the number of requests served for one path.
func (m *MockAnalyzer) PathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// LastAPIKey returns the X-Internal-API-Key header of the most recent
// request.
func (m *MockAnalyzer) LastAPIKey() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.lastHeader == nil {
		return ""
	}
	return m.lastHeader.Get("X-Internal-API-Key")
}

// defaultHandler provides healthy analyzer-like responses.
func (m *MockAnalyzer) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/internal/stats":
		w.Write([]byte(DefaultStatsBody))
	case "/internal/leaderboard":
		w.Write([]byte(DefaultLeaderboardBody))
	case "/internal/trending":
		w.Write([]byte(DefaultTrendingBody))
	default:
		// Any /internal/video/{id}/trajectory path.
		w.Write([]byte(DefaultTrajectoryBody))
	}
}

// Canned healthy bodies matching the analyzer's wire shapes.
const (
	DefaultStatsBody = `{"total_assets": 42000, "status": "NOMINAL"}`

	DefaultLeaderboardBody = `[
		{
			"video_platform_id": "7421337420",
			"source": "tiktok",
			"url": "https://tiktok.com/@creator/video/7421337420",
			"published_at": "2026-08-20T12:00:00Z",
			"author": {"username": "creator", "nickname": "Creator", "follower_count": 125000},
			"stats": {"views": 1500000, "likes": 240000, "comments": 8100, "shares": 15600},
			"metrics": {"virality_score": 0.92, "engagement_rate": 0.176}
		}
	]`

	DefaultTrendingBody = `{
		"data": [
			{
				"video_platform_id": "7421337421",
				"source": "tiktok",
				"url": "https://tiktok.com/@other/video/7421337421",
				"published_at": "2026-08-28T09:30:00Z",
				"author": {"username": "other", "nickname": "Other", "follower_count": 8400},
				"stats": {"views": 52000, "likes": 6100, "comments": 320, "shares": 410},
				"metrics": {"virality_score": 0.61, "engagement_rate": 0.131}
			}
		],
		"pagination": {"total": 1, "page": 1, "limit": 20}
	}`

	DefaultTrajectoryBody = `[
		{"snapshot_time": "2026-08-28T10:00:00Z", "stats": {"views": 1000, "likes": 90, "comments": 5, "shares": 3}},
		{"snapshot_time": "2026-08-28T11:00:00Z", "stats": {"views": 5200, "likes": 610, "comments": 32, "shares": 41}}
	]`
)

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "internal server error"}`,
	}
}

// NewSlowResponse creates a response delayed past the given timeout,
// for exercising the client's timeout path.
func NewSlowResponse(delay time.Duration, body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Delay:      delay,
	}
}
