// Package analyzer provides the HTTP client for the internal virality
// analyzer service, the upstream behind the gateway.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for analyzer client operations.
var (
	analyzerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analyzer_requests_total",
		Help: "Total analyzer requests by endpoint and status",
	}, []string{"endpoint", "status"})

	analyzerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analyzer_request_duration_seconds",
		Help:    "Analyzer request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"endpoint"})

	analyzerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analyzer_errors_total",
		Help: "Total analyzer errors by class",
	}, []string{"class"})
)

// internalAPIKeyHeader is the shared-secret header identifying the
// gateway as a trusted internal caller.
const internalAPIKeyHeader = "X-Internal-API-Key"

// Analyzer endpoints proxied by the gateway.
const (
	statsPath       = "/internal/stats"
	leaderboardPath = "/internal/leaderboard"
	trendingPath    = "/internal/trending"
)

// trajectoryPath builds the snapshot-history endpoint for one video.
func trajectoryPath(videoID string) string {
	return "/internal/video/" + url.PathEscape(videoID) + "/trajectory"
}

// Config holds the analyzer client configuration.
type Config struct {
	// BaseURL is the analyzer base address, e.g. "http://analyzer:8081"
	BaseURL string

	// APIKey is the shared secret sent as X-Internal-API-Key
	APIKey string

	// Timeout is the fixed per-request timeout
	Timeout time.Duration
}

// DefaultConfig returns a configuration with the standard 5s timeout.
func DefaultConfig(baseURL, apiKey string) Config {
	return Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 5 * time.Second,
	}
}

// Client is the analyzer HTTP client. It is stateless per call and
// safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     zerolog.Logger
}

// New creates a new analyzer client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("analyzer base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid analyzer base url: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("internal api key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	logger := log.With().Str("component", "analyzer-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  logger,
	}, nil
}

// TrendingQuery holds the parameters of one trending listing request.
// Page and Limit are forwarded verbatim; out-of-range values are the
// analyzer's to reject or normalize.
type TrendingQuery struct {
	SortBy   string
	Platform string // empty means no filter
	Page     int
	Limit    int
}

// Stats fetches the analyzer's aggregate counters.
func (c *Client) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.get(ctx, statsPath, nil, &stats); err != nil {
		return nil, err
	}
	if err := stats.Validate(); err != nil {
		return nil, c.decodeError(statsPath, err)
	}
	return &stats, nil
}

// Leaderboard fetches the current top videos ranked by virality.
func (c *Client) Leaderboard(ctx context.Context) ([]VideoSummary, error) {
	var board []VideoSummary
	if err := c.get(ctx, leaderboardPath, nil, &board); err != nil {
		return nil, err
	}
	for i := range board {
		if err := board[i].Validate(); err != nil {
			return nil, c.decodeError(leaderboardPath, fmt.Errorf("leaderboard[%d]: %w", i, err))
		}
	}
	if board == nil {
		board = []VideoSummary{}
	}
	return board, nil
}

// Trending fetches one page of the trending listing. An absent
// platform filter is omitted from the query entirely, not sent as a
// sentinel value.
func (c *Client) Trending(ctx context.Context, q TrendingQuery) (*TrendingPage, error) {
	params := url.Values{}
	params.Set("sort_by", q.SortBy)
	if q.Platform != "" {
		params.Set("platform", q.Platform)
	}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))

	var page TrendingPage
	if err := c.get(ctx, trendingPath, params, &page); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, c.decodeError(trendingPath, err)
	}
	if page.Data == nil {
		page.Data = []VideoSummary{}
	}
	return &page, nil
}

// Trajectory fetches the full snapshot history of one video. An
// unknown id is not validated here; whatever the analyzer returns
// (including an empty sequence) is passed through unchanged.
func (c *Client) Trajectory(ctx context.Context, videoID string) ([]TrajectoryPoint, error) {
	endpoint := trajectoryPath(videoID)

	var points []TrajectoryPoint
	if err := c.get(ctx, endpoint, nil, &points); err != nil {
		return nil, err
	}
	for i := range points {
		if err := points[i].Validate(); err != nil {
			return nil, c.decodeError(endpoint, fmt.Errorf("trajectory[%d]: %w", i, err))
		}
	}
	if points == nil {
		points = []TrajectoryPoint{}
	}
	return points, nil
}

// get performs one authenticated GET against the analyzer and decodes
// the JSON body into out. All failure modes collapse into an
// UpstreamError matching ErrUpstreamUnavailable.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	startTime := time.Now()
	defer func() {
		analyzerRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build analyzer request: %w", err)
	}
	req.Header.Set(internalAPIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Msg("Executing analyzer request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Analyzer request failed")
		analyzerErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		analyzerRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return &UpstreamError{
			Endpoint: endpoint,
			Class:    ErrorClassNetwork,
			Err:      err,
		}
	}
	defer resp.Body.Close()

	analyzerRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg("Analyzer returned non-success status")
		analyzerErrorsTotal.WithLabelValues(string(ErrorClassStatus)).Inc()
		return &UpstreamError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Class:      ErrorClassStatus,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.decodeError(endpoint, err)
	}

	return nil
}

// decodeError wraps bodies that fail to parse or validate.
func (c *Client) decodeError(endpoint string, err error) error {
	c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Analyzer response failed to decode")
	analyzerErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
	return &UpstreamError{
		Endpoint: endpoint,
		Class:    ErrorClassDecode,
		Err:      err,
	}
}
