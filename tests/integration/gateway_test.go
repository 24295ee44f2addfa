package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/trendpulse/api-gateway/internal/api"
	"github.com/trendpulse/api-gateway/internal/testutil"
	"github.com/trendpulse/api-gateway/pkg/analyzer"
	"github.com/trendpulse/api-gateway/pkg/cache"
	"github.com/trendpulse/api-gateway/pkg/videos"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

// setupGateway assembles the full stack: Redis-backed store, analyzer
// client against the mock, facade, and Gin router.
func setupGateway(t *testing.T, redisClient *redis.Client, mock *testutil.MockAnalyzer, timeout time.Duration) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client, err := analyzer.New(analyzer.Config{
		BaseURL: mock.URL(),
		APIKey:  "integration-secret",
		Timeout: timeout,
	})
	if err != nil {
		t.Fatalf("Failed to create analyzer client: %v", err)
	}

	store := cache.NewStore(redisClient)
	facade := videos.NewService(store, client)

	engine := gin.New()
	router := api.NewRouter(facade, api.Config{
		Prefix:   "/api/v1",
		Username: "admin",
		Password: "hunter2",
	})
	router.Setup(engine)
	return engine
}

func get(engine *gin.Engine, target string, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authorized {
		req.SetBasicAuth("admin", "hunter2")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestTrending_ColdThenWarm(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAnalyzer()
	defer mock.Close()
	mock.SetHandler("/internal/trending", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if _, present := q["platform"]; present {
			t.Error("platform param sent for absent filter")
		}
		if q.Get("sort_by") != "newest" || q.Get("page") != "1" || q.Get("limit") != "20" {
			t.Errorf("Unexpected upstream query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testutil.DefaultTrendingBody))
	})

	engine := setupGateway(t, redisClient, mock, 5*time.Second)

	// Scenario A: cold cache, exactly one upstream call.
	first := get(engine, "/api/v1/videos/trending?sort_by=newest&page=1&limit=20", true)
	if first.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", first.Code)
	}
	if got := mock.PathCount("/internal/trending"); got != 1 {
		t.Errorf("Upstream calls = %d, want 1", got)
	}
	if mock.LastAPIKey() != "integration-secret" {
		t.Errorf("X-Internal-API-Key = %q", mock.LastAPIKey())
	}

	// The result is cached in the live tier.
	ttl, err := redisClient.TTL(context.Background(), "trending:newest:all:1:20").Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 0 || ttl > 30*time.Second {
		t.Errorf("Trending TTL = %v, want (0, 30s]", ttl)
	}

	// Scenario B: identical request within the TTL window.
	second := get(engine, "/api/v1/videos/trending?sort_by=newest&page=1&limit=20", true)
	if second.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", second.Code)
	}
	if got := mock.PathCount("/internal/trending"); got != 1 {
		t.Errorf("Warm request hit upstream: %d calls", got)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("Repeat within TTL is not byte-identical")
	}
}

func TestDashboard_FanOutAndCache(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAnalyzer()
	defer mock.Close()

	engine := setupGateway(t, redisClient, mock, 5*time.Second)

	w := get(engine, "/api/v1/videos/dashboard", true)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}

	if got := mock.PathCount("/internal/stats"); got != 1 {
		t.Errorf("Stats calls = %d, want 1", got)
	}
	if got := mock.PathCount("/internal/leaderboard"); got != 1 {
		t.Errorf("Leaderboard calls = %d, want 1", got)
	}

	warm := get(engine, "/api/v1/videos/dashboard", true)
	if warm.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", warm.Code)
	}
	if mock.RequestCount() != 2 {
		t.Errorf("Warm dashboard hit upstream: %d total calls", mock.RequestCount())
	}
	if w.Body.String() != warm.Body.String() {
		t.Error("Warm dashboard payload differs from cold one")
	}
}

func TestDashboard_TimeoutFailsWhole(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAnalyzer()
	defer mock.Close()
	// Scenario C: leaderboard exceeds the client timeout.
	mock.SetResponse("/internal/leaderboard",
		testutil.NewSlowResponse(2*time.Second, testutil.DefaultLeaderboardBody))

	engine := setupGateway(t, redisClient, mock, 300*time.Millisecond)

	w := get(engine, "/api/v1/videos/dashboard", true)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Status = %d, want 503", w.Code)
	}

	// The successful stats half is discarded; nothing is cached.
	if err := redisClient.Get(context.Background(), "dashboard_data").Err(); err != redis.Nil {
		t.Errorf("Failed fan-out wrote the cache: %v", err)
	}
}

func TestTrajectory_EmptyCachedInHistoricalTier(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAnalyzer()
	defer mock.Close()
	// Scenario D: unknown asset, upstream returns an empty sequence.
	mock.SetResponse("/internal/video/unknown/trajectory", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `[]`,
	})

	engine := setupGateway(t, redisClient, mock, 5*time.Second)

	w := get(engine, "/api/v1/videos/video/unknown/trajectory", true)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}

	ttl, err := redisClient.TTL(context.Background(), "trajectory:unknown").Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 30*time.Second || ttl > 300*time.Second {
		t.Errorf("Trajectory TTL = %v, want (30s, 300s]", ttl)
	}
}

func TestAuth_EnforcedEndToEnd(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAnalyzer()
	defer mock.Close()

	engine := setupGateway(t, redisClient, mock, 5*time.Second)

	w := get(engine, "/api/v1/videos/dashboard", false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Status = %d, want 401", w.Code)
	}
	if mock.RequestCount() != 0 {
		t.Errorf("Unauthorized request reached upstream: %d calls", mock.RequestCount())
	}

	// Health stays open.
	if w := get(engine, "/health", false); w.Code != http.StatusOK {
		t.Errorf("Health status = %d, want 200", w.Code)
	}
}

func TestUpstreamServerError_MapsTo503(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockAnalyzer()
	defer mock.Close()
	mock.SetResponse("/internal/trending", testutil.NewServerErrorResponse())

	engine := setupGateway(t, redisClient, mock, 5*time.Second)

	w := get(engine, "/api/v1/videos/trending", true)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Status = %d, want 503", w.Code)
	}

	if err := redisClient.Get(context.Background(), "trending:newest:all:1:20").Err(); err != redis.Nil {
		t.Errorf("Failed fetch wrote the cache: %v", err)
	}
}
