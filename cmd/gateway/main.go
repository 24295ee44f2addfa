package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/trendpulse/api-gateway/internal/api"
	"github.com/trendpulse/api-gateway/internal/config"
	"github.com/trendpulse/api-gateway/pkg/analyzer"
	"github.com/trendpulse/api-gateway/pkg/cache"
	"github.com/trendpulse/api-gateway/pkg/logging"
	"github.com/trendpulse/api-gateway/pkg/videos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
	})

	// Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid REDIS_URL")
	}
	redisClient := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	logger.Info().Str("addr", redisOpts.Addr).Msg("Connected to Redis")

	// Analyzer client and facade, constructed once and shared.
	analyzerClient, err := analyzer.New(analyzer.Config{
		BaseURL: cfg.AnalyzerURL,
		APIKey:  cfg.InternalAPIKey,
		Timeout: cfg.AnalyzerTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create analyzer client")
	}

	store := cache.NewStore(redisClient)
	facade := videos.NewService(store, analyzerClient)

	// HTTP server
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	router := api.NewRouter(facade, api.Config{
		Prefix:    cfg.APIPrefix,
		Username:  cfg.APIUsername,
		Password:  cfg.APIPassword,
		RateLimit: cfg.RateLimit,
	})
	router.Setup(engine)

	addr := ":" + cfg.Port
	logger.Info().
		Str("addr", addr).
		Str("analyzer", cfg.AnalyzerURL).
		Msg("Starting TrendPulse API gateway")

	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}
