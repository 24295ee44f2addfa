// Package config loads the gateway's startup configuration from the
// environment. All values are read once at process start and are
// immutable thereafter.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the full gateway configuration surface.
type Config struct {
	// Port the inbound HTTP server listens on.
	Port string `env:"PORT" envDefault:"8000"`

	// APIPrefix is the versioned route prefix.
	APIPrefix string `env:"API_V1_PREFIX" envDefault:"/api/v1"`

	// Basic-auth credentials for inbound callers.
	APIUsername string `env:"API_USERNAME" envDefault:"admin"`
	APIPassword string `env:"API_PASSWORD" envDefault:"admin"`

	// AnalyzerURL is the upstream analyzer base address.
	AnalyzerURL string `env:"ANALYZER_URL,required,notEmpty"`

	// InternalAPIKey is the shared secret sent to the analyzer.
	InternalAPIKey string `env:"INTERNAL_API_KEY,required,notEmpty"`

	// AnalyzerTimeout is the fixed per-request upstream timeout.
	AnalyzerTimeout time.Duration `env:"ANALYZER_TIMEOUT" envDefault:"5s"`

	// RedisURL is the cache store address, e.g. "redis://localhost:6379/0".
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// RateLimit is the per-IP inbound request rate; zero disables it.
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"10"`

	// Logging.
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// Load reads the configuration from the environment, loading a .env
// file first when one is present.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
