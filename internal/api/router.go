package api

import (
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/didip/tollbooth_gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds the router's startup settings.
type Config struct {
	// Prefix is the versioned API prefix, e.g. "/api/v1".
	Prefix string

	// Basic-auth credentials required for the /videos routes.
	Username string
	Password string

	// RateLimit is the per-IP request rate; zero disables limiting.
	RateLimit float64
}

// Router wires the gateway's HTTP surface to the facade.
type Router struct {
	handler *VideoHandler
	cfg     Config
}

// NewRouter creates a router serving the given facade.
func NewRouter(facade Facade, cfg Config) *Router {
	return &Router{
		handler: NewVideoHandler(facade),
		cfg:     cfg,
	}
}

// Setup registers all middleware and routes on the engine.
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(requestMetrics())

	if r.cfg.RateLimit > 0 {
		lmt := tollbooth.NewLimiter(r.cfg.RateLimit, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
		lmt.SetIPLookups([]string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"})
		lmt.SetMessage(`{"error": "too many requests"}`)
		lmt.SetMessageContentType("application/json")
		engine.Use(tollbooth_gin.LimitHandler(lmt))
	}

	engine.GET("/health", Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group(r.cfg.Prefix)
	videos := v1.Group("/videos", BasicAuth(r.cfg.Username, r.cfg.Password))
	{
		videos.GET("/dashboard", r.handler.GetDashboard)
		videos.GET("/trending", r.handler.GetTrending)
		videos.GET("/video/:id/trajectory", r.handler.GetTrajectory)
	}
}
