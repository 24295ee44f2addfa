// Package api exposes the gateway's inbound HTTP surface: the Gin
// router, Basic-auth middleware, and the handlers that translate HTTP
// queries into facade operations.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/trendpulse/api-gateway/pkg/analyzer"
)

// Facade is the handler's view of the aggregation facade.
type Facade interface {
	Dashboard(ctx context.Context) (*analyzer.DashboardBundle, error)
	Trending(ctx context.Context, q analyzer.TrendingQuery) (*analyzer.TrendingPage, error)
	Trajectory(ctx context.Context, videoID string) ([]analyzer.TrajectoryPoint, error)
}

// VideoHandler serves the /videos routes.
type VideoHandler struct {
	facade Facade
	logger zerolog.Logger
}

// NewVideoHandler creates the handler for the video routes.
func NewVideoHandler(facade Facade) *VideoHandler {
	return &VideoHandler{
		facade: facade,
		logger: log.With().Str("component", "api").Logger(),
	}
}

// GetDashboard serves GET /videos/dashboard.
func (h *VideoHandler) GetDashboard(c *gin.Context) {
	bundle, err := h.facade.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// GetTrending serves GET /videos/trending.
// page and limit must parse as integers; their range is the analyzer's
// to enforce, the gateway forwards them verbatim.
func (h *VideoHandler) GetTrending(c *gin.Context) {
	sortBy := c.DefaultQuery("sort_by", "newest")
	platform := c.Query("platform")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be an integer"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	result, err := h.facade.Trending(c.Request.Context(), analyzer.TrendingQuery{
		SortBy:   sortBy,
		Platform: platform,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTrajectory serves GET /videos/video/:id/trajectory.
func (h *VideoHandler) GetTrajectory(c *gin.Context) {
	videoID := c.Param("id")
	if strings.TrimSpace(videoID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video id is required"})
		return
	}

	points, err := h.facade.Trajectory(c.Request.Context(), videoID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// respondError maps facade failures to outward statuses. The cause is
// logged for diagnostics but never serialized into the response body.
func (h *VideoHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, analyzer.ErrUpstreamUnavailable) {
		h.logger.Error().Err(err).Str("route", c.FullPath()).Msg("Upstream fetch failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analyzer service unavailable"})
		return
	}
	h.logger.Error().Err(err).Str("route", c.FullPath()).Msg("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// Health serves GET /health as the liveness marker.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
