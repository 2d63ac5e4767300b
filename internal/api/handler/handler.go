// Package handler provides HTTP handlers for all API endpoints.
// Handlers depend on narrow interfaces so the upstream feed, the poller and
// the series reader can be swapped out in tests.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/nflparty/oddsboard/internal/api/respond"
	"github.com/nflparty/oddsboard/internal/cache"
	"github.com/nflparty/oddsboard/internal/config"
	"github.com/nflparty/oddsboard/internal/ingest"
	"github.com/nflparty/oddsboard/internal/series"
	"github.com/nflparty/oddsboard/internal/snapshot"
)

// OddsFeed is the upstream odds source.
type OddsFeed interface {
	FetchRaw(ctx context.Context) ([]byte, error)
}

// Poller runs one ingest cycle.
type Poller interface {
	Poll(ctx context.Context) (ingest.Result, error)
}

// SeriesAggregator builds price-history series from stored snapshots.
type SeriesAggregator interface {
	Aggregate(ctx context.Context, selections []series.Selection, market string, w series.Window) series.Result
}

// HealthChecker verifies a backing service is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps collects the handler dependencies.
type Deps struct {
	Feed       OddsFeed
	Poller     Poller
	Series     SeriesAggregator
	DB         HealthChecker
	Cache      cache.Cache
	Normalizer *snapshot.Normalizer
	Config     *config.Config
	Logger     *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	feed       OddsFeed
	poller     Poller
	series     SeriesAggregator
	db         HealthChecker
	cache      cache.Cache
	normalizer *snapshot.Normalizer
	cfg        *config.Config
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		feed:       d.Feed,
		poller:     d.Poller,
		series:     d.Series,
		db:         d.DB,
		cache:      d.Cache,
		normalizer: d.Normalizer,
		cfg:        d.Config,
		logger:     logger,
		now:        time.Now,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and tracked bookmaker.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"name":      "Oddsboard API",
		"version":   "1.0.0",
		"status":    "running",
		"docs":      "/docs",
		"sport":     h.cfg.Sport,
		"bookmaker": h.cfg.Bookmaker,
		"markets":   h.cfg.Markets,
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": h.timestamp(),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": h.timestamp(),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": h.timestamp(),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns response cache statistics for the memory or Redis backend.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"cache":     h.cache.Stats(r.Context()),
		"timestamp": h.timestamp(),
	})
}

func (h *Handler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}
