// Command api is the Oddsboard API server.
//
// Usage:
//
//	oddsboard-api
//	API_PORT=8080 oddsboard-api

// @title Oddsboard API
// @version 1.0.0
// @description NFL player-prop odds history: polls the upstream odds feed, stores one snapshot per outcome, and serves price-history series for charting.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Oddsboard
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/nflparty/oddsboard/internal/api"
	"github.com/nflparty/oddsboard/internal/api/handler"
	"github.com/nflparty/oddsboard/internal/cache"
	"github.com/nflparty/oddsboard/internal/config"
	"github.com/nflparty/oddsboard/internal/db"
	"github.com/nflparty/oddsboard/internal/ingest"
	"github.com/nflparty/oddsboard/internal/maintenance"
	"github.com/nflparty/oddsboard/internal/provider/oddsapi"
	"github.com/nflparty/oddsboard/internal/series"
	"github.com/nflparty/oddsboard/internal/snapshot"
	"github.com/nflparty/oddsboard/internal/store"

	_ "github.com/nflparty/oddsboard/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := cfg.RequireOddsAPIKey(); err != nil {
		logger.Warn("Upstream odds feed not configured; poll and current odds will fail", "error", err)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Initialize cache
	appCache, closeCache := newCache(ctx, cfg, logger)
	defer closeCache()

	// Wire the ingest and read paths
	snapshots := store.New(pool.Pool, logger)
	feed := oddsapi.NewClient(cfg, logger)
	normalizer := &snapshot.Normalizer{Bookmaker: cfg.Bookmaker, ZeroPointIsNull: cfg.ZeroPointIsNull}
	poller := ingest.NewPoller(feed, normalizer, snapshots, logger)
	aggregator := series.New(snapshots, cfg.Bookmaker, logger)

	// Start maintenance tickers (scheduled poll, retention)
	go maintenance.Start(ctx, maintenance.Config{
		PollInterval:  cfg.PollInterval,
		PruneInterval: cfg.PruneInterval,
		Retention:     cfg.SnapshotRetention,
	}, poller, snapshots, logger)

	// Create router
	h := handler.New(handler.Deps{
		Feed:       feed,
		Poller:     poller,
		Series:     aggregator,
		DB:         snapshots,
		Cache:      appCache,
		Normalizer: normalizer,
		Config:     cfg,
		Logger:     logger,
	})
	router := api.NewRouter(h, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // a poll cycle can take tens of seconds
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Oddsboard API",
			"addr", addr,
			"environment", cfg.Environment,
			"bookmaker", cfg.Bookmaker,
			"markets", len(cfg.Markets),
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

// newCache returns the Redis cache when REDIS_URL is set and reachable,
// falling back to the in-memory cache.
func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Cache, func()) {
	if cfg.CacheEnabled && cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, logger)
		if err == nil {
			logger.Info("Cache initialized", "backend", "redis")
			return rc, func() { rc.Close() }
		}
		logger.Warn("Redis unavailable, using in-memory cache", "error", err)
	}
	logger.Info("Cache initialized", "backend", "memory", "enabled", cfg.CacheEnabled)
	return cache.NewMemory(cfg.CacheEnabled), func() {}
}
