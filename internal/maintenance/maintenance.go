// Package maintenance runs periodic background tasks as Go tickers: the
// optional in-process poll schedule and snapshot retention.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/nflparty/oddsboard/internal/ingest"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	PollInterval  time.Duration // In-process poll schedule
	PruneInterval time.Duration // How often to prune old snapshots
	Retention     time.Duration // Snapshots older than this are pruned
}

// Poller runs one ingest cycle.
type Poller interface {
	Poll(ctx context.Context) (ingest.Result, error)
}

// Pruner deletes snapshots older than a cutoff.
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, cfg Config, poller Poller, pruner Pruner, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"poll", cfg.PollInterval,
		"prune", cfg.PruneInterval,
		"retention", cfg.Retention)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	// Poll: errors are logged and counted by the poller itself.
	if cfg.PollInterval > 0 && poller != nil {
		t := time.NewTicker(cfg.PollInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { poller.Poll(ctx) })
	}

	// Prune: both the interval and the retention window must be set.
	if cfg.PruneInterval > 0 && cfg.Retention > 0 && pruner != nil {
		t := time.NewTicker(cfg.PruneInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { prune(ctx, pruner, cfg.Retention, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// prune removes snapshots older than the retention window.
func prune(ctx context.Context, pruner Pruner, retention time.Duration, logger *slog.Logger) {
	n, err := pruner.Prune(ctx, retention)
	if err != nil {
		logger.Warn("Prune: failed to delete old snapshots", "error", err)
		return
	}
	if n > 0 {
		logger.Info("Prune: deleted old snapshots", "count", n, "retention", retention)
	}
}
