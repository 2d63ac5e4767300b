package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nflparty/oddsboard/internal/metrics"
	"github.com/nflparty/oddsboard/internal/provider"
	"github.com/nflparty/oddsboard/internal/snapshot"
)

// Feed fetches and validates the upstream odds payload.
type Feed interface {
	FetchGames(ctx context.Context) ([]provider.Game, error)
}

// Sink appends snapshot records.
type Sink interface {
	InsertBatch(ctx context.Context, records []snapshot.Record) (int, error)
}

// Poller runs poll cycles.
type Poller struct {
	feed       Feed
	normalizer *snapshot.Normalizer
	sink       Sink
	logger     *slog.Logger
}

// NewPoller creates a poller.
func NewPoller(feed Feed, normalizer *snapshot.Normalizer, sink Sink, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{feed: feed, normalizer: normalizer, sink: sink, logger: logger}
}

// Poll runs one cycle. Any failure abandons the whole cycle: a malformed
// game rejects the payload before anything is written.
func (p *Poller) Poll(ctx context.Context) (Result, error) {
	start := time.Now()
	var result Result

	games, err := p.feed.FetchGames(ctx)
	if err != nil {
		return p.fail(result, start, fmt.Errorf("fetch odds: %w", err))
	}
	result.Games = len(games)

	records, err := p.normalizer.Normalize(games)
	if err != nil {
		return p.fail(result, start, fmt.Errorf("normalize odds: %w", err))
	}
	result.Records = len(records)

	inserted, err := p.sink.InsertBatch(ctx, records)
	if err != nil {
		return p.fail(result, start, fmt.Errorf("insert snapshots: %w", err))
	}
	result.Inserted = inserted
	result.Duration = time.Since(start)

	metrics.PollCycles.WithLabelValues(metrics.StatusOK).Inc()
	metrics.SnapshotsInserted.Add(float64(inserted))
	metrics.PollDuration.Observe(result.Duration.Seconds())

	p.logger.Info("Poll cycle complete", "summary", result.Summary())
	return result, nil
}

func (p *Poller) fail(result Result, start time.Time, err error) (Result, error) {
	result.Duration = time.Since(start)
	metrics.PollCycles.WithLabelValues(pollStatus(err)).Inc()
	metrics.PollDuration.Observe(result.Duration.Seconds())
	p.logger.Error("Poll cycle failed", "error", err, "summary", result.Summary())
	return result, err
}

func pollStatus(err error) string {
	switch {
	case errors.Is(err, provider.ErrMalformedPayload):
		return metrics.StatusMalformed
	case errors.Is(err, provider.ErrFetchFailed):
		return metrics.StatusFetch
	default:
		return metrics.StatusStore
	}
}
