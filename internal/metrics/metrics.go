// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Poll outcome labels.
const (
	StatusOK        = "ok"
	StatusFetch     = "fetch_failed"
	StatusMalformed = "malformed"
	StatusStore     = "store_failed"
	StatusError     = "error"
)

var (
	PollCycles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oddsboard",
		Name:      "poll_cycles_total",
		Help:      "Poll cycles by outcome.",
	}, []string{"status"})

	SnapshotsInserted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsboard",
		Name:      "snapshots_inserted_total",
		Help:      "Snapshot rows appended to odds_history.",
	})

	PollDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "oddsboard",
		Name:      "poll_duration_seconds",
		Help:      "Wall time of a poll cycle.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
	})

	SeriesQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oddsboard",
		Name:      "series_selection_queries_total",
		Help:      "Per-selection series queries by outcome.",
	}, []string{"status"})
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		PollCycles,
		SnapshotsInserted,
		PollDuration,
		SeriesQueries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
