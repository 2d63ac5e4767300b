// Package series turns stored odds snapshots back into named price-history
// series for charting: one series per (player, game, market, line).
//
// The aggregator is stateless. Each selection is queried independently, so
// one failed read only drops that selection's series.
package series

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"github.com/nflparty/oddsboard/internal/metrics"
	"github.com/nflparty/oddsboard/internal/oddsmath"
	"github.com/nflparty/oddsboard/internal/snapshot"
)

// ErrQueryFailed reports a store read failure for one selection.
var ErrQueryFailed = errors.New("series query failed")

// Source reads stored snapshots.
type Source interface {
	Query(ctx context.Context, q snapshot.Query) ([]snapshot.Record, error)
}

// Selection is one charted player in one game.
type Selection struct {
	Player string `json:"player"`
	GameID string `json:"game_id"`
}

// String renders the selection as "player@gameId".
func (s Selection) String() string {
	return s.Player + "@" + s.GameID
}

// ParseSelection parses "player@gameId", splitting at the last '@' so
// player names containing '@' survive.
func ParseSelection(s string) (Selection, error) {
	i := strings.LastIndex(s, "@")
	if i <= 0 || i == len(s)-1 {
		return Selection{}, fmt.Errorf("selection %q: want player@gameId", s)
	}
	return Selection{Player: s[:i], GameID: s[i+1:]}, nil
}

// Window bounds observed_at. Zero values leave that side open.
type Window struct {
	Since time.Time
	Until time.Time
}

// Point is one observed price.
type Point struct {
	ObservedAt         time.Time  `json:"observed_at"`
	Price              int        `json:"price"`
	Point              null.Float `json:"point"`
	ImpliedProbability float64    `json:"implied_probability,omitempty"`
}

// Series is the price history of one player's market at one line.
type Series struct {
	Label  string     `json:"label"`
	Player string     `json:"player"`
	GameID string     `json:"game_id"`
	Market string     `json:"market"`
	Line   null.Float `json:"line"`
	Points []Point    `json:"points"`
}

// SelectionError records a selection whose query failed.
type SelectionError struct {
	Selection Selection
	Err       error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrQueryFailed, e.Selection, e.Err)
}

func (e *SelectionError) Unwrap() []error {
	return []error{ErrQueryFailed, e.Err}
}

// Result is the output of one aggregation.
type Result struct {
	Series []Series
	Failed []*SelectionError
}

// Err joins the per-selection failures, or returns nil.
func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Aggregator builds series from a snapshot source for one bookmaker.
type Aggregator struct {
	source    Source
	bookmaker string
	logger    *slog.Logger
}

// New creates an aggregator.
func New(source Source, bookmaker string, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{source: source, bookmaker: bookmaker, logger: logger}
}

// Aggregate returns one series per distinct line for every selection in
// market. An empty market means nothing is selected yet: no query is
// issued and the result is empty. Duplicate selections are queried once.
func (a *Aggregator) Aggregate(ctx context.Context, selections []Selection, market string, w Window) Result {
	var result Result
	if market == "" {
		return result
	}

	seen := make(map[Selection]bool, len(selections))
	for _, sel := range selections {
		if seen[sel] {
			continue
		}
		seen[sel] = true

		records, err := a.source.Query(ctx, snapshot.Query{
			GameID:     sel.GameID,
			PlayerName: sel.Player,
			Market:     market,
			Bookmaker:  a.bookmaker,
			Outcomes:   snapshot.PositiveOutcomes(market, sel.Player),
			Since:      w.Since,
			Until:      w.Until,
		})
		if err != nil {
			a.logger.Warn("Series query failed",
				"player", sel.Player, "game_id", sel.GameID, "market", market, "error", err)
			metrics.SeriesQueries.WithLabelValues(metrics.StatusError).Inc()
			result.Failed = append(result.Failed, &SelectionError{Selection: sel, Err: err})
			continue
		}
		metrics.SeriesQueries.WithLabelValues(metrics.StatusOK).Inc()

		result.Series = append(result.Series, Partition(sel, market, records)...)
	}
	return result
}

// lineKey identifies a partition; valid=false is the "no line" partition.
type lineKey struct {
	valid bool
	value float64
}

// Partition splits one selection's records by line. The no-line partition
// comes first, then lines ascending. Points keep ascending observed_at
// order within each series. Every record lands in exactly one series.
func Partition(sel Selection, market string, records []snapshot.Record) []Series {
	if len(records) == 0 {
		return nil
	}

	ordered := make([]snapshot.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ObservedAt.Before(ordered[j].ObservedAt)
	})

	groups := make(map[lineKey][]Point)
	var keys []lineKey
	for _, r := range ordered {
		k := lineKey{valid: r.Point.Valid}
		if k.valid {
			k.value = r.Point.Float64
		}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		p := Point{ObservedAt: r.ObservedAt, Price: r.Price, Point: r.Point}
		if prob, err := oddsmath.ImpliedProbability(r.Price); err == nil {
			p.ImpliedProbability = prob
		}
		groups[k] = append(groups[k], p)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].valid != keys[j].valid {
			return !keys[i].valid
		}
		return keys[i].value < keys[j].value
	})

	out := make([]Series, 0, len(keys))
	for _, k := range keys {
		line := null.Float{}
		if k.valid {
			line = null.FloatFrom(k.value)
		}
		out = append(out, Series{
			Label:  Label(sel.Player, market, line),
			Player: sel.Player,
			GameID: sel.GameID,
			Market: market,
			Line:   line,
			Points: groups[k],
		})
	}
	return out
}

// Label names a series "<player> <market>" with the line appended when
// there is one, e.g. "James Cook player_rush_yds 49.5".
func Label(player, market string, line null.Float) string {
	if !line.Valid {
		return player + " " + market
	}
	return player + " " + market + " " + strconv.FormatFloat(line.Float64, 'f', -1, 64)
}
