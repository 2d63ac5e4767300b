// Package store is the Postgres gateway for odds_history snapshots: batch
// append, filtered reads for the series aggregator, and retention pruning.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nflparty/oddsboard/internal/config"
	"github.com/nflparty/oddsboard/internal/snapshot"
)

var (
	// ErrInsert reports a rejected batch insert.
	ErrInsert = errors.New("snapshot insert failed")

	// ErrQuery reports a failed snapshot read.
	ErrQuery = errors.New("snapshot query failed")
)

var insertColumns = []string{
	"batch_id", "game_id", "home_team", "away_team", "commence_time",
	"player_name", "bookmaker", "market", "outcome_name", "point", "price",
}

const selectColumns = `game_id, home_team, away_team, commence_time, player_name,
	bookmaker, market, outcome_name, point, price, observed_at`

// Store reads and writes odds_history through a pgx pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New creates a store over an open pool.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}
}

// InsertBatch appends records in a single transaction via COPY. Every row
// of the batch shares one batch_id and one server-assigned observed_at
// (NOW() is fixed for the transaction). Returns the number of rows written.
func (s *Store) InsertBatch(ctx context.Context, records []snapshot.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batchID := pgtype.UUID{Bytes: [16]byte(uuid.New()), Valid: true}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %v", ErrInsert, err)
	}
	defer tx.Rollback(ctx)

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{config.OddsHistoryTable},
		insertColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{
				batchID, r.GameID, r.HomeTeam, r.AwayTeam, r.CommenceTime.UTC(),
				r.PlayerName, r.Bookmaker, r.Market, r.OutcomeName, r.Point.Ptr(), r.Price,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: copy %d rows: %v", ErrInsert, len(records), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", ErrInsert, err)
	}

	s.logger.Debug("Snapshot batch inserted", "batch_id", uuid.UUID(batchID.Bytes), "rows", n)
	return int(n), nil
}

// Query returns the records matching q, ordered by observed_at ascending.
func (s *Store) Query(ctx context.Context, q snapshot.Query) ([]snapshot.Record, error) {
	sql, args := buildQuery(q)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	defer rows.Close()

	var records []snapshot.Record
	for rows.Next() {
		var r snapshot.Record
		var point *float64
		if err := rows.Scan(
			&r.GameID, &r.HomeTeam, &r.AwayTeam, &r.CommenceTime, &r.PlayerName,
			&r.Bookmaker, &r.Market, &r.OutcomeName, &point, &r.Price, &r.ObservedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrQuery, err)
		}
		r.Point = null.FloatFromPtr(point)
		r.CommenceTime = r.CommenceTime.UTC()
		r.ObservedAt = r.ObservedAt.UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return records, nil
}

// Prune deletes snapshots observed before now minus olderThan.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("prune window must be positive, got %s", olderThan)
	}
	cutoff := time.Now().UTC().Add(-olderThan)
	tag, err := s.pool.Exec(ctx, "prune_snapshots", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the total number of stored snapshots.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, "snapshot_count").Scan(&n)
	return n, err
}

// HealthCheck verifies the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	var n int
	return s.pool.QueryRow(ctx, "health_check").Scan(&n)
}

// buildQuery renders q as a parameterized SELECT.
func buildQuery(q snapshot.Query) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if q.GameID != "" {
		add("game_id = ?", q.GameID)
	}
	if q.PlayerName != "" {
		add("player_name = ?", q.PlayerName)
	}
	if q.Market != "" {
		add("market = ?", q.Market)
	}
	if q.Bookmaker != "" {
		add("bookmaker = ?", q.Bookmaker)
	}
	if len(q.Outcomes) > 0 {
		add("outcome_name = ANY(?)", q.Outcomes)
	}
	if !q.Since.IsZero() {
		add("observed_at >= ?", q.Since.UTC())
	}
	if !q.Until.IsZero() {
		add("observed_at < ?", q.Until.UTC())
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(selectColumns)
	b.WriteString(" FROM ")
	b.WriteString(config.OddsHistoryTable)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY observed_at ASC, id ASC")
	return b.String(), args
}
