// Command ingest is the Oddsboard odds ingestion CLI.
//
// Usage:
//
//	oddsboard-ingest poll
//	oddsboard-ingest current > odds.json
//	oddsboard-ingest series --market player_pass_yds --selection "Jared Goff@abc123"
//	oddsboard-ingest prune --days 30
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nflparty/oddsboard/internal/config"
	"github.com/nflparty/oddsboard/internal/db"
	"github.com/nflparty/oddsboard/internal/ingest"
	"github.com/nflparty/oddsboard/internal/provider/oddsapi"
	"github.com/nflparty/oddsboard/internal/series"
	"github.com/nflparty/oddsboard/internal/snapshot"
	"github.com/nflparty/oddsboard/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "oddsboard-ingest",
		Short: "Oddsboard odds ingestion CLI",
	}

	root.AddCommand(pollCmd())
	root.AddCommand(currentCmd())
	root.AddCommand(seriesCmd())
	root.AddCommand(pruneCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// poll command
// --------------------------------------------------------------------------

func pollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Run one poll cycle: fetch odds and append snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := cfg.RequireOddsAPIKey(); err != nil {
					return err
				}
				poller := ingest.NewPoller(
					oddsapi.NewClient(cfg, logger),
					&snapshot.Normalizer{Bookmaker: cfg.Bookmaker, ZeroPointIsNull: cfg.ZeroPointIsNull},
					store.New(pool.Pool, logger),
					logger,
				)
				_, err := poller.Poll(ctx)
				return err
			})
		},
	}
}

// --------------------------------------------------------------------------
// current command
// --------------------------------------------------------------------------

func currentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the raw upstream odds payload to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.RequireOddsAPIKey(); err != nil {
				return err
			}
			body, err := oddsapi.NewClient(cfg, logger).FetchRaw(ctx)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
}

// --------------------------------------------------------------------------
// series command
// --------------------------------------------------------------------------

func seriesCmd() *cobra.Command {
	var (
		market     string
		selections []string
		since      string
		until      string
	)
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print price-history series as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			sels := make([]series.Selection, 0, len(selections))
			for _, s := range selections {
				sel, err := series.ParseSelection(s)
				if err != nil {
					return err
				}
				sels = append(sels, sel)
			}
			window, err := parseWindow(since, until)
			if err != nil {
				return err
			}

			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				agg := series.New(store.New(pool.Pool, logger), cfg.Bookmaker, logger)
				result := agg.Aggregate(ctx, sels, market, window)

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result.Series); err != nil {
					return err
				}
				return result.Err()
			})
		},
	}
	cmd.Flags().StringVar(&market, "market", "", "Market key, e.g. player_pass_yds")
	cmd.Flags().StringArrayVar(&selections, "selection", nil, `Selection as "Player Name@gameId" (repeatable)`)
	cmd.Flags().StringVar(&since, "since", "", "RFC3339 lower bound")
	cmd.Flags().StringVar(&until, "until", "", "RFC3339 upper bound")
	cmd.MarkFlagRequired("market")
	return cmd
}

func parseWindow(since, until string) (series.Window, error) {
	var w series.Window
	var err error
	if since != "" {
		if w.Since, err = time.Parse(time.RFC3339, since); err != nil {
			return w, fmt.Errorf("--since: %w", err)
		}
	}
	if until != "" {
		if w.Until, err = time.Parse(time.RFC3339, until); err != nil {
			return w, fmt.Errorf("--until: %w", err)
		}
	}
	return w, nil
}

// --------------------------------------------------------------------------
// prune command
// --------------------------------------------------------------------------

func pruneCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete snapshots older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				retention := cfg.SnapshotRetention
				if days > 0 {
					retention = time.Duration(days) * 24 * time.Hour
				}
				if retention <= 0 {
					return fmt.Errorf("set --days or SNAPSHOT_RETENTION_DAYS")
				}
				snapshots := store.New(pool.Pool, logger)
				n, err := snapshots.Prune(ctx, retention)
				if err != nil {
					return err
				}
				remaining, err := snapshots.Count(ctx)
				if err != nil {
					return fmt.Errorf("count snapshots: %w", err)
				}
				logger.Info("Prune finished", "deleted", n, "remaining", remaining, "retention", retention)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Retention in days (overrides SNAPSHOT_RETENTION_DAYS)")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

func run(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
