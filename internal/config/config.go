// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Upstream defaults: The Odds API v4, NFL player props at DraftKings
// --------------------------------------------------------------------------

const (
	DefaultOddsAPIBaseURL = "https://api.the-odds-api.com/v4"
	DefaultSport          = "americanfootball_nfl"
	DefaultBookmaker      = "draftkings"
	DefaultRegions        = "us"
)

// DefaultMarkets is every NFL player-prop market key polled by default,
// standard lines first, then their alternate ladders.
var DefaultMarkets = []string{
	"player_assists", "player_defensive_interceptions", "player_field_goals",
	"player_kicking_points", "player_pass_attempts", "player_pass_completions",
	"player_pass_interceptions", "player_pass_longest_completion",
	"player_pass_rush_yds", "player_pass_rush_reception_tds",
	"player_pass_rush_reception_yds", "player_pass_tds", "player_pass_yds",
	"player_pass_yds_q1", "player_pats", "player_receptions",
	"player_reception_longest", "player_reception_tds", "player_reception_yds",
	"player_rush_attempts", "player_rush_longest", "player_rush_reception_tds",
	"player_rush_reception_yds", "player_rush_tds", "player_rush_yds",
	"player_sacks", "player_solo_tackles", "player_tackles_assists",
	"player_tds_over", "player_1st_td", "player_anytime_td", "player_last_td",

	"player_assists_alternate", "player_field_goals_alternate",
	"player_kicking_points_alternate", "player_pass_attempts_alternate",
	"player_pass_completions_alternate", "player_pass_interceptions_alternate",
	"player_pass_longest_completion_alternate", "player_pass_rush_yds_alternate",
	"player_pass_rush_reception_tds_alternate", "player_pass_rush_reception_yds_alternate",
	"player_pass_tds_alternate", "player_pass_yds_alternate", "player_pats_alternate",
	"player_receptions_alternate", "player_reception_longest_alternate",
	"player_reception_tds_alternate", "player_reception_yds_alternate",
	"player_rush_attempts_alternate", "player_rush_longest_alternate",
	"player_rush_reception_tds_alternate", "player_rush_reception_yds_alternate",
	"player_rush_tds_alternate", "player_rush_yds_alternate", "player_sacks_alternate",
	"player_solo_tackles_alternate", "player_tackles_assists_alternate",
}

// --------------------------------------------------------------------------
// Table names, matching schema.sql
// --------------------------------------------------------------------------

const (
	OddsHistoryTable = "odds_history"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Upstream odds feed
	OddsAPIKey            string
	OddsAPIBaseURL        string
	Sport                 string
	Bookmaker             string
	Regions               string
	Markets               []string
	OddsRequestsPerMinute int

	// Normalization
	ZeroPointIsNull bool

	// Dashboard
	Timezone *time.Location

	// Cache
	CacheEnabled bool
	CacheTTL     time.Duration
	RedisURL     string // empty = in-memory cache

	// Background tasks (zero disables)
	PollInterval      time.Duration
	SnapshotRetention time.Duration
	PruneInterval     time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", envOr("SUPABASE_DB_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or SUPABASE_DB_URL must be set")
	}

	tzName := envOr("DASHBOARD_TIMEZONE", "America/New_York")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("DASHBOARD_TIMEZONE %q: %w", tzName, err)
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 5),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		OddsAPIKey:            envOr("ODDS_API_KEY", envOr("THE_ODDS_API_KEY", "")),
		OddsAPIBaseURL:        envOr("ODDS_API_BASE_URL", DefaultOddsAPIBaseURL),
		Sport:                 envOr("ODDS_SPORT", DefaultSport),
		Bookmaker:             envOr("ODDS_BOOKMAKER", DefaultBookmaker),
		Regions:               envOr("ODDS_REGIONS", DefaultRegions),
		Markets:               envList("ODDS_MARKETS", DefaultMarkets),
		OddsRequestsPerMinute: envInt("ODDS_REQUESTS_PER_MINUTE", 30),

		ZeroPointIsNull: envBool("ZERO_POINT_IS_NULL", false),

		Timezone: tz,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		CacheTTL:     time.Duration(envInt("CACHE_TTL_SECONDS", 60)) * time.Second,
		RedisURL:     envOr("REDIS_URL", ""),

		PollInterval:      time.Duration(envInt("POLL_INTERVAL_MINUTES", 0)) * time.Minute,
		SnapshotRetention: time.Duration(envInt("SNAPSHOT_RETENTION_DAYS", 0)) * 24 * time.Hour,
		PruneInterval:     time.Duration(envInt("PRUNE_INTERVAL_MINUTES", 0)) * time.Minute,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RequireOddsAPIKey returns an error when no upstream credential is configured.
func (c *Config) RequireOddsAPIKey() error {
	if c.OddsAPIKey == "" {
		return fmt.Errorf("ODDS_API_KEY (or THE_ODDS_API_KEY) is required")
	}
	return nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
