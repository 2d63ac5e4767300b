// Package oddsapi provides the HTTP client for The Odds API v4 odds endpoint.
//
// The feed is queried with an apiKey query parameter, one sport, one
// bookmaker and a comma-separated market list. Requests are rate limited
// via a token bucket so manual polls cannot burn through the plan quota.
// There is no retry: any failure abandons the poll cycle.
package oddsapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nflparty/oddsboard/internal/config"
	"github.com/nflparty/oddsboard/internal/provider"
)

// Client fetches odds for a single sport and bookmaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	sport      string
	bookmaker  string
	regions    string
	markets    []string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an odds feed client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	perMinute := cfg.OddsRequestsPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(cfg.OddsAPIBaseURL, "/"),
		apiKey:     cfg.OddsAPIKey,
		sport:      cfg.Sport,
		bookmaker:  cfg.Bookmaker,
		regions:    cfg.Regions,
		markets:    cfg.Markets,
		limiter:    rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
		logger:     logger,
	}
}

// FetchRaw returns the feed's JSON body verbatim.
func (c *Client) FetchRaw(ctx context.Context) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %v", provider.ErrFetchFailed, err)
	}

	path := "/sports/" + url.PathEscape(c.sport) + "/odds"
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", c.regions)
	params.Set("markets", strings.Join(c.markets, ","))
	params.Set("oddsFormat", "american")
	params.Set("bookmakers", c.bookmaker)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", provider.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The URL carries the API key; log the path only.
		return nil, fmt.Errorf("%w: http request %s: %v", provider.ErrFetchFailed, path, redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", provider.ErrFetchFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d: %s", provider.ErrFetchFailed, path, resp.StatusCode, truncate(body, 200))
	}

	c.logger.Debug("Odds feed fetched",
		"sport", c.sport,
		"bookmaker", c.bookmaker,
		"markets", len(c.markets),
		"bytes", len(body),
		"requests_remaining", resp.Header.Get("X-Requests-Remaining"),
		"duration", time.Since(start).Round(time.Millisecond))

	return body, nil
}

// FetchGames fetches and decodes the feed into validated games.
func (c *Client) FetchGames(ctx context.Context) ([]provider.Game, error) {
	body, err := c.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	return provider.DecodeGames(body)
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}

func redact(err error, secret string) string {
	msg := err.Error()
	if secret == "" {
		return msg
	}
	return strings.ReplaceAll(msg, secret, "REDACTED")
}
