package handler

import (
	"context"
	"net/http"

	"github.com/nflparty/oddsboard/internal/api/respond"
	"github.com/nflparty/oddsboard/internal/cache"
)

const currentOddsKey = "odds:current"

// GetCurrentOdds passes the upstream odds payload through unchanged.
// @Summary Current upstream odds
// @Description Returns the raw upstream odds payload for the configured sport, markets, and bookmaker. Cached for CACHE_TTL_SECONDS.
// @Tags odds
// @Produce json
// @Success 200 {array} provider.Game
// @Success 304 "Not modified"
// @Failure 502 {object} respond.ErrorResponse
// @Router /odds/current [get]
func (h *Handler) GetCurrentOdds(w http.ResponseWriter, r *http.Request) {
	data, etag, hit, err := h.currentOdds(r.Context())
	if err != nil {
		h.logger.Error("Fetch current odds failed", "error", err)
		respond.WriteError(w, http.StatusBadGateway, "UPSTREAM_FAILED", "Failed to fetch current odds")
		return
	}
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, h.cfg.CacheTTL, hit)
}

// PollOdds runs one ingest cycle.
// @Summary Poll odds
// @Description Fetches the upstream feed, normalizes it, and appends one snapshot per outcome to odds_history.
// @Tags odds
// @Produce json
// @Success 200 {object} PollResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /odds/poll [post]
func (h *Handler) PollOdds(w http.ResponseWriter, r *http.Request) {
	res, err := h.poller.Poll(r.Context())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "POLL_FAILED", "Failed to poll odds")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, PollResponse{Success: true, Inserted: res.Inserted})
}

// PollResponse is the body of a successful poll.
type PollResponse struct {
	Success  bool `json:"success"`
	Inserted int  `json:"inserted"`
}

// currentOdds returns the upstream payload from cache or the feed.
func (h *Handler) currentOdds(ctx context.Context) (data []byte, etag string, hit bool, err error) {
	if data, etag, ok := h.cache.Get(ctx, currentOddsKey); ok {
		return data, etag, true, nil
	}
	data, err = h.feed.FetchRaw(ctx)
	if err != nil {
		return nil, "", false, err
	}
	etag = h.cache.Set(ctx, currentOddsKey, data, h.cfg.CacheTTL)
	return data, etag, false, nil
}
