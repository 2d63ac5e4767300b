package handler

import (
	"net/http"
	"time"

	"github.com/nflparty/oddsboard/internal/api/respond"
	"github.com/nflparty/oddsboard/internal/series"
)

// SeriesResponse is the chart payload for one market.
type SeriesResponse struct {
	Market string          `json:"market"`
	Series []series.Series `json:"series"`
	Failed []FailedRow     `json:"failed"`
}

// FailedRow names a selection whose history could not be read.
type FailedRow struct {
	Player string `json:"player"`
	GameID string `json:"game_id"`
	Error  string `json:"error"`
}

// GetSeries returns price-history series for the selected players.
// @Summary Price history series
// @Description Returns one series per (player, game, line) for the market. Selections are "Player Name@gameId". A failed read for one selection is reported under "failed" and does not affect the others.
// @Tags series
// @Produce json
// @Param market query string false "Market key, e.g. player_pass_yds"
// @Param selection query []string false "Player@gameId" collectionFormat(multi)
// @Param since query string false "RFC3339 lower bound (inclusive)"
// @Param until query string false "RFC3339 upper bound (exclusive)"
// @Success 200 {object} SeriesResponse
// @Failure 400 {object} respond.ErrorResponse
// @Router /series [get]
func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	market := q.Get("market")

	var selections []series.Selection
	for _, raw := range q["selection"] {
		sel, err := series.ParseSelection(raw)
		if err != nil {
			respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_SELECTION",
				"selection must be Player@gameId", err.Error())
			return
		}
		selections = append(selections, sel)
	}

	var window series.Window
	var ok bool
	if window.Since, ok = parseTimeParam(w, q.Get("since"), "since"); !ok {
		return
	}
	if window.Until, ok = parseTimeParam(w, q.Get("until"), "until"); !ok {
		return
	}

	result := h.series.Aggregate(r.Context(), selections, market, window)

	resp := SeriesResponse{
		Market: market,
		Series: result.Series,
		Failed: make([]FailedRow, 0, len(result.Failed)),
	}
	if resp.Series == nil {
		resp.Series = []series.Series{}
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, FailedRow{
			Player: f.Selection.Player,
			GameID: f.Selection.GameID,
			Error:  "history query failed",
		})
	}
	respond.WriteJSONObject(w, http.StatusOK, resp)
}

func parseTimeParam(w http.ResponseWriter, raw, name string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_TIME",
			name+" must be an RFC3339 timestamp", err.Error())
		return time.Time{}, false
	}
	return t, true
}
