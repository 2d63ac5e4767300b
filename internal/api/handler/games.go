package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/nflparty/oddsboard/internal/api/respond"
	"github.com/nflparty/oddsboard/internal/provider"
)

// GamesResponse lists the games commencing today in the dashboard timezone.
type GamesResponse struct {
	Date     string    `json:"date"`
	Timezone string    `json:"timezone"`
	Games    []GameRow `json:"games"`
}

// GameRow is one game with its priced players.
type GameRow struct {
	ID           string    `json:"id"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	CommenceTime time.Time `json:"commence_time"`
	Players      []string  `json:"players"`
}

// GetGames lists today's games and the players priced in each.
// @Summary Today's games
// @Description Returns games commencing today in DASHBOARD_TIMEZONE with the distinct players the tracked bookmaker prices for each. Shares the current-odds cache.
// @Tags odds
// @Produce json
// @Success 200 {object} GamesResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /games [get]
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	data, _, _, err := h.currentOdds(r.Context())
	if err != nil {
		h.logger.Error("Fetch current odds failed", "error", err)
		respond.WriteError(w, http.StatusBadGateway, "UPSTREAM_FAILED", "Failed to fetch current odds")
		return
	}
	games, err := provider.DecodeGames(data)
	if err != nil {
		h.logger.Error("Decode current odds failed", "error", err)
		respond.WriteError(w, http.StatusBadGateway, "MALFORMED_PAYLOAD", "Upstream odds payload is malformed")
		return
	}

	tz := h.cfg.Timezone
	if tz == nil {
		tz = time.UTC
	}
	today := h.now().In(tz)
	games = gamesOn(games, today)
	players := h.normalizer.Players(games)

	resp := GamesResponse{
		Date:     today.Format(time.DateOnly),
		Timezone: tz.String(),
		Games:    make([]GameRow, 0, len(games)),
	}
	for _, g := range games {
		names := players[g.ID]
		if names == nil {
			names = []string{}
		}
		resp.Games = append(resp.Games, GameRow{
			ID:           g.ID,
			HomeTeam:     g.HomeTeam,
			AwayTeam:     g.AwayTeam,
			CommenceTime: g.CommenceTime,
			Players:      names,
		})
	}
	respond.WriteJSONObject(w, http.StatusOK, resp)
}

// gamesOn keeps the games whose local commence date matches day, ordered by
// kickoff.
func gamesOn(games []provider.Game, day time.Time) []provider.Game {
	y, m, d := day.Date()
	var out []provider.Game
	for _, g := range games {
		gy, gm, gd := g.CommenceTime.In(day.Location()).Date()
		if gy == y && gm == m && gd == d {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CommenceTime.Before(out[j].CommenceTime)
	})
	return out
}
