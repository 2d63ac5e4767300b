package provider

import (
	"encoding/json"
	"fmt"
	"time"
)

// rawGame mirrors the feed's game object before validation. commence_time
// stays a string so a bad timestamp maps to ErrMalformedPayload instead of
// a generic decode error.
type rawGame struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	CommenceTime string      `json:"commence_time"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// DecodeGames parses a feed payload (a JSON array of games) and validates
// every game's required fields. The whole payload is rejected if any game
// is invalid.
func DecodeGames(body []byte) ([]Game, error) {
	var raw []rawGame
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode games: %v", ErrMalformedPayload, err)
	}

	games := make([]Game, 0, len(raw))
	for i, r := range raw {
		g, err := r.validate()
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", i, err)
		}
		games = append(games, g)
	}
	return games, nil
}

func (r rawGame) validate() (Game, error) {
	switch {
	case r.ID == "":
		return Game{}, missing("id")
	case r.HomeTeam == "":
		return Game{}, missing("home_team")
	case r.AwayTeam == "":
		return Game{}, missing("away_team")
	case r.CommenceTime == "":
		return Game{}, missing("commence_time")
	}

	commence, err := ParseTimestamp(r.CommenceTime)
	if err != nil {
		return Game{}, fmt.Errorf("%w: commence_time %q: %v", ErrMalformedPayload, r.CommenceTime, err)
	}

	return Game{
		ID:           r.ID,
		SportKey:     r.SportKey,
		HomeTeam:     r.HomeTeam,
		AwayTeam:     r.AwayTeam,
		CommenceTime: commence,
		Bookmakers:   r.Bookmakers,
	}, nil
}

// Validate checks the required game-level fields of an already-typed game.
func (g Game) Validate() error {
	switch {
	case g.ID == "":
		return missing("id")
	case g.HomeTeam == "":
		return missing("home_team")
	case g.AwayTeam == "":
		return missing("away_team")
	case g.CommenceTime.IsZero():
		return missing("commence_time")
	}
	return nil
}

// ParseTimestamp accepts RFC 3339 timestamps with or without fractional
// seconds and returns them in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func missing(field string) error {
	return fmt.Errorf("%w: missing %s", ErrMalformedPayload, field)
}
