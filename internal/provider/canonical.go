// Package provider defines the canonical upstream odds shapes that the odds
// feed client decodes into. These structs are the contract between the feed
// client and the snapshot normalizer: the client validates at the parsing
// boundary, the normalizer flattens.
//
// Adding a new feed means producing these types. The normalizer and the
// odds_history schema never change.
package provider

import (
	"errors"
	"time"

	"github.com/guregu/null/v6"
)

var (
	// ErrFetchFailed reports an unreachable feed or a non-2xx response.
	ErrFetchFailed = errors.New("odds feed fetch failed")

	// ErrMalformedPayload reports a payload that is not valid JSON or a game
	// missing one of its required fields.
	ErrMalformedPayload = errors.New("malformed odds payload")
)

// Game is one scheduled event with its per-bookmaker markets.
type Game struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key,omitempty"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	CommenceTime time.Time   `json:"commence_time"`
	Bookmakers   []Bookmaker `json:"bookmakers,omitempty"`
}

// Bookmaker is one sportsbook's markets for a game.
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title,omitempty"`
	Markets []Market `json:"markets,omitempty"`
}

// Market is one proposition offered for a game, e.g. player_rush_yds.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes,omitempty"`
}

// Outcome is one priced side of a market. Description carries the player
// name for over/under and yes/no props; Name carries it for scorer markets
// that list players directly. Point is invalid when the feed omits it.
type Outcome struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Point       null.Float `json:"point"`
	Price       int        `json:"price"`
}

// FindBookmaker returns the bookmaker with the given key, if the game carries it.
func (g Game) FindBookmaker(key string) (Bookmaker, bool) {
	for _, b := range g.Bookmakers {
		if b.Key == key {
			return b, true
		}
	}
	return Bookmaker{}, false
}
