// Package snapshot flattens nested upstream odds payloads into independent
// snapshot records, one per (game, market, outcome) priced by the tracked
// bookmaker.
//
// Normalization is a pure transform. Assigning observed_at and persisting
// records belong to the store.
package snapshot

import (
	"fmt"
	"sort"
	"time"

	"github.com/guregu/null/v6"

	"github.com/nflparty/oddsboard/internal/provider"
)

// Record is one observation of a single outcome's price, the row shape of
// odds_history.
type Record struct {
	GameID       string     `json:"game_id"`
	HomeTeam     string     `json:"home_team"`
	AwayTeam     string     `json:"away_team"`
	CommenceTime time.Time  `json:"commence_time"`
	PlayerName   string     `json:"player_name"`
	Bookmaker    string     `json:"bookmaker"`
	Market       string     `json:"market"`
	OutcomeName  string     `json:"outcome_name"`
	Point        null.Float `json:"point"`
	Price        int        `json:"price"`
	ObservedAt   time.Time  `json:"observed_at,omitzero"`
}

// Kind classifies the record's outcome.
func (r Record) Kind() OutcomeKind {
	return ClassifyOutcome(r.OutcomeName)
}

// Normalizer flattens games for one bookmaker.
type Normalizer struct {
	// Bookmaker is the tracked sportsbook key, e.g. "draftkings".
	Bookmaker string

	// Include selects which outcomes become records. Nil includes all.
	Include OutcomeFilter

	// ZeroPointIsNull stores a point of exactly 0 as null, matching feeds
	// that send 0 for "no line".
	ZeroPointIsNull bool
}

// Normalize flattens games into records. If any game is missing a required
// field the whole payload is rejected and no records are returned.
// Output order follows the payload but is not part of the contract.
func (n *Normalizer) Normalize(games []provider.Game) ([]Record, error) {
	include := n.Include
	if include == nil {
		include = IncludeAll
	}

	var records []Record
	for i, g := range games {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("game %d: %w", i, err)
		}

		book, ok := g.FindBookmaker(n.Bookmaker)
		if !ok {
			continue
		}

		commence := g.CommenceTime.UTC()
		for _, m := range book.Markets {
			for _, o := range m.Outcomes {
				if !include(m.Key, o) {
					continue
				}
				// An outcome with neither name nor description cannot be
				// attributed to a player.
				player := PlayerNameOf(o)
				if player == "" {
					continue
				}
				records = append(records, Record{
					GameID:       g.ID,
					HomeTeam:     g.HomeTeam,
					AwayTeam:     g.AwayTeam,
					CommenceTime: commence,
					PlayerName:   player,
					Bookmaker:    n.Bookmaker,
					Market:       m.Key,
					OutcomeName:  o.Name,
					Point:        n.point(o.Point),
					Price:        o.Price,
				})
			}
		}
	}
	return records, nil
}

func (n *Normalizer) point(p null.Float) null.Float {
	if !p.Valid {
		return null.Float{}
	}
	if n.ZeroPointIsNull && p.Float64 == 0 {
		return null.Float{}
	}
	return null.FloatFrom(p.Float64)
}

// PlayerNameOf returns the outcome's description, falling back to its name.
func PlayerNameOf(o provider.Outcome) string {
	if o.Description != "" {
		return o.Description
	}
	return o.Name
}

// Players returns the distinct player names priced for each game by the
// normalizer's bookmaker, sorted. Complementary "No" outcomes and the bare
// Over/Under/Yes labels never count as players.
func (n *Normalizer) Players(games []provider.Game) map[string][]string {
	out := make(map[string][]string, len(games))
	for _, g := range games {
		book, ok := g.FindBookmaker(n.Bookmaker)
		if !ok {
			continue
		}
		seen := make(map[string]bool)
		for _, m := range book.Markets {
			for _, o := range m.Outcomes {
				if ClassifyOutcome(o.Name) == No {
					continue
				}
				name := PlayerNameOf(o)
				if name == "" || ClassifyOutcome(name) != PlayerName {
					continue
				}
				seen[name] = true
			}
		}
		players := make([]string, 0, len(seen))
		for name := range seen {
			players = append(players, name)
		}
		sort.Strings(players)
		out[g.ID] = players
	}
	return out
}
