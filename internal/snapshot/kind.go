package snapshot

import "strings"

// OutcomeKind classifies an outcome's name within the small vocabulary the
// feed uses for player props.
type OutcomeKind int

const (
	// PlayerName is an outcome named after a player (scorer markets that
	// list players directly).
	PlayerName OutcomeKind = iota
	Over
	Under
	Yes
	No
)

func (k OutcomeKind) String() string {
	switch k {
	case Over:
		return "Over"
	case Under:
		return "Under"
	case Yes:
		return "Yes"
	case No:
		return "No"
	default:
		return "PlayerName"
	}
}

// Positive reports whether the outcome is the side charted for a market:
// Over for lines, Yes for binary props, and a player's own name.
func (k OutcomeKind) Positive() bool {
	return k != Under && k != No
}

// ClassifyOutcome maps an outcome name to its kind. Matching is
// case-insensitive; anything outside Over/Under/Yes/No is a player name.
func ClassifyOutcome(name string) OutcomeKind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "over":
		return Over
	case "under":
		return Under
	case "yes":
		return Yes
	case "no":
		return No
	default:
		return PlayerName
	}
}

// MarketKind distinguishes over/under line markets from yes/no scorer
// markets.
type MarketKind int

const (
	TwoSided MarketKind = iota
	Binary
)

func (k MarketKind) String() string {
	if k == Binary {
		return "Binary"
	}
	return "TwoSided"
}

var binaryMarkets = map[string]bool{
	"player_1st_td":     true,
	"player_anytime_td": true,
	"player_last_td":    true,
}

// ClassifyMarket returns the market's kind. Unknown markets are treated as
// over/under lines.
func ClassifyMarket(market string) MarketKind {
	if binaryMarkets[market] {
		return Binary
	}
	return TwoSided
}

// PositiveOutcomes returns the outcome names charted for a player's market:
// "Over" for line markets; "Yes" and the player's own name for scorer
// markets, which the feed prices either way.
func PositiveOutcomes(market, player string) []string {
	if ClassifyMarket(market) == Binary {
		return []string{Yes.String(), player}
	}
	return []string{Over.String()}
}
