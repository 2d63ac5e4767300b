// Package oddsmath converts American odds prices.
package oddsmath

import (
	"errors"
	"strconv"
)

// ErrInvalidPrice reports an American price of 0, which has no meaning.
var ErrInvalidPrice = errors.New("invalid American odds: cannot be 0")

// ToDecimal converts American odds to decimal odds.
// +150 → 2.50, -150 → 1.667.
func ToDecimal(american int) (float64, error) {
	switch {
	case american > 0:
		return float64(american)/100.0 + 1.0, nil
	case american < 0:
		return 100.0/float64(-american) + 1.0, nil
	default:
		return 0, ErrInvalidPrice
	}
}

// ImpliedProbability converts American odds to the bookmaker's implied win
// probability, vig included. -110 → 0.5238, +150 → 0.40.
func ImpliedProbability(american int) (float64, error) {
	d, err := ToDecimal(american)
	if err != nil {
		return 0, err
	}
	return 1.0 / d, nil
}

// Format renders a price with an explicit sign for underdogs: +150, -110.
func Format(american int) string {
	if american > 0 {
		return "+" + strconv.Itoa(american)
	}
	return strconv.Itoa(american)
}
