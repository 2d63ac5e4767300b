package snapshot

import "github.com/nflparty/oddsboard/internal/provider"

// OutcomeFilter decides whether an outcome of the given market becomes a
// record.
type OutcomeFilter func(market string, o provider.Outcome) bool

// IncludeAll keeps every outcome.
func IncludeAll(string, provider.Outcome) bool { return true }

// ExcludeKinds drops outcomes of the given kinds, e.g. ExcludeKinds(No).
func ExcludeKinds(kinds ...OutcomeKind) OutcomeFilter {
	return func(_ string, o provider.Outcome) bool {
		k := ClassifyOutcome(o.Name)
		for _, ex := range kinds {
			if k == ex {
				return false
			}
		}
		return true
	}
}

// OnlyMarkets keeps outcomes of the listed markets.
func OnlyMarkets(markets ...string) OutcomeFilter {
	set := make(map[string]bool, len(markets))
	for _, m := range markets {
		set[m] = true
	}
	return func(market string, _ provider.Outcome) bool {
		return set[market]
	}
}

// AllOf keeps outcomes accepted by every filter.
func AllOf(filters ...OutcomeFilter) OutcomeFilter {
	return func(market string, o provider.Outcome) bool {
		for _, f := range filters {
			if !f(market, o) {
				return false
			}
		}
		return true
	}
}

// BinaryMarketOnly restricts normalization to one yes/no market and drops
// its "No" side.
func BinaryMarketOnly(market string) OutcomeFilter {
	return AllOf(OnlyMarkets(market), ExcludeKinds(No))
}
