package snapshot

import (
	"reflect"
	"testing"

	"github.com/nflparty/oddsboard/internal/provider"
)

func TestClassifyOutcome(t *testing.T) {
	tests := []struct {
		name     string
		want     OutcomeKind
		positive bool
	}{
		{"Over", Over, true},
		{"under", Under, false},
		{" YES ", Yes, true},
		{"No", No, false},
		{"Patrick Mahomes", PlayerName, true},
		{"Nobody", PlayerName, true},
	}

	for _, tt := range tests {
		got := ClassifyOutcome(tt.name)
		if got != tt.want {
			t.Errorf("ClassifyOutcome(%q) = %s, want %s", tt.name, got, tt.want)
		}
		if got.Positive() != tt.positive {
			t.Errorf("%s.Positive() = %v, want %v", got, got.Positive(), tt.positive)
		}
	}
}

func TestPositiveOutcomes(t *testing.T) {
	tests := []struct {
		market string
		kind   MarketKind
		want   []string
	}{
		{"player_rush_yds", TwoSided, []string{"Over"}},
		{"player_pass_tds_alternate", TwoSided, []string{"Over"}},
		{"player_anytime_td", Binary, []string{"Yes", "PlayerX"}},
		{"player_1st_td", Binary, []string{"Yes", "PlayerX"}},
	}

	for _, tt := range tests {
		if k := ClassifyMarket(tt.market); k != tt.kind {
			t.Errorf("ClassifyMarket(%q) = %s, want %s", tt.market, k, tt.kind)
		}
		if got := PositiveOutcomes(tt.market, "PlayerX"); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("PositiveOutcomes(%q) = %v, want %v", tt.market, got, tt.want)
		}
	}
}

func TestOutcomeFilters(t *testing.T) {
	no := provider.Outcome{Name: "No"}
	yes := provider.Outcome{Name: "Yes", Description: "PlayerX"}

	if !IncludeAll("anything", no) {
		t.Error("IncludeAll rejected an outcome")
	}
	if ExcludeKinds(No)("player_anytime_td", no) {
		t.Error("ExcludeKinds(No) kept a No outcome")
	}
	if !ExcludeKinds(No)("player_anytime_td", yes) {
		t.Error("ExcludeKinds(No) dropped a Yes outcome")
	}

	f := BinaryMarketOnly("player_anytime_td")
	if f("player_rush_yds", yes) {
		t.Error("BinaryMarketOnly kept another market")
	}
	if f("player_anytime_td", no) {
		t.Error("BinaryMarketOnly kept the No side")
	}
	if !f("player_anytime_td", yes) {
		t.Error("BinaryMarketOnly dropped the Yes side")
	}
}
