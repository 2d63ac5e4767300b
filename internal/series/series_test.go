package series

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"github.com/nflparty/oddsboard/internal/snapshot"
)

var t0 = time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

// fakeSource filters an in-memory table the way the Postgres store does.
type fakeSource struct {
	records []snapshot.Record
	fail    map[string]error // keyed by player
	queries []snapshot.Query
}

func (f *fakeSource) Query(_ context.Context, q snapshot.Query) ([]snapshot.Record, error) {
	f.queries = append(f.queries, q)
	if err := f.fail[q.PlayerName]; err != nil {
		return nil, err
	}
	var out []snapshot.Record
	for _, r := range f.records {
		if q.GameID != "" && r.GameID != q.GameID {
			continue
		}
		if q.PlayerName != "" && r.PlayerName != q.PlayerName {
			continue
		}
		if q.Market != "" && r.Market != q.Market {
			continue
		}
		if q.Bookmaker != "" && r.Bookmaker != q.Bookmaker {
			continue
		}
		if len(q.Outcomes) > 0 && !contains(q.Outcomes, r.OutcomeName) {
			continue
		}
		if !q.Since.IsZero() && r.ObservedAt.Before(q.Since) {
			continue
		}
		if !q.Until.IsZero() && !r.ObservedAt.Before(q.Until) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func rec(player, gameID, market, outcome string, point null.Float, price int, at time.Duration) snapshot.Record {
	return snapshot.Record{
		GameID:      gameID,
		PlayerName:  player,
		Bookmaker:   "draftkings",
		Market:      market,
		OutcomeName: outcome,
		Point:       point,
		Price:       price,
		ObservedAt:  t0.Add(at),
	}
}

func TestAggregateSplitsByLine(t *testing.T) {
	src := &fakeSource{records: []snapshot.Record{
		rec("PlayerX", "g1", "player_rush_yds", "Over", null.FloatFrom(49.5), -110, 0),
		rec("PlayerX", "g1", "player_rush_yds", "Under", null.FloatFrom(49.5), -110, 0),
		rec("PlayerX", "g1", "player_rush_yds", "Over", null.FloatFrom(54.5), 120, 30*time.Minute),
		rec("PlayerX", "g1", "player_rush_yds", "Over", null.FloatFrom(49.5), -105, time.Hour),
	}}

	res := New(src, "draftkings", nil).Aggregate(context.Background(),
		[]Selection{{Player: "PlayerX", GameID: "g1"}}, "player_rush_yds", Window{})

	if err := res.Err(); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(res.Series) != 2 {
		t.Fatalf("len(Series) = %d, want 2", len(res.Series))
	}

	first, second := res.Series[0], res.Series[1]
	if first.Label != "PlayerX player_rush_yds 49.5" || len(first.Points) != 2 {
		t.Errorf("first = %q with %d points", first.Label, len(first.Points))
	}
	if first.Points[0].Price != -110 || first.Points[1].Price != -105 {
		t.Errorf("first prices = %d, %d", first.Points[0].Price, first.Points[1].Price)
	}
	if second.Label != "PlayerX player_rush_yds 54.5" || len(second.Points) != 1 || second.Points[0].Price != 120 {
		t.Errorf("second = %+v", second)
	}
	if !second.Line.Valid || second.Line.Float64 != 54.5 {
		t.Errorf("second.Line = %+v", second.Line)
	}

	q := src.queries[0]
	if q.Bookmaker != "draftkings" || !reflect.DeepEqual(q.Outcomes, []string{"Over"}) {
		t.Errorf("query = %+v", q)
	}
}

func TestAggregateEmptyMarketIssuesNoQuery(t *testing.T) {
	src := &fakeSource{}
	res := New(src, "draftkings", nil).Aggregate(context.Background(),
		[]Selection{{Player: "PlayerX", GameID: "g1"}}, "", Window{})

	if len(res.Series) != 0 || len(res.Failed) != 0 {
		t.Errorf("result = %+v, want empty", res)
	}
	if len(src.queries) != 0 {
		t.Errorf("issued %d queries, want 0", len(src.queries))
	}
}

func TestAggregateBinaryMarket(t *testing.T) {
	src := &fakeSource{records: []snapshot.Record{
		rec("PlayerX", "g1", "player_anytime_td", "PlayerX", null.Float{}, 150, 0),
		rec("PlayerX", "g1", "player_anytime_td", "Yes", null.Float{}, 145, time.Minute),
		rec("PlayerX", "g1", "player_anytime_td", "No", null.Float{}, -200, time.Minute),
	}}

	res := New(src, "draftkings", nil).Aggregate(context.Background(),
		[]Selection{{Player: "PlayerX", GameID: "g1"}}, "player_anytime_td", Window{})

	if len(res.Series) != 1 {
		t.Fatalf("len(Series) = %d, want 1", len(res.Series))
	}
	s := res.Series[0]
	if s.Label != "PlayerX player_anytime_td" || s.Line.Valid {
		t.Errorf("series = %q line %+v", s.Label, s.Line)
	}
	if len(s.Points) != 2 {
		t.Errorf("len(Points) = %d, want 2 (No side excluded)", len(s.Points))
	}
}

func TestAggregateConservationAndPartition(t *testing.T) {
	lines := []null.Float{null.Float{}, null.FloatFrom(0.5), null.FloatFrom(1.5), null.FloatFrom(0)}
	var records []snapshot.Record
	for i := 0; i < 40; i++ {
		// Deliberately out of time order.
		at := time.Duration((i*7)%40) * time.Minute
		records = append(records, rec("PlayerX", "g1", "player_pass_tds", "Over", lines[i%len(lines)], -100-i, at))
	}
	records = append(records, rec("PlayerY", "g1", "player_pass_tds", "Over", null.FloatFrom(1.5), 100, 0))

	src := &fakeSource{records: records}
	res := New(src, "draftkings", nil).Aggregate(context.Background(),
		[]Selection{{Player: "PlayerX", GameID: "g1"}}, "player_pass_tds", Window{})

	total := 0
	for _, s := range res.Series {
		total += len(s.Points)
		for i, p := range s.Points {
			if p.Point.Valid != s.Line.Valid || (p.Point.Valid && p.Point.Float64 != s.Line.Float64) {
				t.Errorf("series %q holds point with line %+v", s.Label, p.Point)
			}
			if i > 0 && p.ObservedAt.Before(s.Points[i-1].ObservedAt) {
				t.Errorf("series %q not in ascending time order at %d", s.Label, i)
			}
		}
	}
	if total != 40 {
		t.Errorf("total points = %d, want 40", total)
	}

	wantLabels := []string{
		"PlayerX player_pass_tds",
		"PlayerX player_pass_tds 0",
		"PlayerX player_pass_tds 0.5",
		"PlayerX player_pass_tds 1.5",
	}
	var gotLabels []string
	for _, s := range res.Series {
		gotLabels = append(gotLabels, s.Label)
	}
	if !reflect.DeepEqual(gotLabels, wantLabels) {
		t.Errorf("labels = %v, want %v", gotLabels, wantLabels)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	src := &fakeSource{records: []snapshot.Record{
		rec("A", "g1", "player_receptions", "Over", null.FloatFrom(4.5), -120, 0),
		rec("A", "g1", "player_receptions", "Over", null.FloatFrom(5.5), 140, 0),
		rec("B", "g2", "player_receptions", "Over", null.FloatFrom(3.5), 100, time.Minute),
	}}
	agg := New(src, "draftkings", nil)
	sels := []Selection{{Player: "A", GameID: "g1"}, {Player: "B", GameID: "g2"}}

	first, err := json.Marshal(agg.Aggregate(context.Background(), sels, "player_receptions", Window{}).Series)
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(agg.Aggregate(context.Background(), sels, "player_receptions", Window{}).Series)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("repeated aggregation differs:\n%s\n%s", first, second)
	}
}

func TestAggregateFailureIsPerSelection(t *testing.T) {
	boom := errors.New("connection reset")
	src := &fakeSource{
		records: []snapshot.Record{
			rec("Good", "g1", "player_rush_yds", "Over", null.FloatFrom(20.5), -110, 0),
		},
		fail: map[string]error{"Bad": boom},
	}

	res := New(src, "draftkings", nil).Aggregate(context.Background(), []Selection{
		{Player: "Bad", GameID: "g1"},
		{Player: "Good", GameID: "g1"},
		{Player: "Empty", GameID: "g1"},
	}, "player_rush_yds", Window{})

	if len(res.Series) != 1 || res.Series[0].Player != "Good" {
		t.Errorf("Series = %+v, want only Good's series", res.Series)
	}
	if len(res.Failed) != 1 || res.Failed[0].Selection.Player != "Bad" {
		t.Fatalf("Failed = %+v, want Bad", res.Failed)
	}
	err := res.Err()
	if !errors.Is(err, ErrQueryFailed) || !errors.Is(err, boom) {
		t.Errorf("Err() = %v, want ErrQueryFailed wrapping cause", err)
	}
	if len(src.queries) != 3 {
		t.Errorf("queries = %d, want 3", len(src.queries))
	}
}

func TestAggregateDeduplicatesSelections(t *testing.T) {
	src := &fakeSource{records: []snapshot.Record{
		rec("A", "g1", "player_rush_yds", "Over", null.FloatFrom(20.5), -110, 0),
	}}
	sel := Selection{Player: "A", GameID: "g1"}

	res := New(src, "draftkings", nil).Aggregate(context.Background(), []Selection{sel, sel}, "player_rush_yds", Window{})
	if len(res.Series) != 1 || len(src.queries) != 1 {
		t.Errorf("series = %d, queries = %d; want 1, 1", len(res.Series), len(src.queries))
	}
}

func TestAggregateWindow(t *testing.T) {
	src := &fakeSource{records: []snapshot.Record{
		rec("A", "g1", "player_rush_yds", "Over", null.FloatFrom(20.5), -110, 0),
		rec("A", "g1", "player_rush_yds", "Over", null.FloatFrom(20.5), -115, time.Hour),
		rec("A", "g1", "player_rush_yds", "Over", null.FloatFrom(20.5), -120, 2*time.Hour),
	}}

	res := New(src, "draftkings", nil).Aggregate(context.Background(),
		[]Selection{{Player: "A", GameID: "g1"}}, "player_rush_yds",
		Window{Since: t0.Add(30 * time.Minute), Until: t0.Add(2 * time.Hour)})

	if len(res.Series) != 1 || len(res.Series[0].Points) != 1 || res.Series[0].Points[0].Price != -115 {
		t.Errorf("Series = %+v, want the single -115 point", res.Series)
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in      string
		want    Selection
		wantErr bool
	}{
		{"PlayerX@g1", Selection{Player: "PlayerX", GameID: "g1"}, false},
		{"Odd@Name@abc123", Selection{Player: "Odd@Name", GameID: "abc123"}, false},
		{"PlayerX", Selection{}, true},
		{"@g1", Selection{}, true},
		{"PlayerX@", Selection{}, true},
	}

	for _, tt := range tests {
		got, err := ParseSelection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSelection(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSelection(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if !tt.wantErr && got.String() != tt.in {
			t.Errorf("String() = %q, want %q", got.String(), tt.in)
		}
	}
}

func TestImpliedProbabilityOnPoints(t *testing.T) {
	series := Partition(Selection{Player: "A", GameID: "g1"}, "player_rush_yds", []snapshot.Record{
		rec("A", "g1", "player_rush_yds", "Over", null.FloatFrom(20.5), 100, 0),
	})
	if got := series[0].Points[0].ImpliedProbability; got != 0.5 {
		t.Errorf("ImpliedProbability = %f, want 0.5", got)
	}
}
