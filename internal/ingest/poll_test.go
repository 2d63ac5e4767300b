package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nflparty/oddsboard/internal/provider"
	"github.com/nflparty/oddsboard/internal/snapshot"
	"github.com/nflparty/oddsboard/internal/store"
)

type fakeFeed struct {
	games []provider.Game
	err   error
}

func (f *fakeFeed) FetchGames(context.Context) ([]provider.Game, error) {
	return f.games, f.err
}

type fakeSink struct {
	calls   int
	records []snapshot.Record
	err     error
}

func (f *fakeSink) InsertBatch(_ context.Context, records []snapshot.Record) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.records = append(f.records, records...)
	return len(records), nil
}

func sampleGames() []provider.Game {
	return []provider.Game{{
		ID:           "g1",
		HomeTeam:     "Detroit Lions",
		AwayTeam:     "Green Bay Packers",
		CommenceTime: time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC),
		Bookmakers: []provider.Bookmaker{{
			Key: "draftkings",
			Markets: []provider.Market{{
				Key: "player_anytime_td",
				Outcomes: []provider.Outcome{
					{Name: "Yes", Description: "Jahmyr Gibbs", Price: -150},
					{Name: "No", Description: "Jahmyr Gibbs", Price: 120},
				},
			}},
		}},
	}}
}

func TestPoll(t *testing.T) {
	sink := &fakeSink{}
	p := NewPoller(&fakeFeed{games: sampleGames()}, &snapshot.Normalizer{Bookmaker: "draftkings"}, sink, nil)

	res, err := p.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if res.Games != 1 || res.Records != 2 || res.Inserted != 2 {
		t.Errorf("result = %s", res.Summary())
	}
	if sink.calls != 1 || len(sink.records) != 2 {
		t.Errorf("sink calls = %d, records = %d", sink.calls, len(sink.records))
	}
}

func TestPollFetchFailed(t *testing.T) {
	sink := &fakeSink{}
	feed := &fakeFeed{err: fmt.Errorf("%w: 401", provider.ErrFetchFailed)}

	_, err := NewPoller(feed, &snapshot.Normalizer{Bookmaker: "draftkings"}, sink, nil).Poll(context.Background())
	if !errors.Is(err, provider.ErrFetchFailed) {
		t.Fatalf("err = %v, want ErrFetchFailed", err)
	}
	if sink.calls != 0 {
		t.Errorf("sink called %d times after fetch failure", sink.calls)
	}
	if got := pollStatus(err); got != "fetch_failed" {
		t.Errorf("pollStatus = %q", got)
	}
}

func TestPollMalformedInsertsNothing(t *testing.T) {
	games := sampleGames()
	broken := games[0]
	broken.ID = "g2"
	broken.CommenceTime = time.Time{}
	games = append(games, broken)

	sink := &fakeSink{}
	res, err := NewPoller(&fakeFeed{games: games}, &snapshot.Normalizer{Bookmaker: "draftkings"}, sink, nil).Poll(context.Background())
	if !errors.Is(err, provider.ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
	if sink.calls != 0 || res.Inserted != 0 {
		t.Errorf("partial insert: calls = %d, inserted = %d", sink.calls, res.Inserted)
	}
	if got := pollStatus(err); got != "malformed" {
		t.Errorf("pollStatus = %q", got)
	}
}

func TestPollStoreError(t *testing.T) {
	sink := &fakeSink{err: fmt.Errorf("%w: unique violation", store.ErrInsert)}

	_, err := NewPoller(&fakeFeed{games: sampleGames()}, &snapshot.Normalizer{Bookmaker: "draftkings"}, sink, nil).Poll(context.Background())
	if !errors.Is(err, store.ErrInsert) {
		t.Fatalf("err = %v, want store.ErrInsert", err)
	}
	if got := pollStatus(err); got != "store_failed" {
		t.Errorf("pollStatus = %q", got)
	}
}
