package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/nflparty/oddsboard/internal/ingest"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type countingPruner struct {
	mu        sync.Mutex
	calls     int
	olderThan time.Duration
	err       error
}

func (p *countingPruner) Prune(_ context.Context, olderThan time.Duration) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.olderThan = olderThan
	return 3, p.err
}

func (p *countingPruner) snapshot() (int, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls, p.olderThan
}

type countingPoller struct {
	mu    sync.Mutex
	calls int
}

func (p *countingPoller) Poll(context.Context) (ingest.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return ingest.Result{}, nil
}

func (p *countingPoller) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestStartRunsTasksUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pruner := &countingPruner{}
	poller := &countingPoller{}

	done := make(chan struct{})
	go func() {
		Start(ctx, Config{
			PollInterval:  5 * time.Millisecond,
			PruneInterval: 5 * time.Millisecond,
			Retention:     72 * time.Hour,
		}, poller, pruner, discard)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		calls, _ := pruner.snapshot()
		if calls > 0 && poller.count() > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("tasks did not run: prune=%d poll=%d", calls, poller.count())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	if _, olderThan := pruner.snapshot(); olderThan != 72*time.Hour {
		t.Errorf("olderThan = %v, want 72h", olderThan)
	}
}

func TestStartPruneDisabledWithoutRetention(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	pruner := &countingPruner{}

	Start(ctx, Config{PruneInterval: time.Millisecond}, nil, pruner, discard)

	if calls, _ := pruner.snapshot(); calls != 0 {
		t.Errorf("prune ran %d times with zero retention", calls)
	}
}

func TestPruneLogsFailure(t *testing.T) {
	pruner := &countingPruner{err: errors.New("conn reset")}
	prune(context.Background(), pruner, time.Hour, discard)
	if calls, _ := pruner.snapshot(); calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
