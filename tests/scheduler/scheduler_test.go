package scheduler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/relay/internal/engine"
	"github.com/JaimeStill/relay/internal/scheduler"
	"github.com/JaimeStill/relay/pkg/lifecycle"
)

type scriptedPasser struct {
	mu      sync.Mutex
	calls   int
	failOn  map[int]bool
	reports []*engine.Report
}

func (p *scriptedPasser) ProcessOnce(ctx context.Context) (*engine.Report, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	if p.failOn[p.calls] {
		return nil, errors.New("board down")
	}

	report := engine.NewReport()
	p.reports = append(p.reports, report)
	return report, nil
}

func (p *scriptedPasser) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func newWatcher(t *testing.T, p scheduler.Passer, interval string) *scheduler.Watcher {
	t.Helper()

	cfg := &scheduler.Config{Interval: interval}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return scheduler.NewWatcher(p, cfg, logger)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestWatcherRunsImmediatelyAndRepeats(t *testing.T) {
	passer := &scriptedPasser{}
	watcher := newWatcher(t, passer, "10ms")

	lc := lifecycle.New()
	watcher.Start(lc)
	lc.WaitForStartup()

	waitFor(t, 2*time.Second, func() bool { return passer.callCount() >= 3 })

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}

func TestWatcherSurvivesFailedPass(t *testing.T) {
	passer := &scriptedPasser{failOn: map[int]bool{1: true, 2: true}}
	watcher := newWatcher(t, passer, "10ms")

	lc := lifecycle.New()
	watcher.Start(lc)
	lc.WaitForStartup()

	waitFor(t, 2*time.Second, func() bool { return watcher.Latest() != nil })

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if passer.callCount() < 3 {
		t.Errorf("watcher should keep ticking past failures, got %d calls", passer.callCount())
	}
}

func TestWatcherLatestTracksMostRecentReport(t *testing.T) {
	passer := &scriptedPasser{}
	watcher := newWatcher(t, passer, "10ms")

	if watcher.Latest() != nil {
		t.Error("latest should be nil before the first pass")
	}

	lc := lifecycle.New()
	watcher.Start(lc)
	lc.WaitForStartup()

	waitFor(t, 2*time.Second, func() bool { return passer.callCount() >= 2 })

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	latest := watcher.Latest()
	if latest == nil {
		t.Fatal("latest should be set after passes complete")
	}

	passer.mu.Lock()
	defer passer.mu.Unlock()
	last := passer.reports[len(passer.reports)-1]
	if latest.ID != last.ID {
		t.Errorf("latest: got %s, want %s", latest.ID, last.ID)
	}
}

func TestWatcherStopsOnShutdown(t *testing.T) {
	passer := &scriptedPasser{}
	watcher := newWatcher(t, passer, "10ms")

	lc := lifecycle.New()
	watcher.Start(lc)
	lc.WaitForStartup()

	waitFor(t, 2*time.Second, func() bool { return passer.callCount() >= 1 })

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	settled := passer.callCount()
	time.Sleep(50 * time.Millisecond)
	if passer.callCount() != settled {
		t.Error("watcher kept running after shutdown")
	}
}
