// Package scheduler runs the workflow engine in watcher mode: repeated
// passes on a fixed interval, each fully independent of the last. A failed
// pass is logged and the loop waits for the next tick; the watcher is built
// to outlive transient outages of any single external dependency.
package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/JaimeStill/relay/internal/engine"
	"github.com/JaimeStill/relay/pkg/lifecycle"
)

// Passer is the engine surface the watcher drives.
type Passer interface {
	ProcessOnce(ctx context.Context) (*engine.Report, error)
}

// Watcher repeats passes until its lifecycle context is cancelled.
type Watcher struct {
	engine   Passer
	interval time.Duration
	logger   *slog.Logger
	latest   atomic.Pointer[engine.Report]
}

// NewWatcher creates a watcher from the given configuration.
func NewWatcher(p Passer, cfg *Config, logger *slog.Logger) *Watcher {
	return &Watcher{
		engine:   p,
		interval: cfg.IntervalDuration(),
		logger:   logger.With("system", "scheduler"),
	}
}

// Latest returns the most recent completed pass report, or nil before the
// first pass finishes. The status server reads this.
func (w *Watcher) Latest() *engine.Report {
	return w.latest.Load()
}

// Start launches the watch loop and registers its drain with the lifecycle
// coordinator. The first pass runs immediately; subsequent passes run on
// the configured interval.
func (w *Watcher) Start(lc *lifecycle.Coordinator) {
	done := make(chan struct{})

	go func() {
		defer close(done)
		w.run(lc.Context())
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-done
		w.logger.Info("watcher stopped")
	})
}

func (w *Watcher) run(ctx context.Context) {
	w.logger.Info("watcher started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.pass(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pass(ctx)
		}
	}
}

// pass runs one engine pass. Pass-level errors never terminate the loop;
// the next tick is the retry mechanism.
func (w *Watcher) pass(ctx context.Context) {
	report, err := w.engine.ProcessOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.ErrorContext(ctx, "pass failed", "error", err)
		return
	}

	w.latest.Store(report)

	w.logger.InfoContext(
		ctx, "pass recorded",
		"pass", report.ID,
		"tasks", len(report.Results),
		"failures", report.Failures(),
	)
}
