package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/relay/internal/board"
	"github.com/JaimeStill/relay/internal/config"
	"github.com/JaimeStill/relay/internal/engine"
	"github.com/JaimeStill/relay/internal/forms"
	"github.com/JaimeStill/relay/internal/infrastructure"
	"github.com/JaimeStill/relay/internal/registry"
	"github.com/JaimeStill/relay/internal/reports"
	"github.com/JaimeStill/relay/internal/scheduler"
	"github.com/JaimeStill/relay/internal/workflow"
)

// App wires the configured subsystems into a runnable service. The same
// assembly backs both single-pass and watcher modes; only the run loop
// differs.
type App struct {
	cfg     *config.Config
	infra   *infrastructure.Infrastructure
	passer  scheduler.Passer
	history reports.System
}

func NewApp(cfg *config.Config) (*App, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	infra.Logger.Info(
		"relay starting",
		"version", cfg.Version,
		"env", cfg.Env(),
		"intake_section", cfg.Engine.IntakeSection,
	)

	boardClient := board.New(&cfg.Board, infra.Logger)

	eng, err := engine.New(infra.Lifecycle.Context(), &cfg.Engine, engine.Options{
		Board:     boardClient,
		Extractor: forms.NewExtractor(infra.Logger),
		Registry:  registry.New(&cfg.Registry, infra.Logger),
		Fetcher:   workflow.NewURLFetcher(cfg.Board.TimeoutDuration()),
		Archive:   infra.Archive,
		Logger:    infra.Logger,
	})
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:    cfg,
		infra:  infra,
		passer: eng,
	}

	if infra.Database != nil {
		app.history = reports.New(infra.Database.Connection(), infra.Logger)
		app.passer = &recordedPasser{
			engine:  eng,
			history: app.history,
			logger:  infra.Logger.With("system", "reports"),
		}
	}

	return app, nil
}

// RunOnce executes a single pass and returns the process exit code:
// zero when every task routed cleanly, one when the pass failed or any
// task ended in the issues section.
func (a *App) RunOnce() int {
	logger := a.infra.Logger

	if err := a.infra.Start(); err != nil {
		logger.Error("infrastructure start failed", "error", err)
		return 1
	}
	a.infra.Lifecycle.WaitForStartup()

	ctx := a.infra.Lifecycle.Context()
	report, err := a.passer.ProcessOnce(ctx)

	if shutdownErr := a.infra.Lifecycle.Shutdown(a.cfg.ShutdownTimeoutDuration()); shutdownErr != nil {
		logger.Error("shutdown error", "error", shutdownErr)
	}

	if err != nil {
		logger.Error("pass failed", "error", err)
		return 1
	}

	logger.Info(
		"pass complete",
		"pass_id", report.ID,
		"tasks", len(report.Results),
		"failures", report.Failures(),
	)

	if report.Failures() > 0 {
		return 1
	}
	return 0
}

// Watch runs the interval loop with the status server until interrupted.
func (a *App) Watch() error {
	logger := a.infra.Logger

	if err := a.infra.Start(); err != nil {
		return err
	}

	watcher := scheduler.NewWatcher(a.passer, &a.cfg.Scheduler, logger)
	watcher.Start(a.infra.Lifecycle)

	httpSrv := newHTTPServer(&a.cfg.Server, a.statusHandler(watcher), logger)
	if err := httpSrv.Start(a.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		a.infra.Lifecycle.WaitForStartup()
		logger.Info("all subsystems ready", "addr", a.cfg.Server.Addr())
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("initiating shutdown")
	return a.infra.Lifecycle.Shutdown(a.cfg.ShutdownTimeoutDuration())
}
