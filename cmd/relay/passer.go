package main

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/relay/internal/engine"
	"github.com/JaimeStill/relay/internal/reports"
	"github.com/JaimeStill/relay/internal/scheduler"
)

// recordedPasser persists each completed pass report. Recording is an
// audit trail only, so a failed write is logged and the report still
// stands.
type recordedPasser struct {
	engine  scheduler.Passer
	history reports.System
	logger  *slog.Logger
}

func (p *recordedPasser) ProcessOnce(ctx context.Context) (*engine.Report, error) {
	report, err := p.engine.ProcessOnce(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.history.Record(ctx, report); err != nil {
		p.logger.WarnContext(ctx, "pass record failed", "pass_id", report.ID, "error", err)
	}

	return report, nil
}
