package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/relay/internal/engine"
	"github.com/JaimeStill/relay/pkg/repository"
)

const defaultListLimit = 25

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a pass history repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "reports"),
	}
}

func (r *repo) Record(ctx context.Context, report *engine.Report) error {
	results, err := json.Marshal(report.Results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	q := `
		INSERT INTO pass_reports(id, started_at, finished_at, task_count, failure_count, results)
		VALUES ($1, $2, $3, $4, $5, $6)`

	err = repository.ExecExpectOne(ctx, r.db, q,
		report.ID, report.StartedAt, report.FinishedAt,
		len(report.Results), report.Failures(), results,
	)
	if err != nil {
		return repository.MapError(fmt.Errorf("record pass: %w", err), ErrNotFound, ErrDuplicate)
	}

	r.logger.DebugContext(ctx, "pass recorded", "pass", report.ID)
	return nil
}

func (r *repo) Latest(ctx context.Context) (*PassRecord, error) {
	q := selectRecords + ` ORDER BY started_at DESC LIMIT 1`

	record, err := repository.QueryOne(ctx, r.db, q, nil, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &record, nil
}

func (r *repo) List(ctx context.Context, limit int) ([]PassRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	q := selectRecords + ` ORDER BY started_at DESC LIMIT $1`

	records, err := repository.QueryMany(ctx, r.db, q, []any{limit}, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("list passes: %w", err)
	}

	return records, nil
}
