// Package reports persists pass history to PostgreSQL. Persistence is an
// audit trail only: the engine and scheduler behave identically when no
// database is configured.
package reports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/relay/internal/engine"
)

// PassRecord is a persisted pass report.
type PassRecord struct {
	ID           uuid.UUID           `json:"id"`
	StartedAt    time.Time           `json:"started_at"`
	FinishedAt   time.Time           `json:"finished_at"`
	TaskCount    int                 `json:"task_count"`
	FailureCount int                 `json:"failure_count"`
	Results      []engine.TaskResult `json:"results"`
}

// System defines the public contract for pass history operations.
type System interface {
	Record(ctx context.Context, report *engine.Report) error
	Latest(ctx context.Context) (*PassRecord, error)
	List(ctx context.Context, limit int) ([]PassRecord, error)
}
