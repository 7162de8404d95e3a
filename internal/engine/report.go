package engine

import (
	"time"

	"github.com/google/uuid"
)

// TaskResult records the terminal outcome of one task within a pass.
type TaskResult struct {
	TaskGID  string `json:"task_gid"`
	TaskName string `json:"task_name"`
	Section  string `json:"section"`
	Reason   string `json:"reason"`
	Failed   bool   `json:"failed"`
}

// Report summarizes a single pass over the intake section.
type Report struct {
	ID         uuid.UUID    `json:"id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Results    []TaskResult `json:"results"`
}

// NewReport creates an empty report for a pass beginning now.
func NewReport() *Report {
	return &Report{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
		Results:   []TaskResult{},
	}
}

// Failures counts tasks that ended in the issues section or whose board
// mutations failed. Single-pass mode exits nonzero when this is positive.
func (r *Report) Failures() int {
	count := 0
	for _, res := range r.Results {
		if res.Failed {
			count++
		}
	}
	return count
}

// Empty reports whether the pass found no intake tasks.
func (r *Report) Empty() bool {
	return len(r.Results) == 0
}
