package workflow

import (
	"github.com/JaimeStill/relay/internal/board"
	"github.com/JaimeStill/relay/internal/forms"
	"github.com/JaimeStill/relay/internal/registry"
)

// State bag keys.
const (
	KeyTaskState = "task_state"
)

// Decision is the terminal routing outcome for a single task.
type Decision string

const (
	// DecisionNone means the pipeline has not yet reached an outcome.
	DecisionNone Decision = ""
	// DecisionComplete marks the task done: a matching Form 470 was located.
	DecisionComplete Decision = "complete"
	// DecisionManual routes the task to manual follow-up: no document was
	// provided, identifiers were missing, or the registry confirmed no
	// match exists.
	DecisionManual Decision = "manual"
	// DecisionIssue routes the task to the issues section: an external call
	// failed or the document could not be read.
	DecisionIssue Decision = "issue"
)

// TaskState accumulates per-task pipeline progress through the state graph.
// Task-level failures are recorded here as decisions, never surfaced as node
// errors, so every task deterministically reaches a terminal outcome.
type TaskState struct {
	Task     board.Task
	PDFPath  string
	Info     *forms.FormInfo
	Match    *registry.Form470
	Decision Decision
	Reason   string
}

// Decided reports whether the pipeline has reached a terminal outcome.
func (ts *TaskState) Decided() bool {
	return ts.Decision != DecisionNone
}

func (ts *TaskState) decide(d Decision, reason string) {
	ts.Decision = d
	ts.Reason = reason
}
