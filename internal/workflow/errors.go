package workflow

import "errors"

var (
	// ErrInvalidState indicates the state bag is missing or carries a
	// mistyped TaskState. This is a pipeline defect, not a task failure.
	ErrInvalidState = errors.New("invalid workflow state")
)
