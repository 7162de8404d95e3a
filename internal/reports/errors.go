package reports

import "errors"

var (
	// ErrNotFound indicates no pass has been recorded yet.
	ErrNotFound = errors.New("pass record not found")
	// ErrDuplicate indicates a pass was recorded twice.
	ErrDuplicate = errors.New("pass already recorded")
)
