package engine

import "errors"

var (
	// ErrSectionMissing indicates a required workflow section does not
	// exist on the project board.
	ErrSectionMissing = errors.New("workflow section missing")
	// ErrScratchDir indicates the scratch directory could not be prepared.
	ErrScratchDir = errors.New("scratch directory unavailable")
)
