package registry

import "errors"

var (
	// ErrUnavailable indicates the registry could not be queried;
	// distinct from a confirmed absence so operators can tell transient
	// failure from a record that genuinely does not exist.
	ErrUnavailable = errors.New("registry unavailable")
	// ErrEmptyQuery indicates a lookup was attempted without a number.
	ErrEmptyQuery = errors.New("empty application number")
)
