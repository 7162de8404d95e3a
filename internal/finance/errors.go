package finance

import "errors"

var (
	// ErrNoSymbols indicates no ticker symbols could be resolved from the question.
	ErrNoSymbols = errors.New("no ticker symbols found")
	// ErrUnknownSymbol indicates the quote API returned no data for a symbol.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrQuotesUnavailable indicates every requested symbol failed to resolve.
	ErrQuotesUnavailable = errors.New("no quotes available")
)
