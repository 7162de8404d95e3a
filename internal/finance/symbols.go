package finance

import (
	"regexp"
	"strings"
)

var (
	parenSymbolPattern = regexp.MustCompile(`\(([A-Z]{1,5})\)`)
	bareSymbolPattern  = regexp.MustCompile(`\b[A-Z]{2,5}\b`)
)

// Words that look like ticker symbols but never are in practice.
var symbolStoplist = map[string]struct{}{
	"AND": {}, "THE": {}, "FOR": {}, "VS": {}, "ETF": {}, "CEO": {},
	"EPS": {}, "PE": {}, "AI": {}, "IPO": {}, "USA": {}, "US": {},
	"OF": {}, "ON": {}, "IN": {}, "TO": {}, "IS": {}, "ARE": {},
}

// ExtractSymbols pulls ticker symbols out of a free-text question.
// Parenthesized symbols ("Apple (AAPL)") are authoritative; bare
// all-caps tokens are the fallback. Order is preserved, duplicates
// dropped.
func ExtractSymbols(question string) []string {
	seen := map[string]struct{}{}
	var symbols []string

	add := func(s string) {
		if _, skip := symbolStoplist[s]; skip {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		symbols = append(symbols, s)
	}

	for _, m := range parenSymbolPattern.FindAllStringSubmatch(question, -1) {
		add(m[1])
	}

	if len(symbols) > 0 {
		return symbols
	}

	for _, m := range bareSymbolPattern.FindAllString(question, -1) {
		add(strings.TrimSpace(m))
	}

	return symbols
}
