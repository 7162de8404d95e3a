// Package finance implements the market analyst entry point: fetch quote
// data for the symbols a question mentions, then have the agent compose an
// analyst report grounded in that data. Tool selection is deterministic
// code; the model only ever writes prose over numbers already fetched.
package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"
)

const quoteWorkers = 4

// Quote is a snapshot of a single symbol's market data.
type Quote struct {
	Symbol     string  `json:"symbol"`
	ShortName  string  `json:"shortName"`
	Price      float64 `json:"regularMarketPrice"`
	High52Week float64 `json:"fiftyTwoWeekHigh"`
	Low52Week  float64 `json:"fiftyTwoWeekLow"`
	MarketCap  int64   `json:"marketCap"`
	TrailingPE float64 `json:"trailingPE"`
	EPS        float64 `json:"epsTrailingTwelveMonths"`
}

// Markets fetches quote snapshots for ticker symbols.
type Markets interface {
	Quotes(ctx context.Context, symbols []string) ([]Quote, error)
}

type marketsClient struct {
	base   string
	http   *http.Client
	logger *slog.Logger
}

// NewMarkets creates a quote API client from the given configuration.
func NewMarkets(cfg *MarketsConfig, logger *slog.Logger) Markets {
	return &marketsClient{
		base:   cfg.BaseURL,
		http:   &http.Client{Timeout: cfg.TimeoutDuration()},
		logger: logger.With("system", "markets"),
	}
}

// Quotes fetches all symbols concurrently with a bounded worker limit.
// A failed symbol is logged and skipped as long as at least one symbol
// resolves; only a total failure surfaces as an error.
func (c *marketsClient) Quotes(ctx context.Context, symbols []string) ([]Quote, error) {
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}

	var (
		mu     sync.Mutex
		quotes []Quote
		failed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(quoteWorkers, len(symbols)))

	for _, symbol := range symbols {
		g.Go(func() error {
			quote, err := c.fetch(gctx, symbol)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				c.logger.WarnContext(gctx, "quote fetch failed", "symbol", symbol, "error", err)
				failed = append(failed, symbol)
				return nil
			}

			quotes = append(quotes, *quote)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrQuotesUnavailable, failed)
	}

	return quotes, nil
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []Quote `json:"result"`
	} `json:"quoteResponse"`
}

func (c *marketsClient) fetch(ctx context.Context, symbol string) (*Quote, error) {
	query := url.Values{"symbols": {symbol}}
	target := c.base + "/quote?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", res.StatusCode, string(msg))
	}

	var decoded quoteResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}

	if len(decoded.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, ErrUnknownSymbol)
	}

	return &decoded.QuoteResponse.Result[0], nil
}
