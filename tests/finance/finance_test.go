package finance_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/JaimeStill/relay/internal/finance"
)

func TestExtractSymbols(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     []string
	}{
		{
			name:     "parenthesized symbols win",
			question: "Compare Apple (AAPL) and Microsoft (MSFT) for the next quarter",
			want:     []string{"AAPL", "MSFT"},
		},
		{
			name:     "bare tokens as fallback",
			question: "Is NVDA still a buy after earnings?",
			want:     []string{"NVDA"},
		},
		{
			name:     "stoplist filters noise",
			question: "THE outlook FOR TSLA AND the EV market",
			want:     []string{"TSLA", "EV"},
		},
		{
			name:     "duplicates dropped in order",
			question: "GOOG versus AMZN, then GOOG again",
			want:     []string{"GOOG", "AMZN"},
		},
		{
			name:     "no symbols",
			question: "what is happening in the markets today?",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := finance.ExtractSymbols(tt.question)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("symbols: got %v, want %v", got, tt.want)
			}
		})
	}
}

func newMarkets(t *testing.T, handler http.Handler) finance.Markets {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &finance.MarketsConfig{BaseURL: server.URL}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return finance.NewMarkets(cfg, logger)
}

func quotePayload(symbol string, price float64) map[string]any {
	return map[string]any{
		"quoteResponse": map[string]any{
			"result": []map[string]any{
				{
					"symbol":             symbol,
					"shortName":          symbol + " Inc.",
					"regularMarketPrice": price,
					"fiftyTwoWeekHigh":   price * 1.4,
					"fiftyTwoWeekLow":    price * 0.6,
				},
			},
		},
	}
}

func TestQuotes(t *testing.T) {
	markets := newMarkets(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbols")
		json.NewEncoder(w).Encode(quotePayload(symbol, 100))
	}))

	quotes, err := markets.Quotes(context.Background(), []string{"AAPL", "MSFT", "NVDA"})
	if err != nil {
		t.Fatalf("quotes failed: %v", err)
	}

	if len(quotes) != 3 {
		t.Fatalf("quotes: got %d, want 3", len(quotes))
	}

	got := map[string]bool{}
	for _, q := range quotes {
		got[q.Symbol] = true
		if q.Price != 100 {
			t.Errorf("%s price: got %v, want 100", q.Symbol, q.Price)
		}
	}
	for _, want := range []string{"AAPL", "MSFT", "NVDA"} {
		if !got[want] {
			t.Errorf("missing quote for %s", want)
		}
	}
}

func TestQuotesPartialFailureTolerated(t *testing.T) {
	markets := newMarkets(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbols")
		if symbol == "BAD" {
			json.NewEncoder(w).Encode(map[string]any{
				"quoteResponse": map[string]any{"result": []any{}},
			})
			return
		}
		json.NewEncoder(w).Encode(quotePayload(symbol, 42))
	}))

	quotes, err := markets.Quotes(context.Background(), []string{"AAPL", "BAD"})
	if err != nil {
		t.Fatalf("partial failure must not be fatal: %v", err)
	}

	if len(quotes) != 1 || quotes[0].Symbol != "AAPL" {
		t.Errorf("quotes: got %+v, want only AAPL", quotes)
	}
}

func TestQuotesTotalFailure(t *testing.T) {
	markets := newMarkets(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := markets.Quotes(context.Background(), []string{"AAPL", "MSFT"})
	if !errors.Is(err, finance.ErrQuotesUnavailable) {
		t.Errorf("error: got %v, want ErrQuotesUnavailable", err)
	}
}

func TestQuotesNoSymbols(t *testing.T) {
	markets := newMarkets(t, http.NotFoundHandler())

	_, err := markets.Quotes(context.Background(), nil)
	if !errors.Is(err, finance.ErrNoSymbols) {
		t.Errorf("error: got %v, want ErrNoSymbols", err)
	}
}

func TestComposePromptEmbedsQuotes(t *testing.T) {
	quotes := []finance.Quote{
		{Symbol: "AAPL", ShortName: "Apple Inc.", Price: 225.10, Low52Week: 164.08, High52Week: 237.23},
		{Symbol: "MSFT", ShortName: "Microsoft Corporation", Price: 410.37},
	}

	prompt := finance.ComposePrompt("How do AAPL and MSFT compare?", quotes)

	if !strings.Contains(prompt, "How do AAPL and MSFT compare?") {
		t.Error("prompt should contain the question")
	}
	for _, q := range quotes {
		if !strings.Contains(prompt, q.ShortName) {
			t.Errorf("prompt should embed a data line for %s", q.Symbol)
		}
	}
	if !strings.Contains(prompt, "225.10") {
		t.Error("prompt should embed fetched prices")
	}
}
