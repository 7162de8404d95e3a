package finance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const analystInstructions = `You are a seasoned market analyst. Using only the
quote data provided below, write a concise report answering the question.

Structure:
1. Executive summary
2. Market overview per symbol (price against 52-week range)
3. Valuation notes (P/E, EPS, market cap) where available
4. Risks and uncertainties

Do not invent numbers. If a metric is absent from the data, say so.`

// Analyst answers free-text market questions with an LLM-composed report
// grounded in fetched quote data.
type Analyst struct {
	config  *gaconfig.AgentConfig
	markets Markets
	logger  *slog.Logger
}

// NewAnalyst creates an analyst from an agent configuration and a markets client.
func NewAnalyst(cfg *gaconfig.AgentConfig, markets Markets, logger *slog.Logger) *Analyst {
	return &Analyst{
		config:  cfg,
		markets: markets,
		logger:  logger.With("system", "analyst"),
	}
}

// Report resolves symbols (explicit ones win over extraction from the
// question), fetches their quotes, and returns the model's report.
func (a *Analyst) Report(ctx context.Context, question string, symbols []string) (string, error) {
	if len(symbols) == 0 {
		symbols = ExtractSymbols(question)
	}
	if len(symbols) == 0 {
		return "", ErrNoSymbols
	}

	quotes, err := a.markets.Quotes(ctx, symbols)
	if err != nil {
		return "", fmt.Errorf("fetch quotes: %w", err)
	}

	ag, err := agent.New(a.config)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	prompt := ComposePrompt(question, quotes)

	resp, err := ag.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	a.logger.InfoContext(ctx, "report composed", "symbols", symbols)

	return resp.Text(), nil
}

// ComposePrompt builds the chat prompt: the analyst instructions, the
// question, and one data line per fetched quote. The model never sees a
// symbol that did not resolve.
func ComposePrompt(question string, quotes []Quote) string {
	var b strings.Builder

	b.WriteString(analystInstructions)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nQuote data:\n")

	for _, q := range quotes {
		fmt.Fprintf(&b,
			"- %s (%s): price %.2f, 52w range %.2f-%.2f, market cap %d, P/E %.2f, EPS %.2f\n",
			q.ShortName, q.Symbol, q.Price, q.Low52Week, q.High52Week,
			q.MarketCap, q.TrailingPE, q.EPS,
		)
	}

	return b.String()
}
