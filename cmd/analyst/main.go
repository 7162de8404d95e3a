package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JaimeStill/relay/internal/config"
	"github.com/JaimeStill/relay/internal/finance"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

func main() {
	symbolsFlag := flag.String("symbols", "", "Comma-separated ticker symbols (overrides extraction from the question)")
	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: analyst [-symbols AAPL,MSFT] <question>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	agentCfg := &gaconfig.AgentConfig{Name: "analyst"}
	if err := config.FinalizeAgent(agentCfg); err != nil {
		log.Fatal("agent config failed:", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var symbols []string
	if *symbolsFlag != "" {
		for _, s := range strings.Split(*symbolsFlag, ",") {
			if s = strings.TrimSpace(strings.ToUpper(s)); s != "" {
				symbols = append(symbols, s)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	markets := finance.NewMarkets(&cfg.Markets, logger)
	analyst := finance.NewAnalyst(agentCfg, markets, logger)

	report, err := analyst.Report(ctx, question, symbols)
	if err != nil {
		logger.Error("report failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(report)
}
