package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/JaimeStill/relay/internal/board"
	"github.com/JaimeStill/relay/internal/config"
)

// seedTasks covers the three intake shapes worth exercising end to end:
// a resolvable PDF link, a task with nothing to fetch, and a link that 404s.
var seedTasks = []board.CreateCommand{
	{
		Name:  "Seed: Form 471 with PDF link",
		Notes: "Review attached form. https://www.usac.org/wp-content/uploads/e-rate/documents/samples/FCC-Form-471-Sample.pdf",
	},
	{
		Name:  "Seed: no attachment or link",
		Notes: "Form arrived by fax, awaiting scan.",
	},
	{
		Name:  "Seed: broken PDF link",
		Notes: "https://example.com/forms/missing-form-471.pdf",
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := board.New(&cfg.Board, logger)
	ctx := context.Background()

	sections, err := client.Sections(ctx)
	if err != nil {
		log.Fatal("list sections failed:", err)
	}

	var intake *board.Section
	for i, section := range sections {
		if strings.EqualFold(section.Name, cfg.Engine.IntakeSection) {
			intake = &sections[i]
			break
		}
	}
	if intake == nil {
		log.Fatalf("intake section %q not found", cfg.Engine.IntakeSection)
	}

	for _, cmd := range seedTasks {
		cmd.SectionGID = intake.GID
		task, err := client.CreateTask(ctx, cmd)
		if err != nil {
			log.Fatalf("create %q failed: %v", cmd.Name, err)
		}
		fmt.Printf("created %s (%s)\n", task.Name, task.GID)
	}
}
