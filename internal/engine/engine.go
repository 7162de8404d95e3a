// Package engine implements the pass orchestration for the QA workflow:
// list intake tasks, claim each into processing, run the decision
// pipeline, and route every task to a terminal section. Processing is
// deliberately sequential; task volume is low and each task is a chain
// of dependent external calls, so determinism beats throughput here.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/relay/internal/board"
	"github.com/JaimeStill/relay/internal/forms"
	"github.com/JaimeStill/relay/internal/registry"
	"github.com/JaimeStill/relay/internal/workflow"
	"github.com/JaimeStill/relay/pkg/storage"
)

// Options carries the collaborators the engine is assembled from.
// Archive is optional; when nil, processed PDFs are discarded after the pass.
type Options struct {
	Board     board.System
	Extractor forms.Extractor
	Registry  registry.System
	Fetcher   workflow.URLFetcher
	Archive   storage.System
	Logger    *slog.Logger
}

// Engine drives one pass at a time over the intake section.
// It holds no durable state: the board is the sole source of truth, and a
// crash mid-pass leaves claimed tasks visible in the processing section.
type Engine struct {
	board    board.System
	runtime  *workflow.Runtime
	archive  storage.System
	sections *Sections
	scratch  string
	logger   *slog.Logger
}

// New creates an engine, resolving workflow section GIDs up front.
// A missing section fails construction; it is a configuration problem,
// not something to discover mid-pass.
func New(ctx context.Context, cfg *Config, opts Options) (*Engine, error) {
	sections, err := ResolveSections(ctx, opts.Board, cfg.IntakeSection)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger.With("system", "engine")

	return &Engine{
		board: opts.Board,
		runtime: &workflow.Runtime{
			Board:      opts.Board,
			Extractor:  opts.Extractor,
			Registry:   opts.Registry,
			Fetcher:    opts.Fetcher,
			ScratchDir: cfg.ScratchDir,
			Logger:     logger,
		},
		archive:  opts.Archive,
		sections: sections,
		scratch:  cfg.ScratchDir,
		logger:   logger,
	}, nil
}

// Sections returns the resolved workflow sections.
func (e *Engine) Sections() *Sections {
	return e.sections
}

// ProcessOnce executes a single pass: every task currently in the intake
// section is claimed and driven to a terminal outcome. An empty intake
// section yields an empty report and no board mutations. Per-task failures
// are isolated; only a failure to list the intake section aborts the pass.
func (e *Engine) ProcessOnce(ctx context.Context) (*Report, error) {
	report := NewReport()

	tasks, err := e.board.SectionTasks(ctx, e.sections.Intake.GID)
	if err != nil {
		return nil, fmt.Errorf("list intake tasks: %w", err)
	}

	if len(tasks) == 0 {
		report.FinishedAt = time.Now().UTC()
		e.logger.InfoContext(ctx, "pass complete", "pass", report.ID, "tasks", 0)
		return report, nil
	}

	if err := os.MkdirAll(e.scratch, 0700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScratchDir, err)
	}

	for _, task := range tasks {
		report.Results = append(report.Results, e.processTask(ctx, report.ID, task))
	}

	report.FinishedAt = time.Now().UTC()

	e.logger.InfoContext(
		ctx, "pass complete",
		"pass", report.ID,
		"tasks", len(report.Results),
		"failures", report.Failures(),
	)

	return report, nil
}

func (e *Engine) processTask(ctx context.Context, passID uuid.UUID, task board.Task) TaskResult {
	// Claim before any work so a crashed run leaves visible evidence in the
	// processing section instead of silently re-queuing.
	if err := e.board.MoveTask(ctx, task.GID, e.sections.Processing.GID); err != nil {
		e.logger.ErrorContext(ctx, "claim failed", "task", task.GID, "error", err)
		return TaskResult{
			TaskGID:  task.GID,
			TaskName: task.Name,
			Section:  e.sections.Intake.Name,
			Reason:   fmt.Sprintf("claim failed: %v", err),
			Failed:   true,
		}
	}

	ts, err := workflow.Execute(ctx, e.runtime, task)
	if err != nil {
		// Pipeline defect, not a task-content failure; route to issues so
		// the task is never stranded in processing.
		e.logger.ErrorContext(ctx, "pipeline error", "task", task.GID, "error", err)
		ts = &workflow.TaskState{Task: task}
		ts.Decision = workflow.DecisionIssue
		ts.Reason = fmt.Sprintf("pipeline error: %v", err)
	}

	result := e.applyDecision(ctx, ts)

	if ts.PDFPath != "" {
		e.archivePDF(ctx, passID, task.GID, ts.PDFPath)
		if err := os.Remove(ts.PDFPath); err != nil {
			e.logger.WarnContext(ctx, "scratch cleanup failed", "path", ts.PDFPath, "error", err)
		}
	}

	return result
}

func (e *Engine) applyDecision(ctx context.Context, ts *workflow.TaskState) TaskResult {
	result := TaskResult{
		TaskGID:  ts.Task.GID,
		TaskName: ts.Task.Name,
		Reason:   ts.Reason,
	}

	var err error
	switch ts.Decision {
	case workflow.DecisionComplete:
		result.Section = "complete"
		err = e.completeTask(ctx, ts)
	case workflow.DecisionManual:
		result.Section = e.sections.Manual.Name
		err = e.manualTask(ctx, ts)
	case workflow.DecisionIssue:
		result.Section = e.sections.Issues.Name
		result.Failed = true
		err = e.routeTask(ctx, ts.Task.GID, e.sections.Issues,
			fmt.Sprintf("Processing issue.\n\nIssue: %s", ts.Reason))
	default:
		result.Section = e.sections.Processing.Name
		result.Reason = fmt.Sprintf("no decision reached: %s", ts.Reason)
		result.Failed = true
	}

	if err != nil {
		e.logger.ErrorContext(ctx, "routing failed", "task", ts.Task.GID, "error", err)
		result.Reason = fmt.Sprintf("%s (routing failed: %v)", result.Reason, err)
		result.Failed = true
	}

	return result
}

func (e *Engine) completeTask(ctx context.Context, ts *workflow.TaskState) error {
	comment := fmt.Sprintf("Form 470 located and linked:\n%s", ts.Match.FormPDF)
	if err := e.board.Comment(ctx, ts.Task.GID, comment); err != nil {
		return fmt.Errorf("comment: %w", err)
	}
	if err := e.board.CompleteTask(ctx, ts.Task.GID); err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	return nil
}

// manualTask routes the task to manual follow-up and, when the pipeline got
// far enough to read the form, creates a review subtask carrying the
// extracted identifiers so the reviewer starts with what the pass found.
func (e *Engine) manualTask(ctx context.Context, ts *workflow.TaskState) error {
	if err := e.routeTask(ctx, ts.Task.GID, e.sections.Manual,
		fmt.Sprintf("Manual follow-up required.\n\nReason: %s", ts.Reason)); err != nil {
		return err
	}

	if ts.Info == nil {
		return nil
	}

	cmd := board.CreateCommand{
		Name:      fmt.Sprintf("Manual review: %s", ts.Task.Name),
		Notes:     reviewNotes(ts),
		ParentGID: ts.Task.GID,
	}
	if _, err := e.board.CreateTask(ctx, cmd); err != nil {
		return fmt.Errorf("review subtask: %w", err)
	}
	return nil
}

func reviewNotes(ts *workflow.TaskState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reason: %s\n\nExtracted form data:\n", ts.Reason)
	fmt.Fprintf(&b, "- Form type: %s\n", ts.Info.FormType)
	if ts.Info.ApplicationNumber != "" {
		fmt.Fprintf(&b, "- Application number: %s\n", ts.Info.ApplicationNumber)
	}
	if ts.Info.BilledEntityName != "" {
		fmt.Fprintf(&b, "- Billed entity: %s\n", ts.Info.BilledEntityName)
	}
	if ts.Info.EstablishingForm470 != "" {
		fmt.Fprintf(&b, "- Establishing Form 470: %s\n", ts.Info.EstablishingForm470)
	}
	return b.String()
}

func (e *Engine) routeTask(ctx context.Context, taskGID string, section board.Section, comment string) error {
	if err := e.board.MoveTask(ctx, taskGID, section.GID); err != nil {
		return fmt.Errorf("move: %w", err)
	}
	if err := e.board.Comment(ctx, taskGID, comment); err != nil {
		return fmt.Errorf("comment: %w", err)
	}
	return nil
}

// archivePDF uploads the processed document to the archive container.
// Archive failures are logged and swallowed; archival is an audit trail,
// never a reason to fail a task.
func (e *Engine) archivePDF(ctx context.Context, passID uuid.UUID, taskGID, pdfPath string) {
	if e.archive == nil {
		return
	}

	f, err := os.Open(pdfPath)
	if err != nil {
		e.logger.WarnContext(ctx, "archive read failed", "path", pdfPath, "error", err)
		return
	}
	defer f.Close()

	key := fmt.Sprintf("%s/%s/%s", passID, taskGID, path.Base(pdfPath))
	if err := e.archive.Upload(ctx, key, f, "application/pdf"); err != nil {
		e.logger.WarnContext(ctx, "archive upload failed", "key", key, "error", err)
	}
}
