package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/relay/internal/board"
	"github.com/JaimeStill/relay/internal/engine"
	"github.com/JaimeStill/relay/internal/forms"
	"github.com/JaimeStill/relay/internal/registry"
)

var testSections = []board.Section{
	{GID: "s-qa", Name: "QA"},
	{GID: "s-proc", Name: "Processing"},
	{GID: "s-iss", Name: "Issues"},
	{GID: "s-man", Name: "Manual Follow-up"},
}

type move struct {
	task    string
	section string
}

type fakeBoard struct {
	tasks        []board.Task
	listErr      error
	moveErr      error
	downloadData []byte

	moves     []move
	comments  map[string][]string
	completed []string
	created   []board.CreateCommand
}

func newFakeBoard(tasks ...board.Task) *fakeBoard {
	return &fakeBoard{
		tasks:        tasks,
		downloadData: []byte("%PDF-1.7"),
		comments:     map[string][]string{},
	}
}

func (f *fakeBoard) Sections(ctx context.Context) ([]board.Section, error) {
	return testSections, nil
}

func (f *fakeBoard) SectionTasks(ctx context.Context, sectionGID string) ([]board.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if sectionGID != "s-qa" {
		return nil, nil
	}
	return f.tasks, nil
}

func (f *fakeBoard) MoveTask(ctx context.Context, taskGID, sectionGID string) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moves = append(f.moves, move{task: taskGID, section: sectionGID})
	return nil
}

func (f *fakeBoard) Comment(ctx context.Context, taskGID, text string) error {
	f.comments[taskGID] = append(f.comments[taskGID], text)
	return nil
}

func (f *fakeBoard) CompleteTask(ctx context.Context, taskGID string) error {
	f.completed = append(f.completed, taskGID)
	return nil
}

func (f *fakeBoard) DownloadAttachment(ctx context.Context, att board.Attachment) ([]byte, error) {
	return f.downloadData, nil
}

func (f *fakeBoard) CreateTask(ctx context.Context, cmd board.CreateCommand) (*board.Task, error) {
	f.created = append(f.created, cmd)
	return &board.Task{GID: "sub-" + cmd.ParentGID, Name: cmd.Name}, nil
}

type fakeExtractor struct {
	infos map[string]*forms.FormInfo
	err   error
}

func (f *fakeExtractor) Extract(path string) (*forms.FormInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	for gid, info := range f.infos {
		if strings.Contains(path, gid) {
			return info, nil
		}
	}
	return &forms.FormInfo{FormType: forms.FormTypeUnknown}, nil
}

type fakeRegistry struct {
	matches map[string]*registry.Form470
	err     error
	calls   int
}

func (f *fakeRegistry) FindForm470(ctx context.Context, applicationNumber string) (*registry.Form470, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.matches[applicationNumber], nil
}

type fakeFetcher struct{}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return nil, errors.New("no url fetching in this test")
}

func pdfTask(gid, name string) board.Task {
	return board.Task{
		GID:  gid,
		Name: name,
		Attachments: []board.Attachment{
			{GID: gid + "-att", Name: "form.pdf", DownloadURL: "https://files.example.com/" + gid},
		},
	}
}

func newEngine(t *testing.T, b board.System, e forms.Extractor, r registry.System) *engine.Engine {
	t.Helper()

	cfg := &engine.Config{IntakeSection: "QA", ScratchDir: t.TempDir()}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	eng, err := engine.New(context.Background(), cfg, engine.Options{
		Board:     b,
		Extractor: e,
		Registry:  r,
		Fetcher:   &fakeFetcher{},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("engine init failed: %v", err)
	}
	return eng
}

func (f *fakeBoard) movedTo(taskGID, sectionGID string) bool {
	for _, m := range f.moves {
		if m.task == taskGID && m.section == sectionGID {
			return true
		}
	}
	return false
}

func TestProcessOnceMatchCompletes(t *testing.T) {
	b := newFakeBoard(pdfTask("t1", "Review Form 471"))
	reg := &fakeRegistry{matches: map[string]*registry.Form470{
		"220000789012345": {
			ApplicationNumber: "220000789012345",
			FormPDF:           "https://opendata.example.com/forms/220000789012345.pdf",
		},
	}}

	eng := newEngine(t, b, &fakeExtractor{infos: map[string]*forms.FormInfo{
		"t1": {
			FormType:            forms.FormType471,
			ApplicationNumber:   "221000456",
			EstablishingForm470: "220000789012345",
		},
	}}, reg)

	report, err := eng.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}

	if len(report.Results) != 1 {
		t.Fatalf("results: got %d, want 1", len(report.Results))
	}
	if report.Failures() != 0 {
		t.Errorf("failures: got %d, want 0", report.Failures())
	}

	if !b.movedTo("t1", "s-proc") {
		t.Error("task was not claimed into processing")
	}
	if len(b.completed) != 1 || b.completed[0] != "t1" {
		t.Errorf("completed: got %v, want [t1]", b.completed)
	}

	comments := b.comments["t1"]
	if len(comments) != 1 || !strings.Contains(comments[0], "220000789012345.pdf") {
		t.Errorf("completion comment: got %v", comments)
	}
}

func TestProcessOnceNoIdentifiersRoutesManual(t *testing.T) {
	b := newFakeBoard(pdfTask("t2", "Scanned cover letter"))
	reg := &fakeRegistry{}

	eng := newEngine(t, b, &fakeExtractor{}, reg)

	report, err := eng.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}

	if report.Failures() != 0 {
		t.Errorf("manual follow-up is not a failure, got %d", report.Failures())
	}
	if !b.movedTo("t2", "s-man") {
		t.Error("task was not routed to manual follow-up")
	}
	if reg.calls != 0 {
		t.Errorf("registry must not be queried without identifiers, got %d calls", reg.calls)
	}

	comments := b.comments["t2"]
	if len(comments) != 1 || !strings.Contains(comments[0], "Manual follow-up required.") {
		t.Errorf("manual comment: got %v", comments)
	}
	if report.Results[0].Section != "Manual Follow-up" {
		t.Errorf("result section: got %s", report.Results[0].Section)
	}

	if len(b.created) != 1 {
		t.Fatalf("review subtasks: got %d, want 1", len(b.created))
	}
	sub := b.created[0]
	if sub.ParentGID != "t2" {
		t.Errorf("subtask parent: got %s, want t2", sub.ParentGID)
	}
	if !strings.Contains(sub.Notes, "Form type: unknown") {
		t.Errorf("subtask notes missing extracted form data: %q", sub.Notes)
	}
}

func TestProcessOnceNoMatchSubtaskCarriesIdentifiers(t *testing.T) {
	b := newFakeBoard(pdfTask("t5", "Review Form 470"))
	reg := &fakeRegistry{}

	eng := newEngine(t, b, &fakeExtractor{infos: map[string]*forms.FormInfo{
		"t5": {
			FormType:          forms.FormType470,
			ApplicationNumber: "190012345",
			BilledEntityName:  "Springfield USD",
		},
	}}, reg)

	report, err := eng.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}

	if report.Failures() != 0 {
		t.Errorf("registry absence is not a failure, got %d", report.Failures())
	}
	if !b.movedTo("t5", "s-man") {
		t.Error("task was not routed to manual follow-up")
	}
	if reg.calls != 1 {
		t.Errorf("registry calls: got %d, want 1", reg.calls)
	}

	if len(b.created) != 1 {
		t.Fatalf("review subtasks: got %d, want 1", len(b.created))
	}
	sub := b.created[0]
	if sub.ParentGID != "t5" {
		t.Errorf("subtask parent: got %s, want t5", sub.ParentGID)
	}
	for _, want := range []string{"190012345", "Springfield USD", "Form type: 470"} {
		if !strings.Contains(sub.Notes, want) {
			t.Errorf("subtask notes missing %q: %q", want, sub.Notes)
		}
	}
}

func TestProcessOnceNoDocumentRoutesManual(t *testing.T) {
	b := newFakeBoard(board.Task{GID: "t3", Name: "Fax pending", Notes: "no link here"})
	eng := newEngine(t, b, &fakeExtractor{}, &fakeRegistry{})

	report, err := eng.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}

	if report.Failures() != 0 {
		t.Errorf("a missing document is a follow-up, not a failure, got %d", report.Failures())
	}
	if !b.movedTo("t3", "s-man") {
		t.Error("task was not routed to manual follow-up")
	}
	if len(b.created) != 0 {
		t.Errorf("no form was read, so no review subtask should exist, got %v", b.created)
	}

	comments := b.comments["t3"]
	if len(comments) != 1 || !strings.Contains(comments[0], "Manual follow-up required.") {
		t.Errorf("manual comment: got %v", comments)
	}
}

func TestProcessOnceEmptyIntake(t *testing.T) {
	b := newFakeBoard()
	reg := &fakeRegistry{}
	eng := newEngine(t, b, &fakeExtractor{}, reg)

	report, err := eng.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}

	if !report.Empty() {
		t.Errorf("report should be empty, got %d results", len(report.Results))
	}
	if len(b.moves) != 0 || len(b.completed) != 0 || len(b.comments) != 0 {
		t.Error("empty intake must produce no board mutations")
	}
	if reg.calls != 0 {
		t.Errorf("registry calls: got %d, want 0", reg.calls)
	}
}

func TestProcessOnceListFailureAbortsPass(t *testing.T) {
	b := newFakeBoard()
	b.listErr = errors.New("board down")
	eng := newEngine(t, b, &fakeExtractor{}, &fakeRegistry{})

	if _, err := eng.ProcessOnce(context.Background()); err == nil {
		t.Fatal("expected error when intake listing fails")
	}
}

func TestProcessOnceClaimFailureIsolated(t *testing.T) {
	b := newFakeBoard(pdfTask("t4", "Unclaimable"))
	b.moveErr = errors.New("section locked")
	eng := newEngine(t, b, &fakeExtractor{}, &fakeRegistry{})

	report, err := eng.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("claim failure must not abort the pass: %v", err)
	}

	if report.Failures() != 1 {
		t.Errorf("failures: got %d, want 1", report.Failures())
	}
	result := report.Results[0]
	if result.Section != "QA" {
		t.Errorf("unclaimed task stays in intake, got %s", result.Section)
	}
	if !strings.Contains(result.Reason, "claim failed") {
		t.Errorf("reason: got %q", result.Reason)
	}
}

func TestProcessOnceMixedScenarios(t *testing.T) {
	b := newFakeBoard(
		pdfTask("t1", "Matchable"),
		pdfTask("t2", "No identifiers"),
		board.Task{GID: "t3", Name: "No document"},
		board.Task{GID: "t4", Name: "Broken link", Notes: "https://example.com/dead.pdf"},
	)
	reg := &fakeRegistry{matches: map[string]*registry.Form470{
		"190012345": {ApplicationNumber: "190012345", FormPDF: "https://opendata.example.com/forms/190012345.pdf"},
	}}

	eng := newEngine(t, b, &fakeExtractor{infos: map[string]*forms.FormInfo{
		"t1": {FormType: forms.FormType470, ApplicationNumber: "190012345"},
	}}, reg)

	report, err := eng.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}

	if len(report.Results) != 4 {
		t.Fatalf("results: got %d, want 4", len(report.Results))
	}
	if report.Failures() != 1 {
		t.Errorf("failures: got %d, want 1 (the broken download)", report.Failures())
	}

	if len(b.completed) != 1 || b.completed[0] != "t1" {
		t.Errorf("completed: got %v, want [t1]", b.completed)
	}
	if !b.movedTo("t2", "s-man") {
		t.Error("t2 should be in manual follow-up")
	}
	if !b.movedTo("t3", "s-man") {
		t.Error("t3 should be in manual follow-up")
	}
	if !b.movedTo("t4", "s-iss") {
		t.Error("t4 should be in issues")
	}
	if reg.calls != 1 {
		t.Errorf("registry calls: got %d, want 1", reg.calls)
	}
}

func TestNewMissingSectionFails(t *testing.T) {
	b := &sectionlessBoard{}

	cfg := &engine.Config{IntakeSection: "QA", ScratchDir: t.TempDir()}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	_, err := engine.New(context.Background(), cfg, engine.Options{
		Board:     b,
		Extractor: &fakeExtractor{},
		Registry:  &fakeRegistry{},
		Fetcher:   &fakeFetcher{},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if !errors.Is(err, engine.ErrSectionMissing) {
		t.Errorf("error: got %v, want ErrSectionMissing", err)
	}
}

type sectionlessBoard struct {
	board.System
}

func (b *sectionlessBoard) Sections(ctx context.Context) ([]board.Section, error) {
	return []board.Section{{GID: "s1", Name: "Done"}}, nil
}
