package workflow

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/relay/internal/board"
)

var pdfURLPattern = regexp.MustCompile(`(?i)https?://\S+\.pdf`)

// URLFetcher retrieves raw bytes from a URL found in task notes.
type URLFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type httpFetcher struct {
	http *http.Client
}

// NewURLFetcher creates an HTTP-backed URLFetcher with the given timeout.
func NewURLFetcher(timeout time.Duration) URLFetcher {
	return &httpFetcher{
		http: &http.Client{Timeout: timeout},
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	return data, nil
}

// FetchNode returns a state node that resolves the task's PDF: the first
// PDF file attachment wins, then the first PDF URL in the task notes.
// Download failures decide DecisionIssue; a task that carries no document
// at all decides DecisionManual, since someone has to chase the sender
// for the missing form.
func FetchNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ts, err := extractTaskState(s)
		if err != nil {
			return s, fmt.Errorf("fetch: %w", err)
		}

		data, name, decision, reason := resolveDocument(ctx, rt, ts.Task)
		if reason != "" {
			ts.decide(decision, reason)
			return s.Set(KeyTaskState, *ts), nil
		}

		target := filepath.Join(rt.ScratchDir, fmt.Sprintf("%s_%s", ts.Task.GID, name))
		if err := os.WriteFile(target, data, 0600); err != nil {
			ts.decide(DecisionIssue, fmt.Sprintf("write scratch file: %v", err))
			return s.Set(KeyTaskState, *ts), nil
		}

		ts.PDFPath = target

		rt.Logger.InfoContext(
			ctx, "fetch node complete",
			"task", ts.Task.GID,
			"pdf", name,
			"bytes", len(data),
		)

		return s.Set(KeyTaskState, *ts), nil
	})
}

// resolveDocument returns the PDF bytes and filename, or a non-empty
// reason describing why the document could not be obtained along with
// the decision that reason warrants.
func resolveDocument(ctx context.Context, rt *Runtime, task board.Task) ([]byte, string, Decision, string) {
	for _, att := range task.Attachments {
		if !strings.HasSuffix(strings.ToLower(att.Name), ".pdf") {
			continue
		}

		data, err := rt.Board.DownloadAttachment(ctx, att)
		if err != nil {
			return nil, "", DecisionIssue, fmt.Sprintf("attachment %q download failed: %v", att.Name, err)
		}

		return data, att.Name, DecisionNone, ""
	}

	if url := pdfURLPattern.FindString(task.Notes); url != "" {
		data, err := rt.Fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, "", DecisionIssue, fmt.Sprintf("pdf url download failed: %v", err)
		}

		return data, path.Base(url), DecisionNone, ""
	}

	return nil, "", DecisionManual, "no pdf attachment or url found"
}
