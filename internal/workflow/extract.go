package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// ExtractNode returns a state node that pulls form identifiers out of the
// fetched PDF. Extraction failure (corrupt or unreadable document) decides
// DecisionIssue; a readable document with no identifiers decides
// DecisionManual so the registry is never queried for it.
func ExtractNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ts, err := extractTaskState(s)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		info, err := rt.Extractor.Extract(ts.PDFPath)
		if err != nil {
			ts.decide(DecisionIssue, fmt.Sprintf("pdf extraction failed: %v", err))
			return s.Set(KeyTaskState, *ts), nil
		}

		ts.Info = info

		if !info.HasIdentifiers() {
			ts.decide(DecisionManual, "no application number or billed entity name found")
			return s.Set(KeyTaskState, *ts), nil
		}

		rt.Logger.InfoContext(
			ctx, "extract node complete",
			"task", ts.Task.GID,
			"form_type", info.FormType,
			"application_number", info.ApplicationNumber,
		)

		return s.Set(KeyTaskState, *ts), nil
	})
}
