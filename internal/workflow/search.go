package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// SearchNode returns a state node that queries the registry for the
// matching Form 470. A lookup failure decides DecisionIssue; confirmed
// absence decides DecisionManual. A match is stored for ResolveNode.
func SearchNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ts, err := extractTaskState(s)
		if err != nil {
			return s, fmt.Errorf("search: %w", err)
		}

		number := ts.Info.SearchNumber()
		if number == "" {
			ts.decide(DecisionManual, "no application number to search the registry with")
			return s.Set(KeyTaskState, *ts), nil
		}

		match, err := rt.Registry.FindForm470(ctx, number)
		if err != nil {
			ts.decide(DecisionIssue, fmt.Sprintf("registry lookup failed: %v", err))
			return s.Set(KeyTaskState, *ts), nil
		}

		if match == nil {
			ts.decide(DecisionManual, fmt.Sprintf("no form 470 found for %s", number))
			return s.Set(KeyTaskState, *ts), nil
		}

		ts.Match = match

		rt.Logger.InfoContext(
			ctx, "search node complete",
			"task", ts.Task.GID,
			"application_number", number,
		)

		return s.Set(KeyTaskState, *ts), nil
	})
}
