package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// ResolveNode returns the graph's exit node. Tasks that arrive undecided
// carry a registry match and complete; everything else already holds its
// terminal decision from an earlier node.
func ResolveNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ts, err := extractTaskState(s)
		if err != nil {
			return s, fmt.Errorf("resolve: %w", err)
		}

		if !ts.Decided() {
			if ts.Match == nil {
				return s, fmt.Errorf("%w: undecided task without registry match", ErrInvalidState)
			}
			ts.decide(DecisionComplete, fmt.Sprintf("form 470 located: %s", ts.Match.FormPDF))
		}

		rt.Logger.InfoContext(
			ctx, "task resolved",
			"task", ts.Task.GID,
			"decision", ts.Decision,
			"reason", ts.Reason,
		)

		return s.Set(KeyTaskState, *ts), nil
	})
}
