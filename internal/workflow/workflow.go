// Package workflow implements the per-task decision pipeline as an explicit
// state graph: fetch → extract → search → resolve. Conditional edges skip
// straight to resolve once a task has reached a terminal decision, so a
// fetch failure never triggers extraction and a task without identifiers
// never touches the registry.
package workflow

import (
	"context"
	"fmt"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/relay/internal/board"
)

// Execute runs the decision pipeline for a single task and returns its
// terminal state. Node errors indicate pipeline defects (corrupt state bag);
// task-level failures are encoded as decisions and never abort execution.
func Execute(ctx context.Context, rt *Runtime, task board.Task) (*TaskState, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyTaskState, TaskState{Task: task})

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractTaskState(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("relay-task")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("fetch", FetchNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("extract", ExtractNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("search", SearchNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("resolve", ResolveNode(rt)); err != nil {
		return nil, err
	}

	// fetch → extract (document obtained)
	if err := graph.AddEdge("fetch", "extract", undecided); err != nil {
		return nil, err
	}

	// fetch → resolve (document unobtainable)
	if err := graph.AddEdge("fetch", "resolve", state.Not(undecided)); err != nil {
		return nil, err
	}

	// extract → search (identifiers found)
	if err := graph.AddEdge("extract", "search", undecided); err != nil {
		return nil, err
	}

	// extract → resolve (extraction failed or no identifiers)
	if err := graph.AddEdge("extract", "resolve", state.Not(undecided)); err != nil {
		return nil, err
	}

	// search → resolve (unconditional)
	if err := graph.AddEdge("search", "resolve", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("fetch"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("resolve"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractTaskState(s state.State) (*TaskState, error) {
	val, ok := s.Get(KeyTaskState)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s in state", ErrInvalidState, KeyTaskState)
	}

	ts, ok := val.(TaskState)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not TaskState", ErrInvalidState, KeyTaskState)
	}

	return &ts, nil
}

func undecided(s state.State) bool {
	val, ok := s.Get(KeyTaskState)
	if !ok {
		return false
	}

	ts, ok := val.(TaskState)
	if !ok {
		return false
	}

	return !ts.Decided()
}
