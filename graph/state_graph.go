package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/moleculab/drugflow/store"
)

// defaultStepLimit bounds runaway loops in cyclic workflows. Override with
// SetStepLimit when a workflow legitimately needs more steps.
const defaultStepLimit = 250

// StateGraph is a builder for a workflow over a state type S.
type StateGraph[S any] struct {
	nodes       map[string]Node[S]
	edges       []Edge
	conditional map[string]Condition[S]
	entryPoint  string
	retryPolicy *RetryPolicy
	stepLimit   int
}

// NewStateGraph creates a new empty state graph.
func NewStateGraph[S any]() *StateGraph[S] {
	return &StateGraph[S]{
		nodes:       make(map[string]Node[S]),
		conditional: make(map[string]Condition[S]),
		stepLimit:   defaultStepLimit,
	}
}

// AddNode adds a node with the given name, description and function.
func (g *StateGraph[S]) AddNode(name, description string, fn func(ctx context.Context, state S) (S, error)) {
	g.nodes[name] = Node[S]{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// AddEdge adds a static edge between the "from" and "to" nodes.
func (g *StateGraph[S]) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{From: from, To: to})
}

// AddConditionalEdge adds an edge whose target node is determined at runtime.
func (g *StateGraph[S]) AddConditionalEdge(from string, condition Condition[S]) {
	g.conditional[from] = condition
}

// SetEntryPoint sets the entry point node name.
func (g *StateGraph[S]) SetEntryPoint(name string) {
	g.entryPoint = name
}

// SetRetryPolicy sets the retry policy applied to every node.
func (g *StateGraph[S]) SetRetryPolicy(policy *RetryPolicy) {
	g.retryPolicy = policy
}

// SetStepLimit sets the maximum number of node executions per run.
// A value <= 0 means unlimited.
func (g *StateGraph[S]) SetStepLimit(n int) {
	g.stepLimit = n
}

// Compile validates the graph and returns a Runnable.
func (g *StateGraph[S]) Compile() (*Runnable[S], error) {
	if g.entryPoint == "" {
		return nil, ErrEntryPointNotSet
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, g.entryPoint)
	}
	for _, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, e.From)
		}
		if _, ok := g.nodes[e.To]; !ok && e.To != END {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, e.To)
		}
	}
	return &Runnable[S]{graph: g}, nil
}

// Step describes a completed node execution in a run.
type Step[S any] struct {
	Node  string
	State S
	Err   error
}

// Runnable is a compiled state graph.
type Runnable[S any] struct {
	graph       *StateGraph[S]
	checkpoints store.CheckpointStore
}

// SetCheckpointStore enables checkpoint persistence after every node.
func (r *Runnable[S]) SetCheckpointStore(cs store.CheckpointStore) {
	r.checkpoints = cs
}

// Invoke executes the graph with a generated run ID.
func (r *Runnable[S]) Invoke(ctx context.Context, initial S) (S, error) {
	return r.InvokeWithRun(ctx, initial, NewRunID())
}

// InvokeWithRun executes the graph under the given run ID, starting at the
// entry point.
func (r *Runnable[S]) InvokeWithRun(ctx context.Context, initial S, runID string) (S, error) {
	return r.run(ctx, initial, runID, r.graph.entryPoint, 0, nil)
}

// Stream executes the graph and emits a Step after each node. The channel is
// closed when the run finishes; a terminal error is delivered as the Err of
// the final step.
func (r *Runnable[S]) Stream(ctx context.Context, initial S) <-chan Step[S] {
	steps := make(chan Step[S])
	go func() {
		defer close(steps)
		_, _ = r.run(ctx, initial, NewRunID(), r.graph.entryPoint, 0, steps)
	}()
	return steps
}

// Resume loads the latest checkpoint of a run and continues from the node
// that follows it.
func (r *Runnable[S]) Resume(ctx context.Context, runID string) (S, error) {
	var state S
	if r.checkpoints == nil {
		return state, fmt.Errorf("no checkpoint store configured")
	}

	cp, err := r.checkpoints.Latest(ctx, runID)
	if err != nil {
		return state, fmt.Errorf("failed to load latest checkpoint: %w", err)
	}
	if err := json.Unmarshal(cp.State, &state); err != nil {
		return state, fmt.Errorf("failed to decode checkpoint state: %w", err)
	}

	next, err := r.nextNode(ctx, cp.Node, state)
	if err != nil {
		return state, err
	}
	if next == END {
		return state, nil
	}
	return r.run(ctx, state, runID, next, cp.Seq, nil)
}

func (r *Runnable[S]) run(ctx context.Context, state S, runID, startNode string, seq int, steps chan<- Step[S]) (S, error) {
	current := startNode
	executed := 0

	for current != END {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		if limit := r.graph.stepLimit; limit > 0 && executed >= limit {
			err := fmt.Errorf("%w: %d", ErrStepLimit, limit)
			emit(steps, Step[S]{Node: current, State: state, Err: err})
			return state, err
		}

		node, ok := r.graph.nodes[current]
		if !ok {
			err := fmt.Errorf("%w: %s", ErrNodeNotFound, current)
			emit(steps, Step[S]{Node: current, State: state, Err: err})
			return state, err
		}

		next, err := r.executeWithRetry(ctx, node, state)
		if err != nil {
			err = fmt.Errorf("error in node %s: %w", current, err)
			emit(steps, Step[S]{Node: current, State: state, Err: err})
			return state, err
		}
		state = next
		executed++
		seq++

		if err := r.saveCheckpoint(ctx, runID, current, state, seq); err != nil {
			emit(steps, Step[S]{Node: current, State: state, Err: err})
			return state, err
		}
		emit(steps, Step[S]{Node: current, State: state})

		current, err = r.nextNode(ctx, current, state)
		if err != nil {
			emit(steps, Step[S]{Node: current, State: state, Err: err})
			return state, err
		}
	}
	return state, nil
}

func (r *Runnable[S]) nextNode(ctx context.Context, current string, state S) (string, error) {
	if condition, ok := r.graph.conditional[current]; ok {
		next := condition(ctx, state)
		if next == "" {
			return "", fmt.Errorf("conditional edge returned empty next node from %s", current)
		}
		return next, nil
	}
	for _, edge := range r.graph.edges {
		if edge.From == current {
			return edge.To, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoOutgoingEdge, current)
}

func (r *Runnable[S]) saveCheckpoint(ctx context.Context, runID, node string, state S, seq int) error {
	if r.checkpoints == nil {
		return nil
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state for checkpoint: %w", err)
	}
	cp := &store.Checkpoint{
		ID:        uuid.NewString(),
		RunID:     runID,
		Node:      node,
		State:     data,
		Seq:       seq,
		CreatedAt: time.Now(),
	}
	if err := r.checkpoints.Save(ctx, cp); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

func emit[S any](steps chan<- Step[S], step Step[S]) {
	if steps != nil {
		steps <- step
	}
}

// NewRunID returns a new unique run identifier.
func NewRunID() string {
	return uuid.NewString()
}
