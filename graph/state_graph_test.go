package graph

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moleculab/drugflow/store/memory"
)

type pipelineState struct {
	Compound  string   `json:"compound"`
	Visited   []string `json:"visited"`
	Successes int      `json:"successes"`
}

func visit(name string) func(context.Context, pipelineState) (pipelineState, error) {
	return func(_ context.Context, s pipelineState) (pipelineState, error) {
		s.Visited = append(s.Visited, name)
		return s, nil
	}
}

func TestCompileErrors(t *testing.T) {
	g := NewStateGraph[pipelineState]()
	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrEntryPointNotSet)

	g.SetEntryPoint("missing")
	_, err = g.Compile()
	assert.ErrorIs(t, err, ErrNodeNotFound)

	g.AddNode("a", "", visit("a"))
	g.SetEntryPoint("a")
	g.AddEdge("a", "b")
	_, err = g.Compile()
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestLinearInvoke(t *testing.T) {
	g := NewStateGraph[pipelineState]()
	g.AddNode("design", "analyze compound", visit("design"))
	g.AddNode("admet", "evaluate properties", visit("admet"))
	g.AddEdge("design", "admet")
	g.AddEdge("admet", END)
	g.SetEntryPoint("design")

	runnable, err := g.Compile()
	require.NoError(t, err)

	final, err := runnable.Invoke(context.Background(), pipelineState{Compound: "aspirin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"design", "admet"}, final.Visited)
}

func TestConditionalRouting(t *testing.T) {
	g := NewStateGraph[pipelineState]()
	g.AddNode("design", "", visit("design"))
	g.AddNode("retry", "", func(_ context.Context, s pipelineState) (pipelineState, error) {
		s.Visited = append(s.Visited, "retry")
		s.Successes++
		return s, nil
	})
	g.AddConditionalEdge("design", func(_ context.Context, s pipelineState) string {
		if s.Successes > 0 {
			return END
		}
		return "retry"
	})
	g.AddEdge("retry", "design")
	g.SetEntryPoint("design")

	runnable, err := g.Compile()
	require.NoError(t, err)

	final, err := runnable.Invoke(context.Background(), pipelineState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"design", "retry", "design"}, final.Visited)
}

func TestNoOutgoingEdge(t *testing.T) {
	g := NewStateGraph[pipelineState]()
	g.AddNode("lonely", "", visit("lonely"))
	g.SetEntryPoint("lonely")

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), pipelineState{})
	assert.ErrorIs(t, err, ErrNoOutgoingEdge)
}

func TestStepLimit(t *testing.T) {
	g := NewStateGraph[pipelineState]()
	g.AddNode("loop", "", visit("loop"))
	g.AddEdge("loop", "loop")
	g.SetEntryPoint("loop")
	g.SetStepLimit(5)

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), pipelineState{})
	assert.ErrorIs(t, err, ErrStepLimit)
}

func TestNodeErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	g := NewStateGraph[pipelineState]()
	g.AddNode("design", "", func(_ context.Context, s pipelineState) (pipelineState, error) {
		return s, boom
	})
	g.AddEdge("design", END)
	g.SetEntryPoint("design")

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), pipelineState{})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "error in node design")
}

func TestRetryPolicy(t *testing.T) {
	attempts := 0
	g := NewStateGraph[pipelineState]()
	g.AddNode("flaky", "", func(_ context.Context, s pipelineState) (pipelineState, error) {
		attempts++
		if attempts < 3 {
			return s, fmt.Errorf("transient failure %d", attempts)
		}
		return s, nil
	})
	g.AddEdge("flaky", END)
	g.SetEntryPoint("flaky")
	g.SetRetryPolicy(&RetryPolicy{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		Retryable:     func(error) bool { return true },
	})

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), pipelineState{})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryNonRetryable(t *testing.T) {
	fatal := errors.New("invalid SMILES")
	attempts := 0
	g := NewStateGraph[pipelineState]()
	g.AddNode("parse", "", func(_ context.Context, s pipelineState) (pipelineState, error) {
		attempts++
		return s, fatal
	})
	g.AddEdge("parse", END)
	g.SetEntryPoint("parse")
	g.SetRetryPolicy(&RetryPolicy{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		BackoffFactor: 2.0,
		Retryable:     func(err error) bool { return !errors.Is(err, fatal) },
	})

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), pipelineState{})
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, attempts)
}

func TestStream(t *testing.T) {
	g := NewStateGraph[pipelineState]()
	g.AddNode("design", "", visit("design"))
	g.AddNode("admet", "", visit("admet"))
	g.AddEdge("design", "admet")
	g.AddEdge("admet", END)
	g.SetEntryPoint("design")

	runnable, err := g.Compile()
	require.NoError(t, err)

	var nodes []string
	for step := range runnable.Stream(context.Background(), pipelineState{}) {
		require.NoError(t, step.Err)
		nodes = append(nodes, step.Node)
	}
	assert.Equal(t, []string{"design", "admet"}, nodes)
}

func TestCheckpointingAndResume(t *testing.T) {
	ms := memory.NewStore()
	ctx := context.Background()

	build := func(failAdmet bool) *Runnable[pipelineState] {
		g := NewStateGraph[pipelineState]()
		g.AddNode("design", "", visit("design"))
		g.AddNode("admet", "", func(_ context.Context, s pipelineState) (pipelineState, error) {
			if failAdmet {
				return s, errors.New("admet backend down")
			}
			s.Visited = append(s.Visited, "admet")
			return s, nil
		})
		g.AddNode("validate", "", visit("validate"))
		g.AddEdge("design", "admet")
		g.AddEdge("admet", "validate")
		g.AddEdge("validate", END)
		g.SetEntryPoint("design")

		runnable, err := g.Compile()
		require.NoError(t, err)
		runnable.SetCheckpointStore(ms)
		return runnable
	}

	// First run fails at admet; only the design checkpoint exists.
	_, err := build(true).InvokeWithRun(ctx, pipelineState{Compound: "aspirin"}, "run-1")
	require.Error(t, err)

	cps, err := ms.List(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, cps, 1)
	assert.Equal(t, "design", cps[0].Node)

	// Resume continues from admet with the checkpointed state.
	final, err := build(false).Resume(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "aspirin", final.Compound)
	assert.Equal(t, []string{"design", "admet", "validate"}, final.Visited)

	cps, err = ms.List(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, cps, 3)
}

func TestDrawMermaid(t *testing.T) {
	g := NewStateGraph[pipelineState]()
	g.AddNode("design", "analyze compound", visit("design"))
	g.AddNode("decide", "", visit("decide"))
	g.AddEdge("design", "decide")
	g.AddConditionalEdge("decide", func(context.Context, pipelineState) string { return END })
	g.SetEntryPoint("design")

	out := g.DrawMermaid()
	assert.Contains(t, out, "flowchart TD")
	assert.Contains(t, out, "START --> design")
	assert.Contains(t, out, "design --> decide")
	assert.Contains(t, out, "decide -.->")
	assert.Contains(t, out, "END")
}
