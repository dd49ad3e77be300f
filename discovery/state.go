// Package discovery wires the agents into executable workflows: a
// compound analysis graph with reasoning traces and checkpointing, and a
// network-driven multi-target pipeline.
package discovery

import (
	"fmt"
	"time"

	"github.com/moleculab/drugflow/agent"
	"github.com/moleculab/drugflow/chem"
)

// TraceKind labels an entry in the reasoning trace.
type TraceKind string

const (
	Thought     TraceKind = "thought"
	Action      TraceKind = "action"
	Observation TraceKind = "observation"
	Reflection  TraceKind = "reflection"
)

// TraceEntry is one step of the workflow's reasoning trace.
type TraceEntry struct {
	Kind TraceKind `json:"kind"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// State is the workflow state passed between graph nodes. It must stay
// JSON-serializable for checkpointing.
type State struct {
	Compound string `json:"compound"`
	Target   string `json:"target,omitempty"`

	Trace []TraceEntry `json:"trace"`

	Analysis   *agent.Analysis         `json:"analysis,omitempty"`
	Profile    *chem.Profile           `json:"profile,omitempty"`
	Validation *agent.ValidationResult `json:"validation,omitempty"`
	Approval   *agent.ApprovalResult   `json:"approval,omitempty"`

	CurrentStep string `json:"current_step"`
	NextAction  string `json:"next_action"`

	Iteration       int `json:"iteration"`
	SuccessCount    int `json:"success_count"`
	FailureCount    int `json:"failure_count"`
	MaxIterations   int `json:"max_iterations"`
	TargetSuccesses int `json:"target_successes"`

	Succeeded []string `json:"succeeded,omitempty"`
	Failed    []string `json:"failed,omitempty"`

	FinalDecision string  `json:"final_decision,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
}

func (s State) trace(kind TraceKind, format string, v ...any) State {
	s.Trace = append(s.Trace, TraceEntry{
		Kind: kind,
		Text: fmt.Sprintf(format, v...),
		At:   time.Now(),
	})
	return s
}

// ReasoningTrace returns the trace texts in order, prefixed by kind.
func (s State) ReasoningTrace() []string {
	out := make([]string, 0, len(s.Trace))
	for _, entry := range s.Trace {
		out = append(out, fmt.Sprintf("%s: %s", entry.Kind, entry.Text))
	}
	return out
}
