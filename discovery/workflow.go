package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/moleculab/drugflow/agent"
	"github.com/moleculab/drugflow/graph"
	"github.com/moleculab/drugflow/log"
	"github.com/moleculab/drugflow/store"
)

// Node names of the compound analysis graph.
const (
	nodeInitialize = "initialize"
	nodeDesign     = "design"
	nodeADMET      = "admet"
	nodeValidate   = "validate"
	nodeDecide     = "decide"
)

// Workflow runs compounds through design, ADMET screening, validation and
// approval as a state graph with conditional routing. Each node records
// its reasoning in the state's trace.
type Workflow struct {
	design     *agent.DesignAgent
	admet      *agent.ADMETAgent
	validation *agent.ValidationAgent
	approval   *agent.ApprovalAgent

	runnable *graph.Runnable[State]
	logger   log.Logger

	maxIterations   int
	targetSuccesses int
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithCheckpointStore persists state after every node, enabling Resume.
func WithCheckpointStore(cs store.CheckpointStore) WorkflowOption {
	return func(w *Workflow) {
		w.runnable.SetCheckpointStore(cs)
	}
}

// WithLogger sets the workflow logger.
func WithLogger(logger log.Logger) WorkflowOption {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// WithIterationLimits sets how many loop iterations to allow and how many
// successes end the run early.
func WithIterationLimits(maxIterations, targetSuccesses int) WorkflowOption {
	return func(w *Workflow) {
		if maxIterations > 0 {
			w.maxIterations = maxIterations
		}
		if targetSuccesses > 0 {
			w.targetSuccesses = targetSuccesses
		}
	}
}

// NewWorkflow builds and compiles the compound analysis graph.
func NewWorkflow(design *agent.DesignAgent, admet *agent.ADMETAgent, validation *agent.ValidationAgent, approval *agent.ApprovalAgent, opts ...WorkflowOption) (*Workflow, error) {
	w := &Workflow{
		design:          design,
		admet:           admet,
		validation:      validation,
		approval:        approval,
		logger:          log.GetDefaultLogger(),
		maxIterations:   3,
		targetSuccesses: 1,
	}

	g := graph.NewStateGraph[State]()
	g.AddNode(nodeInitialize, "set up the iteration", w.initializeNode)
	g.AddNode(nodeDesign, "analyze compound structure and properties", w.designNode)
	g.AddNode(nodeADMET, "screen drug-likeness and toxicity", w.admetNode)
	g.AddNode(nodeValidate, "combine results and assess the candidate", w.validateNode)
	g.AddNode(nodeDecide, "stop or run another iteration", w.decideNode)

	g.SetEntryPoint(nodeInitialize)
	g.AddEdge(nodeInitialize, nodeDesign)
	g.AddConditionalEdge(nodeDesign, func(_ context.Context, s State) string {
		return s.NextAction
	})
	g.AddConditionalEdge(nodeADMET, func(_ context.Context, s State) string {
		return s.NextAction
	})
	g.AddEdge(nodeValidate, nodeDecide)
	g.AddConditionalEdge(nodeDecide, func(_ context.Context, s State) string {
		if s.NextAction == "continue" {
			return nodeInitialize
		}
		return graph.END
	})

	runnable, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile workflow graph: %w", err)
	}
	w.runnable = runnable

	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// AnalyzeCompound runs the full graph for one compound and returns the
// final state.
func (w *Workflow) AnalyzeCompound(ctx context.Context, compound, target string) (State, error) {
	return w.runnable.Invoke(ctx, w.initialState(compound, target))
}

// AnalyzeCompoundWithRun runs under a caller-chosen run ID so the run can
// later be resumed.
func (w *Workflow) AnalyzeCompoundWithRun(ctx context.Context, compound, target, runID string) (State, error) {
	return w.runnable.InvokeWithRun(ctx, w.initialState(compound, target), runID)
}

// Stream runs the graph and emits the state after every node.
func (w *Workflow) Stream(ctx context.Context, compound, target string) <-chan graph.Step[State] {
	return w.runnable.Stream(ctx, w.initialState(compound, target))
}

// Resume continues an interrupted run from its latest checkpoint.
func (w *Workflow) Resume(ctx context.Context, runID string) (State, error) {
	return w.runnable.Resume(ctx, runID)
}

func (w *Workflow) initialState(compound, target string) State {
	return State{
		Compound:        compound,
		Target:          target,
		CurrentStep:     "start",
		NextAction:      nodeDesign,
		MaxIterations:   w.maxIterations,
		TargetSuccesses: w.targetSuccesses,
	}
}

func (w *Workflow) initializeNode(_ context.Context, s State) (State, error) {
	s.Iteration++
	s = s.trace(Thought, "analyzing %s, starting with design and property evaluation", s.Compound)
	s.CurrentStep = nodeInitialize
	s.NextAction = nodeDesign
	return s, nil
}

func (w *Workflow) designNode(ctx context.Context, s State) (State, error) {
	s = s.trace(Thought, "checking molecular properties and drug-likeness of %s", s.Compound)
	s = s.trace(Action, "design analysis of %s", s.Compound)

	analysis, err := w.design.Analyze(ctx, s.Compound)
	s.Analysis = analysis
	s.CurrentStep = nodeDesign

	if err != nil {
		s = s.trace(Observation, "design analysis failed: %v", err)
		s = s.trace(Reflection, "design inconclusive, moving to validation with what we have")
		s.NextAction = nodeValidate
		return s, nil
	}

	s.Profile = analysis.Profile
	s = s.trace(Observation, "design analysis complete, status %s", analysis.Status)
	s = s.trace(Reflection, "design looks promising, proceeding to ADMET evaluation")
	s.NextAction = nodeADMET
	return s, nil
}

func (w *Workflow) admetNode(ctx context.Context, s State) (State, error) {
	s = s.trace(Thought, "evaluating ADMET properties for %s", s.Compound)
	s = s.trace(Action, "admet screen of %s", s.Compound)

	profile, err := w.admet.Evaluate(ctx, s.Compound)
	s.CurrentStep = nodeADMET

	if err != nil {
		s.FailureCount++
		s = s.trace(Observation, "admet screen failed: %v", err)
		s = s.trace(Reflection, "cannot establish drug-likeness, rejecting")
		s.NextAction = nodeDecide
		return s, nil
	}

	s.Profile = profile
	if profile.Passes() {
		s.SuccessCount++
		s = s.trace(Observation, "admet screen passed: %s, %s", profile.ToxicityClass, profile.SolubilityClass)
		s = s.trace(Reflection, "properties acceptable, compound is viable for validation")
		s.NextAction = nodeValidate
	} else {
		s.FailureCount++
		s = s.trace(Observation, "admet screen failed: %d Lipinski violations, %s",
			len(profile.LipinskiViolations), profile.ToxicityClass)
		s = s.trace(Reflection, "properties inadequate, compound rejected")
		s.NextAction = nodeDecide
	}
	return s, nil
}

func (w *Workflow) validateNode(ctx context.Context, s State) (State, error) {
	s = s.trace(Thought, "combining design and ADMET outcomes for %s", s.Compound)
	s.CurrentStep = nodeValidate
	s.NextAction = nodeDecide

	designOK := s.Analysis != nil && s.Analysis.Status == "completed"
	admetOK := s.Profile != nil && s.Profile.Passes()

	if !designOK || !admetOK {
		s.Failed = append(s.Failed, s.Compound)
		s.FinalDecision = "REJECTED"
		s.Confidence = 0.8
		s = s.trace(Reflection, "%s failed validation", s.Compound)
		return s, nil
	}

	validation, err := w.validation.Run(ctx, s.Compound, *s.Profile)
	if err != nil {
		return s, fmt.Errorf("validation of %s failed: %w", s.Compound, err)
	}
	s.Validation = validation
	s = s.trace(Observation, "validation: %s", validation.LabResult)

	approval, err := w.approval.Run(ctx, s.Compound, s.Target, *s.Profile, validation)
	if err != nil {
		return s, fmt.Errorf("approval of %s failed: %w", s.Compound, err)
	}
	s.Approval = approval

	if approval.Decision == agent.Reject {
		s.Failed = append(s.Failed, s.Compound)
		s.FinalDecision = "REJECTED"
		s.Confidence = 0.8
		s = s.trace(Reflection, "%s rejected at approval", s.Compound)
	} else {
		s.Succeeded = append(s.Succeeded, s.Compound)
		s.FinalDecision = "APPROVED"
		s.Confidence = 0.9
		s = s.trace(Reflection, "%s validated successfully", s.Compound)
	}
	return s, nil
}

func (w *Workflow) decideNode(_ context.Context, s State) (State, error) {
	s.CurrentStep = nodeDecide
	s = s.trace(Thought, "status: %d/%d successes, iteration %d/%d",
		s.SuccessCount, s.TargetSuccesses, s.Iteration, s.MaxIterations)

	switch {
	case s.SuccessCount >= s.TargetSuccesses:
		s = s.trace(Reflection, "target reached with %d successful compounds", s.SuccessCount)
		s.NextAction = "end"
	case s.Iteration >= s.MaxIterations:
		s = s.trace(Reflection, "iteration limit reached with %d successes", s.SuccessCount)
		s.NextAction = "end"
	default:
		s = s.trace(Reflection, "continuing search, %d more needed", s.TargetSuccesses-s.SuccessCount)
		s.NextAction = "continue"
	}

	w.logger.Info("decision for %s: %s (successes %d, iteration %d)",
		s.Compound, s.NextAction, s.SuccessCount, s.Iteration)
	return s, nil
}

// DrawMermaid renders the workflow graph for documentation.
func (w *Workflow) DrawMermaid() string {
	g := graph.NewStateGraph[State]()
	g.AddNode(nodeInitialize, "set up the iteration", nil)
	g.AddNode(nodeDesign, "analyze compound structure and properties", nil)
	g.AddNode(nodeADMET, "screen drug-likeness and toxicity", nil)
	g.AddNode(nodeValidate, "combine results and assess the candidate", nil)
	g.AddNode(nodeDecide, "stop or run another iteration", nil)
	g.SetEntryPoint(nodeInitialize)
	g.AddEdge(nodeInitialize, nodeDesign)
	g.AddConditionalEdge(nodeDesign, nil)
	g.AddConditionalEdge(nodeADMET, nil)
	g.AddEdge(nodeValidate, nodeDecide)
	g.AddConditionalEdge(nodeDecide, nil)
	return g.DrawMermaid()
}

// ExportJSON writes the final state, including the reasoning trace, to a
// JSON file.
func ExportJSON(s State, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
