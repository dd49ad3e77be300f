package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/moleculab/drugflow/agent"
	"github.com/moleculab/drugflow/graph"
	"github.com/moleculab/drugflow/log"
	"github.com/moleculab/drugflow/network"
	"github.com/moleculab/drugflow/store"
	"github.com/moleculab/drugflow/tool"
)

// PathwayFinder lists disease pathways.
type PathwayFinder interface {
	DiseasePathways(ctx context.Context, disease string) ([]string, error)
}

// ActivityFinder lists compounds with recorded activity against a target.
type ActivityFinder interface {
	CompoundsForTarget(ctx context.Context, target string, limit int) ([]tool.ChEMBLCompound, error)
}

// Candidate is one ranked compound-target pair from a multi-target run.
type Candidate struct {
	Target             string  `json:"target"`
	Compound           string  `json:"compound"`
	ChEMBLID           string  `json:"chembl_id,omitempty"`
	VulnerabilityScore float64 `json:"vulnerability_score"`
	Decision           string  `json:"decision"`
	State              State   `json:"-"`
}

// MultiTargetResult is the outcome of a network-driven run.
type MultiTargetResult struct {
	Disease    string             `json:"disease"`
	RunID      string             `json:"run_id"`
	Pathways   []string           `json:"pathways"`
	Targets    []string           `json:"targets"`
	Scores     map[string]float64 `json:"scores"`
	Candidates []Candidate        `json:"candidates"`
	Network    *network.Network   `json:"-"`
}

// MultiTargetWorkflow drives the network pipeline: disease pathways from
// KEGG, a bipartite disease network, centrality-based target scoring,
// compounds per target from ChEMBL, compound analysis through the graph
// workflow, and a final ranking by network vulnerability.
type MultiTargetWorkflow struct {
	kegg       PathwayFinder
	chembl     ActivityFinder
	discovery  *agent.DiscoveryAgent
	workflow   *Workflow
	controller *agent.ControllerAgent
	candidates store.CandidateStore
	logger     log.Logger

	compoundsPerTarget int
}

// MultiTargetOption configures a MultiTargetWorkflow.
type MultiTargetOption func(*MultiTargetWorkflow)

// WithDiscoveryAgent enables literature-based target discovery when the
// caller provides no target list.
func WithDiscoveryAgent(discovery *agent.DiscoveryAgent) MultiTargetOption {
	return func(m *MultiTargetWorkflow) {
		m.discovery = discovery
	}
}

// WithCandidateStore persists ranked candidates.
func WithCandidateStore(cs store.CandidateStore) MultiTargetOption {
	return func(m *MultiTargetWorkflow) {
		m.candidates = cs
	}
}

// WithController bounds the run with iteration and success goals.
func WithController(controller *agent.ControllerAgent) MultiTargetOption {
	return func(m *MultiTargetWorkflow) {
		m.controller = controller
	}
}

// WithCompoundsPerTarget sets how many compounds to pull per target.
func WithCompoundsPerTarget(n int) MultiTargetOption {
	return func(m *MultiTargetWorkflow) {
		if n > 0 {
			m.compoundsPerTarget = n
		}
	}
}

// WithMultiTargetLogger sets the logger.
func WithMultiTargetLogger(logger log.Logger) MultiTargetOption {
	return func(m *MultiTargetWorkflow) {
		m.logger = logger
	}
}

// NewMultiTargetWorkflow wires the pipeline.
func NewMultiTargetWorkflow(kegg PathwayFinder, chembl ActivityFinder, workflow *Workflow, opts ...MultiTargetOption) *MultiTargetWorkflow {
	m := &MultiTargetWorkflow{
		kegg:               kegg,
		chembl:             chembl,
		workflow:           workflow,
		controller:         agent.NewControllerAgent(agent.DefaultGoals()),
		logger:             log.GetDefaultLogger(),
		compoundsPerTarget: 1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes the pipeline for a disease. targets may be empty, in which
// case they are discovered from literature.
func (m *MultiTargetWorkflow) Run(ctx context.Context, disease string, targets []string) (*MultiTargetResult, error) {
	result := &MultiTargetResult{
		Disease: disease,
		RunID:   graph.NewRunID(),
	}

	pathways, err := m.kegg.DiseasePathways(ctx, disease)
	if err != nil {
		return nil, fmt.Errorf("pathway lookup for %q failed: %w", disease, err)
	}
	if len(pathways) == 0 {
		return nil, fmt.Errorf("no pathways found for %q", disease)
	}
	result.Pathways = pathways
	m.logger.Info("found %d pathways for %q", len(pathways), disease)

	if len(targets) == 0 {
		if m.discovery == nil {
			return nil, fmt.Errorf("no targets given for %q and no discovery agent configured", disease)
		}
		targets, err = m.discovery.DiscoverTargets(ctx, disease, 5)
		if err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			return nil, fmt.Errorf("no targets discovered for %q", disease)
		}
	}
	result.Targets = targets

	result.Network = network.BuildDiseaseNetwork(pathways, targets)
	result.Scores = result.Network.VulnerabilityScores()

	// Most vulnerable targets first.
	ordered := make([]string, len(targets))
	copy(ordered, targets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return result.Scores[ordered[i]] > result.Scores[ordered[j]]
	})

	for _, target := range ordered {
		if !m.controller.ShouldContinue() {
			m.logger.Info("controller stopped the run at target %s", target)
			break
		}
		compounds, err := m.chembl.CompoundsForTarget(ctx, target, m.compoundsPerTarget)
		if err != nil {
			m.logger.Warn("compound lookup for %s failed: %v", target, err)
			continue
		}
		m.logger.Info("found %d compounds for %s", len(compounds), target)

		for _, compound := range compounds {
			m.controller.NextIteration()
			name := compound.PrefName
			if name == "" {
				name = compound.ChEMBLID
			}

			state, err := m.workflow.AnalyzeCompound(ctx, name, target)
			if err != nil {
				m.logger.Warn("analysis of %s failed: %v", name, err)
				m.controller.RecordFailure()
				continue
			}
			if state.FinalDecision == "APPROVED" {
				m.controller.RecordSuccess()
			} else {
				m.controller.RecordFailure()
			}

			result.Candidates = append(result.Candidates, Candidate{
				Target:             target,
				Compound:           name,
				ChEMBLID:           compound.ChEMBLID,
				VulnerabilityScore: result.Scores[target],
				Decision:           state.FinalDecision,
				State:              state,
			})
		}
	}

	// Rank by network vulnerability, then by compound name for stability.
	sort.SliceStable(result.Candidates, func(i, j int) bool {
		if result.Candidates[i].VulnerabilityScore != result.Candidates[j].VulnerabilityScore {
			return result.Candidates[i].VulnerabilityScore > result.Candidates[j].VulnerabilityScore
		}
		return result.Candidates[i].Compound < result.Candidates[j].Compound
	})

	if m.candidates != nil {
		if err := m.saveCandidates(ctx, result); err != nil {
			m.logger.Warn("could not persist candidates: %v", err)
		}
	}
	return result, nil
}

func (m *MultiTargetWorkflow) saveCandidates(ctx context.Context, result *MultiTargetResult) error {
	for _, c := range result.Candidates {
		var profile json.RawMessage
		if c.State.Profile != nil {
			data, err := json.Marshal(c.State.Profile)
			if err != nil {
				return fmt.Errorf("failed to encode profile for %s: %w", c.Compound, err)
			}
			profile = data
		}
		if err := m.candidates.SaveCandidate(ctx, &store.Candidate{
			RunID:    result.RunID,
			Target:   c.Target,
			Compound: c.Compound,
			ChEMBLID: c.ChEMBLID,
			Score:    c.VulnerabilityScore,
			Decision: c.Decision,
			Profile:  profile,
		}); err != nil {
			return fmt.Errorf("failed to save candidate %s: %w", c.Compound, err)
		}
	}
	return nil
}
