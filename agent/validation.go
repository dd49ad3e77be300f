package agent

import (
	"context"
	"fmt"

	"github.com/moleculab/drugflow/chem"
	"github.com/moleculab/drugflow/llm"
)

// ValidationResult holds the preclinical assessment of a candidate.
type ValidationResult struct {
	Compound      string `json:"compound"`
	LabResult     string `json:"lab_result"`
	ClinicalReady bool   `json:"clinical_ready"`
	Summary       string `json:"summary,omitempty"`
}

// ValidationAgent assesses whether a candidate's profile supports moving
// into preclinical work. Solubility and toxicity drive the lab verdict;
// full rule compliance drives clinical readiness.
type ValidationAgent struct {
	Summarizer llm.Summarizer
}

// NewValidationAgent creates a ValidationAgent.
func NewValidationAgent(summarizer llm.Summarizer) *ValidationAgent {
	return &ValidationAgent{Summarizer: summarizer}
}

// Run validates one candidate from its ADMET profile.
func (a *ValidationAgent) Run(ctx context.Context, compound string, profile chem.Profile) (*ValidationResult, error) {
	result := &ValidationResult{
		Compound:      compound,
		LabResult:     labVerdict(profile),
		ClinicalReady: profile.Lipinski && profile.Veber && profile.ToxicityRisk < 0.3,
	}

	if a.Summarizer != nil {
		summary, err := a.Summarizer.Summarize(ctx, llm.CompoundPrompt(llm.CompoundInput{
			Name:         compound,
			ADMETSummary: fmt.Sprintf("%s; clinical ready: %v", result.LabResult, result.ClinicalReady),
		}))
		if err == nil {
			result.Summary = summary
		}
	}
	return result, nil
}

func labVerdict(p chem.Profile) string {
	switch {
	case p.ToxicityClass == "high risk":
		return fmt.Sprintf("fail: %s, %s", p.ToxicityClass, p.SolubilityClass)
	case p.SolubilityClass == "insoluble":
		return "fail: insufficient solubility for assay"
	case !p.Lipinski:
		return fmt.Sprintf("marginal: %d Lipinski violations", len(p.LipinskiViolations))
	default:
		return fmt.Sprintf("pass: %s, %s", p.ToxicityClass, p.SolubilityClass)
	}
}
