package agent

import (
	"context"
	"fmt"

	"github.com/moleculab/drugflow/chem"
	"github.com/moleculab/drugflow/llm"
)

// Decision is the approval agent's verdict on a candidate.
type Decision string

const (
	Approve Decision = "approve"
	Review  Decision = "review"
	Reject  Decision = "reject"
)

// ApprovalResult is the regulatory-style assessment of a candidate.
type ApprovalResult struct {
	Compound string   `json:"compound"`
	Decision Decision `json:"decision"`
	Report   string   `json:"report"`
	Summary  string   `json:"summary,omitempty"`
}

// ApprovalAgent makes the final call on validated candidates. Candidates
// that pass validation cleanly are approved; marginal profiles go to
// review; the rest are rejected.
type ApprovalAgent struct {
	Summarizer llm.Summarizer
}

// NewApprovalAgent creates an ApprovalAgent.
func NewApprovalAgent(summarizer llm.Summarizer) *ApprovalAgent {
	return &ApprovalAgent{Summarizer: summarizer}
}

// Run decides on a candidate given its profile and validation outcome.
func (a *ApprovalAgent) Run(ctx context.Context, compound, target string, profile chem.Profile, validation *ValidationResult) (*ApprovalResult, error) {
	result := &ApprovalResult{Compound: compound}

	switch {
	case validation.ClinicalReady && profile.BioavailabilityScore >= 0.8:
		result.Decision = Approve
		result.Report = fmt.Sprintf("%s cleared validation with bioavailability %.1f; recommend preclinical advancement",
			compound, profile.BioavailabilityScore)
	case profile.Passes():
		result.Decision = Review
		result.Report = fmt.Sprintf("%s is drug-like but validation flagged: %s", compound, validation.LabResult)
	default:
		result.Decision = Reject
		result.Report = fmt.Sprintf("%s rejected: %s", compound, validation.LabResult)
	}

	if a.Summarizer != nil {
		summary, err := a.Summarizer.Summarize(ctx, llm.ApprovalPrompt(compound, target, validation.LabResult))
		if err == nil {
			result.Summary = summary
		}
	}
	return result, nil
}
