// Package report renders discovery runs as Markdown and sanitized HTML.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"github.com/moleculab/drugflow/discovery"
)

// FromState builds a Markdown report for a single compound run.
func FromState(s discovery.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Compound Analysis: %s\n\n", s.Compound)
	if s.Target != "" {
		fmt.Fprintf(&b, "Target: **%s**\n\n", s.Target)
	}
	if s.FinalDecision != "" {
		fmt.Fprintf(&b, "Decision: **%s** (confidence %.1f)\n\n", s.FinalDecision, s.Confidence)
	}
	fmt.Fprintf(&b, "Iterations: %d, successes: %d, failures: %d\n\n",
		s.Iteration, s.SuccessCount, s.FailureCount)

	if s.Profile != nil {
		p := s.Profile
		b.WriteString("## ADMET Profile\n\n")
		b.WriteString("| Property | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Molecular weight | %.2f |\n", p.Descriptors.MolecularWeight)
		fmt.Fprintf(&b, "| LogP | %.2f |\n", p.Descriptors.LogP)
		fmt.Fprintf(&b, "| TPSA | %.2f |\n", p.Descriptors.TPSA)
		fmt.Fprintf(&b, "| H-bond donors | %d |\n", p.Descriptors.HBondDonors)
		fmt.Fprintf(&b, "| H-bond acceptors | %d |\n", p.Descriptors.HBondAcceptors)
		fmt.Fprintf(&b, "| Rotatable bonds | %d |\n", p.Descriptors.RotatableBonds)
		fmt.Fprintf(&b, "| Lipinski | %s |\n", passFail(p.Lipinski))
		fmt.Fprintf(&b, "| Veber | %s |\n", passFail(p.Veber))
		fmt.Fprintf(&b, "| Bioavailability score | %.2f |\n", p.BioavailabilityScore)
		fmt.Fprintf(&b, "| Toxicity | %.2f (%s) |\n", p.ToxicityRisk, p.ToxicityClass)
		fmt.Fprintf(&b, "| Solubility | LogS %.2f (%s) |\n", p.LogS, p.SolubilityClass)
		b.WriteString("\n")
		for _, v := range p.LipinskiViolations {
			fmt.Fprintf(&b, "- %s\n", v)
		}
		if len(p.LipinskiViolations) > 0 {
			b.WriteString("\n")
		}
	}

	if s.Analysis != nil && s.Analysis.Summary != "" {
		b.WriteString("## Design Summary\n\n")
		b.WriteString(s.Analysis.Summary)
		b.WriteString("\n\n")
	}
	if s.Validation != nil {
		b.WriteString("## Validation\n\n")
		fmt.Fprintf(&b, "Lab result: %s\n\n", s.Validation.LabResult)
		fmt.Fprintf(&b, "Clinical ready: %v\n\n", s.Validation.ClinicalReady)
	}
	if s.Approval != nil && s.Approval.Report != "" {
		b.WriteString("## Approval\n\n")
		b.WriteString(s.Approval.Report)
		b.WriteString("\n\n")
	}

	if len(s.Trace) > 0 {
		b.WriteString("## Reasoning Trace\n\n")
		for _, line := range s.ReasoningTrace() {
			fmt.Fprintf(&b, "1. %s\n", line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FromMultiTarget builds a Markdown report for a network-driven run.
func FromMultiTarget(r *discovery.MultiTargetResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Multi-Target Discovery: %s\n\n", r.Disease)
	fmt.Fprintf(&b, "Run: `%s`\n\n", r.RunID)

	if len(r.Pathways) > 0 {
		b.WriteString("## Disease Pathways\n\n")
		for _, p := range r.Pathways {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	if len(r.Targets) > 0 {
		b.WriteString("## Target Vulnerability\n\n")
		b.WriteString("| Target | Score |\n|---|---|\n")
		for _, t := range r.Targets {
			fmt.Fprintf(&b, "| %s | %.3f |\n", t, r.Scores[t])
		}
		b.WriteString("\n")
	}

	if len(r.Candidates) > 0 {
		b.WriteString("## Ranked Candidates\n\n")
		b.WriteString("| Rank | Compound | Target | ChEMBL ID | Score | Decision |\n|---|---|---|---|---|---|\n")
		for i, c := range r.Candidates {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %.3f | %s |\n",
				i+1, c.Compound, c.Target, c.ChEMBLID, c.VulnerabilityScore, c.Decision)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ToHTML renders Markdown as sanitized HTML.
func ToHTML(md string) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	opts := html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank}
	renderer := html.NewRenderer(opts)
	out := markdown.Render(doc, renderer)

	return bluemonday.UGCPolicy().SanitizeBytes(out)
}

// SaveHTML writes the Markdown rendered to HTML at path, creating parent
// directories as needed.
func SaveHTML(path, md string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, ToHTML(md), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func passFail(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}
