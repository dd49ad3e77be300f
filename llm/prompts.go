package llm

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a medicinal chemistry assistant. Answer concisely " +
	"with concrete observations about the compound data provided. Do not invent " +
	"experimental results."

// CompoundInput carries the compound facts a prompt is built from.
type CompoundInput struct {
	Name            string
	Formula         string
	MolecularWeight float64
	SMILES          string
	Target          string
	ADMETSummary    string
}

// CompoundPrompt builds a summarization prompt for one compound.
func CompoundPrompt(in CompoundInput) string {
	var b strings.Builder
	b.WriteString("Summarize the drug-likeness of the following compound in a short paragraph.\n")
	fmt.Fprintf(&b, "Compound: %s\n", in.Name)
	if in.Formula != "" {
		fmt.Fprintf(&b, "Formula: %s\n", in.Formula)
	}
	if in.MolecularWeight > 0 {
		fmt.Fprintf(&b, "Molecular weight: %.2f\n", in.MolecularWeight)
	}
	if in.SMILES != "" {
		fmt.Fprintf(&b, "SMILES: %s\n", in.SMILES)
	}
	if in.Target != "" {
		fmt.Fprintf(&b, "Intended target: %s\n", in.Target)
	}
	if in.ADMETSummary != "" {
		fmt.Fprintf(&b, "ADMET evaluation: %s\n", in.ADMETSummary)
	}
	return b.String()
}

// LiteraturePrompt builds a prompt asking for candidate targets from
// abstracts.
func LiteraturePrompt(disease, abstracts string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following PubMed abstracts concern %s. ", disease)
	b.WriteString("Name the most promising protein targets they discuss and why, in at most five bullet points.\n\n")
	b.WriteString(abstracts)
	return b.String()
}

// ApprovalPrompt builds a prompt assessing regulatory outlook for a
// candidate.
func ApprovalPrompt(compound, target, validationSummary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assess the development outlook for %s against target %s.\n", compound, target)
	if validationSummary != "" {
		fmt.Fprintf(&b, "Validation so far: %s\n", validationSummary)
	}
	b.WriteString("Cover the main preclinical risks and what evidence an IND filing would need.")
	return b.String()
}
