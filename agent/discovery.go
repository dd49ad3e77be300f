package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/moleculab/drugflow/llm"
	"github.com/moleculab/drugflow/log"
	"github.com/moleculab/drugflow/tool"
)

// DiscoveryResult is what the DiscoveryAgent learns about a query.
type DiscoveryResult struct {
	Query      string                   `json:"query"`
	Literature []string                 `json:"literature"`
	Compound   *tool.CompoundProperties `json:"compound,omitempty"`
	Structure  bool                     `json:"structure_available"`
	Summary    string                   `json:"summary,omitempty"`
}

// DiscoveryAgent gathers literature, compound data and structure
// availability for a query, then asks the model for a summary. Queries
// that resolve in PubChem are treated as compounds; everything else is
// treated as a protein or gene target.
type DiscoveryAgent struct {
	PubMed     LiteratureSearcher
	PubChem    PropertyLookup
	AlphaFold  StructureFetcher
	Summarizer llm.Summarizer
	Logger     log.Logger
}

// NewDiscoveryAgent wires a DiscoveryAgent from concrete clients.
func NewDiscoveryAgent(pubmed LiteratureSearcher, pubchem PropertyLookup, alphafold StructureFetcher, summarizer llm.Summarizer) *DiscoveryAgent {
	return &DiscoveryAgent{
		PubMed:     pubmed,
		PubChem:    pubchem,
		AlphaFold:  alphafold,
		Summarizer: summarizer,
	}
}

func (a *DiscoveryAgent) logger() log.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return log.GetDefaultLogger()
}

// Run collects everything available for the query. Individual source
// failures degrade the result rather than failing it; only a fully empty
// result is an error.
func (a *DiscoveryAgent) Run(ctx context.Context, query string) (*DiscoveryResult, error) {
	result := &DiscoveryResult{Query: query}

	if a.PubMed != nil {
		pmids, err := a.PubMed.Search(ctx, query)
		if err != nil {
			a.logger().Warn("literature search for %q failed: %v", query, err)
		} else {
			result.Literature = pmids
		}
	}

	if a.PubChem != nil {
		props, err := a.PubChem.Properties(ctx, query)
		if err != nil {
			a.logger().Debug("no pubchem record for %q: %v", query, err)
		} else {
			result.Compound = props
		}
	}

	if a.AlphaFold != nil && result.Compound == nil {
		if _, err := a.AlphaFold.Structure(ctx, query); err == nil {
			result.Structure = true
		}
	}

	if result.Literature == nil && result.Compound == nil && !result.Structure {
		return nil, fmt.Errorf("nothing found for %q", query)
	}

	if a.Summarizer != nil {
		summary, err := a.Summarizer.Summarize(ctx, a.prompt(result))
		if err != nil {
			a.logger().Warn("summary for %q failed: %v", query, err)
		} else {
			result.Summary = summary
		}
	}
	return result, nil
}

// DiscoverTargets extracts candidate gene targets for a disease from
// recent literature.
func (a *DiscoveryAgent) DiscoverTargets(ctx context.Context, disease string, topN int) ([]string, error) {
	pmids, err := a.PubMed.Search(ctx, disease)
	if err != nil {
		return nil, fmt.Errorf("target discovery for %q failed: %w", disease, err)
	}
	if len(pmids) == 0 {
		return nil, nil
	}

	abstracts, err := a.PubMed.FetchAbstracts(ctx, pmids)
	if err != nil {
		return nil, fmt.Errorf("target discovery for %q failed: %w", disease, err)
	}

	targets := tool.ExtractTargets(abstracts, topN)
	a.logger().Info("extracted %d candidate targets for %q", len(targets), disease)
	return targets, nil
}

func (a *DiscoveryAgent) prompt(result *DiscoveryResult) string {
	if result.Compound != nil {
		return llm.CompoundPrompt(llm.CompoundInput{
			Name:            result.Query,
			Formula:         result.Compound.MolecularFormula,
			MolecularWeight: float64(result.Compound.MolecularWeight),
			SMILES:          result.Compound.CanonicalSMILES,
		})
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize what is known about the target %s.\n", result.Query)
	if len(result.Literature) > 0 {
		fmt.Fprintf(&b, "Relevant PubMed IDs: %s\n", strings.Join(result.Literature, ", "))
	}
	if result.Structure {
		b.WriteString("An AlphaFold structure prediction is available.\n")
	}
	return b.String()
}
