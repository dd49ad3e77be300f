package agent

import (
	"context"
	"fmt"

	"github.com/moleculab/drugflow/chem"
	"github.com/moleculab/drugflow/log"
)

// ADMETAgent screens compounds against drug-likeness and toxicity rules
// using descriptors from PubChem.
type ADMETAgent struct {
	PubChem PropertyLookup
	Logger  log.Logger
}

// NewADMETAgent creates an ADMETAgent.
func NewADMETAgent(pubchem PropertyLookup) *ADMETAgent {
	return &ADMETAgent{PubChem: pubchem}
}

func (a *ADMETAgent) logger() log.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return log.GetDefaultLogger()
}

// Evaluate builds the full ADMET profile for a compound name or CID.
func (a *ADMETAgent) Evaluate(ctx context.Context, compound string) (*chem.Profile, error) {
	props, err := a.PubChem.Properties(ctx, compound)
	if err != nil {
		return nil, fmt.Errorf("admet evaluation of %q failed: %w", compound, err)
	}
	profile := chem.Evaluate(chem.FromProperties(props))
	a.logger().Debug("admet %q: lipinski=%v toxicity=%s", compound, profile.Lipinski, profile.ToxicityClass)
	return &profile, nil
}

// BatchResult summarizes a batch screen.
type BatchResult struct {
	Total    int                     `json:"total"`
	Passed   int                     `json:"passed"`
	Failed   int                     `json:"failed"`
	Profiles map[string]chem.Profile `json:"profiles"`
}

// BatchEvaluate screens several compounds. Lookup failures count as
// failed screens rather than aborting the batch.
func (a *ADMETAgent) BatchEvaluate(ctx context.Context, compounds []string) (*BatchResult, error) {
	result := &BatchResult{
		Total:    len(compounds),
		Profiles: make(map[string]chem.Profile, len(compounds)),
	}
	for _, compound := range compounds {
		profile, err := a.Evaluate(ctx, compound)
		if err != nil {
			a.logger().Warn("skipping %q: %v", compound, err)
			result.Failed++
			continue
		}
		result.Profiles[compound] = *profile
		if profile.Passes() {
			result.Passed++
		} else {
			result.Failed++
		}
	}
	return result, nil
}

// PassRate returns the fraction of compounds that clear the screen.
func (a *ADMETAgent) PassRate(ctx context.Context, compounds []string) (float64, error) {
	if len(compounds) == 0 {
		return 0, nil
	}
	batch, err := a.BatchEvaluate(ctx, compounds)
	if err != nil {
		return 0, err
	}
	return float64(batch.Passed) / float64(batch.Total), nil
}
