package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moleculab/drugflow/chem"
	"github.com/moleculab/drugflow/llm"
	"github.com/moleculab/drugflow/tool"
)

// fakePubChem serves canned properties keyed by compound name.
type fakePubChem struct {
	compounds map[string]*tool.CompoundProperties
}

func (f *fakePubChem) Properties(_ context.Context, compound string) (*tool.CompoundProperties, error) {
	props, ok := f.compounds[compound]
	if !ok {
		return nil, errors.New("not found")
	}
	return props, nil
}

type fakePubMed struct {
	pmids     []string
	abstracts string
	err       error
}

func (f *fakePubMed) Search(_ context.Context, _ string) ([]string, error) {
	return f.pmids, f.err
}

func (f *fakePubMed) FetchAbstracts(_ context.Context, _ []string) (string, error) {
	return f.abstracts, f.err
}

type fakeAlphaFold struct {
	pdb string
	err error
}

func (f *fakeAlphaFold) Structure(_ context.Context, _ string) (string, error) {
	return f.pdb, f.err
}

func aspirinProps() *tool.CompoundProperties {
	return &tool.CompoundProperties{
		CID:                2244,
		MolecularWeight:    180.16,
		MolecularFormula:   "C9H8O4",
		IUPACName:          "2-acetyloxybenzoic acid",
		CanonicalSMILES:    "CC(=O)OC1=CC=CC=C1C(=O)O",
		XLogP:              1.2,
		TPSA:               63.6,
		HBondDonorCount:    1,
		HBondAcceptorCount: 4,
		RotatableBondCount: 3,
	}
}

func greaseballProps() *tool.CompoundProperties {
	return &tool.CompoundProperties{
		CID:                999,
		MolecularWeight:    812,
		XLogP:              7.4,
		TPSA:               190,
		HBondDonorCount:    7,
		HBondAcceptorCount: 14,
		RotatableBondCount: 15,
	}
}

func TestDiscoveryAgentRunCompound(t *testing.T) {
	agent := NewDiscoveryAgent(
		&fakePubMed{pmids: []string{"123"}},
		&fakePubChem{compounds: map[string]*tool.CompoundProperties{"aspirin": aspirinProps()}},
		&fakeAlphaFold{err: errors.New("no structure")},
		llm.Static("a well-known NSAID"),
	)

	result, err := agent.Run(context.Background(), "aspirin")
	require.NoError(t, err)
	assert.Equal(t, []string{"123"}, result.Literature)
	require.NotNil(t, result.Compound)
	assert.Equal(t, 2244, result.Compound.CID)
	assert.False(t, result.Structure)
	assert.Equal(t, "a well-known NSAID", result.Summary)
}

func TestDiscoveryAgentRunTarget(t *testing.T) {
	agent := NewDiscoveryAgent(
		&fakePubMed{pmids: []string{"456"}},
		&fakePubChem{compounds: map[string]*tool.CompoundProperties{}},
		&fakeAlphaFold{pdb: "HEADER"},
		llm.Static("kinase target"),
	)

	result, err := agent.Run(context.Background(), "P00533")
	require.NoError(t, err)
	assert.Nil(t, result.Compound)
	assert.True(t, result.Structure)
}

func TestDiscoveryAgentRunNothingFound(t *testing.T) {
	agent := NewDiscoveryAgent(
		&fakePubMed{err: errors.New("down")},
		&fakePubChem{compounds: map[string]*tool.CompoundProperties{}},
		&fakeAlphaFold{err: errors.New("no structure")},
		nil,
	)

	_, err := agent.Run(context.Background(), "mystery")
	require.Error(t, err)
}

func TestDiscoverTargets(t *testing.T) {
	agent := NewDiscoveryAgent(
		&fakePubMed{
			pmids:     []string{"1", "2"},
			abstracts: "SNCA aggregation in Parkinson disease. SNCA and LRRK2 variants. LRRK2 kinase. SNCA again.",
		},
		nil, nil, nil,
	)

	targets, err := agent.DiscoverTargets(context.Background(), "Parkinson disease", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"SNCA", "LRRK2"}, targets)
}

func TestADMETAgentEvaluate(t *testing.T) {
	agent := NewADMETAgent(&fakePubChem{compounds: map[string]*tool.CompoundProperties{
		"aspirin": aspirinProps(),
	}})

	profile, err := agent.Evaluate(context.Background(), "aspirin")
	require.NoError(t, err)
	assert.True(t, profile.Lipinski)
	assert.True(t, profile.Passes())

	_, err = agent.Evaluate(context.Background(), "unknown")
	require.Error(t, err)
}

func TestADMETAgentBatchEvaluate(t *testing.T) {
	agent := NewADMETAgent(&fakePubChem{compounds: map[string]*tool.CompoundProperties{
		"aspirin":    aspirinProps(),
		"greaseball": greaseballProps(),
	}})

	batch, err := agent.BatchEvaluate(context.Background(), []string{"aspirin", "greaseball", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 3, batch.Total)
	assert.Equal(t, 1, batch.Passed)
	assert.Equal(t, 2, batch.Failed)
	assert.Len(t, batch.Profiles, 2)

	rate, err := agent.PassRate(context.Background(), []string{"aspirin", "greaseball"})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rate, 0.001)
}

func TestDesignAgentAnalyze(t *testing.T) {
	agent := NewDesignAgent(
		&fakePubChem{compounds: map[string]*tool.CompoundProperties{"aspirin": aspirinProps()}},
		llm.Static("looks drug-like"),
		"",
	)

	analysis, err := agent.Analyze(context.Background(), "aspirin")
	require.NoError(t, err)
	assert.Equal(t, "completed", analysis.Status)
	assert.Equal(t, 2244, analysis.CID)
	require.NotNil(t, analysis.Profile)
	assert.True(t, analysis.Profile.Lipinski)
	assert.Greater(t, analysis.BindingScore, 0.0)
	assert.Equal(t, "looks drug-like", analysis.Summary)

	found, ok := agent.SearchAnalyzed("aspirin")
	require.True(t, ok)
	assert.Equal(t, analysis.CID, found.CID)
}

func TestDesignAgentAnalyzeFailureRecorded(t *testing.T) {
	agent := NewDesignAgent(&fakePubChem{compounds: map[string]*tool.CompoundProperties{}}, nil, "")

	analysis, err := agent.Analyze(context.Background(), "unknown")
	require.Error(t, err)
	assert.Equal(t, "error", analysis.Status)
	assert.Equal(t, 1, agent.Stats().TotalAnalyzed)
}

func TestDesignAgentAnalyzeTargetCompounds(t *testing.T) {
	agent := NewDesignAgent(
		&fakePubChem{compounds: map[string]*tool.CompoundProperties{
			"2-acetyloxybenzoic acid": aspirinProps(),
		}},
		nil, "",
	)

	analyses, err := agent.AnalyzeTargetCompounds(context.Background(), []tool.TargetCompound{
		{CID: 2244, IUPACName: "2-acetyloxybenzoic acid"},
		{CID: 1, IUPACName: "missing compound"},
	})
	require.NoError(t, err)
	require.Len(t, analyses, 1)
	assert.Equal(t, 2244, analyses[0].CID)
}

func TestDesignAgentMemoryPersistence(t *testing.T) {
	path := t.TempDir() + "/memory.json"
	pubchem := &fakePubChem{compounds: map[string]*tool.CompoundProperties{"aspirin": aspirinProps()}}

	agent := NewDesignAgent(pubchem, nil, path)
	_, err := agent.Analyze(context.Background(), "aspirin")
	require.NoError(t, err)
	agent.LogSuccess("aspirin", 0.9)
	agent.LogFailure("greaseball", "toxicity")
	require.NoError(t, agent.SaveMemory())

	reloaded := NewDesignAgent(pubchem, nil, path)
	stats := reloaded.Stats()
	assert.Equal(t, 1, stats.TotalAnalyzed)
	assert.Equal(t, 1, stats.TotalSuccesses)
	assert.Equal(t, 1, stats.TotalFailures)
	assert.InDelta(t, 0.5, stats.SuccessRate, 0.001)
	assert.Equal(t, map[string]int{"toxicity": 1}, reloaded.FailureReasons())
}

func TestDesignAgentTopSuccesses(t *testing.T) {
	agent := NewDesignAgent(nil, nil, "")
	agent.LogSuccess("a", 0.3)
	agent.LogSuccess("b", 0.9)
	agent.LogSuccess("c", 0.6)

	top := agent.TopSuccesses(2)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].Compound)
	assert.Equal(t, "c", top[1].Compound)
}

func TestValidationAgent(t *testing.T) {
	clean := chem.Evaluate(chem.Descriptors{
		MolecularWeight: 180, LogP: 1.2, TPSA: 64,
		HBondDonors: 1, HBondAcceptors: 4, RotatableBonds: 3, AromaticRings: 1,
	})
	toxic := chem.Evaluate(chem.Descriptors{
		MolecularWeight: 812, LogP: 7.4, TPSA: 190,
		HBondDonors: 7, HBondAcceptors: 14, RotatableBonds: 15, AromaticRings: 5,
	})

	agent := NewValidationAgent(llm.Static("validated"))

	result, err := agent.Run(context.Background(), "aspirin", clean)
	require.NoError(t, err)
	assert.True(t, result.ClinicalReady)
	assert.Contains(t, result.LabResult, "pass")
	assert.Equal(t, "validated", result.Summary)

	result, err = agent.Run(context.Background(), "greaseball", toxic)
	require.NoError(t, err)
	assert.False(t, result.ClinicalReady)
	assert.Contains(t, result.LabResult, "fail")
}

func TestApprovalAgent(t *testing.T) {
	clean := chem.Evaluate(chem.Descriptors{
		MolecularWeight: 180, LogP: 1.2, TPSA: 64,
		HBondDonors: 1, HBondAcceptors: 4, RotatableBonds: 3, AromaticRings: 1,
	})
	toxic := chem.Evaluate(chem.Descriptors{
		MolecularWeight: 812, LogP: 7.4, TPSA: 190,
		HBondDonors: 7, HBondAcceptors: 14, RotatableBonds: 15, AromaticRings: 5,
	})

	validation := NewValidationAgent(nil)
	approval := NewApprovalAgent(nil)
	ctx := context.Background()

	v, err := validation.Run(ctx, "aspirin", clean)
	require.NoError(t, err)
	result, err := approval.Run(ctx, "aspirin", "PTGS2", clean, v)
	require.NoError(t, err)
	assert.Equal(t, Approve, result.Decision)

	v, err = validation.Run(ctx, "greaseball", toxic)
	require.NoError(t, err)
	result, err = approval.Run(ctx, "greaseball", "PTGS2", toxic, v)
	require.NoError(t, err)
	assert.Equal(t, Reject, result.Decision)
}

func TestControllerAgent(t *testing.T) {
	controller := NewControllerAgent(Goals{TargetMolecules: 2, MaxIterations: 5})

	assert.True(t, controller.ShouldContinue())
	controller.NextIteration()
	controller.RecordSuccess()
	controller.NextIteration()
	controller.RecordFailure()

	progress := controller.Progress()
	assert.Equal(t, 2, progress.Iterations)
	assert.Equal(t, 1, progress.Successes)
	assert.InDelta(t, 0.5, progress.SuccessRate, 0.001)
	assert.Equal(t, 1, progress.TargetRemaining)

	controller.RecordSuccess()
	assert.True(t, controller.TargetReached())
	assert.False(t, controller.ShouldContinue())

	controller.Reset()
	assert.True(t, controller.ShouldContinue())
	assert.Equal(t, 0, controller.Progress().Iterations)
}

func TestControllerAgentMaxIterations(t *testing.T) {
	controller := NewControllerAgent(Goals{TargetMolecules: 10, MaxIterations: 2})
	controller.NextIteration()
	controller.NextIteration()
	assert.False(t, controller.ShouldContinue())
}

func TestControllerEstimateCompletion(t *testing.T) {
	controller := NewControllerAgent(Goals{TargetMolecules: 4, MaxIterations: 100})

	est := controller.EstimateCompletion()
	assert.False(t, est.SufficientData)

	controller.NextIteration()
	controller.NextIteration()
	controller.RecordSuccess()

	est = controller.EstimateCompletion()
	assert.True(t, est.SufficientData)
	assert.InDelta(t, 0.5, est.SuccessRate, 0.001)
	assert.InDelta(t, 6.0, est.Iterations, 0.001)
	assert.True(t, est.Achievable)
}
