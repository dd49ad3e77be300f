package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moleculab/drugflow/agent"
	"github.com/moleculab/drugflow/chem"
	"github.com/moleculab/drugflow/discovery"
)

func sampleState() discovery.State {
	profile := chem.Evaluate(chem.Descriptors{
		MolecularWeight: 180.16,
		LogP:            1.2,
		TPSA:            63.6,
		HBondDonors:     1,
		HBondAcceptors:  4,
		RotatableBonds:  3,
		AromaticRings:   1,
	})
	return discovery.State{
		Compound:      "aspirin",
		Target:        "PTGS2",
		Profile:       &profile,
		Validation:    &agent.ValidationResult{Compound: "aspirin", LabResult: "pass: profile supports assay work", ClinicalReady: true},
		Approval:      &agent.ApprovalResult{Compound: "aspirin", Decision: agent.Approve, Report: "approved for preclinical development"},
		Iteration:     1,
		SuccessCount:  1,
		FinalDecision: "APPROVED",
		Confidence:    0.9,
		Trace: []discovery.TraceEntry{
			{Kind: discovery.Thought, Text: "analyzing aspirin", At: time.Now()},
			{Kind: discovery.Observation, Text: "profile passed screening", At: time.Now()},
		},
	}
}

func TestFromState(t *testing.T) {
	md := FromState(sampleState())

	assert.Contains(t, md, "# Compound Analysis: aspirin")
	assert.Contains(t, md, "Decision: **APPROVED** (confidence 0.9)")
	assert.Contains(t, md, "| Molecular weight | 180.16 |")
	assert.Contains(t, md, "| Lipinski | pass |")
	assert.Contains(t, md, "## Validation")
	assert.Contains(t, md, "## Reasoning Trace")
	assert.Contains(t, md, "thought: analyzing aspirin")
}

func TestFromMultiTarget(t *testing.T) {
	md := FromMultiTarget(&discovery.MultiTargetResult{
		Disease:  "Parkinson disease",
		RunID:    "run-1",
		Pathways: []string{"hsa05012"},
		Targets:  []string{"SNCA", "LRRK2"},
		Scores:   map[string]float64{"SNCA": 1.0, "LRRK2": 0.75},
		Candidates: []discovery.Candidate{
			{Target: "SNCA", Compound: "ASPIRIN", ChEMBLID: "CHEMBL25", VulnerabilityScore: 1.0, Decision: "APPROVED"},
		},
	})

	assert.Contains(t, md, "# Multi-Target Discovery: Parkinson disease")
	assert.Contains(t, md, "- hsa05012")
	assert.Contains(t, md, "| SNCA | 1.000 |")
	assert.Contains(t, md, "| 1 | ASPIRIN | SNCA | CHEMBL25 | 1.000 | APPROVED |")
}

func TestToHTML(t *testing.T) {
	html := ToHTML(FromState(sampleState()))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, "Compound Analysis: aspirin", doc.Find("h1").First().Text())
	assert.Greater(t, doc.Find("table").Length(), 0)
	assert.Greater(t, doc.Find("h2").Length(), 2)
}

func TestToHTMLSanitizes(t *testing.T) {
	html := ToHTML("# Title\n\n<script>alert(1)</script>\n")

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find("script").Length())
	assert.Equal(t, "Title", doc.Find("h1").Text())
}

func TestSaveHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.html")
	require.NoError(t, SaveHTML(path, FromState(sampleState())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1")
}
