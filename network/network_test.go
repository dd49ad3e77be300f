package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDiseaseNetwork(t *testing.T) {
	n := BuildDiseaseNetwork(
		[]string{"hsa05012", "hsa04726"},
		[]string{"SNCA", "LRRK2", "PINK1"},
	)

	assert.Equal(t, 5, n.Order())
	assert.Equal(t, 6, n.Size())
	assert.Equal(t, []string{"LRRK2", "PINK1", "SNCA"}, n.Genes())
	assert.Equal(t, []string{"hsa04726", "hsa05012"}, n.Pathways())
	assert.True(t, n.HasEdge("hsa05012", "SNCA"))
	assert.False(t, n.HasEdge("SNCA", "LRRK2"))
}

func TestAddEdgeCreatesNodes(t *testing.T) {
	n := New()
	n.AddEdge("TP53", "MDM2")
	assert.Equal(t, 2, n.Order())
	tp53Type, ok := n.Type("TP53")
	require.True(t, ok)
	assert.Equal(t, Gene, tp53Type)
	assert.Equal(t, []string{"MDM2"}, n.Neighbors("TP53"))
}

func TestSelfEdgeIgnored(t *testing.T) {
	n := New()
	n.AddNode("TP53", Gene)
	n.AddEdge("TP53", "TP53")
	assert.Equal(t, 0, n.Size())
}

func TestDegreeCentrality(t *testing.T) {
	// Star graph: hub connected to three leaves.
	n := New()
	n.AddEdge("hub", "a")
	n.AddEdge("hub", "b")
	n.AddEdge("hub", "c")

	scores := n.DegreeCentrality()
	assert.InDelta(t, 1.0, scores["hub"], 0.001)
	assert.InDelta(t, 1.0/3.0, scores["a"], 0.001)
}

func TestBetweennessCentrality(t *testing.T) {
	// Path graph a-b-c: all shortest paths through b.
	n := New()
	n.AddEdge("a", "b")
	n.AddEdge("b", "c")

	scores := n.BetweennessCentrality()
	assert.InDelta(t, 1.0, scores["b"], 0.001)
	assert.InDelta(t, 0.0, scores["a"], 0.001)
	assert.InDelta(t, 0.0, scores["c"], 0.001)
}

func TestEigenvectorCentrality(t *testing.T) {
	// Star graph: hub dominates.
	n := New()
	n.AddEdge("hub", "a")
	n.AddEdge("hub", "b")
	n.AddEdge("hub", "c")

	scores := n.EigenvectorCentrality(100)
	assert.Greater(t, scores["hub"], scores["a"])
	assert.InDelta(t, scores["a"], scores["b"], 0.001)
}

func TestVulnerabilityScores(t *testing.T) {
	// SNCA sits on both pathways, LRRK2 on one: SNCA must rank higher.
	n := New()
	n.AddNode("hsa05012", Pathway)
	n.AddNode("hsa04726", Pathway)
	n.AddNode("SNCA", Gene)
	n.AddNode("LRRK2", Gene)
	n.AddEdge("hsa05012", "SNCA")
	n.AddEdge("hsa04726", "SNCA")
	n.AddEdge("hsa05012", "LRRK2")

	scores := n.VulnerabilityScores()
	require.Len(t, scores, 2)
	assert.Greater(t, scores["SNCA"], scores["LRRK2"])
	assert.InDelta(t, 1.0, scores["SNCA"], 0.001)
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestVulnerabilityScoresDeterministic(t *testing.T) {
	n := BuildDiseaseNetwork(
		[]string{"p1", "p2", "p3"},
		[]string{"g1", "g2"},
	)
	first := n.VulnerabilityScores()
	second := n.VulnerabilityScores()
	assert.Equal(t, first, second)
}

func TestVulnerabilityScoresEmpty(t *testing.T) {
	assert.Empty(t, New().VulnerabilityScores())
}

func TestDrawDOT(t *testing.T) {
	n := New()
	n.AddNode("hsa05012", Pathway)
	n.AddNode("SNCA", Gene)
	n.AddEdge("hsa05012", "SNCA")

	dot := n.DrawDOT()
	assert.Contains(t, dot, "graph disease_network {")
	assert.Contains(t, dot, `"SNCA" [shape=box];`)
	assert.Contains(t, dot, `"hsa05012" [shape=ellipse];`)
	assert.Contains(t, dot, `"SNCA" -- "hsa05012";`)
}
