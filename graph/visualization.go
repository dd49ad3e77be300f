package graph

import (
	"fmt"
	"sort"
	"strings"
)

// DrawMermaid generates a Mermaid flowchart of the graph topology.
// Conditional edges are rendered as dashed arrows to a choice marker.
func (g *StateGraph[S]) DrawMermaid() string {
	var sb strings.Builder
	sb.WriteString("flowchart TD\n")

	if g.entryPoint != "" {
		sb.WriteString("    START([\"START\"])\n")
		sb.WriteString(fmt.Sprintf("    START --> %s\n", g.entryPoint))
	}

	nodeNames := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		nodeNames = append(nodeNames, name)
	}
	sort.Strings(nodeNames)

	for _, name := range nodeNames {
		node := g.nodes[name]
		if node.Description != "" {
			sb.WriteString(fmt.Sprintf("    %s[\"%s<br/>%s\"]\n", name, name, node.Description))
		} else {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", name, name))
		}
	}

	hasEnd := false
	for _, edge := range g.edges {
		if edge.To == END {
			hasEnd = true
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", edge.From, edge.To))
	}

	condFroms := make([]string, 0, len(g.conditional))
	for from := range g.conditional {
		condFroms = append(condFroms, from)
	}
	sort.Strings(condFroms)
	for _, from := range condFroms {
		sb.WriteString(fmt.Sprintf("    %s -.-> %s_choice{\"?\"}\n", from, from))
		hasEnd = true
	}

	if hasEnd {
		sb.WriteString("    END([\"END\"])\n")
	}

	return sb.String()
}
