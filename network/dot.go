package network

import (
	"fmt"
	"strings"
)

// DrawDOT renders the network in Graphviz DOT format. Gene nodes are drawn
// as boxes, pathway nodes as ellipses.
func (n *Network) DrawDOT() string {
	var b strings.Builder
	b.WriteString("graph disease_network {\n")
	for _, node := range n.Nodes() {
		shape := "ellipse"
		if t, _ := n.Type(node); t == Gene {
			shape = "box"
		}
		fmt.Fprintf(&b, "  %q [shape=%s];\n", node, shape)
	}
	seen := make(map[string]bool)
	for _, a := range n.Nodes() {
		for _, c := range n.Neighbors(a) {
			key := a + "--" + c
			if a > c {
				key = c + "--" + a
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			fmt.Fprintf(&b, "  %q -- %q;\n", a, c)
		}
	}
	b.WriteString("}\n")
	return b.String()
}
