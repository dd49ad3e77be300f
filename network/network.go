// Package network models disease networks as undirected bipartite graphs of
// pathways and gene targets, and scores target vulnerability from graph
// centrality.
package network

import "sort"

// NodeType distinguishes the two sides of the bipartite graph.
type NodeType string

const (
	Pathway NodeType = "pathway"
	Gene    NodeType = "gene"
)

// Network is an undirected graph of pathway and gene nodes.
type Network struct {
	types map[string]NodeType
	adj   map[string]map[string]bool
}

// New creates an empty network.
func New() *Network {
	return &Network{
		types: make(map[string]NodeType),
		adj:   make(map[string]map[string]bool),
	}
}

// BuildDiseaseNetwork connects every gene target to every disease pathway.
// Dense wiring reflects that pathway membership is unknown at this stage;
// centrality then differentiates targets as real edges replace assumed ones.
func BuildDiseaseNetwork(pathways, targets []string) *Network {
	n := New()
	for _, p := range pathways {
		n.AddNode(p, Pathway)
	}
	for _, t := range targets {
		n.AddNode(t, Gene)
		for _, p := range pathways {
			n.AddEdge(p, t)
		}
	}
	return n
}

// AddNode registers a node. Re-adding an existing node updates its type.
func (n *Network) AddNode(name string, t NodeType) {
	n.types[name] = t
	if n.adj[name] == nil {
		n.adj[name] = make(map[string]bool)
	}
}

// AddEdge connects two nodes, adding them as needed. Unknown endpoints
// default to gene nodes.
func (n *Network) AddEdge(a, b string) {
	if a == b {
		return
	}
	for _, name := range []string{a, b} {
		if _, ok := n.types[name]; !ok {
			n.AddNode(name, Gene)
		}
	}
	n.adj[a][b] = true
	n.adj[b][a] = true
}

// HasEdge reports whether a and b are connected.
func (n *Network) HasEdge(a, b string) bool {
	return n.adj[a][b]
}

// Type returns the node type and whether the node exists.
func (n *Network) Type(name string) (NodeType, bool) {
	t, ok := n.types[name]
	return t, ok
}

// Nodes returns all node names in sorted order.
func (n *Network) Nodes() []string {
	names := make([]string, 0, len(n.types))
	for name := range n.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Genes returns the gene nodes in sorted order.
func (n *Network) Genes() []string {
	return n.nodesOfType(Gene)
}

// Pathways returns the pathway nodes in sorted order.
func (n *Network) Pathways() []string {
	return n.nodesOfType(Pathway)
}

func (n *Network) nodesOfType(t NodeType) []string {
	var names []string
	for name, nt := range n.types {
		if nt == t {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Neighbors returns the sorted neighbors of a node.
func (n *Network) Neighbors(name string) []string {
	var out []string
	for nb := range n.adj[name] {
		out = append(out, nb)
	}
	sort.Strings(out)
	return out
}

// Degree returns the number of edges at a node.
func (n *Network) Degree(name string) int {
	return len(n.adj[name])
}

// Order returns the number of nodes.
func (n *Network) Order() int {
	return len(n.types)
}

// Size returns the number of edges.
func (n *Network) Size() int {
	total := 0
	for _, nbs := range n.adj {
		total += len(nbs)
	}
	return total / 2
}
