package network

import "math"

// DegreeCentrality returns each node's degree divided by the maximum
// possible degree (order minus one).
func (n *Network) DegreeCentrality() map[string]float64 {
	scores := make(map[string]float64, n.Order())
	denom := float64(n.Order() - 1)
	for _, node := range n.Nodes() {
		if denom <= 0 {
			scores[node] = 0
			continue
		}
		scores[node] = float64(n.Degree(node)) / denom
	}
	return scores
}

// BetweennessCentrality computes shortest-path betweenness with Brandes'
// algorithm, normalized for an undirected graph.
func (n *Network) BetweennessCentrality() map[string]float64 {
	nodes := n.Nodes()
	scores := make(map[string]float64, len(nodes))
	for _, v := range nodes {
		scores[v] = 0
	}

	for _, s := range nodes {
		// Single-source shortest path counting.
		stack := make([]string, 0, len(nodes))
		preds := make(map[string][]string, len(nodes))
		sigma := map[string]float64{s: 1}
		dist := map[string]int{s: 0}
		queue := []string{s}

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range n.Neighbors(v) {
				if _, seen := dist[w]; !seen {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		// Dependency accumulation in reverse BFS order.
		delta := make(map[string]float64, len(stack))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				scores[w] += delta[w]
			}
		}
	}

	// Undirected: each pair is counted twice. Scale to [0, 1].
	order := len(nodes)
	if order > 2 {
		norm := 1.0 / (float64(order-1) * float64(order-2))
		for v := range scores {
			scores[v] *= norm
		}
	}
	return scores
}

// EigenvectorCentrality approximates eigenvector centrality by power
// iteration, normalized to unit Euclidean length.
func (n *Network) EigenvectorCentrality(iterations int) map[string]float64 {
	if iterations <= 0 {
		iterations = 100
	}
	nodes := n.Nodes()
	scores := make(map[string]float64, len(nodes))
	if len(nodes) == 0 {
		return scores
	}
	for _, v := range nodes {
		scores[v] = 1.0 / float64(len(nodes))
	}

	for i := 0; i < iterations; i++ {
		next := make(map[string]float64, len(nodes))
		for _, v := range nodes {
			for _, w := range n.Neighbors(v) {
				next[v] += scores[w]
			}
		}
		var norm float64
		for _, s := range next {
			norm += s * s
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			return next
		}
		for v := range next {
			next[v] /= norm
		}
		scores = next
	}
	return scores
}

// VulnerabilityScores ranks gene targets by a combination of degree,
// betweenness and eigenvector centrality, each weighted equally after
// normalizing to the maximum score among genes. Results are in [0, 1]
// and deterministic for a given network.
func (n *Network) VulnerabilityScores() map[string]float64 {
	genes := n.Genes()
	if len(genes) == 0 {
		return map[string]float64{}
	}

	degree := n.DegreeCentrality()
	betweenness := n.BetweennessCentrality()
	eigenvector := n.EigenvectorCentrality(100)

	combined := make(map[string]float64, len(genes))
	for _, g := range genes {
		combined[g] = normalized(degree, g, genes) +
			normalized(betweenness, g, genes) +
			normalized(eigenvector, g, genes)
	}
	for g := range combined {
		combined[g] /= 3
	}
	return combined
}

// normalized rescales a gene's score by the maximum score among genes.
func normalized(scores map[string]float64, gene string, genes []string) float64 {
	var max float64
	for _, g := range genes {
		if scores[g] > max {
			max = scores[g]
		}
	}
	if max == 0 {
		return 0
	}
	return scores[gene] / max
}
