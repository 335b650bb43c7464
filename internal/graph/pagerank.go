package graph

const (
	damping        = 0.85
	maxIterations  = 100
	convergenceEps = 1e-6
)

// pageRank computes the stationary distribution of a random walk over the
// weighted edge set. teleport is the teleportation distribution; nil means
// uniform. Iteration stops when the maximum per-node change drops below
// convergenceEps or after maxIterations, so it terminates on any graph.
// The result is normalized to sum to 1.
func pageRank(nodes []FileNode, edges []Edge, teleport []float64) []float64 {
	n := len(nodes)
	if n == 0 {
		return nil
	}

	if teleport == nil {
		teleport = make([]float64, n)
		for i := range teleport {
			teleport[i] = 1.0
		}
	}
	var teleportSum float64
	for _, t := range teleport {
		teleportSum += t
	}
	if teleportSum == 0 {
		for i := range teleport {
			teleport[i] = 1.0
		}
		teleportSum = float64(n)
	}
	norm := make([]float64, n)
	for i := range teleport {
		norm[i] = teleport[i] / teleportSum
	}

	outWeight := make([]float64, n)
	for i := range edges {
		outWeight[edges[i].From] += float64(edges[i].Weight)
	}

	rank := make([]float64, n)
	for i := range rank {
		rank[i] = 1.0 / float64(n)
	}

	next := make([]float64, n)
	for iter := 0; iter < maxIterations; iter++ {
		// Mass of dangling nodes is redistributed along the teleport
		// distribution, keeping the total at 1.
		var danglingSum float64
		for i := range rank {
			if outWeight[i] == 0 {
				danglingSum += rank[i]
			}
		}

		for i := range next {
			next[i] = (1.0-damping)*norm[i] + damping*danglingSum*norm[i]
		}

		for i := range edges {
			e := &edges[i]
			next[e.To] += damping * rank[e.From] * float64(e.Weight) / outWeight[e.From]
		}

		var maxDiff float64
		for i := range next {
			diff := next[i] - rank[i]
			if diff < 0 {
				diff = -diff
			}
			if diff > maxDiff {
				maxDiff = diff
			}
		}

		rank, next = next, rank

		if maxDiff < convergenceEps {
			break
		}
	}

	var total float64
	for _, r := range rank {
		total += r
	}
	if total > 0 {
		for i := range rank {
			rank[i] /= total
		}
	}
	return rank
}
