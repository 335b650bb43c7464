package locality

import "math"

// ComputeCoupling counts distinct predecessors and successors per node in a
// single pass over the edge list. Edge weight is ignored; only distinctness
// matters. Every node in nodes gets an entry, so isolated files classify as
// deadwood instead of vanishing from the report.
func ComputeCoupling(nodes []string, edges []Edge) map[string]Coupling {
	preds := make(map[string]map[string]struct{})
	succs := make(map[string]map[string]struct{})

	for i := range edges {
		e := &edges[i]
		if succs[e.From] == nil {
			succs[e.From] = make(map[string]struct{})
		}
		succs[e.From][e.To] = struct{}{}
		if preds[e.To] == nil {
			preds[e.To] = make(map[string]struct{})
		}
		preds[e.To][e.From] = struct{}{}
	}

	couplings := make(map[string]Coupling, len(nodes))
	for _, n := range nodes {
		ca := len(preds[n])
		ce := len(succs[n])
		var instability float64
		if ca+ce > 0 {
			instability = float64(ce) / float64(ca+ce)
		}
		couplings[n] = Coupling{
			FanIn:       ca,
			FanOut:      ce,
			Instability: instability,
			Skew:        math.Log(float64(ca+1) / float64(ce+1)),
		}
	}
	return couplings
}
