package locality

import "sort"

// InferLayers assigns every non-cyclic file a layer number equal to its
// longest downstream path in the acyclic subgraph: layer 0 for files with no
// outbound acyclic edges, otherwise 1 + max over successors. Computed with
// Kahn's algorithm so each node's successors are resolved first. Files in a
// cycle get no layer and are returned in unlayered, as are any nodes a
// residual cycle leaves unresolved.
func InferLayers(nodes []string, edges []Edge, cycles *CycleSet) (map[string]int, []string) {
	acyclic := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		acyclic[n] = !cycles.InCycle(n)
	}

	preds := make(map[string][]string)
	outdeg := make(map[string]int)
	for i := range edges {
		e := &edges[i]
		if e.From == e.To || !acyclic[e.From] || !acyclic[e.To] {
			continue
		}
		outdeg[e.From]++
		preds[e.To] = append(preds[e.To], e.From)
	}

	layers := make(map[string]int)
	var queue []string
	for _, n := range nodes {
		if acyclic[n] && outdeg[n] == 0 {
			queue = append(queue, n)
			layers[n] = 0
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for _, pred := range preds[node] {
			if candidate := layers[node] + 1; candidate > layers[pred] {
				layers[pred] = candidate
			}
			outdeg[pred]--
			if outdeg[pred] == 0 {
				queue = append(queue, pred)
			}
		}
	}

	var unlayered []string
	for _, n := range nodes {
		if !acyclic[n] {
			unlayered = append(unlayered, n)
			continue
		}
		if outdeg[n] > 0 {
			// Still blocked: part of a cycle the detector did not separate.
			delete(layers, n)
			unlayered = append(unlayered, n)
		}
	}
	sort.Strings(unlayered)
	return layers, unlayered
}
