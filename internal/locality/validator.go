package locality

import "math"

// Validate judges every edge against the locality policy and assembles the
// full report: coupling profiles, identities, cycles, layers, per-edge
// verdicts, and the aggregate health and entropy figures.
//
// Rules apply to each edge in a fixed order, first match wins:
//
//  1. edges inside a cycle (including self-loops) fail as cycle violations;
//  2. edges within MaxCloseDistance pass;
//  3. edges matching an exemption rule pass;
//  4. edges into a stable hub pass, unless the hub depends back on the
//     source;
//  5. mutually dependent pairs fail as tight coupling;
//  6. edges from a lower layer to a higher one fail as upward dependencies;
//  7. everything else fails as a sideways dependency.
func Validate(nodes []string, edges []Edge, cfg Config) *ValidationReport {
	couplings := ComputeCoupling(nodes, edges)
	identities := make(map[string]Identity, len(nodes))
	for _, n := range nodes {
		identities[n] = Classify(couplings[n], cfg)
	}

	cycles := DetectCycles(nodes, edges)
	layers, unlayered := InferLayers(nodes, edges, cycles)
	rules := exemptRules(cfg)

	reverse := make(map[[2]string]bool, len(edges))
	for i := range edges {
		reverse[[2]string{edges[i].From, edges[i].To}] = true
	}

	verdicts := make([]EdgeVerdict, 0, len(edges))
	failed := 0
	for i := range edges {
		v := judge(edges[i], cfg, rules, identities, cycles, layers, reverse)
		if !v.Passed {
			failed++
		}
		verdicts = append(verdicts, v)
	}

	promoteGodModules(verdicts, identities, cfg, len(nodes), len(edges))

	report := &ValidationReport{
		Verdicts:    verdicts,
		Couplings:   couplings,
		Identities:  identities,
		Cycles:      cycles.Cycles,
		SelfLoops:   cycles.SelfLoops,
		Layers:      layers,
		Unlayered:   unlayered,
		TotalEdges:  len(edges),
		FailedEdges: failed,
	}
	report.Health = health(failed, len(edges))
	report.Entropy = violationEntropy(verdicts)
	return report
}

func judge(
	e Edge,
	cfg Config,
	rules []ExemptRule,
	identities map[string]Identity,
	cycles *CycleSet,
	layers map[string]int,
	reverse map[[2]string]bool,
) EdgeVerdict {
	v := EdgeVerdict{Edge: e, Distance: Distance(e.From, e.To)}

	if e.From == e.To || cycles.SharedCycle(e.From, e.To) {
		v.Violation = ViolationCycle
		return v
	}
	if v.Distance <= cfg.MaxCloseDistance {
		v.Passed = true
		v.Reason = WithinDistance
		return v
	}
	for _, r := range rules {
		if r.Match(e) {
			v.Passed = true
			v.Reason = ExemptPattern
			return v
		}
	}

	mutual := reverse[[2]string{e.To, e.From}]
	if identities[e.To] == StableHub && !mutual {
		v.Passed = true
		v.Reason = RoutesToHub
		return v
	}
	if mutual {
		v.Violation = ViolationTight
		return v
	}

	from, okFrom := layers[e.From]
	to, okTo := layers[e.To]
	if okFrom && okTo && from < to {
		v.Violation = ViolationUpward
		return v
	}
	v.Violation = ViolationSideways
	return v
}

// promoteGodModules reclassifies files whose outbound violation count
// exceeds the ceiling. An explicit ceiling of zero derives one from graph
// density so that dense repos are not flooded with god modules.
func promoteGodModules(verdicts []EdgeVerdict, identities map[string]Identity, cfg Config, nodes, edges int) {
	ceiling := cfg.GodViolationCeiling
	if ceiling == 0 {
		ceiling = deriveGodCeiling(nodes, edges)
	}

	outFailures := make(map[string]int)
	for i := range verdicts {
		if !verdicts[i].Passed {
			outFailures[verdicts[i].Edge.From]++
		}
	}
	for file, n := range outFailures {
		if n > ceiling && identities[file] == Regular {
			identities[file] = GodModule
		}
	}
}

func deriveGodCeiling(nodes, edges int) int {
	if nodes < 1 {
		nodes = 1
	}
	if derived := 2 * edges / nodes; derived > 3 {
		return derived
	}
	return 3
}

func health(failed, total int) float64 {
	if total == 0 {
		return 1
	}
	return 1 - float64(failed)/float64(total)
}

// violationEntropy is the Shannon entropy of the failure distribution over
// the four violation kinds, normalized to [0,1]. Zero when the scan is clean
// or every failure shares one kind; one when failures spread evenly, which
// usually means the problem is systemic rather than a single hotspot.
func violationEntropy(verdicts []EdgeVerdict) float64 {
	counts := make(map[ViolationKind]int)
	total := 0
	for i := range verdicts {
		if !verdicts[i].Passed {
			counts[verdicts[i].Violation]++
			total++
		}
	}
	if total == 0 || len(counts) < 2 {
		return 0
	}

	h := 0.0
	for _, n := range counts {
		p := float64(n) / float64(total)
		h -= p * math.Log(p)
	}
	return h / math.Log(4)
}
