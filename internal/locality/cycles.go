package locality

import (
	"sort"
	"strings"
)

type visitState uint8

const (
	unvisited visitState = iota
	onStack
	done
)

// CycleSet holds the detected cycles plus a membership index used by the
// validator to test whether two files share a cycle.
type CycleSet struct {
	Cycles    [][]string // multi-node cycles, nodes sorted
	SelfLoops []string   // one-node cycles, sorted

	membership map[string][]int // node -> indexes into Cycles
	selfLoop   map[string]bool
}

// InCycle reports whether the node participates in any cycle, including a
// self-loop.
func (cs *CycleSet) InCycle(node string) bool {
	return cs.selfLoop[node] || len(cs.membership[node]) > 0
}

// SharedCycle reports whether a and b participate in the same cycle of three
// or more nodes. Mutual two-node pairs are deliberately not counted: those
// edges are judged by the tight-coupling rule instead. An edge that is
// itself a self-loop shares its degenerate cycle.
func (cs *CycleSet) SharedCycle(a, b string) bool {
	if a == b {
		return cs.selfLoop[a]
	}
	bm := cs.membership[b]
	for _, ai := range cs.membership[a] {
		if len(cs.Cycles[ai]) < 3 {
			continue
		}
		for _, bi := range bm {
			if ai == bi {
				return true
			}
		}
	}
	return false
}

// DetectCycles runs a depth-first search over the edge set (weights
// ignored), recording the stack slice from the back-edge target to the
// current node as a cycle. Cycles are deduplicated by node-set equality, so
// discovery order does not matter. Self-loops are reported separately as
// degenerate one-node cycles. Traversal order is sorted, making the result
// deterministic.
func DetectCycles(nodes []string, edges []Edge) *CycleSet {
	adj := make(map[string][]string)
	selfLoop := make(map[string]bool)
	for i := range edges {
		e := &edges[i]
		if e.From == e.To {
			selfLoop[e.From] = true
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
	}
	for _, targets := range adj {
		sort.Strings(targets)
	}

	sorted := make([]string, len(nodes))
	copy(sorted, nodes)
	sort.Strings(sorted)

	state := make(map[string]visitState, len(nodes))
	var stack []string
	seen := make(map[string]struct{}) // node-set keys of recorded cycles
	var cycles [][]string

	var visit func(node string)
	visit = func(node string) {
		state[node] = onStack
		stack = append(stack, node)

		for _, next := range adj[node] {
			switch state[next] {
			case unvisited:
				visit(next)
			case onStack:
				recordCycle(stack, next, seen, &cycles)
			}
		}

		stack = stack[:len(stack)-1]
		state[node] = done
	}

	for _, n := range sorted {
		if state[n] == unvisited {
			visit(n)
		}
	}

	cs := &CycleSet{
		Cycles:     cycles,
		selfLoop:   selfLoop,
		membership: make(map[string][]int),
	}
	for i, cycle := range cycles {
		for _, n := range cycle {
			cs.membership[n] = append(cs.membership[n], i)
		}
	}
	for n := range selfLoop {
		cs.SelfLoops = append(cs.SelfLoops, n)
	}
	sort.Strings(cs.SelfLoops)
	sort.Slice(cs.Cycles, func(i, j int) bool {
		return strings.Join(cs.Cycles[i], "\x00") < strings.Join(cs.Cycles[j], "\x00")
	})
	return cs
}

// recordCycle captures the stack slice from target to the top of the stack,
// deduplicating by node-set equality.
func recordCycle(stack []string, target string, seen map[string]struct{}, cycles *[][]string) {
	start := -1
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == target {
			start = i
			break
		}
	}
	if start < 0 {
		return
	}

	cycle := make([]string, len(stack)-start)
	copy(cycle, stack[start:])
	sort.Strings(cycle)

	key := strings.Join(cycle, "\x00")
	if _, dup := seen[key]; dup {
		return
	}
	seen[key] = struct{}{}
	*cycles = append(*cycles, cycle)
}
