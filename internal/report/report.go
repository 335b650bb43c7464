// Package report turns a validation result into actionable findings: which
// files behave like god modules, which targets deserve hub status, which
// top-level directories are entangled, and what to do about each failed
// edge.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/topolint/topolint/internal/locality"
)

// Finding is one failed edge with its fix suggestion.
type Finding struct {
	Verdict    locality.EdgeVerdict
	Suggestion string
}

// GodModule is a file reclassified for excessive outbound violations.
type GodModule struct {
	Path       string
	Violations int
}

// MissingHub is a heavily depended-on file that is not yet a stable hub but
// attracts inbound failures; promoting it would legitimize those edges.
type MissingHub struct {
	Path            string
	FanIn           int
	InboundFailures int
}

// DirCoupling is the aggregate edge weight between two top-level
// directories.
type DirCoupling struct {
	A, B     string
	Strength int
}

// Report is the full analysis over a validation result.
type Report struct {
	Findings     []Finding
	GodModules   []GodModule
	MissingHubs  []MissingHub
	DirCouplings []DirCoupling

	Layers    map[string]int
	Unlayered []string
	Cycles    [][]string
	SelfLoops []string

	TotalEdges  int
	FailedEdges int
	Health      float64
	Entropy     float64
}

// Build derives the report from a validation result. The policy is needed
// again here because missing-hub promotion reuses the hub fan-in threshold.
func Build(vr *locality.ValidationReport, cfg locality.Config) *Report {
	r := &Report{
		Layers:      vr.Layers,
		Unlayered:   vr.Unlayered,
		Cycles:      vr.Cycles,
		SelfLoops:   vr.SelfLoops,
		TotalEdges:  vr.TotalEdges,
		FailedEdges: vr.FailedEdges,
		Health:      vr.Health,
		Entropy:     vr.Entropy,
	}

	outFailures := make(map[string]int)
	inFailures := make(map[string]int)
	for _, v := range vr.Verdicts {
		if v.Passed {
			continue
		}
		outFailures[v.Edge.From]++
		inFailures[v.Edge.To]++
		r.Findings = append(r.Findings, Finding{
			Verdict:    v,
			Suggestion: suggest(v, vr.Couplings[v.Edge.To], cfg),
		})
	}

	for path, id := range vr.Identities {
		if id == locality.GodModule {
			r.GodModules = append(r.GodModules, GodModule{Path: path, Violations: outFailures[path]})
		}
	}
	sort.Slice(r.GodModules, func(i, j int) bool {
		if r.GodModules[i].Violations != r.GodModules[j].Violations {
			return r.GodModules[i].Violations > r.GodModules[j].Violations
		}
		return r.GodModules[i].Path < r.GodModules[j].Path
	})

	for path, n := range inFailures {
		c := vr.Couplings[path]
		if c.FanIn >= cfg.HubFanIn && vr.Identities[path] != locality.StableHub {
			r.MissingHubs = append(r.MissingHubs, MissingHub{Path: path, FanIn: c.FanIn, InboundFailures: n})
		}
	}
	sort.Slice(r.MissingHubs, func(i, j int) bool {
		if r.MissingHubs[i].InboundFailures != r.MissingHubs[j].InboundFailures {
			return r.MissingHubs[i].InboundFailures > r.MissingHubs[j].InboundFailures
		}
		return r.MissingHubs[i].Path < r.MissingHubs[j].Path
	})

	r.DirCouplings = dirCouplings(vr.Verdicts)
	return r
}

func suggest(v locality.EdgeVerdict, targetCoupling locality.Coupling, cfg locality.Config) string {
	switch v.Violation {
	case locality.ViolationCycle:
		return "break the cycle: invert one dependency or extract the shared piece into its own file"
	case locality.ViolationUpward:
		return "move the depended-on code to a lower layer, or depend on an abstraction instead"
	case locality.ViolationTight:
		return "merge the two modules or extract a shared interface both can depend on"
	default:
		if targetCoupling.FanIn >= cfg.HubFanIn {
			return "promote the target to a hub or expose it via an aggregator"
		}
		return "move the files closer together or route the dependency through a hub"
	}
}

// dirCouplings aggregates edge weight between distinct top-level
// directories, strongest pair first.
func dirCouplings(verdicts []locality.EdgeVerdict) []DirCoupling {
	strength := make(map[[2]string]int)
	for _, v := range verdicts {
		a, b := topDir(v.Edge.From), topDir(v.Edge.To)
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		w := v.Edge.Weight
		if w < 1 {
			w = 1
		}
		strength[[2]string{a, b}] += w
	}

	out := make([]DirCoupling, 0, len(strength))
	for pair, s := range strength {
		out = append(out, DirCoupling{A: pair[0], B: pair[1], Strength: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Strength != out[j].Strength {
			return out[i].Strength > out[j].Strength
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

func topDir(p string) string {
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return "."
}

// Render writes the human-readable report: layer tree, cycles, findings with
// suggestions, structural callouts, and the summary line.
func (r *Report) Render(w io.Writer) {
	renderLayers(w, r.Layers, r.Unlayered)

	if len(r.Cycles) > 0 || len(r.SelfLoops) > 0 {
		fmt.Fprintln(w, "\nCycles:")
		for _, c := range r.Cycles {
			fmt.Fprintf(w, "  %s\n", strings.Join(c, " <-> "))
		}
		for _, s := range r.SelfLoops {
			fmt.Fprintf(w, "  %s (self-loop)\n", s)
		}
	}

	if len(r.Findings) > 0 {
		fmt.Fprintln(w, "\nViolations:")
		for _, f := range r.Findings {
			fmt.Fprintf(w, "  [%s] %s -> %s (distance %d)\n",
				f.Verdict.Violation, f.Verdict.Edge.From, f.Verdict.Edge.To, f.Verdict.Distance)
			fmt.Fprintf(w, "      fix: %s\n", f.Suggestion)
		}
	}

	if len(r.GodModules) > 0 {
		fmt.Fprintln(w, "\nGod modules:")
		for _, g := range r.GodModules {
			fmt.Fprintf(w, "  %s (%d outbound violations)\n", g.Path, g.Violations)
		}
	}
	if len(r.MissingHubs) > 0 {
		fmt.Fprintln(w, "\nMissing hubs:")
		for _, m := range r.MissingHubs {
			fmt.Fprintf(w, "  %s (fan-in %d, %d inbound violations): consider promoting to a hub\n",
				m.Path, m.FanIn, m.InboundFailures)
		}
	}
	if len(r.DirCouplings) > 0 {
		fmt.Fprintln(w, "\nDirectory coupling:")
		for _, d := range r.DirCouplings {
			fmt.Fprintf(w, "  %s <-> %s: %d\n", d.A, d.B, d.Strength)
		}
	}

	fmt.Fprintf(w, "\n%d/%d edges pass | health %.2f | entropy %.2f\n",
		r.TotalEdges-r.FailedEdges, r.TotalEdges, r.Health, r.Entropy)
}

func renderLayers(w io.Writer, layers map[string]int, unlayered []string) {
	if len(layers) == 0 && len(unlayered) == 0 {
		return
	}
	byLayer := make(map[int][]string)
	max := 0
	for path, l := range layers {
		byLayer[l] = append(byLayer[l], path)
		if l > max {
			max = l
		}
	}
	fmt.Fprintln(w, "Layers:")
	for l := max; l >= 0; l-- {
		files := byLayer[l]
		sort.Strings(files)
		for _, f := range files {
			fmt.Fprintf(w, "  %d  %s\n", l, f)
		}
	}
	for _, f := range unlayered {
		fmt.Fprintf(w, "  -  %s (cyclic)\n", f)
	}
}
