// Package locality validates every dependency edge in a repository against
// an architectural locality policy: imports should stay topologically close,
// route through stable hubs, or match a conventional exemption. Everything
// here operates on plain path-pair edges so the package stays independent of
// the graph representation.
package locality

// Edge is a directed dependency between two repo-relative file paths.
type Edge struct {
	From   string
	To     string
	Weight int
}

// Identity is the architectural role assigned to a file from its coupling
// profile (and, for GodModule, its validated outbound violations).
type Identity string

const (
	Regular          Identity = "regular"
	StableHub        Identity = "stable-hub"
	VolatileLeaf     Identity = "volatile-leaf"
	GodModule        Identity = "god-module"
	IsolatedDeadwood Identity = "deadwood"
)

// Coupling holds the afferent/efferent profile of a single file.
type Coupling struct {
	FanIn       int     // Ca: distinct predecessors
	FanOut      int     // Ce: distinct successors
	Instability float64 // I = Ce/(Ca+Ce), 0 when both are zero
	Skew        float64 // K = ln((Ca+1)/(Ce+1))
}

// PassReason explains why an edge was accepted.
type PassReason string

const (
	WithinDistance PassReason = "within-distance"
	RoutesToHub    PassReason = "routes-to-hub"
	ExemptPattern  PassReason = "exempt-pattern"
)

// ViolationKind categorizes a rejected edge.
type ViolationKind string

const (
	ViolationCycle    ViolationKind = "cycle"
	ViolationUpward   ViolationKind = "upward-dependency"
	ViolationSideways ViolationKind = "sideways-dependency"
	ViolationTight    ViolationKind = "tight-coupling"
)

// EdgeVerdict is the judged result for one edge.
type EdgeVerdict struct {
	Edge      Edge
	Distance  int
	Passed    bool
	Reason    PassReason    // set when Passed
	Violation ViolationKind // set when !Passed
}

// ValidationReport aggregates the verdicts and derived structures for a
// whole scan.
type ValidationReport struct {
	Verdicts   []EdgeVerdict
	Couplings  map[string]Coupling
	Identities map[string]Identity
	Cycles     [][]string // multi-node cycles, each sorted
	SelfLoops  []string   // degenerate one-node cycles, reported distinctly
	Layers     map[string]int
	Unlayered  []string // cyclic nodes excluded from layer assignment

	TotalEdges  int
	FailedEdges int
	Health      float64 // 1 - failed/total, 1 when no edges
	Entropy     float64 // normalized Shannon entropy over violation kinds
}

// IsClean reports whether every edge passed.
func (r *ValidationReport) IsClean() bool {
	return r.FailedEdges == 0
}
