// Package graph builds a weighted file dependency graph from extracted tags
// and resolved imports, and ranks files by importance.
package graph

import (
	"sort"

	"github.com/topolint/topolint/internal/locality"
	"github.com/topolint/topolint/internal/model"
)

// FileNode is a file in the dependency graph. Nodes are arena-allocated and
// addressed by integer ID; edges are index pairs, so the graph holds no
// cyclic pointers and serializes trivially.
type FileNode struct {
	ID       int
	Path     string
	Language string
	Rank     float64
}

// Edge is a directed dependency: From references symbols defined in To, or
// imports it. Weight accumulates distinct symbol matches plus imports.
type Edge struct {
	From    int
	To      int
	Weight  int
	Symbols []string
}

// Warning records a file that could not contribute to the graph.
type Warning struct {
	Path    string
	Message string
}

// Builder accumulates per-file tags and resolved imports, then produces an
// immutable RepoGraph. Phase 1 workers feed it through a single goroutine;
// the builder itself is not safe for concurrent use.
type Builder struct {
	nodes    []FileNode
	index    map[string]int
	defines  map[string]int // symbol name -> defining node, last definition wins
	refs     []symbolRef
	imports  []importPair
	warnings []Warning
}

type symbolRef struct {
	node   int
	symbol string
}

type importPair struct {
	from int
	to   int
}

// NewBuilder creates an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int), defines: make(map[string]int)}
}

// AddFile registers a file node and returns its ID. Repeated calls with the
// same path return the existing node.
func (b *Builder) AddFile(path, language string) int {
	if id, ok := b.index[path]; ok {
		return id
	}
	id := len(b.nodes)
	b.nodes = append(b.nodes, FileNode{ID: id, Path: path, Language: language})
	b.index[path] = id
	return id
}

// AddTags records a file's definitions and references. Module-kind
// references are import tokens handled by the resolver, not symbol lookups,
// so they are skipped here. Symbol collisions are not an error: the last
// definition wins.
func (b *Builder) AddTags(path string, tags []model.Tag) {
	id, ok := b.index[path]
	if !ok {
		return
	}
	for i := range tags {
		tag := &tags[i]
		switch tag.Kind {
		case model.Definition:
			b.defines[tag.Name] = id
		case model.Reference:
			if tag.SymbolKind == model.Module {
				continue
			}
			b.refs = append(b.refs, symbolRef{node: id, symbol: tag.Name})
		}
	}
}

// AddImport records a resolved import edge between two registered files.
// Unknown paths are ignored; the resolver only emits intra-repo paths, but a
// resolved target may have been excluded from discovery.
func (b *Builder) AddImport(from, to string) {
	fromID, ok := b.index[from]
	if !ok {
		return
	}
	toID, ok := b.index[to]
	if !ok {
		return
	}
	b.imports = append(b.imports, importPair{from: fromID, to: toID})
}

// AddWarning records a file that was skipped (parse failure, unreadable).
func (b *Builder) AddWarning(path, message string) {
	b.warnings = append(b.warnings, Warning{Path: path, Message: message})
}

// Build matches references against the symbol table, merges import edges,
// computes importance ranks, and returns the finished graph. References to
// symbols not defined in the repository are dropped silently. Same-file
// symbol matches produce no edge; a file importing itself keeps its
// self-loop so the cycle detector can report it.
func (b *Builder) Build() *RepoGraph {
	type edgeKey struct{ from, to int }
	weights := make(map[edgeKey]int)
	symbols := make(map[edgeKey]map[string]struct{})

	for _, ref := range b.refs {
		def, ok := b.defines[ref.symbol]
		if !ok || def == ref.node {
			continue
		}
		key := edgeKey{ref.node, def}
		weights[key]++
		if symbols[key] == nil {
			symbols[key] = make(map[string]struct{})
		}
		symbols[key][ref.symbol] = struct{}{}
	}

	for _, imp := range b.imports {
		weights[edgeKey{imp.from, imp.to}]++
	}

	g := &RepoGraph{
		nodes:    b.nodes,
		index:    b.index,
		out:      make(map[int][]int),
		in:       make(map[int][]int),
		warnings: b.warnings,
	}

	for key, w := range weights {
		var syms []string
		for s := range symbols[key] {
			syms = append(syms, s)
		}
		sort.Strings(syms)
		g.edges = append(g.edges, Edge{From: key.from, To: key.to, Weight: w, Symbols: syms})
	}

	// Deterministic edge order regardless of map iteration.
	sort.Slice(g.edges, func(i, j int) bool {
		a, c := &g.edges[i], &g.edges[j]
		if g.nodes[a.From].Path != g.nodes[c.From].Path {
			return g.nodes[a.From].Path < g.nodes[c.From].Path
		}
		return g.nodes[a.To].Path < g.nodes[c.To].Path
	})

	for i := range g.edges {
		g.out[g.edges[i].From] = append(g.out[g.edges[i].From], i)
		g.in[g.edges[i].To] = append(g.in[g.edges[i].To], i)
	}

	g.applyRanks(pageRank(g.nodes, g.edges, nil))
	return g
}

// RepoGraph is the adjacency structure over FileNodes and Edges, built once
// per scan. Topology is immutable after Build; only ranks change when a
// caller re-anchors the importance computation.
type RepoGraph struct {
	nodes    []FileNode
	index    map[string]int
	edges    []Edge
	out      map[int][]int
	in       map[int][]int
	warnings []Warning
}

// Nodes returns the file nodes in arena order.
func (g *RepoGraph) Nodes() []FileNode {
	return g.nodes
}

// Edges returns the deduplicated, deterministically ordered edge list.
func (g *RepoGraph) Edges() []Edge {
	return g.edges
}

// Warnings returns files skipped during the build.
func (g *RepoGraph) Warnings() []Warning {
	return g.warnings
}

// PathOf returns the path for a node ID.
func (g *RepoGraph) PathOf(id int) string {
	return g.nodes[id].Path
}

// NodeByPath looks up a node by repo-relative path.
func (g *RepoGraph) NodeByPath(path string) (FileNode, bool) {
	id, ok := g.index[path]
	if !ok {
		return FileNode{}, false
	}
	return g.nodes[id], true
}

// DependenciesOf returns the sorted paths this file depends on.
func (g *RepoGraph) DependenciesOf(path string) []string {
	id, ok := g.index[path]
	if !ok {
		return nil
	}
	var deps []string
	for _, ei := range g.out[id] {
		deps = append(deps, g.nodes[g.edges[ei].To].Path)
	}
	sort.Strings(deps)
	return deps
}

// DependentsOf returns the sorted paths that depend on this file.
func (g *RepoGraph) DependentsOf(path string) []string {
	id, ok := g.index[path]
	if !ok {
		return nil
	}
	var deps []string
	for _, ei := range g.in[id] {
		deps = append(deps, g.nodes[g.edges[ei].From].Path)
	}
	sort.Strings(deps)
	return deps
}

// Neighbors returns the sorted union of dependencies and dependents.
func (g *RepoGraph) Neighbors(path string) []string {
	seen := make(map[string]struct{})
	for _, p := range g.DependenciesOf(path) {
		seen[p] = struct{}{}
	}
	for _, p := range g.DependentsOf(path) {
		seen[p] = struct{}{}
	}
	delete(seen, path)
	neighbors := make([]string, 0, len(seen))
	for p := range seen {
		neighbors = append(neighbors, p)
	}
	sort.Strings(neighbors)
	return neighbors
}

// TopFiles returns up to n nodes sorted by rank descending, path ascending
// on ties. n <= 0 returns all.
func (g *RepoGraph) TopFiles(n int) []FileNode {
	ranked := make([]FileNode, len(g.nodes))
	copy(ranked, g.nodes)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Rank != ranked[j].Rank {
			return ranked[i].Rank > ranked[j].Rank
		}
		return ranked[i].Path < ranked[j].Path
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// FocusOn re-ranks with the teleportation distribution biased toward files
// topologically close to anchor, so importance reflects local relevance
// rather than global centrality.
func (g *RepoGraph) FocusOn(anchor string) {
	if len(g.nodes) == 0 {
		return
	}
	teleport := make([]float64, len(g.nodes))
	for i := range g.nodes {
		if g.nodes[i].Path == anchor {
			teleport[i] = 1.0
			continue
		}
		teleport[i] = 1.0 / (1.0 + float64(locality.Distance(anchor, g.nodes[i].Path)))
	}
	g.applyRanks(pageRank(g.nodes, g.edges, teleport))
}

// LocalityEdges converts the edge list into the path-pair form consumed by
// the locality engine.
func (g *RepoGraph) LocalityEdges() []locality.Edge {
	edges := make([]locality.Edge, 0, len(g.edges))
	for i := range g.edges {
		e := &g.edges[i]
		edges = append(edges, locality.Edge{
			From:   g.nodes[e.From].Path,
			To:     g.nodes[e.To].Path,
			Weight: e.Weight,
		})
	}
	return edges
}

// Dependencies converts the edge list into the serializable RepoMap form.
func (g *RepoGraph) Dependencies() []model.Dependency {
	deps := make([]model.Dependency, 0, len(g.edges))
	for i := range g.edges {
		e := &g.edges[i]
		deps = append(deps, model.Dependency{
			Source:  g.nodes[e.From].Path,
			Target:  g.nodes[e.To].Path,
			Weight:  e.Weight,
			Symbols: e.Symbols,
		})
	}
	return deps
}

func (g *RepoGraph) applyRanks(ranks []float64) {
	for i := range g.nodes {
		g.nodes[i].Rank = ranks[i]
	}
}
