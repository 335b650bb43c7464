package graph

import (
	"math"
	"testing"

	"github.com/topolint/topolint/internal/model"
)

func buildFrom(files []model.FileInfo, imports [][2]string) *RepoGraph {
	b := NewBuilder()
	for i := range files {
		b.AddFile(files[i].Path, files[i].Language)
	}
	for i := range files {
		b.AddTags(files[i].Path, files[i].Tags)
	}
	for _, imp := range imports {
		b.AddImport(imp[0], imp[1])
	}
	return b.Build()
}

func TestBuildCrossFileRef(t *testing.T) {
	t.Parallel()

	g := buildFrom([]model.FileInfo{
		{
			Path:     "a.py",
			Language: "python",
			Tags: []model.Tag{
				{Name: "foo", Kind: model.Reference, SymbolKind: model.Function},
			},
		},
		{
			Path:     "b.py",
			Language: "python",
			Tags: []model.Tag{
				{Name: "foo", Kind: model.Definition, SymbolKind: model.Function},
			},
		},
	}, nil)

	deps := g.Dependencies()
	if len(deps) != 1 {
		t.Fatalf("expected 1 dep, got %d", len(deps))
	}
	if deps[0].Source != "a.py" || deps[0].Target != "b.py" {
		t.Errorf("dep: %+v", deps[0])
	}
	if len(deps[0].Symbols) != 1 || deps[0].Symbols[0] != "foo" {
		t.Errorf("symbols: %v", deps[0].Symbols)
	}
}

func TestBuildNoSelfEdgeFromSymbols(t *testing.T) {
	t.Parallel()

	g := buildFrom([]model.FileInfo{
		{
			Path:     "a.py",
			Language: "python",
			Tags: []model.Tag{
				{Name: "foo", Kind: model.Definition, SymbolKind: model.Function},
				{Name: "foo", Kind: model.Reference, SymbolKind: model.Function},
			},
		},
	}, nil)

	if n := len(g.Edges()); n != 0 {
		t.Errorf("expected 0 edges (no symbol self-edges), got %d", n)
	}
}

func TestBuildKeepsImportSelfLoop(t *testing.T) {
	t.Parallel()

	g := buildFrom([]model.FileInfo{
		{Path: "a.py", Language: "python"},
	}, [][2]string{{"a.py", "a.py"}})

	edges := g.Edges()
	if len(edges) != 1 {
		t.Fatalf("expected self-loop edge to survive, got %d edges", len(edges))
	}
	if edges[0].From != edges[0].To {
		t.Errorf("expected self-loop, got %+v", edges[0])
	}
}

func TestBuildUnresolvedRefDropped(t *testing.T) {
	t.Parallel()

	g := buildFrom([]model.FileInfo{
		{
			Path:     "a.py",
			Language: "python",
			Tags: []model.Tag{
				{Name: "foo", Kind: model.Reference, SymbolKind: model.Function},
			},
		},
	}, nil)

	if n := len(g.Edges()); n != 0 {
		t.Errorf("expected 0 edges (unresolved ref), got %d", n)
	}
}

func TestBuildModuleRefsSkipSymbolTable(t *testing.T) {
	t.Parallel()

	// Import tokens are resolved separately; they must not match a symbol
	// that happens to share the token's name.
	g := buildFrom([]model.FileInfo{
		{
			Path:     "a.py",
			Language: "python",
			Tags: []model.Tag{
				{Name: "util", Kind: model.Reference, SymbolKind: model.Module},
			},
		},
		{
			Path:     "b.py",
			Language: "python",
			Tags: []model.Tag{
				{Name: "util", Kind: model.Definition, SymbolKind: model.Function},
			},
		},
	}, nil)

	if n := len(g.Edges()); n != 0 {
		t.Errorf("expected module ref to bypass symbol matching, got %d edges", n)
	}
}

func TestBuildMergesImportAndSymbolWeight(t *testing.T) {
	t.Parallel()

	g := buildFrom([]model.FileInfo{
		{
			Path:     "a.py",
			Language: "python",
			Tags: []model.Tag{
				{Name: "foo", Kind: model.Reference, SymbolKind: model.Function},
			},
		},
		{
			Path:     "b.py",
			Language: "python",
			Tags: []model.Tag{
				{Name: "foo", Kind: model.Definition, SymbolKind: model.Function},
			},
		},
	}, [][2]string{{"a.py", "b.py"}})

	edges := g.Edges()
	if len(edges) != 1 {
		t.Fatalf("expected merged edge, got %d", len(edges))
	}
	if edges[0].Weight != 2 {
		t.Errorf("weight = %d, want 2 (one symbol match + one import)", edges[0].Weight)
	}
}

func TestRankUniformWithoutEdges(t *testing.T) {
	t.Parallel()

	g := buildFrom([]model.FileInfo{
		{Path: "a.py"}, {Path: "b.py"}, {Path: "c.py"},
	}, nil)

	expected := 1.0 / 3.0
	for _, n := range g.Nodes() {
		if math.Abs(n.Rank-expected) > 1e-9 {
			t.Errorf("%s rank = %f, want %f", n.Path, n.Rank, expected)
		}
	}
}

func TestRankSumsToOneAndFavorsHub(t *testing.T) {
	t.Parallel()

	g := buildFrom([]model.FileInfo{
		{Path: "a.py"}, {Path: "b.py"}, {Path: "c.py"},
	}, [][2]string{
		{"a.py", "b.py"},
		{"c.py", "b.py"},
	})

	var sum float64
	for _, n := range g.Nodes() {
		sum += n.Rank
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("ranks sum to %f, expected 1.0", sum)
	}

	top := g.TopFiles(1)
	if top[0].Path != "b.py" {
		t.Errorf("expected b.py ranked first, got %s", top[0].Path)
	}
}

func TestRankEmptyGraph(t *testing.T) {
	t.Parallel()
	g := NewBuilder().Build()
	if len(g.Nodes()) != 0 || len(g.Edges()) != 0 {
		t.Errorf("expected empty graph")
	}
}

func TestFocusOnBiasesTowardAnchor(t *testing.T) {
	t.Parallel()

	// Disconnected graph: without edges, rank follows the teleport
	// distribution, which must favor files near the anchor.
	g := buildFrom([]model.FileInfo{
		{Path: "pkg/a.py"},
		{Path: "pkg/b.py"},
		{Path: "far/away/deep/c.py"},
	}, nil)

	g.FocusOn("pkg/a.py")

	anchor, _ := g.NodeByPath("pkg/a.py")
	near, _ := g.NodeByPath("pkg/b.py")
	far, _ := g.NodeByPath("far/away/deep/c.py")

	if anchor.Rank <= near.Rank {
		t.Errorf("anchor rank %f should exceed neighbor rank %f", anchor.Rank, near.Rank)
	}
	if near.Rank <= far.Rank {
		t.Errorf("near rank %f should exceed far rank %f", near.Rank, far.Rank)
	}

	var sum float64
	for _, n := range g.Nodes() {
		sum += n.Rank
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("anchored ranks sum to %f, expected 1.0", sum)
	}
}

func TestQuerySurface(t *testing.T) {
	t.Parallel()

	g := buildFrom([]model.FileInfo{
		{Path: "a.py"}, {Path: "b.py"}, {Path: "c.py"},
	}, [][2]string{
		{"a.py", "b.py"},
		{"b.py", "c.py"},
	})

	if deps := g.DependenciesOf("a.py"); len(deps) != 1 || deps[0] != "b.py" {
		t.Errorf("DependenciesOf(a.py) = %v", deps)
	}
	if deps := g.DependentsOf("c.py"); len(deps) != 1 || deps[0] != "b.py" {
		t.Errorf("DependentsOf(c.py) = %v", deps)
	}
	neighbors := g.Neighbors("b.py")
	if len(neighbors) != 2 || neighbors[0] != "a.py" || neighbors[1] != "c.py" {
		t.Errorf("Neighbors(b.py) = %v", neighbors)
	}
	if deps := g.DependenciesOf("missing.py"); deps != nil {
		t.Errorf("expected nil for unknown path, got %v", deps)
	}
}
