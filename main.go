// topolint validates a repository's dependency graph against an
// architectural locality policy and renders ranked repository maps.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/topolint/topolint/internal/config"
	"github.com/topolint/topolint/internal/discover"
	"github.com/topolint/topolint/internal/graph"
	"github.com/topolint/topolint/internal/lang"
	"github.com/topolint/topolint/internal/locality"
	"github.com/topolint/topolint/internal/model"
	"github.com/topolint/topolint/internal/parse"
	"github.com/topolint/topolint/internal/ranking"
	"github.com/topolint/topolint/internal/report"
	"github.com/topolint/topolint/internal/resolver"
	"github.com/topolint/topolint/internal/toon"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "topolint",
		Usage:   "dependency graph and architectural locality checks for source repositories",
		Version: version,
		Commands: []*cli.Command{
			scanCommand(),
			mapCommand(),
			queryCommand(),
			initCommand(),
		},
	}
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "validate every dependency edge against the locality policy",
		ArgsUsage: "[path]",
		Action: func(c *cli.Context) error {
			root, err := resolveRoot(c)
			if err != nil {
				return err
			}
			cfg, err := config.Load(root)
			if err != nil {
				return err
			}

			a, err := analyze(root, cfg)
			if err != nil {
				return err
			}
			printWarnings(c, a)

			vr := validate(a, cfg)
			rep := report.Build(vr, cfg.Policy())
			rep.Render(c.App.Writer)

			if !vr.IsClean() && cfg.Mode == "error" {
				return cli.Exit(fmt.Sprintf("%d of %d edges violate the locality policy", vr.FailedEdges, vr.TotalEdges), 1)
			}
			return nil
		},
	}
}

func mapCommand() *cli.Command {
	return &cli.Command{
		Name:      "map",
		Usage:     "print a ranked repository map in TOON format",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "top", Aliases: []string{"n"}, Usage: "limit the map to the top `N` files by rank"},
			&cli.StringFlag{Name: "anchor", Usage: "bias ranking toward files near `FILE`"},
			&cli.StringFlag{Name: "langs", Aliases: []string{"l"}, Usage: "comma-separated `LANGS` to include"},
			&cli.StringFlag{Name: "file", Usage: "only files whose path contains `SUBSTR`"},
			&cli.StringFlag{Name: "symbol", Usage: "only files defining a symbol containing `SUBSTR`"},
		},
		Action: func(c *cli.Context) error {
			root, err := resolveRoot(c)
			if err != nil {
				return err
			}
			cfg, err := config.Load(root)
			if err != nil {
				return err
			}
			if anchor := c.String("anchor"); anchor != "" {
				cfg.Anchor = anchor
			}
			if langs := c.String("langs"); langs != "" {
				cfg.Languages, err = parseLangs(langs)
				if err != nil {
					return err
				}
			}

			a, err := analyze(root, cfg)
			if err != nil {
				return err
			}
			printWarnings(c, a)

			rm := buildRepoMap(root, a, validate(a, cfg))
			if substr := c.String("file"); substr != "" {
				rm = ranking.FilterByFile(rm, substr)
			}
			if substr := c.String("symbol"); substr != "" {
				rm = ranking.FilterBySymbol(rm, substr)
			}
			rm = ranking.SelectFiles(rm, c.Int("top"))

			fmt.Fprintln(c.App.Writer, toon.Encode(rm))
			return nil
		},
	}
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "query the dependency graph",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "neighbors", Usage: "list files connected to `FILE` in either direction"},
			&cli.StringFlag{Name: "deps", Usage: "list files `FILE` depends on"},
			&cli.StringFlag{Name: "dependents", Usage: "list files depending on `FILE`"},
			&cli.IntFlag{Name: "top", Aliases: []string{"n"}, Value: 10, Usage: "with no other flag, list the top `N` files by rank"},
		},
		Action: func(c *cli.Context) error {
			root, err := resolveRoot(c)
			if err != nil {
				return err
			}
			cfg, err := config.Load(root)
			if err != nil {
				return err
			}
			a, err := analyze(root, cfg)
			if err != nil {
				return err
			}

			var paths []string
			switch {
			case c.String("neighbors") != "":
				paths, err = queryFile(a.graph, c.String("neighbors"), a.graph.Neighbors)
			case c.String("deps") != "":
				paths, err = queryFile(a.graph, c.String("deps"), a.graph.DependenciesOf)
			case c.String("dependents") != "":
				paths, err = queryFile(a.graph, c.String("dependents"), a.graph.DependentsOf)
			default:
				for _, n := range a.graph.TopFiles(c.Int("top")) {
					fmt.Fprintf(c.App.Writer, "%.4f  %s\n", n.Rank, n.Path)
				}
				return nil
			}
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(c.App.Writer, p)
			}
			return nil
		},
	}
}

func queryFile(g *graph.RepoGraph, file string, fn func(string) []string) ([]string, error) {
	if _, ok := g.NodeByPath(file); !ok {
		return nil, fmt.Errorf("%s: not in the dependency graph", file)
	}
	return fn(file), nil
}

func resolveRoot(c *cli.Context) (string, error) {
	root := "."
	if c.Args().Len() > 0 {
		root = c.Args().First()
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: not a directory", root)
	}
	return root, nil
}

func parseLangs(langs string) ([]string, error) {
	var out []string
	for _, name := range strings.Split(langs, ",") {
		name = strings.TrimSpace(name)
		if _, ok := lang.Languages[name]; !ok {
			return nil, fmt.Errorf("unsupported language %q", name)
		}
		out = append(out, name)
	}
	return out, nil
}

func printWarnings(c *cli.Context, a *analysis) {
	for _, w := range a.graph.Warnings() {
		fmt.Fprintf(c.App.ErrWriter, "warning: %s: %s\n", w.Path, w.Message)
	}
}

// analysis is the parsed, resolved, ranked state shared by every command.
type analysis struct {
	root  string
	files []model.FileInfo
	graph *graph.RepoGraph
}

// analyze runs the two-phase pipeline: parallel per-file parsing, then
// single-threaded graph assembly, import resolution, and ranking.
func analyze(root string, cfg config.Config) (*analysis, error) {
	entries, err := discover.Files(root, discover.Options{
		Languages:   cfg.Languages,
		Exclude:     cfg.Exclude,
		MaxFileSize: int64(cfg.MaxFileSize),
	})
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no parseable files found")
	}

	results := parseFiles(root, entries)

	b := graph.NewBuilder()
	res := resolver.New(root)

	var infos []model.FileInfo
	for i := range results {
		if results[i].err != nil {
			b.AddWarning(entries[i].Path, results[i].err.Error())
			continue
		}
		b.AddFile(results[i].info.Path, results[i].info.Language)
		infos = append(infos, results[i].info)
	}
	for i := range infos {
		fi := &infos[i]
		b.AddTags(fi.Path, fi.Tags)
		for j := range fi.Tags {
			t := &fi.Tags[j]
			if t.Kind == model.Reference && t.SymbolKind == model.Module {
				if target, ok := res.Resolve(fi.Path, fi.Language, t.Name); ok {
					b.AddImport(fi.Path, target)
				}
			}
		}
	}

	g := b.Build()
	if cfg.Anchor != "" {
		g.FocusOn(cfg.Anchor)
	}
	for i := range infos {
		if n, ok := g.NodeByPath(infos[i].Path); ok {
			infos[i].Rank = n.Rank
		}
	}
	return &analysis{root: root, files: infos, graph: g}, nil
}

type parseResult struct {
	info model.FileInfo
	err  error
}

type parserPair struct {
	lang   *lang.Language
	parser *sitter.Parser
	query  *sitter.Query
}

// parseFiles extracts tags from every file across a bounded worker pool.
// Each worker owns its parsers; results land in per-index slots, so the only
// shared state is the read-only input.
func parseFiles(root string, files []discover.FileEntry) []parseResult {
	results := make([]parseResult, len(files))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(files) {
		workers = len(files)
	}
	work := make(chan int)

	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			parsers := make(map[string]*parserPair)
			for idx := range work {
				f := files[idx]
				pp, ok := parsers[f.Language]
				if !ok {
					l := lang.Languages[f.Language]
					q, err := l.GetTagQuery()
					if err != nil {
						results[idx] = parseResult{err: fmt.Errorf("compiling %s query: %v", f.Language, err)}
						continue
					}
					pp = &parserPair{lang: l, parser: l.NewParser(), query: q}
					parsers[f.Language] = pp
				}

				source, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f.Path)))
				if err != nil {
					results[idx] = parseResult{err: err}
					continue
				}

				tags := parse.ExtractTags(pp.lang, pp.parser, pp.query, source, f.Path)
				results[idx] = parseResult{info: model.FileInfo{
					Path:     f.Path,
					Language: f.Language,
					Tags:     tags,
				}}
			}
			return nil
		})
	}

	for i := range files {
		work <- i
	}
	close(work)
	_ = eg.Wait()

	return results
}

// validate runs the locality engine over the graph's edge set.
func validate(a *analysis, cfg config.Config) *locality.ValidationReport {
	nodes := make([]string, 0, len(a.graph.Nodes()))
	for _, n := range a.graph.Nodes() {
		nodes = append(nodes, n.Path)
	}
	return locality.Validate(nodes, a.graph.LocalityEdges(), cfg.Policy())
}

// buildRepoMap assembles the serializable map, files sorted by rank.
func buildRepoMap(root string, a *analysis, vr *locality.ValidationReport) *model.RepoMap {
	files := make([]model.FileInfo, len(a.files))
	copy(files, a.files)
	sort.Slice(files, func(i, j int) bool {
		if files[i].Rank != files[j].Rank {
			return files[i].Rank > files[j].Rank
		}
		return files[i].Path < files[j].Path
	})

	rm := &model.RepoMap{
		RepoName:     filepath.Base(root),
		Root:         filepath.Base(root),
		Files:        files,
		Dependencies: a.graph.Dependencies(),
	}
	if vr != nil {
		rm.Identities = make(map[string]string, len(vr.Identities))
		for p, id := range vr.Identities {
			rm.Identities[p] = string(id)
		}
		rm.Layers = vr.Layers
	}
	return rm
}
