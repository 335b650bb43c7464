// Package ranking implements budget-aware selection over an analyzed repo
// map: top-N by importance, plus substring filters for the query surface.
package ranking

import (
	"strings"

	"github.com/topolint/topolint/internal/model"
)

// SelectFiles returns a new RepoMap with only the top-ranked files. Files
// must already be sorted by rank. If maxFiles is <= 0 or >= len(files), the
// map is returned unchanged.
func SelectFiles(rm *model.RepoMap, maxFiles int) *model.RepoMap {
	if maxFiles <= 0 || maxFiles >= len(rm.Files) {
		return rm
	}

	selected := rm.Files[:maxFiles]
	selectedPaths := make(map[string]struct{}, maxFiles)
	for i := range selected {
		selectedPaths[selected[i].Path] = struct{}{}
	}

	var deps []model.Dependency
	for i := range rm.Dependencies {
		d := &rm.Dependencies[i]
		_, srcOK := selectedPaths[d.Source]
		_, tgtOK := selectedPaths[d.Target]
		if srcOK && tgtOK {
			deps = append(deps, *d)
		}
	}

	return &model.RepoMap{
		RepoName:     rm.RepoName,
		Root:         rm.Root,
		Files:        selected,
		Dependencies: deps,
		Identities:   filterKeys(rm.Identities, selectedPaths),
		Layers:       filterKeys(rm.Layers, selectedPaths),
	}
}

// FilterBySymbol returns a new RepoMap containing only files that define a
// symbol whose name contains substr (case-insensitive), with each file's tag
// list trimmed to the matching definitions and only the dependency edges
// carrying a matched symbol.
func FilterBySymbol(rm *model.RepoMap, substr string) *model.RepoMap {
	lower := strings.ToLower(substr)

	matchedSymbols := make(map[string]struct{})
	matchedPaths := make(map[string]struct{})
	var files []model.FileInfo
	for i := range rm.Files {
		var kept []model.Tag
		for j := range rm.Files[i].Tags {
			tag := &rm.Files[i].Tags[j]
			if tag.Kind == model.Definition && strings.Contains(strings.ToLower(tag.Name), lower) {
				matchedSymbols[tag.Name] = struct{}{}
				kept = append(kept, *tag)
			}
		}
		if len(kept) > 0 {
			fi := rm.Files[i]
			fi.Tags = kept
			files = append(files, fi)
			matchedPaths[fi.Path] = struct{}{}
		}
	}

	var deps []model.Dependency
	for i := range rm.Dependencies {
		d := &rm.Dependencies[i]
		for _, s := range d.Symbols {
			if _, ok := matchedSymbols[s]; ok {
				deps = append(deps, *d)
				break
			}
		}
	}

	return &model.RepoMap{
		RepoName:     rm.RepoName,
		Root:         rm.Root,
		Files:        files,
		Dependencies: deps,
		Identities:   filterKeys(rm.Identities, matchedPaths),
		Layers:       filterKeys(rm.Layers, matchedPaths),
	}
}

// FilterByFile returns a new RepoMap containing only files whose path
// contains substr (case-insensitive), with every dependency edge touching
// one of them.
func FilterByFile(rm *model.RepoMap, substr string) *model.RepoMap {
	lower := strings.ToLower(substr)

	matchedPaths := make(map[string]struct{})
	var files []model.FileInfo
	for i := range rm.Files {
		if strings.Contains(strings.ToLower(rm.Files[i].Path), lower) {
			matchedPaths[rm.Files[i].Path] = struct{}{}
			files = append(files, rm.Files[i])
		}
	}

	var deps []model.Dependency
	for i := range rm.Dependencies {
		d := &rm.Dependencies[i]
		_, srcOK := matchedPaths[d.Source]
		_, tgtOK := matchedPaths[d.Target]
		if srcOK || tgtOK {
			deps = append(deps, *d)
		}
	}

	return &model.RepoMap{
		RepoName:     rm.RepoName,
		Root:         rm.Root,
		Files:        files,
		Dependencies: deps,
		Identities:   filterKeys(rm.Identities, matchedPaths),
		Layers:       filterKeys(rm.Layers, matchedPaths),
	}
}

func filterKeys[V any](m map[string]V, keep map[string]struct{}) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V)
	for k, v := range m {
		if _, ok := keep[k]; ok {
			out[k] = v
		}
	}
	return out
}
