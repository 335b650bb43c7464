// Package resolver maps raw import tokens to repository-relative file paths
// using language-specific resolution conventions. Tokens that do not resolve
// to a file inside the repository are reported as unresolved and dropped by
// the caller; only intra-repository dependencies are in scope.
package resolver

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
)

var goModuleRe = regexp.MustCompile(`(?m)^module\s+(\S+)`)

// Resolver resolves import tokens against a repository root.
type Resolver struct {
	root string

	goModOnce sync.Once
	goModule  string
}

// New creates a resolver for the repository rooted at root.
func New(root string) *Resolver {
	return &Resolver{root: root}
}

// Resolve maps an import token found in currentFile (repo-relative, slash
// separated) to the repo-relative path of the imported file. The boolean is
// false when the token points outside the repository or cannot be resolved.
func (r *Resolver) Resolve(currentFile, language, token string) (string, bool) {
	switch language {
	case "go":
		return r.resolveGo(token)
	case "python":
		return r.resolvePython(currentFile, token)
	case "ruby":
		return r.resolveRuby(currentFile, token)
	}
	return "", false
}

// resolveGo maps an intra-module import path to the imported package's
// anchor file. External imports (paths outside the module) do not resolve.
func (r *Resolver) resolveGo(token string) (string, bool) {
	module := r.goModulePath()
	if module == "" {
		return "", false
	}

	var relDir string
	switch {
	case token == module:
		relDir = "."
	case strings.HasPrefix(token, module+"/"):
		relDir = strings.TrimPrefix(token, module+"/")
	default:
		return "", false
	}

	return r.goPackageAnchor(relDir)
}

// goPackageAnchor picks a single representative file for a package
// directory: <dirname>.go, then doc.go, then the first .go file in sorted
// order (test files excluded).
func (r *Resolver) goPackageAnchor(relDir string) (string, bool) {
	dir := filepath.Join(r.root, filepath.FromSlash(relDir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var goFiles []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		goFiles = append(goFiles, name)
	}
	if len(goFiles) == 0 {
		return "", false
	}
	sort.Strings(goFiles)

	base := path.Base(relDir) + ".go"
	for _, preferred := range []string{base, "doc.go"} {
		for _, name := range goFiles {
			if name == preferred {
				return joinRel(relDir, name), true
			}
		}
	}
	return joinRel(relDir, goFiles[0]), true
}

// resolvePython handles absolute dotted imports from the repository root and
// relative imports (leading dots) from the importing file's directory.
// Both "a/b.py" and "a/b/__init__.py" layouts are checked.
func (r *Resolver) resolvePython(currentFile, token string) (string, bool) {
	if token == "" {
		return "", false
	}

	if strings.HasPrefix(token, ".") {
		dots := 0
		for dots < len(token) && token[dots] == '.' {
			dots++
		}
		dir := path.Dir(currentFile)
		for i := 1; i < dots; i++ {
			if dir == "." {
				return "", false
			}
			dir = path.Dir(dir)
		}
		rest := token[dots:]
		if rest == "" {
			return "", false
		}
		return r.checkVariations(dir, strings.Split(rest, "."), ".py", "__init__.py")
	}

	return r.checkVariations(".", strings.Split(token, "."), ".py", "__init__.py")
}

// resolveRuby handles require_relative-style sibling paths and plain require
// against lib/ and the repository root.
func (r *Resolver) resolveRuby(currentFile, token string) (string, bool) {
	token = strings.TrimSuffix(token, ".rb")

	if strings.HasPrefix(token, ".") {
		candidate := path.Join(path.Dir(currentFile), token) + ".rb"
		if r.exists(candidate) {
			return candidate, true
		}
		return "", false
	}

	// require_relative without a leading dot still resolves next to the
	// requiring file; plain require is tried against lib/ and the root.
	for _, candidate := range []string{
		path.Join(path.Dir(currentFile), token) + ".rb",
		path.Join("lib", token) + ".rb",
		token + ".rb",
	} {
		if r.exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// checkVariations tries base/parts.ext and base/parts/indexName, mirroring
// module-vs-package layouts.
func (r *Resolver) checkVariations(base string, parts []string, ext, indexName string) (string, bool) {
	rel := base
	for _, p := range parts {
		if p == "" {
			return "", false
		}
		rel = path.Join(rel, p)
	}

	if file := rel + ext; r.exists(file) {
		return file, true
	}
	if index := path.Join(rel, indexName); r.exists(index) {
		return index, true
	}
	return "", false
}

func (r *Resolver) goModulePath() string {
	r.goModOnce.Do(func() {
		data, err := os.ReadFile(filepath.Join(r.root, "go.mod"))
		if err != nil {
			return
		}
		if m := goModuleRe.FindSubmatch(data); m != nil {
			r.goModule = string(m[1])
		}
	})
	return r.goModule
}

func (r *Resolver) exists(rel string) bool {
	info, err := os.Stat(filepath.Join(r.root, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}

func joinRel(dir, name string) string {
	if dir == "." || dir == "" {
		return name
	}
	return path.Join(dir, name)
}
