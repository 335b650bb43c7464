package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveGoIntraModule(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/app\n\ngo 1.25\n")
	writeFile(t, dir, "internal/store/store.go", "package store")
	writeFile(t, dir, "internal/store/extra.go", "package store")

	r := New(dir)

	got, ok := r.Resolve("main.go", "go", "example.com/app/internal/store")
	require.True(t, ok)
	assert.Equal(t, "internal/store/store.go", got, "prefers the file named after the package directory")

	_, ok = r.Resolve("main.go", "go", "github.com/other/dep")
	assert.False(t, ok, "external imports do not resolve")
}

func TestResolveGoAnchorFallbacks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/app\n")
	writeFile(t, dir, "pkg/util/doc.go", "package util")
	writeFile(t, dir, "pkg/util/helpers.go", "package util")
	writeFile(t, dir, "pkg/util/helpers_test.go", "package util")

	r := New(dir)
	got, ok := r.Resolve("main.go", "go", "example.com/app/pkg/util")
	require.True(t, ok)
	assert.Equal(t, "pkg/util/doc.go", got, "doc.go beats an arbitrary first file")
}

func TestResolvePythonAbsolute(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "app/models.py", "")
	writeFile(t, dir, "app/services/__init__.py", "")

	r := New(dir)

	got, ok := r.Resolve("main.py", "python", "app.models")
	require.True(t, ok)
	assert.Equal(t, "app/models.py", got)

	got, ok = r.Resolve("main.py", "python", "app.services")
	require.True(t, ok)
	assert.Equal(t, "app/services/__init__.py", got, "package imports land on __init__.py")
}

func TestResolvePythonRelative(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "app/models.py", "")
	writeFile(t, dir, "app/sub/handler.py", "")
	writeFile(t, dir, "shared.py", "")

	r := New(dir)

	got, ok := r.Resolve("app/views.py", "python", ".models")
	require.True(t, ok)
	assert.Equal(t, "app/models.py", got)

	got, ok = r.Resolve("app/sub/handler.py", "python", "..models")
	require.True(t, ok)
	assert.Equal(t, "app/models.py", got)

	_, ok = r.Resolve("app/views.py", "python", "os.path")
	assert.False(t, ok, "stdlib imports do not resolve")
}

func TestResolveRuby(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "lib/parser.rb", "")
	writeFile(t, dir, "lib/parser/token.rb", "")
	writeFile(t, dir, "app.rb", "")

	r := New(dir)

	got, ok := r.Resolve("lib/lexer.rb", "ruby", "./parser")
	require.True(t, ok)
	assert.Equal(t, "lib/parser.rb", got)

	got, ok = r.Resolve("app.rb", "ruby", "parser")
	require.True(t, ok)
	assert.Equal(t, "lib/parser.rb", got, "plain require falls back to lib/")

	got, ok = r.Resolve("lib/parser.rb", "ruby", "parser/token")
	require.True(t, ok)
	assert.Equal(t, "lib/parser/token.rb", got)

	_, ok = r.Resolve("app.rb", "ruby", "json")
	assert.False(t, ok, "gems do not resolve")
}

func TestResolveUnknownLanguage(t *testing.T) {
	t.Parallel()

	r := New(t.TempDir())
	_, ok := r.Resolve("a.js", "javascript", "./b")
	assert.False(t, ok)
}
