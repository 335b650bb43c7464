package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/topolint/topolint/internal/config"
)

func TestInitWritesConfig(t *testing.T) {
	dir := t.TempDir()

	_, errOut, err := runApp(t, "init", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(errOut, "wrote") {
		t.Errorf("expected confirmation on stderr, got %q", errOut)
	}

	data, err := os.ReadFile(filepath.Join(dir, config.FileName))
	if err != nil {
		t.Fatalf("reading written config: %v", err)
	}
	if string(data) != config.DefaultYAML {
		t.Error("written config does not match the default template")
	}

	// the starter config must itself be loadable
	if _, err := config.Load(dir); err != nil {
		t.Errorf("loading the written config: %v", err)
	}
}

func TestInitDryRun(t *testing.T) {
	dir := t.TempDir()

	out, _, err := runApp(t, "init", "--dry-run", dir)
	if err != nil {
		t.Fatalf("init --dry-run: %v", err)
	}
	if out != config.DefaultYAML {
		t.Errorf("dry-run should print the template, got %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); !os.IsNotExist(err) {
		t.Error("dry-run must not write a file")
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte("mode: error\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runApp(t, "init", dir)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected refusal, got %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "mode: error\n" {
		t.Error("existing config must be left untouched")
	}
}

func TestInitForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte("mode: error\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runApp(t, "init", "--force", dir)
	if err != nil {
		t.Fatalf("init --force: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != config.DefaultYAML {
		t.Error("force should replace the existing config")
	}
}
