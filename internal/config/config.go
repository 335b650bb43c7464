// Package config loads the scan policy from .topolint.yml, with environment
// overrides for the settings that vary per invocation.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/topolint/topolint/internal/lang"
	"github.com/topolint/topolint/internal/locality"
)

// FileName is the config file looked up at the scan root.
const FileName = ".topolint.yml"

// DefaultMaxFileSize caps parsed files at 1 MB.
const DefaultMaxFileSize = 1_000_000

// Config is the full scan policy as it appears in .topolint.yml.
type Config struct {
	MaxCloseDistance    int      `yaml:"max_close_distance"`
	HubFanIn            int      `yaml:"hub_fan_in"`
	HubSkew             float64  `yaml:"hub_skew"`
	GodViolationCeiling int      `yaml:"god_violation_ceiling"`
	Mode                string   `yaml:"mode"`
	Anchor              string   `yaml:"anchor"`
	Languages           []string `yaml:"languages"`
	Exclude             []string `yaml:"exclude"`
	EntryPoints         []string `yaml:"entry_points"`
	ExemptPatterns      []string `yaml:"exempt_patterns"`
	MaxFileSize         int      `yaml:"max_file_size"`
}

// Default returns the policy used when no config file is present.
func Default() Config {
	p := locality.DefaultConfig()
	return Config{
		MaxCloseDistance: p.MaxCloseDistance,
		HubFanIn:         p.HubFanIn,
		HubSkew:          p.HubSkew,
		Mode:             "warn",
		EntryPoints:      p.EntryPoints,
		MaxFileSize:      DefaultMaxFileSize,
	}
}

// Load reads .topolint.yml from root if present, falling back to Default.
// A .env file at root is loaded first, then TOPOLINT_MODE and TOPOLINT_ANCHOR
// override whatever the file says. The returned config is validated.
func Load(root string) (Config, error) {
	_ = godotenv.Load(filepath.Join(root, ".env"))

	cfg := Default()
	data, err := os.ReadFile(filepath.Join(root, FileName))
	switch {
	case err == nil:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults apply
	default:
		return Config{}, fmt.Errorf("reading %s: %w", FileName, err)
	}

	if mode := os.Getenv("TOPOLINT_MODE"); mode != "" {
		cfg.Mode = mode
	}
	if anchor := os.Getenv("TOPOLINT_ANCHOR"); anchor != "" {
		cfg.Anchor = anchor
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate fails fast on values that would make the scan lie.
func (c Config) Validate() error {
	if c.Mode != "warn" && c.Mode != "error" {
		return fmt.Errorf("mode must be \"warn\" or \"error\", got %q", c.Mode)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must be non-negative, got %d", c.MaxFileSize)
	}
	return c.Policy().Validate()
}

// Policy converts the file-level config into the validation policy.
// Aggregator names come from the language registry, not the config file.
func (c Config) Policy() locality.Config {
	bases := make([]string, 0, 1)
	for b := range lang.AggregatorBases() {
		bases = append(bases, b)
	}
	sort.Strings(bases)

	return locality.Config{
		MaxCloseDistance:    c.MaxCloseDistance,
		HubFanIn:            c.HubFanIn,
		HubSkew:             c.HubSkew,
		GodViolationCeiling: c.GodViolationCeiling,
		EntryPoints:         c.EntryPoints,
		ExemptPatterns:      c.ExemptPatterns,
		AggregatorBases:     bases,
	}
}

// DefaultYAML is the commented starter config written by `topolint init`.
const DefaultYAML = `# topolint configuration
# See each key's comment for what it controls; delete a key to use its default.

# Largest directory-tree distance an import may span and still pass
# unconditionally. Files in the same directory are at distance 2.
max_close_distance: 2

# Minimum distinct fan-in for a file to count as a stable hub; the same
# threshold on fan-out marks volatile leaves.
hub_fan_in: 3

# Minimum coupling skew ln((fan_in+1)/(fan_out+1)) for hub status.
hub_skew: 0.5

# Outbound violations a file may accumulate before being flagged as a god
# module. 0 derives a ceiling from graph density.
god_violation_ceiling: 0

# warn: report findings and exit 0. error: exit 1 when any edge fails.
mode: warn

# Bias importance ranking toward files near this path (empty = global rank).
anchor: ""

# Restrict the scan to these languages (empty = all supported).
languages: []

# Glob patterns (doublestar) excluded from discovery.
exclude: []

# Files matching these globs may depend on anything.
entry_points:
  - main.go
  - cmd/**
  - main.py
  - app.py
  - bin/**

# Edges touching files matching these globs always pass.
exempt_patterns: []

# Skip files larger than this many bytes.
max_file_size: 1000000
`
