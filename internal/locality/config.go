package locality

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Config tunes the validation policy. Zero values are not usable directly;
// start from DefaultConfig and override.
type Config struct {
	// MaxCloseDistance is the largest tree distance an edge may span and
	// still pass unconditionally. The minimum possible distance between two
	// files is 2 (same directory).
	MaxCloseDistance int

	// HubFanIn is the minimum distinct fan-in for a file to qualify as a
	// stable hub. The same threshold, applied to fan-out, marks volatile
	// leaves.
	HubFanIn int

	// HubSkew is the minimum coupling skew K = ln((Ca+1)/(Ce+1)) for hub
	// status; -HubSkew is the ceiling for volatile leaves.
	HubSkew float64

	// GodViolationCeiling is the number of outbound violations a file may
	// accumulate before being reclassified as a god module. Zero means
	// derive it from graph density: max(3, 2*edges/nodes).
	GodViolationCeiling int

	// EntryPoints are doublestar globs matched against an edge's source
	// path; entry points may depend on anything.
	EntryPoints []string

	// ExemptPatterns are extra doublestar globs; an edge whose source or
	// target matches one passes as exempt.
	ExemptPatterns []string

	// AggregatorBases are file base names treated as package aggregators
	// (re-export surfaces). Edges between an aggregator and files in its
	// subtree are exempt.
	AggregatorBases []string
}

// DefaultConfig returns the policy used when no config file overrides it.
func DefaultConfig() Config {
	return Config{
		MaxCloseDistance: 2,
		HubFanIn:         3,
		HubSkew:          0.5,
		EntryPoints: []string{
			"main.go",
			"cmd/**",
			"main.py",
			"app.py",
			"bin/**",
		},
		AggregatorBases: []string{"__init__.py"},
	}
}

// Validate fails fast on a policy that would silently misbehave.
func (c Config) Validate() error {
	if c.MaxCloseDistance < 2 {
		return fmt.Errorf("max close distance %d below minimum possible distance 2", c.MaxCloseDistance)
	}
	if c.HubFanIn < 1 {
		return fmt.Errorf("hub fan-in threshold must be at least 1, got %d", c.HubFanIn)
	}
	if c.HubSkew < 0 {
		return fmt.Errorf("hub skew threshold must be non-negative, got %g", c.HubSkew)
	}
	if c.GodViolationCeiling < 0 {
		return fmt.Errorf("god module ceiling must be non-negative, got %d", c.GodViolationCeiling)
	}
	for _, p := range c.EntryPoints {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid entry point pattern %q", p)
		}
	}
	for _, p := range c.ExemptPatterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exempt pattern %q", p)
		}
	}
	return nil
}
