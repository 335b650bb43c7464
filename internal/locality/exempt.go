package locality

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExemptRule is a named predicate over edges. Rules run in slice order and
// the first match wins; the name is recorded for reporting.
type ExemptRule struct {
	Name  string
	Match func(e Edge) bool
}

// exemptRules assembles the rule chain from the policy: entry points first,
// then explicit patterns, then aggregator convention.
func exemptRules(cfg Config) []ExemptRule {
	bases := make(map[string]struct{}, len(cfg.AggregatorBases))
	for _, b := range cfg.AggregatorBases {
		bases[b] = struct{}{}
	}

	return []ExemptRule{
		{
			Name: "entry-point",
			Match: func(e Edge) bool {
				return matchesAny(cfg.EntryPoints, e.From)
			},
		},
		{
			Name: "exempt-pattern",
			Match: func(e Edge) bool {
				return matchesAny(cfg.ExemptPatterns, e.From) || matchesAny(cfg.ExemptPatterns, e.To)
			},
		},
		{
			Name: "aggregator",
			Match: func(e Edge) bool {
				return aggregates(e.To, e.From, bases) || aggregates(e.From, e.To, bases)
			},
		},
	}
}

func matchesAny(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, p); err == nil && ok {
			return true
		}
	}
	return false
}

// aggregates reports whether agg is an aggregator file whose subtree contains
// other. Three conventions are recognized: a configured base name such as
// __init__.py covering its own directory, an index.* file covering its own
// directory, and a Ruby file covering the directory named after it
// (lib/foo.rb aggregates lib/foo/).
func aggregates(agg, other string, bases map[string]struct{}) bool {
	base := path.Base(agg)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if _, ok := bases[base]; ok || stem == "index" {
		dir := path.Dir(agg)
		if dir == "." {
			return !strings.Contains(other, "/")
		}
		return strings.HasPrefix(other, dir+"/")
	}
	if ext == ".rb" {
		return strings.HasPrefix(other, strings.TrimSuffix(agg, ext)+"/")
	}
	return false
}
