// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// the analyzed repository map.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/topolint/topolint/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a RepoMap into TOON format. When the map carries identity
// and layer assignments, the files table gains those columns.
func Encode(rm *model.RepoMap) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("repo: %s", encodeValue(rm.RepoName)))
	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(rm.Root)))

	annotated := len(rm.Identities) > 0 || len(rm.Layers) > 0

	fileColumns := []string{"path", "language", "rank"}
	if annotated {
		fileColumns = append(fileColumns, "identity", "layer")
	}
	var fileRows [][]string
	for i := range rm.Files {
		fi := &rm.Files[i]
		row := []string{
			fi.Path,
			fi.Language,
			fmt.Sprintf("%.4f", fi.Rank),
		}
		if annotated {
			row = append(row, rm.Identities[fi.Path], layerCell(rm.Layers, fi.Path))
		}
		fileRows = append(fileRows, row)
	}
	parts = append(parts, formatTabular("files", fileColumns, fileRows))

	var symbolRows [][]string
	for i := range rm.Files {
		fi := &rm.Files[i]
		for j := range fi.Tags {
			tag := &fi.Tags[j]
			if tag.Kind == model.Definition {
				symbolRows = append(symbolRows, []string{
					fi.Path,
					tag.Name,
					string(tag.SymbolKind),
					fmt.Sprintf("%d", tag.Line),
					tag.Signature,
				})
			}
		}
	}
	parts = append(parts, formatTabular("symbols", []string{"file", "name", "kind", "line", "signature"}, symbolRows))

	var depRows [][]string
	for i := range rm.Dependencies {
		d := &rm.Dependencies[i]
		depRows = append(depRows, []string{
			d.Source,
			d.Target,
			fmt.Sprintf("%d", d.Weight),
			strings.Join(d.Symbols, " "),
		})
	}
	parts = append(parts, formatTabular("dependencies", []string{"source", "target", "weight", "symbols"}, depRows))

	return strings.Join(parts, "\n")
}

func layerCell(layers map[string]int, path string) string {
	if l, ok := layers[path]; ok {
		return fmt.Sprintf("%d", l)
	}
	return ""
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
