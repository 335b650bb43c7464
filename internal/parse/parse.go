// Package parse extracts tags from source files using tree-sitter.
package parse

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/topolint/topolint/internal/lang"
	"github.com/topolint/topolint/internal/model"
)

var captureMap = map[string]struct {
	Kind       model.TagKind
	SymbolKind model.SymbolKind
}{
	"definition.class":    {model.Definition, model.Class},
	"definition.function": {model.Definition, model.Function},
	"reference.call":      {model.Reference, model.Function},
	"reference.import":    {model.Reference, model.Module},
}

// ExtractTags parses a source file and returns definition and reference tags.
// The parser must be created for l's grammar; filePath is used only for
// Tag.File and should be the repo-relative path. Returns nil when the file
// cannot be parsed; the caller records a warning and skips the file.
func ExtractTags(l *lang.Language, parser *sitter.Parser, query *sitter.Query, source []byte, filePath string) []model.Tag {
	if len(source) == 0 {
		return nil
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var tags []model.Tag

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		// Find the @name capture and the pattern capture
		var nameNode *sitter.Node
		var captureName string
		var defNode *sitter.Node

		for _, c := range match.Captures {
			cname := query.CaptureNameForId(c.Index)
			if cname == "name" {
				nameNode = c.Node
			} else if _, ok := captureMap[cname]; ok {
				captureName = cname
				defNode = c.Node
			}
		}

		if nameNode == nil || captureName == "" || defNode == nil {
			continue
		}

		cm := captureMap[captureName]
		tagKind := cm.Kind
		symbolKind := cm.SymbolKind
		nameText := lang.NodeText(nameNode, source)

		effectiveName := nameText

		if tagKind == model.Reference && symbolKind == model.Module {
			// Import tokens may be captured as quoted string literals.
			effectiveName = strings.Trim(nameText, `"'`)
			if effectiveName == "" {
				continue
			}
		}

		if tagKind == model.Definition && symbolKind == model.Function {
			if l.FindMethodClass != nil {
				if className := l.FindMethodClass(defNode, source); className != "" {
					symbolKind = model.Method
					effectiveName = className + "." + nameText
				}
			}
			if symbolKind == model.Function && l.FindReceiverType != nil {
				if recv := l.FindReceiverType(defNode, source); recv != "" {
					symbolKind = model.Method
					effectiveName = recv + "." + nameText
				}
			}
		}

		var signature string
		if tagKind == model.Definition && l.ExtractSignature != nil {
			signature = l.ExtractSignature(defNode, symbolKind, source)
		}

		tags = append(tags, model.Tag{
			Name:       effectiveName,
			Kind:       tagKind,
			SymbolKind: symbolKind,
			Line:       int(nameNode.StartPoint().Row) + 1,
			File:       filePath,
			Signature:  signature,
		})
	}

	return tags
}
