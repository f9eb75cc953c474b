// Package index builds the per-file symbol table that every other
// analyzer consumes: functions with their call sites, and type-level
// definitions.
package index

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/seam-dev/seam/pkg/parser"
)

// Analyzer indexes a single file's symbols.
type Analyzer struct {
	parser *parser.Parser
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// New creates a new index analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		parser: parser.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile parses and indexes a single file.
func (a *Analyzer) AnalyzeFile(path string) (*Index, *parser.ParseResult, error) {
	result, err := a.parser.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	return Build(result), result, nil
}

// Close releases analyzer resources.
func (a *Analyzer) Close() {
	a.parser.Close()
}

// Build indexes an already-parsed file. A tree with syntax errors still
// yields whatever symbols tree-sitter recovered; the index is never nil.
func Build(result *parser.ParseResult) *Index {
	ix := &Index{
		Path:       result.Path,
		Language:   result.Language,
		Functions:  make(map[string]FunctionRecord),
		Structures: make(map[string]StructureRecord),
	}

	for _, fn := range parser.GetFunctions(result) {
		if _, exists := ix.Functions[fn.Name]; exists {
			continue
		}
		ix.Functions[fn.Name] = FunctionRecord{
			Name:      fn.Name,
			Signature: fn.Signature,
			StartLine: fn.StartLine,
			EndLine:   fn.EndLine,
			IsStatic:  fn.IsStatic,
			Calls:     collectCalls(fn.Body, result.Source),
			Node:      fn.Node,
			Body:      fn.Body,
		}
		ix.FunctionOrder = append(ix.FunctionOrder, fn.Name)
	}

	collectStructures(result, ix)

	return ix
}

// collectCalls gathers call sites from a function body in source order.
func collectCalls(body *sitter.Node, source []byte) []CallSite {
	if body == nil {
		return nil
	}

	var calls []CallSite
	parser.WalkKinds(body, source, func(node *sitter.Node, kind parser.NodeKind, src []byte) bool {
		if kind != parser.KindCallExpression {
			return true
		}
		name := parser.CallName(node, src)
		if name != "" {
			calls = append(calls, CallSite{Name: name, Line: parser.StartLine(node)})
		}
		return true
	})
	return calls
}

// collectStructures records struct/class/enum definitions and typedefs.
// Forward declarations (no body) are skipped.
func collectStructures(result *parser.ParseResult, ix *Index) {
	root := result.Tree.RootNode()

	parser.WalkKinds(root, result.Source, func(node *sitter.Node, kind parser.NodeKind, src []byte) bool {
		var structKind StructureKind
		switch kind {
		case parser.KindStructSpecifier:
			structKind = KindStruct
		case parser.KindClassSpecifier:
			structKind = KindClass
		case parser.KindEnumSpecifier:
			structKind = KindEnum
		case parser.KindTypeDefinition:
			structKind = KindTypedef
		default:
			return true
		}

		name := structureName(node, kind, src)
		if name == "" {
			return true
		}
		if structKind != KindTypedef && node.ChildByFieldName("body") == nil {
			return true
		}
		if _, exists := ix.Structures[name]; exists {
			return true
		}

		ix.Structures[name] = StructureRecord{
			Name:       name,
			Kind:       structKind,
			StartLine:  parser.StartLine(node),
			EndLine:    parser.EndLine(node),
			Definition: truncateDefinition(parser.GetNodeText(node, src)),
		}
		return true
	})
}

// structureName resolves the declared name of a type node.
func structureName(node *sitter.Node, kind parser.NodeKind, source []byte) string {
	if kind == parser.KindTypeDefinition {
		// typedef ... Name; the name is the declarator.
		if decl := node.ChildByFieldName("declarator"); decl != nil {
			return parser.GetNodeText(decl, source)
		}
		return ""
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return parser.GetNodeText(nameNode, source)
	}
	return ""
}

// truncateDefinition caps stored definition text at MaxDefinitionChars.
func truncateDefinition(text string) string {
	if len(text) <= MaxDefinitionChars {
		return text
	}
	return text[:MaxDefinitionChars] + "..."
}
