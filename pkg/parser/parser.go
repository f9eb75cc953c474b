// Package parser wraps tree-sitter parsing for C and C++ sources.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

// Language represents a supported source language.
type Language string

const (
	LangC       Language = "c"
	LangCPP     Language = "cpp"
	LangUnknown Language = "unknown"
)

// Parser wraps tree-sitter for C/C++ parsing.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	Tree     *sitter.Tree
	Language Language
	Source   []byte
	Path     string
}

// New creates a new parser instance.
func New() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// ParseFile parses a source file and returns the AST.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	lang := DetectLanguage(path)
	if lang == LangUnknown {
		return nil, fmt.Errorf("unsupported language for file: %s", path)
	}

	return p.Parse(source, lang, path)
}

// Parse parses source code with a specified language.
func (p *Parser) Parse(source []byte, lang Language, path string) (*ParseResult, error) {
	tsLang, err := GetTreeSitterLanguage(lang)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	return &ParseResult{
		Tree:     tree,
		Language: lang,
		Source:   source,
		Path:     path,
	}, nil
}

// GetTreeSitterLanguage returns the tree-sitter language for a Language enum.
func GetTreeSitterLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangC:
		return c.GetLanguage(), nil
	case LangCPP:
		return cpp.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// DetectLanguage determines the language from a file path.
// Headers default to C++ handling since the cpp grammar is a superset
// for the constructs this tool inspects.
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".c":
		return LangC
	case ".cpp", ".cc", ".cxx", ".c++":
		return LangCPP
	case ".h", ".hpp", ".hxx", ".hh", ".inl":
		return LangCPP
	default:
		return LangUnknown
	}
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// NodeVisitor is a function that visits AST nodes.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// KindVisitor visits AST nodes with the node kind resolved once per node
// to avoid repeated CGO calls.
type KindVisitor func(node *sitter.Node, kind NodeKind, source []byte) bool

// Walk traverses the AST calling visitor for each node.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}

	if !visitor(node, source) {
		return
	}

	for i, n := 0, int(node.ChildCount()); i < n; i++ {
		Walk(node.Child(i), source, visitor)
	}
}

// WalkKinds traverses the AST with node kinds resolved once per node.
func WalkKinds(node *sitter.Node, source []byte, visitor KindVisitor) {
	if node == nil {
		return
	}

	kind := KindOf(node)
	if !visitor(node, kind, source) {
		return
	}

	for i, n := 0, int(node.ChildCount()); i < n; i++ {
		WalkKinds(node.Child(i), source, visitor)
	}
}

// FindNodes returns all nodes matching a predicate.
func FindNodes(root *sitter.Node, source []byte, predicate func(*sitter.Node) bool) []*sitter.Node {
	var results []*sitter.Node
	Walk(root, source, func(node *sitter.Node, source []byte) bool {
		if predicate(node) {
			results = append(results, node)
		}
		return true
	})
	return results
}

// FindNodesByKind returns all nodes of a specific kind.
func FindNodesByKind(root *sitter.Node, source []byte, kind NodeKind) []*sitter.Node {
	return FindNodes(root, source, func(n *sitter.Node) bool {
		return KindOf(n) == kind
	})
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// StartLine returns the 1-based start line of a node.
func StartLine(node *sitter.Node) uint32 {
	return node.StartPoint().Row + 1
}

// EndLine returns the 1-based end line of a node.
func EndLine(node *sitter.Node) uint32 {
	return node.EndPoint().Row + 1
}

// FunctionNode represents a parsed function definition.
type FunctionNode struct {
	Name      string
	Signature string
	StartLine uint32
	EndLine   uint32
	IsStatic  bool
	Node      *sitter.Node
	Body      *sitter.Node
}

// GetFunctions extracts all function definitions from parsed code.
// Definitions without a resolvable name are skipped.
func GetFunctions(result *ParseResult) []FunctionNode {
	var functions []FunctionNode
	root := result.Tree.RootNode()

	WalkKinds(root, result.Source, func(node *sitter.Node, kind NodeKind, source []byte) bool {
		if kind != KindFunctionDefinition {
			return true
		}
		fn := extractFunction(node, source)
		if fn != nil {
			functions = append(functions, *fn)
		}
		return true
	})

	return functions
}

// extractFunction extracts function details from a function_definition node.
func extractFunction(node *sitter.Node, source []byte) *FunctionNode {
	name := FunctionName(node, source)
	if name == "" {
		return nil
	}

	fn := &FunctionNode{
		Name:      name,
		Signature: FunctionSignature(node, source),
		StartLine: StartLine(node),
		EndLine:   EndLine(node),
		IsStatic:  hasStaticSpecifier(node, source),
		Node:      node,
		Body:      node.ChildByFieldName("body"),
	}
	return fn
}

// FunctionName resolves the declared name of a function definition.
// Pointer and reference declarators are unwrapped until the inner
// function_declarator is reached; qualified names (Class::method,
// ns::fn) reduce to their last segment.
func FunctionName(node *sitter.Node, source []byte) string {
	decl := node.ChildByFieldName("declarator")
	for decl != nil {
		switch KindOf(decl) {
		case KindFunctionDeclarator:
			inner := decl.ChildByFieldName("declarator")
			if inner == nil {
				return ""
			}
			return declaratorName(inner, source)
		case KindPointerDeclarator, KindReferenceDeclarator:
			decl = decl.ChildByFieldName("declarator")
		default:
			return declaratorName(decl, source)
		}
	}
	return ""
}

// declaratorName reduces a declarator node to a bare identifier.
func declaratorName(node *sitter.Node, source []byte) string {
	text := GetNodeText(node, source)
	if text == "" {
		return ""
	}
	// Class::method and ns::fn keep only the member name.
	if idx := strings.LastIndex(text, "::"); idx >= 0 {
		text = text[idx+2:]
	}
	// Strip any parameter list that leaked into the declarator text.
	if idx := strings.Index(text, "("); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// FunctionSignature returns the declaration text of a function up to its body.
func FunctionSignature(node *sitter.Node, source []byte) string {
	body := node.ChildByFieldName("body")
	start := node.StartByte()
	end := node.EndByte()
	if body != nil {
		end = body.StartByte()
	}
	if start > end || end > uint32(len(source)) {
		return ""
	}
	sig := string(source[start:end])
	return strings.TrimSpace(strings.Join(strings.Fields(sig), " "))
}

// hasStaticSpecifier reports whether a definition carries a static
// storage class specifier.
func hasStaticSpecifier(node *sitter.Node, source []byte) bool {
	for i, n := 0, int(node.ChildCount()); i < n; i++ {
		child := node.Child(i)
		if KindOf(child) == KindStorageClassSpecifier && GetNodeText(child, source) == "static" {
			return true
		}
	}
	return false
}

// CallName reduces a call_expression's function node to a bare callee name.
// Member calls (obj.method(), p->method()) and qualified calls (ns::fn())
// reduce to the member name; template arguments are stripped. This means
// calls through different objects to same-named methods collapse to one
// name, which is a documented limitation of name-based matching.
func CallName(call *sitter.Node, source []byte) string {
	fnNode := call.ChildByFieldName("function")
	if fnNode == nil {
		return ""
	}
	text := GetNodeText(fnNode, source)
	if text == "" {
		return ""
	}
	if idx := strings.Index(text, "<"); idx > 0 {
		text = text[:idx]
	}
	text = strings.ReplaceAll(text, "->", ".")
	text = strings.ReplaceAll(text, "::", ".")
	if idx := strings.LastIndex(text, "."); idx >= 0 {
		text = text[idx+1:]
	}
	return strings.TrimSpace(text)
}
