package extract

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/seam-dev/seam/pkg/parser"
)

// Operation classifies a global access site.
type Operation string

const (
	OpRead  Operation = "read"
	OpWrite Operation = "write"
	// OpReadWrite covers sites that do both: increments, decrements,
	// and compound assignments.
	OpReadWrite Operation = "read_write"
)

// GlobalAccess describes how a function touches a file-scope variable.
type GlobalAccess struct {
	Name      string    `json:"name"`
	Line      int       `json:"line"`
	Operation Operation `json:"operation"`
}

// Globals walks a function body and reports identifiers that look like
// globals: names declared at file scope, plus conventional g_/s_
// prefixes and ALL_CAPS names that are not known macros. Parameters
// and locals are excluded.
func Globals(body *sitter.Node, source []byte, fileScope map[string]bool, macros map[string]bool) []GlobalAccess {
	if body == nil {
		return nil
	}

	locals := localNames(body, source)

	var accesses []GlobalAccess
	seen := make(map[string]bool)
	parser.WalkKinds(body, source, func(node *sitter.Node, kind parser.NodeKind, src []byte) bool {
		if kind != parser.KindIdentifier {
			return true
		}
		name := parser.GetNodeText(node, src)
		if name == "" || locals[name] {
			return true
		}
		if !isGlobalName(name, fileScope, macros) {
			return true
		}
		op := accessOperation(node, src)
		key := name + "\x00" + string(op)
		if seen[key] {
			return true
		}
		seen[key] = true
		accesses = append(accesses, GlobalAccess{
			Name:      name,
			Line:      int(parser.StartLine(node)),
			Operation: op,
		})
		return true
	})

	sort.Slice(accesses, func(i, j int) bool {
		if accesses[i].Name != accesses[j].Name {
			return accesses[i].Name < accesses[j].Name
		}
		return accesses[i].Line < accesses[j].Line
	})
	return accesses
}

// FileScopeNames collects variable names declared at translation-unit
// level, for feeding the file-scope set of Globals.
func FileScopeNames(result *parser.ParseResult) map[string]bool {
	names := make(map[string]bool)
	if result == nil || result.Tree == nil {
		return names
	}
	root := result.Tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if parser.KindOf(child) != parser.KindDeclaration {
			continue
		}
		if decl := child.ChildByFieldName("declarator"); decl != nil {
			if name := declaredName(decl, result.Source); name != "" {
				names[name] = true
			}
		}
	}
	return names
}

func isGlobalName(name string, fileScope, macros map[string]bool) bool {
	if macros[name] {
		return false
	}
	if fileScope[name] {
		return true
	}
	if strings.HasPrefix(name, "g_") || strings.HasPrefix(name, "s_") {
		return true
	}
	return isAllCaps(name)
}

func isAllCaps(name string) bool {
	if len(name) < 3 {
		return false
	}
	hasLetter := false
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r == '_' || (r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return hasLetter
}

// localNames collects parameter and local declaration names so they can
// be masked out of the identifier walk.
func localNames(body *sitter.Node, source []byte) map[string]bool {
	names := make(map[string]bool)

	// Parameters live on the function_declarator, a sibling of the
	// body. Walk up to the function definition and scan it whole.
	root := body
	for root.Parent() != nil && parser.KindOf(root) != parser.KindFunctionDefinition {
		root = root.Parent()
	}

	parser.WalkKinds(root, source, func(node *sitter.Node, kind parser.NodeKind, src []byte) bool {
		switch kind {
		case parser.KindParameterDeclaration, parser.KindDeclaration:
			if decl := node.ChildByFieldName("declarator"); decl != nil {
				if name := declaredName(decl, src); name != "" {
					names[name] = true
				}
			}
		}
		return true
	})

	return names
}

// declaredName digs through pointer, array and init declarators to the
// bare identifier.
func declaredName(node *sitter.Node, source []byte) string {
	for node != nil {
		switch parser.KindOf(node) {
		case parser.KindIdentifier:
			return parser.GetNodeText(node, source)
		}
		next := node.ChildByFieldName("declarator")
		if next == nil {
			// init_declarator without a field name on some grammars.
			if node.NamedChildCount() > 0 {
				next = node.NamedChild(0)
			}
		}
		if next == node {
			return ""
		}
		node = next
	}
	return ""
}

// accessOperation classifies the identifier's access site. Plain
// assignment targets are writes; increments, decrements, and compound
// assignments read the old value too.
func accessOperation(node *sitter.Node, source []byte) Operation {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		switch parser.KindOf(parent) {
		case parser.KindAssignmentExpression:
			left := parent.ChildByFieldName("left")
			if left == nil || !containsNode(left, node) {
				return OpRead
			}
			if op := parent.ChildByFieldName("operator"); op != nil && parser.GetNodeText(op, source) != "=" {
				return OpReadWrite
			}
			return OpWrite
		case parser.KindUpdateExpression:
			return OpReadWrite
		case parser.KindCallExpression, parser.KindFunctionDefinition:
			return OpRead
		}
	}
	return OpRead
}

func containsNode(parent, node *sitter.Node) bool {
	return node.StartByte() >= parent.StartByte() && node.EndByte() <= parent.EndByte()
}
