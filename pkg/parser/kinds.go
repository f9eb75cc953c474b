package parser

import sitter "github.com/smacker/go-tree-sitter"

// NodeKind is a closed enum over the grammar node types this tool
// inspects. Callers match on kinds instead of raw type strings so a
// grammar rename breaks in one place.
type NodeKind int

const (
	KindOther NodeKind = iota
	KindFunctionDefinition
	KindFunctionDeclarator
	KindPointerDeclarator
	KindReferenceDeclarator
	KindStorageClassSpecifier
	KindCallExpression
	KindStructSpecifier
	KindClassSpecifier
	KindEnumSpecifier
	KindTypeDefinition
	KindIdentifier
	KindFieldIdentifier
	KindTypeIdentifier
	KindIfStatement
	KindElseClause
	KindSwitchStatement
	KindCaseStatement
	KindForStatement
	KindWhileStatement
	KindDoStatement
	KindConditionalExpression
	KindBinaryExpression
	KindReturnStatement
	KindCompoundStatement
	KindParameterList
	KindDeclaration
	KindInitDeclarator
	KindConditionClause
	KindParenthesizedExpression
	KindAssignmentExpression
	KindUpdateExpression
	KindEnumerator
	KindParameterDeclaration
	KindComment
	KindPreprocDef
	KindPreprocFunctionDef
	KindTranslationUnit
)

var kindByType = map[string]NodeKind{
	"function_definition":      KindFunctionDefinition,
	"function_declarator":      KindFunctionDeclarator,
	"pointer_declarator":       KindPointerDeclarator,
	"reference_declarator":     KindReferenceDeclarator,
	"storage_class_specifier":  KindStorageClassSpecifier,
	"call_expression":          KindCallExpression,
	"struct_specifier":         KindStructSpecifier,
	"class_specifier":          KindClassSpecifier,
	"enum_specifier":           KindEnumSpecifier,
	"type_definition":          KindTypeDefinition,
	"identifier":               KindIdentifier,
	"field_identifier":         KindFieldIdentifier,
	"type_identifier":          KindTypeIdentifier,
	"if_statement":             KindIfStatement,
	"else_clause":              KindElseClause,
	"switch_statement":         KindSwitchStatement,
	"case_statement":           KindCaseStatement,
	"for_statement":            KindForStatement,
	"while_statement":          KindWhileStatement,
	"do_statement":             KindDoStatement,
	"conditional_expression":   KindConditionalExpression,
	"binary_expression":        KindBinaryExpression,
	"return_statement":         KindReturnStatement,
	"compound_statement":       KindCompoundStatement,
	"parameter_list":           KindParameterList,
	"declaration":              KindDeclaration,
	"init_declarator":          KindInitDeclarator,
	"condition_clause":         KindConditionClause,
	"parenthesized_expression": KindParenthesizedExpression,
	"assignment_expression":    KindAssignmentExpression,
	"update_expression":        KindUpdateExpression,
	"enumerator":               KindEnumerator,
	"parameter_declaration":    KindParameterDeclaration,
	"comment":                  KindComment,
	"preproc_def":              KindPreprocDef,
	"preproc_function_def":     KindPreprocFunctionDef,
	"translation_unit":         KindTranslationUnit,
}

// KindOf maps a tree-sitter node to its NodeKind. Unrecognized types
// map to KindOther.
func KindOf(node *sitter.Node) NodeKind {
	if node == nil {
		return KindOther
	}
	return kindByType[node.Type()]
}

// String returns the grammar type name for a kind.
func (k NodeKind) String() string {
	for name, kind := range kindByType {
		if kind == k {
			return name
		}
	}
	return "other"
}
