package index

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/seam-dev/seam/pkg/parser"
)

// MaxDefinitionChars caps stored structure definition text. Longer
// definitions are truncated with an ellipsis.
const MaxDefinitionChars = 500

// CallSite is one call expression inside a function body.
type CallSite struct {
	Name string `json:"name"`
	Line uint32 `json:"line"`
}

// FunctionRecord describes one function defined in the file.
type FunctionRecord struct {
	Name      string     `json:"name"`
	Signature string     `json:"signature"`
	StartLine uint32     `json:"start_line"`
	EndLine   uint32     `json:"end_line"`
	IsStatic  bool       `json:"is_static"`
	Calls     []CallSite `json:"calls"`

	// Node and Body stay valid as long as the owning ParseResult's tree
	// is alive.
	Node *sitter.Node `json:"-"`
	Body *sitter.Node `json:"-"`
}

// StructureKind classifies a type-level definition.
type StructureKind string

const (
	KindStruct  StructureKind = "struct"
	KindClass   StructureKind = "class"
	KindEnum    StructureKind = "enum"
	KindTypedef StructureKind = "typedef"
)

// StructureRecord describes one type defined in the file.
type StructureRecord struct {
	Name       string        `json:"name"`
	Kind       StructureKind `json:"kind"`
	StartLine  uint32        `json:"start_line"`
	EndLine    uint32        `json:"end_line"`
	Definition string        `json:"definition"`
}

// Index is the per-file symbol table: every function and type the file
// defines, keyed by name. First definition wins on duplicate names.
type Index struct {
	Path          string                     `json:"path"`
	Language      parser.Language            `json:"language"`
	Functions     map[string]FunctionRecord  `json:"functions"`
	Structures    map[string]StructureRecord `json:"structures"`
	FunctionOrder []string                   `json:"function_order"`
}

// Has reports whether a function with the given name is defined in the file.
func (ix *Index) Has(name string) bool {
	_, ok := ix.Functions[name]
	return ok
}
