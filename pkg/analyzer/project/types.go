package project

import (
	"path/filepath"
	"strings"

	"github.com/seam-dev/seam/pkg/analyzer/index"
)

// Symbol is one function definition somewhere in the tree.
type Symbol struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Signature string `json:"signature"`
	StartLine uint32 `json:"start_line"`
	IsStatic  bool   `json:"is_static"`
}

// IsHeader reports whether the symbol lives in a header file. Function
// bodies in headers are usually inline helpers; definitions in sources
// outrank them during lookup.
func (s Symbol) IsHeader() bool {
	ext := strings.ToLower(filepath.Ext(s.Path))
	switch ext {
	case ".h", ".hpp", ".hxx", ".hh", ".inl":
		return true
	}
	return false
}

// ID is the graph identity of the symbol: path-qualified so static
// functions with the same name in different files stay distinct.
func (s Symbol) ID() string {
	return s.Path + "::" + s.Name
}

// Call is one resolved cross-file (or cross-function) call edge.
type Call struct {
	FromName string `json:"from_name"`
	FromPath string `json:"from_path"`
	ToName   string `json:"to_name"`
	ToPath   string `json:"to_path"`
	Line     uint32 `json:"line"`
}

// Project is the whole-tree analysis result.
type Project struct {
	Root  string                  `json:"root"`
	Files map[string]*index.Index `json:"files"`

	// Symbols maps a function name to everywhere it is defined.
	Symbols map[string][]Symbol `json:"symbols"`

	// Calls holds resolved call edges across the tree.
	Calls []Call `json:"calls"`

	// RecursionGroups lists symbol IDs that call each other in cycles,
	// including direct self-recursion as single-element groups.
	RecursionGroups [][]string `json:"recursion_groups"`
}

// FindDefinition resolves a function name to its preferred definition:
// a source-file definition wins over a header one, ties break by path.
func (p *Project) FindDefinition(name string) (Symbol, bool) {
	candidates := p.Symbols[name]
	if len(candidates) == 0 {
		return Symbol{}, false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if betterDefinition(c, best) {
			best = c
		}
	}
	return best, true
}

func betterDefinition(a, b Symbol) bool {
	if a.IsHeader() != b.IsHeader() {
		return !a.IsHeader()
	}
	return a.Path < b.Path
}

// FunctionCount returns the total number of indexed functions.
func (p *Project) FunctionCount() int {
	n := 0
	for _, syms := range p.Symbols {
		n += len(syms)
	}
	return n
}
