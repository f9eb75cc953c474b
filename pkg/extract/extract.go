// Package extract resolves the textual definitions of names a file
// references but does not define: macros, constants, structures, and
// function signatures. Resolution is text search over candidate
// headers; a miss produces a not-found record, never an error.
package extract

import "fmt"

// Kind tags what a resolved definition is.
type Kind string

const (
	KindMacro     Kind = "macro"
	KindConstant  Kind = "constant"
	KindStructure Kind = "structure"
	KindSignature Kind = "signature"
)

// Definition is the outcome of resolving one name. Found=false is a
// normal outcome; the remaining fields are then zero.
type Definition struct {
	Name       string `json:"name"`
	Kind       Kind   `json:"kind"`
	FilePath   string `json:"file_path,omitempty"`
	Line       int    `json:"line,omitempty"`
	Definition string `json:"definition,omitempty"`
	Found      bool   `json:"found"`
}

func notFound(name string, kind Kind) Definition {
	return Definition{Name: name, Kind: kind}
}

func cacheKey(kind Kind, name string) string {
	return fmt.Sprintf("%s:%s", kind, name)
}
