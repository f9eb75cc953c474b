package session

import (
	"fmt"
	"strings"

	"github.com/seam-dev/seam/pkg/analyzer/boundary"
	"github.com/seam-dev/seam/pkg/analyzer/branch"
	"github.com/seam-dev/seam/pkg/analyzer/classify"
	"github.com/seam-dev/seam/pkg/analyzer/trace"
	"github.com/seam-dev/seam/pkg/extract"
	"github.com/seam-dev/seam/pkg/parser"
)

// Mode selects what a session analyzes.
type Mode string

const (
	// ModeBoundary analyzes one file: exposure, traces, branches,
	// dependencies, and resolved external definitions.
	ModeBoundary Mode = "boundary"
	// ModeProject indexes a whole tree and builds the cross-file call
	// graph.
	ModeProject Mode = "project"
)

// ParseMode maps a user-supplied mode string to a Mode. Unknown modes
// are a startup error, not a fallback.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "boundary", "single", "deep", "":
		return ModeBoundary, nil
	case "project", "full":
		return ModeProject, nil
	default:
		return "", fmt.Errorf("unknown analysis mode %q (want boundary or project)", s)
	}
}

// FunctionReport is the per-function slice of a boundary result.
type FunctionReport struct {
	Name          string                   `json:"name"`
	Signature     string                   `json:"signature"`
	Line          uint32                   `json:"line"`
	Exposure      boundary.Exposure        `json:"exposure"`
	Trace         *trace.CallNode          `json:"trace,omitempty"`
	Branches      *branch.FunctionBranches `json:"branches,omitempty"`
	Dependencies  *trace.Dependencies      `json:"dependencies,omitempty"`
	ExternalCalls *classify.Classification `json:"external_calls,omitempty"`
	Globals       []extract.GlobalAccess   `json:"globals,omitempty"`
}

// Result is the plain-data outcome of a boundary session.
type Result struct {
	Path        string               `json:"path"`
	Language    parser.Language      `json:"language"`
	Boundary    *boundary.Boundary   `json:"boundary"`
	Functions   []FunctionReport     `json:"functions"`
	Definitions []extract.Definition `json:"definitions,omitempty"`
}

// Function returns the report for one function, if present.
func (r *Result) Function(name string) (*FunctionReport, bool) {
	for i := range r.Functions {
		if r.Functions[i].Name == name {
			return &r.Functions[i], true
		}
	}
	return nil, false
}
