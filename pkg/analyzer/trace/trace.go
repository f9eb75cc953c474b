// Package trace builds intra-file call trees and flattens them into
// transitive dependency sets. Tracing is purely name-based over the
// symbol index: no compilation, no cross-file resolution.
package trace

import (
	"sort"

	"github.com/seam-dev/seam/pkg/analyzer"
	"github.com/seam-dev/seam/pkg/analyzer/index"
)

// Tracer traces call chains through one file's index.
type Tracer struct {
	ix       *index.Index
	maxDepth int
}

// Option is a functional option for configuring Tracer.
type Option func(*Tracer)

// WithMaxDepth bounds trace recursion depth.
func WithMaxDepth(depth int) Option {
	return func(t *Tracer) {
		if depth > 0 {
			t.maxDepth = depth
		}
	}
}

// New creates a tracer over an indexed file.
func New(ix *index.Index, opts ...Option) *Tracer {
	t := &Tracer{
		ix:       ix,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Trace builds the call tree rooted at the named function. The second
// return is false when the function is not defined in the file.
func (t *Tracer) Trace(name string) (*CallNode, bool) {
	if !t.ix.Has(name) {
		return nil, false
	}
	return t.buildNode(name, 0, map[string]bool{}, 1), true
}

// TraceAll traces every function defined in the file, keyed by name.
func (t *Tracer) TraceAll() map[string]*CallNode {
	chains := make(map[string]*CallNode, len(t.ix.FunctionOrder))
	for _, name := range t.ix.FunctionOrder {
		if node, ok := t.Trace(name); ok {
			chains[name] = node
		}
	}
	return chains
}

// buildNode constructs the node for one call site.
//
// visited holds the ancestors of this node. Each child branch receives
// its OWN copy with the current function added, so a function reached
// on two sibling branches is expanded on both: shared ancestry, not
// shared traversal state. Only a name already on the current ancestor
// path marks recursion.
func (t *Tracer) buildNode(name string, line uint32, visited map[string]bool, depth int) *CallNode {
	rec, defined := t.ix.Functions[name]
	if !defined {
		return &CallNode{
			FunctionName:   name,
			FilePath:       ExternalFilePath,
			Signature:      ExternalSignature,
			CalledFromLine: line,
		}
	}

	node := &CallNode{
		FunctionName:   name,
		FilePath:       t.ix.Path,
		Signature:      rec.Signature,
		LineNumber:     rec.StartLine,
		CalledFromLine: line,
	}

	if visited[name] {
		node.IsRecursive = true
		return node
	}
	if depth >= t.maxDepth {
		return node
	}

	for _, call := range rec.Calls {
		if analyzer.IsStdFunction(call.Name) {
			continue
		}
		branch := make(map[string]bool, len(visited)+1)
		for k := range visited {
			branch[k] = true
		}
		branch[name] = true
		node.Children = append(node.Children, t.buildNode(call.Name, call.Line, branch, depth+1))
	}

	return node
}

// Aggregate flattens the transitive dependencies of root into sorted
// internal and external name sets. Unlike tracing, aggregation mutates
// a single shared visited set: each internal function is expanded and
// counted exactly once, and the root is excluded from both sets.
func Aggregate(ix *index.Index, root string) *Dependencies {
	internal := make(map[string]bool)
	external := make(map[string]bool)
	visited := map[string]bool{root: true}

	var walk func(name string)
	walk = func(name string) {
		rec, ok := ix.Functions[name]
		if !ok {
			return
		}
		for _, call := range rec.Calls {
			if analyzer.IsStdFunction(call.Name) {
				continue
			}
			if !ix.Has(call.Name) {
				external[call.Name] = true
				continue
			}
			if visited[call.Name] {
				continue
			}
			visited[call.Name] = true
			internal[call.Name] = true
			walk(call.Name)
		}
	}
	walk(root)

	return &Dependencies{
		Internal: sortedKeys(internal),
		External: sortedKeys(external),
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
