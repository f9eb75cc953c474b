// Package boundary classifies a file's functions by exposure and
// partitions its calls and type references into internal and external
// sets. This is the seam map: what the file offers, what it needs.
package boundary

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/seam-dev/seam/pkg/analyzer"
	"github.com/seam-dev/seam/pkg/analyzer/index"
	"github.com/seam-dev/seam/pkg/headers"
	"github.com/seam-dev/seam/pkg/parser"
	"github.com/seam-dev/seam/pkg/search"
)

// Classifier resolves exposure and the internal/external partition.
type Classifier struct {
	locator  *headers.Locator
	searcher *search.Searcher
}

// Option is a functional option for configuring Classifier.
type Option func(*Classifier)

// WithLocator sets the header locator.
func WithLocator(l *headers.Locator) Option {
	return func(c *Classifier) {
		c.locator = l
	}
}

// WithSearcher sets the text searcher used for header declarations.
func WithSearcher(s *search.Searcher) Option {
	return func(c *Classifier) {
		c.searcher = s
	}
}

// New creates a new boundary classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		locator:  headers.New(),
		searcher: search.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify builds the boundary for an indexed file.
func (c *Classifier) Classify(ctx context.Context, ix *index.Index, result *parser.ParseResult) *Boundary {
	b := &Boundary{Path: ix.Path}

	candidates := c.locator.Candidates(ix.Path)

	for _, name := range ix.FunctionOrder {
		rec := ix.Functions[name]
		ep := EntryPoint{
			Name:      rec.Name,
			Signature: rec.Signature,
			Line:      rec.StartLine,
		}
		ep.Exposure, ep.HeaderPath = c.exposure(ctx, rec, ix.Path, candidates)
		b.EntryPoints = append(b.EntryPoints, ep)
	}

	b.InternalCalls, b.ExternalCalls = partitionCalls(ix)
	b.InternalTypes, b.ExternalTypes = partitionTypes(ix, result)

	return b
}

// exposure resolves one function's exposure. Static wins outright;
// otherwise a header declaration makes it API, and the absence of one
// leaves it EXPORTED. A search miss is a classification, not an error.
func (c *Classifier) exposure(ctx context.Context, rec index.FunctionRecord, selfPath string, candidates []string) (Exposure, string) {
	if rec.IsStatic {
		return ExposureInternal, ""
	}

	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(rec.Name) + `\s*\(`)
	if err != nil {
		return ExposureExported, ""
	}

	for _, m := range c.searcher.Search(ctx, re, candidates) {
		if m.Path == selfPath {
			continue
		}
		line := strings.TrimSpace(search.StripLineComments(m.Text))
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		return ExposureAPI, m.Path
	}

	return ExposureExported, ""
}

// partitionCalls splits every call site in the file into functions the
// file defines and functions it does not, dropping runtime names.
func partitionCalls(ix *index.Index) (internal, external []string) {
	internalSet := make(map[string]bool)
	externalSet := make(map[string]bool)

	for _, rec := range ix.Functions {
		for _, call := range rec.Calls {
			switch {
			case analyzer.IsStdFunction(call.Name):
			case ix.Has(call.Name):
				internalSet[call.Name] = true
			default:
				externalSet[call.Name] = true
			}
		}
	}

	return sortedKeys(internalSet), sortedKeys(externalSet)
}

// partitionTypes splits type references the same way, against the
// file's structure index.
func partitionTypes(ix *index.Index, result *parser.ParseResult) (internal, external []string) {
	internalSet := make(map[string]bool)
	externalSet := make(map[string]bool)

	root := result.Tree.RootNode()
	parser.WalkKinds(root, result.Source, func(node *sitter.Node, kind parser.NodeKind, src []byte) bool {
		if kind != parser.KindTypeIdentifier {
			return true
		}
		name := parser.GetNodeText(node, src)
		switch {
		case name == "" || analyzer.IsStdType(name):
		case structureDefined(ix, name):
			internalSet[name] = true
		default:
			externalSet[name] = true
		}
		return true
	})

	return sortedKeys(internalSet), sortedKeys(externalSet)
}

func structureDefined(ix *index.Index, name string) bool {
	_, ok := ix.Structures[name]
	return ok
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Summary returns a one-line count breakdown used by report footers.
func (b *Boundary) Summary() string {
	var api, internal, exported int
	for _, ep := range b.EntryPoints {
		switch ep.Exposure {
		case ExposureAPI:
			api++
		case ExposureInternal:
			internal++
		case ExposureExported:
			exported++
		}
	}
	return fmt.Sprintf("%d API, %d internal, %d exported", api, internal, exported)
}
