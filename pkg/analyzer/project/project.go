// Package project indexes a whole source tree: per-file function
// indexes in parallel, a cross-file symbol table, and a call graph with
// recursion groups.
package project

import (
	"context"
	"encoding/json"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/seam-dev/seam/internal/cache"
	"github.com/seam-dev/seam/internal/fileproc"
	"github.com/seam-dev/seam/pkg/analyzer"
	"github.com/seam-dev/seam/pkg/analyzer/index"
	"github.com/seam-dev/seam/pkg/parser"
)

// Analyzer builds Project results from file lists.
type Analyzer struct {
	cache      *cache.Cache
	logger     *log.Logger
	onProgress fileproc.ProgressFunc
}

// Option configures the analyzer.
type Option func(*Analyzer)

// WithCache enables content-hash cached file indexes.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// WithProgress sets a per-file progress callback.
func WithProgress(fn fileproc.ProgressFunc) Option {
	return func(a *Analyzer) {
		a.onProgress = fn
	}
}

// New creates a project analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ analyzer.FileAnalyzer[*Project] = (*Analyzer)(nil)

// Close satisfies analyzer.FileAnalyzer. Parsers are created and closed
// per worker, so there is nothing to release.
func (a *Analyzer) Close() {}

// Analyze indexes all files and assembles the project. Files that fail
// to parse are skipped with a warning; the project is built from the
// rest. Context cancellation aborts with the context error.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*Project, error) {
	type fileEntry struct {
		path string
		ix   *index.Index
	}

	entries, errs := fileproc.MapFiles(ctx, files, func(p *parser.Parser, path string) (fileEntry, error) {
		ix, err := a.indexFile(p, path)
		if err != nil {
			return fileEntry{}, err
		}
		return fileEntry{path: path, ix: ix}, nil
	}, a.onProgress)

	if errs != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, pe := range errs.Errors {
			a.logger.Warn("skipping file", "path", pe.Path, "error", pe.Err)
		}
	}

	proj := &Project{
		Files:   make(map[string]*index.Index, len(entries)),
		Symbols: make(map[string][]Symbol),
	}
	for _, e := range entries {
		proj.Files[e.path] = e.ix
		for _, name := range e.ix.FunctionOrder {
			rec := e.ix.Functions[name]
			proj.Symbols[name] = append(proj.Symbols[name], Symbol{
				Name:      name,
				Path:      e.path,
				Signature: rec.Signature,
				StartLine: rec.StartLine,
				IsStatic:  rec.IsStatic,
			})
		}
	}
	for _, syms := range proj.Symbols {
		sort.Slice(syms, func(i, j int) bool { return syms[i].Path < syms[j].Path })
	}

	a.buildCallGraph(proj)
	a.logger.Info("indexed project",
		"files", len(proj.Files),
		"functions", proj.FunctionCount(),
		"calls", len(proj.Calls),
		"recursion_groups", len(proj.RecursionGroups))

	return proj, nil
}

// indexFile returns the cached index when the file content is
// unchanged, otherwise parses and stores a fresh one.
func (a *Analyzer) indexFile(p *parser.Parser, path string) (*index.Index, error) {
	var hash, key string
	if a.cache != nil {
		h, err := cache.HashFile(path)
		if err != nil {
			return nil, err
		}
		hash = h
		key = cache.Key("project-index", path)
		if data, ok := a.cache.GetWithHash(key, hash); ok {
			var ix index.Index
			if err := json.Unmarshal(data, &ix); err == nil {
				return &ix, nil
			}
		}
	}

	result, err := p.ParseFile(path)
	if err != nil {
		return nil, err
	}
	ix := index.Build(result)

	if a.cache != nil {
		if data, err := json.Marshal(ix); err == nil {
			_ = a.cache.SetWithHash(key, hash, data)
		}
	}
	return ix, nil
}

// buildCallGraph resolves call sites against the symbol table and runs
// Tarjan SCC over the result to find recursion groups.
func (a *Analyzer) buildCallGraph(proj *Project) {
	// Assign gonum IDs to every symbol.
	idOf := make(map[string]int64)
	ofID := make(map[int64]string)
	g := simple.NewDirectedGraph()

	addNode := func(sym Symbol) int64 {
		if id, ok := idOf[sym.ID()]; ok {
			return id
		}
		id := int64(len(idOf))
		idOf[sym.ID()] = id
		ofID[id] = sym.ID()
		g.AddNode(simple.Node(id))
		return id
	}
	for _, syms := range proj.Symbols {
		for _, sym := range syms {
			addNode(sym)
		}
	}

	selfRecursive := make(map[string]bool)

	var paths []string
	for path := range proj.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		ix := proj.Files[path]
		for _, fromName := range ix.FunctionOrder {
			rec := ix.Functions[fromName]
			from := Symbol{Name: fromName, Path: path}
			for _, call := range rec.Calls {
				target, ok := a.resolveCall(proj, ix, path, call.Name)
				if !ok {
					continue
				}
				proj.Calls = append(proj.Calls, Call{
					FromName: fromName,
					FromPath: path,
					ToName:   target.Name,
					ToPath:   target.Path,
					Line:     call.Line,
				})
				if target.ID() == from.ID() {
					// gonum simple graphs reject self-loops.
					selfRecursive[from.ID()] = true
					continue
				}
				fromID, toID := idOf[from.ID()], idOf[target.ID()]
				if g.Node(fromID) != nil && g.Node(toID) != nil {
					g.SetEdge(simple.Edge{F: simple.Node(fromID), T: simple.Node(toID)})
				}
			}
		}
	}

	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		group := make([]string, 0, len(scc))
		for _, node := range scc {
			group = append(group, ofID[node.ID()])
		}
		sort.Strings(group)
		proj.RecursionGroups = append(proj.RecursionGroups, group)
	}
	for id := range selfRecursive {
		proj.RecursionGroups = append(proj.RecursionGroups, []string{id})
	}
	sort.Slice(proj.RecursionGroups, func(i, j int) bool {
		return proj.RecursionGroups[i][0] < proj.RecursionGroups[j][0]
	})
}

// resolveCall picks the definition a call site binds to: same-file
// definitions first (statics shadow everything), then the project-wide
// preferred definition.
func (a *Analyzer) resolveCall(proj *Project, ix *index.Index, path, name string) (Symbol, bool) {
	if rec, ok := ix.Functions[name]; ok {
		return Symbol{
			Name:      name,
			Path:      path,
			Signature: rec.Signature,
			StartLine: rec.StartLine,
			IsStatic:  rec.IsStatic,
		}, true
	}

	// A static in another file is not callable from here.
	var best Symbol
	found := false
	for _, c := range proj.Symbols[name] {
		if c.IsStatic {
			continue
		}
		if !found || betterDefinition(c, best) {
			best = c
			found = true
		}
	}
	return best, found
}
