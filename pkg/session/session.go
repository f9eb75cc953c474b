// Package session orchestrates one analysis run: parse, index,
// boundary classification, call tracing, branch analysis, and external
// definition resolution, assembled into a plain-data Result.
package session

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/seam-dev/seam/pkg/analyzer/boundary"
	"github.com/seam-dev/seam/pkg/analyzer/branch"
	"github.com/seam-dev/seam/pkg/analyzer/classify"
	"github.com/seam-dev/seam/pkg/analyzer/index"
	"github.com/seam-dev/seam/pkg/analyzer/trace"
	"github.com/seam-dev/seam/pkg/config"
	"github.com/seam-dev/seam/pkg/extract"
	"github.com/seam-dev/seam/pkg/headers"
	"github.com/seam-dev/seam/pkg/parser"
	"github.com/seam-dev/seam/pkg/search"
)

// Session holds the collaborators for analysis runs. Classification
// rules are validated once at construction; a bad glob pattern fails
// here, not mid-analysis.
type Session struct {
	cfg        *config.Config
	logger     *log.Logger
	classifier *classify.Classifier
	locator    *headers.Locator
	searcher   *search.Searcher
}

// New builds a session from config. A nil logger discards output.
func New(cfg *config.Config, logger *log.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	classifier, err := classify.New(cfg.Classification)
	if err != nil {
		return nil, fmt.Errorf("classification rules: %w", err)
	}

	return &Session{
		cfg:        cfg,
		logger:     logger,
		classifier: classifier,
		locator:    headers.New(headers.WithMaxCandidates(cfg.Search.MaxHeaderFiles)),
		searcher: search.New(
			search.WithTimeout(time.Duration(cfg.Search.TimeoutSeconds)*time.Second),
			search.WithMaxResults(cfg.Search.MaxResults),
		),
	}, nil
}

// Classifier exposes the session's call classifier.
func (s *Session) Classifier() *classify.Classifier {
	return s.classifier
}

// AnalyzeFile runs a boundary session on a single file.
func (s *Session) AnalyzeFile(ctx context.Context, path string) (*Result, error) {
	indexer := index.New()
	defer indexer.Close()

	ix, parseResult, err := indexer.AnalyzeFile(path)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", path, err)
	}
	s.logger.Debug("indexed file",
		"path", path,
		"functions", len(ix.Functions),
		"structures", len(ix.Structures))

	bc := boundary.New(boundary.WithLocator(s.locator), boundary.WithSearcher(s.searcher))
	b := bc.Classify(ctx, ix, parseResult)
	s.logger.Debug("classified boundary", "path", path, "summary", b.Summary())

	result := &Result{
		Path:     path,
		Language: parseResult.Language,
		Boundary: b,
	}

	tracer := trace.New(ix, trace.WithMaxDepth(s.cfg.Analysis.MaxTraceDepth))
	brancher := branch.New()

	traceTargets := s.traceTargets(b)
	fileScope := extract.FileScopeNames(parseResult)
	macros := macroNames(parseResult)

	for _, ep := range b.EntryPoints {
		report := FunctionReport{
			Name:      ep.Name,
			Signature: ep.Signature,
			Line:      ep.Line,
			Exposure:  ep.Exposure,
		}

		rec, ok := ix.Functions[ep.Name]
		if !ok {
			result.Functions = append(result.Functions, report)
			continue
		}

		if traceTargets[ep.Name] {
			if node, ok := tracer.Trace(ep.Name); ok {
				report.Trace = node
			}
			deps := trace.Aggregate(ix, ep.Name)
			report.Dependencies = deps
			report.ExternalCalls = s.classifier.Classify(deps.External)
		}

		if s.cfg.Analysis.Branches {
			fb := brancher.AnalyzeFunction(rec, parseResult.Source)
			report.Branches = &fb
		}

		if s.cfg.Analysis.Globals {
			report.Globals = extract.Globals(rec.Body, parseResult.Source, fileScope, macros)
		}

		result.Functions = append(result.Functions, report)
	}

	if s.cfg.Analysis.ResolveExterns {
		result.Definitions = s.resolveExterns(ctx, path, b, result.Functions)
	}

	return result, nil
}

// traceTargets picks which functions get call traces: the API surface
// when one exists, every entry point otherwise.
func (s *Session) traceTargets(b *boundary.Boundary) map[string]bool {
	targets := make(map[string]bool)
	api := b.APIFunctions()
	if len(api) > 0 {
		for _, name := range api {
			targets[name] = true
		}
		return targets
	}
	for _, ep := range b.EntryPoints {
		targets[ep.Name] = true
	}
	return targets
}

// resolveExterns looks up the definitions of names the file references
// but does not define: macro-looking and plain external calls, external
// types, and constants appearing in key branch conditions.
func (s *Session) resolveExterns(ctx context.Context, path string, b *boundary.Boundary, functions []FunctionReport) []extract.Definition {
	candidates := s.locator.Candidates(path)
	if len(candidates) == 0 {
		return nil
	}

	macroEx := extract.NewMacro(s.searcher)
	sigEx := extract.NewSignature(s.searcher)
	structEx := extract.NewStructure(s.searcher)
	constEx := extract.NewConstant(s.searcher)

	var defs []extract.Definition
	seen := make(map[string]bool)
	add := func(d extract.Definition) {
		key := string(d.Kind) + ":" + d.Name
		if seen[key] {
			return
		}
		seen[key] = true
		defs = append(defs, d)
	}

	for _, name := range b.ExternalCalls {
		if classify.IsLikelyMacro(name) {
			add(macroEx.Extract(ctx, name, candidates))
		} else {
			add(sigEx.Extract(ctx, name, candidates))
		}
	}

	for _, name := range b.ExternalTypes {
		add(structEx.Extract(ctx, name, candidates))
	}

	var exprs []string
	for _, fn := range functions {
		if fn.Branches == nil {
			continue
		}
		for _, cond := range fn.Branches.KeyConditions {
			exprs = append(exprs, cond.Expression)
		}
	}
	for _, name := range extract.HarvestNames(exprs...) {
		add(constEx.Extract(ctx, name, candidates))
	}

	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Kind != defs[j].Kind {
			return defs[i].Kind < defs[j].Kind
		}
		return defs[i].Name < defs[j].Name
	})

	resolved := 0
	for _, d := range defs {
		if d.Found {
			resolved++
		}
	}
	s.logger.Debug("resolved external definitions",
		"path", path,
		"resolved", resolved,
		"missing", len(defs)-resolved)

	return defs
}

// macroNames collects #define names so the globals walk can skip them.
func macroNames(result *parser.ParseResult) map[string]bool {
	names := make(map[string]bool)
	root := result.Tree.RootNode()
	parser.WalkKinds(root, result.Source, func(node *sitter.Node, kind parser.NodeKind, src []byte) bool {
		switch kind {
		case parser.KindPreprocDef, parser.KindPreprocFunctionDef:
			if name := node.ChildByFieldName("name"); name != nil {
				names[parser.GetNodeText(name, src)] = true
			}
		}
		return true
	})
	return names
}
