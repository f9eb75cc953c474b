package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/seam-dev/seam/pkg/search"
)

// maxContinuationLines bounds multi-line macro bodies. A backslash
// chain longer than this returns what was gathered.
const maxContinuationLines = 20

// MacroExtractor resolves #define bodies by text search.
type MacroExtractor struct {
	searcher *search.Searcher
	cache    map[string]Definition
}

// NewMacro creates a macro extractor.
func NewMacro(searcher *search.Searcher) *MacroExtractor {
	return &MacroExtractor{
		searcher: searcher,
		cache:    make(map[string]Definition),
	}
}

// Extract resolves one macro name against the candidate files. Results
// are cached per name for the extractor's lifetime.
func (e *MacroExtractor) Extract(ctx context.Context, name string, candidates []string) Definition {
	key := cacheKey(KindMacro, name)
	if def, ok := e.cache[key]; ok {
		return def
	}

	def := e.extract(ctx, name, candidates)
	e.cache[key] = def
	return def
}

func (e *MacroExtractor) extract(ctx context.Context, name string, candidates []string) Definition {
	re, err := regexp.Compile(`^\s*#\s*define\s+` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return notFound(name, KindMacro)
	}

	m, ok := e.searcher.FirstMatch(ctx, re, candidates)
	if !ok {
		return notFound(name, KindMacro)
	}

	body := m.Text
	if strings.HasSuffix(strings.TrimRight(m.Text, " \t"), "\\") {
		if lines, err := search.ReadLines(m.Path); err == nil {
			body = joinContinuations(lines, m.Line)
		}
	}

	return Definition{
		Name:       name,
		Kind:       KindMacro,
		FilePath:   m.Path,
		Line:       m.Line,
		Definition: body,
		Found:      true,
	}
}

// joinContinuations follows backslash continuations from startLine
// (1-based), bounded at maxContinuationLines.
func joinContinuations(lines []string, startLine int) string {
	var out []string
	for i := startLine - 1; i < len(lines) && len(out) < maxContinuationLines; i++ {
		line := lines[i]
		out = append(out, line)
		if !strings.HasSuffix(strings.TrimRight(line, " \t"), "\\") {
			break
		}
	}
	return strings.Join(out, "\n")
}
