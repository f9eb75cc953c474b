package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/seam-dev/seam/pkg/search"
)

// StructureExtractor resolves struct/class/enum/typedef definitions by
// text search with brace balancing.
type StructureExtractor struct {
	searcher *search.Searcher
	cache    map[string]Definition
}

// NewStructure creates a structure extractor.
func NewStructure(searcher *search.Searcher) *StructureExtractor {
	return &StructureExtractor{
		searcher: searcher,
		cache:    make(map[string]Definition),
	}
}

// Extract resolves one type name against the candidate files. Defining
// occurrences outrank plain uses: `struct foo {` beats `struct foo x;`.
func (e *StructureExtractor) Extract(ctx context.Context, name string, candidates []string) Definition {
	key := cacheKey(KindStructure, name)
	if def, ok := e.cache[key]; ok {
		return def
	}

	def := e.extract(ctx, name, candidates)
	e.cache[key] = def
	return def
}

func (e *StructureExtractor) extract(ctx context.Context, name string, candidates []string) Definition {
	quoted := regexp.QuoteMeta(name)
	re, err := regexp.Compile(
		`\b(struct|class|enum|union)\s+` + quoted + `\b` +
			`|typedef\b[^;{]*\b` + quoted + `\s*;` +
			`|}\s*` + quoted + `\s*;` +
			`|\busing\s+` + quoted + `\s*=`)
	if err != nil {
		return notFound(name, KindStructure)
	}

	matches := e.searcher.Search(ctx, re, candidates)
	if len(matches) == 0 {
		return notFound(name, KindStructure)
	}

	best := pickBest(matches, name)

	lines, err := search.ReadLines(best.Path)
	if err != nil {
		return notFound(name, KindStructure)
	}

	startLine := best.Line
	// Trailing-alias typedef: the match sits on the closing line, the
	// definition opens somewhere above.
	if trailingAliasLine(best.Text, name) {
		if start, ok := search.FindBlockStart(lines, best.Line); ok {
			startLine = start
		}
	}

	block, _ := search.ExtractBlock(lines, startLine)
	return Definition{
		Name:       name,
		Kind:       KindStructure,
		FilePath:   best.Path,
		Line:       startLine,
		Definition: block,
		Found:      true,
	}
}

// pickBest ranks match lines: a defining form with an opening brace or
// a terminating typedef/alias wins over a plain variable declaration.
func pickBest(matches []search.Match, name string) search.Match {
	best := matches[0]
	bestScore := -1
	for _, m := range matches {
		score := scoreLine(m.Text, name)
		if score > bestScore {
			best = m
			bestScore = score
		}
	}
	return best
}

func scoreLine(line, name string) int {
	trimmed := strings.TrimSpace(line)
	score := 0
	if strings.Contains(trimmed, "{") {
		score += 4
	}
	if trailingAliasLine(trimmed, name) {
		score += 4
	}
	for _, kw := range []string{"typedef", "using"} {
		if strings.HasPrefix(trimmed, kw) {
			score += 2
		}
	}
	for _, kw := range []string{"struct ", "class ", "enum ", "union "} {
		if strings.HasPrefix(trimmed, kw) {
			score += 1
		}
	}
	// `struct foo bar;` is a use, not a definition.
	if strings.HasSuffix(trimmed, ";") && !strings.Contains(trimmed, "{") &&
		!strings.HasPrefix(trimmed, "typedef") && !trailingAliasLine(trimmed, name) {
		score -= 2
	}
	return score
}

func trailingAliasLine(line, name string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "}") && strings.Contains(trimmed, name) &&
		strings.HasSuffix(trimmed, ";")
}
