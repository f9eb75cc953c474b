package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/seam-dev/seam/pkg/search"
)

const maxSignatureLines = 5

// SignatureExtractor resolves function declarations from headers and
// sources, filtering out call sites.
type SignatureExtractor struct {
	searcher *search.Searcher
	cache    map[string]Definition
}

// NewSignature creates a signature extractor.
func NewSignature(searcher *search.Searcher) *SignatureExtractor {
	return &SignatureExtractor{
		searcher: searcher,
		cache:    make(map[string]Definition),
	}
}

// Extract finds the declaration of name in the candidate files. Call
// sites are skipped: a declaration carries a return type before the
// name, a call does not.
func (e *SignatureExtractor) Extract(ctx context.Context, name string, candidates []string) Definition {
	key := cacheKey(KindSignature, name)
	if def, ok := e.cache[key]; ok {
		return def
	}

	def := e.extract(ctx, name, candidates)
	e.cache[key] = def
	return def
}

func (e *SignatureExtractor) extract(ctx context.Context, name string, candidates []string) Definition {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\s*\(`)
	if err != nil {
		return notFound(name, KindSignature)
	}

	matches := e.searcher.Search(ctx, re, candidates)
	for _, m := range matches {
		if !looksLikeDeclaration(m.Text, name) {
			continue
		}
		lines, err := search.ReadLines(m.Path)
		if err != nil {
			continue
		}
		sig, ok := joinSignature(lines, m.Line)
		if !ok {
			continue
		}
		return Definition{
			Name:       name,
			Kind:       KindSignature,
			FilePath:   m.Path,
			Line:       m.Line,
			Definition: sig,
			Found:      true,
		}
	}
	return notFound(name, KindSignature)
}

// looksLikeDeclaration rejects call sites. A declaration has type
// tokens before the name; a call has the name first (optionally after
// an assignment) and usually ends with `);`.
func looksLikeDeclaration(line, name string) bool {
	trimmed := strings.TrimSpace(search.StripLineComments(line))
	idx := strings.Index(trimmed, name)
	if idx < 0 {
		return false
	}
	prefix := strings.TrimSpace(trimmed[:idx])
	if prefix == "" {
		return false
	}
	// `x = name(...)`, `return name(...)`, `if (name(...))` are calls.
	if strings.ContainsAny(prefix, "=!<>") {
		return false
	}
	for _, kw := range []string{"return", "if", "while", "switch", "for", "case", "#define"} {
		if prefix == kw || strings.HasSuffix(prefix, " "+kw) || strings.HasSuffix(prefix, "("+kw) {
			return false
		}
	}
	if strings.HasSuffix(prefix, "(") || strings.HasSuffix(prefix, ",") {
		return false
	}
	// What remains in front must read as type tokens.
	return identifierTailRe.MatchString(prefix)
}

var identifierTailRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*[\s*&]*$`)

// joinSignature joins continuation lines until `;` or `{`, bounded so a
// stray match cannot swallow a whole file.
func joinSignature(lines []string, startLine int) (string, bool) {
	if startLine < 1 || startLine > len(lines) {
		return "", false
	}
	var parts []string
	for i := startLine - 1; i < len(lines) && i < startLine-1+maxSignatureLines; i++ {
		line := search.StripLineComments(lines[i])
		if idx := strings.IndexAny(line, ";{"); idx >= 0 {
			parts = append(parts, strings.TrimSpace(line[:idx]))
			return strings.Join(parts, " "), true
		}
		parts = append(parts, strings.TrimSpace(line))
	}
	return "", false
}
