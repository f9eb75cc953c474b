package extract

import (
	"context"
	"regexp"
	"sort"

	"github.com/seam-dev/seam/pkg/search"
)

// constantNameRe matches macro-style constant identifiers inside
// arbitrary expression text.
var constantNameRe = regexp.MustCompile(`\b[A-Z][A-Z0-9_]{2,}\b`)

// ConstantExtractor resolves named constants: #define values, enum
// members, and const initializers.
type ConstantExtractor struct {
	searcher *search.Searcher
	cache    map[string]Definition
}

// NewConstant creates a constant extractor.
func NewConstant(searcher *search.Searcher) *ConstantExtractor {
	return &ConstantExtractor{
		searcher: searcher,
		cache:    make(map[string]Definition),
	}
}

// HarvestNames pulls constant-looking identifiers out of expression or
// signature text, deduplicated and sorted.
func HarvestNames(texts ...string) []string {
	set := make(map[string]bool)
	for _, text := range texts {
		for _, m := range constantNameRe.FindAllString(text, -1) {
			set[m] = true
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Extract resolves one constant name against the candidate files. The
// #define form is tried first, then enum-member or assignment forms.
func (e *ConstantExtractor) Extract(ctx context.Context, name string, candidates []string) Definition {
	key := cacheKey(KindConstant, name)
	if def, ok := e.cache[key]; ok {
		return def
	}

	def := e.extract(ctx, name, candidates)
	e.cache[key] = def
	return def
}

func (e *ConstantExtractor) extract(ctx context.Context, name string, candidates []string) Definition {
	quoted := regexp.QuoteMeta(name)

	patterns := []string{
		`^\s*#\s*define\s+` + quoted + `\b`,
		`\b` + quoted + `\s*=`,
	}

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		if m, ok := e.searcher.FirstMatch(ctx, re, candidates); ok {
			return Definition{
				Name:       name,
				Kind:       KindConstant,
				FilePath:   m.Path,
				Line:       m.Line,
				Definition: search.StripLineComments(m.Text),
				Found:      true,
			}
		}
	}

	return notFound(name, KindConstant)
}
