// Package classify buckets external callee names into business,
// standard-library, logging-utility, and macro categories. The buckets
// drive mock planning: business calls get mocked, the rest get noted.
package classify

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"unicode"
)

// Classifier applies ordered glob rules to external names.
type Classifier struct {
	rules Rules
}

// New creates a classifier, validating every glob up front. A malformed
// pattern is a configuration error and fails construction.
func New(rules Rules) (*Classifier, error) {
	for _, list := range [][]string{
		rules.StandardLibrary,
		rules.LoggingUtility,
		rules.MacroPatterns,
		rules.CustomExclusions,
	} {
		for _, pattern := range list {
			if _, err := path.Match(pattern, "probe"); err != nil {
				return nil, fmt.Errorf("invalid classification pattern %q: %w", pattern, err)
			}
		}
	}
	return &Classifier{rules: rules}, nil
}

// Classify partitions names into the four categories. Precedence is
// fixed: macro heuristic, then custom exclusions, then standard-library
// globs, then logging globs; anything left is business.
func (c *Classifier) Classify(names []string) *Classification {
	out := &Classification{}
	for _, name := range names {
		switch c.categoryOf(name) {
		case CategoryMacros:
			out.Macros = append(out.Macros, name)
		case CategoryLoggingUtility:
			out.LoggingUtility = append(out.LoggingUtility, name)
		case CategoryStandardLibrary:
			out.StandardLibrary = append(out.StandardLibrary, name)
		default:
			out.Business = append(out.Business, name)
		}
	}
	sort.Strings(out.Business)
	sort.Strings(out.StandardLibrary)
	sort.Strings(out.LoggingUtility)
	sort.Strings(out.Macros)
	return out
}

// CategoryOf classifies a single name.
func (c *Classifier) CategoryOf(name string) Category {
	return c.categoryOf(name)
}

func (c *Classifier) categoryOf(name string) Category {
	if IsLikelyMacro(name) || matchesAny(c.rules.MacroPatterns, name) {
		return CategoryMacros
	}
	if matchesAny(c.rules.CustomExclusions, name) {
		return CategoryLoggingUtility
	}
	if matchesAny(c.rules.StandardLibrary, name) {
		return CategoryStandardLibrary
	}
	if matchesAny(c.rules.LoggingUtility, name) {
		return CategoryLoggingUtility
	}
	return CategoryBusiness
}

// matchesAny reports whether name matches any glob in patterns.
// Patterns were validated at construction, so a match error here only
// means "no match".
func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// IsLikelyMacro reports whether a name looks like a preprocessor macro:
// all uppercase with an underscore, or all uppercase longer than two
// characters. MAX_RETRIES and ALIGN qualify; two-letter names like OK
// do not, keeping short constants ambiguous rather than wrong.
func IsLikelyMacro(name string) bool {
	if name == "" {
		return false
	}
	hasUnderscore := false
	for _, r := range name {
		switch {
		case r == '_':
			hasUnderscore = true
		case unicode.IsDigit(r):
		case unicode.IsUpper(r):
		default:
			return false
		}
	}
	if hasUnderscore {
		return true
	}
	return len(name) > 2 && strings.ToUpper(name) == name
}
