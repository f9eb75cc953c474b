package search

import "strings"

// Forward and backward scan bounds. A struct body longer than
// maxForwardLines is returned truncated at the bound.
const (
	maxForwardLines  = 60
	maxBackwardLines = 5
)

// ExtractBlock extracts a brace-balanced block starting at startLine
// (1-based) from the given lines. The scan runs forward counting braces
// until balance returns to zero or the line bound is hit. Returns the
// block text and whether the closing brace was found.
func ExtractBlock(lines []string, startLine int) (string, bool) {
	if startLine < 1 || startLine > len(lines) {
		return "", false
	}

	var block []string
	depth := 0
	opened := false

	for i := startLine - 1; i < len(lines) && i < startLine-1+maxForwardLines; i++ {
		line := lines[i]
		block = append(block, line)

		for _, ch := range line {
			switch ch {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
		}

		if opened && depth <= 0 {
			return strings.Join(block, "\n"), true
		}
		// Single-line form without braces: "typedef unsigned int u32;"
		if !opened && strings.Contains(line, ";") {
			return strings.Join(block, "\n"), true
		}
	}

	return strings.Join(block, "\n"), false
}

// FindBlockStart locates the opening line of a definition whose closing
// line is known, e.g. the trailing-alias typedef form:
//
//	typedef struct {
//	    ...
//	} handle_t;
//
// The scan runs backward from endLine balancing braces in reverse, then
// continues up to a few lines further looking for the typedef/struct/
// class/enum keyword. Returns a 1-based line or false.
func FindBlockStart(lines []string, endLine int) (int, bool) {
	if endLine < 1 || endLine > len(lines) {
		return 0, false
	}

	depth := 0
	start := -1
	for i := endLine - 1; i >= 0; i-- {
		line := lines[i]
		for j := len(line) - 1; j >= 0; j-- {
			switch line[j] {
			case '}':
				depth++
			case '{':
				depth--
			}
		}
		if depth <= 0 && strings.Contains(line, "{") {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	// The keyword may sit a few lines above the opening brace.
	for i := start; i >= 0 && i > start-maxBackwardLines; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if hasDefinitionKeyword(trimmed) {
			return i + 1, true
		}
	}
	return start + 1, true
}

func hasDefinitionKeyword(line string) bool {
	for _, kw := range []string{"typedef", "struct", "class", "enum", "union", "using"} {
		if strings.HasPrefix(line, kw+" ") || line == kw {
			return true
		}
	}
	return false
}

// StripLineComments removes // and /* */ comments from a single line of
// declaration text. Block comments spanning lines are left alone; the
// declaration joiners that use this only deal in short spans.
func StripLineComments(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		line = line[:idx]
	}
	for {
		open := strings.Index(line, "/*")
		if open < 0 {
			break
		}
		close := strings.Index(line[open:], "*/")
		if close < 0 {
			line = line[:open]
			break
		}
		line = line[:open] + line[open+close+2:]
	}
	return strings.TrimRight(line, " \t")
}
