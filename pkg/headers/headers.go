// Package headers locates the headers worth searching when resolving a
// symbol referenced by a source file. The candidate set is bounded so a
// lookup in a large tree stays cheap: search quality degrades before
// latency does.
package headers

import (
	"os"
	"path/filepath"
	"strings"
)

// Bounds on the candidate set.
const (
	MaxCandidates  = 50
	MaxParentHops  = 3
	includeDirName = "include"
)

var headerExts = []string{".h", ".hpp", ".hxx", ".hh"}

// Locator finds candidate headers for a source file.
type Locator struct {
	maxCandidates int
}

// Option is a functional option for configuring Locator.
type Option func(*Locator)

// WithMaxCandidates overrides the candidate cap.
func WithMaxCandidates(n int) Option {
	return func(l *Locator) {
		l.maxCandidates = n
	}
}

// New creates a new header locator.
func New(opts ...Option) *Locator {
	l := &Locator{maxCandidates: MaxCandidates}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Candidates returns headers to search for symbols referenced by the
// given source file, most likely first:
//
//  1. the file itself (definitions local to the file win)
//  2. the sibling header with the same base name
//  3. other headers in the same directory
//  4. include/ directories up to MaxParentHops parent levels, with a
//     mirrored subdirectory (include/<dir>/) preferred over the flat
//     include/ root
//
// The list is capped at the configured maximum.
func (l *Locator) Candidates(sourcePath string) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(path string) bool {
		if len(out) >= l.maxCandidates {
			return false
		}
		clean := filepath.Clean(path)
		if seen[clean] {
			return true
		}
		if info, err := os.Stat(clean); err != nil || info.IsDir() {
			return true
		}
		seen[clean] = true
		out = append(out, clean)
		return true
	}

	add(sourcePath)

	dir := filepath.Dir(sourcePath)
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))

	// Sibling header: foo.c -> foo.h / foo.hpp.
	for _, ext := range headerExts {
		add(filepath.Join(dir, base+ext))
	}

	// Remaining headers in the same directory.
	for _, h := range headersIn(dir) {
		if !add(h) {
			return out
		}
	}

	// include/ dirs walking up the tree.
	parent := dir
	for hop := 0; hop < MaxParentHops; hop++ {
		parent = filepath.Dir(parent)
		incDir := filepath.Join(parent, includeDirName)
		if info, err := os.Stat(incDir); err != nil || !info.IsDir() {
			continue
		}

		// Mirrored subdir first: src/net/foo.c -> include/net/.
		mirrored := filepath.Join(incDir, filepath.Base(dir))
		for _, h := range headersIn(mirrored) {
			if !add(h) {
				return out
			}
		}
		for _, h := range headersIn(incDir) {
			if !add(h) {
				return out
			}
		}
	}

	return out
}

// headersIn lists header files directly inside dir (non-recursive).
func headersIn(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if isHeader(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}

func isHeader(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, h := range headerExts {
		if ext == h {
			return true
		}
	}
	return false
}
