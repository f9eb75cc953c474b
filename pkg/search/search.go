// Package search is the text-search collaborator used to resolve names
// that static parsing alone cannot: header declarations, macro bodies,
// struct definitions. Misses are normal results, never errors.
package search

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// DefaultTimeout bounds a single search call. When the deadline passes
// mid-scan, whatever matched so far is returned and the rest of the
// candidates are treated as not-found.
const DefaultTimeout = 5 * time.Second

// DefaultMaxResults caps matches per search call.
const DefaultMaxResults = 200

// Match is one matching line.
type Match struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Searcher scans files for regex matches.
type Searcher struct {
	timeout    time.Duration
	maxResults int
}

// Option is a functional option for configuring Searcher.
type Option func(*Searcher)

// WithTimeout sets the per-call search deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Searcher) {
		s.timeout = d
	}
}

// WithMaxResults caps the number of matches returned per call.
func WithMaxResults(n int) Option {
	return func(s *Searcher) {
		s.maxResults = n
	}
}

// New creates a new searcher.
func New(opts ...Option) *Searcher {
	s := &Searcher{
		timeout:    DefaultTimeout,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search scans the given files in order and returns matching lines in
// file-then-line order. An empty result is a normal outcome.
func (s *Searcher) Search(ctx context.Context, re *regexp.Regexp, files []string) []Match {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var matches []Match
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		matches = append(matches, s.searchFile(ctx, re, path)...)
		if len(matches) >= s.maxResults {
			return matches[:s.maxResults]
		}
	}
	return matches
}

// FirstMatch returns the first matching line across the files, or false.
func (s *Searcher) FirstMatch(ctx context.Context, re *regexp.Regexp, files []string) (Match, bool) {
	one := &Searcher{timeout: s.timeout, maxResults: 1}
	matches := one.Search(ctx, re, files)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

// SearchDir scans files under root whose base name matches glob.
// Directory walk order is deterministic (lexical per filepath.WalkDir).
func (s *Searcher) SearchDir(ctx context.Context, re *regexp.Regexp, root, glob string) []Match {
	files := FilesMatching(root, glob)
	return s.Search(ctx, re, files)
}

// searchFile scans one file line by line. Unreadable files yield no
// matches.
func (s *Searcher) searchFile(ctx context.Context, re *regexp.Regexp, path string) []Match {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var matches []Match
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%512 == 0 && ctx.Err() != nil {
			break
		}
		line := scanner.Text()
		if re.MatchString(line) {
			matches = append(matches, Match{Path: path, Line: lineNo, Text: line})
			if len(matches) >= s.maxResults {
				break
			}
		}
	}
	return matches
}

// FilesMatching walks root and returns files whose base name matches
// the glob pattern, in lexical order.
func FilesMatching(root, glob string) []string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(glob, d.Name()); ok {
			files = append(files, path)
		}
		return nil
	})
	return files
}

// ReadLines reads a file as lines. Content with invalid UTF-8 is kept
// byte-for-byte; C sources in legacy encodings still scan correctly for
// the ASCII-range patterns this tool uses.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
