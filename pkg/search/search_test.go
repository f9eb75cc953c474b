package search

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestSearch_FileThenLineOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.h", "int foo(void);\nint bar(void);\nint foo2(void);\n")
	b := writeFile(t, dir, "b.h", "int foo3(void);\n")

	s := New()
	matches := s.Search(context.Background(), regexp.MustCompile(`foo`), []string{a, b})

	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	if matches[0].Path != a || matches[0].Line != 1 {
		t.Errorf("matches[0] = %+v, want a.h:1", matches[0])
	}
	if matches[1].Path != a || matches[1].Line != 3 {
		t.Errorf("matches[1] = %+v, want a.h:3", matches[1])
	}
	if matches[2].Path != b || matches[2].Line != 1 {
		t.Errorf("matches[2] = %+v, want b.h:1", matches[2])
	}
}

func TestSearch_EmptyResultIsNormal(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.h", "int foo(void);\n")

	s := New()
	matches := s.Search(context.Background(), regexp.MustCompile(`does_not_exist`), []string{a})
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0", len(matches))
	}
}

func TestSearch_UnreadableFileSkipped(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.h", "int foo(void);\n")

	s := New()
	matches := s.Search(context.Background(), regexp.MustCompile(`foo`),
		[]string{filepath.Join(dir, "missing.h"), a})
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
}

func TestSearch_MaxResults(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("call();\n")
	}
	a := writeFile(t, dir, "a.c", b.String())

	s := New(WithMaxResults(10))
	matches := s.Search(context.Background(), regexp.MustCompile(`call`), []string{a})
	if len(matches) != 10 {
		t.Errorf("got %d matches, want 10", len(matches))
	}
}

func TestSearch_TimeoutReturnsPartial(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.h", "int foo(void);\n")
	b := writeFile(t, dir, "b.h", "int foo(void);\n")

	s := New(WithTimeout(time.Nanosecond))
	// A pre-expired deadline must not error; it just stops scanning.
	matches := s.Search(context.Background(), regexp.MustCompile(`foo`), []string{a, b})
	if len(matches) > 2 {
		t.Errorf("got %d matches, want at most 2", len(matches))
	}
}

func TestFirstMatch(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.h", "// comment\n#define LIMIT 10\n")

	s := New()
	m, ok := s.FirstMatch(context.Background(), regexp.MustCompile(`#define\s+LIMIT`), []string{a})
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Line != 2 {
		t.Errorf("Line = %d, want 2", m.Line)
	}
}

func TestFilesMatching(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.h", "")
	writeFile(t, dir, "b.c", "")
	sub := filepath.Join(dir, "include")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "c.h", "")

	files := FilesMatching(dir, "*.h")
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
}

func TestExtractBlock(t *testing.T) {
	lines := []string{
		"struct Point {",
		"    int x;",
		"    int y;",
		"};",
		"int other;",
	}

	block, ok := ExtractBlock(lines, 1)
	if !ok {
		t.Fatal("expected closed block")
	}
	if !strings.Contains(block, "int y;") || strings.Contains(block, "other") {
		t.Errorf("unexpected block: %q", block)
	}
}

func TestExtractBlock_SingleLineTypedef(t *testing.T) {
	lines := []string{"typedef unsigned int u32;"}

	block, ok := ExtractBlock(lines, 1)
	if !ok {
		t.Fatal("expected closed block")
	}
	if block != "typedef unsigned int u32;" {
		t.Errorf("block = %q", block)
	}
}

func TestExtractBlock_UnclosedHitsBound(t *testing.T) {
	lines := []string{"struct Broken {"}
	for i := 0; i < 100; i++ {
		lines = append(lines, "    int f;")
	}

	block, ok := ExtractBlock(lines, 1)
	if ok {
		t.Error("expected unclosed block")
	}
	if got := strings.Count(block, "\n") + 1; got != maxForwardLines {
		t.Errorf("block spans %d lines, want %d", got, maxForwardLines)
	}
}

func TestFindBlockStart_TrailingAliasTypedef(t *testing.T) {
	lines := []string{
		"#include <stdint.h>",
		"typedef struct {",
		"    uint32_t id;",
		"    uint32_t flags;",
		"} handle_t;",
	}

	start, ok := FindBlockStart(lines, 5)
	if !ok {
		t.Fatal("expected to find block start")
	}
	if start != 2 {
		t.Errorf("start = %d, want 2", start)
	}
}

func TestStripLineComments(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"int foo(void); // decl", "int foo(void);"},
		{"int /* inline */ foo(void);", "int  foo(void);"},
		{"int foo(void); /* open", "int foo(void);"},
		{"no comments here", "no comments here"},
	}
	for _, tt := range tests {
		if got := StripLineComments(tt.in); got != tt.want {
			t.Errorf("StripLineComments(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
