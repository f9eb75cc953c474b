package project

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seam-dev/seam/internal/cache"
)

func writeTree(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return dir, paths
}

func TestAnalyzeBuildsSymbolTable(t *testing.T) {
	_, paths := writeTree(t, map[string]string{
		"net.c": `void net_send(void) {
    checksum();
}`,
		"util.c": `void checksum(void) {
}`,
	})

	proj, err := New().Analyze(context.Background(), paths)
	require.NoError(t, err)

	assert.Len(t, proj.Files, 2)
	assert.Equal(t, 2, proj.FunctionCount())

	sym, ok := proj.FindDefinition("checksum")
	require.True(t, ok)
	assert.Equal(t, "checksum", sym.Name)
	assert.Contains(t, sym.Path, "util.c")
}

func TestAnalyzeResolvesCrossFileCalls(t *testing.T) {
	_, paths := writeTree(t, map[string]string{
		"a.c": `void entry(void) {
    helper();
}`,
		"b.c": `void helper(void) {
}`,
	})

	proj, err := New().Analyze(context.Background(), paths)
	require.NoError(t, err)

	require.Len(t, proj.Calls, 1)
	call := proj.Calls[0]
	assert.Equal(t, "entry", call.FromName)
	assert.Equal(t, "helper", call.ToName)
	assert.Contains(t, call.ToPath, "b.c")
	assert.Equal(t, uint32(2), call.Line)
}

func TestFindDefinitionPrefersSourceOverHeader(t *testing.T) {
	_, paths := writeTree(t, map[string]string{
		"inline.h": `int square(int v) { return v * v; }`,
		"math.c":   `int square(int v) { return v * v; }`,
	})

	proj, err := New().Analyze(context.Background(), paths)
	require.NoError(t, err)

	sym, ok := proj.FindDefinition("square")
	require.True(t, ok)
	assert.Contains(t, sym.Path, "math.c")
}

func TestStaticDoesNotResolveAcrossFiles(t *testing.T) {
	_, paths := writeTree(t, map[string]string{
		"a.c": `void entry(void) {
    hidden();
}`,
		"b.c": `static void hidden(void) {
}`,
	})

	proj, err := New().Analyze(context.Background(), paths)
	require.NoError(t, err)

	assert.Empty(t, proj.Calls, "a static in another file must not be a call target")
}

func TestStaticShadowsInOwnFile(t *testing.T) {
	_, paths := writeTree(t, map[string]string{
		"a.c": `static void helper(void) {
}

void entry(void) {
    helper();
}`,
		"b.c": `void helper(void) {
}`,
	})

	proj, err := New().Analyze(context.Background(), paths)
	require.NoError(t, err)

	require.Len(t, proj.Calls, 1)
	assert.Contains(t, proj.Calls[0].ToPath, "a.c", "the local static shadows the external definition")
}

func TestRecursionGroups(t *testing.T) {
	_, paths := writeTree(t, map[string]string{
		"ping.c": `void ping(int n) {
    pong(n - 1);
}`,
		"pong.c": `void pong(int n) {
    ping(n - 1);
}`,
		"self.c": `void loop(int n) {
    loop(n - 1);
}`,
	})

	proj, err := New().Analyze(context.Background(), paths)
	require.NoError(t, err)

	require.Len(t, proj.RecursionGroups, 2)

	var mutual, self [][]string
	for _, g := range proj.RecursionGroups {
		if len(g) == 1 {
			self = append(self, g)
		} else {
			mutual = append(mutual, g)
		}
	}
	require.Len(t, mutual, 1)
	assert.Len(t, mutual[0], 2)
	require.Len(t, self, 1)
	assert.Contains(t, self[0][0], "loop")
}

func TestAnalyzeSkipsUnreadableFiles(t *testing.T) {
	_, paths := writeTree(t, map[string]string{
		"good.c": `void ok(void) {
}`,
	})
	paths = append(paths, "/nonexistent/bad.c")

	proj, err := New().Analyze(context.Background(), paths)
	require.NoError(t, err)
	assert.Len(t, proj.Files, 1)
}

func TestAnalyzeCancelled(t *testing.T) {
	_, paths := writeTree(t, map[string]string{
		"a.c": `void a(void) {}`,
		"b.c": `void b(void) {}`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Analyze(ctx, paths)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeWithCache(t *testing.T) {
	dir, paths := writeTree(t, map[string]string{
		"a.c": `void cached(void) {
    target();
}`,
		"b.c": `void target(void) {
}`,
	})

	c, err := cache.New(filepath.Join(dir, ".cache"), 24, true)
	require.NoError(t, err)

	a := New(WithCache(c))

	first, err := a.Analyze(context.Background(), paths)
	require.NoError(t, err)

	// Second run is served from cache and must produce the same graph.
	second, err := a.Analyze(context.Background(), paths)
	require.NoError(t, err)

	assert.Equal(t, first.FunctionCount(), second.FunctionCount())
	assert.Equal(t, first.Calls, second.Calls)

	// Changing the file invalidates the cached entry.
	require.NoError(t, os.WriteFile(paths[0], []byte(`void cached(void) {
}`), 0o644))
	third, err := a.Analyze(context.Background(), paths)
	require.NoError(t, err)
	assert.Empty(t, third.Calls)
}
