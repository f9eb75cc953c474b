package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seam-dev/seam/pkg/analyzer/boundary"
	"github.com/seam-dev/seam/pkg/analyzer/trace"
	"github.com/seam-dev/seam/pkg/config"
	"github.com/seam-dev/seam/pkg/extract"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"boundary", ModeBoundary},
		{"single", ModeBoundary},
		{"deep", ModeBoundary},
		{"", ModeBoundary},
		{"Boundary", ModeBoundary},
		{"project", ModeProject},
		{"full", ModeProject},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, "mode %q", tt.in)
		assert.Equal(t, tt.want, got, "mode %q", tt.in)
	}
}

func TestParseModeUnknown(t *testing.T) {
	_, err := ParseMode("exhaustive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exhaustive")
}

func TestNewRejectsBadRules(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Classification.StandardLibrary = append(cfg.Classification.StandardLibrary, "[bad")

	_, err := New(cfg, nil)
	require.Error(t, err)
}

func writeSessionFixture(t *testing.T) (dir, source string) {
	t.Helper()
	dir = t.TempDir()

	source = filepath.Join(dir, "widget.c")
	require.NoError(t, os.WriteFile(source, []byte(`#include "widget.h"

static int clamp(int v) {
    if (v > MAX_WIDGETS) {
        return MAX_WIDGETS;
    }
    return v;
}

int widget_add(int v) {
    int n = clamp(v);
    registry_store(n);
    return n;
}
`), 0o644))

	header := filepath.Join(dir, "widget.h")
	require.NoError(t, os.WriteFile(header, []byte(`#define MAX_WIDGETS 16

int widget_add(int v);
void registry_store(int n);
`), 0o644))

	return dir, source
}

func TestAnalyzeFile(t *testing.T) {
	_, source := writeSessionFixture(t)

	s, err := New(config.DefaultConfig(), nil)
	require.NoError(t, err)

	result, err := s.AnalyzeFile(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, source, result.Path)
	require.NotNil(t, result.Boundary)
	require.Len(t, result.Functions, 2)

	clamp, ok := result.Function("clamp")
	require.True(t, ok)
	assert.Equal(t, boundary.ExposureInternal, clamp.Exposure)
	// clamp is not part of the API surface, so it gets no trace.
	assert.Nil(t, clamp.Trace)
	require.NotNil(t, clamp.Branches)
	assert.Equal(t, uint32(2), clamp.Branches.Cyclomatic)

	add, ok := result.Function("widget_add")
	require.True(t, ok)
	assert.Equal(t, boundary.ExposureAPI, add.Exposure)
	require.NotNil(t, add.Trace)
	require.Len(t, add.Trace.Children, 2)
	assert.Equal(t, "clamp", add.Trace.Children[0].FunctionName)
	assert.Equal(t, "registry_store", add.Trace.Children[1].FunctionName)
	assert.True(t, add.Trace.Children[1].IsExternal())

	require.NotNil(t, add.Dependencies)
	assert.Equal(t, []string{"clamp"}, add.Dependencies.Internal)
	assert.Equal(t, []string{"registry_store"}, add.Dependencies.External)

	require.NotNil(t, add.ExternalCalls)
	assert.Equal(t, []string{"registry_store"}, add.ExternalCalls.Business)
}

func TestAnalyzeFileResolvesExterns(t *testing.T) {
	_, source := writeSessionFixture(t)

	s, err := New(config.DefaultConfig(), nil)
	require.NoError(t, err)

	result, err := s.AnalyzeFile(context.Background(), source)
	require.NoError(t, err)

	byName := make(map[string]extract.Definition)
	for _, d := range result.Definitions {
		byName[string(d.Kind)+":"+d.Name] = d
	}

	sig, ok := byName["signature:registry_store"]
	require.True(t, ok)
	assert.True(t, sig.Found)
	assert.Equal(t, "void registry_store(int n)", sig.Definition)

	cst, ok := byName["constant:MAX_WIDGETS"]
	require.True(t, ok)
	assert.True(t, cst.Found)
	assert.Contains(t, cst.Definition, "#define MAX_WIDGETS 16")
}

func TestAnalyzeFileDisabledStages(t *testing.T) {
	_, source := writeSessionFixture(t)

	cfg := config.DefaultConfig()
	cfg.Analysis.Branches = false
	cfg.Analysis.Globals = false
	cfg.Analysis.ResolveExterns = false

	s, err := New(cfg, nil)
	require.NoError(t, err)

	result, err := s.AnalyzeFile(context.Background(), source)
	require.NoError(t, err)

	for _, fn := range result.Functions {
		assert.Nil(t, fn.Branches)
		assert.Nil(t, fn.Globals)
	}
	assert.Empty(t, result.Definitions)
}

func TestAnalyzeFileTracesAllWithoutAPI(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "lone.c")
	require.NoError(t, os.WriteFile(source, []byte(`static void helper(void) {
}

void run(void) {
    helper();
}
`), 0o644))

	s, err := New(config.DefaultConfig(), nil)
	require.NoError(t, err)

	result, err := s.AnalyzeFile(context.Background(), source)
	require.NoError(t, err)

	// No header declares anything, so every function gets traced.
	for _, fn := range result.Functions {
		assert.NotNil(t, fn.Trace, "function %s should have a trace", fn.Name)
	}

	run, ok := result.Function("run")
	require.True(t, ok)
	require.NotNil(t, run.Dependencies)
	assert.Equal(t, []string{"helper"}, run.Dependencies.Internal)
	assert.Equal(t, trace.DefaultMaxDepth, config.DefaultConfig().Analysis.MaxTraceDepth)
}

func TestAnalyzeFileMissing(t *testing.T) {
	s, err := New(nil, nil)
	require.NoError(t, err)

	_, err = s.AnalyzeFile(context.Background(), "/nonexistent/file.c")
	require.Error(t, err)
}
