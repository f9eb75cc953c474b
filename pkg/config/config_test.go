package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	// Check analysis defaults
	if cfg.Analysis.MaxTraceDepth != 10 {
		t.Errorf("Analysis.MaxTraceDepth = %d, want 10", cfg.Analysis.MaxTraceDepth)
	}
	if !cfg.Analysis.Branches {
		t.Error("Analysis.Branches should be true by default")
	}
	if !cfg.Analysis.ResolveExterns {
		t.Error("Analysis.ResolveExterns should be true by default")
	}

	// Check search defaults
	if cfg.Search.TimeoutSeconds != 5 {
		t.Errorf("Search.TimeoutSeconds = %d, want 5", cfg.Search.TimeoutSeconds)
	}
	if cfg.Search.MaxResults != 200 {
		t.Errorf("Search.MaxResults = %d, want 200", cfg.Search.MaxResults)
	}
	if cfg.Search.MaxHeaderFiles != 50 {
		t.Errorf("Search.MaxHeaderFiles = %d, want 50", cfg.Search.MaxHeaderFiles)
	}

	// Classification rules come populated
	if len(cfg.Classification.StandardLibrary) == 0 {
		t.Error("Classification.StandardLibrary should have default patterns")
	}
	if len(cfg.Classification.LoggingUtility) == 0 {
		t.Error("Classification.LoggingUtility should have default patterns")
	}

	// Check exclude defaults
	if !cfg.Exclude.Gitignore {
		t.Error("Exclude.Gitignore should be true by default")
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("Exclude.Dirs should have default values")
	}

	// Check cache defaults
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want 24", cfg.Cache.TTL)
	}

	// Check output defaults
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should be true by default")
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "seam.toml")

	content := `
[analysis]
max_trace_depth = 6
branches = false

[search]
timeout_seconds = 2

[classification]
logging_utility = ["*log*", "trace_*"]

[exclude]
dirs = ["vendor", "custom_exclude"]
patterns = ["*_gen.c"]

[cache]
enabled = false

[output]
format = "json"
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Analysis.MaxTraceDepth != 6 {
		t.Errorf("Analysis.MaxTraceDepth = %d, want 6", cfg.Analysis.MaxTraceDepth)
	}
	if cfg.Analysis.Branches {
		t.Error("Analysis.Branches should be false")
	}
	if cfg.Search.TimeoutSeconds != 2 {
		t.Errorf("Search.TimeoutSeconds = %d, want 2", cfg.Search.TimeoutSeconds)
	}
	if len(cfg.Classification.LoggingUtility) != 2 {
		t.Errorf("Classification.LoggingUtility = %v, want 2 patterns", cfg.Classification.LoggingUtility)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "seam.yaml")

	content := `
analysis:
  max_trace_depth: 4
  globals: false

search:
  max_results: 50

output:
  format: markdown
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Analysis.MaxTraceDepth != 4 {
		t.Errorf("Analysis.MaxTraceDepth = %d, want 4", cfg.Analysis.MaxTraceDepth)
	}
	if cfg.Analysis.Globals {
		t.Error("Analysis.Globals should be false")
	}
	if cfg.Search.MaxResults != 50 {
		t.Errorf("Search.MaxResults = %d, want 50", cfg.Search.MaxResults)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %s, want markdown", cfg.Output.Format)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "seam.json")

	content := `{
  "analysis": {
    "max_trace_depth": 8
  },
  "search": {
    "timeout_seconds": 10
  },
  "output": {
    "format": "json"
  }
}`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Analysis.MaxTraceDepth != 8 {
		t.Errorf("Analysis.MaxTraceDepth = %d, want 8", cfg.Analysis.MaxTraceDepth)
	}
	if cfg.Search.TimeoutSeconds != 10 {
		t.Errorf("Search.TimeoutSeconds = %d, want 10", cfg.Search.TimeoutSeconds)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/seam.toml")
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "seam.toml")

	// Invalid TOML
	content := `[analysis
invalid toml`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() should return error for invalid config")
	}
}

func TestLoadOrDefault(t *testing.T) {
	// In a directory without config files, should return defaults
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	cfg := LoadOrDefault()
	if cfg == nil {
		t.Fatal("LoadOrDefault() returned nil")
	}

	// Should have default values
	if cfg.Analysis.MaxTraceDepth != 10 {
		t.Errorf("LoadOrDefault() returned non-default MaxTraceDepth: %d", cfg.Analysis.MaxTraceDepth)
	}
}

func TestLoadOrDefaultWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	// Create config file
	content := `
[analysis]
max_trace_depth = 99
`
	if err := os.WriteFile(filepath.Join(tmpDir, "seam.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	cfg := LoadOrDefault()
	if cfg.Analysis.MaxTraceDepth != 99 {
		t.Errorf("LoadOrDefault() should load from file, got MaxTraceDepth=%d", cfg.Analysis.MaxTraceDepth)
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		// Excluded directories
		{"vendor/pkg/file.c", true},
		{"third_party/pkg/file.cpp", true},
		{".git/objects/file", true},

		// Excluded patterns
		{"main_test.c", true},
		{"util_test.cpp", true},
		{"proto.gen.h", true},

		// Excluded extensions
		{"main.o", true},
		{"libfoo.a", true},

		// Not excluded
		{"main.c", false},
		{"src/util/helper.cpp", false},
		{"app.h", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := cfg.ShouldExclude(tt.path)
			if got != tt.want {
				t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestShouldExcludeCustomPatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude.Patterns = append(cfg.Exclude.Patterns, "*_generated.c", "*.pb.cc")
	cfg.Exclude.Dirs = append(cfg.Exclude.Dirs, "custom_exclude")

	tests := []struct {
		path string
		want bool
	}{
		{"model_generated.c", true},
		{"service.pb.cc", true},
		{"custom_exclude/file.c", true},
		{"main.c", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := cfg.ShouldExclude(tt.path)
			if got != tt.want {
				t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestShouldExcludePathsWithSeparators(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join("src", "vendor", "pkg", "file.c"), true},
		{filepath.Join("vendor", "file.c"), true},
		{filepath.Join("src", "main.c"), false},
		{filepath.Join("pkg", "vendor_utils.c"), false}, // "vendor" in name, not directory
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := cfg.ShouldExclude(tt.path)
			if got != tt.want {
				t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
