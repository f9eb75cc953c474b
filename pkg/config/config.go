package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/seam-dev/seam/pkg/analyzer/classify"
)

// Config holds all configuration options for seam.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis"`

	// Rules for classifying external calls
	Classification classify.Rules `koanf:"classification"`

	// Search settings for definition resolution
	Search SearchConfig `koanf:"search"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// AnalysisConfig controls trace and branch analysis.
type AnalysisConfig struct {
	MaxTraceDepth  int  `koanf:"max_trace_depth"`
	Branches       bool `koanf:"branches"`
	Globals        bool `koanf:"globals"`
	ResolveExterns bool `koanf:"resolve_externs"`
}

// SearchConfig bounds the text-search collaborator.
type SearchConfig struct {
	TimeoutSeconds int `koanf:"timeout_seconds"`
	MaxResults     int `koanf:"max_results"`
	MaxHeaderFiles int `koanf:"max_header_files"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns   []string `koanf:"patterns"`
	Extensions []string `koanf:"extensions"`
	Dirs       []string `koanf:"dirs"`
	Gitignore  bool     `koanf:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	TTL     int    `koanf:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MaxTraceDepth:  10,
			Branches:       true,
			Globals:        true,
			ResolveExterns: true,
		},
		Classification: classify.DefaultRules(),
		Search: SearchConfig{
			TimeoutSeconds: 5,
			MaxResults:     200,
			MaxHeaderFiles: 50,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*_test.c",
				"*_test.cpp",
				"*.gen.c",
				"*.gen.h",
			},
			Extensions: []string{
				".o",
				".obj",
				".a",
			},
			Dirs: []string{
				"vendor",
				"third_party",
				".git",
				".seam",
				"dist",
				"build",
				"cmake-build-debug",
				"cmake-build-release",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".seam/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		// Try to detect from content or default to TOML
		parser = toml.Parser()
	}

	// Load the config file
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	// Unmarshal into config struct
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	// Standard config file names to search for
	configNames := []string{
		"seam.toml",
		"seam.yaml",
		"seam.yml",
		"seam.json",
		".seam.toml",
		".seam.yaml",
		".seam.yml",
		".seam.json",
	}

	// Search in current directory and .seam directory
	searchDirs := []string{".", ".seam"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	// Check directory exclusions
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	// Check extension exclusions
	ext := filepath.Ext(path)
	for _, excludeExt := range c.Exclude.Extensions {
		if ext == excludeExt {
			return true
		}
	}

	// Check pattern exclusions
	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
