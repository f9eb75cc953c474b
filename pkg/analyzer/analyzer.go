package analyzer

import "context"

// FileAnalyzer is the interface for analyzers that process collections
// of files with context support, used by whole-project analysis.
type FileAnalyzer[T any] interface {
	// Analyze processes a collection of files and returns the analysis result.
	// The context can be used for cancellation and progress reporting.
	Analyze(ctx context.Context, files []string) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}

// SingleFileAnalyzer is the interface for analyzers whose unit of work
// is one source file.
type SingleFileAnalyzer[T any] interface {
	// AnalyzeFile analyzes one file and returns the result.
	AnalyzeFile(path string) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}
