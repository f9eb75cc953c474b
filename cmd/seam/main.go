package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"sort"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/seam-dev/seam/internal/cache"
	"github.com/seam-dev/seam/internal/fileproc"
	"github.com/seam-dev/seam/internal/output"
	"github.com/seam-dev/seam/internal/progress"
	"github.com/seam-dev/seam/internal/report"
	"github.com/seam-dev/seam/internal/scanner"
	"github.com/seam-dev/seam/pkg/analyzer/index"
	"github.com/seam-dev/seam/pkg/analyzer/project"
	"github.com/seam-dev/seam/pkg/analyzer/trace"
	"github.com/seam-dev/seam/pkg/config"
	"github.com/seam-dev/seam/pkg/session"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

func main() {
	app := &cli.App{
		Name:     "seam",
		Usage:    "C/C++ call-boundary analysis CLI",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `Seam analyzes C and C++ sources without compiling them: function
exposure, call traces, branch structure, transitive dependencies, and
external definition lookup across a project tree.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"SEAM_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
			&cli.StringFlag{
				Name:  "pprof",
				Usage: "Enable pprof profiling and write to specified prefix (creates <prefix>.cpu.pprof and <prefix>.mem.pprof)",
			},
		},
		Before: func(c *cli.Context) error {
			if pprofPrefix := c.String("pprof"); pprofPrefix != "" {
				cpuFile, err := os.Create(pprofPrefix + ".cpu.pprof")
				if err != nil {
					return fmt.Errorf("failed to create CPU profile: %w", err)
				}
				if err := pprof.StartCPUProfile(cpuFile); err != nil {
					cpuFile.Close()
					return fmt.Errorf("failed to start CPU profile: %w", err)
				}
				// Store file handle for cleanup
				c.App.Metadata["pprofCPU"] = cpuFile
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if pprofPrefix := c.String("pprof"); pprofPrefix != "" {
				pprof.StopCPUProfile()
				if cpuFile, ok := c.App.Metadata["pprofCPU"].(*os.File); ok {
					cpuFile.Close()
					color.Green("CPU profile written to %s.cpu.pprof", pprofPrefix)
				}

				memFile, err := os.Create(pprofPrefix + ".mem.pprof")
				if err != nil {
					return fmt.Errorf("failed to create memory profile: %w", err)
				}
				defer memFile.Close()

				runtime.GC() // Get up-to-date statistics
				if err := pprof.WriteHeapProfile(memFile); err != nil {
					return fmt.Errorf("failed to write memory profile: %w", err)
				}
				color.Green("Memory profile written to %s.mem.pprof", pprofPrefix)
			}
			return nil
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			traceCmd(),
			boundaryCmd(),
			branchesCmd(),
			indexCmd(),
			initCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(os.Stderr)
	if c.Bool("verbose") {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
}

// collectFiles expands each path into analyzable source files: directories
// are scanned recursively, explicit files are checked against the same
// exclusion rules.
func collectFiles(paths []string, cfg *config.Config) ([]string, error) {
	scan := scanner.NewScanner(cfg)

	var files []string
	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", path, err)
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			found, err := scan.ScanDir(absPath)
			if err != nil {
				return nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
			}
			files = append(files, found...)
			continue
		}
		ok, err := scan.ScanFile(absPath)
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, absPath)
		}
	}
	return files, nil
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze files: exposure, traces, branches, dependencies",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Value:   "boundary",
				Usage:   "Analysis mode: boundary (per file) or project (whole tree)",
			},
			&cli.BoolFlag{
				Name:  "no-externs",
				Usage: "Skip external definition resolution",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	mode, err := session.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}
	if mode == session.ModeProject {
		return runIndexCmd(c)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.Bool("no-externs") {
		cfg.Analysis.ResolveExterns = false
	}

	files, err := collectFiles(getPaths(c), cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	sess, err := session.New(cfg, newLogger(c))
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	tracker := progress.NewTracker("Analyzing...", len(files))
	var errs fileproc.ProcessingErrors
	results := fileproc.ForEachFile(files, 0, func(path string) (*session.Result, error) {
		return sess.AnalyzeFile(c.Context, path)
	}, tracker.Tick, errs.Add)
	tracker.FinishSuccess()

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	for _, res := range results {
		if err := formatter.Output(report.Boundary(res)); err != nil {
			return err
		}
	}
	for _, pe := range errs.Errors {
		formatter.Warning("%s", pe.Error())
	}
	return nil
}

func traceCmd() *cli.Command {
	return &cli.Command{
		Name:      "trace",
		Aliases:   []string{"t"},
		Usage:     "Trace one function's call chain within a file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "function",
				Aliases:  []string{"fn"},
				Usage:    "Function to trace",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "depth",
				Usage: "Maximum trace depth (0 uses the configured default)",
			},
		},
		Action: runTraceCmd,
	}
}

func runTraceCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("trace requires exactly one file argument")
	}
	path := c.Args().First()
	name := c.String("function")

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	indexer := index.New()
	defer indexer.Close()
	ix, _, err := indexer.AnalyzeFile(path)
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", path, err)
	}

	depth := cfg.Analysis.MaxTraceDepth
	if d := c.Int("depth"); d > 0 {
		depth = d
	}
	node, ok := trace.New(ix, trace.WithMaxDepth(depth)).Trace(name)
	if !ok {
		return fmt.Errorf("function %q is not defined in %s", name, path)
	}
	deps := trace.Aggregate(ix, name)

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(report.Trace(name, node, deps))
}

func boundaryCmd() *cli.Command {
	return &cli.Command{
		Name:      "boundary",
		Aliases:   []string{"b"},
		Usage:     "Classify function exposure for each file",
		ArgsUsage: "[path...]",
		Action:    runBoundaryCmd,
	}
}

func runBoundaryCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// Exposure only: skip the heavier per-function stages.
	cfg.Analysis.Branches = false
	cfg.Analysis.Globals = false
	cfg.Analysis.ResolveExterns = false

	files, err := collectFiles(getPaths(c), cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	sess, err := session.New(cfg, newLogger(c))
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	var warnings []string
	for _, file := range files {
		res, err := sess.AnalyzeFile(c.Context, file)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", file, err))
			continue
		}
		for _, ep := range res.Boundary.EntryPoints {
			exposure := string(ep.Exposure)
			if colored := formatter.Colored(); colored && ep.Exposure == "API" {
				exposure = color.GreenString(exposure)
			}
			rows = append(rows, []string{
				file,
				ep.Name,
				strconv.Itoa(int(ep.Line)),
				exposure,
				ep.HeaderPath,
			})
		}
	}

	table := output.NewTable(
		"Function Exposure",
		[]string{"File", "Function", "Line", "Exposure", "Header"},
		rows,
		rows,
	)
	if err := formatter.Output(&output.Report{Title: "Boundary", Sections: []output.Renderable{table}}); err != nil {
		return err
	}
	for _, w := range warnings {
		formatter.Warning("%s", w)
	}
	return nil
}

func branchesCmd() *cli.Command {
	return &cli.Command{
		Name:      "branches",
		Aliases:   []string{"br"},
		Usage:     "Report branch structure and cyclomatic complexity",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "threshold",
				Value: 10,
				Usage: "Cyclomatic complexity warning threshold",
			},
		},
		Action: runBranchesCmd,
	}
}

func runBranchesCmd(c *cli.Context) error {
	threshold := c.Int("threshold")

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg.Analysis.Globals = false
	cfg.Analysis.ResolveExterns = false

	files, err := collectFiles(getPaths(c), cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	sess, err := session.New(cfg, newLogger(c))
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	var warnings []string
	for _, file := range files {
		res, err := sess.AnalyzeFile(c.Context, file)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", file, err))
			continue
		}
		for _, fn := range res.Functions {
			if fn.Branches == nil {
				continue
			}
			b := fn.Branches
			cyc := strconv.Itoa(int(b.Cyclomatic))
			if int(b.Cyclomatic) > threshold {
				cyc = color.RedString("%d", b.Cyclomatic)
				warnings = append(warnings, fmt.Sprintf("%s:%d %s - cyclomatic complexity %d exceeds threshold %d",
					file, b.StartLine, fn.Name, b.Cyclomatic, threshold))
			}
			rows = append(rows, []string{
				file,
				fn.Name,
				strconv.Itoa(int(b.StartLine)),
				cyc,
				strconv.Itoa(b.IfCount),
				strconv.Itoa(b.LoopCount),
				strconv.Itoa(b.SwitchCount),
				strconv.Itoa(b.LogicalOps),
			})
		}
	}

	table := output.NewTable(
		"Branch Structure",
		[]string{"File", "Function", "Line", "Cyclomatic", "Ifs", "Loops", "Switches", "Logical Ops"},
		rows,
		rows,
	)
	if err := formatter.Output(&output.Report{Title: "Branches", Sections: []output.Renderable{table}}); err != nil {
		return err
	}
	for _, w := range warnings {
		formatter.Warning("%s", w)
	}
	return nil
}

func indexCmd() *cli.Command {
	return &cli.Command{
		Name:      "index",
		Aliases:   []string{"i"},
		Usage:     "Index a whole tree: symbols, call graph, recursion groups",
		ArgsUsage: "[path...]",
		Action:    runIndexCmd,
	}
}

func runIndexCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	files, err := collectFiles(getPaths(c), cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	cacheEnabled := cfg.Cache.Enabled && !c.Bool("no-cache")
	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cacheEnabled)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}

	tracker := progress.NewTracker("Indexing...", len(files))
	proj, err := project.New(
		project.WithCache(store),
		project.WithLogger(newLogger(c)),
		project.WithProgress(tracker.Tick),
	).Analyze(c.Context, files)
	tracker.FinishSuccess()
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(report.Project(proj))
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Write a default seam.toml to the current directory",
		Action: runInitCmd,
	}
}

const defaultConfigTOML = `[analysis]
max_trace_depth = 10
branches = true
globals = true
resolve_externs = true

[classification]
# Ordered globs; first match wins within each class.
logging_utility = ["log_*", "LOG_*", "trace_*", "dbg_*"]

[search]
timeout_seconds = 5
max_results = 200
max_header_files = 50

[exclude]
patterns = ["*_test.c", "*_test.cpp", "*.gen.c", "*.gen.h"]
dirs = ["vendor", "third_party", ".git", ".seam", "dist", "build"]
gitignore = true

[cache]
enabled = true
dir = ".seam/cache"
ttl = 24

[output]
format = "text"
color = true
`

func runInitCmd(c *cli.Context) error {
	const path = "seam.toml"
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTOML), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	color.Green("Wrote %s", path)
	return nil
}
