// Package report assembles analysis results into renderable output
// structures.
package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/seam-dev/seam/internal/output"
	"github.com/seam-dev/seam/pkg/analyzer/project"
	"github.com/seam-dev/seam/pkg/analyzer/trace"
	"github.com/seam-dev/seam/pkg/extract"
	"github.com/seam-dev/seam/pkg/session"
)

// Boundary builds the full report for a boundary session result.
func Boundary(result *session.Result) *output.Report {
	r := &output.Report{
		Title: fmt.Sprintf("Analysis: %s", filepath.Base(result.Path)),
		Data:  result,
	}

	r.Sections = append(r.Sections, entryPointTable(result))
	if t := dependencyTable(result); t != nil {
		r.Sections = append(r.Sections, t)
	}
	if t := branchTable(result); t != nil {
		r.Sections = append(r.Sections, t)
	}
	for _, s := range traceSections(result) {
		r.Sections = append(r.Sections, s)
	}
	if t := definitionTable(result); t != nil {
		r.Sections = append(r.Sections, t)
	}

	return r
}

func entryPointTable(result *session.Result) *output.Table {
	rows := make([][]string, 0, len(result.Boundary.EntryPoints))
	for _, ep := range result.Boundary.EntryPoints {
		header := ep.HeaderPath
		if header == "" {
			header = "-"
		}
		rows = append(rows, []string{
			ep.Name,
			string(ep.Exposure),
			strconv.Itoa(int(ep.Line)),
			filepath.Base(header),
		})
	}
	return output.NewTable(
		"Entry Points",
		[]string{"Function", "Exposure", "Line", "Declared In"},
		rows,
		result.Boundary.EntryPoints,
	)
}

func dependencyTable(result *session.Result) *output.Table {
	var rows [][]string
	for _, fn := range result.Functions {
		if fn.Dependencies == nil {
			continue
		}
		rows = append(rows, []string{
			fn.Name,
			strings.Join(fn.Dependencies.Internal, ", "),
			classesSummary(fn),
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return output.NewTable(
		"Dependencies",
		[]string{"Function", "Internal", "External"},
		rows,
		nil,
	)
}

func classesSummary(fn session.FunctionReport) string {
	if fn.ExternalCalls == nil {
		return ""
	}
	var parts []string
	appendGroup := func(label string, names []string) {
		if len(names) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", label, strings.Join(names, ", ")))
		}
	}
	appendGroup("business", fn.ExternalCalls.Business)
	appendGroup("stdlib", fn.ExternalCalls.StandardLibrary)
	appendGroup("logging", fn.ExternalCalls.LoggingUtility)
	appendGroup("macros", fn.ExternalCalls.Macros)
	return strings.Join(parts, "; ")
}

func branchTable(result *session.Result) *output.Table {
	var rows [][]string
	for _, fn := range result.Functions {
		if fn.Branches == nil {
			continue
		}
		b := fn.Branches
		rows = append(rows, []string{
			fn.Name,
			strconv.Itoa(int(b.Cyclomatic)),
			strconv.Itoa(b.IfCount),
			strconv.Itoa(b.LoopCount),
			strconv.Itoa(b.SwitchCount),
			strconv.Itoa(b.EarlyReturns),
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return output.NewTable(
		"Branches",
		[]string{"Function", "Cyclomatic", "Ifs", "Loops", "Switches", "Early Returns"},
		rows,
		nil,
	)
}

func traceSections(result *session.Result) []output.Renderable {
	var sections []output.Renderable
	for _, fn := range result.Functions {
		if fn.Trace == nil {
			continue
		}
		var sb strings.Builder
		renderTrace(&sb, fn.Trace, 0)
		sections = append(sections, &output.Section{
			Title:   fmt.Sprintf("Call Trace: %s", fn.Name),
			Content: strings.TrimRight(sb.String(), "\n"),
			Data:    fn.Trace,
		})
	}
	return sections
}

func renderTrace(sb *strings.Builder, node *trace.CallNode, depth int) {
	indent := strings.Repeat("  ", depth)
	label := node.FunctionName
	if node.LineNumber > 0 {
		label = fmt.Sprintf("%s:%d", node.FunctionName, node.LineNumber)
	}
	if node.IsRecursive {
		label += " (recursive)"
	}
	if node.IsExternal() {
		label += " [external]"
	}
	if node.CalledFromLine > 0 {
		fmt.Fprintf(sb, "%s%s  (line %d)\n", indent, label, node.CalledFromLine)
	} else {
		fmt.Fprintf(sb, "%s%s\n", indent, label)
	}
	for _, child := range node.Children {
		renderTrace(sb, child, depth+1)
	}
}

func definitionTable(result *session.Result) *output.Table {
	if len(result.Definitions) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(result.Definitions))
	for _, d := range result.Definitions {
		status := "found"
		location := "-"
		if d.Found {
			location = fmt.Sprintf("%s:%d", filepath.Base(d.FilePath), d.Line)
		} else {
			status = "missing"
		}
		rows = append(rows, []string{d.Name, string(d.Kind), status, location})
	}
	return output.NewTable(
		"External Definitions",
		[]string{"Name", "Kind", "Status", "Location"},
		rows,
		result.Definitions,
	)
}

// Definitions renders a standalone definition lookup result.
func Definitions(defs []extract.Definition) *output.Report {
	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		location := "-"
		if d.Found {
			location = fmt.Sprintf("%s:%d", d.FilePath, d.Line)
		}
		rows = append(rows, []string{d.Name, string(d.Kind), location, d.Definition})
	}
	return &output.Report{
		Title: "Definitions",
		Sections: []output.Renderable{
			output.NewTable("", []string{"Name", "Kind", "Location", "Definition"}, rows, defs),
		},
		Data: defs,
	}
}

// Project builds the report for a whole-tree index.
func Project(proj *project.Project) *output.Report {
	r := &output.Report{
		Title: "Project Index",
		Data:  proj,
	}

	summary := output.NewTable(
		"Summary",
		[]string{"Files", "Functions", "Calls", "Recursion Groups"},
		[][]string{{
			strconv.Itoa(len(proj.Files)),
			strconv.Itoa(proj.FunctionCount()),
			strconv.Itoa(len(proj.Calls)),
			strconv.Itoa(len(proj.RecursionGroups)),
		}},
		nil,
	)
	r.Sections = append(r.Sections, summary)

	if len(proj.RecursionGroups) > 0 {
		rows := make([][]string, 0, len(proj.RecursionGroups))
		for _, group := range proj.RecursionGroups {
			rows = append(rows, []string{strings.Join(group, " -> ")})
		}
		r.Sections = append(r.Sections, output.NewTable(
			"Recursion Groups",
			[]string{"Cycle"},
			rows,
			proj.RecursionGroups,
		))
	}

	// Functions defined more than once are worth surfacing: they are
	// where definition lookup preferences actually matter.
	var dupRows [][]string
	names := make([]string, 0, len(proj.Symbols))
	for name := range proj.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		syms := proj.Symbols[name]
		if len(syms) < 2 {
			continue
		}
		paths := make([]string, 0, len(syms))
		for _, s := range syms {
			paths = append(paths, s.Path)
		}
		dupRows = append(dupRows, []string{name, strings.Join(paths, ", ")})
	}
	if len(dupRows) > 0 {
		r.Sections = append(r.Sections, output.NewTable(
			"Multiple Definitions",
			[]string{"Function", "Defined In"},
			dupRows,
			nil,
		))
	}

	return r
}

// Trace renders a single call tree with its transitive dependency sets.
func Trace(name string, node *trace.CallNode, deps *trace.Dependencies) *output.Report {
	var sb strings.Builder
	renderTrace(&sb, node, 0)
	r := &output.Report{
		Title: fmt.Sprintf("Call Trace: %s", name),
		Sections: []output.Renderable{
			&output.Section{
				Title:   "Trace",
				Content: strings.TrimRight(sb.String(), "\n"),
				Data:    node,
			},
		},
		Data: node,
	}
	if deps != nil {
		r.Sections = append(r.Sections,
			&output.Section{Title: "Internal Dependencies", Content: listOrNone(deps.Internal)},
			&output.Section{Title: "External Dependencies", Content: listOrNone(deps.External)},
		)
	}
	return r
}

// Aggregate renders one function's transitive dependency sets.
func Aggregate(name string, deps *trace.Dependencies) *output.Report {
	return &output.Report{
		Title: fmt.Sprintf("Dependencies: %s", name),
		Sections: []output.Renderable{
			&output.Section{Title: "Internal", Content: listOrNone(deps.Internal)},
			&output.Section{Title: "External", Content: listOrNone(deps.External)},
		},
		Data: deps,
	}
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, "\n")
}
