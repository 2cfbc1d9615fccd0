package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Strob0t/repodoc/internal/domain/analysis"
)

// AnalysisMeta is the snapshot information shown above an analysis table.
type AnalysisMeta struct {
	CommitHash    string
	DefaultBranch string
	Fingerprint   string
	Truncated     bool
}

// AnalysisTable writes a human-readable summary of a heuristic analysis.
// colorize forces colour on or off regardless of the terminal.
func AnalysisTable(w io.Writer, a *analysis.RepoAnalysis, meta AnalysisMeta, colorize bool) error {
	heading := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)
	warn := color.New(color.FgYellow, color.Bold)
	for _, c := range []*color.Color{heading, dim, warn} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	fmt.Fprintf(w, "%s\n", heading.Sprint(a.ProjectName))
	fmt.Fprintf(w, "%s\n", a.ShortDescription)
	fmt.Fprintf(w, "%s\n", dim.Sprintf("branch %s  commit %s  fingerprint %s", meta.DefaultBranch, meta.CommitHash, meta.Fingerprint))
	if meta.Truncated {
		fmt.Fprintf(w, "%s\n", warn.Sprint("warning: file tree was truncated by GitHub; results may be incomplete"))
	}
	fmt.Fprintln(w)

	stack := tablewriter.NewWriter(w)
	stack.Header("Category", "Technologies")
	stack.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	rows := [][]string{
		{"Frontend", joinOrDash(a.TechStack.Frontend)},
		{"Backend", joinOrDash(a.TechStack.Backend)},
		{"Database", joinOrDash(a.TechStack.Database)},
		{"Tooling", joinOrDash(a.TechStack.Tooling)},
	}
	if err := stack.Bulk(rows); err != nil {
		return err
	}
	if err := stack.Render(); err != nil {
		return err
	}

	if len(a.Functions) > 0 {
		fmt.Fprintln(w)
		fns := tablewriter.NewWriter(w)
		fns.Header("File", "Responsibility")
		fns.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignLeft
		})
		data := make([][]string, 0, len(a.Functions))
		for _, f := range a.Functions {
			data = append(data, []string{f.Name, f.Responsibility})
		}
		if err := fns.Bulk(data); err != nil {
			return err
		}
		if err := fns.Render(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\n%s\n", heading.Sprint("Flow"))
	for i, step := range a.Flow {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}
	fmt.Fprintf(w, "\n%s\n", heading.Sprint("Setup"))
	for i, step := range a.SetupHints {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}
	return nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
