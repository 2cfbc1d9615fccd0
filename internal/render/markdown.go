// Package render formats documentation and analysis results for terminals
// and files.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Strob0t/repodoc/internal/domain/docs"
)

const noneDetected = "_None detected._"

// Markdown writes d as a Markdown document titled title, one section per
// documentation field.
func Markdown(w io.Writer, title string, d *docs.GeneratedDocumentation) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n\n", title)

	fmt.Fprint(bw, "## Overview\n\n")
	fmt.Fprintf(bw, "%s\n\n", strings.TrimSpace(d.Overview))

	fmt.Fprint(bw, "## Flow\n\n")
	writeNumbered(bw, d.Flow)

	fmt.Fprint(bw, "## Functions\n\n")
	if len(d.Functions) == 0 {
		fmt.Fprintf(bw, "%s\n\n", noneDetected)
	} else {
		for _, f := range d.Functions {
			fmt.Fprintf(bw, "- `%s`: %s\n", f.Name, f.Responsibility)
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprint(bw, "## Tech Stack\n\n")
	for _, c := range []struct {
		name  string
		items []string
	}{
		{"Frontend", d.TechStack.Frontend},
		{"Backend", d.TechStack.Backend},
		{"Database", d.TechStack.Database},
		{"Tooling", d.TechStack.Tooling},
	} {
		items := noneDetected
		if len(c.items) > 0 {
			items = strings.Join(c.items, ", ")
		}
		fmt.Fprintf(bw, "- **%s**: %s\n", c.name, items)
	}
	fmt.Fprintln(bw)

	fmt.Fprint(bw, "## Setup\n\n")
	writeNumbered(bw, d.Setup)

	return bw.Flush()
}

func writeNumbered(w io.Writer, steps []string) {
	if len(steps) == 0 {
		fmt.Fprintf(w, "%s\n\n", noneDetected)
		return
	}
	for i, s := range steps {
		fmt.Fprintf(w, "%d. %s\n", i+1, s)
	}
	fmt.Fprintln(w)
}
