// Command repodoc generates structured documentation for GitHub repositories,
// as an HTTP/MCP service or from the command line.
package main

import (
	"log/slog"
	"os"
)

// Set by the linker at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}
