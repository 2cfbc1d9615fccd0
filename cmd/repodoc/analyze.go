package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Strob0t/repodoc/internal/config"
	"github.com/Strob0t/repodoc/internal/logger"
	"github.com/Strob0t/repodoc/internal/render"
	"github.com/Strob0t/repodoc/internal/service"
)

type analyzeOptions struct {
	json    bool
	noColor bool
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <repo-url>",
		Short: "Show the heuristic analysis of a repository without calling a model.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			slog.SetDefault(logger.New(cfg.Logging, os.Stderr))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runAnalyze(ctx, cfg, args[0], opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the analysis as JSON")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable coloured output")
	return cmd
}

func runAnalyze(ctx context.Context, cfg *config.Config, repoURL string, opts *analyzeOptions, w io.Writer) error {
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.docs.Analyze(ctx, repoURL)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return writeAnalysis(w, res, opts.json, isTerminal(w) && !opts.noColor)
}

func writeAnalysis(w io.Writer, res *service.AnalysisResult, asJSON, colorize bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return render.AnalysisTable(w, res.Analysis, render.AnalysisMeta{
		CommitHash:    res.CommitHash,
		DefaultBranch: res.DefaultBranch,
		Fingerprint:   res.Fingerprint,
		Truncated:     res.Truncated,
	}, colorize)
}
