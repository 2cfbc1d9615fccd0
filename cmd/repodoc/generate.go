package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Strob0t/repodoc/internal/config"
	"github.com/Strob0t/repodoc/internal/domain/repo"
	"github.com/Strob0t/repodoc/internal/logger"
	"github.com/Strob0t/repodoc/internal/render"
	"github.com/Strob0t/repodoc/internal/service"
)

const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

type generateOptions struct {
	format  string
	output  string
	noColor bool
	style   string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <repo-url>",
		Short: "Generate documentation for a GitHub repository.",
		Example: `  repodoc generate https://github.com/owner/name
  repodoc generate github.com/owner/name --format markdown -o DOCS.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			slog.SetDefault(logger.New(cfg.Logging, os.Stderr))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runGenerate(ctx, cfg, args[0], opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json or markdown")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable syntax highlighting")
	cmd.Flags().StringVar(&opts.style, "style", render.DefaultStyle, "chroma style for highlighted output")
	return cmd
}

func runGenerate(ctx context.Context, cfg *config.Config, repoURL string, opts *generateOptions, stdout io.Writer) error {
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if cfg.Server.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Server.RequestTimeout)
		defer cancel()
	}

	res, err := a.docs.Generate(ctx, repoURL)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	title := repoURL
	if ref, err := repo.ParseURL(repoURL, cfg.GitHub.Host); err == nil {
		title = ref.FullName()
	}

	return withOutput(opts.output, stdout, func(w io.Writer, tty bool) error {
		return writeResult(w, res, title, opts.format, tty && !opts.noColor, opts.style)
	})
}

// writeResult renders res in the given format, highlighting it when colorize is set.
func writeResult(w io.Writer, res *service.Result, title, format string, colorize bool, style string) error {
	var b strings.Builder
	lexer := formatJSON
	switch format {
	case formatMarkdown:
		lexer = formatMarkdown
		if err := render.Markdown(&b, title, res.Documentation); err != nil {
			return err
		}
		fmt.Fprintf(&b, "_Commit `%s`, generated %s._\n", res.CommitHash, res.GeneratedAt)
	default:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		b.Write(data)
		b.WriteByte('\n')
	}

	if colorize {
		return render.Highlight(w, b.String(), lexer, style)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatMarkdown:
		return nil
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", format, formatJSON, formatMarkdown)
}

// withOutput runs fn against the output file, or stdout when path is empty.
// tty reports whether the destination is an interactive terminal.
func withOutput(path string, stdout io.Writer, fn func(w io.Writer, tty bool) error) error {
	if path == "" {
		return fn(stdout, isTerminal(stdout))
	}
	f, err := os.Create(path) //nolint:gosec // G304: path is operator-supplied
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := fn(f, false); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int
}
