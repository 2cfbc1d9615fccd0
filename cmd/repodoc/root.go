package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Strob0t/repodoc/internal/config"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
	envPath    string
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFiles(o.configPath, o.envPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "repodoc",
		Short: "Generate structured documentation for GitHub repositories.",
		Long: `repodoc reads a repository's file tree from GitHub, derives a heuristic
analysis of its stack and layout, and asks a language model to turn that
analysis into schema-validated documentation.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultConfigFile, "YAML configuration file (optional)")
	root.PersistentFlags().StringVar(&opts.envPath, "env-file", config.DefaultEnvFile, "dotenv file (optional)")

	root.AddCommand(
		newServeCmd(opts),
		newGenerateCmd(opts),
		newAnalyzeCmd(opts),
		newVersionCmd(),
	)
	return root
}
