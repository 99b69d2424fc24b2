// Package main provides the evaluator CLI: single evaluations, batch ranking,
// the HTTP API server and embedding index tooling.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logJSON    bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "evaluator",
		Short:         "Hybrid candidate evaluation engine",
		Long:          "Scores candidates against job requirements across six sections, applies hard rejections, industry adjustments and interaction bonuses, and explains every verdict.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a scoring configuration YAML file (defaults to the embedded configuration)")
	cmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		newEvaluateCmd(opts),
		newRankCmd(opts),
		newServeCmd(opts),
		newValidateConfigCmd(opts),
		newBuildEmbeddingsCmd(opts),
	)
	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
