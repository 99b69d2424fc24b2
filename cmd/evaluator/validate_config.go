package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/engine"
)

type validateConfigOptions struct {
	printDefault bool
}

func newValidateConfigCmd(root *rootOptions) *cobra.Command {
	opts := &validateConfigOptions{}
	cmd := &cobra.Command{
		Use:   "validate-config",
		Short: "Check a scoring configuration file",
		Long:  "Loads the configuration named by --config (or the embedded default), reports every problem found, and compiles its rules exactly as the engine would at startup.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidateConfig(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.printDefault, "print-default", false, "Print the embedded default configuration and exit")
	return cmd
}

//nolint:errcheck // writing to the command output; errors are not recoverable
func runValidateConfig(cmd *cobra.Command, root *rootOptions, opts *validateConfigOptions) error {
	out := cmd.OutOrStdout()
	if opts.printDefault {
		_, err := out.Write(config.DefaultYAML())
		return err
	}

	cfg, err := root.loadConfig()
	if err == nil {
		// Rule compilation catches problems Validate cannot, e.g. malformed rule params
		_, err = engine.New(cfg)
	}
	if err != nil {
		var ce *config.ConfigurationError
		if errors.As(err, &ce) {
			fmt.Fprintln(out, "Configuration invalid:")
			for i, p := range ce.Problems {
				fmt.Fprintf(out, "  %d. %s\n", i+1, p)
			}
		}
		return err
	}

	source := root.configPath
	if source == "" {
		source = "embedded default"
	}
	fmt.Fprintf(out, "Configuration valid (%s): version %s, %d hard rejection rules, %d interaction rules, %d industries\n",
		source, cfg.Version, len(cfg.HardRejectionRules), len(cfg.InteractionRules), len(cfg.IndustryAdjustments))
	return nil
}
