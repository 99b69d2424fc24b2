package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-evaluator/internal/logger"
	"github.com/jonathan/candidate-evaluator/internal/observability"
)

type evaluateOptions struct {
	candidatePath string
	jobPath       string
	outPath       string
	verbose       bool
}

func newEvaluateCmd(root *rootOptions) *cobra.Command {
	opts := &evaluateOptions{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one candidate against one job",
		Long:  "Reads a Candidate and a Job JSON file, checks both against their schemas, and writes the EvaluationResult as JSON.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.candidatePath, "candidate", "C", "", "Path to input Candidate JSON file (required)")
	cmd.Flags().StringVarP(&opts.jobPath, "job", "j", "", "Path to input Job JSON file (required)")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print a human-readable summary to stderr")

	if err := cmd.MarkFlagRequired("candidate"); err != nil {
		panic(fmt.Sprintf("failed to mark candidate flag as required: %v", err))
	}
	if err := cmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
	return cmd
}

func runEvaluate(cmd *cobra.Command, root *rootOptions, opts *evaluateOptions) error {
	log, err := root.newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	candidate, err := readCandidate(opts.candidatePath)
	if err != nil {
		return err
	}
	job, err := readJob(opts.jobPath)
	if err != nil {
		return err
	}

	eng, err := root.newEngine(logger.WithFields(log, logger.EvaluationFields(candidate.ID, job.ID)...), nil)
	if err != nil {
		return err
	}

	result, err := eng.Evaluate(cmd.Context(), candidate, job)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if opts.verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintEvaluation(result)
	}
	return writeJSON(cmd.OutOrStdout(), opts.outPath, result)
}
