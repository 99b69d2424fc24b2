package main

import (
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-evaluator/internal/logger"
	"github.com/jonathan/candidate-evaluator/internal/observability"
	"github.com/jonathan/candidate-evaluator/internal/ranking"
	"github.com/jonathan/candidate-evaluator/internal/server"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

type rankOptions struct {
	candidatesPath string
	jobPath        string
	outPath        string
	concurrency    int
	top            int
	verbose        bool
}

func newRankCmd(root *rootOptions) *cobra.Command {
	opts := &rankOptions{}
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank a batch of candidates for one job",
		Long:  "Evaluates every candidate in a JSON array against a Job and writes the rankings, best first. Ties are broken by candidate ID.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRank(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.candidatesPath, "candidates", "", "Path to a JSON array of Candidates (required)")
	cmd.Flags().StringVarP(&opts.jobPath, "job", "j", "", "Path to input Job JSON file (required)")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Parallel evaluations (defaults to ranking.concurrency from the configuration)")
	cmd.Flags().IntVar(&opts.top, "top", 0, "Only output the top N candidates (0 for all)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print a human-readable summary to stderr")

	if err := cmd.MarkFlagRequired("candidates"); err != nil {
		panic(fmt.Sprintf("failed to mark candidates flag as required: %v", err))
	}
	if err := cmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
	return cmd
}

func runRank(cmd *cobra.Command, root *rootOptions, opts *rankOptions) error {
	if opts.concurrency < 0 || opts.top < 0 {
		return fmt.Errorf("--concurrency and --top must not be negative")
	}

	log, err := root.newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	job, err := readJob(opts.jobPath)
	if err != nil {
		return err
	}
	candidates, err := readCandidates(opts.candidatesPath)
	if err != nil {
		return err
	}

	eng, err := root.newEngine(logger.WithFields(log, logger.EvaluationFields("", job.ID)...), nil)
	if err != nil {
		return err
	}

	concurrency := opts.concurrency
	if concurrency == 0 {
		concurrency = eng.Config().Ranking.Concurrency
	}
	entries, err := ranking.RankWith(cmd.Context(), eng, job, candidates, concurrency)
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}
	if opts.top > 0 && len(entries) > opts.top {
		entries = entries[:opts.top]
	}
	if entries == nil {
		entries = []ranking.Entry{}
	}

	if opts.verbose {
		results := slice.Map(entries, func(_ int, e ranking.Entry) *types.EvaluationResult { return e.Result })
		observability.NewPrinter(cmd.ErrOrStderr()).PrintRanking(job.ID, results)
	}
	return writeJSON(cmd.OutOrStdout(), opts.outPath, server.RankResponse{JobID: job.ID, Rankings: entries})
}
