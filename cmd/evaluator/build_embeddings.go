package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-evaluator/internal/llm"
	"github.com/jonathan/candidate-evaluator/internal/skills"
)

// indexEmbedder is what build-embeddings needs from an embedding client.
type indexEmbedder interface {
	skills.Embedder
	Model() string
	Close() error
}

// newEmbedder is replaced in tests.
var newEmbedder = func(ctx context.Context, cfg *llm.Config, apiKey string) (indexEmbedder, error) {
	e, err := llm.NewGeminiEmbedder(ctx, cfg, apiKey)
	if err != nil {
		return nil, err
	}
	return e, nil
}

type buildEmbeddingsOptions struct {
	outPath        string
	jobPaths       []string
	candidatePaths []string
	model          string
	batchSize      int
}

func newBuildEmbeddingsCmd(root *rootOptions) *cobra.Command {
	opts := &buildEmbeddingsOptions{}
	cmd := &cobra.Command{
		Use:   "build-embeddings",
		Short: "Precompute the skill embedding index",
		Long:  "Embeds the skill vocabulary (taxonomy canonical names plus skills found in the given job and candidate files) with Gemini and writes the index used for semantic skill matching. Requires GEMINI_API_KEY.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuildEmbeddings(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Path to output embedding index JSON file (required)")
	cmd.Flags().StringSliceVarP(&opts.jobPaths, "job", "j", nil, "Job JSON files whose skills join the vocabulary (repeatable)")
	cmd.Flags().StringSliceVar(&opts.candidatePaths, "candidates", nil, "Candidate array JSON files whose skills join the vocabulary (repeatable)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Embedding model (defaults to the Gemini embedding model)")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "Texts per embedding request (defaults to the provider maximum)")

	if err := cmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}
	return cmd
}

func runBuildEmbeddings(cmd *cobra.Command, root *rootOptions, opts *buildEmbeddingsOptions) error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	log, err := root.newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	vocabulary, err := collectVocabulary(skills.NewTaxonomy(cfg.Skills.Synonyms), opts.jobPaths, opts.candidatePaths)
	if err != nil {
		return err
	}

	llmCfg := llm.DefaultGeminiConfig()
	if opts.model != "" {
		llmCfg = llmCfg.WithModel(opts.model)
	}
	if opts.batchSize > 0 {
		llmCfg.BatchSize = opts.batchSize
	}

	embedder, err := newEmbedder(cmd.Context(), llmCfg, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create embedding client: %w", err)
	}
	defer func() { _ = embedder.Close() }()

	log.Info("embedding skill vocabulary",
		zap.Int("skills", len(vocabulary)),
		zap.String("model", embedder.Model()),
	)
	ix, err := skills.BuildIndex(cmd.Context(), embedder, embedder.Model(), vocabulary, llmCfg.EffectiveBatchSize())
	if err != nil {
		return fmt.Errorf("failed to build embedding index: %w", err)
	}
	if err := skills.WriteIndex(opts.outPath, ix); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully wrote %d skill vectors (dimension %d) to %s\n", ix.Len(), ix.Dimension(), opts.outPath)
	return nil
}

// collectVocabulary gathers canonical taxonomy names and every skill named in the input files.
func collectVocabulary(taxonomy *skills.Taxonomy, jobPaths, candidatePaths []string) ([]string, error) {
	vocabulary := taxonomy.Vocabulary()

	for _, path := range jobPaths {
		job, err := readJob(path)
		if err != nil {
			return nil, err
		}
		for _, s := range job.Skills {
			vocabulary = append(vocabulary, taxonomy.Canonical(s.Name))
		}
	}
	for _, path := range candidatePaths {
		candidates, err := readCandidates(path)
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			for _, s := range c.Skills {
				vocabulary = append(vocabulary, taxonomy.Canonical(s.Name))
			}
		}
	}
	return vocabulary, nil
}
