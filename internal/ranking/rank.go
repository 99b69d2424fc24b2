// Package ranking evaluates a batch of candidates against one job and orders them.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ecodeclub/ekit/slice"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-evaluator/internal/engine"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// Evaluator is the part of the engine ranking depends on.
type Evaluator interface {
	Validate(c *types.Candidate, j *types.Job) error
	Evaluate(ctx context.Context, c *types.Candidate, j *types.Job) (*types.EvaluationResult, error)
}

// Entry is one ranked candidate. Rank starts at 1.
type Entry struct {
	Rank        int                     `json:"rank"`
	CandidateID string                  `json:"candidate_id"`
	Result      *types.EvaluationResult `json:"result"`
}

// Rank evaluates candidates with the engine's configured concurrency.
func Rank(ctx context.Context, eng *engine.Engine, job *types.Job, candidates []*types.Candidate) ([]Entry, error) {
	return RankWith(ctx, eng, job, candidates, eng.Config().Ranking.Concurrency)
}

// RankWith validates every input before any evaluation starts, so the first invalid
// candidate in input order is the one reported. Results are ordered by overall score
// descending, then candidate ID ascending; ties keep input order.
func RankWith(ctx context.Context, ev Evaluator, job *types.Job, candidates []*types.Candidate, concurrency int) ([]Entry, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	for i, c := range candidates {
		if err := ev.Validate(c, job); err != nil {
			return nil, indexed(i, err)
		}
	}

	results := make([]*types.EvaluationResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, c := range candidates {
		g.Go(func() error {
			r, err := ev.Evaluate(gctx, c, job)
			if err != nil {
				return fmt.Errorf("failed to evaluate candidate %s: %w", c.ID, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].OverallScore != results[j].OverallScore {
			return results[i].OverallScore > results[j].OverallScore
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	return slice.Map(results, func(idx int, r *types.EvaluationResult) Entry {
		return Entry{Rank: idx + 1, CandidateID: r.CandidateID, Result: r}
	}), nil
}

// indexed rewrites a candidate validation error path to point into the batch.
func indexed(i int, err error) error {
	var ve *types.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	field := fmt.Sprintf("candidates[%d]", i)
	if rest := strings.TrimPrefix(ve.Field, "candidate"); rest != ve.Field {
		field += rest
	} else if ve.Field != "" {
		field = ve.Field
	}
	return &types.ValidationError{Field: field, Message: ve.Message}
}
