// Package engine evaluates one candidate against one job: it resolves skills,
// scores every section, applies hard rejections, industry adjustments and
// interaction bonuses, then aggregates and explains the result.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-evaluator/internal/adjustment"
	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/logger"
	"github.com/jonathan/candidate-evaluator/internal/observability"
	"github.com/jonathan/candidate-evaluator/internal/rules"
	"github.com/jonathan/candidate-evaluator/internal/scoring"
	"github.com/jonathan/candidate-evaluator/internal/skills"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// Engine is safe for concurrent use. Its configuration is never modified after New.
type Engine struct {
	cfg          *config.Config
	matcher      *skills.Matcher
	rejections   *rules.RejectionEngine
	interactions *rules.InteractionDetector
	logger       *zap.Logger
	metrics      *observability.Metrics
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMatcher replaces the matcher built from the configuration.
func WithMatcher(m *skills.Matcher) Option {
	return func(e *Engine) { e.matcher = m }
}

// WithMetrics records every evaluation in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New validates the configuration and compiles its rules. Every problem is
// reported as a *config.ConfigurationError.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, &config.ConfigurationError{Problems: []string{"configuration is required"}}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rejections, err := rules.NewRejectionEngine(cfg.HardRejectionRules, cfg.Recommendation.NearMissMargin)
	if err != nil {
		return nil, err
	}
	interactions, err := rules.NewInteractionDetector(cfg.InteractionRules, cfg.MaxInteractionBonus)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:          cfg,
		rejections:   rejections,
		interactions: interactions,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.matcher == nil {
		var matcherOpts []skills.MatcherOption
		if path := cfg.Skills.EmbeddingIndex; path != "" {
			ix, err := skills.LoadIndex(path)
			if err != nil {
				return nil, &config.ConfigurationError{Problems: []string{fmt.Sprintf("skills.embedding_index: %v", err)}}
			}
			matcherOpts = append(matcherOpts, skills.WithIndex(ix))
		}
		e.matcher = skills.NewMatcher(skills.NewTaxonomy(cfg.Skills.Synonyms), cfg.Skills.SemanticThreshold, matcherOpts...)
	}
	if !e.matcher.SemanticAvailable() {
		e.logger.Info("semantic skill matching disabled; evaluations fall back to lexical matching")
	}
	return e, nil
}

// Config returns the engine's configuration. Callers must not modify it.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Validate checks a candidate and job the way Evaluate does, without scoring.
func (e *Engine) Validate(c *types.Candidate, j *types.Job) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return j.Validate()
}

// Evaluate scores a candidate against a job. Invalid input is reported as a
// *types.ValidationError; only context cancellation can fail a valid input.
func (e *Engine) Evaluate(ctx context.Context, c *types.Candidate, j *types.Job) (*types.EvaluationResult, error) {
	start := time.Now()
	if err := e.Validate(c, j); err != nil {
		return nil, err
	}
	log := logger.WithFields(e.logger, logger.EvaluationFields(c.ID, j.ID)...)

	targets := skills.BuildSkillTargets(j, e.cfg.SkillImportanceWeights)
	resolution, err := skills.Resolve(ctx, e.matcher, c.Skills, targets)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve skills: %w", err)
	}
	if resolution.Degraded {
		log.Warn("semantic skill matching unavailable, scoring skills lexically")
	}

	in := &scoring.Input{Candidate: c, Job: j, Config: e.cfg, Targets: targets, Skills: resolution}
	raw, err := scoring.ScoreAll(in)
	if err != nil {
		return nil, err
	}

	outcomes := e.rejections.Evaluate(in)
	sections, applied := adjustment.Adjust(raw, j, e.cfg)
	clampSections(sections)
	bonus, triggered := e.interactions.Detect(in, sections)

	agg := aggregate(e.cfg, sections, bonus, rules.Triggered(outcomes))
	result := &types.EvaluationResult{
		CandidateID:      c.ID,
		JobID:            j.ID,
		OverallScore:     agg.overall,
		BaseScore:        agg.base,
		InteractionBonus: bonus,
		Confidence:       agg.confidence,
		Recommendation:   agg.recommendation,
		MatchLevel:       agg.level,
		Sections:         sections,
		HardRejections:   rules.Triggered(outcomes),
		NearMisses:       rules.NearMisses(outcomes),
		RuleTrace:        outcomes,
		Adjustments:      applied,
		Interactions: slice.Map(triggered, func(_ int, it rules.Interaction) string {
			return it.Rule
		}),
		Degraded: resolution.Degraded,
	}
	explain(e.cfg, result, resolution.UnmatchedRequired())

	elapsed := time.Since(start)
	e.metrics.ObserveEvaluation(result, elapsed)
	log.Debug("evaluated candidate",
		zap.Float64("overall_score", result.OverallScore),
		zap.String("recommendation", string(result.Recommendation)),
		zap.Strings("hard_rejections", result.HardRejections),
		zap.Duration("elapsed", elapsed),
	)
	return result, nil
}
