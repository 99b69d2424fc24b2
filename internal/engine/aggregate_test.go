package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

func uniformSections(score, confidence float64, missing ...types.Section) map[types.Section]types.SectionAssessment {
	out := make(map[types.Section]types.SectionAssessment, len(types.Sections))
	for _, s := range types.Sections {
		out[s] = types.SectionAssessment{Section: s, Score: score, Confidence: confidence, Rationale: []string{"fixture"}}
	}
	for _, s := range missing {
		a := out[s]
		a.MissingData = true
		out[s] = a
	}
	return out
}

func TestAggregate_WeightedSum(t *testing.T) {
	cfg := config.MustDefault()

	agg := aggregate(cfg, uniformSections(80, 0.9), 0, nil)
	assert.InDelta(t, 80.0, agg.base, 1e-9)
	assert.InDelta(t, 80.0, agg.overall, 1e-9)
	assert.InDelta(t, 0.9, agg.confidence, 1e-9)
	assert.Equal(t, types.MatchGood, agg.level)
	assert.Equal(t, types.RecommendationYes, agg.recommendation)
}

func TestAggregate_BonusIsClamped(t *testing.T) {
	cfg := config.MustDefault()

	agg := aggregate(cfg, uniformSections(95, 0.9), 10, nil)
	assert.Equal(t, 100.0, agg.overall)
	assert.InDelta(t, 95.0, agg.base, 1e-9)

	agg = aggregate(cfg, uniformSections(3, 0.9), -10, nil)
	assert.Equal(t, 0.0, agg.overall)
	assert.Equal(t, types.MatchVeryPoor, agg.level)
	assert.Equal(t, types.RecommendationStrongNo, agg.recommendation)
}

func TestAggregate_MissingSectionsReduceConfidence(t *testing.T) {
	cfg := config.MustDefault()

	agg := aggregate(cfg, uniformSections(80, 1, types.SectionSalary, types.SectionCVQuality), 0, nil)
	assert.InDelta(t, 0.8, agg.confidence, 1e-9)
}

func TestAggregate_LowConfidenceDowngradesPositiveVerdicts(t *testing.T) {
	cfg := config.MustDefault()

	agg := aggregate(cfg, uniformSections(95, 0.4), 0, nil)
	assert.Equal(t, types.MatchExcellent, agg.level)
	assert.Equal(t, types.RecommendationYes, agg.recommendation)

	agg = aggregate(cfg, uniformSections(65, 0.4), 0, nil)
	assert.Equal(t, types.MatchFair, agg.level)
	assert.Equal(t, types.RecommendationMaybe, agg.recommendation)
}

func TestAggregate_RejectionForcesStrongNo(t *testing.T) {
	cfg := config.MustDefault()

	agg := aggregate(cfg, uniformSections(95, 0.95), 0, []string{"ineligible_citizenship"})
	assert.Equal(t, types.RecommendationStrongNo, agg.recommendation)
	assert.InDelta(t, 95.0, agg.overall, 1e-9)
	assert.Equal(t, types.MatchExcellent, agg.level)
}

func TestAggregate_ClampsSectionsInPlace(t *testing.T) {
	cfg := config.MustDefault()
	sections := uniformSections(80, 0.9)
	sections[types.SectionSkills] = types.SectionAssessment{Section: types.SectionSkills, Score: 130, Confidence: 1.4}
	sections[types.SectionSalary] = types.SectionAssessment{Section: types.SectionSalary, Score: -20, Confidence: -0.5}

	agg := aggregate(cfg, sections, 0, nil)

	assert.Equal(t, 100.0, sections[types.SectionSkills].Score)
	assert.Equal(t, 1.0, sections[types.SectionSkills].Confidence)
	assert.Equal(t, 0.0, sections[types.SectionSalary].Score)
	assert.Equal(t, 0.0, sections[types.SectionSalary].Confidence)
	// skills 0.30 at 100, salary 0.10 at 0, the rest 0.60 at 80
	assert.InDelta(t, 78.0, agg.base, 1e-9)
	assert.InDelta(t, 0.3+0.6*0.9, agg.confidence, 1e-9)
}
