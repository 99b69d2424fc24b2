package engine

import (
	"math"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

type aggregation struct {
	base           float64
	overall        float64
	confidence     float64
	level          types.MatchLevel
	recommendation types.Recommendation
}

// aggregate combines adjusted section scores into the overall verdict.
// Section scores and confidences are clamped in place first, so sections
// stays within bounds whatever the strategies and adjustments produced.
// A non-empty rejection list forces STRONG_NO but leaves the scores intact.
func aggregate(cfg *config.Config, sections map[types.Section]types.SectionAssessment, bonus float64, rejections []string) aggregation {
	clampSections(sections)

	var base, confidence float64
	missing := 0
	for _, s := range types.Sections {
		a := sections[s]
		w := cfg.SectionWeight(s)
		base += a.Score * w
		confidence += a.Confidence * w
		if a.MissingData {
			missing++
		}
	}
	confidence *= 1 - cfg.MissingData.AggregatePenalty*float64(missing)

	agg := aggregation{
		base:       clamp(base, 0, 100),
		overall:    clamp(base+bonus, 0, 100),
		confidence: clamp(confidence, 0, 1),
	}
	agg.level = cfg.MatchLevel(agg.overall)
	agg.recommendation = recommend(cfg, agg.level, agg.confidence, rejections)
	return agg
}

// clampSections bounds every assessment to [0, 100] and [0, 1].
func clampSections(sections map[types.Section]types.SectionAssessment) {
	for s, a := range sections {
		a.Score = clamp(a.Score, 0, 100)
		a.Confidence = clamp(a.Confidence, 0, 1)
		sections[s] = a
	}
}

func recommend(cfg *config.Config, level types.MatchLevel, confidence float64, rejections []string) types.Recommendation {
	if len(rejections) > 0 {
		return types.RecommendationStrongNo
	}
	rec := cfg.RecommendationFor(level)
	if rec.Positive() && confidence < cfg.Recommendation.LowConfidenceThreshold {
		rec = rec.Downgrade()
	}
	return rec
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
