// Package adjustment applies industry-specific changes to section scores.
package adjustment

import (
	"math"
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// Adjust returns adjusted copies of the section assessments for the job's industry
// together with the adjustments that were applied, in configuration order.
// Entries for one section are applied in order and the result is clamped to [0, 100]
// once all of them have run. The input map is never modified.
func Adjust(sections map[types.Section]types.SectionAssessment, job *types.Job, cfg *config.Config) (map[types.Section]types.SectionAssessment, []types.AppliedAdjustment) {
	out := make(map[types.Section]types.SectionAssessment, len(sections))
	for s, a := range sections {
		out[s] = a.Clone()
	}
	if job == nil || cfg == nil {
		return out, nil
	}

	industry := strings.ToLower(strings.TrimSpace(job.Industry))
	entries := cfg.Adjustments(industry)
	if len(entries) == 0 {
		return out, nil
	}

	raw := make(map[types.Section]float64, len(out))
	for s, a := range out {
		raw[s] = a.Score
	}

	var applied []types.AppliedAdjustment
	for _, e := range entries {
		section, ok := types.ParseSection(e.Section)
		if !ok {
			continue
		}
		if _, present := out[section]; !present {
			continue
		}
		before := raw[section]
		after := apply(before, e)
		raw[section] = after
		applied = append(applied, types.AppliedAdjustment{
			Industry:  industry,
			Section:   section,
			Operation: e.Operation,
			Magnitude: e.Magnitude,
			Before:    before,
			After:     after,
		})
	}

	for s, v := range raw {
		a := out[s]
		a.Score = clampScore(v)
		out[s] = a
	}
	return out, applied
}

func apply(score float64, e config.AdjustmentConfig) float64 {
	switch e.Operation {
	case config.OperationMultiply:
		return score * e.Magnitude
	case config.OperationAdd:
		return score + e.Magnitude
	default:
		return score
	}
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, 100)
}
