// Package scoring provides the six section scoring strategies and the registry
// that dispatches to them by section name.
package scoring

import (
	"fmt"
	"math"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/skills"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// Input is everything a strategy may read. Strategies never modify it.
type Input struct {
	Candidate *types.Candidate
	Job       *types.Job
	Config    *config.Config
	Targets   *types.SkillTargets
	Skills    *skills.Resolution
}

// Strategy scores one section. Strategies are pure functions of their input.
type Strategy func(in *Input) (types.SectionAssessment, error)

var registry = map[types.Section]Strategy{
	types.SectionPersonalDetails: ScorePersonalDetails,
	types.SectionExperience:      ScoreExperience,
	types.SectionEducation:       ScoreEducation,
	types.SectionSkills:          ScoreSkills,
	types.SectionSalary:          ScoreSalary,
	types.SectionCVQuality:       ScoreCVQuality,
}

// Lookup returns the strategy registered for a section.
func Lookup(section types.Section) (Strategy, bool) {
	s, ok := registry[section]
	return s, ok
}

// ScoreAll runs every registered strategy in section order.
func ScoreAll(in *Input) (map[types.Section]types.SectionAssessment, error) {
	out := make(map[types.Section]types.SectionAssessment, len(types.Sections))
	for _, section := range types.Sections {
		strategy, ok := Lookup(section)
		if !ok {
			return nil, fmt.Errorf("no scoring strategy registered for section %q", section)
		}
		assessment, err := strategy(in)
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", section, err)
		}
		out[section] = assessment
	}
	return out, nil
}

func checkInput(in *Input) error {
	switch {
	case in == nil || in.Candidate == nil:
		return &types.ValidationError{Field: "candidate", Message: "is required"}
	case in.Job == nil:
		return &types.ValidationError{Field: "job", Message: "is required"}
	case in.Config == nil:
		return fmt.Errorf("scoring input has no configuration")
	}
	return nil
}

// missing builds the assessment for a section whose candidate data is absent.
func missing(in *Input, section types.Section, score float64, rationale ...string) types.SectionAssessment {
	return types.SectionAssessment{
		Section:     section,
		Score:       clamp(score, 0, 100),
		Confidence:  in.Config.MissingData.Confidence,
		Rationale:   rationale,
		MissingData: true,
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampScore(v float64) float64 { return clamp(v, 0, 100) }

func clampConfidence(v float64) float64 { return clamp(v, 0, 1) }
