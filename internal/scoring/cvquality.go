package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/skills"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// ScoreCVQuality combines structural completeness, length reasonableness and
// keyword density, minus a penalty per structural flag.
func ScoreCVQuality(in *Input) (types.SectionAssessment, error) {
	if err := checkInput(in); err != nil {
		return types.SectionAssessment{}, err
	}
	cfg := in.Config.CVQuality
	cv := in.Candidate.CVQuality
	if cv == nil {
		return missing(in, types.SectionCVQuality, cfg.MissingScore, "no CV quality signals provided"), nil
	}

	structure, present := structureScore(cfg, cv)
	length := lengthScore(cfg, cv.WordCount)
	keywords, found, wanted := keywordScore(in)

	weights := cfg.Weights.Structure + cfg.Weights.Length + cfg.Weights.Keywords
	score := (cfg.Weights.Structure*structure + cfg.Weights.Length*length + cfg.Weights.Keywords*keywords) / weights * 100
	penalty := float64(len(cv.Flags)) * cfg.FlagPenalty
	score -= penalty

	parts := []struct {
		shortfall float64
		message   string
	}{
		{cfg.Weights.Structure * (1 - structure), fmt.Sprintf("%d/%d expected sections present", present, len(cfg.ExpectedSections))},
		{cfg.Weights.Length * (1 - length), fmt.Sprintf("%d words (expected %d-%d)", cv.WordCount, cfg.MinWords, cfg.MaxWords)},
		{cfg.Weights.Keywords * (1 - keywords), fmt.Sprintf("%d/%d job keywords found", found, wanted)},
	}
	// Largest shortfall leads; ties keep declaration order
	dominant := 0
	for i := range parts {
		if parts[i].shortfall > parts[dominant].shortfall {
			dominant = i
		}
	}
	rationale := []string{parts[dominant].message}
	for i, p := range parts {
		if i != dominant {
			rationale = append(rationale, p.message)
		}
	}
	if len(cv.Flags) > 0 {
		rationale = append(rationale, fmt.Sprintf("structural issues: %s (-%.0f)", strings.Join(cv.Flags, ", "), penalty))
	}

	return types.SectionAssessment{
		Section:    types.SectionCVQuality,
		Score:      clampScore(score),
		Confidence: cfg.Confidence,
		Rationale:  rationale,
	}, nil
}

// structureScore blends the fraction of expected sections present with the reported completeness.
func structureScore(cfg config.CVQualityConfig, cv *types.CVQualitySignals) (float64, int) {
	have := make(map[string]bool, len(cv.Sections))
	for _, s := range cv.Sections {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}
	present := 0
	for _, s := range cfg.ExpectedSections {
		if have[strings.ToLower(s)] {
			present++
		}
	}
	fraction := 1.0
	if len(cfg.ExpectedSections) > 0 {
		fraction = float64(present) / float64(len(cfg.ExpectedSections))
	}
	blend := cfg.CompletenessBlend
	return (1-blend)*fraction + blend*clamp(cv.Completeness, 0, 1), present
}

func lengthScore(cfg config.CVQualityConfig, words int) float64 {
	switch {
	case words < cfg.MinWords:
		return float64(words) / float64(cfg.MinWords)
	case words > cfg.MaxWords:
		return clamp(1-float64(words-cfg.MaxWords)/float64(cfg.MaxWords), 0, 1)
	default:
		return 1
	}
}

// keywordScore is the fraction of job keywords and skill names found among the
// CV keywords and candidate skills.
func keywordScore(in *Input) (float64, int, int) {
	wanted := make(map[string]bool)
	for _, k := range in.Job.Keywords {
		if n := skills.Normalize(k); n != "" {
			wanted[n] = true
		}
	}
	for _, s := range in.Job.Skills {
		if n := skills.Normalize(s.Name); n != "" {
			wanted[n] = true
		}
	}
	if len(wanted) == 0 {
		return 1, 0, 0
	}

	have := make(map[string]bool)
	if in.Candidate.CVQuality != nil {
		for _, k := range in.Candidate.CVQuality.Keywords {
			have[skills.Normalize(k)] = true
		}
	}
	for _, s := range in.Candidate.Skills {
		have[skills.Normalize(s.Name)] = true
	}

	found := 0
	for k := range wanted {
		if have[k] {
			found++
		}
	}
	return float64(found) / float64(len(wanted)), found, len(wanted)
}
