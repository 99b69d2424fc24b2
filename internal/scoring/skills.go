package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/skills"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// maxListedGaps bounds how many missing skills are named in a rationale
const maxListedGaps = 3

// ScoreSkills scores weighted coverage of the job's skills. Exact and synonym
// matches earn the full target weight, semantic matches earn weight × similarity.
func ScoreSkills(in *Input) (types.SectionAssessment, error) {
	if err := checkInput(in); err != nil {
		return types.SectionAssessment{}, err
	}
	cfg := in.Config.Skills

	targets := in.Targets
	if targets == nil {
		targets = skills.BuildSkillTargets(in.Job, in.Config.SkillImportanceWeights)
	}
	if len(targets.Skills) == 0 {
		return types.SectionAssessment{
			Section:    types.SectionSkills,
			Score:      100,
			Confidence: cfg.NoRequirementsConfidence,
			Rationale:  []string{"no specific skills required"},
		}, nil
	}
	if len(in.Candidate.Skills) == 0 {
		return missing(in, types.SectionSkills, 0, "no skills listed on the candidate profile"), nil
	}
	if in.Skills == nil || len(in.Skills.Matches) != len(targets.Skills) {
		return types.SectionAssessment{}, fmt.Errorf("skill resolution does not cover the job's %d skill targets", len(targets.Skills))
	}

	var (
		earned, total, quality float64
		matched                int
		missingRequired        []string
		semantic               []string
	)
	for _, sm := range in.Skills.Matches {
		total += sm.Target.Weight
		switch sm.Method {
		case skills.MethodExact:
			earned += sm.Target.Weight
			quality += 1.0
			matched++
		case skills.MethodSynonym:
			earned += sm.Target.Weight
			quality += cfg.SynonymConfidence
			matched++
		case skills.MethodSemantic:
			earned += sm.Target.Weight * sm.Similarity
			quality += sm.Similarity
			matched++
			semantic = append(semantic, fmt.Sprintf("%s ≈ %s (%.2f)", sm.CandidateSkill, sm.Target.Name, sm.Similarity))
		default:
			if sm.Target.Importance == types.ImportanceRequired {
				missingRequired = append(missingRequired, sm.Target.Name)
			}
		}
	}

	score := 0.0
	if total > 0 {
		score = earned / total * 100
	}

	confidence := cfg.NoMatchConfidence
	if matched > 0 {
		confidence = quality / float64(matched)
	}
	if in.Skills.Degraded {
		confidence *= cfg.DegradedConfidenceFactor
	}

	rationale := []string{fmt.Sprintf("matched %d/%d job skills (%.0f%% weighted)", matched, len(targets.Skills), score)}
	if len(missingRequired) > 0 {
		gap := "missing required: " + strings.Join(firstN(missingRequired, maxListedGaps), ", ")
		if extra := len(missingRequired) - maxListedGaps; extra > 0 {
			gap += fmt.Sprintf(" (+%d more)", extra)
		}
		rationale = append(rationale, gap)
	}
	if len(semantic) > 0 {
		rationale = append(rationale, "semantic matches: "+strings.Join(semantic, ", "))
	}
	if in.Skills.Degraded {
		rationale = append(rationale, "semantic matching unavailable, exact and synonym matches only")
	}

	return types.SectionAssessment{
		Section:    types.SectionSkills,
		Score:      clampScore(score),
		Confidence: clampConfidence(confidence),
		Rationale:  rationale,
		Degraded:   in.Skills.Degraded,
	}, nil
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
