package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// ScoreEducation combines degree level and field of study against the job's
// requirement, plus a capped bonus per certification.
func ScoreEducation(in *Input) (types.SectionAssessment, error) {
	if err := checkInput(in); err != nil {
		return types.SectionAssessment{}, err
	}
	cfg := in.Config.Education
	req := in.Job.Education
	certBonus := certificationBonus(cfg, len(in.Candidate.Certifications))

	if req == nil || (req.Level == "" && req.Field == "") {
		return types.SectionAssessment{
			Section:    types.SectionEducation,
			Score:      100,
			Confidence: cfg.Confidence,
			Rationale:  []string{"no education requirement"},
		}, nil
	}

	if len(in.Candidate.Education) == 0 {
		score := educationRuleScore(cfg, types.EducationNone, cfg.FieldCredits.Unrelated, req)
		return missing(in, types.SectionEducation, score+certBonus, "no education listed on the candidate profile"), nil
	}

	level := highestLevel(in.Candidate.Education)
	credit, field := bestFieldCredit(cfg, in.Candidate.Education, req.Field)
	score := educationRuleScore(cfg, level, credit, req)
	var rationale []string

	if req.Level != "" {
		switch diff := req.Level.Rank() - level.Rank(); {
		case diff <= 0:
			rationale = append(rationale, fmt.Sprintf("%s meets the %s requirement", level, req.Level))
		case diff == 1:
			rationale = append(rationale, fmt.Sprintf("%s is one level below the required %s", level, req.Level))
		default:
			rationale = append(rationale, fmt.Sprintf("%s is well below the required %s", level, req.Level))
		}
	}
	if req.Field != "" {
		switch {
		case field == "":
			rationale = append(rationale, fmt.Sprintf("no field of study related to %q", req.Field))
		case credit == cfg.FieldCredits.Exact:
			rationale = append(rationale, fmt.Sprintf("field %q matches %q", field, req.Field))
		case credit == cfg.FieldCredits.Related:
			rationale = append(rationale, fmt.Sprintf("field %q is related to %q", field, req.Field))
		default:
			rationale = append(rationale, fmt.Sprintf("field %q is unrelated to %q", field, req.Field))
		}
	}
	if certBonus > 0 {
		rationale = append(rationale, fmt.Sprintf("%d certifications (+%.0f)", len(in.Candidate.Certifications), certBonus))
	}

	return types.SectionAssessment{
		Section:    types.SectionEducation,
		Score:      clampScore(score + certBonus),
		Confidence: cfg.Confidence,
		Rationale:  rationale,
	}, nil
}

// educationRuleScore weights level and field credit over the requirement parts that are set.
func educationRuleScore(cfg config.EducationConfig, level types.EducationLevel, fieldCredit float64, req *types.EducationRequirement) float64 {
	score, weights := 0.0, 0.0

	if req.Level != "" {
		weights += cfg.LevelWeight
		reqRank, eduRank := req.Level.Rank(), level.Rank()
		switch {
		case eduRank >= reqRank:
			score += cfg.LevelWeight * cfg.LevelCredits.Meets
		case eduRank == reqRank-1:
			score += cfg.LevelWeight * cfg.LevelCredits.OneBelow
		default:
			score += cfg.LevelWeight * cfg.LevelCredits.FurtherBelow
		}
	}

	if req.Field != "" {
		weights += cfg.FieldWeight
		score += cfg.FieldWeight * fieldCredit
	}

	if weights == 0 {
		return 100
	}
	return score / weights
}

func highestLevel(entries []types.EducationEntry) types.EducationLevel {
	best := types.EducationNone
	for _, e := range entries {
		if e.Level.Rank() > best.Rank() {
			best = e.Level
		}
	}
	return best
}

// bestFieldCredit returns the best field credit over all entries and the field that earned it.
func bestFieldCredit(cfg config.EducationConfig, entries []types.EducationEntry, required string) (float64, string) {
	bestCredit, bestField := cfg.FieldCredits.Unrelated, ""
	if required == "" {
		return cfg.FieldCredits.Exact, ""
	}
	for _, e := range entries {
		if e.Field == "" {
			continue
		}
		if c := fieldCredit(cfg, e.Field, required); bestField == "" || c > bestCredit {
			bestCredit, bestField = c, e.Field
		}
	}
	return bestCredit, bestField
}

// fieldCredit computes how well a field of study matches the required one.
func fieldCredit(cfg config.EducationConfig, field, required string) float64 {
	fieldLower := strings.ToLower(strings.TrimSpace(field))
	requiredLower := strings.ToLower(strings.TrimSpace(required))
	if fieldLower == "" || requiredLower == "" {
		return cfg.FieldCredits.Unrelated
	}

	// Exact or substring match
	if fieldLower == requiredLower || strings.Contains(fieldLower, requiredLower) || strings.Contains(requiredLower, fieldLower) {
		return cfg.FieldCredits.Exact
	}

	if isRelatedField(cfg.RelatedFields[requiredLower], fieldLower) || isRelatedField(cfg.RelatedFields[fieldLower], requiredLower) {
		return cfg.FieldCredits.Related
	}
	return cfg.FieldCredits.Unrelated
}

func isRelatedField(related []string, field string) bool {
	for _, r := range related {
		r = strings.ToLower(r)
		if strings.Contains(field, r) || strings.Contains(r, field) {
			return true
		}
	}
	return false
}

func certificationBonus(cfg config.EducationConfig, count int) float64 {
	bonus := float64(count) * cfg.CertificationBonus
	if bonus > cfg.MaxCertificationBonus {
		return cfg.MaxCertificationBonus
	}
	return bonus
}
