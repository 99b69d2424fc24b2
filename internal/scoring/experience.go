package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

// ScoreExperience maps effective experience relative to the requirement through
// the configured saturating curve. Months in roles tagged with the job's industry
// or domain count fully; other months count at the unrelated credit.
func ScoreExperience(in *Input) (types.SectionAssessment, error) {
	if err := checkInput(in); err != nil {
		return types.SectionAssessment{}, err
	}
	cfg := in.Config.Experience
	required := in.Job.RequiredExperienceMonths()

	if required <= 0 {
		return types.SectionAssessment{
			Section:    types.SectionExperience,
			Score:      clampScore(cfg.NoRequirementScore),
			Confidence: cfg.Confidence,
			Rationale:  []string{"no minimum experience required"},
		}, nil
	}

	if in.Candidate.TotalExperienceMonths() == 0 {
		return missing(in, types.SectionExperience, interpolate(cfg.Curve, 0),
			fmt.Sprintf("no work experience listed against %s required", years(required))), nil
	}

	domain := domainSet(in.Job)
	var relevant, unrelated float64
	industryMatch := false
	for _, e := range in.Candidate.Experience {
		if isRelevant(e, domain) {
			relevant += float64(e.DurationMonths)
		} else {
			unrelated += float64(e.DurationMonths)
		}
		if in.Job.Industry != "" && strings.EqualFold(strings.TrimSpace(e.Industry), strings.TrimSpace(in.Job.Industry)) {
			industryMatch = true
		}
	}

	effective := relevant + unrelated*cfg.UnrelatedCredit
	ratio := effective / required
	score := interpolate(cfg.Curve, ratio)

	rationale := []string{fmt.Sprintf("%s effective experience against %s required (ratio %.2f)", years(effective), years(required), ratio)}
	if relevant > 0 {
		rationale = append(rationale, fmt.Sprintf("%s in related roles", years(relevant)))
	}
	if unrelated > 0 {
		rationale = append(rationale, fmt.Sprintf("%s in other roles counted at %.0f%%", years(unrelated), cfg.UnrelatedCredit*100))
	}
	if industryMatch {
		score *= cfg.IndustryMatchMultiplier
		rationale = append(rationale, fmt.Sprintf("prior %s industry experience (x%.2f)", in.Job.Industry, cfg.IndustryMatchMultiplier))
	}

	return types.SectionAssessment{
		Section:    types.SectionExperience,
		Score:      clampScore(score),
		Confidence: cfg.Confidence,
		Rationale:  rationale,
	}, nil
}

// domainSet returns the lower-cased industry and domain tags of a job.
func domainSet(job *types.Job) map[string]bool {
	set := make(map[string]bool, len(job.DomainTags)+1)
	if ind := strings.ToLower(strings.TrimSpace(job.Industry)); ind != "" {
		set[ind] = true
	}
	for _, tag := range job.DomainTags {
		if t := strings.ToLower(strings.TrimSpace(tag)); t != "" {
			set[t] = true
		}
	}
	return set
}

func isRelevant(e types.ExperienceEntry, domain map[string]bool) bool {
	if domain[strings.ToLower(strings.TrimSpace(e.Industry))] {
		return true
	}
	for _, tag := range e.Tags {
		if domain[strings.ToLower(strings.TrimSpace(tag))] {
			return true
		}
	}
	return false
}

func years(months float64) string {
	y := months / 12
	if y == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%.1f years", y)
}

// HasDomainExperience reports whether any experience entry or skill domain
// matches the job's industry or domain tags.
func HasDomainExperience(c *types.Candidate, j *types.Job) bool {
	domain := domainSet(j)
	if len(domain) == 0 {
		return false
	}
	for _, e := range c.Experience {
		if e.DurationMonths > 0 && isRelevant(e, domain) {
			return true
		}
	}
	for _, s := range c.Skills {
		for _, d := range s.Domains {
			if domain[strings.ToLower(strings.TrimSpace(d))] {
				return true
			}
		}
	}
	return false
}
