package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

type stepKey struct {
	level          types.MatchLevel
	recommendation types.Recommendation
}

// nextStepCatalog holds actions for the common (match level, recommendation) pairs.
var nextStepCatalog = map[stepKey][]string{
	{types.MatchExcellent, types.RecommendationStrongYes}: {
		"Fast-track to final interview",
		"Prepare an offer within the posted salary band",
	},
	{types.MatchExcellent, types.RecommendationYes}: {
		"Schedule a technical interview",
		"Confirm the data behind low-confidence sections",
	},
	{types.MatchGood, types.RecommendationYes}: {
		"Schedule a technical interview",
		"Probe the listed concerns during the interview",
	},
	{types.MatchGood, types.RecommendationMaybe}: {
		"Run a short screening call to fill in missing details",
		"Re-evaluate once the candidate profile is complete",
	},
	{types.MatchFair, types.RecommendationMaybe}: {
		"Run a short screening call focused on the listed concerns",
		"Keep in the pipeline as a backup candidate",
	},
	{types.MatchPoor, types.RecommendationNo}: {
		"Send a polite rejection",
		"Consider for more junior openings",
	},
	{types.MatchVeryPoor, types.RecommendationStrongNo}: {
		"Send a polite rejection",
	},
}

// nextStepFallback applies when a pair is not in the catalog, such as a hard rejection
// of an otherwise strong candidate.
var nextStepFallback = map[types.Recommendation][]string{
	types.RecommendationStrongYes: {"Fast-track to final interview"},
	types.RecommendationYes:       {"Schedule a technical interview"},
	types.RecommendationMaybe:     {"Run a short screening call"},
	types.RecommendationNo:        {"Send a polite rejection"},
	types.RecommendationStrongNo:  {"Send a polite rejection"},
}

// explain fills strengths, concerns, next steps and the per-section explanation.
// missingSkills names the required job skills the candidate did not match.
func explain(cfg *config.Config, r *types.EvaluationResult, missingSkills []string) {
	ordered := make([]types.SectionAssessment, 0, len(types.Sections))
	for _, s := range types.Sections {
		if a, ok := r.Sections[s]; ok {
			ordered = append(ordered, a)
		}
	}

	strengths := filterSections(ordered, func(a types.SectionAssessment) bool {
		return a.Score >= cfg.Explanation.StrengthThreshold
	})
	sort.SliceStable(strengths, func(i, j int) bool { return strengths[i].Score > strengths[j].Score })

	concerns := filterSections(ordered, func(a types.SectionAssessment) bool {
		return a.Score < cfg.Explanation.ConcernThreshold
	})
	sort.SliceStable(concerns, func(i, j int) bool { return concerns[i].Score < concerns[j].Score })

	r.Strengths = make([]string, 0, len(strengths))
	for _, a := range strengths {
		r.Strengths = append(r.Strengths, summarize(a))
	}
	r.Concerns = make([]string, 0, len(concerns)+len(r.NearMisses))
	for _, a := range concerns {
		r.Concerns = append(r.Concerns, summarize(a))
	}
	for _, nm := range r.NearMisses {
		r.Concerns = append(r.Concerns, "Near miss on "+nm)
	}

	r.NextSteps = nextSteps(r, missingSkills)

	r.Explanation = make(map[types.Section]string, len(ordered))
	for _, a := range ordered {
		r.Explanation[a.Section] = fmt.Sprintf("%s scored %.0f/100: %s.", a.Section.Label(), a.Score, dominant(a))
	}
}

func filterSections(in []types.SectionAssessment, keep func(types.SectionAssessment) bool) []types.SectionAssessment {
	var out []types.SectionAssessment
	for _, a := range in {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func summarize(a types.SectionAssessment) string {
	return fmt.Sprintf("%s (%.0f/100): %s", a.Section.Label(), a.Score, dominant(a))
}

func dominant(a types.SectionAssessment) string {
	if len(a.Rationale) == 0 || strings.TrimSpace(a.Rationale[0]) == "" {
		return "no contributing factors recorded"
	}
	return strings.TrimSuffix(a.Rationale[0], ".")
}

func nextSteps(r *types.EvaluationResult, missingSkills []string) []string {
	steps, ok := nextStepCatalog[stepKey{r.MatchLevel, r.Recommendation}]
	if !ok {
		steps = nextStepFallback[r.Recommendation]
	}
	out := append([]string(nil), steps...)

	if len(missingSkills) > 0 {
		out = append(out, "Critical: verify these required skills, which the profile does not show: "+strings.Join(missingSkills, ", "))
	}
	if r.Rejected() {
		out = append(out, "Record the hard rejection reasons: "+strings.Join(r.HardRejections, ", "))
	}

	var missing []string
	for _, s := range types.Sections {
		if a, ok := r.Sections[s]; ok && a.MissingData {
			missing = append(missing, strings.ToLower(s.Label()))
		}
	}
	if len(missing) > 0 {
		out = append(out, "Request missing information: "+strings.Join(missing, ", "))
	}
	if r.Degraded {
		out = append(out, "Re-run the evaluation once semantic skill matching is available")
	}
	return out
}
