// Package skills provides skill normalization, weighted skill targets and
// the exact, synonym and semantic skill matcher.
package skills

import (
	"sort"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// BuildSkillTargets builds the weighted list of skills a job asks for.
// Skills are normalized, deduplicated (taking max weight when duplicates exist),
// and sorted by weight (descending), then name.
func BuildSkillTargets(job *types.Job, weights config.ImportanceWeights) *types.SkillTargets {
	// Map: normalized skill name -> index in skills
	seen := make(map[string]int)
	skills := make([]types.SkillTarget, 0, len(job.Skills))

	for _, js := range job.Skills {
		key := Normalize(js.Name)
		if key == "" {
			continue
		}
		weight := weights.For(js.Importance)

		if idx, exists := seen[key]; exists {
			if weight > skills[idx].Weight {
				skills[idx].Weight = weight
				skills[idx].Importance = js.Importance
			}
			continue
		}

		seen[key] = len(skills)
		skills = append(skills, types.SkillTarget{
			Name:       DisplayName(js.Name),
			Weight:     weight,
			Importance: js.Importance,
		})
	}

	sort.SliceStable(skills, func(i, j int) bool {
		if skills[i].Weight != skills[j].Weight {
			return skills[i].Weight > skills[j].Weight
		}
		return Normalize(skills[i].Name) < Normalize(skills[j].Name)
	})

	return &types.SkillTargets{Skills: skills}
}
