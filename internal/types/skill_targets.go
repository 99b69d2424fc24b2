// Package types provides type definitions for structured data used throughout the candidate-evaluator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SkillTargets represents the weighted, de-duplicated skills a job asks for
type SkillTargets struct {
	Skills []SkillTarget `json:"skills"`
}

// SkillTarget represents a single target skill with its importance weight
type SkillTarget struct {
	Name       string  `json:"name"`
	Weight     float64 `json:"weight"`
	Importance string  `json:"importance"`
}

// TotalWeight sums the weights of all targets.
func (t *SkillTargets) TotalWeight() float64 {
	total := 0.0
	for _, s := range t.Skills {
		total += s.Weight
	}
	return total
}
