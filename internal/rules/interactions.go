package rules

import (
	"fmt"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/scoring"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// Interaction is a triggered feature-interaction rule.
type Interaction struct {
	Rule        string  `json:"rule"`
	Description string  `json:"description,omitempty"`
	Bonus       float64 `json:"bonus"`
}

type interactionRule struct {
	cfg       config.InteractionRuleConfig
	minScores map[types.Section]float64
}

// InteractionDetector awards bonuses for combinations of strong sections.
// Rules are declarative; every condition a rule sets must hold.
type InteractionDetector struct {
	rules    []interactionRule
	maxBonus float64
}

// NewInteractionDetector compiles interaction rules. Unknown sections are
// reported as a *config.ConfigurationError.
func NewInteractionDetector(cfgs []config.InteractionRuleConfig, maxBonus float64) (*InteractionDetector, error) {
	var problems []string
	d := &InteractionDetector{maxBonus: maxBonus}

	for i, rc := range cfgs {
		rule := interactionRule{cfg: rc, minScores: make(map[types.Section]float64, len(rc.MinSectionScores))}
		for name, min := range rc.MinSectionScores {
			section, ok := types.ParseSection(name)
			if !ok {
				problems = append(problems, fmt.Sprintf("interaction_rules[%d] (%s): unknown section %q", i, rc.Name, name))
				continue
			}
			rule.minScores[section] = min
		}
		d.rules = append(d.rules, rule)
	}

	if len(problems) > 0 {
		return nil, &config.ConfigurationError{Problems: problems}
	}
	return d, nil
}

// Detect returns the clamped total bonus and the triggered interactions in rule order.
func (d *InteractionDetector) Detect(in *scoring.Input, sections map[types.Section]types.SectionAssessment) (float64, []Interaction) {
	var (
		total     float64
		triggered []Interaction
	)
	for _, r := range d.rules {
		if !r.holds(in, sections) {
			continue
		}
		total += r.cfg.Bonus
		triggered = append(triggered, Interaction{Rule: r.cfg.Name, Description: r.cfg.Description, Bonus: r.cfg.Bonus})
	}

	switch {
	case total > d.maxBonus:
		total = d.maxBonus
	case total < -d.maxBonus:
		total = -d.maxBonus
	}
	return total, triggered
}

func (r interactionRule) holds(in *scoring.Input, sections map[types.Section]types.SectionAssessment) bool {
	for _, section := range types.Sections {
		min, ok := r.minScores[section]
		if !ok {
			continue
		}
		a, present := sections[section]
		if !present || a.Score < min {
			return false
		}
	}
	if r.cfg.SameDomain && !scoring.HasDomainExperience(in.Candidate, in.Job) {
		return false
	}
	if r.cfg.MinCertifications > 0 && len(in.Candidate.Certifications) < r.cfg.MinCertifications {
		return false
	}
	return true
}
