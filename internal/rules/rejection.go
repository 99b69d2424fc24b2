// Package rules provides the declarative hard-rejection rules and
// feature-interaction bonuses evaluated alongside section scoring.
package rules

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/scoring"
	"github.com/jonathan/candidate-evaluator/internal/skills"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// Outcome is the result of one rejection rule for one candidate.
type Outcome = types.RuleOutcome

// Rule is a compiled hard-rejection rule.
type Rule interface {
	Name() string
	Kind() string
	Evaluate(in *scoring.Input) Outcome
}

type ruleBuilder func(name string, params map[string]any, margin float64) (Rule, error)

var builders = map[string]ruleBuilder{
	"mandatory_certification": newCertificationRule,
	"salary_ceiling":          newSalaryCeilingRule,
	"experience_floor":        newExperienceFloorRule,
	"education_minimum":       newEducationMinimumRule,
	"citizenship_required":    newCitizenshipRule,
	"required_skill_coverage": newSkillCoverageRule,
}

// RejectionEngine evaluates every configured rule, in order, against a candidate.
type RejectionEngine struct {
	rules []Rule
}

// NewRejectionEngine compiles the configured rules. Unknown kinds, missing
// thresholds and undecodable params are reported as a *config.ConfigurationError.
func NewRejectionEngine(cfgs []config.RuleConfig, nearMissMargin float64) (*RejectionEngine, error) {
	var problems []string
	engine := &RejectionEngine{rules: make([]Rule, 0, len(cfgs))}

	for i, rc := range cfgs {
		build, ok := builders[rc.Kind]
		if !ok {
			problems = append(problems, fmt.Sprintf("hard_rejection_rules[%d]: unknown kind %q", i, rc.Kind))
			continue
		}
		rule, err := build(rc.Name, rc.Params, nearMissMargin)
		if err != nil {
			problems = append(problems, fmt.Sprintf("hard_rejection_rules[%d] (%s): %v", i, rc.Name, err))
			continue
		}
		engine.rules = append(engine.rules, rule)
	}

	if len(problems) > 0 {
		return nil, &config.ConfigurationError{Problems: problems}
	}
	return engine, nil
}

// Rules returns the compiled rules in evaluation order.
func (e *RejectionEngine) Rules() []Rule {
	return e.rules
}

// Evaluate runs every rule without short-circuiting, so the full trace is available.
func (e *RejectionEngine) Evaluate(in *scoring.Input) []Outcome {
	outcomes := make([]Outcome, 0, len(e.rules))
	for _, r := range e.rules {
		outcomes = append(outcomes, r.Evaluate(in))
	}
	return outcomes
}

// Triggered returns the names of triggered rules, in rule order.
func Triggered(outcomes []Outcome) []string {
	names := []string{}
	for _, o := range outcomes {
		if o.Triggered {
			names = append(names, o.Rule)
		}
	}
	return names
}

// NearMisses describes rules that were close to triggering.
func NearMisses(outcomes []Outcome) []string {
	var out []string
	for _, o := range outcomes {
		if o.NearMiss && !o.Triggered {
			out = append(out, fmt.Sprintf("%s: %s", o.Rule, o.Detail))
		}
	}
	return out
}

// requireParams reports the first of keys absent from params. Thresholds have
// no code defaults; they must be spelled out in the configuration.
func requireParams(params map[string]any, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("missing required param %q", k)
		}
	}
	return nil
}

// decodeParams decodes rule params into out, rejecting unknown keys.
func decodeParams(params map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if params == nil {
		return nil
	}
	return decoder.Decode(params)
}

type baseRule struct {
	name   string
	kind   string
	margin float64
}

func (b baseRule) Name() string { return b.name }
func (b baseRule) Kind() string { return b.kind }

func (b baseRule) outcome(triggered, nearMiss bool, detail string) Outcome {
	return Outcome{Rule: b.name, Kind: b.kind, Triggered: triggered, NearMiss: nearMiss && !triggered, Detail: detail}
}

// mandatory_certification

type certificationParams struct {
	Certifications []string `mapstructure:"certifications"`
}

type certificationRule struct {
	baseRule
	params certificationParams
}

func newCertificationRule(name string, params map[string]any, margin float64) (Rule, error) {
	r := &certificationRule{baseRule: baseRule{name: name, kind: "mandatory_certification", margin: margin}}
	if err := decodeParams(params, &r.params); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *certificationRule) Evaluate(in *scoring.Input) Outcome {
	required := append(append([]string(nil), r.params.Certifications...), in.Job.MandatoryCertifications...)
	if len(required) == 0 {
		return r.outcome(false, false, "no mandatory certifications")
	}

	held := make(map[string]bool, len(in.Candidate.Certifications))
	for _, c := range in.Candidate.Certifications {
		held[normalizeText(c)] = true
	}
	var missing []string
	for _, c := range required {
		if !held[normalizeText(c)] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return r.outcome(true, false, "missing mandatory certification: "+strings.Join(missing, ", "))
	}
	return r.outcome(false, false, "all mandatory certifications held")
}

// salary_ceiling

type salaryCeilingParams struct {
	CeilingRatio float64 `mapstructure:"ceiling_ratio"`
}

type salaryCeilingRule struct {
	baseRule
	params salaryCeilingParams
}

func newSalaryCeilingRule(name string, params map[string]any, margin float64) (Rule, error) {
	r := &salaryCeilingRule{baseRule: baseRule{name: name, kind: "salary_ceiling", margin: margin}}
	if err := requireParams(params, "ceiling_ratio"); err != nil {
		return nil, err
	}
	if err := decodeParams(params, &r.params); err != nil {
		return nil, err
	}
	if r.params.CeilingRatio < 1 {
		return nil, fmt.Errorf("ceiling_ratio must be >= 1, got %.2f", r.params.CeilingRatio)
	}
	return r, nil
}

func (r *salaryCeilingRule) Evaluate(in *scoring.Input) Outcome {
	band := in.Job.Salary
	if band == nil || band.Max <= 0 {
		return r.outcome(false, false, "no salary maximum")
	}
	amount, ok := scoring.ExpectationInJobCurrency(in)
	if !ok {
		return r.outcome(false, false, "salary expectation not comparable")
	}

	ceiling := band.Max * r.params.CeilingRatio
	detail := fmt.Sprintf("expectation %.0f against ceiling %.0f", amount, ceiling)
	return r.outcome(amount > ceiling, amount > ceiling*(1-r.margin), detail)
}

// experience_floor

type experienceFloorParams struct {
	MinRatio float64 `mapstructure:"min_ratio"`
}

type experienceFloorRule struct {
	baseRule
	params experienceFloorParams
}

func newExperienceFloorRule(name string, params map[string]any, margin float64) (Rule, error) {
	r := &experienceFloorRule{baseRule: baseRule{name: name, kind: "experience_floor", margin: margin}}
	if err := requireParams(params, "min_ratio"); err != nil {
		return nil, err
	}
	if err := decodeParams(params, &r.params); err != nil {
		return nil, err
	}
	if r.params.MinRatio <= 0 || r.params.MinRatio > 1 {
		return nil, fmt.Errorf("min_ratio must be within (0, 1], got %.2f", r.params.MinRatio)
	}
	return r, nil
}

func (r *experienceFloorRule) Evaluate(in *scoring.Input) Outcome {
	required := in.Job.RequiredExperienceMonths()
	if required <= 0 {
		return r.outcome(false, false, "no minimum experience")
	}
	ratio := float64(in.Candidate.TotalExperienceMonths()) / required
	detail := fmt.Sprintf("%.0f%% of the required experience (minimum %.0f%%)", ratio*100, r.params.MinRatio*100)
	return r.outcome(ratio < r.params.MinRatio, ratio < r.params.MinRatio*(1+r.margin), detail)
}

// education_minimum

type educationMinimumParams struct {
	MaxLevelsBelow int `mapstructure:"max_levels_below"`
}

type educationMinimumRule struct {
	baseRule
	params educationMinimumParams
}

func newEducationMinimumRule(name string, params map[string]any, margin float64) (Rule, error) {
	r := &educationMinimumRule{baseRule: baseRule{name: name, kind: "education_minimum", margin: margin}}
	if err := requireParams(params, "max_levels_below"); err != nil {
		return nil, err
	}
	if err := decodeParams(params, &r.params); err != nil {
		return nil, err
	}
	if r.params.MaxLevelsBelow < 0 {
		return nil, fmt.Errorf("max_levels_below must be >= 0")
	}
	return r, nil
}

func (r *educationMinimumRule) Evaluate(in *scoring.Input) Outcome {
	req := in.Job.Education
	if req == nil || req.Level == "" {
		return r.outcome(false, false, "no education minimum")
	}
	best := types.EducationNone
	for _, e := range in.Candidate.Education {
		if e.Level.Rank() > best.Rank() {
			best = e.Level
		}
	}
	gap := req.Level.Rank() - best.Rank()
	detail := fmt.Sprintf("highest level %s against required %s", best, req.Level)
	return r.outcome(gap > r.params.MaxLevelsBelow, gap == r.params.MaxLevelsBelow && gap > 0, detail)
}

// citizenship_required

type citizenshipRule struct {
	baseRule
}

func newCitizenshipRule(name string, params map[string]any, margin float64) (Rule, error) {
	r := &citizenshipRule{baseRule: baseRule{name: name, kind: "citizenship_required", margin: margin}}
	if err := decodeParams(params, &struct{}{}); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *citizenshipRule) Evaluate(in *scoring.Input) Outcome {
	eligible := in.Job.EligibleCitizenships
	if len(eligible) == 0 {
		return r.outcome(false, false, "no citizenship restriction")
	}
	p := in.Candidate.Personal
	if len(p.Citizenships) == 0 && len(p.WorkAuthorizations) == 0 {
		// Unknown citizenship is not grounds for rejection
		return r.outcome(false, true, "citizenship unknown")
	}
	for _, c := range p.Citizenships {
		if containsText(eligible, c) {
			return r.outcome(false, false, "eligible citizenship")
		}
	}
	for _, a := range p.WorkAuthorizations {
		if containsText(eligible, a) || (in.Job.Location.Country != "" && normalizeText(a) == normalizeText(in.Job.Location.Country)) {
			return r.outcome(false, true, "work authorization without eligible citizenship")
		}
	}
	return r.outcome(true, false, "citizenship not eligible: "+strings.Join(p.Citizenships, ", "))
}

// required_skill_coverage

type skillCoverageParams struct {
	MinFraction float64 `mapstructure:"min_fraction"`
}

type skillCoverageRule struct {
	baseRule
	params skillCoverageParams
}

func newSkillCoverageRule(name string, params map[string]any, margin float64) (Rule, error) {
	r := &skillCoverageRule{baseRule: baseRule{name: name, kind: "required_skill_coverage", margin: margin}}
	if err := requireParams(params, "min_fraction"); err != nil {
		return nil, err
	}
	if err := decodeParams(params, &r.params); err != nil {
		return nil, err
	}
	if r.params.MinFraction <= 0 || r.params.MinFraction > 1 {
		return nil, fmt.Errorf("min_fraction must be within (0, 1], got %.2f", r.params.MinFraction)
	}
	return r, nil
}

func (r *skillCoverageRule) Evaluate(in *scoring.Input) Outcome {
	if in.Skills == nil {
		return r.outcome(false, false, "no skill resolution")
	}
	required, matched := 0, 0
	for _, sm := range in.Skills.Matches {
		if sm.Target.Importance != types.ImportanceRequired {
			continue
		}
		required++
		if sm.Method != skills.MethodNone {
			matched++
		}
	}
	if required == 0 {
		return r.outcome(false, false, "no required skills")
	}
	fraction := float64(matched) / float64(required)
	detail := fmt.Sprintf("%d/%d required skills matched (minimum %.0f%%)", matched, required, r.params.MinFraction*100)
	return r.outcome(fraction < r.params.MinFraction, fraction < r.params.MinFraction*(1+r.margin), detail)
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func containsText(list []string, v string) bool {
	for _, item := range list {
		if normalizeText(item) == normalizeText(v) && v != "" {
			return true
		}
	}
	return false
}
