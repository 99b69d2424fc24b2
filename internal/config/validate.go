package config

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

// ConfigurationError reports every problem found in a configuration.
// It is fatal: the engine refuses to start with an invalid configuration.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("configuration error: %s", e.Problems[0])
	}
	return fmt.Sprintf("configuration error (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// RuleKinds lists the hard-rejection rule kinds the engine understands.
var RuleKinds = []string{
	"mandatory_certification",
	"salary_ceiling",
	"experience_floor",
	"education_minimum",
	"citizenship_required",
	"required_skill_coverage",
}

var configValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]; name != "" {
			return name
		}
		return fld.Name
	})
	return v
}()

// Validate checks ranges and cross-field constraints and returns a *ConfigurationError
// listing every problem, or nil.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if err := configValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				add("%s: failed %s%s check", trimRoot(fe.Namespace()), fe.Tag(), paramSuffix(fe.Param()))
			}
		} else {
			add("%v", err)
		}
	}

	c.validateSectionWeights(add)
	c.validateCurve(add)
	c.validateMatchLevels(add)
	c.validateRecommendations(add)
	c.validateAdjustments(add)
	c.validateRules(add)
	c.validateInteractions(add)

	if w := c.PersonalDetails.Weights; w.Location+w.Citizenship+w.Availability <= 0 {
		add("personal_details.weights: at least one weight must be positive")
	}
	if w := c.CVQuality.Weights; w.Structure+w.Length+w.Keywords <= 0 {
		add("cv_quality.weights: at least one weight must be positive")
	}
	if c.Education.LevelWeight+c.Education.FieldWeight <= 0 {
		add("education: level_weight and field_weight cannot both be zero")
	}

	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

func (c *Config) validateSectionWeights(add func(string, ...any)) {
	sum := 0.0
	for _, s := range types.Sections {
		w, ok := c.SectionWeights[string(s)]
		if !ok {
			add("section_weights.%s: missing", s)
			continue
		}
		if math.IsNaN(w) || w < 0 || w > 1 {
			add("section_weights.%s: %.4f must be within [0, 1]", s, w)
		}
		sum += w
	}
	for _, name := range sortedKeys(c.SectionWeights) {
		if _, ok := types.ParseSection(name); !ok {
			add("section_weights.%s: unknown section", name)
		}
	}
	if math.Abs(sum-1.0) > c.WeightEpsilon {
		add("section_weights: sum %.4f must equal 1 within %.4f", sum, c.WeightEpsilon)
	}
}

func (c *Config) validateCurve(add func(string, ...any)) {
	curve := c.Experience.Curve
	if len(curve) == 0 {
		return
	}
	if curve[0].Ratio != 0 {
		add("experience.curve: first point must have ratio 0, got %.2f", curve[0].Ratio)
	}
	for i := 1; i < len(curve); i++ {
		if curve[i].Ratio <= curve[i-1].Ratio {
			add("experience.curve[%d]: ratios must be strictly increasing", i)
		}
		if curve[i].Score < curve[i-1].Score {
			add("experience.curve[%d]: scores must be non-decreasing", i)
		}
	}
	if v := curveValueAt(curve, 1.0); v < 100 {
		add("experience.curve: meeting the requirement (ratio 1.0) must score 100, got %.2f", v)
	}
}

// curveValueAt evaluates the curve at x, holding the end values outside its range.
func curveValueAt(curve []CurvePoint, x float64) float64 {
	if x <= curve[0].Ratio {
		return curve[0].Score
	}
	for i := 1; i < len(curve); i++ {
		if x <= curve[i].Ratio {
			lo, hi := curve[i-1], curve[i]
			if hi.Ratio == lo.Ratio {
				return hi.Score
			}
			return lo.Score + (x-lo.Ratio)/(hi.Ratio-lo.Ratio)*(hi.Score-lo.Score)
		}
	}
	return curve[len(curve)-1].Score
}

func (c *Config) validateMatchLevels(add func(string, ...any)) {
	m := c.MatchLevels
	if !(m.Excellent > m.Good && m.Good > m.Fair && m.Fair > m.Poor) {
		add("match_levels: thresholds must be strictly descending (excellent > good > fair > poor)")
	}
}

func (c *Config) validateRecommendations(add func(string, ...any)) {
	for _, level := range types.MatchLevels {
		key := strings.ToLower(string(level))
		rec, ok := c.Recommendation.ByMatchLevel[key]
		if !ok {
			add("recommendation.by_match_level.%s: missing", key)
			continue
		}
		if !types.Recommendation(strings.ToUpper(rec)).Valid() {
			add("recommendation.by_match_level.%s: unknown recommendation %q", key, rec)
		}
	}
}

func (c *Config) validateAdjustments(add func(string, ...any)) {
	for _, industry := range sortedKeys(c.IndustryAdjustments) {
		if industry != strings.ToLower(industry) {
			add("industry_adjustments.%s: industry keys must be lower case", industry)
		}
		for i, adj := range c.IndustryAdjustments[industry] {
			if _, ok := types.ParseSection(adj.Section); !ok {
				add("industry_adjustments.%s[%d]: unknown section %q", industry, i, adj.Section)
			}
			if adj.Operation == OperationMultiply && adj.Magnitude < 0 {
				add("industry_adjustments.%s[%d]: multiply magnitude must be >= 0", industry, i)
			}
			if math.IsNaN(adj.Magnitude) || math.IsInf(adj.Magnitude, 0) {
				add("industry_adjustments.%s[%d]: magnitude must be finite", industry, i)
			}
		}
	}
}

func (c *Config) validateRules(add func(string, ...any)) {
	seen := make(map[string]bool)
	for i, rule := range c.HardRejectionRules {
		if seen[rule.Name] {
			add("hard_rejection_rules[%d]: duplicate name %q", i, rule.Name)
		}
		seen[rule.Name] = true
		if !knownKind(rule.Kind) {
			add("hard_rejection_rules[%d]: unknown kind %q", i, rule.Kind)
		}
	}
}

func (c *Config) validateInteractions(add func(string, ...any)) {
	seen := make(map[string]bool)
	for i, rule := range c.InteractionRules {
		if seen[rule.Name] {
			add("interaction_rules[%d]: duplicate name %q", i, rule.Name)
		}
		seen[rule.Name] = true
		for _, section := range sortedKeys(rule.MinSectionScores) {
			if _, ok := types.ParseSection(section); !ok {
				add("interaction_rules[%d].min_section_scores: unknown section %q", i, section)
			}
		}
		if len(rule.MinSectionScores) == 0 && !rule.SameDomain && rule.MinCertifications == 0 {
			add("interaction_rules[%d]: at least one condition is required", i)
		}
	}
}

func knownKind(kind string) bool {
	for _, k := range RuleKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func trimRoot(ns string) string {
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

func paramSuffix(param string) string {
	if param == "" {
		return ""
	}
	return "=" + param
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
