// Package config provides loading and validation of the scoring configuration.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

//go:embed default.yaml
var defaultYAML []byte

// EnvPrefix is the prefix for environment overrides, e.g. EVALUATOR_SKILLS_SEMANTIC_THRESHOLD.
const EnvPrefix = "EVALUATOR"

// Config is the complete scoring configuration. It is read once at startup and
// treated as immutable afterwards.
type Config struct {
	Version                string                        `mapstructure:"version"`
	SectionWeights         map[string]float64            `mapstructure:"section_weights"`
	WeightEpsilon          float64                       `mapstructure:"weight_epsilon" validate:"gt=0,lte=0.05"`
	SkillImportanceWeights ImportanceWeights             `mapstructure:"skill_importance_weights"`
	Skills                 SkillsConfig                  `mapstructure:"skills"`
	Experience             ExperienceConfig              `mapstructure:"experience"`
	Education              EducationConfig               `mapstructure:"education"`
	Salary                 SalaryConfig                  `mapstructure:"salary"`
	PersonalDetails        PersonalDetailsConfig         `mapstructure:"personal_details"`
	CVQuality              CVQualityConfig               `mapstructure:"cv_quality"`
	MissingData            MissingDataConfig             `mapstructure:"missing_data"`
	IndustryAdjustments    map[string][]AdjustmentConfig `mapstructure:"industry_adjustments" validate:"dive,dive"`
	HardRejectionRules     []RuleConfig                  `mapstructure:"hard_rejection_rules" validate:"dive"`
	InteractionRules       []InteractionRuleConfig       `mapstructure:"interaction_rules" validate:"dive"`
	MaxInteractionBonus    float64                       `mapstructure:"max_interaction_bonus" validate:"gte=0,lte=100"`
	MatchLevels            MatchLevelConfig              `mapstructure:"match_levels"`
	Recommendation         RecommendationConfig          `mapstructure:"recommendation"`
	Explanation            ExplanationConfig             `mapstructure:"explanation"`
	Ranking                RankingConfig                 `mapstructure:"ranking"`
}

// ImportanceWeights weight job skills by importance.
type ImportanceWeights struct {
	Required   float64 `mapstructure:"required" validate:"gt=0"`
	Preferred  float64 `mapstructure:"preferred" validate:"gt=0"`
	NiceToHave float64 `mapstructure:"nice_to_have" validate:"gt=0"`
}

// SkillsConfig tunes skill matching and the skills section.
type SkillsConfig struct {
	SemanticThreshold        float64             `mapstructure:"semantic_threshold" validate:"gt=0,lte=1"`
	SynonymConfidence        float64             `mapstructure:"synonym_confidence" validate:"gte=0,lte=1"`
	NoMatchConfidence        float64             `mapstructure:"no_match_confidence" validate:"gte=0,lte=1"`
	NoRequirementsConfidence float64             `mapstructure:"no_requirements_confidence" validate:"gte=0,lte=1"`
	DegradedConfidenceFactor float64             `mapstructure:"degraded_confidence_factor" validate:"gte=0,lte=1"`
	EmbeddingIndex           string              `mapstructure:"embedding_index"`
	Synonyms                 map[string][]string `mapstructure:"synonyms"`
}

// CurvePoint is one vertex of a piecewise-linear curve.
type CurvePoint struct {
	Ratio float64 `mapstructure:"ratio" json:"ratio" validate:"gte=0"`
	Score float64 `mapstructure:"score" json:"score" validate:"gte=0,lte=100"`
}

// ExperienceConfig tunes the experience section.
type ExperienceConfig struct {
	Curve                   []CurvePoint `mapstructure:"curve" validate:"min=2,dive"`
	UnrelatedCredit         float64      `mapstructure:"unrelated_credit" validate:"gte=0,lte=1"`
	IndustryMatchMultiplier float64      `mapstructure:"industry_match_multiplier" validate:"gte=1,lte=2"`
	NoRequirementScore      float64      `mapstructure:"no_requirement_score" validate:"gte=0,lte=100"`
	Confidence              float64      `mapstructure:"confidence" validate:"gt=0,lte=1"`
}

// LevelCredits are education level scores relative to the requirement.
type LevelCredits struct {
	Meets        float64 `mapstructure:"meets" validate:"gte=0,lte=100"`
	OneBelow     float64 `mapstructure:"one_below" validate:"gte=0,lte=100"`
	FurtherBelow float64 `mapstructure:"further_below" validate:"gte=0,lte=100"`
}

// FieldCredits are field-of-study scores relative to the requirement.
type FieldCredits struct {
	Exact     float64 `mapstructure:"exact" validate:"gte=0,lte=100"`
	Related   float64 `mapstructure:"related" validate:"gte=0,lte=100"`
	Unrelated float64 `mapstructure:"unrelated" validate:"gte=0,lte=100"`
}

// EducationConfig tunes the education section.
type EducationConfig struct {
	LevelCredits          LevelCredits        `mapstructure:"level_credits"`
	LevelWeight           float64             `mapstructure:"level_weight" validate:"gte=0,lte=1"`
	FieldWeight           float64             `mapstructure:"field_weight" validate:"gte=0,lte=1"`
	FieldCredits          FieldCredits        `mapstructure:"field_credits"`
	RelatedFields         map[string][]string `mapstructure:"related_fields"`
	CertificationBonus    float64             `mapstructure:"certification_bonus" validate:"gte=0,lte=100"`
	MaxCertificationBonus float64             `mapstructure:"max_certification_bonus" validate:"gte=0,lte=100"`
	Confidence            float64             `mapstructure:"confidence" validate:"gt=0,lte=1"`
}

// SalaryConfig tunes the salary section.
type SalaryConfig struct {
	Floor                      float64            `mapstructure:"floor" validate:"gte=0,lte=100"`
	AbovePenaltyPerPercent     float64            `mapstructure:"above_penalty_per_percent" validate:"gte=0"`
	BelowPenaltyPerPercent     float64            `mapstructure:"below_penalty_per_percent" validate:"gte=0"`
	MissingScore               float64            `mapstructure:"missing_score" validate:"gte=0,lte=100"`
	CurrencyMismatchScore      float64            `mapstructure:"currency_mismatch_score" validate:"gte=0,lte=100"`
	CurrencyMismatchConfidence float64            `mapstructure:"currency_mismatch_confidence" validate:"gte=0,lte=1"`
	Confidence                 float64            `mapstructure:"confidence" validate:"gt=0,lte=1"`
	CurrencyRates              map[string]float64 `mapstructure:"currency_rates" validate:"dive,gt=0"`
}

// PersonalWeights weight the three personal-details checks.
type PersonalWeights struct {
	Location     float64 `mapstructure:"location" validate:"gte=0,lte=1"`
	Citizenship  float64 `mapstructure:"citizenship" validate:"gte=0,lte=1"`
	Availability float64 `mapstructure:"availability" validate:"gte=0,lte=1"`
}

// Grades are credits for a full, partial or absent match.
type Grades struct {
	Full    float64 `mapstructure:"full" validate:"gte=0,lte=1"`
	Partial float64 `mapstructure:"partial" validate:"gte=0,lte=1"`
	None    float64 `mapstructure:"none" validate:"gte=0,lte=1"`
}

// PersonalDetailsConfig tunes the personal-details section.
// UnknownConfidenceFactor scales the confidence share of checks whose
// candidate facts are unknown.
type PersonalDetailsConfig struct {
	Weights                 PersonalWeights `mapstructure:"weights"`
	Grades                  Grades          `mapstructure:"grades"`
	NeutralCredit           float64         `mapstructure:"neutral_credit" validate:"gte=0,lte=1"`
	AvailabilityGraceDays   int             `mapstructure:"availability_grace_days" validate:"gte=0"`
	UnknownConfidenceFactor float64         `mapstructure:"unknown_confidence_factor" validate:"gte=0,lte=1"`
	Confidence              float64         `mapstructure:"confidence" validate:"gt=0,lte=1"`
}

// CVQualityWeights weight the CV-quality components.
type CVQualityWeights struct {
	Structure float64 `mapstructure:"structure" validate:"gte=0,lte=1"`
	Length    float64 `mapstructure:"length" validate:"gte=0,lte=1"`
	Keywords  float64 `mapstructure:"keywords" validate:"gte=0,lte=1"`
}

// CVQualityConfig tunes the CV-quality section. CompletenessBlend is the share
// of the structure score taken from the reported completeness; the rest comes
// from the expected sections present.
type CVQualityConfig struct {
	ExpectedSections  []string         `mapstructure:"expected_sections" validate:"min=1"`
	Weights           CVQualityWeights `mapstructure:"weights"`
	MinWords          int              `mapstructure:"min_words" validate:"gt=0"`
	MaxWords          int              `mapstructure:"max_words" validate:"gtfield=MinWords"`
	FlagPenalty       float64          `mapstructure:"flag_penalty" validate:"gte=0,lte=100"`
	CompletenessBlend float64          `mapstructure:"completeness_blend" validate:"gte=0,lte=1"`
	MissingScore      float64          `mapstructure:"missing_score" validate:"gte=0,lte=100"`
	Confidence        float64          `mapstructure:"confidence" validate:"gt=0,lte=1"`
}

// MissingDataConfig controls how absent candidate data is treated.
type MissingDataConfig struct {
	Confidence       float64 `mapstructure:"confidence" validate:"gte=0,lte=1"`
	AggregatePenalty float64 `mapstructure:"aggregate_penalty" validate:"gte=0,lte=0.2"`
}

// Adjustment operations
const (
	OperationMultiply = "multiply"
	OperationAdd      = "add"
)

// AdjustmentConfig is one industry-specific change to a section score.
type AdjustmentConfig struct {
	Section   string  `mapstructure:"section" validate:"required"`
	Operation string  `mapstructure:"operation" validate:"required,oneof=multiply add"`
	Magnitude float64 `mapstructure:"magnitude"`
}

// RuleConfig declares one hard-rejection rule. Params are decoded per kind.
type RuleConfig struct {
	Name   string         `mapstructure:"name" validate:"required"`
	Kind   string         `mapstructure:"kind" validate:"required"`
	Params map[string]any `mapstructure:"params"`
}

// InteractionRuleConfig declares a feature-interaction bonus. All set conditions must hold.
type InteractionRuleConfig struct {
	Name              string             `mapstructure:"name" validate:"required"`
	Description       string             `mapstructure:"description"`
	Bonus             float64            `mapstructure:"bonus" validate:"gte=-100,lte=100"`
	MinSectionScores  map[string]float64 `mapstructure:"min_section_scores" validate:"dive,gte=0,lte=100"`
	SameDomain        bool               `mapstructure:"same_domain"`
	MinCertifications int                `mapstructure:"min_certifications" validate:"gte=0"`
}

// MatchLevelConfig holds the lower bound of each match level. VERY_POOR is everything below Poor.
type MatchLevelConfig struct {
	Excellent float64 `mapstructure:"excellent" validate:"gte=0,lte=100"`
	Good      float64 `mapstructure:"good" validate:"gte=0,lte=100"`
	Fair      float64 `mapstructure:"fair" validate:"gte=0,lte=100"`
	Poor      float64 `mapstructure:"poor" validate:"gte=0,lte=100"`
}

// RecommendationConfig maps match levels to verdicts.
type RecommendationConfig struct {
	ByMatchLevel           map[string]string `mapstructure:"by_match_level"`
	LowConfidenceThreshold float64           `mapstructure:"low_confidence_threshold" validate:"gte=0,lte=1"`
	NearMissMargin         float64           `mapstructure:"near_miss_margin" validate:"gte=0,lte=1"`
}

// ExplanationConfig sets the strength and concern cut-offs.
type ExplanationConfig struct {
	StrengthThreshold float64 `mapstructure:"strength_threshold" validate:"gte=0,lte=100"`
	ConcernThreshold  float64 `mapstructure:"concern_threshold" validate:"gte=0,ltfield=StrengthThreshold"`
}

// RankingConfig tunes batch ranking.
type RankingConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"gte=1,lte=1024"`
}

// requiredKeys must be present in every configuration file.
var requiredKeys = []string{
	"section_weights.personal_details",
	"section_weights.experience",
	"section_weights.education",
	"section_weights.skills",
	"section_weights.salary",
	"section_weights.cv_quality",
	"weight_epsilon",
	"skill_importance_weights",
	"skills",
	"experience.curve",
	"education",
	"salary",
	"personal_details",
	"personal_details.unknown_confidence_factor",
	"cv_quality",
	"cv_quality.missing_score",
	"cv_quality.completeness_blend",
	"missing_data",
	"match_levels",
	"recommendation",
	"explanation",
	"ranking",
}

// Default returns the embedded default configuration.
func Default() (*Config, error) {
	return load(func(v *viper.Viper) error {
		return v.ReadConfig(bytes.NewReader(defaultYAML))
	})
}

// MustDefault returns the embedded default configuration and panics if it is invalid.
func MustDefault() *Config {
	cfg, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded default configuration is invalid: %v", err))
	}
	return cfg
}

// DefaultYAML returns a copy of the embedded default configuration file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Load reads a YAML configuration file, applies EVALUATOR_* environment overrides
// and validates the result. Any problem is reported as a *ConfigurationError.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return load(func(v *viper.Viper) error {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	})
}

func load(read func(v *viper.Viper) error) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := read(v); err != nil {
		return nil, &ConfigurationError{Problems: []string{fmt.Sprintf("failed to parse config: %v", err)}}
	}

	var missing []string
	for _, key := range requiredKeys {
		if !v.IsSet(key) {
			missing = append(missing, fmt.Sprintf("missing required key %q", key))
		}
	}
	if len(missing) > 0 {
		return nil, &ConfigurationError{Problems: missing}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Problems: []string{fmt.Sprintf("failed to decode config: %v", err)}}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SectionWeight returns the configured weight of a section.
func (c *Config) SectionWeight(s types.Section) float64 {
	return c.SectionWeights[string(s)]
}

// ImportanceWeight maps a job-skill importance to its weight.
func (c *Config) ImportanceWeight(importance string) float64 {
	return c.SkillImportanceWeights.For(importance)
}

// For maps a job-skill importance to its weight. Unknown values weigh as nice-to-have.
func (w ImportanceWeights) For(importance string) float64 {
	switch strings.ToLower(importance) {
	case types.ImportanceRequired:
		return w.Required
	case types.ImportancePreferred:
		return w.Preferred
	default:
		return w.NiceToHave
	}
}

// Adjustments returns the adjustments for an industry, matched case-insensitively.
// Unknown or empty industries have none.
func (c *Config) Adjustments(industry string) []AdjustmentConfig {
	key := strings.ToLower(strings.TrimSpace(industry))
	if key == "" {
		return nil
	}
	return c.IndustryAdjustments[key]
}

// MatchLevel maps an overall score to its band.
func (c *Config) MatchLevel(score float64) types.MatchLevel {
	switch {
	case score >= c.MatchLevels.Excellent:
		return types.MatchExcellent
	case score >= c.MatchLevels.Good:
		return types.MatchGood
	case score >= c.MatchLevels.Fair:
		return types.MatchFair
	case score >= c.MatchLevels.Poor:
		return types.MatchPoor
	default:
		return types.MatchVeryPoor
	}
}

// RecommendationFor returns the configured verdict for a match level.
func (c *Config) RecommendationFor(level types.MatchLevel) types.Recommendation {
	return types.Recommendation(strings.ToUpper(c.Recommendation.ByMatchLevel[strings.ToLower(string(level))]))
}
