package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "scoring.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func TestDefault_IsValid(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 2.0, cfg.SkillImportanceWeights.Required)
	assert.Equal(t, 1.0, cfg.SkillImportanceWeights.Preferred)
	assert.Equal(t, 0.5, cfg.SkillImportanceWeights.NiceToHave)
	assert.Equal(t, 0.80, cfg.Skills.SemanticThreshold)
	assert.Len(t, cfg.HardRejectionRules, 4)
	assert.NotEmpty(t, cfg.IndustryAdjustments["logistics"])
}

func TestDefault_SectionWeightsSumToOne(t *testing.T) {
	cfg := MustDefault()

	sum := 0.0
	for _, s := range types.Sections {
		sum += cfg.SectionWeight(s)
	}
	assert.InDelta(t, 1.0, sum, cfg.WeightEpsilon)
}

func TestLoad_DefaultFileRoundTrip(t *testing.T) {
	cfg, err := Load(writeConfig(t, string(DefaultYAML())))
	require.NoError(t, err)
	assert.Equal(t, MustDefault().SectionWeights, cfg.SectionWeights)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/scoring.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "section_weights: [unterminated"))

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_MissingRequiredKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "section_weights:\n  skills: 1.0\n"))

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), `"section_weights.experience"`)
	assert.Contains(t, err.Error(), `"match_levels"`)
}

func TestLoad_WeightsNotSummingToOne(t *testing.T) {
	content := strings.Replace(string(DefaultYAML()), "skills: 0.30", "skills: 0.60", 1)
	_, err := Load(writeConfig(t, content))

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "section_weights: sum")
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("EVALUATOR_SKILLS_SEMANTIC_THRESHOLD", "0.9")

	cfg, err := Load(writeConfig(t, string(DefaultYAML())))
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Skills.SemanticThreshold)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := MustDefault()
	cfg.SkillImportanceWeights.Required = 0
	cfg.Experience.Curve = []CurvePoint{{Ratio: 0, Score: 50}, {Ratio: 1, Score: 40}}
	cfg.MatchLevels.Good = 95
	cfg.HardRejectionRules = append(cfg.HardRejectionRules, RuleConfig{Name: "x", Kind: "horoscope"})

	err := cfg.Validate()
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))

	joined := strings.Join(cfgErr.Problems, "\n")
	assert.Contains(t, joined, "skill_importance_weights.required")
	assert.Contains(t, joined, "scores must be non-decreasing")
	assert.Contains(t, joined, "strictly descending")
	assert.Contains(t, joined, `unknown kind "horoscope"`)
}

func TestValidate_CurveMustReachFullScoreAtRequirement(t *testing.T) {
	cfg := MustDefault()
	cfg.Experience.Curve = []CurvePoint{{Ratio: 0, Score: 10}, {Ratio: 1, Score: 90}, {Ratio: 2, Score: 100}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ratio 1.0) must score 100, got 90.00")

	// Reaching 100 between points is enough.
	cfg.Experience.Curve = []CurvePoint{{Ratio: 0, Score: 0}, {Ratio: 0.8, Score: 100}}
	assert.NoError(t, cfg.Validate())
}

func TestDefault_CurveScoresFullAtRequirement(t *testing.T) {
	cfg := MustDefault()
	assert.Equal(t, 100.0, curveValueAt(cfg.Experience.Curve, 1.0))
	assert.Equal(t, 55.0, curveValueAt(cfg.Experience.Curve, 0.5))
}

func TestValidate_UnknownAdjustmentSection(t *testing.T) {
	cfg := MustDefault()
	cfg.IndustryAdjustments["retail"] = []AdjustmentConfig{{Section: "hobbies", Operation: OperationAdd, Magnitude: 5}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown section "hobbies"`)
}

func TestValidate_DuplicateInteractionNames(t *testing.T) {
	cfg := MustDefault()
	cfg.InteractionRules = append(cfg.InteractionRules, cfg.InteractionRules[0])

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate name")
}

func TestConfig_MatchLevelBands(t *testing.T) {
	cfg := MustDefault()

	assert.Equal(t, types.MatchExcellent, cfg.MatchLevel(95))
	assert.Equal(t, types.MatchGood, cfg.MatchLevel(75))
	assert.Equal(t, types.MatchFair, cfg.MatchLevel(60))
	assert.Equal(t, types.MatchPoor, cfg.MatchLevel(50))
	assert.Equal(t, types.MatchVeryPoor, cfg.MatchLevel(10))
}

func TestConfig_Adjustments_CaseInsensitive(t *testing.T) {
	cfg := MustDefault()

	assert.Equal(t, cfg.Adjustments("logistics"), cfg.Adjustments(" Logistics "))
	assert.Nil(t, cfg.Adjustments("underwater basket weaving"))
	assert.Nil(t, cfg.Adjustments(""))
}

func TestConfig_ImportanceWeight(t *testing.T) {
	cfg := MustDefault()

	assert.Equal(t, 2.0, cfg.ImportanceWeight("required"))
	assert.Equal(t, 1.0, cfg.ImportanceWeight("Preferred"))
	assert.Equal(t, 0.5, cfg.ImportanceWeight("nice_to_have"))
}

func TestLoad_ScoringConstantsAreRequired(t *testing.T) {
	content := strings.Replace(string(DefaultYAML()), "  missing_score: 50\n", "", 1)
	content = strings.Replace(content, "  unknown_confidence_factor: 0.5\n", "", 1)
	_, err := Load(writeConfig(t, content))

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), `"cv_quality.missing_score"`)
	assert.Contains(t, err.Error(), `"personal_details.unknown_confidence_factor"`)
}

func TestValidate_WeightEpsilonMustBeSmall(t *testing.T) {
	cfg := MustDefault()
	cfg.WeightEpsilon = 0.3
	cfg.SectionWeights["skills"] += 0.25

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight_epsilon: failed lte=0.05 check")

	cfg = MustDefault()
	cfg.WeightEpsilon = 0.05
	assert.NoError(t, cfg.Validate())
}
