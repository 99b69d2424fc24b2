package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/skills"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

type failingEmbedder struct{}

func (failingEmbedder) EmbedStrings(context.Context, []string) ([][]float64, error) {
	return nil, errors.New("embedding service down")
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(config.MustDefault(), opts...)
	require.NoError(t, err)
	return e
}

func techJob() *types.Job {
	return &types.Job{
		ID:         "job-1",
		Title:      "Backend Engineer",
		Industry:   "technology",
		DomainTags: []string{"fintech"},
		Keywords:   []string{"microservices", "postgres"},
		Skills: []types.JobSkill{
			{Name: "Go", Importance: types.ImportanceRequired},
			{Name: "SQL", Importance: types.ImportanceRequired},
			{Name: "Docker", Importance: types.ImportancePreferred},
		},
		RequiredExperienceYears: 3,
		Education:               &types.EducationRequirement{Level: types.EducationBachelor, Field: "Computer Science"},
		Salary:                  &types.SalaryRange{Min: 5000, Max: 7000, Currency: "USD"},
		Location:                types.Location{City: "Dubai", Country: "AE"},
		EligibleCitizenships:    []string{"AE"},
		StartDate:               "2026-03-01",
	}
}

func strongCandidate() *types.Candidate {
	return &types.Candidate{
		ID: "cand-1",
		Personal: types.PersonalDetails{
			Location:      types.Location{City: "Dubai", Country: "AE"},
			Citizenships:  []string{"AE"},
			AvailableFrom: "2026-02-01",
		},
		Experience: []types.ExperienceEntry{
			{Title: "Backend Engineer", Employer: "Acme", Industry: "technology", DurationMonths: 60, Tags: []string{"fintech"}},
		},
		Education:      []types.EducationEntry{{Level: types.EducationBachelor, Field: "Computer Science"}},
		Certifications: []string{"AWS Solutions Architect", "CKA"},
		Skills: []types.CandidateSkill{
			{Name: "Go", Proficiency: "expert"},
			{Name: "SQL", Proficiency: "advanced"},
			{Name: "Docker", Proficiency: "advanced"},
		},
		SalaryExpectation: &types.SalaryExpectation{Amount: 6000, Currency: "USD"},
		CVQuality: &types.CVQualitySignals{
			Completeness: 0.95,
			Sections:     []string{"summary", "experience", "education", "skills", "contact"},
			WordCount:    800,
			Keywords:     []string{"microservices", "postgres"},
		},
	}
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)
	var ce *config.ConfigurationError
	assert.True(t, errors.As(err, &ce))
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.MustDefault()
	cfg.SectionWeights["skills"] = 0.9

	_, err := New(cfg)
	var ce *config.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Error(), "section_weights")
}

func TestNew_MissingEmbeddingIndex(t *testing.T) {
	cfg := config.MustDefault()
	cfg.Skills.EmbeddingIndex = t.TempDir() + "/missing.json"

	_, err := New(cfg)
	var ce *config.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Error(), "skills.embedding_index")
}

func TestEvaluate_StrongCandidate(t *testing.T) {
	result, err := newEngine(t).Evaluate(context.Background(), strongCandidate(), techJob())
	require.NoError(t, err)

	assert.Equal(t, "cand-1", result.CandidateID)
	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, types.MatchExcellent, result.MatchLevel)
	assert.Equal(t, types.RecommendationStrongYes, result.Recommendation)
	assert.Empty(t, result.HardRejections)
	assert.NotNil(t, result.HardRejections)
	assert.Contains(t, result.Interactions, "expert_practitioner")
	assert.Contains(t, result.Interactions, "domain_specialist")
	assert.Greater(t, result.InteractionBonus, 0.0)
	assert.GreaterOrEqual(t, result.Sections[types.SectionSkills].Score, 95.0)
	assert.Greater(t, result.Sections[types.SectionSkills].Confidence, 0.8)
	assert.Len(t, result.Explanation, len(types.Sections))
	assert.NotEmpty(t, result.Strengths)
	assert.NotEmpty(t, result.NextSteps)
	assert.False(t, result.Degraded)

	// technology: skills x1.10, education -5
	require.Len(t, result.Adjustments, 2)
	assert.Equal(t, types.SectionSkills, result.Adjustments[0].Section)

	// every configured rule is traced, in order, even when none fire
	cfg := config.MustDefault()
	require.Len(t, result.RuleTrace, len(cfg.HardRejectionRules))
	for i, rc := range cfg.HardRejectionRules {
		assert.Equal(t, rc.Name, result.RuleTrace[i].Rule)
		assert.Equal(t, rc.Kind, result.RuleTrace[i].Kind)
		assert.False(t, result.RuleTrace[i].Triggered)
	}
}

func TestEvaluate_HardRejectionForcesStrongNo(t *testing.T) {
	job := techJob()
	job.MandatoryCertifications = []string{"Security Clearance"}

	result, err := newEngine(t).Evaluate(context.Background(), strongCandidate(), job)
	require.NoError(t, err)

	assert.Equal(t, types.RecommendationStrongNo, result.Recommendation)
	assert.Equal(t, []string{"missing_mandatory_certification"}, result.HardRejections)
	// scores are still computed
	assert.Greater(t, result.OverallScore, 80.0)
	assert.Len(t, result.Sections, len(types.Sections))
	assert.Contains(t, result.NextSteps[len(result.NextSteps)-1], "missing_mandatory_certification")

	require.NotEmpty(t, result.RuleTrace)
	first := result.RuleTrace[0]
	assert.Equal(t, "missing_mandatory_certification", first.Rule)
	assert.True(t, first.Triggered)
	assert.Contains(t, first.Detail, "Security Clearance")
	for _, o := range result.RuleTrace[1:] {
		assert.False(t, o.Triggered, o.Rule)
	}
}

func TestEvaluate_NextStepsNameMissingRequiredSkills(t *testing.T) {
	c := strongCandidate()
	c.Skills = c.Skills[:1] // Go only

	result, err := newEngine(t).Evaluate(context.Background(), c, techJob())
	require.NoError(t, err)

	var critical []string
	for _, step := range result.NextSteps {
		if strings.HasPrefix(step, "Critical:") {
			critical = append(critical, step)
		}
	}
	require.Len(t, critical, 1)
	assert.True(t, strings.HasSuffix(critical[0], ": SQL"), critical[0])
	assert.NotContains(t, critical[0], "Docker")
}

func TestEvaluate_ValidationErrors(t *testing.T) {
	e := newEngine(t)

	_, err := e.Evaluate(context.Background(), nil, techJob())
	var ve *types.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "candidate", ve.Field)

	c := strongCandidate()
	c.Experience[0].DurationMonths = -3
	_, err = e.Evaluate(context.Background(), c, techJob())
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "candidate.experience[0].duration_months", ve.Field)

	_, err = e.Evaluate(context.Background(), strongCandidate(), nil)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "job", ve.Field)
}

func TestEvaluate_DegradedSemanticMatching(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	cfg := config.MustDefault()
	matcher := skills.NewMatcher(skills.NewTaxonomy(cfg.Skills.Synonyms), cfg.Skills.SemanticThreshold,
		skills.WithEmbedder(failingEmbedder{}))
	e := newEngine(t, WithMatcher(matcher), WithLogger(zap.New(core)))

	c := strongCandidate()
	c.Skills = append(c.Skills[:2], types.CandidateSkill{Name: "Podman"})

	result, err := e.Evaluate(context.Background(), c, techJob())
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	assert.True(t, result.Sections[types.SectionSkills].Degraded)
	assert.Contains(t, result.NextSteps, "Re-run the evaluation once semantic skill matching is available")
	assert.Equal(t, 1, observed.Len())
}

func TestEvaluate_NoVectorSourceIsDegraded(t *testing.T) {
	c := strongCandidate()
	c.Skills = append(c.Skills[:2], types.CandidateSkill{Name: "Podman"})

	result, err := newEngine(t).Evaluate(context.Background(), c, techJob())
	require.NoError(t, err)
	assert.True(t, result.Degraded)
}

func TestEvaluate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newEngine(t).Evaluate(ctx, strongCandidate(), techJob())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate_Deterministic(t *testing.T) {
	e := newEngine(t)
	first, err := e.Evaluate(context.Background(), strongCandidate(), techJob())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := e.Evaluate(context.Background(), strongCandidate(), techJob())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEvaluate_MissingDataLowersConfidence(t *testing.T) {
	e := newEngine(t)
	full, err := e.Evaluate(context.Background(), strongCandidate(), techJob())
	require.NoError(t, err)

	sparse := strongCandidate()
	sparse.SalaryExpectation = nil
	sparse.CVQuality = nil
	partial, err := e.Evaluate(context.Background(), sparse, techJob())
	require.NoError(t, err)

	assert.Less(t, partial.Confidence, full.Confidence)
	assert.True(t, partial.Sections[types.SectionSalary].MissingData)
	assert.Contains(t, partial.NextSteps[len(partial.NextSteps)-1], "salary")
}

func randomProfile(r *rand.Rand, i int) (*types.Candidate, *types.Job) {
	pool := []string{"Go", "golang", "SQL", "Forklift", "Excel", "Kubernetes", "Welding"}
	industries := []string{"logistics", "technology", "healthcare", "finance", "retail", ""}

	c := &types.Candidate{ID: fmt.Sprintf("c-%d", i)}
	for n := r.Intn(4); n > 0; n-- {
		c.Experience = append(c.Experience, types.ExperienceEntry{
			Title:          "role",
			Industry:       industries[r.Intn(len(industries))],
			DurationMonths: r.Intn(180),
		})
	}
	for n := r.Intn(5); n > 0; n-- {
		c.Skills = append(c.Skills, types.CandidateSkill{Name: pool[r.Intn(len(pool))]})
	}
	for n := r.Intn(4); n > 0; n-- {
		c.Certifications = append(c.Certifications, fmt.Sprintf("cert-%d", n))
	}
	if r.Intn(2) == 0 {
		c.Education = []types.EducationEntry{{Level: types.EducationMaster, Field: "Mathematics"}}
	}
	if r.Intn(2) == 0 {
		c.SalaryExpectation = &types.SalaryExpectation{Amount: r.Float64() * 30000, Currency: "USD"}
	}
	if r.Intn(2) == 0 {
		c.Personal.Citizenships = []string{[]string{"AE", "SA", "IN"}[r.Intn(3)]}
	}

	j := &types.Job{
		ID:                      "job",
		Title:                   "Role",
		Industry:                industries[r.Intn(len(industries))],
		RequiredExperienceYears: float64(r.Intn(8)),
		EligibleCitizenships:    []string{"AE"},
	}
	for _, name := range []string{"Go", "SQL", "Welding"} {
		if r.Intn(2) == 0 {
			j.Skills = append(j.Skills, types.JobSkill{Name: name, Importance: types.ImportanceRequired})
		}
	}
	if r.Intn(2) == 0 {
		j.Salary = &types.SalaryRange{Min: 4000, Max: 9000, Currency: "USD"}
	}
	return c, j
}

// randomConfig perturbs the default configuration within its validated ranges.
func randomConfig(r *rand.Rand) *config.Config {
	cfg := config.MustDefault()

	raw := make([]float64, len(types.Sections))
	sum := 0.0
	for k := range raw {
		raw[k] = r.Float64() + 0.05
		sum += raw[k]
	}
	for k, s := range types.Sections {
		cfg.SectionWeights[string(s)] = raw[k] / sum
	}

	cfg.IndustryAdjustments = map[string][]config.AdjustmentConfig{}
	for _, industry := range []string{"logistics", "technology", "healthcare", "finance", "retail"} {
		for n := r.Intn(3); n > 0; n-- {
			adj := config.AdjustmentConfig{Section: string(types.Sections[r.Intn(len(types.Sections))])}
			if r.Intn(2) == 0 {
				adj.Operation, adj.Magnitude = config.OperationMultiply, r.Float64()*2.5
			} else {
				adj.Operation, adj.Magnitude = config.OperationAdd, r.Float64()*120-60
			}
			cfg.IndustryAdjustments[industry] = append(cfg.IndustryAdjustments[industry], adj)
		}
	}

	for k := range cfg.InteractionRules {
		cfg.InteractionRules[k].Bonus = r.Float64()*200 - 100
	}
	cfg.MaxInteractionBonus = r.Float64() * 100
	cfg.MissingData.AggregatePenalty = r.Float64() * 0.2

	start := r.Float64() * 50
	knee := 0.1 + r.Float64()*0.8
	cfg.Experience.Curve = []config.CurvePoint{
		{Ratio: 0, Score: start},
		{Ratio: knee, Score: start + r.Float64()*(100-start)},
		{Ratio: 1, Score: 100},
		{Ratio: 1 + r.Float64()*2, Score: 100},
	}
	return cfg
}

func TestEvaluate_InvariantsHoldForRandomInputs(t *testing.T) {
	r := rand.New(rand.NewSource(1234))

	for i := 0; i < 300; i++ {
		cfg := randomConfig(r)
		require.NoError(t, cfg.Validate(), "iteration %d", i)
		e, err := New(cfg)
		require.NoError(t, err, "iteration %d", i)

		c, j := randomProfile(r, i)
		result, err := e.Evaluate(context.Background(), c, j)
		require.NoError(t, err, "iteration %d", i)

		assert.GreaterOrEqual(t, result.OverallScore, 0.0)
		assert.LessOrEqual(t, result.OverallScore, 100.0)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
		assert.LessOrEqual(t, result.InteractionBonus, cfg.MaxInteractionBonus)
		assert.GreaterOrEqual(t, result.InteractionBonus, -cfg.MaxInteractionBonus)
		assert.True(t, result.Recommendation.Valid())
		assert.Equal(t, cfg.MatchLevel(result.OverallScore), result.MatchLevel)
		assert.Len(t, result.RuleTrace, len(cfg.HardRejectionRules))
		if result.Rejected() {
			assert.Equal(t, types.RecommendationStrongNo, result.Recommendation, "iteration %d", i)
		}
		require.Len(t, result.Sections, len(types.Sections))
		for s, a := range result.Sections {
			assert.GreaterOrEqual(t, a.Score, 0.0, "iteration %d section %s", i, s)
			assert.LessOrEqual(t, a.Score, 100.0, "iteration %d section %s", i, s)
			assert.GreaterOrEqual(t, a.Confidence, 0.0, "iteration %d section %s", i, s)
			assert.LessOrEqual(t, a.Confidence, 1.0, "iteration %d section %s", i, s)
		}
	}
}
