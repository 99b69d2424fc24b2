package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

func sectionScores(scores map[types.Section]float64) map[types.Section]types.SectionAssessment {
	out := make(map[types.Section]types.SectionAssessment, len(types.Sections))
	for _, s := range types.Sections {
		out[s] = types.SectionAssessment{Section: s, Score: scores[s], Confidence: 0.9}
	}
	return out
}

func defaultDetector(t *testing.T) *InteractionDetector {
	t.Helper()
	cfg := config.MustDefault()
	d, err := NewInteractionDetector(cfg.InteractionRules, cfg.MaxInteractionBonus)
	require.NoError(t, err)
	return d
}

func TestDetect_ExpertPractitioner(t *testing.T) {
	in := newInput(t, &types.Candidate{ID: "c"}, &types.Job{ID: "j"})
	sections := sectionScores(map[types.Section]float64{types.SectionSkills: 90, types.SectionExperience: 88})

	bonus, triggered := defaultDetector(t).Detect(in, sections)
	assert.Equal(t, 5.0, bonus)
	require.Len(t, triggered, 1)
	assert.Equal(t, "expert_practitioner", triggered[0].Rule)
}

func TestDetect_ThresholdIsInclusive(t *testing.T) {
	in := newInput(t, &types.Candidate{ID: "c"}, &types.Job{ID: "j"})
	sections := sectionScores(map[types.Section]float64{types.SectionSkills: 85, types.SectionExperience: 85})

	bonus, _ := defaultDetector(t).Detect(in, sections)
	assert.Equal(t, 5.0, bonus)
}

func TestDetect_DomainSpecialist(t *testing.T) {
	job := &types.Job{ID: "j", Industry: "logistics"}
	sections := sectionScores(map[types.Section]float64{types.SectionSkills: 72})

	inDomain := &types.Candidate{ID: "c", Experience: []types.ExperienceEntry{{Title: "Dispatcher", Industry: "Logistics", DurationMonths: 24}}}
	bonus, triggered := defaultDetector(t).Detect(newInput(t, inDomain, job), sections)
	assert.Equal(t, 3.0, bonus)
	require.Len(t, triggered, 1)
	assert.Equal(t, "domain_specialist", triggered[0].Rule)

	outOfDomain := &types.Candidate{ID: "c", Experience: []types.ExperienceEntry{{Title: "Barista", Industry: "hospitality", DurationMonths: 24}}}
	bonus, triggered = defaultDetector(t).Detect(newInput(t, outOfDomain, job), sections)
	assert.Zero(t, bonus)
	assert.Empty(t, triggered)
}

func TestDetect_CertifiedProfessional(t *testing.T) {
	sections := sectionScores(map[types.Section]float64{types.SectionEducation: 80})

	one := &types.Candidate{ID: "c", Certifications: []string{"PMP"}}
	bonus, _ := defaultDetector(t).Detect(newInput(t, one, &types.Job{ID: "j"}), sections)
	assert.Zero(t, bonus)

	two := &types.Candidate{ID: "c", Certifications: []string{"PMP", "CSCP"}}
	bonus, _ = defaultDetector(t).Detect(newInput(t, two, &types.Job{ID: "j"}), sections)
	assert.Equal(t, 2.0, bonus)
}

func TestDetect_BonusIsClamped(t *testing.T) {
	d, err := NewInteractionDetector([]config.InteractionRuleConfig{
		{Name: "a", Bonus: 8, MinSectionScores: map[string]float64{"skills": 50}},
		{Name: "b", Bonus: 8, MinSectionScores: map[string]float64{"skills": 50}},
		{Name: "c", Bonus: -30, MinSectionScores: map[string]float64{"salary": 0}},
	}, 10)
	require.NoError(t, err)
	in := newInput(t, &types.Candidate{ID: "c"}, &types.Job{ID: "j"})

	bonus, triggered := d.Detect(in, sectionScores(map[types.Section]float64{types.SectionSkills: 60}))
	assert.Equal(t, -10.0, bonus)
	assert.Len(t, triggered, 3)

	d, err = NewInteractionDetector([]config.InteractionRuleConfig{
		{Name: "a", Bonus: 8, MinSectionScores: map[string]float64{"skills": 50}},
		{Name: "b", Bonus: 8, MinSectionScores: map[string]float64{"skills": 50}},
	}, 10)
	require.NoError(t, err)
	bonus, _ = d.Detect(in, sectionScores(map[types.Section]float64{types.SectionSkills: 60}))
	assert.Equal(t, 10.0, bonus)
}

func TestNewInteractionDetector_UnknownSection(t *testing.T) {
	_, err := NewInteractionDetector([]config.InteractionRuleConfig{
		{Name: "odd", Bonus: 1, MinSectionScores: map[string]float64{"hobbies": 50}},
	}, 10)

	var ce *config.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Error(), `unknown section "hobbies"`)
}
