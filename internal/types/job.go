// Package types provides type definitions for structured data used throughout the candidate-evaluator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Importance levels for job skills
const (
	ImportanceRequired   = "required"
	ImportancePreferred  = "preferred"
	ImportanceNiceToHave = "nice_to_have"
)

// Job is the structured description of an open position.
type Job struct {
	ID                      string                `json:"id" validate:"required"`
	Title                   string                `json:"title" validate:"required"`
	Industry                string                `json:"industry,omitempty"`
	DomainTags              []string              `json:"domain_tags,omitempty"`
	Keywords                []string              `json:"keywords,omitempty"`
	Skills                  []JobSkill            `json:"skills,omitempty" validate:"dive"`
	RequiredExperienceYears float64               `json:"required_experience_years" validate:"gte=0"`
	Education               *EducationRequirement `json:"education,omitempty"`
	Salary                  *SalaryRange          `json:"salary,omitempty"`
	Location                Location              `json:"location"`
	Remote                  bool                  `json:"remote,omitempty"`
	EligibleCitizenships    []string              `json:"eligible_citizenships,omitempty"`
	StartDate               string                `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MandatoryCertifications []string              `json:"mandatory_certifications,omitempty"`
}

// JobSkill is a skill the job asks for, tagged with how much it matters.
type JobSkill struct {
	Name       string `json:"name" validate:"required"`
	Importance string `json:"importance" validate:"required,oneof=required preferred nice_to_have"`
}

// EducationRequirement is the minimum level and preferred field of study.
type EducationRequirement struct {
	Level EducationLevel `json:"level,omitempty" validate:"omitempty,education_level"`
	Field string         `json:"field,omitempty"`
}

// SalaryRange is the budgeted band. A zero Max means no upper bound was given.
type SalaryRange struct {
	Min      float64 `json:"min" validate:"gte=0"`
	Max      float64 `json:"max" validate:"omitempty,gtefield=Min"`
	Currency string  `json:"currency,omitempty"`
}

// RequiredExperienceMonths converts the required years to months.
func (j *Job) RequiredExperienceMonths() float64 {
	return j.RequiredExperienceYears * 12
}
