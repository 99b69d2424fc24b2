// Package types provides type definitions for structured data used throughout the candidate-evaluator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Candidate is the structured, already-parsed representation of an applicant.
// Raw CV text never reaches the engine; an upstream parser produces this shape.
type Candidate struct {
	ID                string             `json:"id" validate:"required"`
	Personal          PersonalDetails    `json:"personal"`
	Experience        []ExperienceEntry  `json:"experience,omitempty" validate:"dive"`
	Education         []EducationEntry   `json:"education,omitempty" validate:"dive"`
	Certifications    []string           `json:"certifications,omitempty"`
	Skills            []CandidateSkill   `json:"skills,omitempty" validate:"dive"`
	SalaryExpectation *SalaryExpectation `json:"salary_expectation,omitempty"`
	CVQuality         *CVQualitySignals  `json:"cv_quality,omitempty"`
}

// PersonalDetails holds location, citizenship and availability facts.
type PersonalDetails struct {
	Location           Location `json:"location"`
	Citizenships       []string `json:"citizenships,omitempty"`
	WorkAuthorizations []string `json:"work_authorizations,omitempty"`
	AvailableFrom      string   `json:"available_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Location is a coarse place description. Any field may be empty.
type Location struct {
	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

// IsZero reports whether no location component is set.
func (l Location) IsZero() bool {
	return l.City == "" && l.Region == "" && l.Country == ""
}

// ExperienceEntry is one role in the candidate's history, most recent first.
type ExperienceEntry struct {
	Title          string   `json:"title" validate:"required"`
	Employer       string   `json:"employer,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	DurationMonths int      `json:"duration_months" validate:"gte=0"`
	Tags           []string `json:"tags,omitempty"`
}

// EducationEntry is one completed (or in-progress) qualification.
type EducationEntry struct {
	Level       EducationLevel `json:"level" validate:"required,education_level"`
	Field       string         `json:"field,omitempty"`
	Institution string         `json:"institution,omitempty"`
	Year        int            `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
}

// CandidateSkill is a skill claimed by the candidate.
type CandidateSkill struct {
	Name        string   `json:"name" validate:"required"`
	Proficiency string   `json:"proficiency,omitempty" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	Domains     []string `json:"domains,omitempty"`
}

// SalaryExpectation is the candidate's requested compensation.
type SalaryExpectation struct {
	Amount   float64 `json:"amount" validate:"gte=0"`
	Currency string  `json:"currency,omitempty"`
}

// CVQualitySignals are structural facts about the CV document, computed upstream.
type CVQualitySignals struct {
	Completeness float64  `json:"completeness" validate:"gte=0,lte=1"`
	Sections     []string `json:"sections,omitempty"`
	WordCount    int      `json:"word_count" validate:"gte=0"`
	Keywords     []string `json:"keywords,omitempty"`
	Flags        []string `json:"flags,omitempty"`
}

// TotalExperienceMonths sums durations across all experience entries.
func (c *Candidate) TotalExperienceMonths() int {
	total := 0
	for _, e := range c.Experience {
		total += e.DurationMonths
	}
	return total
}
