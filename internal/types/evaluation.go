// Package types provides type definitions for structured data used throughout the candidate-evaluator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Section identifies one of the six scored parts of a candidate profile.
type Section string

// Scored sections
const (
	SectionPersonalDetails Section = "personal_details"
	SectionExperience      Section = "experience"
	SectionEducation       Section = "education"
	SectionSkills          Section = "skills"
	SectionSalary          Section = "salary"
	SectionCVQuality       Section = "cv_quality"
)

// Sections lists every section in evaluation order.
var Sections = []Section{
	SectionPersonalDetails,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionSalary,
	SectionCVQuality,
}

// ParseSection returns the section with the given name and whether it is known.
func ParseSection(name string) (Section, bool) {
	s := Section(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Sections {
		if s == known {
			return s, true
		}
	}
	return "", false
}

// Label returns a human-readable name, e.g. "CV quality".
func (s Section) Label() string {
	switch s {
	case SectionPersonalDetails:
		return "Personal details"
	case SectionCVQuality:
		return "CV quality"
	default:
		name := string(s)
		if name == "" {
			return name
		}
		return strings.ToUpper(name[:1]) + name[1:]
	}
}

// EducationLevel is an ordered academic level.
type EducationLevel string

// Education levels, lowest to highest
const (
	EducationNone       EducationLevel = "none"
	EducationHighSchool EducationLevel = "high_school"
	EducationDiploma    EducationLevel = "diploma"
	EducationAssociate  EducationLevel = "associate"
	EducationBachelor   EducationLevel = "bachelor"
	EducationMaster     EducationLevel = "master"
	EducationPhD        EducationLevel = "phd"
)

var educationRank = map[EducationLevel]int{
	EducationNone:       0,
	EducationHighSchool: 1,
	EducationDiploma:    2,
	EducationAssociate:  3,
	EducationBachelor:   4,
	EducationMaster:     5,
	EducationPhD:        6,
}

// Rank returns the ordinal of the level, or -1 if unknown.
func (l EducationLevel) Rank() int {
	if r, ok := educationRank[EducationLevel(strings.ToLower(string(l)))]; ok {
		return r
	}
	return -1
}

// Valid reports whether the level is one of the known values.
func (l EducationLevel) Valid() bool {
	return l.Rank() >= 0
}

// Recommendation is the hiring verdict.
type Recommendation string

// Recommendations, strongest first
const (
	RecommendationStrongYes Recommendation = "STRONG_YES"
	RecommendationYes       Recommendation = "YES"
	RecommendationMaybe     Recommendation = "MAYBE"
	RecommendationNo        Recommendation = "NO"
	RecommendationStrongNo  Recommendation = "STRONG_NO"
)

var recommendationOrder = []Recommendation{
	RecommendationStrongYes,
	RecommendationYes,
	RecommendationMaybe,
	RecommendationNo,
	RecommendationStrongNo,
}

// Valid reports whether r is a known recommendation.
func (r Recommendation) Valid() bool {
	for _, known := range recommendationOrder {
		if r == known {
			return true
		}
	}
	return false
}

// Positive reports whether r is a YES-type verdict.
func (r Recommendation) Positive() bool {
	return r == RecommendationStrongYes || r == RecommendationYes
}

// Downgrade returns the next weaker recommendation. STRONG_NO stays STRONG_NO.
func (r Recommendation) Downgrade() Recommendation {
	for i, known := range recommendationOrder {
		if r == known && i+1 < len(recommendationOrder) {
			return recommendationOrder[i+1]
		}
	}
	return r
}

// MatchLevel is the coarse band of the overall score.
type MatchLevel string

// Match levels, best first
const (
	MatchExcellent MatchLevel = "EXCELLENT"
	MatchGood      MatchLevel = "GOOD"
	MatchFair      MatchLevel = "FAIR"
	MatchPoor      MatchLevel = "POOR"
	MatchVeryPoor  MatchLevel = "VERY_POOR"
)

// MatchLevels lists every level, best first.
var MatchLevels = []MatchLevel{MatchExcellent, MatchGood, MatchFair, MatchPoor, MatchVeryPoor}

// Valid reports whether m is a known match level.
func (m MatchLevel) Valid() bool {
	for _, known := range MatchLevels {
		if m == known {
			return true
		}
	}
	return false
}

// SectionAssessment is the scored result for one section.
type SectionAssessment struct {
	Section     Section  `json:"section"`
	Score       float64  `json:"score"`      // 0-100
	Confidence  float64  `json:"confidence"` // 0-1
	Rationale   []string `json:"rationale"`  // first fragment is the dominant factor
	MissingData bool     `json:"missing_data,omitempty"`
	Degraded    bool     `json:"degraded,omitempty"`
}

// Clone returns a deep copy so adjustments never alias the original.
func (a SectionAssessment) Clone() SectionAssessment {
	out := a
	out.Rationale = append([]string(nil), a.Rationale...)
	return out
}

// AppliedAdjustment records one contextual adjustment applied to a section.
type AppliedAdjustment struct {
	Industry  string  `json:"industry"`
	Section   Section `json:"section"`
	Operation string  `json:"operation"`
	Magnitude float64 `json:"magnitude"`
	Before    float64 `json:"before"`
	After     float64 `json:"after"`
}

// RuleOutcome is the result of one hard-rejection rule, triggered or not.
type RuleOutcome struct {
	Rule      string `json:"rule"`
	Kind      string `json:"kind"`
	Triggered bool   `json:"triggered"`
	NearMiss  bool   `json:"near_miss"`
	Detail    string `json:"detail"`
}

// EvaluationResult is the full outcome of evaluating one candidate against one job.
type EvaluationResult struct {
	CandidateID      string                        `json:"candidate_id"`
	JobID            string                        `json:"job_id"`
	OverallScore     float64                       `json:"overall_score"`
	BaseScore        float64                       `json:"base_score"`
	InteractionBonus float64                       `json:"interaction_bonus"`
	Confidence       float64                       `json:"confidence"`
	Recommendation   Recommendation                `json:"recommendation"`
	MatchLevel       MatchLevel                    `json:"match_level"`
	Sections         map[Section]SectionAssessment `json:"sections"`
	Strengths        []string                      `json:"strengths"`
	Concerns         []string                      `json:"concerns"`
	NextSteps        []string                      `json:"next_steps"`
	HardRejections   []string                      `json:"hard_rejections"`
	NearMisses       []string                      `json:"near_misses,omitempty"`
	RuleTrace        []RuleOutcome                 `json:"rule_trace"` // every configured rule, in order
	Adjustments      []AppliedAdjustment           `json:"adjustments,omitempty"`
	Interactions     []string                      `json:"interactions,omitempty"`
	Explanation      map[Section]string            `json:"explanation"`
	Degraded         bool                          `json:"degraded,omitempty"`
}

// Rejected reports whether any hard rejection rule fired.
func (r *EvaluationResult) Rejected() bool {
	return len(r.HardRejections) > 0
}
