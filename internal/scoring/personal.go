package scoring

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/candidate-evaluator/internal/config"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

const dateLayout = "2006-01-02"

// check is one graded personal-details comparison.
type check struct {
	weight  float64
	credit  float64
	known   bool
	message string
}

// ScorePersonalDetails grades location, citizenship and availability against the job.
// Facts the candidate did not provide earn the neutral credit and lower the confidence.
func ScorePersonalDetails(in *Input) (types.SectionAssessment, error) {
	if err := checkInput(in); err != nil {
		return types.SectionAssessment{}, err
	}
	cfg := in.Config.PersonalDetails

	checks := []check{
		locationCheck(cfg, in.Candidate, in.Job),
		citizenshipCheck(cfg, in.Candidate, in.Job),
		availabilityCheck(cfg, in.Candidate, in.Job),
	}

	var total, earned, knownWeight float64
	for _, c := range checks {
		total += c.weight
		earned += c.weight * c.credit
		if c.known {
			knownWeight += c.weight
		}
	}

	score := 100.0
	if total > 0 {
		score = earned / total * 100
	}

	// Largest weighted shortfall first so the dominant factor leads
	sort.SliceStable(checks, func(i, j int) bool {
		return checks[i].weight*(1-checks[i].credit) > checks[j].weight*(1-checks[j].credit)
	})
	rationale := make([]string, 0, len(checks))
	for _, c := range checks {
		rationale = append(rationale, c.message)
	}

	if knownWeight == 0 && total > 0 {
		return missing(in, types.SectionPersonalDetails, score, rationale...), nil
	}

	confidence := cfg.Confidence
	if total > 0 {
		confidence *= (knownWeight + cfg.UnknownConfidenceFactor*(total-knownWeight)) / total
	}

	return types.SectionAssessment{
		Section:    types.SectionPersonalDetails,
		Score:      clampScore(score),
		Confidence: clampConfidence(confidence),
		Rationale:  rationale,
	}, nil
}

func locationCheck(cfg config.PersonalDetailsConfig, c *types.Candidate, j *types.Job) check {
	out := check{weight: cfg.Weights.Location, known: true}
	cand, job := c.Personal.Location, j.Location

	switch {
	case j.Remote:
		out.credit, out.message = cfg.Grades.Full, "remote role, location not restricted"
	case job.IsZero():
		out.credit, out.message = cfg.Grades.Full, "no location requirement"
	case cand.IsZero():
		out.credit, out.known, out.message = cfg.NeutralCredit, false, "candidate location unknown"
	case job.City != "" && sameText(cand.City, job.City) && (job.Country == "" || cand.Country == "" || sameText(cand.Country, job.Country)):
		out.credit, out.message = cfg.Grades.Full, fmt.Sprintf("based in %s", job.City)
	case (job.Region != "" && sameText(cand.Region, job.Region)) || (job.Country != "" && sameText(cand.Country, job.Country)):
		if job.City == "" {
			out.credit, out.message = cfg.Grades.Full, fmt.Sprintf("based in %s", placeName(job))
		} else {
			out.credit, out.message = cfg.Grades.Partial, fmt.Sprintf("same region or country as %s, relocation within the country", placeName(job))
		}
	default:
		out.credit, out.message = cfg.Grades.None, fmt.Sprintf("based outside %s", placeName(job))
	}
	return out
}

func citizenshipCheck(cfg config.PersonalDetailsConfig, c *types.Candidate, j *types.Job) check {
	out := check{weight: cfg.Weights.Citizenship, known: true}

	if len(j.EligibleCitizenships) == 0 {
		out.credit, out.message = cfg.Grades.Full, "no citizenship restriction"
		return out
	}
	if len(c.Personal.Citizenships) == 0 && len(c.Personal.WorkAuthorizations) == 0 {
		out.credit, out.known, out.message = cfg.NeutralCredit, false, "citizenship unknown"
		return out
	}
	if containsFold(j.EligibleCitizenships, c.Personal.Citizenships...) {
		out.credit, out.message = cfg.Grades.Full, "eligible citizenship"
		return out
	}
	if containsFold(c.Personal.WorkAuthorizations, j.Location.Country) || containsFold(j.EligibleCitizenships, c.Personal.WorkAuthorizations...) {
		out.credit, out.message = cfg.Grades.Partial, "not an eligible citizen but authorized to work"
		return out
	}
	out.credit, out.message = cfg.Grades.None, "citizenship not in the eligible list"
	return out
}

func availabilityCheck(cfg config.PersonalDetailsConfig, c *types.Candidate, j *types.Job) check {
	out := check{weight: cfg.Weights.Availability, known: true}

	if j.StartDate == "" {
		out.credit, out.message = cfg.Grades.Full, "no fixed start date"
		return out
	}
	if c.Personal.AvailableFrom == "" {
		out.credit, out.known, out.message = cfg.NeutralCredit, false, "availability unknown"
		return out
	}

	start, errStart := time.Parse(dateLayout, j.StartDate)
	avail, errAvail := time.Parse(dateLayout, c.Personal.AvailableFrom)
	if errStart != nil || errAvail != nil {
		out.credit, out.known, out.message = cfg.NeutralCredit, false, "availability could not be compared"
		return out
	}

	lateDays := int(avail.Sub(start).Hours() / 24)
	switch {
	case lateDays <= 0:
		out.credit, out.message = cfg.Grades.Full, "available by the start date"
	case lateDays <= cfg.AvailabilityGraceDays:
		out.credit, out.message = cfg.Grades.Partial, fmt.Sprintf("available %d days after the start date", lateDays)
	default:
		out.credit, out.message = cfg.Grades.None, fmt.Sprintf("available %d days after the start date", lateDays)
	}
	return out
}

func sameText(a, b string) bool {
	return a != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// containsFold reports whether any of values appears in list, ignoring case.
func containsFold(list []string, values ...string) bool {
	for _, v := range values {
		for _, item := range list {
			if sameText(item, v) {
				return true
			}
		}
	}
	return false
}

func placeName(l types.Location) string {
	for _, part := range []string{l.City, l.Region, l.Country} {
		if part != "" {
			return part
		}
	}
	return "the job location"
}
