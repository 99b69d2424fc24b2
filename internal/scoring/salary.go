package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

// ScoreSalary gives full credit inside the job's band and decreases linearly with
// the relative distance outside it, never below the configured floor.
func ScoreSalary(in *Input) (types.SectionAssessment, error) {
	if err := checkInput(in); err != nil {
		return types.SectionAssessment{}, err
	}
	cfg := in.Config.Salary
	band := in.Job.Salary

	if band == nil || (band.Min == 0 && band.Max == 0) {
		return types.SectionAssessment{
			Section:    types.SectionSalary,
			Score:      100,
			Confidence: cfg.Confidence,
			Rationale:  []string{"no salary band specified"},
		}, nil
	}

	exp := in.Candidate.SalaryExpectation
	if exp == nil || exp.Amount <= 0 {
		return missing(in, types.SectionSalary, cfg.MissingScore, "no salary expectation provided"), nil
	}

	amount, ok := convertCurrency(in, exp.Amount, exp.Currency, band.Currency)
	if !ok {
		return types.SectionAssessment{
			Section:    types.SectionSalary,
			Score:      clampScore(cfg.CurrencyMismatchScore),
			Confidence: cfg.CurrencyMismatchConfidence,
			Rationale:  []string{fmt.Sprintf("cannot compare %s expectation with %s band", exp.Currency, band.Currency)},
		}, nil
	}

	score := 100.0
	var rationale string
	switch {
	case band.Max > 0 && amount > band.Max:
		pct := (amount - band.Max) / band.Max * 100
		score = 100 - pct*cfg.AbovePenaltyPerPercent
		rationale = fmt.Sprintf("expectation %.0f is %.0f%% above the maximum %.0f", amount, pct, band.Max)
	case amount < band.Min:
		pct := (band.Min - amount) / band.Min * 100
		score = 100 - pct*cfg.BelowPenaltyPerPercent
		rationale = fmt.Sprintf("expectation %.0f is %.0f%% below the minimum %.0f", amount, pct, band.Min)
	default:
		rationale = fmt.Sprintf("expectation %.0f is within the %s", amount, bandText(band))
	}

	if score < cfg.Floor {
		score = cfg.Floor
	}

	return types.SectionAssessment{
		Section:    types.SectionSalary,
		Score:      clampScore(score),
		Confidence: cfg.Confidence,
		Rationale:  []string{rationale},
	}, nil
}

// ExpectationInJobCurrency converts the candidate's expectation into the job's currency.
// It reports false when there is no expectation or the currencies cannot be compared.
func ExpectationInJobCurrency(in *Input) (float64, bool) {
	exp, band := in.Candidate.SalaryExpectation, in.Job.Salary
	if exp == nil || band == nil || exp.Amount <= 0 {
		return 0, false
	}
	return convertCurrency(in, exp.Amount, exp.Currency, band.Currency)
}

// convertCurrency converts amount from one currency to another using the
// configured rates. Empty or equal currencies need no conversion.
func convertCurrency(in *Input, amount float64, from, to string) (float64, bool) {
	from, to = strings.ToLower(strings.TrimSpace(from)), strings.ToLower(strings.TrimSpace(to))
	if from == "" || to == "" || from == to {
		return amount, true
	}
	rateFrom, okFrom := in.Config.Salary.CurrencyRates[from]
	rateTo, okTo := in.Config.Salary.CurrencyRates[to]
	if !okFrom || !okTo || rateTo == 0 {
		return 0, false
	}
	return amount * rateFrom / rateTo, true
}

func bandText(band *types.SalaryRange) string {
	if band.Max == 0 {
		return fmt.Sprintf("band (%.0f and above)", band.Min)
	}
	return fmt.Sprintf("band %.0f-%.0f", band.Min, band.Max)
}
