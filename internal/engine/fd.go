package engine

import (
	"math"
	"time"

	"nidhi/internal/core"
)

// daysPerYear converts day differences to year fractions. The Julian-year
// approximation carries a small systematic bias that is accepted here.
const daysPerYear = 365.25

// FDInput describes a fixed deposit.
type FDInput struct {
	Principal        float64
	AnnualRate       float64 // e.g. 0.0725 for 7.25% p.a.
	CompoundsPerYear int     // 4 for quarterly
	StartDate        core.Date
	TenureYears      float64
}

// FDCalculation is the derived, never-persisted value of a fixed deposit at
// an instant. Always recomputed from the principal and current date.
type FDCalculation struct {
	CurrentValue   float64
	MaturityValue  float64
	InterestEarned float64
	ElapsedYears   float64
}

// CalculateFD values a fixed deposit at "now" using periodic compounding:
// P * (1 + r/k)^(k*t), with t capped at the tenure. Maturity uses the full
// tenure regardless of elapsed time.
func CalculateFD(in FDInput, now time.Time) FDCalculation {
	elapsed := now.Sub(in.StartDate.Time).Hours() / 24 / daysPerYear
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > in.TenureYears {
		elapsed = in.TenureYears
	}

	current := compound(in.Principal, in.AnnualRate, in.CompoundsPerYear, elapsed)
	return FDCalculation{
		CurrentValue:   current,
		MaturityValue:  compound(in.Principal, in.AnnualRate, in.CompoundsPerYear, in.TenureYears),
		InterestEarned: current - in.Principal,
		ElapsedYears:   elapsed,
	}
}

func compound(principal, annualRate float64, compoundsPerYear int, years float64) float64 {
	if compoundsPerYear <= 0 || years <= 0 {
		return principal
	}
	k := float64(compoundsPerYear)
	return principal * math.Pow(1+annualRate/k, k*years)
}
