package engine

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"nidhi/internal/core"
)

// maxGoalMonths bounds the goal search to 50 years. Anything further out is
// reported as unreachable rather than a fabricated finite answer.
const maxGoalMonths = 600

// savingsRateFloor is the declared heuristic used when there is no trailing
// expense history to measure: assume 30% of income is saved.
var savingsRateFloor = decimal.NewFromFloat(0.3)

// GoalProjection is the tagged result of the goal search. Months is only
// meaningful when Unreachable is false.
type GoalProjection struct {
	Months      int
	Unreachable bool
}

// NetWorth sums the snapshot's asset fields. When a live mutual-fund
// valuation is supplied it supersedes the stored static figure.
func NetWorth(s core.AssetSnapshot, liveMutualFunds *decimal.Decimal) decimal.Decimal {
	mutualFunds := s.MutualFunds
	if liveMutualFunds != nil {
		mutualFunds = *liveMutualFunds
	}
	return s.BankSavings.
		Add(s.FixedDeposits).
		Add(mutualFunds).
		Add(s.PPF).
		Add(s.EPF)
}

// LiveMutualFundValue prices the tracked contributions at their schemes'
// latest NAVs. Contributions whose scheme has no quote fall back to their
// invested amount so the valuation never silently shrinks the portfolio.
func LiveMutualFundValue(investments []core.Investment, latestNAV map[string]float64) decimal.Decimal {
	value := decimal.Zero
	for _, inv := range investments {
		nav, ok := latestNAV[inv.Scheme]
		if !ok || nav <= 0 {
			value = value.Add(inv.Amount)
			continue
		}
		value = value.Add(inv.Units().Mul(decimal.NewFromFloat(nav)))
	}
	return value
}

// MonthlySavingsEstimate estimates monthly savings as income minus the
// trailing average monthly expense. The trailing window is the three full
// calendar months before the current one; months without any expense data do
// not dilute the average. The Investments category is excluded because money
// moved into investments is savings, not consumption. With no usable history
// the estimate falls back to the 30% heuristic floor.
func MonthlySavingsEstimate(txs []core.Transaction, monthlyIncome decimal.Decimal, now time.Time) decimal.Decimal {
	if !monthlyIncome.IsPositive() {
		return decimal.Zero
	}

	monthStart := StartOfMonth(now)
	total := decimal.Zero
	monthsWithData := 0
	for i := 1; i <= 3; i++ {
		month := monthStart.AddDate(0, -i, 0)
		monthTotal := decimal.Zero
		seen := false
		for _, tx := range txs {
			if tx.Kind != core.Expense || tx.ExcludedFromBudget {
				continue
			}
			if tx.CategoryOrDefault() == core.CategoryInvestments {
				continue
			}
			if !ActiveInMonth(tx, month) {
				continue
			}
			monthTotal = monthTotal.Add(MonthlyAmount(tx))
			seen = true
		}
		if seen {
			total = total.Add(monthTotal)
			monthsWithData++
		}
	}

	if monthsWithData == 0 {
		return monthlyIncome.Mul(savingsRateFloor)
	}

	average := total.Div(decimal.NewFromInt(int64(monthsWithData)))
	savings := monthlyIncome.Sub(average)
	if savings.IsNegative() {
		return decimal.Zero
	}
	return savings
}

// TimeToGoal finds the smallest whole number of months for a monthly
// compounding plan to reach the target. FutureValue is non-decreasing in the
// month count for non-negative savings, so a binary search over [1, 600]
// is exact. Non-positive savings, or a target beyond the 600-month horizon,
// yield Unreachable.
func TimeToGoal(currentNetWorth, monthlySavings, target, annualReturnRate float64) GoalProjection {
	if currentNetWorth >= target {
		return GoalProjection{Months: 0}
	}
	if monthlySavings <= 0 {
		return GoalProjection{Unreachable: true}
	}
	if FutureValue(currentNetWorth, monthlySavings, annualReturnRate, maxGoalMonths) < target {
		return GoalProjection{Unreachable: true}
	}

	lo, hi := 1, maxGoalMonths
	for lo < hi {
		mid := (lo + hi) / 2
		if FutureValue(currentNetWorth, monthlySavings, annualReturnRate, mid) >= target {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return GoalProjection{Months: lo}
}

// FutureValue computes P*(1+r)^n + PMT*((1+r)^n - 1)/r with r the monthly
// rate, degenerating to simple accumulation when the rate is zero.
func FutureValue(principal, monthlyContribution, annualReturnRate float64, months int) float64 {
	r := annualReturnRate / 12
	if r == 0 {
		return principal + monthlyContribution*float64(months)
	}
	growth := math.Pow(1+r, float64(months))
	return principal*growth + monthlyContribution*(growth-1)/r
}
