package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetInfo is the derived state of the monthly budget at an instant.
type BudgetInfo struct {
	// DailyAllowance is the remaining budget spread over the days left in
	// the month, zero when nothing remains.
	DailyAllowance decimal.Decimal

	// Remaining is ceiling minus the period total, floored at zero.
	Remaining decimal.Decimal

	// PercentUsed is periodTotal / ceiling * 100, deliberately unclamped so
	// overspend reads as > 100. Callers clamp for display only.
	PercentUsed float64

	// DaysRemaining counts today through the last day of the month,
	// inclusive.
	DaysRemaining int
}

// ComputeBudget derives allowance, remaining budget, and consumption from the
// month's spend so far and the configured ceiling.
func ComputeBudget(periodTotal, ceiling decimal.Decimal, now time.Time) BudgetInfo {
	info := BudgetInfo{
		Remaining:     ceiling.Sub(periodTotal),
		DaysRemaining: LastDayOfMonth(now) - now.Day() + 1,
	}
	if info.Remaining.IsNegative() {
		info.Remaining = decimal.Zero
	}
	if info.DaysRemaining > 0 {
		info.DailyAllowance = info.Remaining.Div(decimal.NewFromInt(int64(info.DaysRemaining)))
	} else {
		info.DailyAllowance = decimal.Zero
	}
	if ceiling.IsPositive() {
		pct, _ := periodTotal.Div(ceiling).Mul(decimal.NewFromInt(100)).Float64()
		info.PercentUsed = pct
	}
	return info
}
