package engine

import (
	"errors"
	"math"
	"time"

	"nidhi/internal/core"
)

// ErrNoHistory is returned when a fund has no NAV history at all.
var ErrNoHistory = errors.New("no nav history")

// FundStats holds a fund's derived returns at an instant. Nil fields mean
// the history is too short for that horizon — unavailable, never zero.
// Short horizons are raw period returns; 3y/5y are annualized as CAGR so
// multi-year figures stay comparable.
type FundStats struct {
	LatestNAV  float64
	LatestDate core.Date

	DailyChangePct   *float64
	MonthlyChangePct *float64
	YearlyChangePct  *float64
	CAGR3YPct        *float64
	CAGR5YPct        *float64
}

// ComputeFundStats derives returns from a time-descending NAV history
// (most recent entry first). The history is assumed sorted; it is a caller
// pre-condition and is not re-sorted here. Lookbacks resolve to the entry
// with the greatest date at or before the target, never interpolating
// across gaps.
func ComputeFundStats(history []core.NAVPoint, now time.Time) (FundStats, error) {
	if len(history) == 0 {
		return FundStats{}, ErrNoHistory
	}

	latest := history[0]
	stats := FundStats{
		LatestNAV:  latest.NAV,
		LatestDate: latest.Date,
	}

	if len(history) > 1 {
		stats.DailyChangePct = simpleChangePct(latest.NAV, history[1].NAV)
	}

	if p := navAtOrBefore(history, now.AddDate(0, -1, 0)); p != nil {
		stats.MonthlyChangePct = simpleChangePct(latest.NAV, p.NAV)
	}
	if p := navAtOrBefore(history, now.AddDate(-1, 0, 0)); p != nil {
		stats.YearlyChangePct = simpleChangePct(latest.NAV, p.NAV)
	}
	if p := navAtOrBefore(history, now.AddDate(-3, 0, 0)); p != nil {
		stats.CAGR3YPct = cagrPct(latest.NAV, p.NAV, 3)
	}
	if p := navAtOrBefore(history, now.AddDate(-5, 0, 0)); p != nil {
		stats.CAGR5YPct = cagrPct(latest.NAV, p.NAV, 5)
	}

	return stats, nil
}

// navAtOrBefore walks the descending history for the most recent entry dated
// at or before the target. Nil when the history does not reach back that far.
func navAtOrBefore(history []core.NAVPoint, target time.Time) *core.NAVPoint {
	for i := range history {
		if !history[i].Date.After(target) {
			return &history[i]
		}
	}
	return nil
}

func simpleChangePct(current, previous float64) *float64 {
	if previous <= 0 {
		return nil
	}
	pct := (current - previous) / previous * 100
	return &pct
}

func cagrPct(current, previous float64, years float64) *float64 {
	if previous <= 0 || current <= 0 {
		return nil
	}
	pct := (math.Pow(current/previous, 1/years) - 1) * 100
	return &pct
}
