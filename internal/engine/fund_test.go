package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"nidhi/internal/core"
)

func nav(date core.Date, value float64) core.NAVPoint {
	return core.NAVPoint{Date: date, NAV: value}
}

func TestComputeFundStats_Empty(t *testing.T) {
	if _, err := ComputeFundStats(nil, time.Now()); !errors.Is(err, ErrNoHistory) {
		t.Errorf("ComputeFundStats(nil) error = %v, want ErrNoHistory", err)
	}
}

func TestComputeFundStats_DailyChange(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	history := []core.NAVPoint{
		nav(core.NewDate(2025, 6, 10), 102),
		nav(core.NewDate(2025, 6, 9), 100),
	}

	stats, err := ComputeFundStats(history, now)
	if err != nil {
		t.Fatalf("ComputeFundStats() error = %v", err)
	}
	if stats.LatestNAV != 102 {
		t.Errorf("LatestNAV = %v, want 102", stats.LatestNAV)
	}
	if stats.DailyChangePct == nil || math.Abs(*stats.DailyChangePct-2) > 1e-9 {
		t.Errorf("DailyChangePct = %v, want 2", stats.DailyChangePct)
	}
	// One week of history cannot produce monthly or yearly returns.
	if stats.MonthlyChangePct != nil || stats.YearlyChangePct != nil {
		t.Error("short history should report month/year returns as unavailable")
	}
	if stats.CAGR3YPct != nil || stats.CAGR5YPct != nil {
		t.Error("short history should report CAGR as unavailable")
	}
}

func TestComputeFundStats_LookbackSkipsGaps(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	// Target 2025-05-10 falls in a gap; the greatest date at or before it
	// is 2025-05-07, never an interpolation.
	history := []core.NAVPoint{
		nav(core.NewDate(2025, 6, 10), 110),
		nav(core.NewDate(2025, 5, 14), 108),
		nav(core.NewDate(2025, 5, 7), 100),
		nav(core.NewDate(2025, 4, 30), 97),
	}

	stats, err := ComputeFundStats(history, now)
	if err != nil {
		t.Fatalf("ComputeFundStats() error = %v", err)
	}
	if stats.MonthlyChangePct == nil || math.Abs(*stats.MonthlyChangePct-10) > 1e-9 {
		t.Errorf("MonthlyChangePct = %v, want 10 (vs 2025-05-07 entry)", stats.MonthlyChangePct)
	}
}

func TestComputeFundStats_CAGR(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	history := []core.NAVPoint{
		nav(core.NewDate(2025, 6, 10), 28.49),
		nav(core.NewDate(2024, 6, 10), 25.0),
		nav(core.NewDate(2022, 6, 10), 20.0),
	}

	stats, err := ComputeFundStats(history, now)
	if err != nil {
		t.Fatalf("ComputeFundStats() error = %v", err)
	}

	// (28.49/20)^(1/3) - 1 = 12.5% a year, within rounding.
	if stats.CAGR3YPct == nil {
		t.Fatal("CAGR3YPct unavailable")
	}
	want := (math.Pow(28.49/20.0, 1.0/3) - 1) * 100
	if math.Abs(*stats.CAGR3YPct-want) > 1e-9 {
		t.Errorf("CAGR3YPct = %v, want %v", *stats.CAGR3YPct, want)
	}
	if *stats.CAGR3YPct < 12.4 || *stats.CAGR3YPct > 12.6 {
		t.Errorf("CAGR3YPct = %v, want about 12.5", *stats.CAGR3YPct)
	}

	// The 1-year figure is a raw period return, not annualized.
	if stats.YearlyChangePct == nil || math.Abs(*stats.YearlyChangePct-13.96) > 0.01 {
		t.Errorf("YearlyChangePct = %v, want about 13.96", stats.YearlyChangePct)
	}

	// No entry 5 years back.
	if stats.CAGR5YPct != nil {
		t.Errorf("CAGR5YPct = %v, want unavailable", *stats.CAGR5YPct)
	}
}

func TestNavAtOrBefore(t *testing.T) {
	history := []core.NAVPoint{
		nav(core.NewDate(2025, 6, 10), 110),
		nav(core.NewDate(2025, 6, 5), 105),
		nav(core.NewDate(2025, 6, 1), 100),
	}

	tests := []struct {
		name   string
		target time.Time
		want   float64
		none   bool
	}{
		{"exact match", time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), 105, false},
		{"between entries", time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), 105, false},
		{"after newest", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 110, false},
		{"before oldest", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := navAtOrBefore(history, tt.target)
			if tt.none {
				if got != nil {
					t.Errorf("navAtOrBefore() = %v, want nil", got)
				}
				return
			}
			if got == nil || got.NAV != tt.want {
				t.Errorf("navAtOrBefore() = %v, want NAV %v", got, tt.want)
			}
		})
	}
}
