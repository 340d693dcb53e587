package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"nidhi/internal/core"
)

func prorated(amount int64, date core.Date, months int) core.Transaction {
	return core.Transaction{
		ID:            "tx",
		Amount:        decimal.NewFromInt(amount),
		Date:          date,
		Kind:          core.Expense,
		ProrateMonths: months,
	}
}

func TestMonthlyAmount(t *testing.T) {
	tests := []struct {
		name string
		tx   core.Transaction
		want decimal.Decimal
	}{
		{
			name: "not prorated passes through",
			tx:   prorated(6000, core.NewDate(2025, 1, 15), 0),
			want: decimal.NewFromInt(6000),
		},
		{
			name: "six month spread",
			tx:   prorated(6000, core.NewDate(2025, 1, 15), 6),
			want: decimal.NewFromInt(1000),
		},
		{
			name: "twelve month spread",
			tx:   prorated(1200, core.NewDate(2025, 1, 15), 12),
			want: decimal.NewFromInt(100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthlyAmount(tt.tx); !got.Equal(tt.want) {
				t.Errorf("MonthlyAmount() = %s, want %s", got, tt.want)
			}
		})
	}
}

// Proration conservation: summing the monthly amount over all covered months
// recovers the original amount exactly for decimals.
func TestMonthlyAmount_Conservation(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		months int
	}{
		{"evenly divisible", 6000, 6},
		{"not evenly divisible", 100, 3},
		{"prime split", 997, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := prorated(tt.amount, core.NewDate(2025, 1, 15), tt.months)
			sum := decimal.Zero
			for i := 0; i < tt.months; i++ {
				month := time.Date(2025, time.Month(1+i), 1, 0, 0, 0, 0, time.UTC)
				if !ActiveInMonth(tx, month) {
					t.Fatalf("transaction inactive in covered month %v", month)
				}
				sum = sum.Add(MonthlyAmount(tx))
			}
			diff := sum.Sub(decimal.NewFromInt(tt.amount)).Abs()
			if diff.GreaterThan(decimal.NewFromFloat(1e-12)) {
				t.Errorf("sum over %d months = %s, want %d (diff %s)", tt.months, sum, tt.amount, diff)
			}
		})
	}
}

func TestActiveInMonth_Prorated(t *testing.T) {
	// 6000 dated 2025-01-15 over 6 months: active Jan through Jun 2025.
	tx := prorated(6000, core.NewDate(2025, 1, 15), 6)

	tests := []struct {
		name   string
		target time.Time
		want   bool
	}{
		{"month before origin", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), false},
		{"origin month", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"mid window", time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), true},
		{"last covered month", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"month after window", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActiveInMonth(tx, tt.target); got != tt.want {
				t.Errorf("ActiveInMonth(%v) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

// Non-prorated identity: activity reduces to a year/month equality check.
func TestActiveInMonth_NotProrated(t *testing.T) {
	tx := prorated(500, core.NewDate(2025, 4, 30), 0)

	tests := []struct {
		name   string
		target time.Time
		want   bool
	}{
		{"own month, different day", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), true},
		{"previous month", time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), false},
		{"next month", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"same month last year", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActiveInMonth(tx, tt.target); got != tt.want {
				t.Errorf("ActiveInMonth(%v) = %v, want %v", tt.target, got, tt.want)
			}
			sameMonth := tx.Date.Year() == tt.target.Year() && tx.Date.Month() == tt.target.Month()
			if got := ActiveInMonth(tx, tt.target); got != sameMonth {
				t.Errorf("non-prorated activity diverged from year/month equality")
			}
		})
	}
}

// Year boundaries are where elapsed-day arithmetic would go wrong.
func TestActiveInMonth_YearBoundary(t *testing.T) {
	tx := prorated(3000, core.NewDate(2024, 11, 20), 4) // Nov 2024 .. Feb 2025

	for _, tc := range []struct {
		target time.Time
		want   bool
	}{
		{time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), false},
	} {
		if got := ActiveInMonth(tx, tc.target); got != tc.want {
			t.Errorf("ActiveInMonth(%v) = %v, want %v", tc.target, got, tc.want)
		}
	}
}
