package engine

import (
	"testing"
	"time"

	"nidhi/internal/core"
)

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "wednesday resolves to monday",
			now:  time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC),
			want: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "monday is its own week start",
			now:  time.Date(2025, 6, 9, 0, 0, 1, 0, time.UTC),
			want: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday belongs to the previous monday",
			now:  time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "week start crosses month boundary",
			now:  time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartOfWeek(tt.now); !got.Equal(tt.want) {
				t.Errorf("StartOfWeek(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestStartOfDayAndMonth(t *testing.T) {
	now := time.Date(2025, 2, 17, 19, 45, 12, 999, time.UTC)

	if got := StartOfDay(now); !got.Equal(time.Date(2025, 2, 17, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay() = %v", got)
	}
	if got := StartOfMonth(now); !got.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfMonth() = %v", got)
	}
	if got := LastDayOfMonth(now); got != 28 {
		t.Errorf("LastDayOfMonth(feb 2025) = %d, want 28", got)
	}
	if got := LastDayOfMonth(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)); got != 29 {
		t.Errorf("LastDayOfMonth(feb 2024) = %d, want 29", got)
	}
}

func TestNewRange_Inclusive(t *testing.T) {
	r := NewRange(core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 10))

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"first instant of from day", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"last instant of to day", time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC), true},
		{"midnight of to day", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{"day before", time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC), false},
		{"day after", time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}
