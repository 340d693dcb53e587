// Package engine is the pure computation layer of the dashboard: window
// filtering, proration, category aggregation, budget math, and the net worth
// and instrument projections. Every function takes "now" explicitly and holds
// no state, so calls are deterministic and safe from any goroutine.
package engine

import (
	"time"

	"nidhi/internal/core"
)

const (
	WindowToday  Window = "today"
	WindowWeek   Window = "week"
	WindowMonth  Window = "month"
	WindowCustom Window = "custom"
)

type (
	// Window selects the calendar range transactions are tested against.
	Window string

	// Range is an inclusive custom window. To carries the last instant of
	// its day so a date-only upper bound still admits same-day entries.
	Range struct {
		From time.Time
		To   time.Time
	}
)

// StartOfDay returns midnight of the given instant's calendar day.
func StartOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// StartOfWeek returns midnight of the Monday of the current ISO week.
// Week start is Monday regardless of locale.
func StartOfWeek(now time.Time) time.Time {
	day := StartOfDay(now)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns midnight of day 1 of the current month.
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// EndOfDay returns the last instant of the given instant's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// LastDayOfMonth returns the number of days in the current month.
func LastDayOfMonth(now time.Time) int {
	return time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
}

// NewRange builds an inclusive custom range from two calendar dates.
func NewRange(from, to core.Date) Range {
	return Range{
		From: StartOfDay(from.Time),
		To:   EndOfDay(to.Time),
	}
}

// Contains reports whether the instant falls inside the range, both ends
// inclusive.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// IsZero reports whether the range was never set.
func (r Range) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}
