// Package memory is an in-process SummaryWriter for tests and for running
// the sync worker without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"nidhi/internal/sheets"
)

type Store struct {
	mu      sync.Mutex
	byMonth map[string]sheets.MonthlySummary
}

func New() *Store {
	return &Store{byMonth: make(map[string]sheets.MonthlySummary)}
}

// WriteMonthlySummary replaces whatever was previously written for the month.
func (s *Store) WriteMonthlySummary(_ context.Context, summary sheets.MonthlySummary) error {
	if summary.Month < 1 || summary.Month > 12 {
		return fmt.Errorf("invalid month: %d", summary.Month)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byMonth[monthKey(summary.Year, summary.Month)] = summary
	return nil
}

// Get returns the last summary written for a month.
func (s *Store) Get(year, month int) (sheets.MonthlySummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, ok := s.byMonth[monthKey(year, month)]
	return summary, ok
}

// Len returns how many distinct months have been written.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byMonth)
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
