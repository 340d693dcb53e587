// Package sheets defines the outbound port for exporting monthly summaries.
package sheets

import (
	"context"

	"github.com/shopspring/decimal"
)

type (
	// MonthlySummary is one month's spending rolled up by category, the unit
	// of export the sync worker produces.
	MonthlySummary struct {
		Year  int
		Month int
		Rows  []CategoryRow
		Total decimal.Decimal
	}

	CategoryRow struct {
		Category string
		Total    decimal.Decimal
		Count    int
	}

	// SummaryWriter is the outbound port. Writing the same month twice
	// replaces the previous rows.
	SummaryWriter interface {
		WriteMonthlySummary(ctx context.Context, s MonthlySummary) error
	}
)
