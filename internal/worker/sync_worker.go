// Package worker recomputes monthly summaries and exports them to the
// configured sheet whenever a transaction changes.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"nidhi/internal/amqp"
	"nidhi/internal/core"
	"nidhi/internal/engine"
	"nidhi/internal/sheets"
)

// TransactionLister is the slice of storage the worker needs.
type TransactionLister interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}

// SyncWorker rebuilds one month's category summary from the database and
// pushes it through the SummaryWriter port.
type SyncWorker struct {
	storage TransactionLister
	writer  sheets.SummaryWriter
}

func NewSyncWorker(storage TransactionLister, writer sheets.SummaryWriter) *SyncWorker {
	return &SyncWorker{storage: storage, writer: writer}
}

// HandleSyncMessage processes a single summary sync message from AMQP.
// The message only names the stale month; the summary is recomputed from
// storage so out-of-order deliveries converge on the same result.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.SummarySyncMessage) error {
	slog.InfoContext(ctx, "Processing summary sync message",
		"transaction_id", msg.TransactionID,
		"action", msg.Action,
		"year", msg.Year,
		"month", msg.Month)

	if err := w.SyncMonth(ctx, msg.Year, msg.Month); err != nil {
		return fmt.Errorf("sync month %04d-%02d: %w", msg.Year, msg.Month, err)
	}
	return nil
}

// SyncMonth recomputes and exports the summary for one calendar month.
func (w *SyncWorker) SyncMonth(ctx context.Context, year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month: %d", month)
	}

	txs, err := w.storage.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	summary := BuildMonthlySummary(txs, year, month)
	if err := w.writer.WriteMonthlySummary(ctx, summary); err != nil {
		return fmt.Errorf("write monthly summary: %w", err)
	}

	slog.InfoContext(ctx, "Monthly summary synced",
		"year", year,
		"month", month,
		"categories", len(summary.Rows),
		"total", summary.Total.String())
	return nil
}

// SyncCurrentMonth is the periodic fallback for lost messages.
func (w *SyncWorker) SyncCurrentMonth(ctx context.Context) error {
	now := time.Now()
	return w.SyncMonth(ctx, now.Year(), int(now.Month()))
}

// BuildMonthlySummary aggregates one month of expenses into export rows.
// Prorated transactions contribute their monthly-equivalent slice, and rows
// come out in category order so repeated exports are stable.
func BuildMonthlySummary(txs []core.Transaction, year, month int) sheets.MonthlySummary {
	origin := core.NewDate(year, month, 1)
	buckets := engine.Aggregate(txs, engine.AggregateOptions{
		Window: engine.WindowMonth,
		Kind:   core.Expense,
	}, origin.Time)

	categories := make([]string, 0, len(buckets))
	for category := range buckets {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	summary := sheets.MonthlySummary{Year: year, Month: month}
	for _, category := range categories {
		ct := buckets[category]
		summary.Rows = append(summary.Rows, sheets.CategoryRow{
			Category: category,
			Total:    ct.Total,
			Count:    ct.Count,
		})
	}
	summary.Total = engine.SumTotals(buckets)
	return summary
}
