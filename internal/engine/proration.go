package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"nidhi/internal/core"
)

// MonthlyAmount returns the transaction's contribution to any single covered
// month: the raw amount when not prorated, else amount / prorateMonths.
func MonthlyAmount(tx core.Transaction) decimal.Decimal {
	if !tx.Prorated() {
		return tx.Amount
	}
	return tx.Amount.Div(decimal.NewFromInt(int64(tx.ProrateMonths)))
}

// ActiveInMonth reports whether the transaction contributes to the calendar
// month containing target. A non-prorated transaction is active only in its
// own (year, month); a prorated one is active in the inclusive window of
// prorateMonths consecutive months anchored at its own month.
//
// Comparison is by calendar month identity, never elapsed days: a bill dated
// Jan 31 prorated over two months is active through the whole of February
// even though fewer than 31 days may have elapsed.
func ActiveInMonth(tx core.Transaction, target time.Time) bool {
	targetIdx := core.DateOf(target).MonthIndex()
	startIdx := tx.Date.MonthIndex()
	if !tx.Prorated() {
		return targetIdx == startIdx
	}
	return targetIdx >= startIdx && targetIdx <= startIdx+tx.ProrateMonths-1
}
