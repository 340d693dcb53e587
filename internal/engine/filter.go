package engine

import (
	"time"

	"nidhi/internal/core"
)

// Filter selects the transactions visible in the given window, preserving
// input order. Proration is evaluated only at month granularity: for the
// month window a prorated transaction is included whenever its amortization
// span overlaps the current month, even when its origin date lies in an
// earlier month. Today, week, and custom windows test the origin date alone —
// a prorated bill is conceptually a monthly charge, not one apportioned to
// particular days.
func Filter(txs []core.Transaction, w Window, custom Range, now time.Time) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		if inWindow(tx, w, custom, now) {
			out = append(out, tx)
		}
	}
	return out
}

func inWindow(tx core.Transaction, w Window, custom Range, now time.Time) bool {
	switch w {
	case WindowToday:
		return Range{From: StartOfDay(now), To: EndOfDay(now)}.Contains(tx.Date.Time)
	case WindowWeek:
		return Range{From: StartOfWeek(now), To: EndOfDay(now)}.Contains(tx.Date.Time)
	case WindowMonth:
		return ActiveInMonth(tx, StartOfMonth(now))
	case WindowCustom:
		return custom.Contains(tx.Date.Time)
	default:
		return false
	}
}

// ByKind narrows a transaction list to one kind, preserving order.
func ByKind(txs []core.Transaction, kind core.TxKind) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		if tx.Kind == kind {
			out = append(out, tx)
		}
	}
	return out
}
