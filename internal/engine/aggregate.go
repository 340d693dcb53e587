package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"nidhi/internal/core"
)

// Classifier resolves a transaction's needs/wants budget type.
type Classifier interface {
	Classify(core.Transaction) core.BudgetType
}

// AggregateOptions controls window selection and filtering for aggregation.
type AggregateOptions struct {
	Window Window
	Custom Range

	// Kind narrows aggregation to one transaction kind; empty keeps all.
	Kind core.TxKind

	// ExcludeBudgetExcluded removes transactions flagged excludedFromBudget
	// entirely. They are skipped, not zeroed.
	ExcludeBudgetExcluded bool
}

// BudgetSplit holds the needs/wants variant of the aggregation: the same
// filtered set bucketed into two parallel category maps.
type BudgetSplit struct {
	Needs map[string]core.CategoryTotal
	Wants map[string]core.CategoryTotal
}

// Aggregate groups the transactions visible in the window by category.
// Each transaction contributes its monthly-equivalent amount, so a 1200
// bill prorated over 12 months adds 100 to each covered month's bucket.
func Aggregate(txs []core.Transaction, opts AggregateOptions, now time.Time) map[string]core.CategoryTotal {
	out := make(map[string]core.CategoryTotal)
	for _, tx := range selectForAggregation(txs, opts, now) {
		addToBucket(out, tx.CategoryOrDefault(), tx)
	}
	return out
}

// AggregateByBudgetType buckets the same filtered set into needs and wants
// using the classifier's override-else-table-else-want precedence.
func AggregateByBudgetType(txs []core.Transaction, opts AggregateOptions, c Classifier, now time.Time) BudgetSplit {
	split := BudgetSplit{
		Needs: make(map[string]core.CategoryTotal),
		Wants: make(map[string]core.CategoryTotal),
	}
	for _, tx := range selectForAggregation(txs, opts, now) {
		buckets := split.Wants
		if c.Classify(tx) == core.Need {
			buckets = split.Needs
		}
		addToBucket(buckets, tx.CategoryOrDefault(), tx)
	}
	return split
}

// SumTotals adds up every bucket's total. By construction it equals the sum
// of monthly-equivalent amounts over the filtered set.
func SumTotals(buckets map[string]core.CategoryTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, ct := range buckets {
		sum = sum.Add(ct.Total)
	}
	return sum
}

func selectForAggregation(txs []core.Transaction, opts AggregateOptions, now time.Time) []core.Transaction {
	filtered := Filter(txs, opts.Window, opts.Custom, now)
	var out []core.Transaction
	for _, tx := range filtered {
		if opts.Kind != "" && tx.Kind != opts.Kind {
			continue
		}
		if opts.ExcludeBudgetExcluded && tx.ExcludedFromBudget {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func addToBucket(buckets map[string]core.CategoryTotal, category string, tx core.Transaction) {
	ct := buckets[category]
	ct.Total = ct.Total.Add(MonthlyAmount(tx))
	ct.Count++
	ct.Transactions = append(ct.Transactions, tx)
	buckets[category] = ct
}
