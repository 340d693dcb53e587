package http

import (
	"net/http"

	"nidhi/internal/core"
	"nidhi/internal/engine"
)

type (
	categorySummary struct {
		Total string `json:"total"`
		Count int    `json:"count"`
	}

	summaryResponse struct {
		Window     string                     `json:"window"`
		Total      string                     `json:"total"`
		Categories map[string]categorySummary `json:"categories"`
	}

	splitResponse struct {
		Window     string                     `json:"window"`
		NeedsTotal string                     `json:"needs_total"`
		WantsTotal string                     `json:"wants_total"`
		Needs      map[string]categorySummary `json:"needs"`
		Wants      map[string]categorySummary `json:"wants"`
	}

	budgetResponse struct {
		MonthlyBudget  string  `json:"monthly_budget"`
		Spent          string  `json:"spent"`
		Remaining      string  `json:"remaining"`
		DailyAllowance string  `json:"daily_allowance"`
		PercentUsed    float64 `json:"percent_used"`
		DaysRemaining  int     `json:"days_remaining"`
	}
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	opts, err := parseAggregateOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	key := aggregateCacheKey(opts)
	if cached, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		s.logger.Error("list transactions for summary", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	buckets := engine.Aggregate(txs, opts, s.now())
	resp := summaryResponse{
		Window:     string(opts.Window),
		Total:      engine.SumTotals(buckets).String(),
		Categories: toCategorySummaries(buckets),
	}
	s.summaryCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummarySplit(w http.ResponseWriter, r *http.Request) {
	opts, err := parseAggregateOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	key := aggregateCacheKey(opts)
	if cached, ok := s.splitCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		s.logger.Error("list transactions for split", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	split := engine.AggregateByBudgetType(txs, opts, s.classifier, s.now())
	resp := splitResponse{
		Window:     string(opts.Window),
		NeedsTotal: engine.SumTotals(split.Needs).String(),
		WantsTotal: engine.SumTotals(split.Wants).String(),
		Needs:      toCategorySummaries(split.Needs),
		Wants:      toCategorySummaries(split.Wants),
	}
	s.splitCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// handleBudget reports the month's budget state: spend so far, remaining,
// and the daily allowance for the rest of the month. The spend figure uses
// monthly-equivalent amounts and skips budget-excluded transactions.
func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		s.logger.Error("list transactions for budget", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	now := s.now()
	buckets := engine.Aggregate(txs, engine.AggregateOptions{
		Window:                engine.WindowMonth,
		Kind:                  core.Expense,
		ExcludeBudgetExcluded: true,
	}, now)
	spent := engine.SumTotals(buckets)
	info := engine.ComputeBudget(spent, s.monthlyBudget, now)

	writeJSON(w, http.StatusOK, budgetResponse{
		MonthlyBudget:  s.monthlyBudget.String(),
		Spent:          spent.String(),
		Remaining:      info.Remaining.String(),
		DailyAllowance: info.DailyAllowance.StringFixed(2),
		PercentUsed:    info.PercentUsed,
		DaysRemaining:  info.DaysRemaining,
	})
}

func toCategorySummaries(buckets map[string]core.CategoryTotal) map[string]categorySummary {
	out := make(map[string]categorySummary, len(buckets))
	for category, ct := range buckets {
		out[category] = categorySummary{Total: ct.Total.String(), Count: ct.Count}
	}
	return out
}
