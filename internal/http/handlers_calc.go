package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"nidhi/internal/core"
	"nidhi/internal/engine"
)

type (
	fdResponse struct {
		Principal      float64 `json:"principal"`
		AnnualRate     float64 `json:"annual_rate"`
		Compounding    int     `json:"compounding"`
		StartDate      string  `json:"start_date"`
		TenureYears    float64 `json:"tenure_years"`
		ElapsedYears   float64 `json:"elapsed_years"`
		CurrentValue   float64 `json:"current_value"`
		MaturityValue  float64 `json:"maturity_value"`
		InterestEarned float64 `json:"interest_earned"`
	}

	fundReturnsResponse struct {
		Scheme           string   `json:"scheme"`
		LatestNAV        float64  `json:"latest_nav"`
		LatestDate       string   `json:"latest_date"`
		DailyChangePct   *float64 `json:"daily_change_pct"`
		MonthlyChangePct *float64 `json:"monthly_change_pct"`
		YearlyChangePct  *float64 `json:"yearly_change_pct"`
		CAGR3YPct        *float64 `json:"cagr_3y_pct"`
		CAGR5YPct        *float64 `json:"cagr_5y_pct"`
	}
)

// handleFD values a fixed deposit from query parameters alone; nothing is
// persisted. rate is a fraction (0.0725), tenure in years, compounding per
// year (4 for quarterly).
func (s *Server) handleFD(w http.ResponseWriter, r *http.Request) {
	principal, err := parseFloatParam(r, "principal")
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	rate, err := parseFloatParam(r, "rate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	tenure, err := parseFloatParam(r, "tenure")
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	compounding := 4
	if v := strings.TrimSpace(r.URL.Query().Get("compounding")); v != "" {
		compounding, err = strconv.Atoi(v)
		if err != nil || compounding < 1 {
			writeError(w, http.StatusBadRequest, "compounding must be a positive integer")
			return
		}
	}

	start, err := core.ParseDate(strings.TrimSpace(r.URL.Query().Get("start")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}
	if principal <= 0 || rate < 0 || tenure <= 0 {
		writeError(w, http.StatusBadRequest, "principal and tenure must be positive, rate non-negative")
		return
	}

	in := engine.FDInput{
		Principal:        principal,
		AnnualRate:       rate,
		CompoundsPerYear: compounding,
		StartDate:        start,
		TenureYears:      tenure,
	}
	calc := engine.CalculateFD(in, s.now())

	writeJSON(w, http.StatusOK, fdResponse{
		Principal:      principal,
		AnnualRate:     rate,
		Compounding:    compounding,
		StartDate:      start.String(),
		TenureYears:    tenure,
		ElapsedYears:   calc.ElapsedYears,
		CurrentValue:   calc.CurrentValue,
		MaturityValue:  calc.MaturityValue,
		InterestEarned: calc.InterestEarned,
	})
}

// handleFundReturns reports a fund's derived returns. Horizons the stored
// history cannot reach come back as JSON null, never zero.
func (s *Server) handleFundReturns(w http.ResponseWriter, r *http.Request) {
	scheme := r.PathValue("scheme")

	history, err := s.store.GetNAVHistory(r.Context(), scheme)
	if err != nil {
		s.logger.Error("get nav history", "scheme", scheme, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load nav history")
		return
	}

	stats, err := engine.ComputeFundStats(history, s.now())
	if errors.Is(err, engine.ErrNoHistory) {
		writeError(w, http.StatusNotFound, "no nav history for scheme %s", scheme)
		return
	}
	if err != nil {
		s.logger.Error("compute fund stats", "scheme", scheme, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute fund returns")
		return
	}

	writeJSON(w, http.StatusOK, fundReturnsResponse{
		Scheme:           scheme,
		LatestNAV:        stats.LatestNAV,
		LatestDate:       stats.LatestDate.String(),
		DailyChangePct:   stats.DailyChangePct,
		MonthlyChangePct: stats.MonthlyChangePct,
		YearlyChangePct:  stats.YearlyChangePct,
		CAGR3YPct:        stats.CAGR3YPct,
		CAGR5YPct:        stats.CAGR5YPct,
	})
}
