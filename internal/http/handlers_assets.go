package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"nidhi/internal/core"
	"nidhi/internal/engine"
	"nidhi/internal/storage"
)

type (
	snapshotPayload struct {
		BankSavings   string `json:"bank_savings"`
		FixedDeposits string `json:"fixed_deposits"`
		MutualFunds   string `json:"mutual_funds"`
		PPF           string `json:"ppf"`
		EPF           string `json:"epf"`
		MonthlyIncome string `json:"monthly_income"`
	}

	investmentPayload struct {
		ID            string `json:"id,omitempty"`
		Scheme        string `json:"scheme"`
		Amount        string `json:"amount"`
		Date          string `json:"date"`
		NAVAtPurchase string `json:"nav_at_purchase"`
		Units         string `json:"units,omitempty"`
	}

	netWorthResponse struct {
		NetWorth        string `json:"net_worth"`
		MutualFundsLive string `json:"mutual_funds_live,omitempty"`
	}

	goalResponse struct {
		Target          string  `json:"target"`
		CurrentNetWorth string  `json:"current_net_worth"`
		MonthlySavings  string  `json:"monthly_savings"`
		AnnualRate      float64 `json:"annual_rate"`
		Months          int     `json:"months"`
		Unreachable     bool    `json:"unreachable"`
	}
)

func (p snapshotPayload) toDomain() (core.AssetSnapshot, error) {
	var snap core.AssetSnapshot
	fields := []struct {
		raw  string
		dest *decimal.Decimal
		name string
	}{
		{p.BankSavings, &snap.BankSavings, "bank_savings"},
		{p.FixedDeposits, &snap.FixedDeposits, "fixed_deposits"},
		{p.MutualFunds, &snap.MutualFunds, "mutual_funds"},
		{p.PPF, &snap.PPF, "ppf"},
		{p.EPF, &snap.EPF, "epf"},
		{p.MonthlyIncome, &snap.MonthlyIncome, "monthly_income"},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(f.raw)
		if raw == "" {
			// absent fields stay zero
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return snap, errors.New(f.name + " must be a decimal number")
		}
		if d.IsNegative() {
			return snap, errors.New(f.name + " must not be negative")
		}
		*f.dest = d
	}
	return snap, nil
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.GetSnapshot(r.Context())
	if err != nil {
		s.logger.Error("get snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	writeJSON(w, http.StatusOK, snapshotPayload{
		BankSavings:   snap.BankSavings.String(),
		FixedDeposits: snap.FixedDeposits.String(),
		MutualFunds:   snap.MutualFunds.String(),
		PPF:           snap.PPF.String(),
		EPF:           snap.EPF.String(),
		MonthlyIncome: snap.MonthlyIncome.String(),
	})
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var payload snapshotPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	snap, err := payload.toDomain()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}
	if err := s.store.SaveSnapshot(r.Context(), snap); err != nil {
		s.logger.Error("save snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save snapshot")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := s.store.ListInvestments(r.Context())
	if err != nil {
		s.logger.Error("list investments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load investments")
		return
	}
	out := make([]investmentPayload, 0, len(investments))
	for _, inv := range investments {
		out = append(out, investmentPayload{
			ID:            inv.ID,
			Scheme:        inv.Scheme,
			Amount:        inv.Amount.String(),
			Date:          inv.Date.String(),
			NAVAtPurchase: inv.NAVAtPurchase.String(),
			Units:         inv.Units().StringFixed(4),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddInvestment(w http.ResponseWriter, r *http.Request) {
	var payload investmentPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(payload.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "amount must be a decimal number")
		return
	}
	nav, err := decimal.NewFromString(strings.TrimSpace(payload.NAVAtPurchase))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "nav_at_purchase must be a decimal number")
		return
	}
	date, err := core.ParseDate(strings.TrimSpace(payload.Date))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}

	inv := core.Investment{
		ID:            uuid.NewString(),
		Scheme:        strings.TrimSpace(payload.Scheme),
		Amount:        amount,
		Date:          date,
		NAVAtPurchase: nav,
	}
	if err := inv.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}

	if err := s.store.AddInvestment(r.Context(), inv); err != nil {
		s.logger.Error("add investment", "scheme", inv.Scheme, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save investment")
		return
	}

	payload.ID = inv.ID
	payload.Units = inv.Units().StringFixed(4)
	writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.store.DeleteInvestment(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "investment %s not found", id)
		return
	}
	if err != nil {
		s.logger.Error("delete investment", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete investment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNetWorth sums the snapshot's assets, pricing tracked fund
// contributions at their latest NAVs when quotes exist.
func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.GetSnapshot(r.Context())
	if err != nil {
		s.logger.Error("get snapshot for net worth", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	resp := netWorthResponse{}
	live := s.liveMutualFunds(r, snap)
	if live != nil {
		resp.MutualFundsLive = live.String()
	}
	resp.NetWorth = engine.NetWorth(snap, live).String()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGoal(w http.ResponseWriter, r *http.Request) {
	target, err := parseFloatParam(r, "target")
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	rate, err := parseOptionalFloatParam(r, "rate", s.annualReturnRate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	snap, err := s.store.GetSnapshot(r.Context())
	if err != nil {
		s.logger.Error("get snapshot for goal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		s.logger.Error("list transactions for goal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	netWorth := engine.NetWorth(snap, s.liveMutualFunds(r, snap))
	savings := engine.MonthlySavingsEstimate(txs, snap.MonthlyIncome, s.now())

	netWorthF, _ := netWorth.Float64()
	savingsF, _ := savings.Float64()
	projection := engine.TimeToGoal(netWorthF, savingsF, target, rate)

	writeJSON(w, http.StatusOK, goalResponse{
		Target:          decimal.NewFromFloat(target).String(),
		CurrentNetWorth: netWorth.String(),
		MonthlySavings:  savings.StringFixed(2),
		AnnualRate:      rate,
		Months:          projection.Months,
		Unreachable:     projection.Unreachable,
	})
}

// liveMutualFunds prices the contributions against the latest quotes, nil
// when there are no tracked contributions. NAV lookup failures degrade to the
// stored static figure instead of failing the request.
func (s *Server) liveMutualFunds(r *http.Request, snap core.AssetSnapshot) *decimal.Decimal {
	if len(snap.Investments) == 0 {
		return nil
	}
	latest, err := s.store.LatestNAVs(r.Context())
	if err != nil {
		s.logger.Warn("latest navs unavailable, using stored mutual fund value", "error", err)
		return nil
	}
	live := engine.LiveMutualFundValue(snap.Investments, latest)
	return &live
}
