package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"nidhi/internal/amqp"
	"nidhi/internal/core"
	"nidhi/internal/storage"
)

// transactionPayload is the JSON shape of a transaction on the wire. Amounts
// travel as strings so clients never round them through binary floats.
type transactionPayload struct {
	ID                 string `json:"id,omitempty"`
	Amount             string `json:"amount"`
	Date               string `json:"date"`
	ClockTime          string `json:"clock_time,omitempty"`
	Kind               string `json:"kind"`
	Category           string `json:"category,omitempty"`
	ExcludedFromBudget bool   `json:"excluded_from_budget,omitempty"`
	ProrateMonths      int    `json:"prorate_months,omitempty"`
	BudgetTypeOverride string `json:"budget_type_override,omitempty"`
}

func (p transactionPayload) toDomain(id string) (core.Transaction, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(p.Amount))
	if err != nil {
		return core.Transaction{}, errors.New("amount must be a decimal number")
	}
	date, err := core.ParseDate(strings.TrimSpace(p.Date))
	if err != nil {
		return core.Transaction{}, errors.New("date must be YYYY-MM-DD")
	}
	return core.Transaction{
		ID:                 id,
		Amount:             amount,
		Date:               date,
		ClockTime:          strings.TrimSpace(p.ClockTime),
		Kind:               core.TxKind(strings.TrimSpace(p.Kind)),
		Category:           strings.TrimSpace(p.Category),
		ExcludedFromBudget: p.ExcludedFromBudget,
		ProrateMonths:      p.ProrateMonths,
		BudgetTypeOverride: core.BudgetType(strings.TrimSpace(p.BudgetTypeOverride)),
	}.Normalized(), nil
}

func toPayload(tx core.Transaction) transactionPayload {
	return transactionPayload{
		ID:                 tx.ID,
		Amount:             tx.Amount.String(),
		Date:               tx.Date.String(),
		ClockTime:          tx.ClockTime,
		Kind:               string(tx.Kind),
		Category:           tx.Category,
		ExcludedFromBudget: tx.ExcludedFromBudget,
		ProrateMonths:      tx.ProrateMonths,
		BudgetTypeOverride: string(tx.BudgetTypeOverride),
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		s.logger.Error("list transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	out := make([]transactionPayload, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toPayload(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	id := strings.TrimSpace(payload.ID)
	if id == "" {
		id = uuid.NewString()
	}
	tx, err := payload.toDomain(id)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}

	if err := s.store.CreateTransaction(r.Context(), tx); err != nil {
		s.logger.Error("create transaction", "id", tx.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	s.invalidateSummaries()
	s.publishChange(r.Context(), tx.ID, amqp.ActionCreated, tx.Date)
	writeJSON(w, http.StatusCreated, toPayload(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	tx, err := payload.toDomain(id)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}

	// The previous month may differ from the new one; both summaries go stale.
	previous, err := s.store.GetTransaction(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction %s not found", id)
		return
	}
	if err != nil {
		s.logger.Error("load transaction before update", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update transaction")
		return
	}

	if err := s.store.UpdateTransaction(r.Context(), tx); err != nil {
		s.logger.Error("update transaction", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update transaction")
		return
	}

	s.invalidateSummaries()
	s.publishChange(r.Context(), tx.ID, amqp.ActionUpdated, tx.Date)
	if previous.Date.MonthIndex() != tx.Date.MonthIndex() {
		s.publishChange(r.Context(), tx.ID, amqp.ActionUpdated, previous.Date)
	}
	writeJSON(w, http.StatusOK, toPayload(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := s.store.GetTransaction(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction %s not found", id)
		return
	}
	if err != nil {
		s.logger.Error("load transaction before delete", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		s.logger.Error("delete transaction", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateSummaries()
	s.publishChange(r.Context(), id, amqp.ActionDeleted, existing.Date)
	w.WriteHeader(http.StatusNoContent)
}
