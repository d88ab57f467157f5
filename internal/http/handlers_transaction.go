package http

import (
	"log/slog"
	"net/http"
	"strings"

	"finanza/internal/core"
	"finanza/internal/report"
)

// transactionRequest carries a new transaction across the form boundary.
// The amount arrives as text and must parse; anything unparseable aborts
// the operation before it reaches the state container.
type transactionRequest struct {
	Type        string `json:"type"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Date        string `json:"date"` // YYYY-MM-DD
	Description string `json:"description"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w, r) {
		return
	}

	snap := s.container.Snapshot()
	txs := snap.Transactions
	if r.URL.Query().Get("month") != "" || r.URL.Query().Get("year") != "" {
		txs = report.FilterMonth(txs, parseMonthRef(r))
	}

	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w, r) {
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	tx, err := s.container.AddTransaction(r.Context(), core.Transaction{
		Type:        core.TransactionType(strings.ToLower(strings.TrimSpace(req.Type))),
		Category:    strings.TrimSpace(req.Category),
		Amount:      amount,
		Date:        date,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	slog.InfoContext(r.Context(), "Transaction recorded",
		"id", tx.ID,
		"type", tx.Type,
		"category", tx.Category,
		"amount", tx.Amount.String())

	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w, r) {
		return
	}

	// Deleting an unknown id is a no-op, so this always succeeds.
	s.container.DeleteTransaction(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
