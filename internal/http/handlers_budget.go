package http

import (
	"net/http"
	"strings"

	"finanza/internal/core"
)

// budgetEntry carries one category limit across the form boundary.
type budgetEntry struct {
	Category string `json:"category"`
	Limit    string `json:"limit"`
}

func (s *Server) handleGetBudgets(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.container.Snapshot().Budgets)
}

// handlePutBudgets replaces the whole budget set. Partial updates are not a
// thing: the form always submits every category.
func (s *Server) handlePutBudgets(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w, r) {
		return
	}

	var entries []budgetEntry
	if err := decodeJSON(r, &entries); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	budgets := make([]core.Budget, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		category := strings.TrimSpace(e.Category)
		if category == "" {
			writeError(w, http.StatusUnprocessableEntity, "empty category")
			return
		}
		if seen[category] {
			writeError(w, http.StatusUnprocessableEntity, "duplicate category: "+category)
			return
		}
		seen[category] = true

		limit, err := core.ParseAmount(e.Limit)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid limit for "+category)
			return
		}
		budgets = append(budgets, core.Budget{Category: category, Limit: limit})
	}

	if err := s.container.SetBudgets(r.Context(), budgets); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, budgets)
}
