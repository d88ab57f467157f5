package http

import (
	"net/http"

	"finanza/internal/report"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w, r) {
		return
	}

	snap := s.container.Snapshot()
	writeJSON(w, http.StatusOK, report.Overview(snap, parseMonthRef(r)))
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w, r) {
		return
	}

	snap := s.container.Snapshot()
	text := s.insights.Generate(r.Context(), snap.Transactions, snap.Budgets, snap.Goals)
	writeJSON(w, http.StatusOK, map[string]string{"insight": text})
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": string(s.container.SyncStatus())})
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	// Theme works logged out too: it is the process-wide default.
	dark := s.container.ToggleDarkMode(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"darkMode": dark})
}
