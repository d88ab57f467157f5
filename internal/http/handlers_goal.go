package http

import (
	"net/http"
	"strings"

	"finanza/internal/core"
	"finanza/internal/report"
)

// goalRequest creates a goal when ID is empty, updates in place otherwise.
type goalRequest struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount"`
	Deadline      string `json:"deadline"` // YYYY-MM-DD
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w, r) {
		return
	}

	snap := s.container.Snapshot()
	statuses := make([]report.GoalStatus, 0, len(snap.Goals))
	for _, g := range snap.Goals {
		statuses = append(statuses, report.GoalStatus{Goal: g, Progress: report.GoalProgress(g)})
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleUpsertGoal(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w, r) {
		return
	}

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target, err := core.ParseAmount(req.TargetAmount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid target amount")
		return
	}
	current, err := core.ParseAmount(req.CurrentAmount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid current amount")
		return
	}
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid deadline, expected YYYY-MM-DD")
		return
	}

	goal, err := s.container.UpsertGoal(r.Context(), core.Goal{
		ID:            strings.TrimSpace(req.ID),
		Title:         strings.TrimSpace(req.Title),
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      deadline,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, report.GoalStatus{Goal: goal, Progress: report.GoalProgress(goal)})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if !s.requireUser(w, r) {
		return
	}

	s.container.DeleteGoal(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
