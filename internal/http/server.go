// Package http exposes the application container over a local JSON API.
// It is a thin surface: parsing and status codes live here, all semantics
// live in internal/app and internal/report.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"finanza/internal/app"
	"finanza/internal/insight"
	"finanza/internal/middleware/ratelimit"
	"finanza/internal/middleware/trace"
)

type Server struct {
	http.Server

	container *app.Container
	insights  *insight.Generator

	tracer      *trace.Middleware
	authLimiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

func NewServer(addr string, container *app.Container, insights *insight.Generator) *Server {
	s := &Server{
		container:   container,
		insights:    insights,
		tracer:      trace.NewMiddleware(),
		authLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/me", s.handleMe)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/budgets", s.handleGetBudgets)
	mux.HandleFunc("PUT /api/budgets", s.handlePutBudgets)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals", s.handleUpsertGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/insight", s.handleInsight)
	mux.HandleFunc("GET /api/sync", s.handleSyncStatus)
	mux.HandleFunc("POST /api/theme/toggle", s.handleToggleTheme)

	mux.HandleFunc("GET /api/health", s.handleHealth)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        s.tracer.Handler(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second, // insight calls can be slow
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	return s
}

// Shutdown stops the HTTP server and the limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.authLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	metrics := s.tracer.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"requests":        metrics.TotalRequests,
		"avg_response_us": metrics.AverageResponseTime,
		"insight_enabled": s.insights.Enabled(),
	})
}
