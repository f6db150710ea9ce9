// Package httpapi is the thin JSON surface over the ledger service: one
// handler per user action, no rendering.
package httpapi

import (
	"net/http"
	"time"

	"finflow/internal/ledger"
	"finflow/internal/log"
)

type Server struct {
	*http.Server
	svc    *ledger.Service
	logger *log.Logger
	now    func() time.Time
	start  time.Time
}

func NewServer(addr string, svc *ledger.Service, logger *log.Logger) *Server {
	s := &Server{
		svc:    svc,
		logger: logger.WithComponent(log.ComponentHTTP),
		now:    time.Now,
		start:  time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/api/signup", s.handleSignUp)
	mux.HandleFunc("/api/login", s.handleLogIn)
	mux.HandleFunc("/api/logout", s.handleLogOut)

	mux.HandleFunc("/api/incomes", s.handleRecordIncome)
	mux.HandleFunc("/api/expenses/planned", s.handlePlannedExpenses)
	mux.HandleFunc("/api/expenses/confirm", s.handleConfirmExpense)
	mux.HandleFunc("/api/expenses/other", s.handleRecordOtherExpense)
	mux.HandleFunc("/api/goals", s.handleAddGoal)

	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/export", s.handleExport)

	s.Server = &http.Server{
		Addr:           addr,
		Handler:        log.RequestLogger(logger)(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}
	return s
}

// WithClock overrides the wall clock, for tests.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}
