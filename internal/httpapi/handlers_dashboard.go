package httpapi

import (
	"fmt"
	"net/http"

	"finflow/internal/core"
	"finflow/internal/export"
	"finflow/internal/log"
)

const recentTransactionLimit = 5

type goalView struct {
	core.Goal
	Percentage float64 `json:"percentage"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	rec, err := s.svc.Record()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	goals := make([]goalView, 0, len(rec.Goals))
	for _, g := range rec.Goals {
		goals = append(goals, goalView{Goal: g, Percentage: core.GoalProgress(g)})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username":           s.svc.CurrentUser(),
		"totals":             core.ComputeTotals(rec),
		"recentTransactions": core.RecentTransactions(rec, recentTransactionLimit),
		"goals":              goals,
		"preferences":        rec.Preferences,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	rec, err := s.svc.Record()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": core.FullHistory(rec)})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatJSON
	}

	rec, err := s.svc.Record()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	payload, err := export.Build(rec, format, s.now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.logger.InfoContext(r.Context(), "Record exported",
		log.FieldUsername, s.svc.CurrentUser(),
		log.FieldFormat, format)

	w.Header().Set("Content-Type", payload.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload.Content)
}
