package httpapi

import (
	"net/http"

	"finflow/internal/core"
)

type incomeRequest struct {
	Source string `json:"source"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

func (s *Server) handleRecordIncome(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req incomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	entry, err := s.svc.RecordIncome(r.Context(), req.Source, amount, date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"income": entry})
}

type expenseRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Date     string `json:"date,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
}

// handlePlannedExpenses plans a mandatory expense (POST) or lists the
// candidates for confirmation (GET), the first half of the two-step
// confirmation protocol.
func (s *Server) handlePlannedExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		planned, err := s.svc.PlannedExpenses()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"plannedExpenses": planned})

	case http.MethodPost:
		var req expenseRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		amount, err := core.ParseAmount(req.Amount)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		dueDate, err := core.ParseDate(req.DueDate)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}

		expense, err := s.svc.PlanExpense(r.Context(), req.Category, amount, dueDate)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"plannedExpense": expense})

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type confirmRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleConfirmExpense(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req confirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	confirmed, err := s.svc.ConfirmExpense(r.Context(), req.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"confirmedExpense": confirmed})
}

func (s *Server) handleRecordOtherExpense(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	expense, err := s.svc.RecordOtherExpense(r.Context(), req.Category, amount, date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"otherExpense": expense})
}

type goalRequest struct {
	Title  string `json:"title"`
	Target string `json:"target"`
}

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	target, err := core.ParseAmount(req.Target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	goal, err := s.svc.AddGoal(r.Context(), req.Title, target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"goal": goal})
}
