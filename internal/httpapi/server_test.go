package httpapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finflow/internal/ledger"
	"finflow/internal/log"
	"finflow/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := ledger.NewService(storage.NewMemoryStore(), nil).WithClock(func() time.Time {
		return time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	})
	return NewServer(":0", svc, log.New(slog.LevelError)).WithClock(func() time.Time {
		return time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func logIn(t *testing.T, s *Server) {
	t.Helper()
	if rec := doJSON(t, s, http.MethodPost, "/api/signup", map[string]string{
		"username": "alice", "password": "secret123", "email": "alice@example.com",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d: %s", rec.Code, rec.Body)
	}
	if rec := doJSON(t, s, http.MethodPost, "/api/login", map[string]string{
		"username": "alice", "password": "secret123",
	}); rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSignUpConflictStatus(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{"username": "alice", "password": "secret123"}

	if rec := doJSON(t, s, http.MethodPost, "/api/signup", body); rec.Code != http.StatusCreated {
		t.Fatalf("first signup = %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodPost, "/api/signup", body); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup = %d, want 409", rec.Code)
	}
}

func TestLogInFailures(t *testing.T) {
	s := newTestServer(t)

	if rec := doJSON(t, s, http.MethodPost, "/api/login", map[string]string{
		"username": "ghost", "password": "whatever1",
	}); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown user = %d, want 404", rec.Code)
	}

	doJSON(t, s, http.MethodPost, "/api/signup", map[string]string{"username": "alice", "password": "secret123"})
	if rec := doJSON(t, s, http.MethodPost, "/api/login", map[string]string{
		"username": "alice", "password": "wrong-pass",
	}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password = %d, want 401", rec.Code)
	}
}

func TestMutationsRequireSession(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/incomes", map[string]string{
		"source": "Salary", "amount": "1000", "date": "2024-01-01",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestIncomeValidationStatus(t *testing.T) {
	s := newTestServer(t)
	logIn(t, s)

	cases := []map[string]string{
		{"source": "Salary", "amount": "abc", "date": "2024-01-01"},
		{"source": "Salary", "amount": "-5", "date": "2024-01-01"},
		{"source": "", "amount": "100", "date": "2024-01-01"},
		{"source": "Salary", "amount": "100", "date": "not-a-date"},
	}
	for i, body := range cases {
		if rec := doJSON(t, s, http.MethodPost, "/api/incomes", body); rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("case %d status = %d, want 422", i, rec.Code)
		}
	}
}

func TestFullFlow(t *testing.T) {
	s := newTestServer(t)
	logIn(t, s)

	if rec := doJSON(t, s, http.MethodPost, "/api/incomes", map[string]string{
		"source": "Salary", "amount": "1000", "date": "2024-01-01",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("income = %d: %s", rec.Code, rec.Body)
	}
	if rec := doJSON(t, s, http.MethodPost, "/api/expenses/planned", map[string]string{
		"category": "Rent", "amount": "400", "dueDate": "2024-02-01",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("plan = %d: %s", rec.Code, rec.Body)
	}

	// Two-step confirmation: list, pick the ID, confirm.
	listRec := doJSON(t, s, http.MethodGet, "/api/expenses/planned", nil)
	if listRec.Code != http.StatusOK {
		t.Fatalf("list = %d", listRec.Code)
	}
	var listing struct {
		PlannedExpenses []struct {
			ID string `json:"id"`
		} `json:"plannedExpenses"`
	}
	if err := json.Unmarshal(listRec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("parse listing: %v", err)
	}
	if len(listing.PlannedExpenses) != 1 {
		t.Fatalf("planned count = %d", len(listing.PlannedExpenses))
	}

	if rec := doJSON(t, s, http.MethodPost, "/api/expenses/confirm", map[string]string{
		"id": listing.PlannedExpenses[0].ID,
	}); rec.Code != http.StatusOK {
		t.Fatalf("confirm = %d: %s", rec.Code, rec.Body)
	}

	// Overspending is rejected.
	if rec := doJSON(t, s, http.MethodPost, "/api/expenses/other", map[string]string{
		"category": "Food", "amount": "700", "date": "2024-01-15",
	}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("overspend = %d, want 422", rec.Code)
	}

	dashRec := doJSON(t, s, http.MethodGet, "/api/dashboard", nil)
	if dashRec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d", dashRec.Code)
	}
	var dash struct {
		Totals struct {
			Balance struct {
				Cents int64 `json:"cents"`
			} `json:"balance"`
		} `json:"totals"`
		RecentTransactions []json.RawMessage `json:"recentTransactions"`
	}
	if err := json.Unmarshal(dashRec.Body.Bytes(), &dash); err != nil {
		t.Fatalf("parse dashboard: %v", err)
	}
	if dash.Totals.Balance.Cents != 60000 {
		t.Fatalf("balance = %d, want 60000", dash.Totals.Balance.Cents)
	}
	if len(dash.RecentTransactions) != 2 {
		t.Fatalf("recent = %d, want 2", len(dash.RecentTransactions))
	}
}

func TestConfirmUnknownID(t *testing.T) {
	s := newTestServer(t)
	logIn(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/expenses/confirm", map[string]string{"id": "nope"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)
	logIn(t, s)

	doJSON(t, s, http.MethodPost, "/api/incomes", map[string]string{
		"source": "Salary", "amount": "1000", "date": "2024-01-01",
	})

	rec := doJSON(t, s, http.MethodGet, "/api/export?format=csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "finflow-export-2024-01-20.csv") {
		t.Fatalf("disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d, want header + 1 row", len(lines))
	}
	if lines[0] != "Type,Category,Amount,Date" {
		t.Fatalf("header = %q", lines[0])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	s := newTestServer(t)
	logIn(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/export?format=xml", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/signup", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
