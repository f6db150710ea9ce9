// Package ledger owns the active session: the current user's finance
// record held in memory, the validated mutation operations on it, and the
// mutate-then-persist sequence that keeps durable storage mirrored.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finflow/internal/core"
	"finflow/internal/log"
	"finflow/internal/storage"
)

// ErrNoSession is returned when an operation needs a logged-in user.
var ErrNoSession = errors.New("no active session")

// Publisher emits a record-changed event after a successful save. A nil
// Publisher disables events; publish failures never fail the mutation.
type Publisher interface {
	PublishRecordChanged(ctx context.Context, username string) error
	Close() error
}

// Service performs every mutation as validate, construct, append or move,
// adjust balance, persist, publish. Errors are detected before any state
// change; a failed save leaves the in-memory record untouched.
type Service struct {
	mu        sync.Mutex
	store     storage.Store
	publisher Publisher
	now       func() time.Time

	username string
	rec      *core.FinanceRecord
}

func NewService(store storage.Store, publisher Publisher) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RecordIncome appends an income entry and raises the balance by its
// amount.
func (s *Service) RecordIncome(ctx context.Context, source string, amount core.Money, date core.Date) (core.IncomeEntry, error) {
	entry := core.IncomeEntry{ID: core.NewID(), Source: source, Amount: amount, Date: date}
	if err := entry.Validate(); err != nil {
		return core.IncomeEntry{}, err
	}

	err := s.mutate(ctx, func(rec *core.FinanceRecord) {
		rec.Incomes = append(rec.Incomes, entry)
		rec.Balance = rec.Balance.Add(entry.Amount)
	})
	if err != nil {
		return core.IncomeEntry{}, err
	}

	slog.InfoContext(ctx, "Income recorded", log.FieldSource, entry.Source, log.FieldAmount, entry.Amount.Cents)
	return entry, nil
}

// PlanExpense appends a planned mandatory expense. Planning is not
// spending: the balance is untouched.
func (s *Service) PlanExpense(ctx context.Context, category string, amount core.Money, dueDate core.Date) (core.PlannedExpense, error) {
	expense := core.PlannedExpense{ID: core.NewID(), Category: category, Amount: amount, DueDate: dueDate}
	if err := expense.Validate(); err != nil {
		return core.PlannedExpense{}, err
	}

	err := s.mutate(ctx, func(rec *core.FinanceRecord) {
		rec.MandatoryExpenses = append(rec.MandatoryExpenses, expense)
	})
	if err != nil {
		return core.PlannedExpense{}, err
	}

	slog.InfoContext(ctx, "Expense planned", log.FieldCategory, expense.Category, log.FieldAmount, expense.Amount.Cents)
	return expense, nil
}

// PlannedExpenses lists the candidates for confirmation. Callers pick one
// and pass its ID to ConfirmExpense.
func (s *Service) PlannedExpenses() ([]core.PlannedExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return nil, ErrNoSession
	}
	return append([]core.PlannedExpense(nil), s.rec.MandatoryExpenses...), nil
}

// ConfirmExpense moves the identified planned expense to the confirmed
// ledger, stamped with today's date, and lowers the balance. The entry
// leaves the planned list exactly once; confirming the same ID again is
// ErrNotFound, never a double charge.
func (s *Service) ConfirmExpense(ctx context.Context, id string) (core.ConfirmedExpense, error) {
	var confirmed core.ConfirmedExpense

	err := s.mutateChecked(ctx, func(rec *core.FinanceRecord) error {
		idx := -1
		for i, e := range rec.MandatoryExpenses {
			if e.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("planned expense %q: %w", id, core.ErrNotFound)
		}

		selected := rec.MandatoryExpenses[idx]
		if selected.Amount.GreaterThan(rec.Balance) {
			return fmt.Errorf("confirm %q: %w", selected.Category, core.ErrInsufficientFunds)
		}

		confirmed = selected.Confirm(core.Today(s.now))
		rec.MandatoryExpenses = append(rec.MandatoryExpenses[:idx], rec.MandatoryExpenses[idx+1:]...)
		rec.ConfirmedMandatoryExpenses = append(rec.ConfirmedMandatoryExpenses, confirmed)
		rec.Balance = rec.Balance.Sub(confirmed.Amount)
		return nil
	})
	if err != nil {
		return core.ConfirmedExpense{}, err
	}

	slog.InfoContext(ctx, "Expense confirmed", log.FieldCategory, confirmed.Category, log.FieldAmount, confirmed.Amount.Cents)
	return confirmed, nil
}

// RecordOtherExpense appends a discretionary expense and lowers the
// balance, refusing to spend past zero.
func (s *Service) RecordOtherExpense(ctx context.Context, category string, amount core.Money, date core.Date) (core.OtherExpense, error) {
	expense := core.OtherExpense{ID: core.NewID(), Category: category, Amount: amount, Date: date}
	if err := expense.Validate(); err != nil {
		return core.OtherExpense{}, err
	}

	err := s.mutateChecked(ctx, func(rec *core.FinanceRecord) error {
		if expense.Amount.GreaterThan(rec.Balance) {
			return fmt.Errorf("spend %q: %w", expense.Category, core.ErrInsufficientFunds)
		}
		rec.OtherExpenses = append(rec.OtherExpenses, expense)
		rec.Balance = rec.Balance.Sub(expense.Amount)
		return nil
	})
	if err != nil {
		return core.OtherExpense{}, err
	}

	slog.InfoContext(ctx, "Other expense recorded", log.FieldCategory, expense.Category, log.FieldAmount, expense.Amount.Cents)
	return expense, nil
}

// AddGoal appends a savings goal with nothing saved yet.
func (s *Service) AddGoal(ctx context.Context, title string, target core.Money) (core.Goal, error) {
	goal := core.Goal{ID: core.NewID(), Title: title, Target: target}
	if err := goal.Validate(); err != nil {
		return core.Goal{}, err
	}

	err := s.mutate(ctx, func(rec *core.FinanceRecord) {
		rec.Goals = append(rec.Goals, goal)
	})
	if err != nil {
		return core.Goal{}, err
	}

	slog.InfoContext(ctx, "Goal added", "title", goal.Title, "target_cents", goal.Target.Cents)
	return goal, nil
}

// Record returns a copy of the active record for aggregation and export.
func (s *Service) Record() (*core.FinanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return nil, ErrNoSession
	}
	return core.Clone(s.rec), nil
}

// CurrentUser returns the session's username, or "" when logged out.
func (s *Service) CurrentUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

func (s *Service) mutate(ctx context.Context, fn func(rec *core.FinanceRecord)) error {
	return s.mutateChecked(ctx, func(rec *core.FinanceRecord) error {
		fn(rec)
		return nil
	})
}

// mutateChecked applies fn to a working copy of the record and persists
// it. The session record is only replaced after a successful save, so a
// storage failure is never observable as a half-applied mutation.
func (s *Service) mutateChecked(ctx context.Context, fn func(rec *core.FinanceRecord) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec == nil {
		return ErrNoSession
	}

	work := core.Clone(s.rec)
	if err := fn(work); err != nil {
		return err
	}

	if err := s.store.SaveRecord(ctx, s.username, work); err != nil {
		return fmt.Errorf("persist finance record: %w", err)
	}
	s.rec = work

	s.publishRecordChanged(ctx)
	return nil
}

func (s *Service) publishRecordChanged(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecordChanged(ctx, s.username); err != nil {
		// Record is saved; the event stream is best effort.
		slog.ErrorContext(ctx, "Failed to publish record-changed event", log.FieldUsername, s.username, log.FieldError, err)
	}
}

// Close releases the store and the publisher.
func (s *Service) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
