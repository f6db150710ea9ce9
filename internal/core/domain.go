package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	KindIncome    TransactionKind = "income"
	KindPlanned   TransactionKind = "planned"
	KindConfirmed TransactionKind = "confirmed"
	KindOther     TransactionKind = "other"
)

type (
	TransactionKind string

	IncomeEntry struct {
		ID     string `json:"id"`
		Source string `json:"source"`
		Amount Money  `json:"amount"`
		Date   Date   `json:"date"`
	}

	PlannedExpense struct {
		ID       string `json:"id"`
		Category string `json:"category"`
		Amount   Money  `json:"amount"`
		DueDate  Date   `json:"dueDate"`
	}

	ConfirmedExpense struct {
		ID            string `json:"id"`
		Category      string `json:"category"`
		Amount        Money  `json:"amount"`
		DueDate       Date   `json:"dueDate"`
		ConfirmedDate Date   `json:"confirmedDate"`
	}

	OtherExpense struct {
		ID       string `json:"id"`
		Category string `json:"category"`
		Amount   Money  `json:"amount"`
		Date     Date   `json:"date"`
	}

	Goal struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Target Money  `json:"target"`
		Saved  Money  `json:"saved"`
	}

	Preferences struct {
		Currency string `json:"currency"`
		Theme    string `json:"theme"`
	}

	// FinanceRecord is the whole financial state of one user. It is held in
	// memory while a session is active and written wholesale to durable
	// storage after every mutation. Total income and savings are always
	// derived from the entry lists, never stored.
	FinanceRecord struct {
		Balance                    Money              `json:"balance"`
		Incomes                    []IncomeEntry      `json:"incomes"`
		MandatoryExpenses          []PlannedExpense   `json:"mandatoryExpenses"`
		ConfirmedMandatoryExpenses []ConfirmedExpense `json:"confirmedMandatoryExpenses"`
		OtherExpenses              []OtherExpense     `json:"otherExpenses"`
		Goals                      []Goal             `json:"goals"`
		Preferences                Preferences        `json:"preferences"`
		CreatedAt                  time.Time          `json:"createdAt"`
	}

	// User is the credential record kept alongside the finance record.
	// Passwords are stored as bcrypt hashes, never in clear.
	User struct {
		Username     string
		PasswordHash string
		Email        string
		CreatedAt    time.Time
	}
)

var (
	ErrInvalidAmount     = errors.New("amount must be a positive number")
	ErrEmptySource       = errors.New("empty income source")
	ErrEmptyCategory     = errors.New("empty expense category")
	ErrEmptyTitle        = errors.New("empty goal title")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrAuthFailure       = errors.New("invalid credentials")
)

// NewID returns a collection-unique identifier for a new entry.
func NewID() string {
	return uuid.NewString()
}

func (e IncomeEntry) Validate() error {
	if strings.TrimSpace(e.Source) == "" {
		return ErrEmptySource
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return e.Date.Validate()
}

func (e PlannedExpense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return e.DueDate.Validate()
}

func (e OtherExpense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return e.Date.Validate()
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Saved.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Confirm turns a planned expense into a confirmed one stamped with the
// payment date. It does not touch the owning record.
func (e PlannedExpense) Confirm(confirmedDate Date) ConfirmedExpense {
	return ConfirmedExpense{
		ID:            e.ID,
		Category:      e.Category,
		Amount:        e.Amount,
		DueDate:       e.DueDate,
		ConfirmedDate: confirmedDate,
	}
}
