package core

import "time"

const (
	DefaultCurrency = "birr"
	DefaultTheme    = "light"
)

// NewFinanceRecord returns the empty record created at signup.
func NewFinanceRecord(now time.Time) *FinanceRecord {
	rec := &FinanceRecord{CreatedAt: now}
	Normalize(rec)
	return rec
}

// Normalize fills in fields a record loaded from storage may be missing,
// field by field. Records written by older builds load cleanly; nothing
// already present is overwritten.
func Normalize(rec *FinanceRecord) {
	if rec.Incomes == nil {
		rec.Incomes = []IncomeEntry{}
	}
	if rec.MandatoryExpenses == nil {
		rec.MandatoryExpenses = []PlannedExpense{}
	}
	if rec.ConfirmedMandatoryExpenses == nil {
		rec.ConfirmedMandatoryExpenses = []ConfirmedExpense{}
	}
	if rec.OtherExpenses == nil {
		rec.OtherExpenses = []OtherExpense{}
	}
	if rec.Goals == nil {
		rec.Goals = []Goal{}
	}
	if rec.Preferences.Currency == "" {
		rec.Preferences.Currency = DefaultCurrency
	}
	if rec.Preferences.Theme == "" {
		rec.Preferences.Theme = DefaultTheme
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

// Clone returns a deep copy of the record, so stores can hand out copies
// without sharing the caller's slices.
func Clone(rec *FinanceRecord) *FinanceRecord {
	cp := *rec
	cp.Incomes = append([]IncomeEntry(nil), rec.Incomes...)
	cp.MandatoryExpenses = append([]PlannedExpense(nil), rec.MandatoryExpenses...)
	cp.ConfirmedMandatoryExpenses = append([]ConfirmedExpense(nil), rec.ConfirmedMandatoryExpenses...)
	cp.OtherExpenses = append([]OtherExpense(nil), rec.OtherExpenses...)
	cp.Goals = append([]Goal(nil), rec.Goals...)
	Normalize(&cp)
	return &cp
}
