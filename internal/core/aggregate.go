package core

import "sort"

// Totals are the dashboard figures, recomputed from the record on every
// call. TotalExpenses counts confirmed and other expenses only; planned
// expenses are not spending.
type Totals struct {
	TotalIncome   Money `json:"totalIncome"`
	TotalExpenses Money `json:"totalExpenses"`
	Savings       Money `json:"savings"`
	Balance       Money `json:"balance"`
}

// Transaction is one entry of the merged history view, tagged by kind.
// Label carries the income source or the expense category.
type Transaction struct {
	ID            string          `json:"id"`
	Kind          TransactionKind `json:"kind"`
	Label         string          `json:"label"`
	Amount        Money           `json:"amount"`
	EffectiveDate Date            `json:"date"`
}

// ComputeTotals derives the dashboard totals from the record.
func ComputeTotals(rec *FinanceRecord) Totals {
	var income, confirmed, other Money
	for _, e := range rec.Incomes {
		income = income.Add(e.Amount)
	}
	for _, e := range rec.ConfirmedMandatoryExpenses {
		confirmed = confirmed.Add(e.Amount)
	}
	for _, e := range rec.OtherExpenses {
		other = other.Add(e.Amount)
	}
	expenses := confirmed.Add(other)
	return Totals{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Savings:       income.Sub(expenses),
		Balance:       rec.Balance,
	}
}

// RecentTransactions merges incomes, confirmed expenses, and other
// expenses, sorted by effective date descending, and returns at most n.
// The sort is stable so entries sharing a date keep insertion order.
func RecentTransactions(rec *FinanceRecord, n int) []Transaction {
	merged := mergeTransactions(rec, false)
	if n >= 0 && len(merged) > n {
		merged = merged[:n]
	}
	return merged
}

// FullHistory is the same merge as RecentTransactions but unbounded and
// including planned (not yet paid) expenses.
func FullHistory(rec *FinanceRecord) []Transaction {
	return mergeTransactions(rec, true)
}

func mergeTransactions(rec *FinanceRecord, includePlanned bool) []Transaction {
	size := len(rec.Incomes) + len(rec.ConfirmedMandatoryExpenses) + len(rec.OtherExpenses)
	if includePlanned {
		size += len(rec.MandatoryExpenses)
	}
	merged := make([]Transaction, 0, size)

	for _, e := range rec.Incomes {
		merged = append(merged, Transaction{
			ID: e.ID, Kind: KindIncome, Label: e.Source, Amount: e.Amount, EffectiveDate: e.Date,
		})
	}
	if includePlanned {
		for _, e := range rec.MandatoryExpenses {
			merged = append(merged, Transaction{
				ID: e.ID, Kind: KindPlanned, Label: e.Category, Amount: e.Amount, EffectiveDate: e.DueDate,
			})
		}
	}
	for _, e := range rec.ConfirmedMandatoryExpenses {
		merged = append(merged, Transaction{
			ID: e.ID, Kind: KindConfirmed, Label: e.Category, Amount: e.Amount, EffectiveDate: e.ConfirmedDate,
		})
	}
	for _, e := range rec.OtherExpenses {
		merged = append(merged, Transaction{
			ID: e.ID, Kind: KindOther, Label: e.Category, Amount: e.Amount, EffectiveDate: e.Date,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[j].EffectiveDate.Before(merged[i].EffectiveDate)
	})
	return merged
}

// GoalProgress is the saved-to-target percentage, capped at 100. A zero
// target yields 0 rather than dividing by zero; validation keeps targets
// positive so that case should not occur in stored records.
func GoalProgress(g Goal) float64 {
	if g.Target.Cents <= 0 {
		return 0
	}
	pct := float64(g.Saved.Cents) / float64(g.Target.Cents) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
