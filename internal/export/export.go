// Package export builds the downloadable payloads: a pretty-printed JSON
// snapshot of the full record, and a fixed-column CSV of transactions.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"finflow/internal/core"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var csvHeader = []string{"Type", "Category", "Amount", "Date"}

// Payload is an export ready to be written out as a file.
type Payload struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Build renders the record in the requested format.
func Build(rec *core.FinanceRecord, format string, now time.Time) (Payload, error) {
	switch format {
	case FormatCSV:
		content, err := buildCSV(rec)
		if err != nil {
			return Payload{}, err
		}
		return Payload{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("finflow-export-%s.csv", now.Format("2006-01-02")),
		}, nil
	case FormatJSON:
		content, err := buildJSON(rec, now)
		if err != nil {
			return Payload{}, err
		}
		return Payload{
			Content:     content,
			ContentType: "application/json",
			Filename:    fmt.Sprintf("finflow-export-%s.json", now.Format("2006-01-02")),
		}, nil
	default:
		return Payload{}, fmt.Errorf("unsupported export format %q", format)
	}
}

func buildJSON(rec *core.FinanceRecord, now time.Time) ([]byte, error) {
	snapshot := struct {
		Finances   *core.FinanceRecord `json:"finances"`
		ExportedAt string              `json:"exportedAt"`
	}{
		Finances:   rec,
		ExportedAt: now.UTC().Format(time.RFC3339),
	}
	content, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export snapshot: %w", err)
	}
	return content, nil
}

// buildCSV writes one row per transaction in the order incomes, other
// expenses, confirmed expenses; confirmed rows carry the payment date.
func buildCSV(rec *core.FinanceRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range rec.Incomes {
		if err := w.Write([]string{"Income", e.Source, e.Amount.String(), e.Date.String()}); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	for _, e := range rec.OtherExpenses {
		if err := w.Write([]string{"Expense", e.Category, e.Amount.String(), e.Date.String()}); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	for _, e := range rec.ConfirmedMandatoryExpenses {
		if err := w.Write([]string{"Mandatory Expense", e.Category, e.Amount.String(), e.ConfirmedDate.String()}); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
