// Package worker consumes record-changed events and mirrors each user's
// finance record to a JSON snapshot file on disk.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finflow/internal/amqp"
	"finflow/internal/export"
	"finflow/internal/log"
	"finflow/internal/storage"
)

// SnapshotWorker reloads the record named by each event from storage and
// writes it to the snapshot directory. The event carries no record data,
// so out-of-order delivery still writes the latest saved state.
type SnapshotWorker struct {
	records storage.RecordStore
	dir     string
	now     func() time.Time
}

func NewSnapshotWorker(records storage.RecordStore, dir string) *SnapshotWorker {
	return &SnapshotWorker{
		records: records,
		dir:     dir,
		now:     time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (w *SnapshotWorker) WithClock(now func() time.Time) *SnapshotWorker {
	w.now = now
	return w
}

// HandleRecordChanged processes one record-changed event.
func (w *SnapshotWorker) HandleRecordChanged(ctx context.Context, msg *amqp.RecordChangedMessage) error {
	slog.InfoContext(ctx, "Processing record-changed event", log.FieldUsername, msg.Username)

	rec, err := w.records.LoadRecord(ctx, msg.Username)
	if err != nil {
		return fmt.Errorf("load record for %q: %w", msg.Username, err)
	}

	payload, err := export.Build(rec, export.FormatJSON, w.now())
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}

	path, err := w.write(msg.Username, payload.Content)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Snapshot written",
		log.FieldUsername, msg.Username,
		"path", path,
		"bytes", len(payload.Content))
	return nil
}

// write replaces the user's snapshot atomically: a rename never leaves a
// half-written file behind a reader.
func (w *SnapshotWorker) write(username string, content []byte) (string, error) {
	userDir := filepath.Join(w.dir, username)
	if err := os.MkdirAll(userDir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}

	path := filepath.Join(userDir, "finances.json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("replace snapshot: %w", err)
	}
	return path, nil
}
