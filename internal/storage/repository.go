package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finflow/internal/core"
	"finflow/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser implements UserStore.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, email, created_at) VALUES (?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.Email, u.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", u.Username, core.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	slog.InfoContext(ctx, "User created", log.FieldUsername, u.Username)
	return nil
}

// GetUser implements UserStore.
func (r *SQLiteRepository) GetUser(ctx context.Context, username string) (*core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT username, password_hash, email, created_at FROM users WHERE username = ?`, username)

	var u core.User
	var createdAt string
	if err := row.Scan(&u.Username, &u.PasswordHash, &u.Email, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, core.ErrNotFound)
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		u.CreatedAt = t
	}
	return &u, nil
}

// LoadRecord implements RecordStore. The whole finance record is stored
// as one JSON document per user.
func (r *SQLiteRepository) LoadRecord(ctx context.Context, username string) (*core.FinanceRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT document FROM finance_records WHERE username = ?`, username)

	var doc []byte
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("finance record for %q: %w", username, core.ErrNotFound)
		}
		return nil, fmt.Errorf("select finance record: %w", err)
	}

	var rec core.FinanceRecord
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("decode finance record: %w", err)
	}
	core.Normalize(&rec)
	return &rec, nil
}

// SaveRecord implements RecordStore. Last write wins; there is no merge.
func (r *SQLiteRepository) SaveRecord(ctx context.Context, username string, rec *core.FinanceRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode finance record: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO finance_records (username, document, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		username, doc, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert finance record: %w", err)
	}

	slog.DebugContext(ctx, "Finance record saved", log.FieldUsername, username, "bytes", len(doc))
	return nil
}

// isUniqueViolation matches the driver's constraint-failure text;
// modernc.org/sqlite does not expose a typed error for it.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
