// Package storage provides the durable per-user stores: the credential
// record and the whole-document finance record. Both a SQLite-backed
// repository and an in-memory store implement the same interfaces.
package storage

import (
	"context"

	"finflow/internal/core"
)

// UserStore keeps credential records keyed by username.
type UserStore interface {
	// CreateUser stores a new user. Returns core.ErrConflict when the
	// username is already registered.
	CreateUser(ctx context.Context, u core.User) error
	// GetUser returns core.ErrNotFound for unknown usernames.
	GetUser(ctx context.Context, username string) (*core.User, error)
}

// RecordStore persists the finance record wholesale, one document per
// user. SaveRecord is idempotent and last-write-wins; there is no merge.
type RecordStore interface {
	// LoadRecord returns core.ErrNotFound when no record exists for the
	// user; the caller creates one at signup.
	LoadRecord(ctx context.Context, username string) (*core.FinanceRecord, error)
	SaveRecord(ctx context.Context, username string, rec *core.FinanceRecord) error
}

// Store is the combined persistence surface the application wires up.
type Store interface {
	UserStore
	RecordStore
	Close() error
}
