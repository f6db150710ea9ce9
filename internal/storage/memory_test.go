package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"finflow/internal/core"
)

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u := core.User{Username: "alice", PasswordHash: "hash", CreatedAt: time.Now()}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateUser(ctx, u); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("duplicate create: got %v, want ErrConflict", err)
	}

	got, err := s.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PasswordHash != "hash" {
		t.Fatalf("got %+v", got)
	}

	if _, err := s.GetUser(ctx, "nobody"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown user: got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreRecords(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.LoadRecord(ctx, "alice"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing record: got %v, want ErrNotFound", err)
	}

	rec := core.NewFinanceRecord(time.Now())
	rec.Balance = core.Money{Cents: 1000}
	if err := s.SaveRecord(ctx, "alice", rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.LoadRecord(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Balance.Cents != 1000 {
		t.Fatalf("balance = %d", loaded.Balance.Cents)
	}

	// The store must hand out copies, not its own document.
	loaded.Balance = core.Money{Cents: 5}
	again, _ := s.LoadRecord(ctx, "alice")
	if again.Balance.Cents != 1000 {
		t.Fatalf("store shared its document with a caller")
	}

	// Last write wins.
	rec.Balance = core.Money{Cents: 2000}
	if err := s.SaveRecord(ctx, "alice", rec); err != nil {
		t.Fatalf("second save: %v", err)
	}
	final, _ := s.LoadRecord(ctx, "alice")
	if final.Balance.Cents != 2000 {
		t.Fatalf("overwrite lost: %d", final.Balance.Cents)
	}
}
