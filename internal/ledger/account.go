package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finflow/internal/core"
	"finflow/internal/log"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", minPasswordLength)
)

// SignUp registers a new user and creates their empty finance record.
// The account is created logged out; the user logs in afterwards.
func (s *Service) SignUp(ctx context.Context, username, password, email string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := core.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(email),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return err
	}

	rec := core.NewFinanceRecord(s.now().UTC())
	if err := s.store.SaveRecord(ctx, username, rec); err != nil {
		return fmt.Errorf("create finance record: %w", err)
	}

	slog.InfoContext(ctx, "Account created", log.FieldUsername, username)
	return nil
}

// LogIn verifies credentials and replaces the in-memory state with the
// user's stored record, wholesale.
func (s *Service) LogIn(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return fmt.Errorf("login %q: %w", username, core.ErrAuthFailure)
	}

	rec, err := s.store.LoadRecord(ctx, username)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			return err
		}
		// Credential record without a finance record; start empty.
		rec = core.NewFinanceRecord(s.now().UTC())
	}

	s.mu.Lock()
	s.username = username
	s.rec = rec
	s.mu.Unlock()

	slog.InfoContext(ctx, "User logged in", log.FieldUsername, username)
	return nil
}

// LogOut persists the current record and clears the session. Logging out
// of a dead session is a no-op.
func (s *Service) LogOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec == nil {
		return nil
	}
	if err := s.store.SaveRecord(ctx, s.username, s.rec); err != nil {
		return fmt.Errorf("persist finance record at logout: %w", err)
	}

	slog.InfoContext(ctx, "User logged out", log.FieldUsername, s.username)
	s.username = ""
	s.rec = nil
	return nil
}
