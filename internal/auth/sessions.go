// ABOUTME: Session token lifecycle on top of the session store
// ABOUTME: Issues random tokens, validates with lazy expiry, revokes idempotently

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/2389/humor/internal/store"
)

// tokenBytes is the amount of randomness in a session token (256 bits).
const tokenBytes = 32

// Sessions issues and checks session tokens.
type Sessions struct {
	store  store.SessionStore
	now    func() time.Time
	logger *slog.Logger
}

// NewSessions creates a Sessions backed by s. A nil now uses time.Now.
func NewSessions(s store.SessionStore, now func() time.Time, logger *slog.Logger) *Sessions {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sessions{
		store:  s,
		now:    now,
		logger: logger.With("component", "sessions"),
	}
}

// TTLFromHours converts a fractional number of hours to a duration.
func TTLFromHours(hours float64) time.Duration {
	return time.Duration(math.Round(hours * float64(time.Hour)))
}

// Create stores a new session that expires ttl from now and returns its token.
func (s *Sessions) Create(ctx context.Context, ttl time.Duration) (string, error) {
	token, err := generateSecureToken(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	now := s.now().UTC()
	expiresAt := now.Add(ttl)

	session := &store.Session{
		Token:     token,
		CreatedAt: now,
		ExpiresAt: &expiresAt,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", err
	}

	return token, nil
}

// IsValid reports whether token authenticates right now. An empty token is
// rejected without touching the store. An expired row is deleted on the way
// out; rows without an expiry stay valid.
func (s *Sessions) IsValid(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	session, err := s.store.GetSession(ctx, token)
	if errors.Is(err, store.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if session.Expired(s.now()) {
		if err := s.store.DeleteSession(ctx, token); err != nil {
			s.logger.Warn("failed to delete expired session", "error", err)
		}
		return false, nil
	}

	return true, nil
}

// Revoke deletes the session. Unknown tokens are not an error.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, token)
}

// Sweep deletes every expired session and returns how many were removed.
func (s *Sessions) Sweep(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredSessions(ctx, s.now())
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
