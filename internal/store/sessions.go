// ABOUTME: Session token persistence for SQLiteStore
// ABOUTME: Handles nullable expiry for rows written before expiry was tracked

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateSession stores a new session row.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (token, created_at, expires_at)
		VALUES (?, ?, ?)
	`

	var expiresAt sql.NullString
	if session.ExpiresAt != nil {
		expiresAt = sql.NullString{String: session.ExpiresAt.UTC().Format(sessionTimeLayout), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		session.Token,
		session.CreatedAt.UTC().Format(sessionTimeLayout),
		expiresAt,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	s.logger.Debug("created session", "expires_at", expiresAt.String)
	return nil
}

// GetSession retrieves a session by token, expired or not. Expiry policy
// belongs to the caller.
func (s *SQLiteStore) GetSession(ctx context.Context, token string) (*Session, error) {
	query := `
		SELECT token, created_at, expires_at
		FROM sessions
		WHERE token = ?
	`

	var session Session
	var createdAtStr, expiresAtStr sql.NullString

	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&session.Token,
		&createdAtStr,
		&expiresAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	if createdAtStr.Valid {
		if session.CreatedAt, err = parseTimestamp(createdAtStr.String); err != nil {
			s.logger.Warn("unparseable session created_at", "error", err)
		}
	}

	if expiresAtStr.Valid {
		expiresAt, err := parseTimestamp(expiresAtStr.String)
		if err != nil {
			// An expiry we cannot read must not grant access
			s.logger.Warn("unparseable session expires_at, treating as expired", "error", err)
			expiresAt = time.Time{}
		}
		session.ExpiresAt = &expiresAt
	}

	return &session, nil
}

// DeleteSession deletes a session. Deleting an unknown token is not an error.
func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every session whose expiry is at or before now.
// Expiry is compared after parsing because older rows use a different layout.
func (s *SQLiteStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT token, expires_at FROM sessions WHERE expires_at IS NOT NULL",
	)
	if err != nil {
		return 0, fmt.Errorf("querying session expiries: %w", err)
	}

	var expired []string
	for rows.Next() {
		var token, expiresAtStr string
		if err := rows.Scan(&token, &expiresAtStr); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("scanning session: %w", err)
		}
		expiresAt, err := parseTimestamp(expiresAtStr)
		if err != nil || !now.Before(expiresAt) {
			expired = append(expired, token)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, fmt.Errorf("iterating sessions: %w", err)
	}
	_ = rows.Close()

	var deleted int64
	for _, token := range expired {
		result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
		if err != nil {
			return deleted, fmt.Errorf("deleting expired session: %w", err)
		}
		n, _ := result.RowsAffected()
		deleted += n
	}

	if deleted > 0 {
		s.logger.Debug("deleted expired sessions", "count", deleted)
	}
	return deleted, nil
}
