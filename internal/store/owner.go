// ABOUTME: Owner credential and site configuration methods for SQLiteStore
// ABOUTME: The owner table holds at most one row, guarded by its primary key

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ownerRowID is the only id the owner table accepts.
const ownerRowID = 1

// HasOwner reports whether the installation has been claimed.
func (s *SQLiteStore) HasOwner(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM owner").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("counting owners: %w", err)
	}
	return count > 0, nil
}

// CreateOwner inserts the owner row. The insert itself is the race guard:
// a second owner fails on the primary key and returns ErrOwnerExists.
func (s *SQLiteStore) CreateOwner(ctx context.Context, owner *Owner) error {
	if strings.TrimSpace(owner.Username) == "" || owner.PasswordVerifier == "" {
		return ErrInvalidOwner
	}

	siteName, siteTagline := withSiteDefaults(owner.SiteName, owner.SiteTagline)

	query := `
		INSERT INTO owner (id, username, password, site_name, site_tagline)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		ownerRowID,
		owner.Username,
		owner.PasswordVerifier,
		siteName,
		siteTagline,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrOwnerExists
		}
		return fmt.Errorf("inserting owner: %w", err)
	}

	s.logger.Info("created owner", "username", owner.Username)
	return nil
}

// GetOwnerByUsername retrieves the owner if its username matches.
func (s *SQLiteStore) GetOwnerByUsername(ctx context.Context, username string) (*Owner, error) {
	query := `
		SELECT username, password, site_name, site_tagline
		FROM owner
		WHERE username = ?
	`

	var owner Owner
	var siteName, siteTagline sql.NullString

	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&owner.Username,
		&owner.PasswordVerifier,
		&siteName,
		&siteTagline,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying owner by username: %w", err)
	}

	owner.SiteName, owner.SiteTagline = withSiteDefaults(siteName.String, siteTagline.String)
	return &owner, nil
}

// GetSiteConfig returns the site name and tagline stored on the owner row.
func (s *SQLiteStore) GetSiteConfig(ctx context.Context) (*SiteConfig, error) {
	var siteName, siteTagline sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT site_name, site_tagline FROM owner WHERE id = ?", ownerRowID,
	).Scan(&siteName, &siteTagline)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying site config: %w", err)
	}

	name, tagline := withSiteDefaults(siteName.String, siteTagline.String)
	return &SiteConfig{Name: name, Tagline: tagline}, nil
}

// UpdateSiteConfig overwrites the site name and tagline. Both are trimmed
// and must be non-empty.
func (s *SQLiteStore) UpdateSiteConfig(ctx context.Context, name, tagline string) error {
	name = strings.TrimSpace(name)
	tagline = strings.TrimSpace(tagline)
	if name == "" || tagline == "" {
		return ErrInvalidOwner
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE owner SET site_name = ?, site_tagline = ? WHERE id = ?",
		name, tagline, ownerRowID,
	)
	if err != nil {
		return fmt.Errorf("updating site config: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOwnerNotFound
	}

	s.logger.Info("updated site config", "site_name", name)
	return nil
}

// UpdateOwnerPassword replaces the owner's password verifier in place.
func (s *SQLiteStore) UpdateOwnerPassword(ctx context.Context, verifier string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE owner SET password = ? WHERE id = ?", verifier, ownerRowID,
	)
	if err != nil {
		return fmt.Errorf("updating owner password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOwnerNotFound
	}

	s.logger.Info("updated owner password")
	return nil
}

// withSiteDefaults fills blank site fields with the defaults.
func withSiteDefaults(name, tagline string) (string, string) {
	if strings.TrimSpace(name) == "" {
		name = DefaultSiteName
	}
	if strings.TrimSpace(tagline) == "" {
		tagline = DefaultSiteTagline
	}
	return name, tagline
}
