// ABOUTME: Store interfaces and data types for humor persistence
// ABOUTME: Defines Owner, Session, Post structs and the per-table store contracts

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrOwnerExists is returned when a second owner row is inserted.
var ErrOwnerExists = errors.New("owner already exists")

// ErrOwnerNotFound is returned when the installation has not been claimed yet.
var ErrOwnerNotFound = errors.New("owner not found")

// ErrInvalidOwner is returned when required owner fields are empty.
var ErrInvalidOwner = errors.New("invalid owner fields")

// ErrSessionNotFound is returned when a session token is not stored.
var ErrSessionNotFound = errors.New("session not found")

// Default site identity, used when the owner row omits it or does not exist yet.
const (
	DefaultSiteName    = "Humor."
	DefaultSiteTagline = "Mindful shit or horseshit. You decide."
)

// Owner is the single administrative identity of an installation.
type Owner struct {
	Username         string
	PasswordVerifier string // bcrypt hash, or plaintext for rows written before hashing
	SiteName         string
	SiteTagline      string
}

// SiteConfig holds the display strings shown on every page.
type SiteConfig struct {
	Name    string
	Tagline string
}

// Session is an issued bearer token.
type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt *time.Time // nil for rows created before expiry was tracked
}

// Expired reports whether the session has passed its expiry at now.
// Sessions without an expiry never expire.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Post is a published markdown entry. Posts are immutable once written.
type Post struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt time.Time
}

// CredentialStore persists the owner row and the site configuration on it.
type CredentialStore interface {
	HasOwner(ctx context.Context) (bool, error)
	CreateOwner(ctx context.Context, owner *Owner) error
	GetOwnerByUsername(ctx context.Context, username string) (*Owner, error)
	GetSiteConfig(ctx context.Context) (*SiteConfig, error)
	UpdateSiteConfig(ctx context.Context, name, tagline string) error
	UpdateOwnerPassword(ctx context.Context, verifier string) error
}

// SessionStore persists session tokens.
type SessionStore interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// PostStore persists blog posts.
type PostStore interface {
	CreatePost(ctx context.Context, post *Post) (*Post, error)
	GetPost(ctx context.Context, id int64) (*Post, error)
	ListPosts(ctx context.Context, limit int) ([]*Post, error)
}

// Store combines every table the server touches.
type Store interface {
	CredentialStore
	SessionStore
	PostStore

	// Close releases any resources held by the store
	Close() error
}
