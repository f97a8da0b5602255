// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu       sync.RWMutex
	owner    *Owner
	sessions map[string]*Session // keyed by token
	posts    []*Post
	nextID   int64

	// FailWith, when set, is returned by every method. Used to simulate an
	// unreachable database.
	FailWith error

	// FailPasswordUpdate, when set, is returned only by UpdateOwnerPassword.
	FailPasswordUpdate error
}

// Ensure MockStore implements Store.
var _ Store = (*MockStore)(nil)

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		sessions: make(map[string]*Session),
	}
}

// HasOwner reports whether an owner exists.
func (m *MockStore) HasOwner(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailWith != nil {
		return false, m.FailWith
	}
	return m.owner != nil, nil
}

// CreateOwner stores the owner; the check and insert happen under one lock,
// matching the primary key guard in SQLite.
func (m *MockStore) CreateOwner(ctx context.Context, owner *Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return m.FailWith
	}
	if strings.TrimSpace(owner.Username) == "" || owner.PasswordVerifier == "" {
		return ErrInvalidOwner
	}
	if m.owner != nil {
		return ErrOwnerExists
	}

	o := *owner
	o.SiteName, o.SiteTagline = withSiteDefaults(o.SiteName, o.SiteTagline)
	m.owner = &o
	return nil
}

// GetOwnerByUsername returns a copy of the owner if the username matches.
func (m *MockStore) GetOwnerByUsername(ctx context.Context, username string) (*Owner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if m.owner == nil || m.owner.Username != username {
		return nil, ErrOwnerNotFound
	}
	o := *m.owner
	return &o, nil
}

// GetSiteConfig returns the owner's site fields.
func (m *MockStore) GetSiteConfig(ctx context.Context) (*SiteConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if m.owner == nil {
		return nil, ErrOwnerNotFound
	}
	return &SiteConfig{Name: m.owner.SiteName, Tagline: m.owner.SiteTagline}, nil
}

// UpdateSiteConfig overwrites the site fields.
func (m *MockStore) UpdateSiteConfig(ctx context.Context, name, tagline string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return m.FailWith
	}
	name = strings.TrimSpace(name)
	tagline = strings.TrimSpace(tagline)
	if name == "" || tagline == "" {
		return ErrInvalidOwner
	}
	if m.owner == nil {
		return ErrOwnerNotFound
	}
	m.owner.SiteName = name
	m.owner.SiteTagline = tagline
	return nil
}

// UpdateOwnerPassword overwrites the owner's verifier.
func (m *MockStore) UpdateOwnerPassword(ctx context.Context, verifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return m.FailWith
	}
	if m.FailPasswordUpdate != nil {
		return m.FailPasswordUpdate
	}
	if m.owner == nil {
		return ErrOwnerNotFound
	}
	m.owner.PasswordVerifier = verifier
	return nil
}

// CreateSession stores a session.
func (m *MockStore) CreateSession(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return m.FailWith
	}
	if _, exists := m.sessions[session.Token]; exists {
		return errors.New("UNIQUE constraint failed: sessions.token")
	}
	s := *session
	m.sessions[s.Token] = &s
	return nil
}

// GetSession retrieves a session by token.
func (m *MockStore) GetSession(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailWith != nil {
		return nil, m.FailWith
	}
	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

// DeleteSession removes a session if present.
func (m *MockStore) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return m.FailWith
	}
	delete(m.sessions, token)
	return nil
}

// DeleteExpiredSessions removes sessions expired at now.
func (m *MockStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return 0, m.FailWith
	}
	var deleted int64
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
			deleted++
		}
	}
	return deleted, nil
}

// SessionCount returns the number of stored sessions.
func (m *MockStore) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CreatePost appends a post with the next id.
func (m *MockStore) CreatePost(ctx context.Context, post *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.nextID++
	p := *post
	p.ID = m.nextID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	m.posts = append(m.posts, &p)
	cp := p
	return &cp, nil
}

// GetPost retrieves a post by id.
func (m *MockStore) GetPost(ctx context.Context, id int64) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailWith != nil {
		return nil, m.FailWith
	}
	for _, p := range m.posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// ListPosts returns posts newest first with id as tie-break.
func (m *MockStore) ListPosts(ctx context.Context, limit int) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailWith != nil {
		return nil, m.FailWith
	}
	posts := make([]*Post, 0, len(m.posts))
	for _, p := range m.posts {
		cp := *p
		posts = append(posts, &cp)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// Close is a no-op for MockStore.
func (m *MockStore) Close() error {
	return nil
}
