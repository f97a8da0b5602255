// ABOUTME: Authorization gate deciding initialization and authentication per request
// ABOUTME: Implements claim, login, logout and the write guard over the stores

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/2389/humor/internal/password"
	"github.com/2389/humor/internal/store"
)

// DefaultSessionTTL is one week.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Status is the answer to "who is asking and what state is the site in".
type Status struct {
	Initialized   bool
	Authenticated bool
	Config        store.SiteConfig
}

// ClaimRequest carries the fields submitted by the setup form.
type ClaimRequest struct {
	Username    string
	Password    string
	SiteName    string
	SiteTagline string
}

// GateConfig holds the dependencies of a Gate.
type GateConfig struct {
	Credentials store.CredentialStore
	Sessions    store.SessionStore
	Hasher      *password.Hasher

	// SessionTTL is how long issued tokens stay valid. Zero means DefaultSessionTTL.
	SessionTTL time.Duration

	// DefaultSite is reported while uninitialized and used when a claim
	// leaves the site fields blank.
	DefaultSite store.SiteConfig

	// Now overrides the clock, for tests.
	Now    func() time.Time
	Logger *slog.Logger
}

// Gate owns no data; it orchestrates the credential and session stores.
type Gate struct {
	credentials store.CredentialStore
	sessions    *Sessions
	hasher      *password.Hasher
	ttl         time.Duration
	defaults    store.SiteConfig
	logger      *slog.Logger
}

// NewGate validates cfg and returns a Gate.
func NewGate(cfg GateConfig) (*Gate, error) {
	if cfg.Credentials == nil {
		return nil, errors.New("credential store is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Hasher == nil {
		return nil, errors.New("password hasher is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	defaults := cfg.DefaultSite
	if defaults.Name == "" {
		defaults.Name = store.DefaultSiteName
	}
	if defaults.Tagline == "" {
		defaults.Tagline = store.DefaultSiteTagline
	}

	return &Gate{
		credentials: cfg.Credentials,
		sessions:    NewSessions(cfg.Sessions, cfg.Now, logger),
		hasher:      cfg.Hasher,
		ttl:         ttl,
		defaults:    defaults,
		logger:      logger.With("component", "gate"),
	}, nil
}

// Sessions exposes the session lifecycle, for the sweeper.
func (g *Gate) Sessions() *Sessions {
	return g.sessions
}

// Status reports initialization, whether token authenticates, and the site
// config. A missing or bad token is a normal answer, not an error.
func (g *Gate) Status(ctx context.Context, token string) (*Status, error) {
	initialized, err := g.credentials.HasOwner(ctx)
	if err != nil {
		return nil, storageFailure("checking owner", err)
	}

	authenticated, err := g.sessions.IsValid(ctx, token)
	if err != nil {
		return nil, storageFailure("validating session", err)
	}

	status := &Status{
		Initialized:   initialized,
		Authenticated: authenticated,
		Config:        g.defaults,
	}

	if initialized {
		cfg, err := g.credentials.GetSiteConfig(ctx)
		switch {
		case err == nil:
			status.Config = *cfg
		case errors.Is(err, store.ErrOwnerNotFound):
			// Lost a race with nothing; keep defaults
		default:
			return nil, storageFailure("loading site config", err)
		}
	}

	return status, nil
}

// Claim creates the owner on an uninitialized site and returns a session
// token. The HasOwner check is only a fast path; the store's insert decides
// concurrent claims.
func (g *Gate) Claim(ctx context.Context, req ClaimRequest) (string, error) {
	initialized, err := g.credentials.HasOwner(ctx)
	if err != nil {
		return "", storageFailure("checking owner", err)
	}
	if initialized {
		return "", ErrAlreadyInitialized
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || strings.TrimSpace(req.Password) == "" {
		return "", fmt.Errorf("%w: Username and password are required.", ErrInvalidInput)
	}

	verifier, err := g.hasher.Hash(req.Password)
	if errors.Is(err, password.ErrTooLong) {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err != nil {
		return "", err
	}

	siteName := strings.TrimSpace(req.SiteName)
	if siteName == "" {
		siteName = g.defaults.Name
	}
	siteTagline := strings.TrimSpace(req.SiteTagline)
	if siteTagline == "" {
		siteTagline = g.defaults.Tagline
	}

	err = g.credentials.CreateOwner(ctx, &store.Owner{
		Username:         username,
		PasswordVerifier: verifier,
		SiteName:         siteName,
		SiteTagline:      siteTagline,
	})
	switch {
	case errors.Is(err, store.ErrOwnerExists):
		g.logger.Warn("claim lost to a concurrent claim", "username", username)
		return "", ErrAlreadyInitialized
	case errors.Is(err, store.ErrInvalidOwner):
		return "", ErrInvalidInput
	case err != nil:
		return "", storageFailure("creating owner", err)
	}

	token, err := g.sessions.Create(ctx, g.ttl)
	if err != nil {
		return "", storageFailure("creating session", err)
	}

	g.logger.Info("site claimed", "username", username, "site_name", siteName)
	return token, nil
}

// Login checks the owner's credentials and returns a new session token.
// Existing sessions stay valid. A plaintext verifier that matches is
// replaced by a hash before returning.
func (g *Gate) Login(ctx context.Context, username, plaintext string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(plaintext) == "" {
		return "", fmt.Errorf("%w: Username and password are required.", ErrInvalidInput)
	}

	owner, err := g.credentials.GetOwnerByUsername(ctx, username)
	if errors.Is(err, store.ErrOwnerNotFound) {
		g.hasher.Burn(plaintext)
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", storageFailure("loading owner", err)
	}

	if !g.hasher.Verify(plaintext, owner.PasswordVerifier) {
		return "", ErrInvalidCredentials
	}

	if password.IsLegacyPlaintext(owner.PasswordVerifier) {
		if err := g.upgradeVerifier(ctx, plaintext); err != nil {
			// The password already matched; the upgrade is retried on the next login
			g.logger.Warn("failed to upgrade plaintext password", "error", err)
		}
	}

	token, err := g.sessions.Create(ctx, g.ttl)
	if err != nil {
		return "", storageFailure("creating session", err)
	}

	g.logger.Info("owner login successful", "username", username)
	return token, nil
}

// upgradeVerifier hashes an already verified plaintext password and stores
// the hash in place of the plaintext verifier.
func (g *Gate) upgradeVerifier(ctx context.Context, plaintext string) error {
	hash, err := g.hasher.Hash(plaintext)
	if err != nil {
		return err
	}
	if err := g.credentials.UpdateOwnerPassword(ctx, hash); err != nil {
		return err
	}
	g.logger.Info("upgraded plaintext password to bcrypt", "cost", g.hasher.Cost())
	return nil
}

// Logout revokes token. It succeeds whether or not the token was valid.
func (g *Gate) Logout(ctx context.Context, token string) error {
	if err := g.sessions.Revoke(ctx, token); err != nil {
		return storageFailure("revoking session", err)
	}
	return nil
}

// RequireAuth returns nil when token authenticates and ErrUnauthorized
// when it does not.
func (g *Gate) RequireAuth(ctx context.Context, token string) error {
	ok, err := g.sessions.IsValid(ctx, token)
	if err != nil {
		return storageFailure("validating session", err)
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// UpdateConfig changes the site name and tagline on behalf of token.
func (g *Gate) UpdateConfig(ctx context.Context, token, siteName, siteTagline string) error {
	if err := g.RequireAuth(ctx, token); err != nil {
		return err
	}

	siteName = strings.TrimSpace(siteName)
	siteTagline = strings.TrimSpace(siteTagline)
	if siteName == "" || siteTagline == "" {
		return fmt.Errorf("%w: Site name and tagline are required.", ErrInvalidInput)
	}

	err := g.credentials.UpdateSiteConfig(ctx, siteName, siteTagline)
	switch {
	case errors.Is(err, store.ErrInvalidOwner):
		return ErrInvalidInput
	case errors.Is(err, store.ErrOwnerNotFound):
		// A session without an owner can only come from a hand-edited database
		return ErrUnauthorized
	case err != nil:
		return storageFailure("updating site config", err)
	}

	return nil
}
