// ABOUTME: Server orchestrator that wires the store, gate and services into HTTP
// ABOUTME: Manages the listener, the session sweeper and graceful shutdown

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/2389/humor/internal/auth"
	"github.com/2389/humor/internal/blog"
	"github.com/2389/humor/internal/config"
	"github.com/2389/humor/internal/inspiration"
	"github.com/2389/humor/internal/password"
	"github.com/2389/humor/internal/store"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Server owns every long-lived component of a running humor instance.
type Server struct {
	config      *config.Config
	store       store.Store
	gate        *auth.Gate
	blog        *blog.Service
	inspiration *inspiration.Service
	handler     http.Handler
	httpServer  *http.Server
	logger      *slog.Logger

	// sweepCancel stops the session sweeper, if one was started
	sweepCancel context.CancelFunc
	sweepDone   chan struct{}
	closeOnce   sync.Once
}

// Option customizes a Server.
type Option func(*options)

type options struct {
	store  store.Store
	source inspiration.Source
	now    func() time.Time
}

// WithStore uses s instead of opening cfg.Database.Path.
func WithStore(s store.Store) Option {
	return func(o *options) { o.store = s }
}

// WithInspirationSource replaces the configured external command.
func WithInspirationSource(src inspiration.Source) Option {
	return func(o *options) { o.source = src }
}

// WithClock overrides the clock used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// initStore opens the SQLite database named in cfg.
func initStore(cfg *config.Config) (store.Store, error) {
	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return s, nil
}

// New creates a Server from cfg. The store is opened here; Run starts serving.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := o.store
	if s == nil {
		var err error
		s, err = initStore(cfg)
		if err != nil {
			return nil, err
		}
	}

	hasher, err := password.NewHasher(cfg.Auth.PasswordCost)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("creating password hasher: %w", err)
	}

	gate, err := auth.NewGate(auth.GateConfig{
		Credentials: s,
		Sessions:    s,
		Hasher:      hasher,
		SessionTTL:  auth.TTLFromHours(cfg.Auth.SessionTTLHours),
		DefaultSite: store.SiteConfig{Name: cfg.Site.Name, Tagline: cfg.Site.Tagline},
		Now:         o.now,
		Logger:      logger,
	})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("creating gate: %w", err)
	}

	source := o.source
	if source == nil {
		source = &inspiration.CommandSource{
			Command: cfg.Inspiration.Command,
			Args:    cfg.Inspiration.Args,
			Timeout: cfg.Inspiration.Timeout,
		}
	}

	srv := &Server{
		config: cfg,
		store:  s,
		gate:   gate,
		blog:   blog.NewService(s, logger),
		inspiration: inspiration.NewService(inspiration.Config{
			Source:   source,
			Limit:    cfg.Inspiration.Limit,
			CacheTTL: cfg.Inspiration.CacheTTL,
			Logger:   logger,
		}),
		logger: logger.With("component", "server"),
	}

	mux := http.NewServeMux()
	srv.registerRoutes(mux)
	srv.handler = Chain(
		RecoveryMiddleware(srv.logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger.With("component", "http")),
	)(mux)

	srv.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv, nil
}

// registerRoutes attaches every endpoint to mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health endpoint - no auth required
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/setup", s.handleSetup)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("POST /api/config", s.handleUpdateConfig)

	mux.HandleFunc("GET /api/posts", s.handleListPosts)
	mux.HandleFunc("GET /api/posts/{id}", s.handleGetPost)
	mux.Handle("POST /api/posts",
		auth.RequireOwnerHTTP(s.gate, s.logger)(http.HandlerFunc(s.handleCreatePost)))

	mux.HandleFunc("GET /api/inspiration", s.handleInspiration)
}

// Handler returns the fully wrapped HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Gate returns the authorization gate.
func (s *Server) Gate() *auth.Gate {
	return s.gate
}

// setupListener creates the TCP listener for the HTTP server.
func (s *Server) setupListener() (net.Listener, error) {
	s.logger.Info("starting server", "http_addr", s.config.Server.HTTPAddr)

	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		return nil, fmt.Errorf("listening on HTTP address: %w", err)
	}
	return ln, nil
}

// startServer starts the HTTP server in a goroutine, returning its error channel.
func (s *Server) startServer(ln net.Listener) chan error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// startSweeper launches the expired-session sweeper when configured.
func (s *Server) startSweeper() {
	interval := s.config.Auth.SweepInterval
	if interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.sweepCancel = cancel
	s.sweepDone = make(chan struct{})
	go func() {
		defer close(s.sweepDone)
		s.gate.Sessions().RunSweeper(ctx, interval)
	}()
}

// waitForShutdownSignal waits for context cancellation or server error.
func (s *Server) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	}
}

// Run starts serving and blocks until ctx is canceled or the listener fails.
// Returns nil on graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.setupListener()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.startSweeper()

	errCh := s.startServer(ln)
	serverErr := s.waitForShutdownSignal(ctx, errCh)

	shutdownErr := s.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// The caller's context is already canceled at this point.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown stops the HTTP server and releases the store. It is safe to call
// more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	s.closeOnce.Do(func() {
		s.logger.Info("shutting down server")

		errs = appendCloseError(errs, "HTTP shutdown", s.httpServer.Shutdown(ctx))

		if s.sweepCancel != nil {
			s.sweepCancel()
			<-s.sweepDone
		}

		s.inspiration.Close()
		errs = appendCloseError(errs, "store close", s.store.Close())
	})

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}
	return nil
}

// handleHealth returns 200 OK if the server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleRoot answers the bare root so a browser pointed at the API sees something.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Humor API is running. Try /api/status."))
}
