// ABOUTME: JSON API handlers for status, setup, login, config, posts and inspiration
// ABOUTME: Translates gate and service errors into HTTP status codes

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/2389/humor/internal/auth"
	"github.com/2389/humor/internal/blog"
	"github.com/2389/humor/internal/store"
)

// errInvalidJSON marks a body that could not be decoded.
var errInvalidJSON = errors.New("invalid JSON body")

// SiteConfigResponse is the site identity as served to clients.
type SiteConfigResponse struct {
	SiteName    string `json:"site_name"`
	SiteTagline string `json:"site_tagline"`
}

// StatusResponse is the JSON response for GET /api/status.
type StatusResponse struct {
	Initialized   bool               `json:"initialized"`
	Authenticated bool               `json:"authenticated"`
	Config        SiteConfigResponse `json:"config"`
}

// SetupRequest is the JSON request body for POST /api/setup.
type SetupRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	SiteName    string `json:"site_name"`
	SiteTagline string `json:"site_tagline"`
}

// SetupResponse is the JSON response for POST /api/setup.
type SetupResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// LoginRequest is the JSON request body for POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the JSON response for POST /api/login.
type LoginResponse struct {
	Token string `json:"token"`
}

// SuccessResponse acknowledges a request with no other result.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// UpdateConfigRequest is the JSON request body for POST /api/config.
type UpdateConfigRequest struct {
	SiteName    string `json:"site_name"`
	SiteTagline string `json:"site_tagline"`
}

// CreatePostRequest is the JSON request body for POST /api/posts.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// handleStatus handles GET /api/status. It never rejects a bad token; it
// just reports authenticated=false.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.gate.Status(r.Context(), auth.TokenFromRequest(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, StatusResponse{
		Initialized:   status.Initialized,
		Authenticated: status.Authenticated,
		Config: SiteConfigResponse{
			SiteName:    status.Config.Name,
			SiteTagline: status.Config.Tagline,
		},
	})
}

// handleSetup handles POST /api/setup, claiming an uninitialized site.
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req SetupRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.gate.Claim(r.Context(), auth.ClaimRequest{
		Username:    req.Username,
		Password:    req.Password,
		SiteName:    req.SiteName,
		SiteTagline: req.SiteTagline,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, SetupResponse{Success: true, Token: token})
}

// handleLogin handles POST /api/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.gate.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// handleLogout handles POST /api/logout. Unknown or missing tokens succeed.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.gate.Logout(r.Context(), auth.TokenFromRequest(r)); err != nil {
		s.writeError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleUpdateConfig handles POST /api/config.
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)
	if err := s.gate.RequireAuth(r.Context(), token); err != nil {
		s.writeError(w, err)
		return
	}

	var req UpdateConfigRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.gate.UpdateConfig(r.Context(), token, req.SiteName, req.SiteTagline); err != nil {
		s.writeError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleListPosts handles GET /api/posts. Supports an optional ?limit=N.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.sendJSONError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	items, err := s.blog.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, items)
}

// handleGetPost handles GET /api/posts/{id}.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	item, err := s.blog.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, item)
}

// handleCreatePost handles POST /api/posts. The owner check runs in
// middleware before this handler.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	item, err := s.blog.Create(r.Context(), req.Title, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, item)
}

// handleInspiration handles GET /api/inspiration. It always answers 200.
func (s *Server) handleInspiration(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, s.inspiration.Prompts(r.Context()))
}

// decodeJSON reads a size-limited JSON body into v. An empty body leaves v
// at its zero value so the usual "required" validation answers.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return tooLarge
	}
	return errInvalidJSON
}

// writeError maps err to a status code and writes it as a JSON error.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		s.sendJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large.")
	case errors.Is(err, errInvalidJSON):
		s.sendJSONError(w, http.StatusBadRequest, "Invalid JSON body.")
	case errors.Is(err, blog.ErrInvalidPost):
		s.sendJSONError(w, http.StatusBadRequest, detail(err, "Title and content are required."))
	case errors.Is(err, store.ErrNotFound):
		s.sendJSONError(w, http.StatusNotFound, "Not found.")
	default:
		auth.WriteError(w, s.logger, err)
	}
}

// detail returns the text after the sentinel prefix of a wrapped error.
func detail(err error, fallback string) string {
	if _, msg, ok := strings.Cut(err.Error(), ": "); ok && msg != "" {
		return msg
	}
	return fallback
}

// sendJSON writes v as a JSON response with the given status.
func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// sendJSONError writes a JSON error response.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, map[string]string{"error": message})
}
