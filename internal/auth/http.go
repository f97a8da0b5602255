// ABOUTME: HTTP helpers for session tokens on API endpoints
// ABOUTME: Extracts the token from the Authorization header and guards write routes

package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// TokenFromRequest returns the session token carried by r. The header may
// hold the bare token, as the browser client sends it, or "Bearer <token>".
// Returns "" when absent.
func TokenFromRequest(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	if len(header) > len("bearer ") && strings.EqualFold(header[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return header
}

// StatusCode maps a gate error to the HTTP status it should produce.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyInitialized):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show a client for err.
// Storage and unexpected errors become an opaque message.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		var msg string
		if _, detail, ok := strings.Cut(err.Error(), ": "); ok {
			msg = detail
		}
		if msg == "" {
			msg = "Invalid input."
		}
		return msg
	case errors.Is(err, ErrAlreadyInitialized):
		return "Already initialized."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	default:
		return "Internal error"
	}
}

// WriteError writes err as a JSON error body with the mapped status.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := StatusCode(err)
	if status == http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": PublicMessage(err)})
}

// RequireOwnerHTTP creates an HTTP middleware that rejects requests whose
// token does not authenticate.
func RequireOwnerHTTP(gate *Gate, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := gate.RequireAuth(r.Context(), TokenFromRequest(r)); err != nil {
				WriteError(w, logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
