// ABOUTME: Error taxonomy returned by the authorization gate
// ABOUTME: Store-level errors are translated here and never leak past the gate

package auth

import (
	"errors"
	"fmt"
)

// Gate errors
var (
	// ErrInvalidInput means a required field was missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyInitialized means the installation already has an owner.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized means the token is missing, expired or revoked.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStorageFailure wraps any unexpected persistence error.
	ErrStorageFailure = errors.New("storage failure")
)

// storageFailure wraps err so errors.Is(err, ErrStorageFailure) holds while
// the message still carries the cause for logs.
func storageFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageFailure, op, err)
}
