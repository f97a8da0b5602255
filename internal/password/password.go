// ABOUTME: Password hashing and verification with bcrypt
// ABOUTME: Detects plaintext verifiers left over from before passwords were hashed

package password

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinCost is the lowest bcrypt work factor accepted.
const MinCost = 8

// DefaultCost is the work factor used when none is configured.
const DefaultCost = 12

// bcryptPrefix starts every bcrypt hash ($2a$, $2b$, $2y$).
const bcryptPrefix = "$2"

// Errors returned by the hasher.
var (
	ErrCostOutOfRange = errors.New("bcrypt cost out of range")
	ErrTooLong        = errors.New("password exceeds 72 bytes")
)

// dummyHash is compared against when there is no real verifier, so that a
// miss costs about as much time as a hit.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Hasher hashes and verifies passwords at a fixed bcrypt cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost.
func NewHasher(cost int) (*Hasher, error) {
	if cost < MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d (want %d-%d)", ErrCostOutOfRange, cost, MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

// Cost returns the configured work factor.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches verifier. Legacy plaintext
// verifiers are compared in constant time.
func (h *Hasher) Verify(plaintext, verifier string) bool {
	if IsLegacyPlaintext(verifier) {
		return subtle.ConstantTimeCompare([]byte(plaintext), []byte(verifier)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(verifier), []byte(plaintext)) == nil
}

// Burn performs a throwaway bcrypt comparison. Call it on paths that reject
// a login without reaching Verify.
func (h *Hasher) Burn(plaintext string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plaintext))
}

// IsLegacyPlaintext reports whether verifier was stored without hashing.
// Anything lacking the bcrypt prefix is plaintext.
func IsLegacyPlaintext(verifier string) bool {
	return !strings.HasPrefix(verifier, bcryptPrefix)
}
