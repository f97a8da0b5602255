// Package auth decides who may write to a humor site.
//
// # Lifecycle
//
// A fresh install has no owner. The first successful Claim creates the owner
// row and returns a session token; from then on the site is initialized and
// stays that way. Later, Login exchanges the owner's username and password
// for another token. Tokens are opaque 256-bit random strings stored in the
// sessions table, valid until they expire or are revoked by Logout.
//
// # Gate
//
// Gate is the single entry point used by the HTTP layer:
//
//	status, err := gate.Status(ctx, token)   // never fails on a bad token
//	token, err := gate.Claim(ctx, req)       // ErrAlreadyInitialized, ErrInvalidInput
//	token, err := gate.Login(ctx, user, pw)  // ErrInvalidCredentials, ErrInvalidInput
//	err := gate.Logout(ctx, token)           // idempotent
//	err := gate.RequireAuth(ctx, token)      // ErrUnauthorized
//
// Store errors are translated at the gate: a duplicate owner insert becomes
// ErrAlreadyInitialized, anything unexpected is wrapped in ErrStorageFailure.
//
// # Passwords
//
// Verifiers are bcrypt hashes. Installs from before hashing may still hold
// plaintext; Login detects it with password.IsLegacyPlaintext and rewrites the
// verifier as a hash after a successful match. If that rewrite fails the
// login still succeeds and the upgrade is tried again next time.
//
// # Expiry
//
// Sessions.IsValid deletes an expired row when it sees one. RunSweeper can
// additionally purge expired rows on an interval; it is disabled by default.
package auth
