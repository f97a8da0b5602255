// Package store provides persistent storage for humor using SQLite.
//
// # Architecture
//
// The store package splits persistence into small interfaces, one per table:
//
//   - CredentialStore: the single owner row and the site configuration on it
//   - SessionStore: issued session tokens
//   - PostStore: append-only blog posts
//
// Store combines them. SQLiteStore implements Store in a single struct;
// MockStore is the in-memory equivalent for unit tests.
//
// # Single owner
//
// The owner table is declared with
//
//	id INTEGER PRIMARY KEY CHECK (id = 1)
//
// and CreateOwner always inserts id 1. Two concurrent claims therefore race
// on the primary key inside SQLite; the loser gets ErrOwnerExists. No
// application-level lock is involved.
//
// # Sessions
//
// Sessions have a nullable expires_at column. Databases created before expiry
// existed get the column added by runMigrations, and their rows keep a NULL
// expiry, which Session.Expired treats as never expiring. The store does not
// enforce expiry; callers decide what an expired row means.
//
// # Timestamps
//
// Posts are stamped in SQLite's CURRENT_TIMESTAMP layout (UTC, seconds), so
// the feed order (created_at DESC, id DESC) works on rows from any version.
// Sessions use ISO-8601 with milliseconds. parseTimestamp reads either.
//
// # SQLite Configuration
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA busy_timeout=5000;  -- via the _pragma DSN parameter
//
// # Testing
//
// Use NewMockStore() for unit tests, and NewSQLiteStore on a path under
// t.TempDir() for integration tests with real SQLite.
package store
