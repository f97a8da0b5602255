// ABOUTME: Tests for SQLite store setup and schema migration
// ABOUTME: Covers directory creation, idempotent reopen and legacy sessions tables

package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	// Verify the database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestNewSQLiteStore_InMemory(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	has, err := store.HasOwner(context.Background())
	require.NoError(t, err)
	assert.False(t, has)
}

func TestNewSQLiteStore_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.CreateOwner(ctx, &Owner{Username: "alice", PasswordVerifier: "$2a$10$hash"}))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer second.Close()

	has, err := second.HasOwner(ctx)
	require.NoError(t, err)
	assert.True(t, has, "owner must survive a restart")
}

func TestRunMigrations_AddsExpiryToLegacySessions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "legacy.db")

	// Lay down the schema an install from before session expiry would have
	legacy, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = legacy.Exec(`
		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		INSERT INTO sessions (token) VALUES ('legacy-token');
	`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	var exists int
	err = store.db.QueryRow(`SELECT 1 FROM pragma_table_info('sessions') WHERE name = 'expires_at'`).Scan(&exists)
	require.NoError(t, err, "expires_at column should have been added")

	session, err := store.GetSession(context.Background(), "legacy-token")
	require.NoError(t, err)
	assert.Nil(t, session.ExpiresAt, "legacy rows have no expiry")
	assert.False(t, session.Expired(time.Now().Add(100*365*24*time.Hour)))
	assert.False(t, session.CreatedAt.IsZero(), "CURRENT_TIMESTAMP layout should parse")
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"sqlite current_timestamp", "2024-03-09 14:05:07", want},
		{"iso with millis", "2024-03-09T14:05:07.250Z", want.Add(250 * time.Millisecond)},
		{"rfc3339 offset", "2024-03-09T16:05:07+02:00", want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}

	_, err := parseTimestamp("yesterday")
	assert.Error(t, err)
}

// newTestStore creates a temporary SQLite store for testing.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
