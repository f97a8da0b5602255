// ABOUTME: Tests for session token issue, validation and sweeping
// ABOUTME: Uses a fake clock so expiry is deterministic

package auth

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/humor/internal/store"
)

func TestTTLFromHours(t *testing.T) {
	assert.Equal(t, 168*time.Hour, TTLFromHours(168))
	assert.Equal(t, 30*time.Minute, TTLFromHours(0.5))
	assert.Equal(t, 1080*time.Millisecond, TTLFromHours(0.0003))
}

func TestSessions_CreateProducesUniqueHexTokens(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(store.NewMockStore(), nil, nil)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := sessions.Create(ctx, time.Hour)
		require.NoError(t, err)

		raw, err := hex.DecodeString(token)
		require.NoError(t, err)
		assert.Len(t, raw, tokenBytes)
		assert.False(t, seen[token], "duplicate token %s", token)
		seen[token] = true
	}
}

func TestSessions_CreateRecordsExpiry(t *testing.T) {
	ctx := context.Background()
	s := store.NewMockStore()
	clock := newFakeClock()
	sessions := NewSessions(s, clock.Now, nil)

	token, err := sessions.Create(ctx, 2*time.Hour)
	require.NoError(t, err)

	session, err := s.GetSession(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, session.ExpiresAt)
	assert.True(t, session.ExpiresAt.Equal(clock.Now().Add(2*time.Hour)))
	assert.True(t, session.CreatedAt.Equal(clock.Now()))
}

func TestSessions_IsValidWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	s := store.NewMockStore()
	clock := newFakeClock()
	sessions := NewSessions(s, clock.Now, nil)

	// Rows written before expiry tracking carry no expiry and never lapse
	require.NoError(t, s.CreateSession(ctx, &store.Session{Token: "legacy", CreatedAt: clock.Now()}))

	clock.Advance(10 * 365 * 24 * time.Hour)
	ok, err := sessions.IsValid(ctx, "legacy")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessions_IsValidEmptyToken(t *testing.T) {
	s := store.NewMockStore()
	s.FailWith = assert.AnError
	sessions := NewSessions(s, nil, nil)

	// No store access for an empty token
	ok, err := sessions.IsValid(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessions_Sweep(t *testing.T) {
	ctx := context.Background()
	s := store.NewMockStore()
	clock := newFakeClock()
	sessions := NewSessions(s, clock.Now, nil)

	short, err := sessions.Create(ctx, time.Minute)
	require.NoError(t, err)
	long, err := sessions.Create(ctx, time.Hour)
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	n, err := sessions.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, s.SessionCount())

	_, err = s.GetSession(ctx, short)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	ok, err := sessions.IsValid(ctx, long)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessions_RunSweeper(t *testing.T) {
	s := store.NewMockStore()
	clock := newFakeClock()
	sessions := NewSessions(s, clock.Now, nil)

	_, err := sessions.Create(context.Background(), time.Minute)
	require.NoError(t, err)
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessions.RunSweeper(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return s.SessionCount() == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestSessions_RunSweeperDisabled(t *testing.T) {
	sessions := NewSessions(store.NewMockStore(), nil, nil)

	done := make(chan struct{})
	go func() {
		sessions.RunSweeper(context.Background(), 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled sweeper should return immediately")
	}
}
