package session

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendallhq/managerpro/internal/storage/kv"
)

const testPrefix = "kendall_manager_pro"

func newTestManager(t *testing.T) (*Manager, *kv.MemoryStore) {
	t.Helper()
	store := kv.NewMemoryStore()
	return NewManager(store, testPrefix), store
}

func TestStart_WritesMarkerAndExpiry(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }

	require.NoError(t, m.Start(ctx, 30*time.Minute))

	marker, err := store.Get(ctx, testPrefix+"_session")
	require.NoError(t, err)
	assert.Equal(t, []byte("active"), marker)

	expiryRaw, err := store.Get(ctx, testPrefix+"_session_expiry")
	require.NoError(t, err)
	expiry, err := strconv.ParseInt(string(expiryRaw), 10, 64)
	require.NoError(t, err)
	assert.Equal(t, start.Add(30*time.Minute).UnixMilli(), expiry)
}

func TestActive_ValidSession(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Start(ctx, 30*time.Minute))

	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestActive_NoSessionReturnsFalse(t *testing.T) {
	m, _ := newTestManager(t)

	active, err := m.Active(context.Background())
	require.NoError(t, err)
	assert.False(t, active)
}

func TestActive_ExpiredSessionIsClearedAndFalse(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }
	require.NoError(t, m.Start(ctx, 30*time.Minute))

	// Simulate now = start + 31 minutes.
	m.now = func() time.Time { return start.Add(31 * time.Minute) }

	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.False(t, active)

	// Both keys must be cleared.
	marker, _ := store.Get(ctx, testPrefix+"_session")
	expiry, _ := store.Get(ctx, testPrefix+"_session_expiry")
	assert.Nil(t, marker)
	assert.Nil(t, expiry)
}

func TestActive_ExactlyAtExpiryIsStillValid(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }
	require.NoError(t, m.Start(ctx, 30*time.Minute))

	m.now = func() time.Time { return start.Add(30 * time.Minute) }

	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestActive_MissingExpiryReturnsFalse(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, testPrefix+"_session", []byte("active")))

	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestActive_MalformedExpiryClearsSession(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, testPrefix+"_session", []byte("active")))
	require.NoError(t, store.Set(ctx, testPrefix+"_session_expiry", []byte("soon")))

	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.False(t, active)

	marker, _ := store.Get(ctx, testPrefix+"_session")
	assert.Nil(t, marker)
}

func TestEnd_IsIdempotent(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Start(ctx, time.Minute))
	require.NoError(t, m.End(ctx))
	require.NoError(t, m.End(ctx))

	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.False(t, active)
}
