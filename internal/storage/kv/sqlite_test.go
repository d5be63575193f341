package kv

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kvstore (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSQLiteStore_SetAndGet(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k1", []byte("hello")))

	v, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), v)
}

func TestSQLiteStore_Get_AbsentKeyReturnsNilNil(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))

	v, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSQLiteStore_Set_UpsertOverwritesValue(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("old")))
	require.NoError(t, s.Set(ctx, "k", []byte("new")))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestSQLiteStore_Remove_IsIdempotent(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "x", []byte{0x01}))
	require.NoError(t, s.Remove(ctx, "x"))

	v, err := s.Get(ctx, "x")
	require.NoError(t, err)
	require.Nil(t, v)

	// Removing again must not fail.
	require.NoError(t, s.Remove(ctx, "x"))
}

func TestSQLiteStore_ErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	s := NewSQLiteStore(db)
	ctx := context.Background()

	// Close the DB to force driver errors.
	require.NoError(t, db.Close())

	_, err := s.Get(ctx, "k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to get kvstore[k]")

	err = s.Set(ctx, "k", []byte("v"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to set kvstore[k]")

	err = s.Remove(ctx, "k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to remove kvstore[k]")
}
