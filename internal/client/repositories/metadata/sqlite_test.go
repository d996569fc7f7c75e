package metadata

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
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestSetGetDeleteClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	v, err := r.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Set(ctx, "k", []byte("v1")))
	require.NoError(t, r.Set(ctx, "k", []byte("v2"))) // overwrite

	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)

	require.NoError(t, r.Delete(ctx, "k"))
	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Set(ctx, "a", []byte("1")))
	require.NoError(t, r.Set(ctx, "b", []byte("2")))
	require.NoError(t, r.Clear(ctx))
	v, err = r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDeviceStateRoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	state, err := LoadDeviceState(ctx, r)
	require.NoError(t, err)
	assert.False(t, state.HasHydratedFromCloud)
	assert.Nil(t, state.LastPullAt)

	require.NoError(t, MarkHydrated(ctx, r, 12345))

	state, err = LoadDeviceState(ctx, r)
	require.NoError(t, err)
	assert.True(t, state.HasHydratedFromCloud)
	require.NotNil(t, state.LastPullAt)
	assert.EqualValues(t, 12345, *state.LastPullAt)
}

func TestCloudUserID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := CloudUserID(ctx, r)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, SetCloudUserID(ctx, r, "u-42"))
	id, err = CloudUserID(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "u-42", id)
}
