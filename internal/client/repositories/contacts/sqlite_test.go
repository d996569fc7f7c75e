package contacts

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
	"github.com/pocketledger/pocketledger-go/internal/common"
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
CREATE TABLE contacts (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  note TEXT NOT NULL DEFAULT '',
  synced INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL,
  deleted_at INTEGER
);
`)
	require.NoError(t, err)

	return db
}

func TestUpsert_InsertAndUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	c := &models.Contact{ID: "c1", Name: "Alice", Email: "alice@example.test"}
	c.Touch(100)
	require.NoError(t, r.Upsert(ctx, c))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.False(t, got.Synced)
	assert.EqualValues(t, 100, got.UpdatedAt)

	// update on the same id
	c.Name = "Alice B"
	c.Touch(200)
	require.NoError(t, r.Upsert(ctx, c))

	got, err = r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)
	assert.EqualValues(t, 200, got.UpdatedAt)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMarkSynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	c := &models.Contact{ID: "c1", Name: "Alice"}
	c.Touch(100)
	require.NoError(t, r.Upsert(ctx, c))

	require.NoError(t, r.MarkSynced(ctx, "c1"))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, got.Synced)
}

func TestDelete_And_Count(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, id := range []string{"c1", "c2"} {
		c := &models.Contact{ID: id, Name: id}
		c.Touch(1)
		require.NoError(t, r.Upsert(ctx, c))
	}

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, r.Delete(ctx, "c1"))

	n, err = r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "c2", all[0].ID)
}

func TestTombstoneRoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	c := &models.Contact{ID: "c1", Name: "Alice"}
	c.Tombstone(500)
	require.NoError(t, r.Upsert(ctx, c))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)
	assert.EqualValues(t, 500, *got.DeletedAt)
	assert.False(t, got.Synced)
}
