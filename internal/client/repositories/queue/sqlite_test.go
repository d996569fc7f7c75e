package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/pocketledger/pocketledger-go/internal/client/models"
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
CREATE TABLE sync_queue (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  kind TEXT NOT NULL,
  action TEXT NOT NULL,
  entity_id TEXT NOT NULL,
  payload BLOB NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func enqueue(t *testing.T, r *SQLiteRepository, kind models.EntityKind, action models.QueueAction, entityID string) *models.QueueItem {
	t.Helper()
	item := &models.QueueItem{
		ID:       uuid.NewString(),
		Kind:     kind,
		Action:   action,
		EntityID: entityID,
		Payload:  json.RawMessage(`{"id":"` + entityID + `"}`),
	}
	require.NoError(t, r.Enqueue(context.Background(), item))
	return item
}

func TestEnqueue_AssignsMonotonicSeq(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	a := enqueue(t, r, models.EntityContact, models.ActionCreate, "c1")
	b := enqueue(t, r, models.EntityContact, models.ActionUpdate, "c1")
	c := enqueue(t, r, models.EntityContact, models.ActionDelete, "c1")

	assert.Less(t, a.Seq, b.Seq)
	assert.Less(t, b.Seq, c.Seq)
}

func TestPeekAll_ReturnsEnqueueOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	enqueue(t, r, models.EntityContact, models.ActionCreate, "c1")
	enqueue(t, r, models.EntityTransaction, models.ActionCreate, "t1")
	enqueue(t, r, models.EntityContact, models.ActionUpdate, "c1")

	items, err := r.PeekAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, models.ActionCreate, items[0].Action)
	assert.Equal(t, "c1", items[0].EntityID)
	assert.Equal(t, "t1", items[1].EntityID)
	assert.Equal(t, models.ActionUpdate, items[2].Action)
}

func TestRemove_ExactlyOne_IdempotentIfAbsent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	a := enqueue(t, r, models.EntityContact, models.ActionCreate, "c1")
	enqueue(t, r, models.EntityContact, models.ActionUpdate, "c1")

	require.NoError(t, r.Remove(ctx, a.ID))
	require.NoError(t, r.Remove(ctx, a.ID)) // second remove is a no-op

	items, err := r.PeekAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.ActionUpdate, items[0].Action)
}

func TestEnqueue_NoCoalescing(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	// two updates against the same record both stay queued
	enqueue(t, r, models.EntityBudget, models.ActionUpdate, "b1")
	enqueue(t, r, models.EntityBudget, models.ActionUpdate, "b1")

	n, err := r.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
