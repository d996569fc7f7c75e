package transactions

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
	"github.com/pocketledger/pocketledger-go/internal/common"
	"github.com/shopspring/decimal"
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
CREATE TABLE transactions (
  id TEXT PRIMARY KEY,
  contact_id TEXT,
  title TEXT NOT NULL,
  amount TEXT NOT NULL,
  kind TEXT NOT NULL,
  occurred_at INTEGER NOT NULL,
  note TEXT NOT NULL DEFAULT '',
  synced INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL,
  deleted_at INTEGER
);
`)
	require.NoError(t, err)

	return db
}

func TestUpsert_RoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	contactID := "c1"
	txn := &models.Transaction{
		ID:         "t1",
		ContactID:  &contactID,
		Title:      "groceries",
		Amount:     decimal.RequireFromString("42.50"),
		Kind:       models.KindExpense,
		OccurredAt: 1000,
	}
	txn.Touch(100)
	require.NoError(t, r.Upsert(ctx, txn))

	got, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "groceries", got.Title)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, models.KindExpense, got.Kind)
	require.NotNil(t, got.ContactID)
	assert.Equal(t, "c1", *got.ContactID)
	assert.False(t, got.Synced)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMarkSynced_And_Delete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	txn := &models.Transaction{ID: "t1", Title: "salary", Amount: decimal.NewFromInt(1500), Kind: models.KindIncome}
	txn.Touch(1)
	require.NoError(t, r.Upsert(ctx, txn))

	require.NoError(t, r.MarkSynced(ctx, "t1"))
	got, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, got.Synced)

	require.NoError(t, r.Delete(ctx, "t1"))
	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
