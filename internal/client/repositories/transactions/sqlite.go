package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
	"github.com/pocketledger/pocketledger-go/internal/common"
	"github.com/pocketledger/pocketledger-go/internal/dbx"
	"github.com/shopspring/decimal"
)

// SQLiteRepository implements Repository over a DBTX. Amounts are stored as
// decimal strings to avoid float drift.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, t *models.Transaction) error {
	query := `INSERT INTO transactions (id, contact_id, title, amount, kind, occurred_at, note, synced, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET contact_id = excluded.contact_id,
			title = excluded.title,
			amount = excluded.amount,
			kind = excluded.kind,
			occurred_at = excluded.occurred_at,
			note = excluded.note,
			synced = excluded.synced,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.ContactID, t.Title, t.Amount.String(), string(t.Kind), t.OccurredAt, t.Note,
		t.Synced, t.UpdatedAt, t.DeletedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Transaction, error) {
	query := `SELECT id, contact_id, title, amount, kind, occurred_at, note, synced, updated_at, deleted_at FROM transactions`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	var result []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT id, contact_id, title, amount, kind, occurred_at, note, synced, updated_at, deleted_at FROM transactions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	t, err := scanTransaction(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transactions SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark transaction synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

func scanTransaction(scan func(dest ...any) error) (*models.Transaction, error) {
	var t models.Transaction
	var amount, kind string
	if err := scan(&t.ID, &t.ContactID, &t.Title, &amount, &kind, &t.OccurredAt, &t.Note,
		&t.Synced, &t.UpdatedAt, &t.DeletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transaction row: %w", err)
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	t.Amount = parsed
	t.Kind = models.TransactionKind(kind)
	return &t, nil
}
