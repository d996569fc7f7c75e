package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
	"github.com/pocketledger/pocketledger-go/internal/common"
	"github.com/pocketledger/pocketledger-go/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, c *models.Contact) error {
	query := `INSERT INTO contacts (id, name, email, phone, note, synced, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			note = excluded.note,
			synced = excluded.synced,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Note, c.Synced, c.UpdatedAt, c.DeletedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert contact: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Contact, error) {
	query := `SELECT id, name, email, phone, note, synced, updated_at, deleted_at FROM contacts`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select contacts: %w", err)
	}
	defer rows.Close()

	var result []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	query := `SELECT id, name, email, phone, note, synced, updated_at, deleted_at FROM contacts WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var c models.Contact
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Note, &c.Synced, &c.UpdatedAt, &c.DeletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select contact: %w", err)
	}
	return &c, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE contacts SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark contact synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return n, nil
}

func scanContact(rows *sql.Rows) (*models.Contact, error) {
	var c models.Contact
	if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Note, &c.Synced, &c.UpdatedAt, &c.DeletedAt); err != nil {
		return nil, fmt.Errorf("failed to scan contact row: %w", err)
	}
	return &c, nil
}
