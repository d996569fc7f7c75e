package queue

import (
	"context"
	"fmt"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
	"github.com/pocketledger/pocketledger-go/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX. Enqueue order comes
// from the table's AUTOINCREMENT rowid, so Seq survives restarts.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, item *models.QueueItem) error {
	query := `INSERT INTO sync_queue (id, kind, action, entity_id, payload) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		item.ID, string(item.Kind), string(item.Action), item.EntityID, []byte(item.Payload))
	if err != nil {
		return fmt.Errorf("failed to enqueue mutation: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read queue seq: %w", err)
	}
	item.Seq = seq
	return nil
}

func (r *SQLiteRepository) PeekAll(ctx context.Context) ([]models.QueueItem, error) {
	query := `SELECT id, kind, action, entity_id, payload, seq FROM sync_queue ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select queue: %w", err)
	}
	defer rows.Close()

	var result []models.QueueItem
	for rows.Next() {
		var item models.QueueItem
		var kind, action string
		if err := rows.Scan(&item.ID, &kind, &action, &item.EntityID, &item.Payload, &item.Seq); err != nil {
			return nil, fmt.Errorf("failed to scan queue row: %w", err)
		}
		item.Kind = models.EntityKind(kind)
		item.Action = models.QueueAction(action)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove queue item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count queue: %w", err)
	}
	return n, nil
}
