package budgets

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

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, b *models.Budget) error {
	query := `INSERT INTO budgets (id, title, total_budget, period_start, period_end, synced, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title,
			total_budget = excluded.total_budget,
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			synced = excluded.synced,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Title, b.TotalBudget.String(), b.PeriodStart, b.PeriodEnd,
		b.Synced, b.UpdatedAt, b.DeletedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertItem(ctx context.Context, i *models.BudgetItem) error {
	query := `INSERT INTO budget_items (id, budget_id, title, amount, position, synced, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET budget_id = excluded.budget_id,
			title = excluded.title,
			amount = excluded.amount,
			position = excluded.position,
			synced = excluded.synced,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at
	`
	_, err := r.db.ExecContext(ctx, query,
		i.ID, i.BudgetID, i.Title, i.Amount.String(), i.Position,
		i.Synced, i.UpdatedAt, i.DeletedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert budget item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Budget, error) {
	query := `SELECT id, title, total_budget, period_start, period_end, synced, updated_at, deleted_at FROM budgets`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select budgets: %w", err)
	}
	defer rows.Close()

	var result []*models.Budget
	byID := make(map[string]*models.Budget)
	for rows.Next() {
		b, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
		byID[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.getAllItems(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if parent, ok := byID[item.BudgetID]; ok {
			parent.Items = append(parent.Items, item)
		}
	}

	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Budget, error) {
	query := `SELECT id, title, total_budget, period_start, period_end, synced, updated_at, deleted_at FROM budgets WHERE id = ?`
	b, err := scanBudget(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Items = items
	return b, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE budgets SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark budget synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkItemSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE budget_items SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark budget item synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budget_items WHERE budget_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete budget items: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteItem(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM budget_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM budgets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count budgets: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) getItems(ctx context.Context, budgetID string) ([]*models.BudgetItem, error) {
	query := `SELECT id, budget_id, title, amount, position, synced, updated_at, deleted_at
		FROM budget_items WHERE budget_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to select budget items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

func (r *SQLiteRepository) getAllItems(ctx context.Context) ([]*models.BudgetItem, error) {
	query := `SELECT id, budget_id, title, amount, position, synced, updated_at, deleted_at
		FROM budget_items ORDER BY budget_id, position`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select budget items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]*models.BudgetItem, error) {
	var result []*models.BudgetItem
	for rows.Next() {
		var i models.BudgetItem
		var amount string
		if err := rows.Scan(&i.ID, &i.BudgetID, &i.Title, &amount, &i.Position,
			&i.Synced, &i.UpdatedAt, &i.DeletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget item row: %w", err)
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
		}
		i.Amount = parsed
		result = append(result, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanBudget(scan func(dest ...any) error) (*models.Budget, error) {
	var b models.Budget
	var total string
	if err := scan(&b.ID, &b.Title, &total, &b.PeriodStart, &b.PeriodEnd,
		&b.Synced, &b.UpdatedAt, &b.DeletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan budget row: %w", err)
	}
	parsed, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("invalid stored total %q: %w", total, err)
	}
	b.TotalBudget = parsed
	return &b, nil
}
