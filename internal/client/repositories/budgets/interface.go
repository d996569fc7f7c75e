// Package budgets persists the local Budget collection and its nested
// BudgetItem lines. Items live in their own table with their own sync
// metadata; a synced budget row says nothing about its items.
package budgets

import (
	"context"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
)

type Repository interface {
	// GetAll returns all budgets with their items loaded, items ordered by
	// position.
	GetAll(ctx context.Context) ([]*models.Budget, error)
	GetByID(ctx context.Context, id string) (*models.Budget, error)

	// Upsert writes the budget row only; items are written via UpsertItem.
	Upsert(ctx context.Context, b *models.Budget) error
	UpsertItem(ctx context.Context, i *models.BudgetItem) error

	MarkSynced(ctx context.Context, id string) error
	MarkItemSynced(ctx context.Context, id string) error

	// Delete removes the budget row and all of its item rows.
	Delete(ctx context.Context, id string) error
	DeleteItem(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
}
