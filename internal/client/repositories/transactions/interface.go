// Package transactions persists the local Transaction collection.
package transactions

import (
	"context"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*models.Transaction, error)
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	Upsert(ctx context.Context, t *models.Transaction) error
	MarkSynced(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
