// Package contacts persists the local Contact collection.
package contacts

import (
	"context"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
)

// Repository is the local contact store. Upsert writes every field including
// sync metadata; callers own the dirty-flag discipline.
type Repository interface {
	GetAll(ctx context.Context) ([]*models.Contact, error)
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	Upsert(ctx context.Context, c *models.Contact) error
	MarkSynced(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
