// Package queue persists the mutation queue: an append-only, order-preserving
// log of pending create/update/delete intents, independent of the entity
// stores' current values.
package queue

import (
	"context"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
)

type Repository interface {
	// Enqueue appends item and fills in its Seq. No dedup or coalescing is
	// performed; replaying every queued op in order is the contract.
	Enqueue(ctx context.Context, item *models.QueueItem) error

	// PeekAll returns a snapshot copy of all items in enqueue order, so the
	// caller can iterate while the queue is being mutated.
	PeekAll(ctx context.Context) ([]models.QueueItem, error)

	// Remove deletes exactly one item by queue-item id. Idempotent if absent.
	Remove(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
}
