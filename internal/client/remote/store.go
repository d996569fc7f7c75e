// Package remote is the boundary to the multi-tenant row-store: per-row
// upsert and delete, full snapshot reads, and the idempotent app-user
// binding. All calls carry the current bearer credential.
package remote

import (
	"context"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
)

// TokenFunc supplies the current bearer token for a request. The credential
// manager's FetchToken satisfies this signature.
type TokenFunc func(ctx context.Context) (string, error)

// Store is the remote row-store seen from the sync engine.
type Store interface {
	// EnsureUser upserts the app-user row keyed by the identity provider's
	// stable subject and returns the remote-scoped user id used to scope all
	// other calls. Idempotent and safe to repeat.
	EnsureUser(ctx context.Context, externalID string) (string, error)

	UpsertContact(ctx context.Context, userID string, c *models.Contact) error
	UpsertTransaction(ctx context.Context, userID string, t *models.Transaction) error
	UpsertBudget(ctx context.Context, userID string, b *models.Budget) error
	UpsertBudgetItem(ctx context.Context, userID string, i *models.BudgetItem) error

	// Delete removes one row by identifier within the user's scope.
	Delete(ctx context.Context, userID string, kind models.EntityKind, id string) error

	// Snapshot reads list every row owned by userID. Budgets come back with
	// their items joined in. All returned records are marked Synced=true.
	SnapshotContacts(ctx context.Context, userID string) ([]*models.Contact, error)
	SnapshotTransactions(ctx context.Context, userID string) ([]*models.Transaction, error)
	SnapshotBudgets(ctx context.Context, userID string) ([]*models.Budget, error)
}
