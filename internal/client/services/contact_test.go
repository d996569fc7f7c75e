package services

import (
	"context"
	"testing"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
	"github.com/pocketledger/pocketledger-go/internal/client/storage"
	"github.com/pocketledger/pocketledger-go/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) *storage.Repositories {
	t.Helper()
	repos, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func TestContactService_CreateMarksDirtyAndQueues(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	svc := NewContactService(repos)

	c := &models.Contact{Name: "Alice", Email: "alice@example.com"}
	require.NoError(t, svc.Create(ctx, c))
	assert.NotEmpty(t, c.ID)

	got, err := repos.Contacts.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.Synced)
	assert.Positive(t, got.UpdatedAt)

	items, err := repos.Queue.PeekAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.ActionCreate, items[0].Action)
	assert.Equal(t, c.ID, items[0].EntityID)
	assert.JSONEq(t, string(items[0].Payload), mustMarshal(t, got))
}

func TestContactService_UpdateQueuesSeparately(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	svc := NewContactService(repos)

	c := &models.Contact{Name: "Alice"}
	require.NoError(t, svc.Create(ctx, c))
	c.Name = "Alicia"
	require.NoError(t, svc.Update(ctx, c))

	// no coalescing: both intents replay in order
	items, err := repos.Queue.PeekAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.ActionCreate, items[0].Action)
	assert.Equal(t, models.ActionUpdate, items[1].Action)
}

func TestContactService_DeleteTombstonesAndHides(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	svc := NewContactService(repos)

	c := &models.Contact{Name: "Alice"}
	require.NoError(t, svc.Create(ctx, c))
	require.NoError(t, svc.Delete(ctx, c.ID))

	// the row survives as a tombstone until sync confirms
	got, err := repos.Contacts.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted())
	assert.False(t, got.Synced)

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestContactService_DeleteUnknownID(t *testing.T) {
	ctx := context.Background()
	svc := NewContactService(newTestRepos(t))

	err := svc.Delete(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
