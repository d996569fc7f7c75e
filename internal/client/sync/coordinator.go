package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pocketledger/pocketledger-go/internal/client/credentials"
	"github.com/pocketledger/pocketledger-go/internal/client/models"
	"github.com/pocketledger/pocketledger-go/internal/client/remote"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/budgets"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/contacts"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/metadata"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/transactions"
	"github.com/pocketledger/pocketledger-go/internal/client/storage"
	"github.com/pocketledger/pocketledger-go/internal/common"
	"github.com/pocketledger/pocketledger-go/internal/dbx"
	"github.com/pocketledger/pocketledger-go/internal/logging"
	"github.com/sethvargo/go-retry"
)

const (
	// pull timeouts retry with exponential backoff: 2s, 4s, 8s, then stop
	// until the next manual trigger.
	pullRetryBase = 2 * time.Second
	pullRetryCap  = 3
)

// Coordinator owns the sync cycle: guards, single-flight, push then pull,
// bootstrap hydration, and the public status. All entity-store and queue
// mutation goes through the repositories; the coordinator holds no entity
// state of its own.
type Coordinator struct {
	repos     *storage.Repositories
	store     remote.Store
	creds     *credentials.Manager
	status    *StatusTracker
	bootstrap *BootstrapDetector
	log       logging.Logger

	now func() time.Time

	enabled   atomic.Bool
	inFlight  atomic.Bool
	online    atomic.Bool
	reconnect atomic.Bool
}

func NewCoordinator(repos *storage.Repositories, store remote.Store, creds *credentials.Manager, log logging.Logger) *Coordinator {
	c := &Coordinator{
		repos:     repos,
		store:     store,
		creds:     creds,
		status:    NewStatusTracker(),
		bootstrap: NewBootstrapDetector(repos),
		log:       log.With("component", "coordinator"),
		now:       time.Now,
	}
	// assume reachable until the watcher reports otherwise, so a manual
	// trigger works without a running watcher
	c.online.Store(true)
	return c
}

// Status returns the status tracker, the sole user-visible sync channel.
func (c *Coordinator) Status() *StatusTracker {
	return c.status
}

// SetEnabled switches synchronization on or off. Disabling clears the
// cached credential; it is never kept around while sync is off.
func (c *Coordinator) SetEnabled(enabled bool) {
	c.enabled.Store(enabled)
	if !enabled {
		c.creds.Invalidate()
	}
}

// IdentityChanged handles a sign-in/sign-out/switch: the cached token and
// user binding are dropped, sticky statuses are cleared, and when an
// identity is present a fresh cycle is attempted.
func (c *Coordinator) IdentityChanged(ctx context.Context) {
	c.creds.Invalidate()
	c.status.Reset()
	if err := c.repos.Metadata.Delete(ctx, metadata.KeyCloudUserID); err != nil {
		c.log.Warn(ctx, "failed to clear cloud user binding", "error", err)
	}
	if c.creds.SignedIn() {
		c.runCycle(ctx)
	}
}

// Sync is the manual trigger. A silent skip (guards failed, another cycle in
// flight) returns nil; a reported failure is also reflected in the status.
func (c *Coordinator) Sync(ctx context.Context) error {
	_, err := c.runCycleErr(ctx)
	return err
}

// SetOnline feeds connectivity transitions. Coming back online schedules
// exactly one deferred full cycle; repeated flaps do not stack cycles.
func (c *Coordinator) SetOnline(ctx context.Context, online bool) {
	was := c.online.Swap(online)
	if online && !was {
		c.reconnect.Store(true)
		c.TryReconnect(ctx)
	}
}

// TryReconnect runs the deferred reconnect cycle if one is pending and the
// guards let it through. Called on the online transition and on each watcher
// tick while online, so the deferred cycle fires as soon as a credential and
// user binding become available.
func (c *Coordinator) TryReconnect(ctx context.Context) {
	if !c.reconnect.Load() {
		return
	}
	if c.runCycle(ctx) {
		c.reconnect.Store(false)
	}
}

// runCycle reports whether a cycle actually ran (even if it failed), as
// opposed to being silently skipped.
func (c *Coordinator) runCycle(ctx context.Context) bool {
	ran, _ := c.runCycleErr(ctx)
	return ran
}

func (c *Coordinator) runCycleErr(ctx context.Context) (bool, error) {
	if !c.guardsOK() {
		return false, nil
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return false, nil
	}
	defer c.inFlight.Store(false)

	if _, err := c.creds.FetchToken(ctx); err != nil {
		switch {
		case errors.Is(err, common.ErrConfigMissing):
			c.log.Warn(ctx, "token profile not provisioned, sync suspended")
			c.status.Set(models.StatusNeedsConfig)
			return true, err
		case errors.Is(err, common.ErrCredentialMissing):
			// signed out between guard and fetch: silent skip
			return false, nil
		default:
			c.status.SetError(err)
			return true, err
		}
	}

	err := c.cycle(ctx)
	if err == nil {
		if serr := metadata.StampLastSync(ctx, c.repos.Metadata, c.nowMillis()); serr != nil {
			c.log.Warn(ctx, "failed to stamp last sync", "error", serr)
		}
		c.status.Set(models.StatusIdle)
		return true, nil
	}

	if common.IsExpiryErr(err) {
		c.log.Warn(ctx, "credential expired and refresh did not recover", "error", err)
		c.creds.Invalidate()
		c.status.Set(models.StatusNeedsLogin)
	} else {
		c.log.Error(ctx, "sync cycle failed", "error", err)
		c.status.SetError(err)
	}
	return true, err
}

func (c *Coordinator) cycle(ctx context.Context) error {
	userID, err := c.ensureUser(ctx)
	if err != nil {
		return err
	}

	newDevice, err := c.bootstrap.IsNewDevice(ctx)
	if err != nil {
		return err
	}

	if newDevice {
		// nothing local worth protecting: hydrate, skip the push
		c.log.Info(ctx, "new device, running full hydration")
		if err := c.pull(ctx, userID); err != nil {
			return err
		}
		return metadata.MarkHydrated(ctx, c.repos.Metadata, c.nowMillis())
	}

	pushErr := c.push(ctx, userID)
	if pushErr != nil && common.IsExpiryErr(pushErr) {
		return pushErr
	}

	if !c.guardsOK() {
		return pushErr
	}
	if err := c.pull(ctx, userID); err != nil {
		return err
	}

	// item-level push failures surface after the pull completed; the items
	// stay queued for the next cycle
	return pushErr
}

func (c *Coordinator) guardsOK() bool {
	return c.enabled.Load() &&
		c.online.Load() &&
		c.creds.SignedIn() &&
		!c.status.Blocked()
}

// ensureUser resolves the remote-scoped user id, binding the app-user row on
// first contact. The binding is idempotent, so re-running it after a cleared
// cache is safe.
func (c *Coordinator) ensureUser(ctx context.Context) (string, error) {
	cached, err := metadata.CloudUserID(ctx, c.repos.Metadata)
	if err != nil {
		return "", err
	}
	if cached != "" {
		return cached, nil
	}

	var userID string
	err = c.creds.RetryOnceOnExpiry(ctx, func(ctx context.Context) error {
		id, err := c.store.EnsureUser(ctx, c.creds.ExternalID())
		if err != nil {
			return err
		}
		userID = id
		return nil
	})
	if err != nil {
		return "", err
	}

	if err := metadata.SetCloudUserID(ctx, c.repos.Metadata, userID); err != nil {
		return "", err
	}
	return userID, nil
}

// push drains the mutation queue in enqueue order. Expiry-class failures
// abort the remainder of the phase; anything else leaves the item queued and
// moves on.
func (c *Coordinator) push(ctx context.Context, userID string) error {
	c.status.Set(models.StatusPushing)

	items, err := c.repos.Queue.PeekAll(ctx)
	if err != nil {
		return err
	}

	var lastErr error
	pushed := 0
	for _, item := range items {
		if !item.Kind.Known() {
			c.log.Warn(ctx, "draining queue item with unknown kind", "kind", item.Kind)
			if err := c.repos.Queue.Remove(ctx, item.ID); err != nil {
				return err
			}
			continue
		}

		err := c.creds.RetryOnceOnExpiry(ctx, func(ctx context.Context) error {
			return c.pushItem(ctx, userID, &item)
		})
		if err != nil {
			if common.IsExpiryErr(err) {
				// abort the phase; everything not yet processed stays
				// queued in original order
				return err
			}
			c.log.Warn(ctx, "push item failed, keeping it queued",
				"kind", item.Kind, "action", item.Action, "entity", item.EntityID, "error", err)
			lastErr = err
			continue
		}

		if err := c.repos.Queue.Remove(ctx, item.ID); err != nil {
			return err
		}
		if item.Action != models.ActionDelete {
			if err := c.markSynced(ctx, item.Kind, item.EntityID); err != nil {
				return err
			}
		}
		pushed++
	}

	c.log.Info(ctx, "push complete", "pushed", pushed, "total", len(items))
	return lastErr
}

func (c *Coordinator) pushItem(ctx context.Context, userID string, item *models.QueueItem) error {
	if item.Action == models.ActionDelete {
		return c.store.Delete(ctx, userID, item.Kind, item.EntityID)
	}

	switch item.Kind {
	case models.EntityContact:
		var v models.Contact
		if err := json.Unmarshal(item.Payload, &v); err != nil {
			return fmt.Errorf("decode queued contact: %w", err)
		}
		return c.store.UpsertContact(ctx, userID, &v)
	case models.EntityTransaction:
		var v models.Transaction
		if err := json.Unmarshal(item.Payload, &v); err != nil {
			return fmt.Errorf("decode queued transaction: %w", err)
		}
		return c.store.UpsertTransaction(ctx, userID, &v)
	case models.EntityBudget:
		var v models.Budget
		if err := json.Unmarshal(item.Payload, &v); err != nil {
			return fmt.Errorf("decode queued budget: %w", err)
		}
		return c.store.UpsertBudget(ctx, userID, &v)
	case models.EntityBudgetItem:
		var v models.BudgetItem
		if err := json.Unmarshal(item.Payload, &v); err != nil {
			return fmt.Errorf("decode queued budget item: %w", err)
		}
		return c.store.UpsertBudgetItem(ctx, userID, &v)
	}
	return fmt.Errorf("unknown entity kind %q", item.Kind)
}

func (c *Coordinator) markSynced(ctx context.Context, kind models.EntityKind, id string) error {
	switch kind {
	case models.EntityContact:
		return c.repos.Contacts.MarkSynced(ctx, id)
	case models.EntityTransaction:
		return c.repos.Transactions.MarkSynced(ctx, id)
	case models.EntityBudget:
		return c.repos.Budgets.MarkSynced(ctx, id)
	case models.EntityBudgetItem:
		return c.repos.Budgets.MarkItemSynced(ctx, id)
	}
	return fmt.Errorf("unknown entity kind %q", kind)
}

// pull snapshots each entity type, resolves conflicts, and persists each
// collection's merge atomically. The first failure aborts the remaining
// pulls.
func (c *Coordinator) pull(ctx context.Context, userID string) error {
	c.status.Set(models.StatusPulling)

	if err := c.pullContacts(ctx, userID); err != nil {
		return err
	}
	if err := c.pullTransactions(ctx, userID); err != nil {
		return err
	}
	return c.pullBudgets(ctx, userID)
}

func (c *Coordinator) pullContacts(ctx context.Context, userID string) error {
	var snapshot []*models.Contact
	err := c.fetchWithBackoff(ctx, func(ctx context.Context) error {
		s, err := c.store.SnapshotContacts(ctx, userID)
		if err != nil {
			return err
		}
		snapshot = s
		return nil
	})
	if err != nil {
		return err
	}

	local, err := c.repos.Contacts.GetAll(ctx)
	if err != nil {
		return err
	}
	out := Resolve(local, snapshot)

	return dbx.WithTx(ctx, c.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := contacts.NewSQLiteRepository(tx)
		for _, rec := range out.Merged {
			if err := repo.Upsert(ctx, rec); err != nil {
				return err
			}
		}
		for _, id := range out.Removed {
			if err := repo.Delete(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Coordinator) pullTransactions(ctx context.Context, userID string) error {
	var snapshot []*models.Transaction
	err := c.fetchWithBackoff(ctx, func(ctx context.Context) error {
		s, err := c.store.SnapshotTransactions(ctx, userID)
		if err != nil {
			return err
		}
		snapshot = s
		return nil
	})
	if err != nil {
		return err
	}

	local, err := c.repos.Transactions.GetAll(ctx)
	if err != nil {
		return err
	}
	out := Resolve(local, snapshot)

	return dbx.WithTx(ctx, c.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := transactions.NewSQLiteRepository(tx)
		for _, rec := range out.Merged {
			if err := repo.Upsert(ctx, rec); err != nil {
				return err
			}
		}
		for _, id := range out.Removed {
			if err := repo.Delete(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Coordinator) pullBudgets(ctx context.Context, userID string) error {
	var snapshot []*models.Budget
	err := c.fetchWithBackoff(ctx, func(ctx context.Context) error {
		s, err := c.store.SnapshotBudgets(ctx, userID)
		if err != nil {
			return err
		}
		snapshot = s
		return nil
	})
	if err != nil {
		return err
	}

	local, err := c.repos.Budgets.GetAll(ctx)
	if err != nil {
		return err
	}
	out := ResolveBudgets(local, snapshot)

	return dbx.WithTx(ctx, c.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := budgets.NewSQLiteRepository(tx)
		for _, id := range out.RemovedItems {
			if err := repo.DeleteItem(ctx, id); err != nil {
				return err
			}
		}
		for _, b := range out.Merged {
			if err := repo.Upsert(ctx, b); err != nil {
				return err
			}
			for _, item := range b.Items {
				if err := repo.UpsertItem(ctx, item); err != nil {
					return err
				}
			}
		}
		for _, id := range out.Removed {
			if err := repo.Delete(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// fetchWithBackoff wraps a snapshot read with the refresh-once combinator
// and a timeout backoff. Only timeouts retry, and only while the monitor
// still reports the network as reachable.
func (c *Coordinator) fetchWithBackoff(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(pullRetryCap, retry.NewExponential(pullRetryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.creds.RetryOnceOnExpiry(ctx, fn)
		if err != nil && errors.Is(err, common.ErrTimeout) && c.online.Load() {
			c.log.Warn(ctx, "snapshot timed out, backing off", "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Coordinator) nowMillis() int64 {
	return c.now().UnixMilli()
}
