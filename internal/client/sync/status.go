// Package sync is the synchronization engine: conflict resolution, bootstrap
// detection, and the coordinator that drives push/pull cycles against the
// remote store.
package sync

import (
	stdsync "sync"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
)

// StatusTracker holds the single process-wide sync status plus the last
// error's human-readable message. It is the only user-visible sync channel;
// the UI layer renders needs_login/needs_config as actionable prompts and
// error as a retryable banner.
type StatusTracker struct {
	mu      stdsync.Mutex
	status  models.SyncStatus
	lastErr string
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{status: models.StatusIdle}
}

func (t *StatusTracker) Set(s models.SyncStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = s
}

// SetError records a reported failure along with its message.
func (t *StatusTracker) SetError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = models.StatusError
	t.lastErr = err.Error()
}

func (t *StatusTracker) Status() models.SyncStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *StatusTracker) LastError() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// Blocked reports whether a sticky status is suppressing automatic syncs.
func (t *StatusTracker) Blocked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status.Sticky()
}

// Reset clears any status, sticky ones included. Called when the triggering
// condition was resolved externally (re-login, config fix).
func (t *StatusTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = models.StatusIdle
	t.lastErr = ""
}
