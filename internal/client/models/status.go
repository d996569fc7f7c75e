package models

// SyncStatus is the single process-wide value summarizing the most recent or
// in-progress sync cycle. It is the sole channel of user-visible sync state.
type SyncStatus string

const (
	// StatusIdle is the resting state: no cycle running and the last one,
	// if any, fully succeeded.
	StatusIdle    SyncStatus = "idle"
	StatusPulling SyncStatus = "pulling"
	StatusPushing SyncStatus = "pushing"
	StatusError   SyncStatus = "error"

	// StatusNeedsConfig and StatusNeedsLogin are sticky: they persist until
	// the triggering condition (missing token template, expired credential)
	// is resolved externally, and they suppress automatic sync attempts.
	StatusNeedsConfig SyncStatus = "needs_config"
	StatusNeedsLogin  SyncStatus = "needs_login"
)

// Sticky reports whether s blocks further automatic sync attempts.
func (s SyncStatus) Sticky() bool {
	return s == StatusNeedsConfig || s == StatusNeedsLogin
}

// DeviceState holds the process-wide flags the bootstrap detector reads.
// It is persisted alongside the entity stores.
type DeviceState struct {
	HasHydratedFromCloud bool
	LastPullAt           *int64
}
