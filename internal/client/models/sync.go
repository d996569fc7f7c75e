// Package models defines the entity records the sync engine reconciles
// (contacts, transactions, budgets with line items), their sync metadata,
// the mutation queue item, and the process-wide sync state values.
package models

// SyncMeta is the synchronization bookkeeping carried by every entity record.
type SyncMeta struct {
	// Synced is true iff the record's current local value is known to match
	// the remote store.
	Synced bool `json:"synced"`

	// UpdatedAt is the wall-clock unix-millisecond timestamp of the last
	// local mutation. Conflict resolution compares these values.
	UpdatedAt int64 `json:"updatedAt"`

	// DeletedAt, when set, is a soft-delete tombstone. The record stays
	// present locally until the remote store confirms the deletion.
	DeletedAt *int64 `json:"deletedAt,omitempty"`
}

// Touch marks the record dirty after a local mutation.
func (m *SyncMeta) Touch(now int64) {
	m.Synced = false
	m.UpdatedAt = now
}

// Tombstone marks the record soft-deleted and dirty.
func (m *SyncMeta) Tombstone(now int64) {
	m.Synced = false
	m.UpdatedAt = now
	m.DeletedAt = &now
}

// Deleted reports whether the record carries a tombstone.
func (m *SyncMeta) Deleted() bool {
	return m.DeletedAt != nil
}

// Syncable is implemented by every entity record the conflict resolver
// handles.
type Syncable interface {
	EntityID() string
	Meta() *SyncMeta
}
