package models

import "encoding/json"

// EntityKind tags a queue item with the collection it targets. The set is
// closed; dispatch over it is an exhaustive switch, not string comparison
// against ad-hoc tags.
type EntityKind string

const (
	EntityContact     EntityKind = "contact"
	EntityTransaction EntityKind = "transaction"
	EntityBudget      EntityKind = "budget"
	EntityBudgetItem  EntityKind = "budget_item"
)

// Known reports whether k is one of the closed set of entity kinds. Items
// with unknown kinds are drained from the queue without a remote call.
func (k EntityKind) Known() bool {
	switch k {
	case EntityContact, EntityTransaction, EntityBudget, EntityBudgetItem:
		return true
	}
	return false
}

// QueueAction is the mutation intent recorded in the queue.
type QueueAction string

const (
	ActionCreate QueueAction = "create"
	ActionUpdate QueueAction = "update"
	ActionDelete QueueAction = "delete"
)

// QueueItem is one pending mutation. Payload is the full record snapshot
// taken at enqueue time for create/update and the bare identifier for delete.
// Seq is assigned by the queue store; items are pushed strictly in Seq order.
type QueueItem struct {
	ID       string
	Kind     EntityKind
	Action   QueueAction
	EntityID string
	Payload  json.RawMessage
	Seq      int64
}
