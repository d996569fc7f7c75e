package sync

import "github.com/pocketledger/pocketledger-go/internal/client/models"

// Outcome is the post-merge state of one entity collection: Merged holds
// every surviving record (the full set, so persisting it is a plain
// upsert-all), Removed lists identifiers whose tombstones were confirmed by
// the remote and must be hard-deleted.
type Outcome[T models.Syncable] struct {
	Merged  []T
	Removed []string
}

// Resolve reconciles a local set against a remote snapshot, keyed by
// identifier, using last-writer-wins on UpdatedAt:
//
//   - remote-only records are inserted, marked synced;
//   - records present on both sides keep whichever has the greater
//     UpdatedAt, marked synced — ties favor local, since local already
//     caused the divergence;
//   - local-only records with a tombstone are removed (the remote confirmed
//     the deletion by omitting them); without one they are kept untouched,
//     presumed created offline and not yet pushed.
//
// Re-running Resolve on its own output is a no-op: the losing branch is a
// self-assignment and insertion/removal only trigger on genuine absence.
func Resolve[T models.Syncable](local, remote []T) Outcome[T] {
	var out Outcome[T]

	remoteByID := make(map[string]T, len(remote))
	for _, r := range remote {
		remoteByID[r.EntityID()] = r
	}
	localIDs := make(map[string]struct{}, len(local))

	for _, l := range local {
		localIDs[l.EntityID()] = struct{}{}

		r, onRemote := remoteByID[l.EntityID()]
		if !onRemote {
			if l.Meta().Deleted() {
				out.Removed = append(out.Removed, l.EntityID())
			} else {
				out.Merged = append(out.Merged, l)
			}
			continue
		}

		if r.Meta().UpdatedAt > l.Meta().UpdatedAt {
			r.Meta().Synced = true
			out.Merged = append(out.Merged, r)
		} else {
			l.Meta().Synced = true
			out.Merged = append(out.Merged, l)
		}
	}

	for _, r := range remote {
		if _, known := localIDs[r.EntityID()]; !known {
			r.Meta().Synced = true
			out.Merged = append(out.Merged, r)
		}
	}

	return out
}

// BudgetOutcome extends Outcome with the item-level removals produced by
// nested resolution.
type BudgetOutcome struct {
	Merged       []*models.Budget
	Removed      []string
	RemovedItems []string
}

// ResolveBudgets applies Resolve at the budget level and then per-item,
// with one restriction: items are compared individually only when the
// parent budget was not wholesale replaced. A remote budget that wins the
// parent comparison brings its whole item set with it.
func ResolveBudgets(local, remote []*models.Budget) BudgetOutcome {
	var out BudgetOutcome

	remoteByID := make(map[string]*models.Budget, len(remote))
	for _, r := range remote {
		remoteByID[r.ID] = r
	}
	localIDs := make(map[string]struct{}, len(local))

	for _, l := range local {
		localIDs[l.ID] = struct{}{}

		r, onRemote := remoteByID[l.ID]
		if !onRemote {
			if l.Deleted() {
				out.Removed = append(out.Removed, l.ID)
			} else {
				out.Merged = append(out.Merged, l)
			}
			continue
		}

		if r.UpdatedAt > l.UpdatedAt {
			// wholesale replacement, nested items included
			r.Synced = true
			for _, item := range r.Items {
				item.Synced = true
			}
			out.Merged = append(out.Merged, r)
			out.RemovedItems = append(out.RemovedItems, itemsAbsentFrom(l.Items, r.Items)...)
			continue
		}

		l.Synced = true
		itemOutcome := Resolve(l.Items, r.Items)
		l.Items = itemOutcome.Merged
		out.Merged = append(out.Merged, l)
		out.RemovedItems = append(out.RemovedItems, itemOutcome.Removed...)
	}

	for _, r := range remote {
		if _, known := localIDs[r.ID]; !known {
			r.Synced = true
			for _, item := range r.Items {
				item.Synced = true
			}
			out.Merged = append(out.Merged, r)
		}
	}

	return out
}

// itemsAbsentFrom lists ids of old items that the replacement set no longer
// contains, so their local rows can be dropped alongside the replace.
func itemsAbsentFrom(old, replacement []*models.BudgetItem) []string {
	kept := make(map[string]struct{}, len(replacement))
	for _, item := range replacement {
		kept[item.ID] = struct{}{}
	}
	var gone []string
	for _, item := range old {
		if _, ok := kept[item.ID]; !ok {
			gone = append(gone, item.ID)
		}
	}
	return gone
}
