package sync

import (
	"context"

	"github.com/pocketledger/pocketledger-go/internal/client/repositories/metadata"
	"github.com/pocketledger/pocketledger-go/internal/client/storage"
)

// BootstrapDetector classifies the session as a new device (nothing local
// worth protecting) versus a returning one. New devices get a pull-only full
// hydration instead of the normal push-then-pull cycle.
type BootstrapDetector struct {
	repos *storage.Repositories
}

func NewBootstrapDetector(repos *storage.Repositories) *BootstrapDetector {
	return &BootstrapDetector{repos: repos}
}

// IsNewDevice is true iff the device never completed a full hydration, or
// all three local collections are empty.
func (d *BootstrapDetector) IsNewDevice(ctx context.Context) (bool, error) {
	state, err := metadata.LoadDeviceState(ctx, d.repos.Metadata)
	if err != nil {
		return false, err
	}
	if !state.HasHydratedFromCloud {
		return true, nil
	}

	for _, count := range []func(context.Context) (int, error){
		d.repos.Contacts.Count,
		d.repos.Transactions.Count,
		d.repos.Budgets.Count,
	} {
		n, err := count(ctx)
		if err != nil {
			return false, err
		}
		if n > 0 {
			return false, nil
		}
	}
	return true, nil
}
