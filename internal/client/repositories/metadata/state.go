package metadata

import (
	"context"
	"strconv"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
)

// Keys for the sync engine's process-wide state.
const (
	KeyHasHydrated = "has_hydrated_from_cloud"
	KeyLastPullAt  = "last_pull_at"
	KeyLastSyncAt  = "last_sync_at"
	KeyCloudUserID = "cloud_user_id"
)

// LoadDeviceState reads the bootstrap flags. Absent keys yield the zero state
// (never hydrated), which is what a fresh device should see.
func LoadDeviceState(ctx context.Context, r Repository) (models.DeviceState, error) {
	var state models.DeviceState

	hydrated, err := r.Get(ctx, KeyHasHydrated)
	if err != nil {
		return state, err
	}
	state.HasHydratedFromCloud = string(hydrated) == "1"

	raw, err := r.Get(ctx, KeyLastPullAt)
	if err != nil {
		return state, err
	}
	if len(raw) > 0 {
		if millis, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			state.LastPullAt = &millis
		}
	}

	return state, nil
}

// MarkHydrated records a completed full hydration at the given timestamp.
func MarkHydrated(ctx context.Context, r Repository, now int64) error {
	if err := r.Set(ctx, KeyHasHydrated, []byte("1")); err != nil {
		return err
	}
	return r.Set(ctx, KeyLastPullAt, []byte(strconv.FormatInt(now, 10)))
}

// StampLastSync records the completion time of a fully successful cycle.
func StampLastSync(ctx context.Context, r Repository, now int64) error {
	return r.Set(ctx, KeyLastSyncAt, []byte(strconv.FormatInt(now, 10)))
}

// CloudUserID returns the cached remote-scoped user id, "" when unbound.
func CloudUserID(ctx context.Context, r Repository) (string, error) {
	raw, err := r.Get(ctx, KeyCloudUserID)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func SetCloudUserID(ctx context.Context, r Repository, id string) error {
	return r.Set(ctx, KeyCloudUserID, []byte(id))
}
