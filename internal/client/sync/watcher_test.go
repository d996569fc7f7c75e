package sync

import (
	"context"
	"testing"
	"time"

	"github.com/pocketledger/pocketledger-go/internal/logging"
	"github.com/stretchr/testify/assert"
)

type fakeProber struct{ online bool }

func (p *fakeProber) Online(ctx context.Context) bool { return p.online }

func TestWatcher_FeedsTransitions(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "app-sync")
	h.markHydrated(t)

	prober := &fakeProber{online: false}
	w := NewWatcher(h.coord, prober, time.Minute, logging.NewDiscardLogger())

	w.tick(ctx)
	assert.Zero(t, h.store.ensureCalls())

	prober.online = true
	w.tick(ctx)
	assert.Equal(t, 1, h.store.ensureCalls(), "reconnect cycle fired on the transition")

	w.tick(ctx)
	assert.Equal(t, 1, h.store.ensureCalls(), "steady online does not re-trigger")
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	h := newHarness(t, "app-sync")
	h.markHydrated(t)
	w := NewWatcher(h.coord, &fakeProber{online: true}, 10*time.Millisecond, logging.NewDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
