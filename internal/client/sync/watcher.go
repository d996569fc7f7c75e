package sync

import (
	"context"
	"time"

	"github.com/pocketledger/pocketledger-go/internal/logging"
)

// Prober reports whether the remote endpoint is reachable right now.
type Prober interface {
	Online(ctx context.Context) bool
}

// Watcher polls a connectivity prober and feeds transitions into the
// coordinator. It also re-offers any deferred reconnect cycle on every
// online tick, so a cycle parked behind a missing credential fires as soon
// as one appears.
type Watcher struct {
	coord    *Coordinator
	prober   Prober
	interval time.Duration
	log      logging.Logger
}

func NewWatcher(coord *Coordinator, prober Prober, interval time.Duration, log logging.Logger) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Watcher{
		coord:    coord,
		prober:   prober,
		interval: interval,
		log:      log.With("component", "watcher"),
	}
}

// Run blocks until the context is cancelled. The first probe happens
// immediately rather than after the first interval.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Watcher) tick(ctx context.Context) {
	online := w.prober.Online(ctx)
	w.coord.SetOnline(ctx, online)
	if online {
		w.coord.TryReconnect(ctx)
	}
}
