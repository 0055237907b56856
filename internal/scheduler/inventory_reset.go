// Package scheduler owns the recurring end-of-day inventory reset.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// InventoryResetter is the single store operation the job needs.
type InventoryResetter interface {
	ResetInventory(ctx context.Context) (int64, error)
}

// InventoryReset fires once per calendar day at the configured local
// time and restores every product's stock to its maximum. A failed run
// is logged and the next day's run is scheduled regardless.
type InventoryReset struct {
	store  InventoryResetter
	log    *zap.Logger
	hour   int
	minute int

	now func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

func NewInventoryReset(store InventoryResetter, log *zap.Logger, hour, minute int) *InventoryReset {
	return &InventoryReset{
		store:  store,
		log:    log,
		hour:   hour,
		minute: minute,
		now:    time.Now,
	}
}

// nextRun returns the next occurrence of the configured time of day
// strictly after from.
func (r *InventoryReset) nextRun(from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), r.hour, r.minute, 0, 0, from.Location())
	if !next.After(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Start launches the background loop. It is a no-op if already running.
func (r *InventoryReset) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	r.started = true

	r.log.Info("inventory reset scheduler started",
		zap.Int("hour", r.hour), zap.Int("minute", r.minute))

	go r.loop(ctx)
}

func (r *InventoryReset) loop(ctx context.Context) {
	defer close(r.done)
	for {
		wait := time.Until(r.nextRun(r.now()))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single reset pass. Exported so operators can
// trigger it out of schedule.
func (r *InventoryReset) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	updated, err := r.store.ResetInventory(ctx)
	if err != nil {
		r.log.Error("inventory reset failed", zap.Error(err))
		return
	}
	r.log.Info("inventory reset completed", zap.Int64("productsUpdated", updated))
}

// Stop halts the loop and waits for it to exit.
func (r *InventoryReset) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return
	}
	r.cancel()
	<-r.done
	r.started = false
}
