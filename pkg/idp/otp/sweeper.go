package otp

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically removes expired codes from a Store. It runs on its own
// ticker; racing with an in-flight validate is harmless because removal and
// consumption both hold the store lock.
type Sweeper struct {
	store    *Store
	interval time.Duration
	log      *zap.Logger
	stop     chan struct{}
	done     chan struct{}
}

// NewSweeper creates a sweeper for the store. A non-positive interval
// defaults to one minute.
func NewSweeper(store *Store, interval time.Duration, log *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or ctx is cancelled.
func (sw *Sweeper) Start(ctx context.Context) {
	go func() {
		defer close(sw.done)

		ticker := time.NewTicker(sw.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := sw.store.SweepExpired(); removed > 0 {
					sw.log.Debug("swept expired otp codes", zap.Int("removed", removed))
				}
			case <-sw.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop terminates the sweep loop and waits for it to exit.
func (sw *Sweeper) Stop() {
	close(sw.stop)
	<-sw.done
}
