package app

import (
	"context"
	"log"
	"time"

	"bites4life/internal/dashboard/client"
	"bites4life/internal/dashboard/state"
)

const (
	defaultPollInterval = 3 * time.Second
	maxBackoff          = 30 * time.Second
)

// Poller keeps a Store in step with the API.
type Poller struct {
	store    *state.Store
	fetcher  client.RiderFetcher
	interval time.Duration
	wake     chan struct{}
}

// NewPoller creates a poller. A non-positive interval selects the default.
func NewPoller(store *state.Store, fetcher client.RiderFetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		store:    store,
		fetcher:  fetcher,
		interval: interval,
		wake:     make(chan struct{}, 1),
	}
}

// Start refreshes the store once, so the first frame has data, then keeps it
// fresh from a background goroutine until ctx is cancelled. Consecutive
// failures stretch the wait exponentially up to maxBackoff.
func (p *Poller) Start(ctx context.Context) {
	_ = p.Refresh(ctx)
	go func() {
		for {
			wait := calculateBackoff(p.store.Snapshot().ConsecutiveFailures, p.interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-p.wake:
				timer.Stop()
			case <-timer.C:
			}
			_ = p.Refresh(ctx)
		}
	}()
}

// Trigger asks the running poller to refresh now. It never blocks.
func (p *Poller) Trigger() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Refresh fetches the board once and records the outcome.
func (p *Poller) Refresh(ctx context.Context) error {
	riders, err := p.fetcher.FetchRiders(ctx)
	if err != nil {
		p.store.Update(nil, err)
		log.Printf("rider poll failed: %v", err)
		return err
	}
	p.store.Update(riders, nil)
	return nil
}

// calculateBackoff doubles base for every consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
