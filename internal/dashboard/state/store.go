// Package state holds the latest board snapshot shared between the poller
// and the UI.
package state

import (
	"sync"
	"time"

	"bites4life/internal/dashboard/client"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Riders              []client.Rider
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Ringing returns the riders with an unanswered ring.
func (s Snapshot) Ringing() []client.Rider {
	var out []client.Rider
	for _, r := range s.Riders {
		if r.Ringing() {
			out = append(out, r)
		}
	}
	return out
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored riders. When err is non-nil the previous riders
// are kept and the failure is counted.
func (s *Store) Update(riders []client.Rider, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.Riders = cloneRiders(riders)
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Riders = cloneRiders(s.snapshot.Riders)
	return snap
}

func cloneRiders(riders []client.Rider) []client.Rider {
	if len(riders) == 0 {
		return nil
	}
	dup := make([]client.Rider, len(riders))
	copy(dup, riders)
	return dup
}
