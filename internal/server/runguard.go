package server

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// runGuard serializes pipeline runs per user. A batch is processed one
// document at a time, so a second request for the same user while a run is
// in flight is rejected rather than queued.
type runGuard struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*semaphore.Weighted
}

func newRunGuard() *runGuard {
	return &runGuard{slots: make(map[uuid.UUID]*semaphore.Weighted)}
}

// tryAcquire reserves the run slot for the user.
// Returns false if a run is already in flight.
func (g *runGuard) tryAcquire(userID uuid.UUID) bool {
	g.mu.Lock()
	slot, ok := g.slots[userID]
	if !ok {
		slot = semaphore.NewWeighted(1)
		g.slots[userID] = slot
	}
	g.mu.Unlock()

	return slot.TryAcquire(1)
}

// release frees the run slot for the user.
func (g *runGuard) release(userID uuid.UUID) {
	g.mu.Lock()
	slot, ok := g.slots[userID]
	g.mu.Unlock()

	if ok {
		slot.Release(1)
	}
}
