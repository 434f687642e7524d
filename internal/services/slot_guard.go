package services

import (
	"errors"
	"sync"
)

// ErrSessionBusy is returned when a generation or refinement is already in
// flight for the session.
var ErrSessionBusy = errors.New("an itinerary request is already in flight for this session")

// SlotGuard enforces one writer at a time on a session's itinerary slot.
// Generation and refinement share one guard.
type SlotGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewSlotGuard() *SlotGuard {
	return &SlotGuard{active: make(map[string]struct{})}
}

// Acquire claims the slot for sessionID. It never blocks.
func (g *SlotGuard) Acquire(sessionID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[sessionID]; busy {
		return false
	}
	g.active[sessionID] = struct{}{}
	return true
}

func (g *SlotGuard) Release(sessionID string) {
	g.mu.Lock()
	delete(g.active, sessionID)
	g.mu.Unlock()
}

func (g *SlotGuard) Busy(sessionID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.active[sessionID]
	return busy
}
