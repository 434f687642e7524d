package progress

import (
	"roadtrip-planner-web/internal/services"
	"sync"
)

// Broker fans generation progress out to every subscriber of a session.
// It implements services.ProgressNotifier. Slow subscribers miss events
// rather than block the generation flow.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan services.ProgressEvent]struct{}
	last map[string]services.ProgressEvent
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan services.ProgressEvent]struct{}),
		last: make(map[string]services.ProgressEvent),
	}
}

// Subscribe registers a channel for the session. When a flow is already
// running its latest event is delivered first.
func (b *Broker) Subscribe(sessionID string) chan services.ProgressEvent {
	ch := make(chan services.ProgressEvent, 8)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan services.ProgressEvent]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	if ev, ok := b.last[sessionID]; ok {
		ch <- ev
	}
	return ch
}

func (b *Broker) Unsubscribe(sessionID string, ch chan services.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m := b.subs[sessionID]
	if _, ok := m[ch]; !ok {
		return
	}
	delete(m, ch)
	if len(m) == 0 {
		delete(b.subs, sessionID)
	}
	close(ch)
}

func (b *Broker) Notify(sessionID string, ev services.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ev.Terminal() {
		delete(b.last, sessionID)
	} else {
		b.last[sessionID] = ev
	}

	for ch := range b.subs[sessionID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers reports how many channels are open for the session.
func (b *Broker) Subscribers(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[sessionID])
}
