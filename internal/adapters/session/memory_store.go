package session

import (
	"context"
	"errors"
	"roadtrip-planner-web/internal/ports"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore keeps one itinerary slot per session in process memory.
// Entries expire after ttl of inactivity; a zero ttl keeps them forever.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	if sessionID == "" {
		return nil, errors.New("memory store load: session id is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return nil, ports.ErrNoItinerary
	}
	if s.expired(e) {
		delete(s.entries, sessionID)
		return nil, ports.ErrNoItinerary
	}

	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
		s.entries[sessionID] = e
	}

	out := make([]byte, len(e.payload))
	copy(out, e.payload)
	return out, nil
}

func (s *MemoryStore) Save(ctx context.Context, sessionID string, payload []byte) error {
	if sessionID == "" {
		return errors.New("memory store save: session id is empty")
	}
	if len(payload) == 0 {
		return errors.New("memory store save: payload is empty")
	}

	e := memoryEntry{payload: make([]byte, len(payload))}
	copy(e.payload, payload)
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[sessionID] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

// Sweep drops every expired entry and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}
