package ports

import (
	"context"
	"errors"
)

var ErrNoItinerary = errors.New("no itinerary cached for session")

// Port: the single itinerary slot of a browser session.
// Load returns ErrNoItinerary when the slot is empty or expired.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, payload []byte) error
	Clear(ctx context.Context, sessionID string) error
}
