package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"roadtrip-planner-web/internal/domain"
	"strings"
)

// Contract for the remote planning engine that generates and refines itineraries.
// Each call is exactly one outbound request; retrying is the caller's job.
type ItineraryEngine interface {
	// Submit a trip request and return the raw itinerary payload.
	Generate(ctx context.Context, req domain.TripRequest) ([]byte, error)
	// Submit the current payload plus a free-text instruction and return the replacement payload.
	Refine(ctx context.Context, current json.RawMessage, instruction string) ([]byte, error)
	// Base URL the engine is reached at, for user-facing connectivity hints.
	BaseURL() string
}

// StatusError is returned when the engine answered with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("engine status %d: %s", e.Code, e.Detail())
}

// Detail extracts the `detail` string from a JSON error body, falling back to
// the raw body and then to the status text.
func (e *StatusError) Detail() string {
	var decoded struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal([]byte(e.Body), &decoded); err == nil && decoded.Detail != nil {
		if s, ok := decoded.Detail.(string); ok && s != "" {
			return s
		}
		if b, err := json.Marshal(decoded.Detail); err == nil {
			return string(b)
		}
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return http.StatusText(e.Code)
}

// TransportError is returned when the request never completed.
// Unreachable is set when the engine could not be connected to at all.
type TransportError struct {
	Op          string
	Unreachable bool
	Err         error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
