package services

import (
	"context"
	"errors"
	"fmt"
	"roadtrip-planner-web/internal/domain"
	"roadtrip-planner-web/internal/platform/obs"
	"roadtrip-planner-web/internal/ports"
	"strings"
)

// RefineNotice is the only thing a user is told when a refinement fails.
const RefineNotice = "Genie encountered an issue. Please try again."

var ErrEmptyInstruction = errors.New("refinement instruction is empty")

// RefinementError wraps any engine-side refinement failure. The cached
// itinerary is untouched whenever one is returned.
type RefinementError struct {
	Err error
}

func (e *RefinementError) Error() string { return "refinement failed: " + e.Err.Error() }

func (e *RefinementError) Unwrap() error { return e.Err }

// Refiner re-submits the cached itinerary with a free-text instruction and
// replaces the session slot with the result. It never retries.
type Refiner struct {
	engine ports.ItineraryEngine
	store  ports.SessionStore
	guard  *SlotGuard
}

func NewRefiner(engine ports.ItineraryEngine, store ports.SessionStore, guard *SlotGuard) *Refiner {
	return &Refiner{engine: engine, store: store, guard: guard}
}

func (r *Refiner) Refine(
	ctx context.Context,
	sessionID string,
	instruction string,
) (_ domain.Itinerary, err error) {
	defer obs.Time(ctx, "services.Refine")(&err)

	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return domain.Itinerary{}, ErrEmptyInstruction
	}

	if !r.guard.Acquire(sessionID) {
		obs.RefinementResults.WithLabelValues("busy").Inc()
		return domain.Itinerary{}, ErrSessionBusy
	}
	defer r.guard.Release(sessionID)

	current, err := r.store.Load(ctx, sessionID)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("refine: load current itinerary: %w", err)
	}

	payload, err := r.engine.Refine(ctx, current, instruction)
	if err != nil {
		obs.RefinementResults.WithLabelValues("engine_error").Inc()
		return domain.Itinerary{}, &RefinementError{Err: err}
	}

	it, err := domain.ParseItinerary(payload)
	if err != nil {
		obs.RefinementResults.WithLabelValues("malformed").Inc()
		return domain.Itinerary{}, &RefinementError{Err: err}
	}

	if err := r.store.Save(ctx, sessionID, it.Raw); err != nil {
		obs.RefinementResults.WithLabelValues("store_error").Inc()
		return domain.Itinerary{}, &RefinementError{Err: fmt.Errorf("cache refined itinerary: %w", err)}
	}

	obs.RefinementResults.WithLabelValues("succeeded").Inc()
	return it, nil
}
