package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"roadtrip-planner-web/internal/domain"
	"roadtrip-planner-web/internal/platform/obs"
	"roadtrip-planner-web/internal/ports"
	"strings"
	"time"
)

// ProgressEvent is published on every state change of a generation flow.
// Attempt is 1-based for display.
type ProgressEvent struct {
	Phase       string `json:"phase"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
	Message     string `json:"message,omitempty"`
	DelayMs     int64  `json:"delay_ms,omitempty"`
}

// EventAbandoned is the phase published when the caller goes away mid-flow.
const EventAbandoned = "abandoned"

// Terminal reports whether no further events follow for the flow.
func (e ProgressEvent) Terminal() bool {
	switch e.Phase {
	case PhaseSucceeded.String(), PhaseFailed.String(), EventAbandoned:
		return true
	}
	return false
}

type ProgressNotifier interface {
	Notify(sessionID string, ev ProgressEvent)
}

type NotifierFunc func(sessionID string, ev ProgressEvent)

func (f NotifierFunc) Notify(sessionID string, ev ProgressEvent) { f(sessionID, ev) }

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Orchestrator drives one generation flow per call: submit, retry with
// backoff, validate, and cache the payload in the session slot on success.
type Orchestrator struct {
	engine   ports.ItineraryEngine
	store    ports.SessionStore
	guard    *SlotGuard
	policy   RetryPolicy
	sleep    Sleeper
	now      func() time.Time
	notifier ProgressNotifier
}

type OrchestratorOption func(*Orchestrator)

func WithSleeper(s Sleeper) OrchestratorOption {
	return func(o *Orchestrator) { o.sleep = s }
}

func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

func WithNotifier(n ProgressNotifier) OrchestratorOption {
	return func(o *Orchestrator) { o.notifier = n }
}

func NewOrchestrator(
	engine ports.ItineraryEngine,
	store ports.SessionStore,
	guard *SlotGuard,
	policy RetryPolicy,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		engine: engine,
		store:  store,
		guard:  guard,
		policy: policy,
		sleep:  sleepCtx,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) EngineURL() string { return o.engine.BaseURL() }

// Generate runs the flow for one submission. It returns a *Failure when the
// engine could not produce a usable itinerary, domain.ErrInvalidTripRequest
// for bad input, ErrSessionBusy when the slot is already being written, and
// the context error when the caller went away mid-flow.
func (o *Orchestrator) Generate(
	ctx context.Context,
	sessionID string,
	req domain.TripRequest,
) (_ domain.Itinerary, err error) {
	defer obs.Time(ctx, "services.Generate")(&err)

	if err := req.Validate(o.now()); err != nil {
		return domain.Itinerary{}, err
	}

	if !o.guard.Acquire(sessionID) {
		return domain.Itinerary{}, ErrSessionBusy
	}
	defer o.guard.Release(sessionID)

	reqID := obs.RequestID(ctx)
	state := Begin()
	var result domain.Itinerary

	for {
		o.publish(sessionID, state)

		switch state.Phase {
		case PhaseAttempting:
			payload, callErr := o.engine.Generate(ctx, req)
			if ctxErr := ctx.Err(); ctxErr != nil {
				o.abandon(sessionID, state)
				return domain.Itinerary{}, fmt.Errorf("generate: abandoned: %w", ctxErr)
			}

			var outcome Outcome
			outcome, result = evaluate(payload, callErr)
			obs.GenerationAttempts.WithLabelValues(outcome.Label()).Inc()
			log.Printf(
				"req_id=%s op=generate.attempt attempt=%d/%d outcome=%s detail=%q",
				reqID, state.Attempt+1, o.policy.MaxAttempts(), outcome.Label(), outcome.Detail,
			)

			state = Advance(state, outcome, o.policy)

		case PhaseBackoff:
			if err := o.sleep(ctx, state.Delay); err != nil {
				o.abandon(sessionID, state)
				return domain.Itinerary{}, fmt.Errorf("generate: abandoned during backoff: %w", err)
			}
			state = Resume(state)

		case PhaseSucceeded:
			if err := o.store.Save(ctx, sessionID, result.Raw); err != nil {
				obs.GenerationResults.WithLabelValues("store_error").Inc()
				return domain.Itinerary{}, fmt.Errorf("generate: cache itinerary: %w", err)
			}
			obs.GenerationResults.WithLabelValues("succeeded").Inc()
			return result, nil

		case PhaseFailed:
			f := state.Failure
			f.Message = f.UserMessage(o.engine.BaseURL())
			obs.GenerationResults.WithLabelValues(string(f.Reason)).Inc()
			return domain.Itinerary{}, f

		default:
			return domain.Itinerary{}, fmt.Errorf("generate: unexpected state %s", state.Phase)
		}
	}
}

func (o *Orchestrator) publish(sessionID string, s State) {
	if o.notifier == nil {
		return
	}

	ev := ProgressEvent{
		Phase:       s.Phase.String(),
		Attempt:     s.Attempt + 1,
		MaxAttempts: o.policy.MaxAttempts(),
		Message:     s.Message,
		DelayMs:     s.Delay.Milliseconds(),
	}
	if s.Phase == PhaseFailed && s.Failure != nil {
		ev.Message = s.Failure.UserMessage(o.engine.BaseURL())
	}
	o.notifier.Notify(sessionID, ev)
}

// abandon closes the flow for progress subscribers so nothing stale is
// replayed to the next submission.
func (o *Orchestrator) abandon(sessionID string, s State) {
	if o.notifier == nil {
		return
	}
	o.notifier.Notify(sessionID, ProgressEvent{
		Phase:       EventAbandoned,
		Attempt:     s.Attempt + 1,
		MaxAttempts: o.policy.MaxAttempts(),
	})
}

// evaluate turns one engine call into an Outcome, parsing and validating the
// payload on success.
func evaluate(payload []byte, callErr error) (Outcome, domain.Itinerary) {
	if callErr != nil {
		var se *ports.StatusError
		if errors.As(callErr, &se) {
			return Outcome{Kind: OutcomeStatus, Status: se.Code, Detail: se.Detail()}, domain.Itinerary{}
		}

		var te *ports.TransportError
		if errors.As(callErr, &te) {
			return Outcome{Kind: OutcomeNetwork, Unreachable: te.Unreachable, Detail: te.Error()}, domain.Itinerary{}
		}

		return Outcome{Kind: OutcomeNetwork, Detail: callErr.Error()}, domain.Itinerary{}
	}

	it, err := domain.ParseItinerary(payload)
	if err != nil {
		return Outcome{Kind: OutcomeMalformed, Detail: err.Error()}, domain.Itinerary{}
	}

	report := domain.CheckAssets(it)
	if !report.OK() {
		missing := make([]string, 0, 2)
		if !report.BufferFund {
			missing = append(missing, "budget.buffer_fund")
		}
		if !report.DailyData {
			missing = append(missing, "itinerary_daily")
		}
		return Outcome{Kind: OutcomeIncomplete, Detail: "missing " + strings.Join(missing, ", ")}, domain.Itinerary{}
	}

	return Outcome{Kind: OutcomeOK}, it
}
