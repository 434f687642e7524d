package services

import (
	"net/http"
	"strconv"
	"time"
)

// Phase is where a generation flow currently is.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAttempting
	PhaseBackoff
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAttempting:
		return "attempting"
	case PhaseBackoff:
		return "backoff"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// OutcomeKind classifies how a single engine attempt ended.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeStatus
	OutcomeMalformed
	OutcomeIncomplete
	OutcomeNetwork
)

// Outcome is the result of one attempt, reduced to what the retry policy needs.
type Outcome struct {
	Kind        OutcomeKind
	Status      int
	Detail      string
	Unreachable bool
}

// Label is the metrics label for the outcome.
func (o Outcome) Label() string {
	switch o.Kind {
	case OutcomeOK:
		return "ok"
	case OutcomeStatus:
		return "status_" + strconv.Itoa(o.Status)
	case OutcomeMalformed:
		return "malformed"
	case OutcomeIncomplete:
		return "incomplete"
	case OutcomeNetwork:
		if o.Unreachable {
			return "unreachable"
		}
		return "network"
	}
	return "unknown"
}

// RetryPolicy bounds the retry loop. Attempts total MaxRetries+1.
type RetryPolicy struct {
	MaxRetries    int
	RetryDelay    time.Duration
	QuotaDelay    time.Duration
	RetryMessages []string
	QuotaMessage  string
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		RetryDelay: 2 * time.Second,
		QuotaDelay: 5 * time.Second,
		RetryMessages: []string{
			"Optimizing vehicle-terrain compatibility...",
			"Fine-tuning photography parameters...",
			"Deep-scanning geological observation points...",
		},
		QuotaMessage: "Genie is calibrating global road data...",
	}
}

func (p RetryPolicy) MaxAttempts() int { return p.MaxRetries + 1 }

// State is one node of the generation state machine:
// Idle → Attempting(n) → {Succeeded | Backoff(n) → Attempting(n+1) | Failed}.
// Attempt is zero-based.
type State struct {
	Phase   Phase
	Attempt int
	Delay   time.Duration
	Message string
	Failure *Failure
}

func (s State) Terminal() bool {
	return s.Phase == PhaseSucceeded || s.Phase == PhaseFailed
}

// Begin starts a flow at the first attempt.
func Begin() State {
	return State{Phase: PhaseAttempting, Attempt: 0}
}

// Advance applies an attempt outcome. States other than Attempting are returned unchanged.
func Advance(s State, o Outcome, p RetryPolicy) State {
	if s.Phase != PhaseAttempting {
		return s
	}

	if o.Kind == OutcomeOK {
		return State{Phase: PhaseSucceeded, Attempt: s.Attempt}
	}

	if retryable(o) && s.Attempt < p.MaxRetries {
		next := State{Phase: PhaseBackoff, Attempt: s.Attempt, Delay: p.RetryDelay}
		if o.Kind == OutcomeStatus && o.Status == http.StatusTooManyRequests {
			next.Delay = p.QuotaDelay
			next.Message = p.QuotaMessage
			return next
		}
		next.Message = retryMessage(p.RetryMessages, s.Attempt)
		return next
	}

	return State{Phase: PhaseFailed, Attempt: s.Attempt, Failure: classify(o)}
}

// Resume ends a backoff and moves to the next attempt.
func Resume(s State) State {
	if s.Phase != PhaseBackoff {
		return s
	}
	return State{Phase: PhaseAttempting, Attempt: s.Attempt + 1}
}

func retryable(o Outcome) bool {
	switch o.Kind {
	case OutcomeMalformed, OutcomeIncomplete, OutcomeNetwork:
		return true
	case OutcomeStatus:
		return o.Status == http.StatusInternalServerError || o.Status == http.StatusTooManyRequests
	}
	return false
}

// retryMessage picks the message for the retry that follows attempt n,
// clamped to the last message once the list runs out.
func retryMessage(messages []string, n int) string {
	if len(messages) == 0 {
		return ""
	}
	if n >= len(messages) {
		n = len(messages) - 1
	}
	return messages[n]
}
