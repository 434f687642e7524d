package services

import (
	"fmt"
	"net/http"
)

type FailureReason string

const (
	ReasonUnreachable      FailureReason = "unreachable"
	ReasonNetwork          FailureReason = "network"
	ReasonServerError      FailureReason = "server_error"
	ReasonQuota            FailureReason = "quota"
	ReasonAuthorization    FailureReason = "authorization"
	ReasonUnexpectedStatus FailureReason = "unexpected_status"
	ReasonMalformed        FailureReason = "malformed"
	ReasonIncomplete       FailureReason = "incomplete"
)

// Failure is the terminal outcome of a generation flow. Message is what the
// user sees; Detail is diagnostic and goes to the logs.
type Failure struct {
	Reason  FailureReason
	Status  int
	Detail  string
	Message string
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("generation failed: %s (status %d): %s", f.Reason, f.Status, f.Detail)
	}
	return fmt.Sprintf("generation failed: %s: %s", f.Reason, f.Detail)
}

// HTTPStatus maps the failure to the status this service answers with.
func (f *Failure) HTTPStatus() int {
	switch f.Reason {
	case ReasonQuota:
		return http.StatusTooManyRequests
	case ReasonUnreachable, ReasonNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func classify(o Outcome) *Failure {
	f := &Failure{Status: o.Status, Detail: o.Detail}

	switch o.Kind {
	case OutcomeNetwork:
		f.Reason = ReasonNetwork
		if o.Unreachable {
			f.Reason = ReasonUnreachable
		}
	case OutcomeMalformed:
		f.Reason = ReasonMalformed
	case OutcomeIncomplete:
		f.Reason = ReasonIncomplete
	case OutcomeStatus:
		switch o.Status {
		case http.StatusInternalServerError:
			f.Reason = ReasonServerError
		case http.StatusTooManyRequests:
			f.Reason = ReasonQuota
		case http.StatusUnauthorized, http.StatusForbidden:
			f.Reason = ReasonAuthorization
		default:
			f.Reason = ReasonUnexpectedStatus
		}
	default:
		f.Reason = ReasonUnexpectedStatus
	}

	return f
}

// UserMessage renders the blocking notice for the failure. engineURL is named
// in connectivity messages so the user knows what to start.
func (f *Failure) UserMessage(engineURL string) string {
	switch f.Reason {
	case ReasonUnreachable:
		return "Cannot connect to the planning engine.\n\nPlease confirm the engine is running: " + engineURL
	case ReasonNetwork:
		return "Network error.\n\nPlease check that the planning engine is running and reachable from this server."
	case ReasonServerError:
		return "Genie's engine hit a snag.\n\nPlease try again shortly."
	case ReasonQuota:
		return "Genie is calibrating global road data...\n\nAPI quota reached. Please wait 60 seconds and try again."
	case ReasonAuthorization:
		return "Authorization required.\n\nAPI key configuration error. Please contact support."
	case ReasonMalformed:
		return "Generation failed.\n\nFailed to parse the planning engine's response. Please try again."
	case ReasonIncomplete:
		return "Generation failed.\n\nThe plan came back incomplete (missing budget buffer or daily schedule). Please try again."
	}

	msg := "Genie encountered an issue. Please try again."
	if f.Detail != "" {
		msg += "\n\n" + f.Detail
	}
	return msg
}
