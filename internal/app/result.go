package app

import (
	"strings"

	"github.com/mmynk/freelancepay/internal/failure"
)

// Outcome is the terminal state of an operation.
type Outcome int

const (
	// Success means the operation completed.
	Success Outcome = iota
	// Failure means the operation was rejected or could not complete.
	Failure
	// Declined means the user declined a confirmation; nothing happened.
	Declined
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Declined:
		return "declined"
	}
	return "unknown"
}

// Result is the tagged outcome of one operation.
type Result struct {
	Action  Action
	Outcome Outcome
	// Message is the user-facing text; empty for silent successes.
	Message string
	// Err is set for failures.
	Err error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Outcome == Success }

// Kind is the failure kind, or failure.Unknown for non-failures.
func (r Result) Kind() failure.Kind {
	if r.Outcome != Failure {
		return failure.Unknown
	}
	return failure.KindOf(r.Err)
}

const (
	msgSessionExpired = "Session expired. Please log in again."
	msgNetwork        = "Network error. Please try again."
)

// failureText builds the message shown for err. fallback is the generic text
// of the operation, e.g. "Failed to add client.".
func failureText(fallback string, err error) string {
	kind := failure.KindOf(err)
	msg := failure.Message(err)
	switch {
	case kind == failure.LocalValidation:
		return msg
	case kind == failure.Unauthorized:
		return msgSessionExpired
	case msg != "" && fallback != "":
		return strings.TrimSuffix(fallback, ".") + ": " + msg
	case msg != "":
		return msg
	case kind == failure.Network && fallback != "":
		return fallback + " " + msgNetwork
	case kind == failure.Network:
		return msgNetwork
	}
	return fallback
}

func (a *App) succeed(action Action, message string) Result {
	r := Result{Action: action, Outcome: Success, Message: message}
	a.logger.Debug("Operation succeeded", "action", action)
	a.notifier.Notify(r)
	return r
}

// fail converts err into a failure Result, ends the session if the server
// answered unauthorized, and notifies the user.
func (a *App) fail(action Action, fallback string, err error) Result {
	kind := failure.KindOf(err)
	if kind == failure.Unauthorized {
		a.rejected = true
		a.teardown()
	}
	r := Result{Action: action, Outcome: Failure, Message: failureText(fallback, err), Err: err}
	a.logger.Warn("Operation failed", "action", action, "kind", kind, "error", err)
	a.notifier.Notify(r)
	return r
}

func declined(action Action) Result {
	return Result{Action: action, Outcome: Declined}
}
