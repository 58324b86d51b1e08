// Package failure classifies why an operation against the FreelancePay API did
// not succeed. Only Unauthorized has an effect beyond the failing operation:
// it ends the session.
package failure

import (
	"errors"
	"fmt"
)

// Kind is the class of a failure.
type Kind int

const (
	// Unknown is the kind of errors that were not produced by this package.
	Unknown Kind = iota
	// Network means the request never got a response.
	Network
	// Unauthorized means the server answered 401.
	Unauthorized
	// Validation means the server rejected the request (4xx other than 401).
	Validation
	// Server means the server failed (5xx).
	Server
	// Malformed means the response did not parse to the expected shape.
	Malformed
	// LocalValidation means the request was never sent.
	LocalValidation
)

var kindNames = map[Kind]string{
	Unknown:         "unknown",
	Network:         "network",
	Unauthorized:    "unauthorized",
	Validation:      "validation",
	Server:          "server",
	Malformed:       "malformed",
	LocalValidation: "local_validation",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified failure. Message is the text meant for the user and
// is server-supplied for Validation and Unauthorized when the server sent one.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a failure of the given kind.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Localf builds a LocalValidation failure with a formatted message.
func Localf(format string, args ...any) *Error {
	return &Error{Kind: LocalValidation, Message: fmt.Sprintf(format, args...)}
}

// FromStatus classifies an HTTP status code that is not 2xx.
func FromStatus(status int, message string) *Error {
	kind := Validation
	switch {
	case status == 401:
		kind = Unauthorized
	case status >= 500:
		kind = Server
	}
	return &Error{Kind: kind, Status: status, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// Is reports whether err is a failure of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing message carried by err, if any.
func Message(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return ""
}
