// Package apperr provides the closed set of failure kinds the offline layer
// branches on. Callers match on Kind, never on message content.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable failure classification.
type Kind string

const (
	// KindTransport covers network-level failures: unreachable host, DNS,
	// timeouts, connection resets.
	KindTransport Kind = "TRANSPORT"

	// KindHTTPStatus covers non-2xx responses from the API.
	KindHTTPStatus Kind = "HTTP_STATUS"

	// KindStorage covers local store read failures.
	KindStorage Kind = "STORAGE"

	// KindExhaustedFallback means neither the network nor the local store
	// could produce data. This is the only kind that crosses the reconciler
	// boundary.
	KindExhaustedFallback Kind = "EXHAUSTED_FALLBACK"

	// KindUnknown classifies errors that did not originate here.
	KindUnknown Kind = "UNKNOWN"
)

// Error carries a failure kind alongside a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New creates an Error with the given kind and message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that preserves the underlying cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from an error chain, or KindUnknown.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
