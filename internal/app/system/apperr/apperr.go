// Package apperr defines the service-wide failure taxonomy.
//
// Every failure a handler surfaces carries one of the kinds below so the
// response layer can map it to an HTTP status and a structured body without
// string matching. Wrap store and upstream errors at the point they are
// detected; the original cause stays reachable through errors.Unwrap.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// Unknown is the zero kind for errors that were never classified.
	Unknown Kind = iota
	// Unauthorized means the caller credential is missing or invalid.
	Unauthorized
	// Forbidden means the caller's role does not permit the operation.
	Forbidden
	// NotFound means a referenced user, contest, or participation is absent.
	NotFound
	// Conflict means a lifecycle rule was violated (editing an approved
	// contest, re-declaring a winner).
	Conflict
	// Validation means the request payload failed schema validation.
	Validation
	// Upstream means the identity provider or payment processor call failed.
	Upstream
	// Store means a document store operation failed.
	Store
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Validation:
		return "validation"
	case Upstream:
		return "upstream_failure"
	case Store:
		return "store_failure"
	}
	return "unknown"
}

// Error is a kind-carrying error with an operator-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error with the given kind and message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf returns an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error that keeps cause reachable via errors.Unwrap.
// A nil cause returns nil so call sites can wrap unconditionally.
func Wrap(kind Kind, msg string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// KindOf extracts the kind from err, walking the wrap chain.
// Unclassified errors report Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
