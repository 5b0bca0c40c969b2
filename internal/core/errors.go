package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so the HTTP layer can pick a status code
// without inspecting upstream error types.
type ErrorKind int

const (
	// KindInvalidReference marks a PR URL that does not match the expected
	// github.com/{owner}/{repo}/pull/{number} shape.
	KindInvalidReference ErrorKind = iota
	// KindUnauthorized marks a bad or expired GitHub credential.
	KindUnauthorized
	// KindRateLimited marks an exhausted GitHub rate limit.
	KindRateLimited
	// KindAccessDenied marks a 403 that is not a rate limit.
	KindAccessDenied
	// KindNotFound marks a missing repository or pull request.
	KindNotFound
	// KindServiceUnavailable marks an unconfigured or unreachable
	// completion backend.
	KindServiceUnavailable
	// KindMalformedResponse marks completion output containing no JSON at
	// all. This is the one parse failure recovery cannot mask.
	KindMalformedResponse
	// KindUpstream is the catch-all for other upstream failures.
	KindUpstream
)

// Error is the application's typed error. It wraps the underlying cause and
// carries a client-safe message plus the upstream HTTP status when known.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// NewError builds a typed error wrapping cause. Message must be safe to show
// to API clients.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// NewErrorf is NewError with Sprintf-style message formatting.
func NewErrorf(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the ErrorKind from err, walking the wrap chain. Errors that
// are not a *core.Error report KindUpstream.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}
