// Package apperr defines the error taxonomy shared by every engine package.
// Engine code never imports net/http; the controlplane packages translate
// these sentinels into status codes at the transport edge.
package apperr

import "errors"

// Kind classifies an error for transport-edge translation.
type Kind int

const (
	KindUnauthorized Kind = iota
	KindForbidden
	KindNotFound
	KindAmbiguous
	KindInvalidInput
	KindConflict
	KindUpstreamUnavailable
	KindTransient
)

// Error wraps a Kind with a message and an optional cause, plus optional
// ambiguity candidates (§6 409 payload).
type Error struct {
	Kind       Kind
	Message    string
	Cause      error
	Candidates []string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func new_(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Unauthorized(msg string) *Error { return new_(KindUnauthorized, msg) }
func Forbidden(msg string) *Error    { return new_(KindForbidden, msg) }
func NotFound(msg string) *Error     { return new_(KindNotFound, msg) }
func InvalidInput(msg string) *Error { return new_(KindInvalidInput, msg) }
func Conflict(msg string) *Error     { return new_(KindConflict, msg) }
func Transient(msg string) *Error    { return new_(KindTransient, msg) }

func Upstream(msg string, cause error) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Message: msg, Cause: cause}
}

func Ambiguous(msg string, candidates []string) *Error {
	return &Error{Kind: KindAmbiguous, Message: msg, Candidates: candidates}
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error, defaulting
// to KindTransient for unrecognized errors so unknown failures surface as
// retryable rather than silently swallowed.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransient
}

func CandidatesOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Candidates
	}
	return nil
}
