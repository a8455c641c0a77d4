/*
Package errs - Closed Error Taxonomy

==============================================================================
FILE: internal/errs/errors.go
==============================================================================

DESCRIPTION:
    Defines the closed set of error kinds the workforce core ever returns.
    Every kind maps to a stable machine-readable code and a transport-layer
    HTTP status, so the thin transport adapter never has to guess how to
    translate a business error into a response.

DEVELOPER GUIDELINES:
    OK to modify: add constructors alongside New/Newf/WithField/Wrap.
    DO NOT modify: the Kind values themselves - they are a closed set and
    callers across the core switch on them by value.

==============================================================================
*/
package errs

import "fmt"

// Kind is one of the nine closed taxonomy values. No other value is ever
// constructed; code that needs a tenth kind is wrong about the taxonomy.
type Kind string

const (
	Validation       Kind = "VALIDATION"
	NotFound         Kind = "NOT_FOUND"
	Forbidden        Kind = "FORBIDDEN"
	StateConflict    Kind = "STATE_CONFLICT"
	ConflictOverlap  Kind = "CONFLICT_OVERLAP"
	RateLimited      Kind = "RATE_LIMITED"
	Auth             Kind = "AUTH"
	IdempotentReplay Kind = "IDEMPOTENT_REPLAY"
	Integrity        Kind = "INTEGRITY"
)

// Error is the single error type returned by every exported operation in
// the core. Code is a stable machine-readable identifier (e.g.
// "SCHEDULE_OVERLAP", "NO_PUBLISHED_SHIFT"); Field is set for VALIDATION
// errors that point at a specific input.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s): %s", e.Kind, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, errs.New(errs.NotFound, "", "")) style
// matching: a target with an empty Code matches on Kind alone, a target
// with a Code matches on Kind and Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Kind == t.Kind && e.Code == t.Code
	}
	return e.Kind == t.Kind
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Newf(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func WithField(kind Kind, code, field, message string) *Error {
	return &Error{Kind: kind, Code: code, Field: field, Message: message}
}

func Wrap(kind Kind, code string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: err.Error(), Err: err}
}

// HTTPStatus maps a Kind to the status the transport adapter should use.
// Kept here (rather than in internal/api) so any transport - HTTP, gRPC,
// a CLI - can ask the same question.
func (k Kind) HTTPStatus() int {
	switch k {
	case Validation:
		return 400
	case Auth:
		return 401
	case Forbidden:
		return 403
	case NotFound:
		return 404
	case StateConflict, ConflictOverlap:
		return 409
	case RateLimited:
		return 429
	case IdempotentReplay:
		return 200
	case Integrity:
		return 500
	default:
		return 500
	}
}

// Common, frequently reused instances. Specific codes remain local to the
// package that raises them (scheduling, kiosk, payroll, ...) since the
// code string is the caller's taxonomy, not a global one.
var (
	ErrCrossOrg      = New(Forbidden, "CROSS_ORG_ACCESS", "resource belongs to a different organization")
	ErrInsufficient  = New(Forbidden, "INSUFFICIENT_ROLE", "role level is insufficient for this operation")
	ErrNotFoundGeneric = New(NotFound, "NOT_FOUND", "resource not found")
)
