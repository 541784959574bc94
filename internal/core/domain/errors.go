package domain

import "errors"

// Error kinds. Every error that leaves the core carries exactly one of them.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
)

// Token verification failures. They travel as the Cause of an ErrUnauthorized.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenMalformed = errors.New("token malformed")
)

// ErrMalformedHash reports a stored credential that cannot be parsed.
var ErrMalformedHash = errors.New("malformed password hash")

// Error is a classified failure with a client-safe detail message.
// errors.Is matches both the Kind and anything in the Cause chain.
type Error struct {
	Kind   error
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Kind.Error()
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Cause }

func Unauthorized(detail string) *Error {
	return &Error{Kind: ErrUnauthorized, Detail: detail}
}

func Forbidden(detail string) *Error {
	return &Error{Kind: ErrForbidden, Detail: detail}
}

func BadRequest(detail string) *Error {
	return &Error{Kind: ErrBadRequest, Detail: detail}
}

func Conflict(detail string) *Error {
	return &Error{Kind: ErrConflict, Detail: detail}
}

func NotFound(detail string) *Error {
	return &Error{Kind: ErrNotFound, Detail: detail}
}

// Wrap attaches cause to a classified error.
func (e *Error) Wrap(cause error) *Error {
	e.Cause = cause
	return e
}

// KindOf returns the kind carried by err, or nil when err is unclassified.
func KindOf(err error) error {
	for _, kind := range []error{ErrUnauthorized, ErrForbidden, ErrBadRequest, ErrConflict, ErrNotFound} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Conflict messages shared by every identity store backend.
const (
	MsgUsernameTaken = "username already registered"
	MsgEmailTaken    = "email already registered"
)
