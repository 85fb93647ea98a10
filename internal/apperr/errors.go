// Package apperr defines the error kinds the HTTP boundary translates to
// status codes. Feature packages declare their own sentinels on top of a kind
// so callers can match either the specific error or the kind.
package apperr

import "errors"

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error is a user-facing message bound to a kind.
type Error struct {
	kind error
	msg  string
}

// New returns an error with msg that matches kind under errors.Is.
func New(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }
