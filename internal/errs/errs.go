// Package errs defines the error kinds every service operation returns, so
// the HTTP layer can map each failure to a status deterministically.
package errs

import "errors"

type Kind int

const (
	KindStorage Kind = iota // default for anything unclassified
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Msg: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Msg: msg} }
func Forbidden(msg string) *Error  { return &Error{Kind: KindForbidden, Msg: msg} }

// Storage wraps an unexpected persistence failure.
func Storage(err error) *Error { return &Error{Kind: KindStorage, Msg: "storage failure", Err: err} }

// KindOf classifies err; anything that is not an *Error counts as storage.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}
