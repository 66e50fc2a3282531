package domain

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind tags an Error with its failure class.
type Kind uint8

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Status is the HTTP status a kind is reported with. Forbidden and Conflict
// keep the codes existing clients already receive (401 and 500).
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized, KindForbidden:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is the application error carried from gates and handlers to the
// error boundary.
type Error struct {
	Kind        Kind
	Status      int
	Message     string
	Operational bool

	cause error
}

// NewError builds an operational error of the given kind and records the
// current stack.
func NewError(kind Kind, msg string) *Error {
	return &Error{
		Kind:        kind,
		Status:      kind.Status(),
		Message:     msg,
		Operational: true,
		cause:       errors.New(msg),
	}
}

// Wrap tags err with kind and a client-facing message. The original error
// stays reachable through errors.Is / errors.As.
func Wrap(kind Kind, msg string, err error) *Error {
	if err == nil {
		return NewError(kind, msg)
	}
	return &Error{
		Kind:        kind,
		Status:      kind.Status(),
		Message:     msg,
		Operational: kind != KindInternal,
		cause:       errors.Wrap(err, msg),
	}
}

func BadRequest(msg string) *Error   { return NewError(KindBadRequest, msg) }
func Unauthorized(msg string) *Error { return NewError(KindUnauthorized, msg) }
func Forbidden(msg string) *Error    { return NewError(KindForbidden, msg) }
func NotFound(msg string) *Error     { return NewError(KindNotFound, msg) }
func Conflict(msg string) *Error     { return NewError(KindConflict, msg) }
func Internal(msg string) *Error     { return NewError(KindInternal, msg) }

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Stack returns the stack recorded when the error was created.
func (e *Error) Stack() string {
	if e.cause == nil {
		return ""
	}
	return fmt.Sprintf("%+v", e.cause)
}

// AsError reports whether err carries an *Error and returns it.
func AsError(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of kind k.
func IsKind(err error, k Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == k
}
