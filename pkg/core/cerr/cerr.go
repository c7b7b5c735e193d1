package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error independent of its transport.
type Kind int

// Known error kinds.
const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindInvalidState
	KindConflict
	KindAuthentication
	KindAuthorization
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	default:
		return "unknown"
	}
}

type Error struct {
	Err            error
	Kind           Kind
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

// KindOf returns the Kind of the first *Error in the err chain, or
// KindUnknown if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Validation(err error) *Error {
	return &Error{
		Err: err, Kind: KindValidation,
		HTTPStatusCode: http.StatusBadRequest,
	}
}

func BadRequest(err error) *Error {
	return Validation(err)
}

func Authentication(err error) *Error {
	return &Error{
		Err: err, Kind: KindAuthentication,
		HTTPStatusCode: http.StatusUnauthorized,
	}
}

func Authorization(err error) *Error {
	return &Error{
		Err: err, Kind: KindAuthorization,
		HTTPStatusCode: http.StatusForbidden,
	}
}

func NotFound(err error) *Error {
	return &Error{
		Err: err, Kind: KindNotFound,
		HTTPStatusCode: http.StatusNotFound,
	}
}

// InvalidState reports a request which is well-formed but may not be
// applied in the current state of the involved entities, such as
// borrowing a book with no available copy.
func InvalidState(err error) *Error {
	return &Error{
		Err: err, Kind: KindInvalidState,
		HTTPStatusCode: http.StatusConflict,
	}
}

// Conflict reports a concurrent or duplicate modification.
func Conflict(err error) *Error {
	return &Error{
		Err: err, Kind: KindConflict,
		HTTPStatusCode: http.StatusConflict,
	}
}
