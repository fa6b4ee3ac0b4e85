package service

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/marine_shop/internal/store"
)

var (
	ErrValidation   = errors.New("validation")          // 400
	ErrUnauthorized = errors.New("unauthorized")        // 401
	ErrForbidden    = errors.New("forbidden")           // 403
	ErrNotFound     = errors.New("not found")           // 404
	ErrUnavailable  = errors.New("service unavailable") // 503
)

// Error is a domain failure with a message safe to show to clients.
// Kind is one of the sentinels above; Err is the optional cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

var (
	ErrAlreadyReviewed    error = &Error{Kind: ErrValidation, Msg: "already reviewed"}
	ErrEmptyOrder         error = &Error{Kind: ErrValidation, Msg: "no order items"}
	ErrCartNotFound       error = &Error{Kind: ErrNotFound, Msg: "cart not found"}
	ErrItemNotFound       error = &Error{Kind: ErrNotFound, Msg: "item not found in cart"}
	ErrInvalidCredentials error = &Error{Kind: ErrUnauthorized, Msg: "invalid email or password"}
	ErrUserExists         error = &Error{Kind: ErrValidation, Msg: "user already exists"}
	ErrOrderForbidden     error = &Error{Kind: ErrForbidden, Msg: "not authorized to view this order"}
)

func validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Msg: what + " not found"}
}

// storeErr maps store failures onto the service taxonomy.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return notFound(what)
	case errors.Is(err, store.ErrDuplicate):
		return &Error{Kind: ErrValidation, Msg: what + " already exists", Err: err}
	case errors.Is(err, store.ErrUnavailable), store.IsTransient(err):
		return &Error{Kind: ErrUnavailable, Msg: "database unavailable", Err: err}
	}
	return fmt.Errorf("%s: %w", what, err)
}
