package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them to HTTP status codes; callers classify
// with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrMissingToken       = errors.New("access token required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials or role")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrRateLimited        = errors.New("too many requests")
)

// Error carries a client-facing message on top of one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Newf builds an *Error of the given kind.
func Newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Invalid is shorthand for a validation error.
func Invalid(format string, args ...any) error {
	return Newf(ErrValidation, format, args...)
}

// NotFound is shorthand for a not-found error naming the entity.
func NotFound(entity string) error {
	return Newf(ErrNotFound, "%s not found", entity)
}

// Message returns the client-facing text of err, if it carries one.
func Message(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Message, true
	}
	return "", false
}
