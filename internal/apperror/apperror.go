// Package apperror defines the domain error taxonomy shared by the service
// and handler layers.
//
// Services return these errors; the HTTP layer translates them to status
// codes in one place (handler.writeError). Sentinels are matched with
// errors.Is, the typed values extracted with errors.As.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("conflict")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadCredentials = errors.New("bad credentials")
)

// AppError carries a human-readable message alongside the sentinel that
// classifies it. Field is set for validation errors so the client knows
// which input was rejected.
type AppError struct {
	Err     error  // classifying sentinel
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized covers failed token checks and failed ownership checks —
// the API reports both as HTTP 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// BadCredentials is a wrong email/password pair at login. The message is
// deliberately identical for "unknown email" and "wrong password" so the
// endpoint doesn't reveal which emails are registered. Reported as 400.
func BadCredentials() *AppError {
	return &AppError{
		Err:     ErrBadCredentials,
		Message: "invalid credentials",
	}
}

// Errors aggregates multiple field-level validation failures so an
// endpoint can report everything wrong with a request at once instead of
// stopping at the first bad field.
type Errors struct {
	Items []*AppError
}

func (e *Errors) Error() string {
	msgs := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		msgs = append(msgs, item.Message)
	}
	return strings.Join(msgs, "; ")
}

// Unwrap classifies the aggregate as a validation error so errors.Is
// checks against ErrValidation keep working on the whole bundle.
func (e *Errors) Unwrap() error {
	return ErrValidation
}

// Add appends a field-level failure to the bundle.
func (e *Errors) Add(field, message string) {
	e.Items = append(e.Items, ValidationFailed(field, message))
}

// Empty reports whether any failures were collected.
func (e *Errors) Empty() bool {
	return len(e.Items) == 0
}

// OrNil returns the bundle as an error, or nil when nothing was added.
// Returning a typed nil pointer through an error interface is a classic
// Go footgun, hence the explicit nil.
func (e *Errors) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}
