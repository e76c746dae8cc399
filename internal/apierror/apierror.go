// Package apierror provides the standardized error envelope for the local API
// and the engine's error taxonomy. All errors returned to the GUI go through
// this package so raw driver errors never leak to the caller.
package apierror

import (
	"errors"
	"fmt"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationFields wraps multiple field errors.
type ValidationFields struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationFields {
	return &ValidationFields{Detail: "Error de validacion", Fields: fields}
}

// ── Taxonomy ─────────────────────────────────────────────────────────────────
// ValidationError: rejected before any write. PersistenceError: the whole
// operation rolled back; retryable. NotFoundError: lookup miss. A no-op
// closing is a structured result, not an error.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type PersistenceError struct {
	Msg string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func Persistence(err error, format string, args ...any) error {
	return &PersistenceError{Msg: fmt.Sprintf(format, args...), Err: err}
}

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NotFound(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
