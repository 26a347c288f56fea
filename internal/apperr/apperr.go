// Package apperr holds the error taxonomy shared by the store, lifecycle and
// service layers. Handlers translate these into HTTP responses.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound means an asset or user identifier did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey means a unique business key (asset tag, email) is taken.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrValidation means a payload or filter failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTransition means a status/assignment rule was violated.
	ErrInvalidTransition = errors.New("invalid transition")
)

// NotFound wraps ErrNotFound with the kind of resource that was missing.
func NotFound(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// Duplicate wraps ErrDuplicateKey with the offending field.
func Duplicate(field string) error {
	return fmt.Errorf("%s already exists: %w", field, ErrDuplicateKey)
}

// ValidationError carries field-level messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns nil when fields is empty so callers can write
// `if err := NewValidationError(fields); err != nil`.
func NewValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Invalid builds a single-field ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TransitionError names the illegal move that was attempted.
type TransitionError struct {
	From   string
	To     string
	Reason string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
