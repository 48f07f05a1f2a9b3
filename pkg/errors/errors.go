// Package errors provides common, reusable error values and helpers.
package errors

import (
	"errors"
	"fmt"
)

// Report parameter errors
var (
	ErrInvalidDateFormat    = errors.New("invalid date format")
	ErrInvalidRange         = errors.New("invalid date range")
	ErrInvalidEnumValue     = errors.New("invalid enum value")
	ErrInvalidSortKey       = errors.New("invalid sort key")
	ErrOutOfBoundsParameter = errors.New("parameter out of bounds")
)

// Country lookup errors
var (
	ErrLookupUnavailable = errors.New("country lookup unavailable")
	ErrLookupMalformed   = errors.New("country lookup malformed")
)

// Store errors
var (
	ErrUserAlreadyExists = errors.New("user already exists")
)

// FieldError reports a rejected request parameter. Kind is one of the
// parameter sentinels above and is matched by errors.Is.
type FieldError struct {
	Kind    error
	Field   string
	Value   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s=%q", e.Kind, e.Field, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// NewFieldError builds a FieldError with a formatted message.
func NewFieldError(kind error, field, value, format string, args ...interface{}) *FieldError {
	return &FieldError{
		Kind:    kind,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsValidation reports whether err was caused by a rejected request parameter.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidDateFormat) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidEnumValue) ||
		errors.Is(err, ErrInvalidSortKey) ||
		errors.Is(err, ErrOutOfBoundsParameter)
}

// Code returns the stable taxonomy name for err, or "internal".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDateFormat):
		return "InvalidDateFormat"
	case errors.Is(err, ErrInvalidRange):
		return "InvalidRange"
	case errors.Is(err, ErrInvalidSortKey):
		return "InvalidSortKey"
	case errors.Is(err, ErrInvalidEnumValue):
		return "InvalidEnumValue"
	case errors.Is(err, ErrOutOfBoundsParameter):
		return "OutOfBoundsParameter"
	case errors.Is(err, ErrLookupUnavailable):
		return "LookupUnavailable"
	case errors.Is(err, ErrLookupMalformed):
		return "LookupMalformed"
	}
	return "internal"
}

// Is and As re-export the standard helpers so callers need a single import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }

// New returns a plain error value.
func New(text string) error { return errors.New(text) }

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
