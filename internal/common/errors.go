// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Analysis errors.
	ErrNoData = errors.New("no simulation results to analyze")

	// Text generation errors.
	ErrProviderUnavailable = errors.New("text generation provider unavailable")
	ErrEmptyResponse       = errors.New("empty response from provider")

	// Export errors.
	ErrExportFailed = errors.New("export failed")
)

// FieldError reports a rejected input field. It matches ErrInvalidConfig or
// ErrMissingConfig through errors.Is.
type FieldError struct {
	Err    error
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Err, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// InvalidField builds a FieldError for a value that is present but unusable.
func InvalidField(field, reason string) error {
	return &FieldError{Err: ErrInvalidConfig, Field: field, Reason: reason}
}

// MissingField builds a FieldError for a required value that was not supplied.
func MissingField(field string) error {
	return &FieldError{Err: ErrMissingConfig, Field: field, Reason: "required"}
}

// IsInputError reports whether err is a rejected-input error.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrMissingConfig)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
