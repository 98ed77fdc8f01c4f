// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoTransactions   = errors.New("no transactions to mine")
	ErrMalformedRecord  = errors.New("malformed input record")
	ErrUnsupportedInput = errors.New("unsupported input format")

	// Parameter errors.
	ErrInvalidParameter = errors.New("invalid parameter")

	// Storage errors.
	ErrNotFound = errors.New("not found")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// InvalidInputError reports a transaction database or item that cannot be mined.
type InvalidInputError struct {
	Err    error
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Reason, e.Err)
	}
	return "invalid input: " + e.Reason
}

// Unwrap exposes the cause, falling back to ErrInvalidInput so that
// errors.Is(err, ErrInvalidInput) always holds.
func (e *InvalidInputError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// NewInvalidInputError creates an InvalidInputError with an optional cause.
func NewInvalidInputError(reason string, err error) error {
	return &InvalidInputError{Reason: reason, Err: err}
}

// InvalidParameterError reports a threshold or option outside its domain.
type InvalidParameterError struct {
	Value     any
	Err       error
	Parameter string
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Parameter, e.Value, e.Reason)
}

// Unwrap exposes ErrInvalidParameter and the optional cause.
func (e *InvalidParameterError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidParameter, e.Err}
	}
	return []error{ErrInvalidParameter}
}

// NewInvalidParameterError creates an InvalidParameterError.
func NewInvalidParameterError(parameter string, value any, reason string) error {
	return &InvalidParameterError{
		Parameter: parameter,
		Value:     value,
		Reason:    reason,
	}
}

// WrapInvalidParameterError creates an InvalidParameterError with a cause.
func WrapInvalidParameterError(parameter string, value any, reason string, err error) error {
	return &InvalidParameterError{
		Parameter: parameter,
		Value:     value,
		Reason:    reason,
		Err:       err,
	}
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

// IsInputError reports whether err was caused by bad input or bad parameters,
// as opposed to an I/O or storage failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidParameter)
}
