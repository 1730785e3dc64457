package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the failure classes a scrape can run into
type ErrorType string

const (
	ErrorTypeElementNotFound ErrorType = "element_not_found"
	ErrorTypeStaleReference  ErrorType = "stale_reference"
	ErrorTypeRegionLost      ErrorType = "region_lost"
	ErrorTypeAuth            ErrorType = "auth"
	ErrorTypeParseMismatch   ErrorType = "parse_mismatch"
	ErrorTypeNavigation      ErrorType = "navigation"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// Sentinel field values used when an element could not be read
const (
	Unknown      = "Unknown"
	NotAvailable = "N/A"
)

// Error is a typed scrape error. Op names the step that failed.
type Error struct {
	Type    ErrorType
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Type)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same type, so errors.Is(err, ErrRegionLost)
// works regardless of message or op.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

var (
	ErrElementNotFound = &Error{Type: ErrorTypeElementNotFound}
	ErrStaleReference  = &Error{Type: ErrorTypeStaleReference}
	ErrRegionLost      = &Error{Type: ErrorTypeRegionLost}
	ErrAuthentication  = &Error{Type: ErrorTypeAuth}
	ErrParseMismatch   = &Error{Type: ErrorTypeParseMismatch}
	ErrNavigation      = &Error{Type: ErrorTypeNavigation}
)

// New creates a typed error
func New(errorType ErrorType, op, message string, err error) *Error {
	return &Error{
		Type:    errorType,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsRecoverable reports whether a failure of this type can be absorbed
// without aborting the run. Only authentication failures are fatal.
func IsRecoverable(errorType ErrorType) bool {
	return errorType != ErrorTypeAuth
}

// IsRetryable checks if an error type is worth one more attempt at the
// same interaction point
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeElementNotFound, ErrorTypeStaleReference:
		return true
	default:
		return false
	}
}
