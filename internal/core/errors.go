package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Provider errors
	ErrFetchFailed = &Error{Code: "FETCH_FAILED", Message: "upstream fetch failed"}
	ErrNoData      = &Error{Code: "NO_DATA", Message: "no data available"}

	// Pipeline errors
	ErrAlignmentEmpty = &Error{Code: "ALIGNMENT_EMPTY", Message: "no overlapping dates between series"}

	// Subscriber store errors
	ErrStoreFailed        = &Error{Code: "STORE_FAILED", Message: "subscriber store request failed"}
	ErrSubscriberNotFound = &Error{Code: "SUBSCRIBER_NOT_FOUND", Message: "subscriber not found"}

	// Notifier errors
	ErrDeliveryFailed = &Error{Code: "DELIVERY_FAILED", Message: "message delivery failed"}

	// API errors
	ErrUnauthorized     = &Error{Code: "UNAUTHORIZED", Message: "invalid or missing secret"}
	ErrMethodNotAllowed = &Error{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// LLM errors
	ErrLLMFailed = &Error{Code: "LLM_FAILED", Message: "LLM request failed"}
)
