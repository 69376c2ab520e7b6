package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind is the closed taxonomy every provider error is translated into.
// It mirrors cogni_core::Error's variant set one-for-one.
type ErrorKind string

const (
	ErrNetwork        ErrorKind = "network"
	ErrProvider       ErrorKind = "provider"
	ErrSerialization  ErrorKind = "serialization"
	ErrValidation     ErrorKind = "validation"
	ErrToolExecution  ErrorKind = "tool_execution"
	ErrTimeout        ErrorKind = "timeout"
	ErrAuthentication ErrorKind = "authentication"
	ErrConfiguration  ErrorKind = "configuration"
)

// Error is cogni's single error type. Rust's Error enum has a distinct field
// set per variant; Go has no tagged unions, so Error carries every field any
// Kind might need and leaves the rest at their zero value. Provider and
// RetryAfter are only meaningful when Kind is ErrProvider.
type Error struct {
	Kind       ErrorKind
	Message    string
	Provider   string // set only for ErrProvider
	RetryAfter *time.Duration
	Cause      error
}

// NewError builds an Error of the given kind with no cause.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewNetworkError wraps a transport-level failure.
func NewNetworkError(message string, cause error) *Error {
	return &Error{Kind: ErrNetwork, Message: message, Cause: cause}
}

// NewProviderError wraps a provider-reported failure, optionally carrying
// the provider's own Retry-After hint.
func NewProviderError(provider, message string, retryAfter *time.Duration, cause error) *Error {
	return &Error{Kind: ErrProvider, Message: message, Provider: provider, RetryAfter: retryAfter, Cause: cause}
}

// NewSerializationError wraps a marshal/unmarshal failure.
func NewSerializationError(message string, cause error) *Error {
	return &Error{Kind: ErrSerialization, Message: message, Cause: cause}
}

// TimeoutError is the sentinel Timeout error; unlike the Rust source's unit
// variant, Go still needs an addressable value to compare against with
// errors.Is.
func TimeoutError() *Error { return &Error{Kind: ErrTimeout, Message: "operation timed out"} }

func (e *Error) Error() string {
	switch e.Kind {
	case ErrNetwork:
		return fmt.Sprintf("network error: %s", e.Message)
	case ErrProvider:
		return fmt.Sprintf("provider error (%s): %s", e.Provider, e.Message)
	case ErrSerialization:
		return fmt.Sprintf("serialization error: %s", e.Message)
	case ErrValidation:
		return fmt.Sprintf("validation error: %s", e.Message)
	case ErrToolExecution:
		return fmt.Sprintf("tool execution error: %s", e.Message)
	case ErrTimeout:
		return "operation timed out"
	case ErrAuthentication:
		return fmt.Sprintf("authentication error: %s", e.Message)
	case ErrConfiguration:
		return fmt.Sprintf("configuration error: %s", e.Message)
	default:
		return e.Message
	}
}

// Unwrap exposes the underlying cause, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// Retryable reports whether a caller should retry the operation that
// produced this error: Network and Timeout always are, Provider is only
// when the provider gave a retry_after hint, everything else is not.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case ErrNetwork, ErrTimeout:
		return true
	case ErrProvider:
		return e.RetryAfter != nil
	default:
		return false
	}
}

// AsError reports whether err (or something it wraps) is a *Error, the Go
// analogue of matching on cogni_core::Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
