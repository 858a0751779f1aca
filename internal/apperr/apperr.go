// Package apperr defines the closed set of error kinds surfaced by the API.
//
// Handlers never inspect error strings. Services wrap failures in an *Error
// carrying one of four kinds, and the response package maps the kind to an
// HTTP status and JSON body at the boundary.
package apperr

import (
	"errors"
	"fmt"
)

var errNotConfigured = errors.New("provider credentials are not configured")

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	// KindProvider is a failure inside a provider SDK call (network,
	// permission, signing). It is also the fallback for unclassified errors.
	KindProvider Kind = iota
	// KindConfiguration means the target provider is not initialized.
	KindConfiguration
	// KindClientInput means the request was rejected before any provider call.
	KindClientInput
	// KindNotFound means the object does not exist.
	KindNotFound
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindClientInput:
		return "client_input"
	case KindNotFound:
		return "not_found"
	default:
		return "provider"
	}
}

// Error wraps a failure with its kind and structured context.
type Error struct {
	// Kind selects the response shape.
	Kind Kind

	// Op is the operation that failed (e.g. "presign upload", "list").
	Op string

	// Provider is the provider id, if applicable.
	Provider string

	// Key is the object key, if applicable.
	Key string

	// Message is the human readable text returned as the "error" field.
	Message string

	// Err is the underlying error. Its text becomes the "details" field.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Details returns the diagnostic text of the underlying error, or "".
func (e *Error) Details() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Input returns a client-input error.
func Input(message string) *Error {
	return &Error{Kind: KindClientInput, Message: message}
}

// Inputf returns a client-input error with a formatted message.
func Inputf(format string, args ...any) *Error {
	return Input(fmt.Sprintf(format, args...))
}

// Configuration returns a configuration error for a provider. A nil err is
// replaced by a generic reason so the response always carries details.
func Configuration(provider string, err error) *Error {
	if err == nil {
		err = errNotConfigured
	}
	return &Error{
		Kind:     KindConfiguration,
		Provider: provider,
		Message:  fmt.Sprintf("%s client not initialized", provider),
		Err:      err,
	}
}

// Provider returns a provider error for a failed SDK call.
func Provider(op, provider, key string, err error) *Error {
	return &Error{
		Kind:     KindProvider,
		Op:       op,
		Provider: provider,
		Key:      key,
		Message:  fmt.Sprintf("failed to %s", op),
		Err:      err,
	}
}

// NotFound returns a not-found error for an object key.
func NotFound(op, provider, key string, err error) *Error {
	return &Error{
		Kind:     KindNotFound,
		Op:       op,
		Provider: provider,
		Key:      key,
		Message:  fmt.Sprintf("file %q not found", key),
		Err:      err,
	}
}

// KindOf returns the kind of err. Errors that are not an *Error are
// reported as KindProvider.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindProvider
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
