// Package domain contains the core entities of the vows service and the
// error taxonomy shared by every layer.
// Domain errors describe what went wrong, NOT how it is rendered; adapters
// map them to HTTP status codes or CLI exit messages.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a required input is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration indicates a required server-side setting is absent.
	ErrConfiguration = errors.New("configuration error")

	// ErrRemoteFetch indicates an external provider call failed.
	ErrRemoteFetch = errors.New("remote fetch failed")

	// ErrInvalidCredential indicates the provider rejected the caller's credential.
	// A RemoteFetchError matches it with errors.Is when InvalidCredential is set.
	ErrInvalidCredential = errors.New("invalid credential")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ConfigurationError reports a server-side setting that must be present
// for an operation to run, such as a provider API key.
type ConfigurationError struct {
	Setting string
	Reason  string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("configuration %q: %s", e.Setting, e.Reason)
	}

	return fmt.Sprintf("configuration %q missing", e.Setting)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// NewConfigurationError creates a configuration error for the named setting.
func NewConfigurationError(setting, reason string) error {
	return &ConfigurationError{Setting: setting, Reason: reason}
}

// RemoteFetchError reports a transport failure or non-success response
// from an external provider.
type RemoteFetchError struct {
	// Service names the provider (e.g. "readwise").
	Service string

	// Reason is a short human-readable description.
	Reason string

	// StatusCode is the HTTP status returned by the provider, 0 for transport failures.
	StatusCode int

	// InvalidCredential is set when the provider rejected the credential.
	InvalidCredential bool
}

// Error implements the error interface.
func (e *RemoteFetchError) Error() string {
	msg := fmt.Sprintf("service %q fetch failed", e.Service)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}

	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *RemoteFetchError) Unwrap() error {
	return ErrRemoteFetch
}

// Is lets errors.Is(err, ErrInvalidCredential) succeed for rejected credentials.
func (e *RemoteFetchError) Is(target error) bool {
	return target == ErrInvalidCredential && e.InvalidCredential
}

// NewRemoteFetchError creates a remote fetch error for a transport failure.
func NewRemoteFetchError(service, reason string) error {
	return &RemoteFetchError{Service: service, Reason: reason}
}

// NewRemoteStatusError creates a remote fetch error for a non-success HTTP status.
func NewRemoteStatusError(service string, status int, reason string) error {
	return &RemoteFetchError{Service: service, Reason: reason, StatusCode: status}
}

// NewInvalidCredentialError creates a remote fetch error for a rejected credential.
func NewInvalidCredentialError(service string, status int) error {
	return &RemoteFetchError{
		Service:           service,
		Reason:            "credential rejected",
		StatusCode:        status,
		InvalidCredential: true,
	}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConfiguration checks if an error is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsRemoteFetch checks if an error is a remote fetch error.
func IsRemoteFetch(err error) bool {
	return errors.Is(err, ErrRemoteFetch)
}

// IsInvalidCredential checks if the provider rejected the caller's credential.
func IsInvalidCredential(err error) bool {
	return errors.Is(err, ErrInvalidCredential)
}
