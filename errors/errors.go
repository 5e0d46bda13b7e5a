// Package errors provides error handling for sith.
//
// This package re-exports the parts of github.com/cockroachdb/errors that
// sith uses: wrapping with stack traces, and hints shown to users.
//
// Source problems found in Python code are not errors: the lexer and parser
// report them as diagnostic.List values. This package covers operational
// failures such as I/O, configuration, transports and unknown documents.
//
// Usage:
//
//	if err := os.WriteFile(path, data, 0o644); err != nil {
//	    return errors.Wrapf(err, "failed to write %s", path)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run 'sith config init' to create one")
//
//	// Check errors
//	if errors.Is(err, errors.ErrNotFound) {
//	    // document is not open
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New   = crdb.New
	Newf  = crdb.Newf
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
)

// User-facing hints and details, surfaced by the CLI and in LSP error replies
var (
	WithHint      = crdb.WithHint
	WithDetail    = crdb.WithDetail
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

var Is = crdb.Is

// Sentinel errors shared by the session, server and CLI.
// Wrap them with errors.Wrap() to add context while preserving identity.
var (
	// ErrNotFound indicates the requested document or file does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates a malformed request, e.g. a stale document version
	ErrInvalidRequest = New("invalid request")

	// ErrLimitExceeded indicates a configured capacity was reached
	ErrLimitExceeded = New("limit exceeded")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsLimitExceededError checks if an error is or wraps ErrLimitExceeded
func IsLimitExceededError(err error) bool {
	return err != nil && Is(err, ErrLimitExceeded)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidRequest, format, args...)
}

// NewLimitExceededError creates a limit-exceeded error with a formatted message
func NewLimitExceededError(format string, args ...interface{}) error {
	return Wrapf(ErrLimitExceeded, format, args...)
}
