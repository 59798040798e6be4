// Package errors provides error handling for the temporal GIS framework.
//
// This package re-exports github.com/cockroachdb/errors, providing stack
// traces, error wrapping and sentinel-based error classification.
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the temporal framework. Use with errors.Is() for
// type-safe classification, wrap with errors.Wrap() to add context while
// preserving the type.
var (
	// ErrNotFound indicates the requested map or dataset does not exist
	ErrNotFound = New("not found")

	// ErrInvalidTime indicates a map carries no valid temporal extent
	ErrInvalidTime = New("invalid time")

	// ErrTemporalTypeMismatch indicates mixing absolute and relative time
	ErrTemporalTypeMismatch = New("temporal type mismatch")

	// ErrUnitMismatch indicates a relative-time unit conflict between a
	// dataset and a map to be registered
	ErrUnitMismatch = New("relative time unit mismatch")

	// ErrMapsetMismatch indicates a cross-mapset registration attempt
	ErrMapsetMismatch = New("mapset mismatch")

	// ErrKindMismatch indicates registering a map of one kind into a
	// dataset of another, e.g. a vector map into a raster series
	ErrKindMismatch = New("dataset kind mismatch")

	// ErrMapExists indicates an output map already exists and no
	// overwrite flag was given
	ErrMapExists = New("map exists")

	// ErrInvalidGranularity indicates a dataset whose map time
	// classification does not permit granularity partitioning
	ErrInvalidGranularity = New("invalid granularity")

	// ErrSyntax indicates a malformed algebra expression or an
	// unrecognized temporal relation name
	ErrSyntax = New("syntax error")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsConsistencyError reports whether err is one of the registration
// consistency violations that must abort the operation.
func IsConsistencyError(err error) bool {
	return err != nil && IsAny(err,
		ErrTemporalTypeMismatch, ErrUnitMismatch, ErrMapsetMismatch,
		ErrKindMismatch, ErrInvalidTime)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewSyntaxError creates a syntax error with a formatted message
func NewSyntaxError(format string, args ...interface{}) error {
	return Wrap(ErrSyntax, Newf(format, args...).Error())
}
