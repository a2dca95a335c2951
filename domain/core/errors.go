package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Structural errors (fatal to both preview and finalize)
	ErrEmptyInput  = errors.New("input contains no rows")
	ErrOutOfRange  = errors.New("row index out of range")
	ErrNoDataRows  = errors.New("no data rows after header")
	ErrNoColumns   = errors.New("header row resolved to no columns")
	ErrParseFailed = errors.New("row splitting failed")

	// Configuration errors
	ErrUnknownColumn   = errors.New("column not present in resolved header")
	ErrUnknownStrategy = errors.New("unknown imputation strategy")

	// Limit errors (soft: block finalize only)
	ErrLimitExceeded = errors.New("dataset size limit exceeded")

	// Lifecycle errors
	ErrNoDatasetYet  = errors.New("no dataset has been finalized")
	ErrSessionClosed = errors.New("ingestion session closed")
)

// Error constructors with context
func NewOutOfRangeError(what string, value, total int) error {
	return fmt.Errorf("%w: %s=%d with %d total rows", ErrOutOfRange, what, value, total)
}

func NewUnknownColumnError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// Error checking helpers
func IsStructuralError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrNoDataRows) ||
		errors.Is(err, ErrNoColumns)
}

func IsLimitError(err error) bool {
	return errors.Is(err, ErrLimitExceeded)
}
