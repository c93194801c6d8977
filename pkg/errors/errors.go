// Package errors defines error types and utilities for the query translation layer
package errors

import (
	"errors"
	"fmt"
)

// Common errors that can occur while building or executing commands
var (
	// ErrMalformedCondition is returned when a condition expression is
	// structurally invalid, for example a wrong operand count.
	ErrMalformedCondition = errors.New("malformed condition")

	// ErrUnsupportedOperator is returned when a condition operator is neither
	// a recognized alias nor already in native form.
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrMalformedIndexSpec is returned when an index specification is
	// missing its key field list.
	ErrMalformedIndexSpec = errors.New("malformed index specification")

	// ErrNotFound is returned when a single-document lookup matches nothing.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidConfig is returned when a session configuration is incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidNamespace is returned when a namespace is not of the form
	// "database.collection".
	ErrInvalidNamespace = errors.New("invalid namespace")
)

// OpError represents a failed database operation with context
type OpError struct {
	Op         string // Operation that failed
	Collection string // Target collection, if any
	Err        error  // Underlying error
}

// Error implements the error interface
func (e *OpError) Error() string {
	// Collection names are kept out of the message so errors can be logged
	// without leaking deployment details.
	return fmt.Sprintf("cocuchdb: %s operation failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *OpError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *OpError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewOpError creates a new OpError
func NewOpError(op, collection string, err error) *OpError {
	return &OpError{
		Op:         op,
		Collection: collection,
		Err:        err,
	}
}

// IsNotFound checks if an error indicates a missing document
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformedCondition checks if an error indicates an invalid condition expression
func IsMalformedCondition(err error) bool {
	return errors.Is(err, ErrMalformedCondition)
}

// IsUnsupportedOperator checks if an error indicates an unknown condition operator
func IsUnsupportedOperator(err error) bool {
	return errors.Is(err, ErrUnsupportedOperator)
}
