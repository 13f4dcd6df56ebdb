package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)

	// Validation errors
	ErrValidation        = errors.New("invalid input")
	ErrTooFewGroups      = fmt.Errorf("%w: at least 2 groups required", ErrValidation)
	ErrEmptyGroup        = fmt.Errorf("%w: empty group", ErrValidation)
	ErrNameCountMismatch = fmt.Errorf("%w: name count does not match group count", ErrValidation)
	ErrUnbalancedDesign  = fmt.Errorf("%w: unbalanced two-way design", ErrValidation)

	// Computation errors
	ErrComputation  = errors.New("statistical computation failed")
	ErrZeroVariance = fmt.Errorf("%w: zero pooled error variance", ErrComputation)
	ErrInvalidDF    = fmt.Errorf("%w: invalid degrees of freedom", ErrComputation)
)

// Error constructors with context
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, field, reason)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewComputationError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrComputation, op, err)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsComputationError(err error) bool {
	return errors.Is(err, ErrComputation)
}
