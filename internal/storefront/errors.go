package storefront

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrNotFound          = errors.New("not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrSelectionRequired = errors.New("size and color must be selected")
)

// Reasons reported in ValidationError.Reason.
const (
	ReasonRequired     = "required"
	ReasonNegative     = "must not be negative"
	ReasonOutOfRange   = "out of range"
	ReasonTooShort     = "too short"
	ReasonTooLong      = "too long"
	ReasonUnknown      = "unknown value"
	ReasonTooFew       = "too few items"
	ReasonUnknownID    = "unknown id"
	ReasonInvalidValue = "invalid value"
)

// ValidationError names the offending field so the UI can point at it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
