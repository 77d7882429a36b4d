package services

import (
	"errors"
	"fmt"
)

// Service errors
var (
	// ErrNotFound is returned when an entity does not exist or is hidden from the caller
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for invalid input
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyProved is returned when a proof is attached to a request that is already proved
	ErrAlreadyProved = errors.New("validation request already proved")

	ErrUserNotFound              = fmt.Errorf("user %w", ErrNotFound)
	ErrModelNotFound             = fmt.Errorf("model %w", ErrNotFound)
	ErrValidationRequestNotFound = fmt.Errorf("validation request %w", ErrNotFound)
)

// FieldError reports an invalid input field. It matches ErrValidation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewFieldError creates a FieldError
func NewFieldError(field, format string, args ...interface{}) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap makes errors.Is(err, ErrValidation) hold
func (e *FieldError) Unwrap() error {
	return ErrValidation
}
