package replies

import (
	"errors"
	"fmt"
)

// Sentinel errors for reply operations
var (
	// ErrNotFound is returned when a reply does not exist
	ErrNotFound = errors.New("reply not found")

	// ErrParentNotFound is returned when the named parent reply does not exist
	ErrParentNotFound = errors.New("parent reply not found")

	// ErrUserUnknown is returned when the author is absent from the known-user set
	ErrUserUnknown = errors.New("user unknown")

	// ErrPostUnknown is returned when the root post is absent from the created-post set
	ErrPostUnknown = errors.New("post unknown")

	// ErrNotOwner is returned when a caller tries to modify another user's reply
	ErrNotOwner = errors.New("user does not own this reply")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsNotFound checks if error means the reply or its parent does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrParentNotFound)
}
