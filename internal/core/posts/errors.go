package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post does not exist
	ErrNotFound = errors.New("post not found")

	// ErrUserUnknown is returned when the author fails the user-exists check
	ErrUserUnknown = errors.New("user unknown")

	// ErrNotOwner is returned when a caller tries to modify another user's post
	ErrNotOwner = errors.New("user does not own this post")
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

// IsNotFound checks if error means the post does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
