package interactions

import "errors"

// Sentinel errors for interaction operations
var (
	// ErrUserUnknown is returned when the acting user is absent from the known-user set
	ErrUserUnknown = errors.New("user unknown")

	// ErrPostUnknown is returned when the target post is absent from the created-post set
	ErrPostUnknown = errors.New("post unknown")
)
