package domain

import "errors"

// Domain errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidToken      = errors.New("invalid token")
	ErrBookNotFound      = errors.New("book not found")
	ErrAudiobookNotFound = errors.New("audiobook not found")
	ErrNotInList         = errors.New("item is not in the list")
	ErrUpstream          = errors.New("upstream request failed")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
