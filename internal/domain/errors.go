package domain

import "errors"

// Domain errors
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrFileNotAttached  = errors.New("document has no attached file")
	ErrNoOwningGroup    = errors.New("document has no group membership")
	ErrMultipleGroups   = errors.New("document belongs to more than one group")
	ErrInvalidFile      = errors.New("invalid file")
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
