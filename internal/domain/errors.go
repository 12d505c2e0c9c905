package domain

import "errors"

// Domain errors
var (
	ErrHighlightNotFound = errors.New("highlight not found")
	ErrBookmarkRequired  = errors.New("bookmark_id is required")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidColor      = errors.New("color is not part of the highlight palette")

	// ErrPositionNotFound is returned when every resolution strategy fails
	// to locate a stored highlight in the current content tree. Callers log
	// and skip; it never crosses the manager's public surface.
	ErrPositionNotFound = errors.New("highlight position not found in content tree")

	// ErrRenderFailed is returned when a resolved range cannot be wrapped
	// even via the extract/reinsert fallback.
	ErrRenderFailed = errors.New("highlight could not be rendered")
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
