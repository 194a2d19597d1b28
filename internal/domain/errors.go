package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded signals a full knowledge store.
	ErrCapacityExceeded = errors.New("knowledge store at capacity")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrEmbeddingFailed signals an unavailable embedding capability.
	ErrEmbeddingFailed = errors.New("embedding failed")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrExternalUnavailable signals a failed, empty, or timed-out external fetch.
	ErrExternalUnavailable = errors.New("external data unavailable")
	// ErrFeedbackNotMatched signals feedback with no matching logged query.
	ErrFeedbackNotMatched = errors.New("no logged query matches feedback")
	// ErrInvalidRating signals a feedback rating outside 1.0-5.0.
	ErrInvalidRating = errors.New("rating must be between 1.0 and 5.0")
)

// ValidationError carries user-facing text for a rejected query.
// It is the only error kind whose message reaches the end user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query: %s", e.Message)
}

// NewValidationError creates a ValidationError with user-facing text.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
