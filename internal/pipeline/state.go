// Package pipeline orchestrates document processing: extraction, analysis,
// paraphrasing, and version creation, driven by a small status state machine.
package pipeline

import (
	"errors"
	"fmt"

	"document-improver/internal/domain"
)

var (
	// ErrInvalidTransition is returned for a status change the state
	// machine does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrEmptyContent is returned when extraction yields no usable text.
	ErrEmptyContent = errors.New("document has no extractable text")
)

// transitions is the full set of allowed status changes. "failed" documents
// may only re-enter through "pending" (an explicit reprocess), never jump
// straight back to "processing".
var transitions = map[string][]string{
	domain.StatusPending:    {domain.StatusProcessing},
	domain.StatusProcessing: {domain.StatusCompleted, domain.StatusFailed},
	domain.StatusCompleted:  {},
	domain.StatusFailed:     {domain.StatusPending},
}

// CanTransition reports whether from -> to is an allowed status change.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition when from -> to is not
// allowed, annotated with both statuses.
func ValidateTransition(from, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
