package textproc

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"document-improver/internal/domain"
)

var (
	// ErrOverlappingSuggestions is returned when two accepted suggestions
	// cover intersecting spans; applying them would produce corrupted text.
	ErrOverlappingSuggestions = errors.New("overlapping suggestions")
	// ErrSnapshotMismatch is returned when a suggestion's offsets were
	// computed against a different text snapshot.
	ErrSnapshotMismatch = errors.New("suggestion snapshot does not match text")
	// ErrInvalidSpan is returned for spans outside the text bounds.
	ErrInvalidSpan = errors.New("suggestion span out of range")
)

// SnapshotHash identifies a text snapshot. Suggestion offsets are only
// valid against the snapshot they were computed from.
func SnapshotHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ApplyAccepted applies the accepted suggestions to text and returns the
// patched result. Replacements change length, so applying in ascending
// offset order would shift every later span; suggestions are applied in
// descending start order instead, which leaves all not-yet-applied offsets
// valid because only text after them has been touched.
func ApplyAccepted(text string, suggestions []domain.Suggestion) (string, error) {
	hash := SnapshotHash(text)

	accepted := make([]domain.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if s.IsAccepted == nil || !*s.IsAccepted {
			continue
		}
		// Advisory suggestions (no replacement candidate) are never spliced.
		if s.SuggestedText == "" {
			continue
		}
		if s.SnapshotHash != "" && s.SnapshotHash != hash {
			return "", fmt.Errorf("%w: suggestion %s", ErrSnapshotMismatch, s.ID)
		}
		if s.StartPosition < 0 || s.StartPosition >= s.EndPosition || s.EndPosition > len(text) {
			return "", fmt.Errorf("%w: [%d,%d) in text of length %d",
				ErrInvalidSpan, s.StartPosition, s.EndPosition, len(text))
		}
		accepted = append(accepted, s)
	}

	if len(accepted) == 0 {
		return text, nil
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].StartPosition < accepted[j].StartPosition
	})
	for i := 1; i < len(accepted); i++ {
		if accepted[i].StartPosition < accepted[i-1].EndPosition {
			return "", fmt.Errorf("%w: [%d,%d) and [%d,%d)",
				ErrOverlappingSuggestions,
				accepted[i-1].StartPosition, accepted[i-1].EndPosition,
				accepted[i].StartPosition, accepted[i].EndPosition)
		}
	}

	// Highest offset first
	for i := len(accepted) - 1; i >= 0; i-- {
		s := accepted[i]
		text = text[:s.StartPosition] + s.SuggestedText + text[s.EndPosition:]
	}

	return text, nil
}
