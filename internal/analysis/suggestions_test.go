package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"document-improver/internal/domain"
	"document-improver/internal/textproc"
)

// TestBuildSuggestions_GrammarIssue tests conversion of a grammar issue to
// a suggestion row with the top-ranked replacement
func TestBuildSuggestions_GrammarIssue(t *testing.T) {
	text := "This is bad grammer."
	res := Result{
		SnapshotHash: textproc.SnapshotHash(text),
		Grammar: GrammarResult{Issues: []GrammarIssue{
			{Message: "Spelling", Replacements: []string{"grammar", "grimmer"}, Offset: 12, Length: 7},
		}},
	}

	suggestions := BuildSuggestions(text, res)

	assert.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.Equal(t, "grammer", s.OriginalText)
	assert.Equal(t, "grammar", s.SuggestedText)
	assert.Equal(t, domain.ImprovementGrammar, s.ImprovementType)
	assert.Equal(t, 12, s.StartPosition)
	assert.Equal(t, 19, s.EndPosition)
	assert.Equal(t, res.SnapshotHash, s.SnapshotHash)
}

// TestBuildSuggestions_OutOfBoundsSkipped tests that collaborator spans
// outside the snapshot are dropped instead of corrupting offsets
func TestBuildSuggestions_OutOfBoundsSkipped(t *testing.T) {
	text := "short"
	res := Result{Grammar: GrammarResult{Issues: []GrammarIssue{
		{Message: "bogus", Offset: 2, Length: 50},
		{Message: "negative", Offset: -1, Length: 3},
	}}}

	assert.Empty(t, BuildSuggestions(text, res))
}

// TestBuildSuggestions_StyleAdvisory tests that style findings become
// advisory rows with no replacement text
func TestBuildSuggestions_StyleAdvisory(t *testing.T) {
	text := "The ball was thrown."
	res := Result{
		SnapshotHash: textproc.SnapshotHash(text),
		Style: StyleResult{Suggestions: []StyleSuggestion{
			{Type: domain.ImprovementPassiveVoice, Message: "passive", Start: 0, End: 20},
		}},
	}

	suggestions := BuildSuggestions(text, res)

	assert.Len(t, suggestions, 1)
	assert.Equal(t, domain.ImprovementPassiveVoice, suggestions[0].ImprovementType)
	assert.Empty(t, suggestions[0].SuggestedText)
	assert.Equal(t, text[0:20], suggestions[0].OriginalText)
}

// TestBuildSuggestions_NoReplacement tests a grammar issue with an empty
// replacement list
func TestBuildSuggestions_NoReplacement(t *testing.T) {
	text := "Something odd here."
	res := Result{Grammar: GrammarResult{Issues: []GrammarIssue{
		{Message: "odd phrasing", Offset: 0, Length: 9},
	}}}

	suggestions := BuildSuggestions(text, res)

	assert.Len(t, suggestions, 1)
	assert.Empty(t, suggestions[0].SuggestedText)
}
