package analysis

import (
	"document-improver/internal/domain"
)

// maxReplacements bounds the ranked grammar replacement list.
const maxReplacements = 5

// BuildSuggestions converts an analysis result into persistable suggestion
// rows. All offsets refer to the analyzed text; each row carries the
// snapshot hash so the patch applier can refuse stale applications.
// Document and version ids are filled in by the caller.
func BuildSuggestions(text string, res Result) []domain.Suggestion {
	var out []domain.Suggestion

	for _, issue := range res.Grammar.Issues {
		start, end := issue.Offset, issue.Offset+issue.Length
		if start < 0 || start >= end || end > len(text) {
			continue // collaborator span outside the analyzed snapshot
		}
		var replacement string
		if len(issue.Replacements) > 0 {
			replacement = issue.Replacements[0]
		}
		out = append(out, domain.Suggestion{
			OriginalText:    text[start:end],
			SuggestedText:   replacement,
			ImprovementType: domain.ImprovementGrammar,
			StartPosition:   start,
			EndPosition:     end,
			SnapshotHash:    res.SnapshotHash,
		})
	}

	// Style findings are advisory: they carry no replacement text, so the
	// patch applier never splices them. The full detail (messages, counts)
	// lives in the version's analysis payload.
	for _, s := range res.Style.Suggestions {
		if s.Start < 0 || s.Start >= s.End || s.End > len(text) {
			continue
		}
		out = append(out, domain.Suggestion{
			OriginalText:    text[s.Start:s.End],
			SuggestedText:   "",
			ImprovementType: s.Type,
			StartPosition:   s.Start,
			EndPosition:     s.End,
			SnapshotHash:    res.SnapshotHash,
		})
	}

	return out
}
