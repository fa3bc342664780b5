package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"document-improver/internal/domain"
	"document-improver/internal/textproc"
)

// longSentenceWords is the word count above which a sentence is flagged.
const longSentenceWords = 25

// repetitionThreshold: tokens occurring more than this many times are
// flagged.
const repetitionThreshold = 3

var passiveVoiceRe = regexp.MustCompile(`(?i)\b(am|is|are|was|were|be|been|being)\s+\w+(ed|en)\b`)

// stopWords excluded from repetition counting.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"if": true, "of": true, "at": true, "by": true, "for": true, "with": true,
	"to": true, "from": true, "in": true, "on": true, "it": true, "its": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"this": true, "that": true, "these": true, "those": true, "as": true,
	"he": true, "she": true, "they": true, "we": true, "you": true, "i": true,
	"not": true, "no": true, "so": true, "do": true, "does": true, "did": true,
	"have": true, "has": true, "had": true, "will": true, "would": true,
}

// CheckStyle runs the rule-based style detectors: passive voice, word
// repetition, and long sentences. Sentence-level findings carry the
// sentence's character span into the analyzed text.
func CheckStyle(text string) StyleResult {
	var res StyleResult

	sentences := textproc.SplitSentences(text)

	// Passive voice: overall match count plus per-sentence spans.
	res.PassiveVoiceCount = len(passiveVoiceRe.FindAllStringIndex(text, -1))
	for _, s := range sentences {
		if passiveVoiceRe.MatchString(s.Text) {
			res.Suggestions = append(res.Suggestions, StyleSuggestion{
				Type:    domain.ImprovementPassiveVoice,
				Message: "Sentence appears to use passive voice",
				Start:   s.Start,
				End:     s.End,
			})
		}
	}

	// Long sentences.
	for _, s := range sentences {
		if wc := textproc.WordCount(s.Text); wc > longSentenceWords {
			res.Suggestions = append(res.Suggestions, StyleSuggestion{
				Type:    domain.ImprovementLongSentence,
				Message: fmt.Sprintf("Sentence is %d words long; consider splitting it", wc),
				Count:   wc,
				Start:   s.Start,
				End:     s.End,
			})
		}
	}

	// Word repetition: lowercased tokens excluding stop-words and
	// punctuation, flagged above the threshold.
	freq := make(map[string]int)
	firstSpan := make(map[string][2]int)
	offset := 0
	for _, field := range strings.Fields(text) {
		idx := strings.Index(text[offset:], field)
		start := offset + idx
		offset = start + len(field)

		token := normalizeToken(field)
		if token == "" || stopWords[token] {
			continue
		}
		freq[token]++
		if _, seen := firstSpan[token]; !seen {
			firstSpan[token] = [2]int{start, start + len(field)}
		}
	}

	repeated := make([]string, 0)
	for token, count := range freq {
		if count > repetitionThreshold {
			repeated = append(repeated, token)
		}
	}
	sort.Strings(repeated)
	for _, token := range repeated {
		span := firstSpan[token]
		res.Suggestions = append(res.Suggestions, StyleSuggestion{
			Type:    domain.ImprovementWordRepetition,
			Message: fmt.Sprintf("Word %q occurs %d times", token, freq[token]),
			Word:    token,
			Count:   freq[token],
			Start:   span[0],
			End:     span[1],
		})
	}

	return res
}

func normalizeToken(field string) string {
	token := strings.ToLower(field)
	return strings.Trim(token, ".,;:!?\"'()[]{}")
}
