package analysis

import (
	"strings"
	"unicode"

	"document-improver/internal/textproc"
)

// AssessReadability computes sentence/word counts and averages. Punctuation
// tokens are excluded from the word count.
func AssessReadability(text string) ReadabilityResult {
	sentences := textproc.SplitSentences(text)
	words := tokenize(text)

	var totalLen int
	for _, w := range words {
		totalLen += len([]rune(w))
	}

	res := ReadabilityResult{
		SentenceCount: len(sentences),
		WordCount:     len(words),
	}
	if len(sentences) > 0 {
		res.AvgSentenceLength = float64(len(words)) / float64(len(sentences))
	}
	if len(words) > 0 {
		res.AvgWordLength = float64(totalLen) / float64(len(words))
	}
	return res
}

// tokenize splits text on whitespace and strips surrounding punctuation.
// Tokens that are pure punctuation are dropped.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
