// Package textproc holds the pure text algorithms of the pipeline:
// sentence splitting, bounded-size chunking, and offset-safe patch
// application.
package textproc

import "strings"

// Sentence is a sentence-like unit with its character span in the source
// text. Offsets index the exact string passed to SplitSentences.
type Sentence struct {
	Text  string
	Start int
	End   int
}

// SplitSentences splits text into sentence-like units on `.`, `!`, `?`
// followed by whitespace (or end of text). Text without a terminator forms
// a single trailing sentence.
func SplitSentences(text string) []Sentence {
	var sentences []Sentence
	start := -1

	for i := 0; i < len(text); i++ {
		c := text[i]
		if start == -1 {
			if isSpace(c) {
				continue
			}
			start = i
		}

		if c == '.' || c == '!' || c == '?' {
			if i+1 >= len(text) || isSpace(text[i+1]) {
				sentences = append(sentences, Sentence{
					Text:  text[start : i+1],
					Start: start,
					End:   i + 1,
				})
				start = -1
			}
		}
	}

	if start != -1 {
		end := len(text)
		// Trim trailing whitespace from the final span
		for end > start && isSpace(text[end-1]) {
			end--
		}
		if end > start {
			sentences = append(sentences, Sentence{
				Text:  text[start:end],
				Start: start,
				End:   end,
			})
		}
	}

	return sentences
}

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
