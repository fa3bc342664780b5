package textproc

import "strings"

// SplitChunks splits text into sentence-respecting chunks of at most
// maxWords words each. Sentences are accumulated greedily; a single
// sentence longer than maxWords is emitted as its own oversized chunk
// rather than being truncated — content is never dropped.
func SplitChunks(text string, maxWords int) []string {
	if maxWords < 1 {
		maxWords = 1
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	words := 0

	for _, s := range sentences {
		wc := WordCount(s.Text)
		if words > 0 && words+wc > maxWords {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
			words = 0
		}
		current = append(current, s.Text)
		words += wc
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// JoinChunks reassembles chunk outputs with a single space. Original
// whitespace and paragraph breaks are not preserved; downstream consumers
// are prose-level.
func JoinChunks(chunks []string) string {
	return strings.Join(chunks, " ")
}
