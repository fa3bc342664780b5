package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSplitSentences_Spans tests that sentence spans index the source text
func TestSplitSentences_Spans(t *testing.T) {
	text := "First one. Second one! Third?"

	sentences := SplitSentences(text)

	assert.Len(t, sentences, 3)
	for _, s := range sentences {
		assert.Equal(t, s.Text, text[s.Start:s.End])
	}
	assert.Equal(t, "First one.", sentences[0].Text)
	assert.Equal(t, "Second one!", sentences[1].Text)
	assert.Equal(t, "Third?", sentences[2].Text)
}

// TestSplitSentences_NoTerminator tests trailing text without punctuation
func TestSplitSentences_NoTerminator(t *testing.T) {
	sentences := SplitSentences("Done. And this trails off")

	assert.Len(t, sentences, 2)
	assert.Equal(t, "And this trails off", sentences[1].Text)
}

// TestSplitSentences_AbbreviationDot tests that a dot inside a token does
// not split (e.g. version numbers)
func TestSplitSentences_AbbreviationDot(t *testing.T) {
	sentences := SplitSentences("Use v1.2 here. Then stop.")

	assert.Len(t, sentences, 2)
	assert.Equal(t, "Use v1.2 here.", sentences[0].Text)
}

// TestSplitSentences_Empty tests empty and whitespace-only input
func TestSplitSentences_Empty(t *testing.T) {
	assert.Empty(t, SplitSentences(""))
	assert.Empty(t, SplitSentences("  \n\t "))
}

// TestSplitChunks_RespectsLimit tests that chunks stay under the word cap
func TestSplitChunks_RespectsLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("one two three four five. ")
	}

	chunks := SplitChunks(b.String(), 12)

	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, WordCount(chunk), 12)
	}
}

// TestSplitChunks_PreservesWords tests that no content is dropped
func TestSplitChunks_PreservesWords(t *testing.T) {
	text := "Alpha beta gamma. Delta epsilon. Zeta eta theta iota. Kappa."

	chunks := SplitChunks(text, 4)

	joined := JoinChunks(chunks)
	assert.Equal(t, strings.Fields(text), strings.Fields(joined))
}

// TestSplitChunks_OversizedSentence tests that a sentence over the cap is
// emitted whole rather than truncated
func TestSplitChunks_OversizedSentence(t *testing.T) {
	long := strings.Repeat("word ", 30) + "end."
	text := "Short one. " + long

	chunks := SplitChunks(text, 5)

	assert.Len(t, chunks, 2)
	assert.Equal(t, "Short one.", chunks[0])
	assert.Equal(t, 31, WordCount(chunks[1]))
}

// TestSplitChunks_Empty tests empty input
func TestSplitChunks_Empty(t *testing.T) {
	assert.Nil(t, SplitChunks("", 200))
}

// TestSplitChunks_SingleChunk tests text under the cap
func TestSplitChunks_SingleChunk(t *testing.T) {
	chunks := SplitChunks("Just a few words here.", 200)

	assert.Len(t, chunks, 1)
}
