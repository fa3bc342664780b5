// Package analysis runs grammar, readability, and style analyses over
// extracted text, producing position-tagged results. Offsets always refer
// to the input text exactly as passed; callers track which snapshot was
// analyzed via the snapshot hash.
package analysis

import (
	"context"
	"sync"

	"document-improver/internal/textproc"
)

// GrammarIssue is one finding from the grammar collaborator. Offset and
// Length are character positions into the analyzed text.
type GrammarIssue struct {
	Message      string   `json:"message"`
	Replacements []string `json:"replacements"` // ranked, may be empty
	Context      string   `json:"context"`
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
}

// GrammarChecker is the grammar capability collaborator.
type GrammarChecker interface {
	Check(ctx context.Context, text string) ([]GrammarIssue, error)
}

type GrammarResult struct {
	Issues []GrammarIssue `json:"issues"`
	Error  string         `json:"error,omitempty"`
}

type ReadabilityResult struct {
	SentenceCount     int     `json:"sentence_count"`
	WordCount         int     `json:"word_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	AvgWordLength     float64 `json:"avg_word_length"`
	Error             string  `json:"error,omitempty"`
}

// StyleSuggestion is one rule-based style finding. Sentence-granularity
// detectors carry the sentence's character span; count-based detectors
// leave the span zeroed.
type StyleSuggestion struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Word    string `json:"word,omitempty"`
	Count   int    `json:"count,omitempty"`
	Start   int    `json:"start_position"`
	End     int    `json:"end_position"`
}

type StyleResult struct {
	PassiveVoiceCount int               `json:"passive_voice_count"`
	Suggestions       []StyleSuggestion `json:"suggestions"`
	Error             string            `json:"error,omitempty"`
}

// Result aggregates the three detector outputs. One detector failing fills
// only its own Error field; the others still report.
type Result struct {
	Grammar      GrammarResult     `json:"grammar"`
	Readability  ReadabilityResult `json:"readability"`
	Style        StyleResult       `json:"style"`
	SnapshotHash string            `json:"snapshot_hash"`
}

type Analyzer struct {
	grammar GrammarChecker
}

func NewAnalyzer(grammar GrammarChecker) *Analyzer {
	return &Analyzer{grammar: grammar}
}

// Analyze runs the three detectors concurrently against independent copies
// of the input; none of them mutate shared state.
func (a *Analyzer) Analyze(ctx context.Context, text string) Result {
	result := Result{SnapshotHash: textproc.SnapshotHash(text)}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		issues, err := a.grammar.Check(ctx, text)
		if err != nil {
			result.Grammar.Error = err.Error()
			return
		}
		result.Grammar.Issues = issues
	}()

	go func() {
		defer wg.Done()
		result.Readability = AssessReadability(text)
	}()

	go func() {
		defer wg.Done()
		result.Style = CheckStyle(text)
	}()

	wg.Wait()
	return result
}
