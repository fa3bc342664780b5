package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"document-improver/internal/analysis"
	"document-improver/internal/domain"
	"document-improver/internal/extract"
	"document-improver/internal/textproc"
)

// Store is what the processor needs from the persistence layer. Lookup
// methods return (nil, nil) when the row does not exist.
type Store interface {
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	// TransitionStatus atomically moves a document from one status to
	// another, recording procErr alongside. It reports false when the
	// document was not in the expected status, which is how concurrent
	// runs lose the claim race without double-processing.
	TransitionStatus(ctx context.Context, docID, from, to, procErr string) (bool, error)
	GetContent(ctx context.Context, docID string) (*domain.DocumentContent, error)
	CreateContent(ctx context.Context, content *domain.DocumentContent) error
	FindVersionByType(ctx context.Context, docID, versionType string) (*domain.DocumentVersion, error)
	// CreateVersion assigns the version number transactionally and returns
	// domain.ErrDuplicateVersion when a second "original" is attempted.
	CreateVersion(ctx context.Context, version *domain.DocumentVersion) error
	ReplaceSuggestions(ctx context.Context, docID, versionID string, suggestions []domain.Suggestion) error
	IncrementAttempts(ctx context.Context, docID string) error
}

// FileSource reads stored files by their saved relative path.
type FileSource interface {
	Read(rel string) ([]byte, error)
}

// Paraphraser is the rewriting collaborator.
type Paraphraser interface {
	Paraphrase(ctx context.Context, text string) (string, error)
}

type Processor struct {
	store       Store
	files       FileSource
	extractors  *extract.Registry
	analyzer    *analysis.Analyzer
	paraphraser Paraphraser

	maxRetries    int
	retryBackoff  time.Duration
	chunkMaxWords int
}

func NewProcessor(
	store Store,
	files FileSource,
	extractors *extract.Registry,
	analyzer *analysis.Analyzer,
	paraphraser Paraphraser,
	maxRetries int,
	retryBackoff time.Duration,
	chunkMaxWords int,
) *Processor {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if chunkMaxWords < 1 {
		chunkMaxWords = 200
	}
	return &Processor{
		store:         store,
		files:         files,
		extractors:    extractors,
		analyzer:      analyzer,
		paraphraser:   paraphraser,
		maxRetries:    maxRetries,
		retryBackoff:  retryBackoff,
		chunkMaxWords: chunkMaxWords,
	}
}

// Run processes one document end to end: claim, extract, analyze,
// paraphrase, record versions, complete. It is safe to call for a document
// in any status; only a pending document is actually claimed. A run that
// fails for any reason leaves the document in "failed" with the error
// recorded, never stuck in "processing".
func (p *Processor) Run(ctx context.Context, docID string) error {
	doc, err := p.store.GetDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("loading document %s: %w", docID, err)
	}
	if doc == nil {
		return fmt.Errorf("document %s not found", docID)
	}

	claimed, err := p.store.TransitionStatus(ctx, docID, domain.StatusPending, domain.StatusProcessing, "")
	if err != nil {
		return fmt.Errorf("claiming document %s: %w", docID, err)
	}
	if !claimed {
		// Already processing elsewhere, completed, or failed. Not an error.
		log.Printf("Document %s is not pending (status %q), skipping", docID, doc.Status)
		return nil
	}

	runErr := func() (err error) {
		// Whatever happens in here, the document must not stay "processing".
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic during processing: %v", r)
			}
		}()
		return p.process(ctx, doc)
	}()
	if runErr == nil {
		done, err := p.store.TransitionStatus(ctx, docID, domain.StatusProcessing, domain.StatusCompleted, "")
		if err != nil {
			return fmt.Errorf("completing document %s: %w", docID, err)
		}
		if !done {
			return fmt.Errorf("document %s left processing unexpectedly", docID)
		}
		return nil
	}

	log.Printf("Processing document %s failed: %v", docID, runErr)
	// Shutdown may have cancelled ctx; the failure mark must still land.
	failCtx := context.WithoutCancel(ctx)
	if _, ferr := p.store.TransitionStatus(failCtx, docID, domain.StatusProcessing, domain.StatusFailed, runErr.Error()); ferr != nil {
		log.Printf("Could not mark document %s failed: %v", docID, ferr)
	}
	return runErr
}

func (p *Processor) process(ctx context.Context, doc *domain.Document) error {
	var data []byte
	err := p.withRetry(ctx, "read file", func() error {
		var rerr error
		data, rerr = p.files.Read(doc.FilePath)
		return rerr
	})
	if err != nil {
		return err
	}

	text, err := p.extractors.Extract(data, extract.Format(doc.FileType))
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyContent
	}

	original, err := p.ensureOriginal(ctx, doc.ID, text)
	if err != nil {
		return err
	}
	// Suggestions are always anchored to the original extracted text, even
	// on a reprocess where the stored snapshot wins over a fresh extraction.
	text = original.Content

	result := p.analyzer.Analyze(ctx, text)
	if result.Grammar.Error != "" {
		log.Printf("Grammar check unavailable for document %s: %s", doc.ID, result.Grammar.Error)
	}

	suggestions := analysis.BuildSuggestions(text, result)
	for i := range suggestions {
		suggestions[i].DocumentID = doc.ID
		suggestions[i].VersionID = original.ID
	}
	if err := p.store.ReplaceSuggestions(ctx, doc.ID, original.ID, suggestions); err != nil {
		return fmt.Errorf("saving suggestions: %w", err)
	}

	improved := p.paraphraseChunks(ctx, text)

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding analysis payload: %w", err)
	}
	version := &domain.DocumentVersion{
		DocumentID:  doc.ID,
		VersionType: domain.VersionImproved,
		Content:     improved,
		Suggestions: payload,
	}
	if err := p.store.CreateVersion(ctx, version); err != nil {
		return fmt.Errorf("saving improved version: %w", err)
	}

	return nil
}

// ensureOriginal records the extracted text and the "original" version,
// tolerating a retried run that already wrote them.
func (p *Processor) ensureOriginal(ctx context.Context, docID, text string) (*domain.DocumentVersion, error) {
	content, err := p.store.GetContent(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	if content == nil {
		content = &domain.DocumentContent{
			DocumentID:   docID,
			OriginalText: text,
		}
		if err := p.store.CreateContent(ctx, content); err != nil {
			return nil, fmt.Errorf("saving content: %w", err)
		}
	}

	original, err := p.store.FindVersionByType(ctx, docID, domain.VersionOriginal)
	if err != nil {
		return nil, fmt.Errorf("loading original version: %w", err)
	}
	if original != nil {
		return original, nil
	}

	original = &domain.DocumentVersion{
		DocumentID:  docID,
		VersionType: domain.VersionOriginal,
		Content:     content.OriginalText,
	}
	err = p.store.CreateVersion(ctx, original)
	if errors.Is(err, domain.ErrDuplicateVersion) {
		// Lost a race with a concurrent writer; use theirs.
		return p.store.FindVersionByType(ctx, docID, domain.VersionOriginal)
	}
	if err != nil {
		return nil, fmt.Errorf("saving original version: %w", err)
	}
	return original, nil
}

// paraphraseChunks rewrites the text in sentence-aligned chunks. A chunk
// whose paraphrase call fails keeps its original wording, so one bad chunk
// never sinks the whole run.
func (p *Processor) paraphraseChunks(ctx context.Context, text string) string {
	chunks := textproc.SplitChunks(text, p.chunkMaxWords)
	improved := make([]string, len(chunks))
	for i, chunk := range chunks {
		out, err := p.paraphraser.Paraphrase(ctx, chunk)
		if err != nil || strings.TrimSpace(out) == "" {
			if err != nil {
				log.Printf("Paraphrase failed for chunk %d/%d, keeping original: %v", i+1, len(chunks), err)
			}
			improved[i] = chunk
			continue
		}
		improved[i] = strings.TrimSpace(out)
	}
	return textproc.JoinChunks(improved)
}

// withRetry runs fn up to the retry ceiling with a doubling backoff between
// attempts.
func (p *Processor) withRetry(ctx context.Context, name string, fn func() error) error {
	backoff := p.retryBackoff
	var err error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == p.maxRetries {
			break
		}
		log.Printf("Attempt %d/%d for %s failed, retrying in %s: %v", attempt, p.maxRetries, name, backoff, err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
	return fmt.Errorf("%s: %w", name, err)
}

// Reprocess moves a failed document back to pending so the caller can
// resubmit it. Completed or in-flight documents are refused.
func (p *Processor) Reprocess(ctx context.Context, docID string) error {
	doc, err := p.store.GetDocument(ctx, docID)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document %s not found", docID)
	}
	if err := ValidateTransition(doc.Status, domain.StatusPending); err != nil {
		return err
	}
	if err := p.store.IncrementAttempts(ctx, docID); err != nil {
		return err
	}
	moved, err := p.store.TransitionStatus(ctx, docID, domain.StatusFailed, domain.StatusPending, "")
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("%w: document %s changed status concurrently", ErrInvalidTransition, docID)
	}
	return nil
}
