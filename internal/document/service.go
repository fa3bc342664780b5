package document

import (
	"bytes"
	"context"
	defError "errors"
	"fmt"
	"log"
	"path/filepath"
	"text/template"
	"time"

	"github.com/google/uuid"

	"document-improver/internal/domain"
	"document-improver/internal/errors"
	"document-improver/internal/extract"
	"document-improver/internal/pipeline"
	"document-improver/internal/textproc"
	"document-improver/internal/worker"
	"document-improver/redis"
)

type Service interface {
	UploadDocument(ctx context.Context, userID, title, filename string, data []byte) (*domain.Document, error)
	GetDocument(ctx context.Context, docID, userID string) (*domain.Document, error)
	GetUserDocuments(ctx context.Context, userID string, page, pageSize int) (*PaginatedDocuments, error)
	DeleteDocument(ctx context.Context, docID, userID string) error
	ReprocessDocument(ctx context.Context, docID, userID string) (*domain.Document, error)

	ListVersions(ctx context.Context, docID, userID string) ([]domain.DocumentVersion, error)
	GetVersion(ctx context.Context, docID, versionID, userID string) (*domain.DocumentVersion, error)

	ListSuggestions(ctx context.Context, docID, userID string) ([]domain.Suggestion, error)
	DecideSuggestion(ctx context.Context, docID, suggestionID, userID string, accept bool) (*domain.Suggestion, error)
	ApplyAcceptedSuggestions(ctx context.Context, docID, userID string) (*domain.DocumentVersion, error)

	ExportDocument(ctx context.Context, docID, userID, templateID string) (*domain.DocumentVersion, []byte, error)
	ListTemplates(ctx context.Context) ([]domain.Template, error)
}

// Pipeline is the processing orchestrator as the service sees it.
type Pipeline interface {
	Run(ctx context.Context, docID string) error
	Reprocess(ctx context.Context, docID string) error
}

// TaskSubmitter queues background work.
type TaskSubmitter interface {
	Submit(t worker.Task)
}

// FileStorage stores and retrieves uploaded, exported, and template files.
type FileStorage interface {
	Save(subdir, name string, data []byte) (string, error)
	Read(rel string) ([]byte, error)
	Remove(rel string) error
}

type DefaultService struct {
	repository DocumentRepository
	files      FileStorage
	pipeline   Pipeline
	tasks      TaskSubmitter
	cache      *redis.Cache

	maxUploadBytes   int64
	syncProcessLimit int64
}

func NewService(
	repository DocumentRepository,
	files FileStorage,
	pl Pipeline,
	tasks TaskSubmitter,
	cache *redis.Cache,
	maxUploadBytes int64,
	syncProcessLimit int64,
) Service {
	return &DefaultService{
		repository:       repository,
		files:            files,
		pipeline:         pl,
		tasks:            tasks,
		cache:            cache,
		maxUploadBytes:   maxUploadBytes,
		syncProcessLimit: syncProcessLimit,
	}
}

// UploadDocument validates and stores the file, records the document as
// pending, and dispatches processing. Files at or under the sync limit are
// processed in the request path so the response already reflects the
// outcome; larger files go to the background pool.
func (s *DefaultService) UploadDocument(ctx context.Context, userID, title, filename string, data []byte) (*domain.Document, error) {
	if len(data) == 0 {
		return nil, errors.BadRequest("Uploaded file is empty", nil)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, errors.BadRequest(
			fmt.Sprintf("File exceeds the %d byte upload limit", s.maxUploadBytes), nil)
	}

	format, err := extract.Detect(filename)
	if err != nil {
		return nil, errors.BadRequest("Unsupported file type, use txt, docx, or pdf", err)
	}

	if title == "" {
		title = filepath.Base(filename)
	}

	docID := uuid.NewString()
	storedName := docID + filepath.Ext(filename)
	rel, err := s.files.Save("uploads", storedName, data)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:       docID,
		Title:    title,
		FilePath: rel,
		FileType: string(format),
	}
	if err := s.repository.Create(ctx, userID, doc); err != nil {
		// don't leave an orphaned upload behind
		if rmErr := s.files.Remove(rel); rmErr != nil {
			log.Printf("Could not remove orphaned upload %s: %v", rel, rmErr)
		}
		return nil, err
	}

	versionKey := fmt.Sprintf("user:%s:docs:version", userID)
	s.cache.IncrementVersion(ctx, versionKey)

	if int64(len(data)) <= s.syncProcessLimit {
		if err := s.pipeline.Run(ctx, doc.ID); err != nil {
			log.Printf("Inline processing of document %s failed: %v", doc.ID, err)
		}
		return s.mustGetOwned(ctx, doc.ID, userID)
	}

	s.tasks.Submit(func(taskCtx context.Context) error {
		return s.pipeline.Run(taskCtx, docID)
	})
	return doc, nil
}

func (s *DefaultService) GetDocument(ctx context.Context, docID, userID string) (*domain.Document, error) {
	doc, err := s.repository.GetDocumentWithRelations(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.NotFound("Document not found", nil)
	}
	if doc.UserID != userID {
		return nil, errors.Forbidden("You don't own this document", nil)
	}
	return doc, nil
}

type PaginatedDocuments struct {
	Data []domain.Document `json:"data"`
	Meta DocumentsMeta     `json:"meta"`
}

func (s *DefaultService) GetUserDocuments(ctx context.Context, userID string, page, pageSize int) (*PaginatedDocuments, error) {
	// Get the current data version for this user's documents
	versionKey := fmt.Sprintf("user:%s:docs:version", userID)
	v := s.cache.GetVersion(ctx, versionKey)

	cacheKey := fmt.Sprintf("docs:u:%s:v:%d:p:%d:ps:%d", userID, v, page, pageSize)

	var result PaginatedDocuments
	// get data from cache
	found, _ := s.cache.Get(ctx, cacheKey, &result)
	if found {
		return &result, nil
	}

	documents, meta, err := s.repository.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	result = PaginatedDocuments{Data: documents, Meta: meta}
	// set value to cache
	go s.cache.Set(context.Background(), cacheKey, result, 24*time.Hour)

	return &result, nil
}

func (s *DefaultService) DeleteDocument(ctx context.Context, docID, userID string) error {
	doc, err := s.mustGetOwned(ctx, docID, userID)
	if err != nil {
		return err
	}
	if doc.Status == domain.StatusProcessing {
		return errors.Conflict("Document is being processed, try again later", nil)
	}

	if err := s.repository.DeleteDocument(ctx, doc); err != nil {
		return err
	}

	if doc.FilePath != "" {
		if err := s.files.Remove(doc.FilePath); err != nil {
			log.Printf("Could not remove stored file %s: %v", doc.FilePath, err)
		}
	}

	versionKey := fmt.Sprintf("user:%s:docs:version", userID)
	s.cache.IncrementVersion(ctx, versionKey)
	return nil
}

// ReprocessDocument puts a failed document back in the queue.
func (s *DefaultService) ReprocessDocument(ctx context.Context, docID, userID string) (*domain.Document, error) {
	doc, err := s.mustGetOwned(ctx, docID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.pipeline.Reprocess(ctx, docID); err != nil {
		if defError.Is(err, pipeline.ErrInvalidTransition) {
			return nil, errors.UnprocessableEntity(
				fmt.Sprintf("Document in status %q can't be reprocessed", doc.Status), err)
		}
		return nil, err
	}

	s.tasks.Submit(func(taskCtx context.Context) error {
		return s.pipeline.Run(taskCtx, docID)
	})

	return s.mustGetOwned(ctx, docID, userID)
}

func (s *DefaultService) ListVersions(ctx context.Context, docID, userID string) ([]domain.DocumentVersion, error) {
	if _, err := s.mustGetOwned(ctx, docID, userID); err != nil {
		return nil, err
	}
	return s.repository.ListVersions(ctx, docID)
}

func (s *DefaultService) GetVersion(ctx context.Context, docID, versionID, userID string) (*domain.DocumentVersion, error) {
	if _, err := s.mustGetOwned(ctx, docID, userID); err != nil {
		return nil, err
	}
	version, err := s.repository.FindVersion(ctx, docID, versionID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, errors.NotFound("Version not found", nil)
	}
	return version, nil
}

func (s *DefaultService) ListSuggestions(ctx context.Context, docID, userID string) ([]domain.Suggestion, error) {
	if _, err := s.mustGetOwned(ctx, docID, userID); err != nil {
		return nil, err
	}
	return s.repository.ListSuggestions(ctx, docID)
}

func (s *DefaultService) DecideSuggestion(ctx context.Context, docID, suggestionID, userID string, accept bool) (*domain.Suggestion, error) {
	doc, err := s.mustGetOwned(ctx, docID, userID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.StatusCompleted {
		return nil, errors.UnprocessableEntity("Document hasn't finished processing", nil)
	}

	suggestion, err := s.repository.FindSuggestion(ctx, docID, suggestionID)
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		return nil, errors.NotFound("Suggestion not found", nil)
	}

	if err := s.repository.SetSuggestionDecision(ctx, suggestionID, accept); err != nil {
		return nil, err
	}
	suggestion.IsAccepted = &accept
	return suggestion, nil
}

// ApplyAcceptedSuggestions patches the original extracted text with every
// accepted suggestion and records the result as a new improved version.
func (s *DefaultService) ApplyAcceptedSuggestions(ctx context.Context, docID, userID string) (*domain.DocumentVersion, error) {
	doc, err := s.mustGetOwned(ctx, docID, userID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.StatusCompleted {
		return nil, errors.UnprocessableEntity("Document hasn't finished processing", nil)
	}

	content, err := s.repository.GetContent(ctx, docID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, errors.UnprocessableEntity("Document has no extracted text", nil)
	}

	suggestions, err := s.repository.ListSuggestions(ctx, docID)
	if err != nil {
		return nil, err
	}

	patched, err := textproc.ApplyAccepted(content.OriginalText, suggestions)
	if err != nil {
		switch {
		case defError.Is(err, textproc.ErrOverlappingSuggestions):
			return nil, errors.Conflict("Accepted suggestions overlap, reject one of them", err)
		case defError.Is(err, textproc.ErrSnapshotMismatch), defError.Is(err, textproc.ErrInvalidSpan):
			return nil, errors.UnprocessableEntity("Suggestions don't match the document text", err)
		default:
			return nil, err
		}
	}

	version := &domain.DocumentVersion{
		DocumentID:  docID,
		VersionType: domain.VersionImproved,
		Content:     patched,
	}
	if err := s.repository.CreateVersion(ctx, version); err != nil {
		return nil, err
	}
	return version, nil
}

// exportData is what export templates can reference.
type exportData struct {
	Title       string
	Content     string
	GeneratedAt time.Time
}

// ExportDocument renders the latest improved text (falling back to the
// original) through the chosen template, stores the file, and records an
// exported version. Returns the version and the rendered bytes.
func (s *DefaultService) ExportDocument(ctx context.Context, docID, userID, templateID string) (*domain.DocumentVersion, []byte, error) {
	doc, err := s.mustGetOwned(ctx, docID, userID)
	if err != nil {
		return nil, nil, err
	}
	if doc.Status != domain.StatusCompleted {
		return nil, nil, errors.UnprocessableEntity("Document hasn't finished processing", nil)
	}

	tmplRow, err := s.resolveTemplate(ctx, templateID)
	if err != nil {
		return nil, nil, err
	}

	source, err := s.repository.FindVersionByType(ctx, docID, domain.VersionImproved)
	if err != nil {
		return nil, nil, err
	}
	if source == nil {
		source, err = s.repository.FindVersionByType(ctx, docID, domain.VersionOriginal)
		if err != nil {
			return nil, nil, err
		}
	}
	if source == nil {
		return nil, nil, errors.UnprocessableEntity("Document has no versions to export", nil)
	}

	tmplBytes, err := s.files.Read(tmplRow.FilePath)
	if err != nil {
		return nil, nil, err
	}
	tmpl, err := template.New(tmplRow.Name).Parse(string(tmplBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing template %s: %w", tmplRow.Name, err)
	}

	var rendered bytes.Buffer
	err = tmpl.Execute(&rendered, exportData{
		Title:       doc.Title,
		Content:     source.Content,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("rendering template %s: %w", tmplRow.Name, err)
	}

	exportName := fmt.Sprintf("%s-%s.txt", docID, uuid.NewString())
	rel, err := s.files.Save("exports", exportName, rendered.Bytes())
	if err != nil {
		return nil, nil, err
	}

	version := &domain.DocumentVersion{
		DocumentID:  docID,
		VersionType: domain.VersionExported,
		Content:     rendered.String(),
		FilePath:    rel,
	}
	if err := s.repository.CreateVersion(ctx, version); err != nil {
		return nil, nil, err
	}
	return version, rendered.Bytes(), nil
}

func (s *DefaultService) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	return s.repository.ListTemplates(ctx)
}

func (s *DefaultService) resolveTemplate(ctx context.Context, templateID string) (*domain.Template, error) {
	if templateID != "" {
		tmpl, err := s.repository.FindTemplate(ctx, templateID)
		if err != nil {
			return nil, err
		}
		if tmpl == nil {
			return nil, errors.NotFound("Template not found", nil)
		}
		return tmpl, nil
	}

	tmpl, err := s.repository.DefaultTemplate(ctx)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, errors.UnprocessableEntity("No default template configured", nil)
	}
	return tmpl, nil
}

func (s *DefaultService) mustGetOwned(ctx context.Context, docID, userID string) (*domain.Document, error) {
	doc, err := s.repository.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.NotFound("Document not found", nil)
	}
	if doc.UserID != userID {
		return nil, errors.Forbidden("You don't own this document", nil)
	}
	return doc, nil
}
