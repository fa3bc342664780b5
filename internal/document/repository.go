package document

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"document-improver/internal/domain"
)

// DocumentRepository is the persistence layer for documents, their content,
// versions, suggestions, and templates. Single-row lookups return
// (nil, nil) when the row does not exist; callers decide whether that is an
// error.
type DocumentRepository interface {
	Create(ctx context.Context, userID string, doc *domain.Document) error
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	GetDocumentWithRelations(ctx context.Context, id string) (*domain.Document, error)
	ListByUserID(ctx context.Context, userID string, page, pageSize int) ([]domain.Document, DocumentsMeta, error)
	DeleteDocument(ctx context.Context, doc *domain.Document) error

	TransitionStatus(ctx context.Context, docID, from, to, procErr string) (bool, error)
	IncrementAttempts(ctx context.Context, docID string) error

	GetContent(ctx context.Context, docID string) (*domain.DocumentContent, error)
	CreateContent(ctx context.Context, content *domain.DocumentContent) error

	CreateVersion(ctx context.Context, version *domain.DocumentVersion) error
	FindVersionByType(ctx context.Context, docID, versionType string) (*domain.DocumentVersion, error)
	FindVersion(ctx context.Context, docID, versionID string) (*domain.DocumentVersion, error)
	ListVersions(ctx context.Context, docID string) ([]domain.DocumentVersion, error)

	ReplaceSuggestions(ctx context.Context, docID, versionID string, suggestions []domain.Suggestion) error
	ListSuggestions(ctx context.Context, docID string) ([]domain.Suggestion, error)
	FindSuggestion(ctx context.Context, docID, suggestionID string) (*domain.Suggestion, error)
	SetSuggestionDecision(ctx context.Context, suggestionID string, accepted bool) error

	DefaultTemplate(ctx context.Context) (*domain.Template, error)
	FindTemplate(ctx context.Context, id string) (*domain.Template, error)
	ListTemplates(ctx context.Context) ([]domain.Template, error)
}

type DocumentRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new document repository
func NewRepository(db *gorm.DB) DocumentRepository {
	return &DocumentRepositoryImpl{db: db}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, userID string, doc *domain.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.UserID = userID
	doc.Status = domain.StatusPending
	doc.CreatedAt = time.Now().UTC() // Use UTC for consistency
	doc.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DocumentRepositoryImpl) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) GetDocumentWithRelations(ctx context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.WithContext(ctx).
		Preload("Content").
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("version_number ASC")
		}).
		Preload("Suggestions").
		First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

type DocumentsMeta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

func (r *DocumentRepositoryImpl) ListByUserID(ctx context.Context, userID string, page, pageSize int) ([]domain.Document, DocumentsMeta, error) {
	var documents []domain.Document
	var totalRecords int64

	// Count total records
	if err := r.db.WithContext(ctx).Model(&domain.Document{}).Where("user_id = ?", userID).Count(&totalRecords).Error; err != nil {
		return documents, DocumentsMeta{}, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&documents).Error

	totalPages := int((totalRecords + int64(pageSize) - 1) / int64(pageSize))

	return documents, DocumentsMeta{
		Total:       totalRecords,
		PerPage:     pageSize,
		TotalPage:   totalPages,
		CurrentPage: page,
	}, err
}

func (r *DocumentRepositoryImpl) DeleteDocument(ctx context.Context, doc *domain.Document) error {
	return r.db.WithContext(ctx).Delete(doc).Error
}

// TransitionStatus performs a guarded status update: the row changes only
// when its current status matches `from`. RowsAffected == 0 means another
// writer got there first (or the document was never in `from`), which
// callers treat as losing the claim, not as an error.
func (r *DocumentRepositoryImpl) TransitionStatus(ctx context.Context, docID, from, to, procErr string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Document{}).
		Where("id = ? AND status = ?", docID, from).
		Updates(map[string]any{
			"status":           to,
			"processing_error": procErr,
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DocumentRepositoryImpl) IncrementAttempts(ctx context.Context, docID string) error {
	return r.db.WithContext(ctx).Model(&domain.Document{}).
		Where("id = ?", docID).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
}

func (r *DocumentRepositoryImpl) GetContent(ctx context.Context, docID string) (*domain.DocumentContent, error) {
	var content domain.DocumentContent
	err := r.db.WithContext(ctx).First(&content, "document_id = ?", docID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *DocumentRepositoryImpl) CreateContent(ctx context.Context, content *domain.DocumentContent) error {
	if content.ID == "" {
		content.ID = uuid.NewString()
	}
	content.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(content).Error
}

// CreateVersion numbers and inserts a version atomically. The number comes
// from bumping the document's version_seq inside the same transaction, so
// concurrent writers can never produce duplicate numbers. A second
// "original" version is refused with domain.ErrDuplicateVersion.
func (r *DocumentRepositoryImpl) CreateVersion(ctx context.Context, version *domain.DocumentVersion) error {
	if version.ID == "" {
		version.ID = uuid.NewString()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		if version.VersionType == domain.VersionOriginal {
			var exists bool
			if err := tx.Model(&domain.DocumentVersion{}).
				Select("count(1) > 0").
				Where("document_id = ? AND version_type = ?", version.DocumentID, domain.VersionOriginal).
				Find(&exists).Error; err != nil {
				return err
			}
			if exists {
				return domain.ErrDuplicateVersion
			}
		}

		var seq uint64
		if err := tx.Raw(`
			UPDATE documents
			SET version_seq = version_seq + 1,
			    updated_at = ?
			WHERE id = ?
			RETURNING version_seq
		`, now, version.DocumentID).Scan(&seq).Error; err != nil {
			return err
		}

		version.VersionNumber = seq
		version.CreatedAt = now
		return tx.Create(version).Error
	})
}

func (r *DocumentRepositoryImpl) FindVersionByType(ctx context.Context, docID, versionType string) (*domain.DocumentVersion, error) {
	var version domain.DocumentVersion
	err := r.db.WithContext(ctx).
		Where("document_id = ? AND version_type = ?", docID, versionType).
		Order("version_number DESC").
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *DocumentRepositoryImpl) FindVersion(ctx context.Context, docID, versionID string) (*domain.DocumentVersion, error) {
	var version domain.DocumentVersion
	err := r.db.WithContext(ctx).
		First(&version, "id = ? AND document_id = ?", versionID, docID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *DocumentRepositoryImpl) ListVersions(ctx context.Context, docID string) ([]domain.DocumentVersion, error) {
	var versions []domain.DocumentVersion
	err := r.db.WithContext(ctx).
		Where("document_id = ?", docID).
		Order("version_number ASC").
		Find(&versions).Error
	return versions, err
}

// ReplaceSuggestions swaps the document's suggestion set in one
// transaction, which makes a retried processing run idempotent.
func (r *DocumentRepositoryImpl) ReplaceSuggestions(ctx context.Context, docID, versionID string, suggestions []domain.Suggestion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", docID).Delete(&domain.Suggestion{}).Error; err != nil {
			return err
		}
		if len(suggestions) == 0 {
			return nil
		}
		now := time.Now().UTC()
		for i := range suggestions {
			if suggestions[i].ID == "" {
				suggestions[i].ID = uuid.NewString()
			}
			suggestions[i].DocumentID = docID
			suggestions[i].VersionID = versionID
			suggestions[i].CreatedAt = now
		}
		return tx.Create(&suggestions).Error
	})
}

func (r *DocumentRepositoryImpl) ListSuggestions(ctx context.Context, docID string) ([]domain.Suggestion, error) {
	var suggestions []domain.Suggestion
	err := r.db.WithContext(ctx).
		Where("document_id = ?", docID).
		Order("start_position ASC").
		Find(&suggestions).Error
	return suggestions, err
}

func (r *DocumentRepositoryImpl) FindSuggestion(ctx context.Context, docID, suggestionID string) (*domain.Suggestion, error) {
	var suggestion domain.Suggestion
	err := r.db.WithContext(ctx).
		First(&suggestion, "id = ? AND document_id = ?", suggestionID, docID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}

func (r *DocumentRepositoryImpl) SetSuggestionDecision(ctx context.Context, suggestionID string, accepted bool) error {
	return r.db.WithContext(ctx).Model(&domain.Suggestion{}).
		Where("id = ?", suggestionID).
		Update("is_accepted", accepted).Error
}

func (r *DocumentRepositoryImpl) DefaultTemplate(ctx context.Context) (*domain.Template, error) {
	var tmpl domain.Template
	err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		Order("created_at ASC").
		First(&tmpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (r *DocumentRepositoryImpl) FindTemplate(ctx context.Context, id string) (*domain.Template, error) {
	var tmpl domain.Template
	err := r.db.WithContext(ctx).First(&tmpl, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (r *DocumentRepositoryImpl) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	var templates []domain.Template
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&templates).Error
	return templates, err
}
