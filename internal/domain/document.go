package domain

import (
	"time"

	"gorm.io/gorm"
)

// Document status values. Transitions are enforced by the pipeline state
// machine, not here.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Supported file types for upload.
const (
	FileTypeTxt  = "txt"
	FileTypeDocx = "docx"
	FileTypePdf  = "pdf"
)

// Version types. A document has at most one "original" version; "improved"
// and "exported" versions are appended on each successful run.
const (
	VersionOriginal = "original"
	VersionImproved = "improved"
	VersionExported = "exported"
)

// Improvement types carried by suggestions.
const (
	ImprovementGrammar        = "grammar"
	ImprovementStyle          = "style"
	ImprovementClarity        = "clarity"
	ImprovementPassiveVoice   = "passive_voice"
	ImprovementLongSentence   = "long_sentence"
	ImprovementWordRepetition = "word_repetition"
)

type Document struct {
	ID              string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string `gorm:"type:uuid;index" json:"user_id"`
	Title           string `json:"title"`
	FilePath        string `json:"-"`
	FileType        string `json:"file_type"`
	Status          string `gorm:"default:pending" json:"status"`
	ProcessingError string `json:"processing_error,omitempty"`
	Attempts        int    `json:"-"`
	// VersionSeq backs transactional version numbering; bumped with
	// UPDATE ... RETURNING inside CreateVersion.
	VersionSeq uint64    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Content     *DocumentContent  `json:"content,omitempty"`
	Versions    []DocumentVersion `json:"versions,omitempty"`
	Suggestions []Suggestion      `json:"suggestions,omitempty"`
}

// DocumentContent holds the extracted original text verbatim. At most one
// row per document, immutable once created.
type DocumentContent struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID   string    `gorm:"type:uuid;uniqueIndex" json:"document_id"`
	OriginalText string    `json:"original_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// DocumentVersion is an append-only snapshot of a document's text at some
// processing stage. Never mutated after creation.
type DocumentVersion struct {
	ID            string `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID    string `gorm:"type:uuid;index;uniqueIndex:idx_doc_version_number,priority:1" json:"document_id"`
	VersionType   string `json:"version_type"`
	VersionNumber uint64 `gorm:"uniqueIndex:idx_doc_version_number,priority:2" json:"version_number"`
	Content       string `json:"content"`
	FilePath      string `json:"-"`
	// Suggestions stores the raw analysis payload produced for this version.
	Suggestions []byte    `gorm:"type:jsonb" json:"suggestions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Suggestion is a proposed text edit anchored to a character span in a
// specific text snapshot. Offsets are only valid against the snapshot
// identified by SnapshotHash.
type Suggestion struct {
	ID              string `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID      string `gorm:"type:uuid;index" json:"document_id"`
	VersionID       string `gorm:"type:uuid;index" json:"version_id"`
	OriginalText    string `json:"original_text"`
	SuggestedText   string `json:"suggested_text"`
	ImprovementType string `json:"improvement_type"`
	StartPosition   int    `json:"start_position"`
	EndPosition     int    `json:"end_position"`
	SnapshotHash    string `json:"snapshot_hash"`
	// IsAccepted: nil = pending, true = accepted, false = rejected.
	IsAccepted *bool     `json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
}

// Template is a named export template backed by a file. At most one active
// template should carry the default flag; enforced at export time.
type Template struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FilePath    string    `json:"-"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeDelete removes dependent rows so a document delete does not leave
// orphaned content, versions, or suggestions.
func (d *Document) BeforeDelete(tx *gorm.DB) error {
	if err := tx.Where("document_id = ?", d.ID).Delete(&Suggestion{}).Error; err != nil {
		return err
	}
	if err := tx.Where("document_id = ?", d.ID).Delete(&DocumentVersion{}).Error; err != nil {
		return err
	}
	return tx.Where("document_id = ?", d.ID).Delete(&DocumentContent{}).Error
}
