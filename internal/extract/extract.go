// Package extract converts stored files into plain text by format.
//
// Supported formats:
//   - .txt  — UTF-8 with a Latin-1 fallback for legacy documents
//   - .docx — Microsoft Word (archive/zip → word/document.xml)
//   - .pdf  — per-page text extraction via pdfcpu
//
// Extraction is a pure function of the file bytes; document state is the
// orchestrator's job.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for file types outside txt/docx/pdf.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrExtraction wraps corrupt/unreadable file failures.
	ErrExtraction = errors.New("extraction failed")
)

// Format identifies a document type.
type Format string

const (
	FormatTxt  Format = "txt"
	FormatDocx Format = "docx"
	FormatPdf  Format = "pdf"
)

// Extractor converts file bytes into plain text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// Registry routes extraction by format.
type Registry struct {
	extractors map[Format]Extractor
}

// NewRegistry creates a registry with the standard extractors pre-registered.
func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[Format]Extractor)}
	r.Register(FormatTxt, &TxtExtractor{})
	r.Register(FormatDocx, &DocxExtractor{})
	r.Register(FormatPdf, &PdfExtractor{})
	return r
}

func (r *Registry) Register(format Format, e Extractor) {
	r.extractors[format] = e
}

// Detect returns the document format based on file extension.
func Detect(filename string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "txt":
		return FormatTxt, nil
	case "docx":
		return FormatDocx, nil
	case "pdf":
		return FormatPdf, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Extract converts file bytes to plain text using the extractor registered
// for the format.
func (r *Registry) Extract(data []byte, format Format) (string, error) {
	e, ok := r.extractors[format]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	text, err := e.Extract(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return text, nil
}
