package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDetect_KnownFormats tests extension-based format detection
func TestDetect_KnownFormats(t *testing.T) {
	cases := map[string]Format{
		"notes.txt":     FormatTxt,
		"Report.DOCX":   FormatDocx,
		"paper.pdf":     FormatPdf,
		"dir/essay.TXT": FormatTxt,
	}

	for name, want := range cases {
		format, err := Detect(name)
		assert.NoError(t, err)
		assert.Equal(t, want, format)
	}
}

// TestDetect_Unsupported tests rejection of unknown extensions
func TestDetect_Unsupported(t *testing.T) {
	for _, name := range []string{"image.png", "archive.zip", "noext"} {
		_, err := Detect(name)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	}
}

// TestTxtExtractor_UTF8 tests plain UTF-8 text extraction
func TestTxtExtractor_UTF8(t *testing.T) {
	e := &TxtExtractor{}

	text, err := e.Extract([]byte("  Hello, world!\n"))

	assert.NoError(t, err)
	assert.Equal(t, "Hello, world!", text)
}

// TestTxtExtractor_Latin1Fallback tests that invalid UTF-8 decodes as
// Latin-1 instead of failing
func TestTxtExtractor_Latin1Fallback(t *testing.T) {
	e := &TxtExtractor{}

	// "café" in Latin-1: é = 0xE9, invalid as UTF-8
	text, err := e.Extract([]byte{'c', 'a', 'f', 0xE9})

	assert.NoError(t, err)
	assert.Equal(t, "café", text)
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	assert.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	return buf.Bytes()
}

// TestDocxExtractor_Paragraphs tests paragraph extraction from a minimal
// docx archive
func TestDocxExtractor_Paragraphs(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`
	e := &DocxExtractor{}

	text, err := e.Extract(buildDocx(t, docXML))

	assert.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", text)
}

// TestDocxExtractor_NotAZip tests corrupt input
func TestDocxExtractor_NotAZip(t *testing.T) {
	e := &DocxExtractor{}

	_, err := e.Extract([]byte("this is not a zip archive"))

	assert.Error(t, err)
}

// TestDocxExtractor_MissingDocumentXML tests an archive without the word
// document part
func TestDocxExtractor_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("other.xml")
	f.Write([]byte("<x/>"))
	w.Close()

	e := &DocxExtractor{}
	_, err := e.Extract(buf.Bytes())

	assert.Error(t, err)
}

// TestRegistry_WrapsFailures tests that registry extraction failures carry
// the sentinel
func TestRegistry_WrapsFailures(t *testing.T) {
	r := NewRegistry()

	_, err := r.Extract([]byte("not a zip"), FormatDocx)

	assert.ErrorIs(t, err, ErrExtraction)
}

// TestRegistry_UnknownFormat tests dispatch of an unregistered format
func TestRegistry_UnknownFormat(t *testing.T) {
	r := NewRegistry()

	_, err := r.Extract([]byte("x"), Format("odt"))

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
