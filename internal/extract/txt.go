package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// TxtExtractor decodes plain text files. Invalid UTF-8 falls back to a
// Latin-1 decode so legacy documents still yield text instead of failing.
type TxtExtractor struct{}

func (e *TxtExtractor) Extract(data []byte) (string, error) {
	if utf8.Valid(data) {
		return strings.TrimSpace(string(data)), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// Latin-1 maps every byte; decode errors should not happen, but
		// keep the raw bytes as a last resort rather than dropping content.
		return strings.TrimSpace(string(data)), nil
	}
	return strings.TrimSpace(string(decoded)), nil
}
