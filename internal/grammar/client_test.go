package grammar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCheck_ParsesMatches tests parsing of a LanguageTool response
func TestCheck_ParsesMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/check", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "This is bad grammer.", r.PostFormValue("text"))
		assert.Equal(t, "en-US", r.PostFormValue("language"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"matches": [{
				"message": "Possible spelling mistake found.",
				"replacements": [{"value": "grammar"}, {"value": "grimmer"}],
				"context": {"text": "This is bad grammer."},
				"offset": 12,
				"length": 7
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	issues, err := client.Check(context.Background(), "This is bad grammer.")

	assert.NoError(t, err)
	assert.Len(t, issues, 1)
	assert.Equal(t, "Possible spelling mistake found.", issues[0].Message)
	assert.Equal(t, []string{"grammar", "grimmer"}, issues[0].Replacements)
	assert.Equal(t, 12, issues[0].Offset)
	assert.Equal(t, 7, issues[0].Length)
}

// TestCheck_ConvertsCharacterOffsets tests that the server's
// character-counted spans come back as byte offsets into the submitted text
func TestCheck_ConvertsCharacterOffsets(t *testing.T) {
	const text = "Café has bad grammer."
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// "grammer" starts at character 13; the two-byte é puts it at byte 14.
		w.Write([]byte(`{
			"matches": [{
				"message": "Possible spelling mistake found.",
				"replacements": [{"value": "grammar"}],
				"offset": 13,
				"length": 7
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	issues, err := client.Check(context.Background(), text)

	assert.NoError(t, err)
	assert.Len(t, issues, 1)
	assert.Equal(t, 14, issues[0].Offset)
	assert.Equal(t, 7, issues[0].Length)
	assert.Equal(t, "grammer", text[issues[0].Offset:issues[0].Offset+issues[0].Length])
}

// TestCheck_SkipsOutOfRangeMatch tests that a span past the end of the
// submitted text is dropped rather than mapped
func TestCheck_SkipsOutOfRangeMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"matches": [{"message": "m", "offset": 10, "length": 5}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	issues, err := client.Check(context.Background(), "short")

	assert.NoError(t, err)
	assert.Empty(t, issues)
}

// TestCheck_CapsReplacements tests that the ranked replacement list is
// bounded
func TestCheck_CapsReplacements(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"matches": [{
				"message": "m",
				"replacements": [
					{"value": "a"}, {"value": "b"}, {"value": "c"},
					{"value": "d"}, {"value": "e"}, {"value": "f"}, {"value": "g"}
				],
				"offset": 0,
				"length": 1
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	issues, err := client.Check(context.Background(), "x")

	assert.NoError(t, err)
	assert.Len(t, issues[0].Replacements, 5)
}

// TestCheck_ServerError tests a non-2xx response
func TestCheck_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Check(context.Background(), "x")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status=503")
}

// TestCheck_NoMatches tests a clean text
func TestCheck_NoMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	issues, err := client.Check(context.Background(), "All good here.")

	assert.NoError(t, err)
	assert.Empty(t, issues)
}
