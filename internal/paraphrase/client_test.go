package paraphrase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParaphrase_Success tests a normal generate round trip
func TestParaphrase_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "paraphrase: The cat sat.", req.Prompt)
		assert.False(t, req.Stream)

		json.NewEncoder(w).Encode(generateResponse{
			Response: "  The feline was seated.\n",
			Done:     true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	out, err := client.Paraphrase(context.Background(), "The cat sat.")

	assert.NoError(t, err)
	assert.Equal(t, "The feline was seated.", out)
}

// TestParaphrase_ServerError tests a failing model server
func TestParaphrase_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	_, err := client.Paraphrase(context.Background(), "text")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

// TestParaphrase_BadJSON tests a malformed response body
func TestParaphrase_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	_, err := client.Paraphrase(context.Background(), "text")

	assert.Error(t, err)
}
