// Package grammar calls a LanguageTool-compatible grammar server.
package grammar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"document-improver/internal/analysis"
)

type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8010"
	}
	return &Client{
		baseURL:  baseURL,
		language: "en-US",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type checkResponse struct {
	Matches []struct {
		Message      string `json:"message"`
		Replacements []struct {
			Value string `json:"value"`
		} `json:"replacements"`
		Context struct {
			Text string `json:"text"`
		} `json:"context"`
		Offset int `json:"offset"`
		Length int `json:"length"`
	} `json:"matches"`
}

// Check posts the text to the grammar server and maps its matches to
// grammar issues. The server counts offsets in characters; the returned
// issues index the text by byte.
func (c *Client) Check(ctx context.Context, text string) ([]analysis.GrammarIssue, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("language", c.language)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v2/check",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf(
			"grammar server error: status=%d body=%s",
			resp.StatusCode,
			string(b),
		)
	}

	var payload checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	runeToByte := runeOffsets(text)
	issues := make([]analysis.GrammarIssue, 0, len(payload.Matches))
	for _, m := range payload.Matches {
		start, end, ok := byteSpan(runeToByte, m.Offset, m.Length)
		if !ok {
			continue // match outside the submitted text
		}
		replacements := make([]string, 0, len(m.Replacements))
		for _, r := range m.Replacements {
			replacements = append(replacements, r.Value)
			if len(replacements) == 5 { // limit ranked suggestions
				break
			}
		}
		issues = append(issues, analysis.GrammarIssue{
			Message:      m.Message,
			Replacements: replacements,
			Context:      m.Context.Text,
			Offset:       start,
			Length:       end - start,
		})
	}

	return issues, nil
}

// runeOffsets maps each rune position in s to its byte position, with a
// final entry for the end of the string.
func runeOffsets(s string) []int {
	idx := make([]int, 0, len(s)+1)
	for i := range s {
		idx = append(idx, i)
	}
	return append(idx, len(s))
}

// byteSpan converts a character-counted span to a byte-counted one.
func byteSpan(runeToByte []int, offset, length int) (int, int, bool) {
	if offset < 0 || length < 0 || offset+length >= len(runeToByte) {
		return 0, 0, false
	}
	return runeToByte[offset], runeToByte[offset+length], true
}
