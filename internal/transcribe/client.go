package transcribe

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client executes one transcription request per call. No retries and no
// internal timeout; callers bound the whole attempt with a context.
type Client struct {
	http *http.Client
}

// NewClient creates a transcription HTTP client.
func NewClient() *Client {
	return &Client{http: &http.Client{}}
}

// transcriptionResponse is the single recognized response field. Servers may
// send more; everything else is ignored.
type transcriptionResponse struct {
	Text string `json:"text"`
}

// Do sends the request and extracts the transcribed text. The text is trimmed
// of surrounding whitespace; an empty result is an error, not a success.
func (c *Client) Do(req *http.Request) (string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send transcription request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcription response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return "", &StatusError{Status: resp.StatusCode, Body: string(body)}
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", &ParseError{Cause: err, Body: string(body)}
	}

	text := strings.TrimSpace(tr.Text)
	if text == "" {
		return "", ErrEmptyTranscription
	}
	return text, nil
}
