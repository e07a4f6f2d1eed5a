package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/snarg/stt-relay/internal/settings"
)

const transcriptionsPath = "/audio/transcriptions"

// NewRequest assembles the multipart POST for one attempt against an
// OpenAI-compatible endpoint. Audio and field values never invalidate the
// request; only internal multipart construction can fail.
func NewRequest(ctx context.Context, r Resolved, wavData []byte) (*http.Request, error) {
	url := strings.TrimRight(r.Provider.BaseURL, "/") + transcriptionsPath

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	// CreateFormFile would label the part application/octet-stream, so build
	// the header by hand to declare audio/wav.
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="audio.wav"`)
	hdr.Set("Content-Type", "audio/wav")
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(wavData); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}

	if err := w.WriteField("model", r.Model); err != nil {
		return nil, fmt.Errorf("write model field: %w", err)
	}

	// "auto" and empty mean server-side detection: omit the field entirely.
	if r.Language != "" && r.Language != settings.LanguageAuto {
		if err := w.WriteField("language", r.Language); err != nil {
			return nil, fmt.Errorf("write language field: %w", err)
		}
	}

	if err := w.WriteField("response_format", "json"); err != nil {
		return nil, fmt.Errorf("write response_format field: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	// No header at all when the key is blank — not an empty Bearer value.
	if strings.TrimSpace(r.APIKey) != "" {
		req.Header.Set("Authorization", "Bearer "+r.APIKey)
	}

	return req, nil
}
