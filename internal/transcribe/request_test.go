package transcribe

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/snarg/stt-relay/internal/settings"
)

func testResolved() Resolved {
	return Resolved{
		Provider: settings.Provider{ID: "openai", Label: "OpenAI", BaseURL: "https://api.example.com/v1"},
		APIKey:   "sk-test",
		Model:    "whisper-1",
		Language: "",
	}
}

// parseForm reads the multipart body of a built request back into fields and
// the file part.
func parseForm(t *testing.T, req *http.Request) (fields map[string]string, file []byte, filename, fileType string) {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("media type = %q, want multipart/form-data", mediaType)
	}

	fields = make(map[string]string)
	mr := multipart.NewReader(req.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		data, err := io.ReadAll(part)
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		if part.FileName() != "" {
			file = data
			filename = part.FileName()
			fileType = part.Header.Get("Content-Type")
		} else {
			fields[part.FormName()] = string(data)
		}
	}
	return fields, file, filename, fileType
}

func TestNewRequest_Shape(t *testing.T) {
	wavData := []byte("RIFF-fake-wav-bytes")
	req, err := NewRequest(context.Background(), testResolved(), wavData)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}

	if req.Method != http.MethodPost {
		t.Errorf("method = %q, want POST", req.Method)
	}
	if got := req.URL.String(); got != "https://api.example.com/v1/audio/transcriptions" {
		t.Errorf("url = %q, want base_url + /audio/transcriptions", got)
	}

	fields, file, filename, fileType := parseForm(t, req)
	if string(file) != string(wavData) {
		t.Error("file part does not round-trip the audio bytes")
	}
	if filename != "audio.wav" {
		t.Errorf("filename = %q, want audio.wav", filename)
	}
	if fileType != "audio/wav" {
		t.Errorf("file content type = %q, want audio/wav", fileType)
	}
	if fields["model"] != "whisper-1" {
		t.Errorf("model field = %q, want whisper-1", fields["model"])
	}
	if fields["response_format"] != "json" {
		t.Errorf("response_format = %q, want json", fields["response_format"])
	}
	if _, ok := fields["language"]; ok {
		t.Error("language field present, want omitted when empty")
	}
}

func TestNewRequest_TrailingSlashStripped(t *testing.T) {
	r := testResolved()
	r.Provider.BaseURL = "https://api.example.com/v1/"

	req, err := NewRequest(context.Background(), r, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if got := req.URL.String(); got != "https://api.example.com/v1/audio/transcriptions" {
		t.Errorf("url = %q, trailing slash not stripped", got)
	}
}

func TestNewRequest_Language(t *testing.T) {
	t.Run("explicit_value_included", func(t *testing.T) {
		r := testResolved()
		r.Language = "fr"
		req, err := NewRequest(context.Background(), r, nil)
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		fields, _, _, _ := parseForm(t, req)
		if fields["language"] != "fr" {
			t.Errorf("language = %q, want fr", fields["language"])
		}
	})

	t.Run("auto_omitted", func(t *testing.T) {
		r := testResolved()
		r.Language = "auto"
		req, err := NewRequest(context.Background(), r, nil)
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		fields, _, _, _ := parseForm(t, req)
		if _, ok := fields["language"]; ok {
			t.Error("language field present for auto, want omitted")
		}
	})
}

func TestNewRequest_Authorization(t *testing.T) {
	t.Run("bearer_when_key_set", func(t *testing.T) {
		req, err := NewRequest(context.Background(), testResolved(), nil)
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want Bearer sk-test", got)
		}
	})

	t.Run("no_header_when_key_blank", func(t *testing.T) {
		for _, key := range []string{"", "   "} {
			r := testResolved()
			r.APIKey = key
			req, err := NewRequest(context.Background(), r, nil)
			if err != nil {
				t.Fatalf("NewRequest: %v", err)
			}
			if _, ok := req.Header["Authorization"]; ok {
				t.Errorf("key %q: Authorization header present, want none at all", key)
			}
		}
	})
}
