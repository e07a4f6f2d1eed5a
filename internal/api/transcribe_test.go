package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/snarg/stt-relay/internal/audio"
	"github.com/snarg/stt-relay/internal/transcribe"
)

// fakeTranscriber records the samples it receives and returns canned results.
type fakeTranscriber struct {
	samples []float32
	text    string
	err     error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, samples []float32) (string, error) {
	f.samples = samples
	return f.text, f.err
}

func postAudio(t *testing.T, h *TranscribeHandler, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcribe", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestTranscribeHandler_PCM(t *testing.T) {
	fake := &fakeTranscriber{text: "hello"}
	h := NewTranscribeHandler(fake, 1<<20)

	pcm := make([]byte, 320) // 160 samples of silence
	rec := postAudio(t, h, "application/octet-stream", pcm)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	var resp TranscriptionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Text != "hello" {
		t.Errorf("text = %q, want hello", resp.Text)
	}
	if len(fake.samples) != 160 {
		t.Errorf("samples passed = %d, want 160", len(fake.samples))
	}
}

func TestTranscribeHandler_WAV(t *testing.T) {
	fake := &fakeTranscriber{text: "wav ok"}
	h := NewTranscribeHandler(fake, 1<<20)

	wavBody := audio.EncodeWAV(make([]float32, 1600))
	rec := postAudio(t, h, "audio/wav", wavBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if len(fake.samples) != 1600 {
		t.Errorf("samples passed = %d, want 1600", len(fake.samples))
	}
}

func TestTranscribeHandler_EmptyBody(t *testing.T) {
	h := NewTranscribeHandler(&fakeTranscriber{}, 1<<20)
	rec := postAudio(t, h, "application/octet-stream", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTranscribeHandler_InvalidWAV(t *testing.T) {
	h := NewTranscribeHandler(&fakeTranscriber{}, 1<<20)
	rec := postAudio(t, h, "audio/wav", []byte("garbage"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTranscribeHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantInBody string
	}{
		{"not_enabled", transcribe.ErrNotEnabled, http.StatusConflict, "not enabled"},
		{"no_provider", transcribe.ErrNoProviderConfigured, http.StatusConflict, "no transcription provider"},
		{"empty", transcribe.ErrEmptyTranscription, http.StatusUnprocessableEntity, "no speech detected"},
		{"upstream_status", &transcribe.StatusError{Status: 500, Body: "server error"}, http.StatusBadGateway, "server error"},
		{"parse", &transcribe.ParseError{Cause: context.DeadlineExceeded, Body: "x"}, http.StatusBadGateway, "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTranscribeHandler(&fakeTranscriber{err: tt.err}, 1<<20)
			rec := postAudio(t, h, "application/octet-stream", make([]byte, 4))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantInBody) {
				t.Errorf("body %q should contain %q", rec.Body.String(), tt.wantInBody)
			}
		})
	}
}
