package api

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/snarg/stt-relay/internal/audio"
	"github.com/snarg/stt-relay/internal/transcribe"
)

// Transcriber runs one transcription attempt over 16 kHz mono samples.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32) (string, error)
}

// TranscribeHandler accepts an utterance and returns its transcription.
// Bodies are either a WAV upload (audio/wav, any sample rate — resampled to
// 16 kHz) or raw little-endian PCM16 (application/octet-stream, 16 kHz unless
// ?rate= says otherwise).
type TranscribeHandler struct {
	svc      Transcriber
	maxBytes int64
}

func NewTranscribeHandler(svc Transcriber, maxBytes int64) *TranscribeHandler {
	return &TranscribeHandler{svc: svc, maxBytes: maxBytes}
}

// TranscriptionResponse is the success body.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

func (h *TranscribeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		WriteError(w, http.StatusRequestEntityTooLarge, "audio payload too large")
		return
	}
	if len(body) == 0 {
		WriteError(w, http.StatusBadRequest, "empty audio payload")
		return
	}

	samples, err := h.decodeSamples(r, body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	text, err := h.svc.Transcribe(r.Context(), samples)
	if err != nil {
		writeTranscribeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, TranscriptionResponse{Text: text})
}

func (h *TranscribeHandler) decodeSamples(r *http.Request, body []byte) ([]float32, error) {
	contentType := r.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}

	switch contentType {
	case "audio/wav", "audio/x-wav", "audio/wave":
		samples, rate, err := audio.DecodeWAV(body)
		if err != nil {
			return nil, err
		}
		return audio.Resample(samples, rate, audio.TargetSampleRate), nil
	default:
		// Raw PCM16LE. Default 16 kHz; ?rate= overrides.
		samples, err := audio.DecodePCM16(body)
		if err != nil {
			return nil, err
		}
		rate := audio.TargetSampleRate
		if v := r.URL.Query().Get("rate"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return nil, errors.New("invalid rate parameter")
			}
			rate = n
		}
		return audio.Resample(samples, rate, audio.TargetSampleRate), nil
	}
}

// writeTranscribeError maps attempt errors to HTTP statuses while keeping the
// descriptive message intact.
func writeTranscribeError(w http.ResponseWriter, err error) {
	var statusErr *transcribe.StatusError
	var parseErr *transcribe.ParseError

	switch {
	case errors.Is(err, transcribe.ErrNotEnabled),
		errors.Is(err, transcribe.ErrNoProviderConfigured):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, transcribe.ErrEmptyTranscription):
		WriteError(w, http.StatusUnprocessableEntity, "no speech detected")
	case errors.As(err, &statusErr), errors.As(err, &parseErr):
		WriteError(w, http.StatusBadGateway, err.Error())
	default:
		WriteError(w, http.StatusBadGateway, err.Error())
	}
}
