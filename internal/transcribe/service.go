package transcribe

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/snarg/stt-relay/internal/audio"
	"github.com/snarg/stt-relay/internal/metrics"
	"github.com/snarg/stt-relay/internal/settings"
)

// SettingsSource provides a configuration snapshot per attempt.
type SettingsSource interface {
	Snapshot() settings.Settings
}

// Service runs transcription attempts. Each attempt captures one settings
// snapshot and owns its buffers exclusively, so concurrent attempts need no
// coordination. Cancelling ctx drops the in-flight request; nothing is
// persisted on any path.
type Service struct {
	store  SettingsSource
	client *Client
	log    zerolog.Logger
}

// NewService creates the transcription service.
func NewService(store SettingsSource, log zerolog.Logger) *Service {
	return &Service{
		store:  store,
		client: NewClient(),
		log:    log,
	}
}

// Transcribe encodes the samples (16 kHz mono float32) and runs a single
// attempt against the configured provider. No internal timeout; bound ctx if
// one is needed.
func (s *Service) Transcribe(ctx context.Context, samples []float32) (string, error) {
	snap := s.store.Snapshot()

	res, err := Resolve(snap)
	if err != nil {
		return "", err
	}

	wavData := audio.EncodeWAV(samples)
	metrics.AudioSecondsTotal.Add(float64(len(samples)) / audio.TargetSampleRate)

	req, err := NewRequest(ctx, res, wavData)
	if err != nil {
		return "", err
	}

	s.log.Debug().
		Str("provider", res.Provider.ID).
		Str("model", res.Model).
		Str("language", res.Language).
		Int("samples", len(samples)).
		Msg("sending transcription request")

	start := time.Now()
	text, err := s.client.Do(req)
	metrics.AttemptDuration.WithLabelValues(res.Provider.ID).Observe(time.Since(start).Seconds())
	metrics.AttemptsTotal.WithLabelValues(res.Provider.ID, outcome(err)).Inc()

	if err != nil {
		s.log.Warn().Err(err).Str("provider", res.Provider.ID).Msg("transcription failed")
		return "", err
	}

	s.log.Info().
		Str("provider", res.Provider.ID).
		Int("chars", len(text)).
		Dur("duration_ms", time.Since(start)).
		Msg("transcription complete")
	return text, nil
}

// outcome maps an attempt error to a low-cardinality metric label.
func outcome(err error) string {
	var statusErr *StatusError
	var parseErr *ParseError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEmptyTranscription):
		return "empty"
	case errors.As(err, &statusErr):
		return "http_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	default:
		return "network_error"
	}
}
