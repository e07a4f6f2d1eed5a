package transcribe

import (
	"errors"
	"fmt"
)

// Every error here is terminal for the attempt. Nothing is retried
// internally; the caller decides whether to start a fresh attempt.
var (
	// ErrNotEnabled means the transcription feature flag is off.
	ErrNotEnabled = errors.New("transcription API is not enabled")

	// ErrNoProviderConfigured means the configured provider id matches
	// nothing in the provider list.
	ErrNoProviderConfigured = errors.New("no transcription provider configured")

	// ErrEmptyTranscription means the endpoint answered successfully but the
	// text was empty after trimming — surfaced as "no speech detected"
	// rather than silently returning "".
	ErrEmptyTranscription = errors.New("transcription API returned empty transcription")
)

// StatusError is a non-2xx HTTP response. The body is kept verbatim for
// diagnostics.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transcription API error (status %d): %s", e.Status, e.Body)
}

// ParseError is a response body that was not the expected {"text": ...} JSON.
type ParseError struct {
	Cause error
	Body  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse transcription response: %v (body: %s)", e.Cause, e.Body)
}

func (e *ParseError) Unwrap() error { return e.Cause }
