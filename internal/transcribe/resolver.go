package transcribe

import "github.com/snarg/stt-relay/internal/settings"

// DefaultModel is used when no model is configured for a provider. Absence is
// a usability default, not an error.
const DefaultModel = "whisper-1"

// Resolved is everything one transcription attempt needs from a settings
// snapshot.
type Resolved struct {
	Provider settings.Provider
	APIKey   string // empty means send no Authorization header
	Model    string
	Language string // empty means omit the language field
}

// Resolve reads a snapshot and determines whether the transcription path is
// usable. Pure — no side effects.
func Resolve(s settings.Settings) (Resolved, error) {
	if !s.Enabled {
		return Resolved{}, ErrNotEnabled
	}

	p, ok := s.ProviderByID(s.ProviderID)
	if !ok {
		return Resolved{}, ErrNoProviderConfigured
	}

	model := s.Models[p.ID]
	if model == "" {
		model = DefaultModel
	}

	lang := s.SelectedLanguage
	if lang == settings.LanguageAuto {
		lang = ""
	}

	return Resolved{
		Provider: p,
		APIKey:   s.APIKeys[p.ID], // absent key is fine; unauthenticated requests are permitted
		Model:    model,
		Language: lang,
	}, nil
}
