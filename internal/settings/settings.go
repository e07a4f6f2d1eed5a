package settings

import "strings"

// CustomProviderID is the one provider whose base URL users may edit.
const CustomProviderID = "custom"

// LanguageAuto tells the server to detect the language; the language field is
// omitted from outgoing requests when it is selected.
const LanguageAuto = "auto"

// Provider is a remote transcription endpoint. Only the "custom" provider has
// an editable base URL; the rest are fixed.
type Provider struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	BaseURL string `json:"base_url"`
}

// Editable reports whether the provider's base URL may be changed.
func (p Provider) Editable() bool { return p.ID == CustomProviderID }

// Settings is one user configuration document. A value captured via
// Store.Snapshot is a deep copy, so an in-flight transcription attempt never
// observes concurrent edits.
type Settings struct {
	Enabled          bool              `json:"enabled"`
	ProviderID       string            `json:"provider_id"`
	Providers        []Provider        `json:"providers"`
	APIKeys          map[string]string `json:"api_keys"`
	Models           map[string]string `json:"models"`
	SelectedLanguage string            `json:"selected_language"`
}

// Default returns the settings document written on first run.
func Default() Settings {
	return Settings{
		Enabled:    false,
		ProviderID: "openai",
		Providers: []Provider{
			{ID: "openai", Label: "OpenAI", BaseURL: "https://api.openai.com/v1"},
			{ID: "groq", Label: "Groq", BaseURL: "https://api.groq.com/openai/v1"},
			{ID: CustomProviderID, Label: "Custom", BaseURL: "http://localhost:8000/v1"},
		},
		APIKeys:          map[string]string{},
		Models:           map[string]string{},
		SelectedLanguage: LanguageAuto,
	}
}

// ProviderByID scans the provider list for the given id.
func (s Settings) ProviderByID(id string) (Provider, bool) {
	for _, p := range s.Providers {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	out.Providers = append([]Provider(nil), s.Providers...)
	out.APIKeys = make(map[string]string, len(s.APIKeys))
	for k, v := range s.APIKeys {
		out.APIKeys[k] = v
	}
	out.Models = make(map[string]string, len(s.Models))
	for k, v := range s.Models {
		out.Models[k] = v
	}
	return out
}

// normalizeBaseURL strips trailing slashes so endpoint paths can be appended
// without doubling separators.
func normalizeBaseURL(u string) string {
	return strings.TrimRight(u, "/")
}
