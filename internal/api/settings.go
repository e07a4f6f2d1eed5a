package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snarg/stt-relay/internal/settings"
)

// SettingsHandler exposes the settings store mutations over JSON.
type SettingsHandler struct {
	store *settings.Store
}

func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// SettingsView is the redacted representation returned by Get: secrets are
// never echoed, only whether one is set per provider.
type SettingsView struct {
	Enabled          bool                `json:"enabled"`
	ProviderID       string              `json:"provider_id"`
	Providers        []settings.Provider `json:"providers"`
	APIKeysSet       map[string]bool     `json:"api_keys_set"`
	Models           map[string]string   `json:"models"`
	SelectedLanguage string              `json:"selected_language"`
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s := h.store.Snapshot()

	keysSet := make(map[string]bool, len(s.APIKeys))
	for id, key := range s.APIKeys {
		keysSet[id] = key != ""
	}

	WriteJSON(w, http.StatusOK, SettingsView{
		Enabled:          s.Enabled,
		ProviderID:       s.ProviderID,
		Providers:        s.Providers,
		APIKeysSet:       keysSet,
		Models:           s.Models,
		SelectedLanguage: s.SelectedLanguage,
	})
}

func (h *SettingsHandler) SetEnabled(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := DecodeJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.store.SetEnabled(body.Enabled); err != nil {
		writeStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"enabled": body.Enabled})
}

func (h *SettingsHandler) SetActiveProvider(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProviderID string `json:"provider_id"`
	}
	if err := DecodeJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.store.SetActiveProvider(body.ProviderID); err != nil {
		writeStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"provider_id": body.ProviderID})
}

func (h *SettingsHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Language string `json:"language"`
	}
	if err := DecodeJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.store.SetLanguage(body.Language); err != nil {
		writeStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"language": body.Language})
}

func (h *SettingsHandler) SetBaseURL(w http.ResponseWriter, r *http.Request) {
	var body struct {
		BaseURL string `json:"base_url"`
	}
	if err := DecodeJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.store.SetBaseURL(chi.URLParam(r, "id"), body.BaseURL); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SettingsHandler) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	var body struct {
		APIKey string `json:"api_key"`
	}
	if err := DecodeJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.store.SetAPIKey(chi.URLParam(r, "id"), body.APIKey); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SettingsHandler) SetModel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Model string `json:"model"`
	}
	if err := DecodeJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.store.SetModel(chi.URLParam(r, "id"), body.Model); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SettingsHandler) AddProvider(w http.ResponseWriter, r *http.Request) {
	var p settings.Provider
	if err := DecodeJSON(r, &p); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.ID == "" || p.Label == "" || p.BaseURL == "" {
		WriteError(w, http.StatusBadRequest, "id, label and base_url are required")
		return
	}
	if err := h.store.AddProvider(p); err != nil {
		writeStoreError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, p)
}

func (h *SettingsHandler) EditProvider(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Label string `json:"label"`
	}
	if err := DecodeJSON(r, &body); err != nil || body.Label == "" {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.store.EditProvider(chi.URLParam(r, "id"), body.Label); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeStoreError maps settings store errors to HTTP statuses, passing the
// descriptive message through.
func writeStoreError(w http.ResponseWriter, err error) {
	var notFound *settings.ProviderNotFoundError
	var notEditable *settings.BaseURLNotEditableError
	var duplicate *settings.DuplicateProviderError

	switch {
	case errors.As(err, &notFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &notEditable):
		WriteError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &duplicate):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
