package api

import (
	"net/http"
	"time"

	"github.com/snarg/stt-relay/internal/settings"
)

type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Checks        map[string]string `json:"checks"`
}

type HealthHandler struct {
	store     *settings.Store
	version   string
	startTime time.Time
}

func NewHealthHandler(store *settings.Store, version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{store: store, version: version, startTime: startTime}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	s := h.store.Snapshot()

	if s.Enabled {
		checks["transcription"] = "enabled"
	} else {
		checks["transcription"] = "disabled"
	}
	if _, ok := s.ProviderByID(s.ProviderID); ok {
		checks["provider"] = s.ProviderID
	} else {
		checks["provider"] = "not_configured"
	}

	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Checks:        checks,
	})
}
