package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/snarg/stt-relay/internal/config"
	"github.com/snarg/stt-relay/internal/metrics"
	"github.com/snarg/stt-relay/internal/settings"
)

type Server struct {
	http *http.Server
	log  zerolog.Logger
}

func NewServer(cfg *config.Config, store *settings.Store, svc Transcriber, version string, startTime time.Time, log zerolog.Logger) *Server {
	r := chi.NewRouter()

	// Global middleware
	r.Use(RequestID)
	r.Use(Recoverer)
	r.Use(CORS)
	r.Use(Logger(log))
	r.Use(metrics.InstrumentHandler)

	// Unauthenticated endpoints
	health := NewHealthHandler(store, version, startTime)
	r.Get("/healthz", health.ServeHTTP)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Authenticated API
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(cfg.AuthToken))

		tr := NewTranscribeHandler(svc, cfg.MaxAudioBytes)
		r.Post("/api/v1/transcribe", tr.ServeHTTP)

		st := NewSettingsHandler(store)
		r.Route("/api/v1/settings", func(r chi.Router) {
			r.Get("/", st.Get)
			r.Put("/enabled", st.SetEnabled)
			r.Put("/provider", st.SetActiveProvider)
			r.Put("/language", st.SetLanguage)
			r.Post("/providers", st.AddProvider)
			r.Put("/providers/{id}", st.EditProvider)
			r.Put("/providers/{id}/base-url", st.SetBaseURL)
			r.Put("/providers/{id}/api-key", st.SetAPIKey)
			r.Put("/providers/{id}/model", st.SetModel)
		})
	})

	return &Server{
		http: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server starting")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.http.Shutdown(ctx)
}
