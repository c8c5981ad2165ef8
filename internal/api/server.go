// Package api exposes the orchestrator's control surface over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ottkit/streamd/internal/config"
	"github.com/ottkit/streamd/internal/journal"
	xlog "github.com/ottkit/streamd/internal/log"
	"github.com/ottkit/streamd/internal/registry"
)

// Historian exposes the lifecycle journal to the history endpoint.
// Satisfied by *journal.Journal.
type Historian interface {
	History(ctx context.Context, id string) ([]journal.Entry, error)
}

// Server is the control API server.
type Server struct {
	manager   *registry.Manager
	historian Historian
	cfg       config.APIConfig
	logger    zerolog.Logger
}

// NewServer creates a control API server. historian may be nil, in
// which case the history endpoint reports 404.
func NewServer(manager *registry.Manager, historian Historian, cfg config.APIConfig) *Server {
	return &Server{
		manager:   manager,
		historian: historian,
		cfg:       cfg,
		logger:    xlog.WithComponent("api"),
	}
}

// Router builds the chi router with the canonical middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(Recoverer)
	r.Use(RequestID)
	r.Use(Tracing("streamd-api"))
	r.Use(s.logRequests)
	if s.cfg.RateLimitPerMinute > 0 {
		r.Use(RateLimit(s.cfg.RateLimitPerMinute))
	}

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/streams", func(r chi.Router) {
			r.Get("/", s.handleListStreams)
			r.Post("/", s.handleConfigureStream)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetStream)
				r.Get("/history", s.handleStreamHistory)
				r.Post("/start", s.handleStartStream)
				r.Post("/stop", s.handleStopStream)
				r.Post("/restart", s.handleRestartStream)
				r.Post("/log", s.handleStreamLog)
			})
		})

		r.Route("/service", func(r chi.Router) {
			r.Post("/activate", s.handleActivate)
			r.Post("/ping", s.handlePing)
			r.Post("/stop", s.handleStopService)
		})
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := xlog.WithContext(r.Context(), s.logger)
		logger.Debug().
			Str("event", "api.request").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("handling request")
		next.ServeHTTP(w, r)
	})
}
