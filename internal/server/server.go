package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/me/restkit/internal/config"
	"github.com/me/restkit/internal/store"
	"github.com/me/restkit/pkg/envelope"
	"github.com/me/restkit/pkg/pagination"
	"github.com/me/restkit/pkg/schema"
	"github.com/me/restkit/pkg/views"
)

// Server is the ledger REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.Config
	startTime time.Time
	store     store.Store
	docs      *schema.Docs
	metrics   *metrics
	endpoints []endpointInfo
}

// New creates a new Server with all routes registered. Registration fails
// only on view misconfiguration, which is fatal at startup.
func New(cfg config.Config, st store.Store, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		store:     st,
		metrics:   newMetrics(),
	}

	var dirs []string
	if cfg.DocsDir != "" {
		dirs = append(dirs, cfg.DocsDir)
	}
	s.docs = schema.NewDocs(s.logger, dirs...)

	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() error {
	r := s.router

	// Global middleware. WithResource sits outside logging so the log line
	// can carry what the handler tagged; recovery sits innermost so a panic
	// is still logged and counted as a 500.
	r.Use(middleware.RealIP)
	r.Use(requestIDMiddleware)
	r.Use(views.WithResource)
	r.Use(s.metrics.middleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(recoverMiddleware(s.logger))

	// Unknown routes and methods answer in the envelope too. Set before any
	// subrouter is mounted so the handlers propagate down.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		envelope.WriteError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		envelope.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Handle("/metrics", s.metrics.handler())

	var err error
	r.Route("/api/v1", func(r chi.Router) {
		// Discovery
		r.Get("/", s.handleDiscovery)

		// Health
		r.Get("/health", s.handleHealth)
		s.endpoints = append(s.endpoints, endpointInfo{
			Path:        "/api/v1/health",
			Description: "Server health and version",
			Operations:  []operationInfo{{Method: http.MethodGet, Status: http.StatusOK}},
		})

		if err = s.mountAccounts(r); err != nil {
			return
		}
		if err = s.mountTransactions(r); err != nil {
			return
		}
		err = s.mountTransfers(r)
	})
	return err
}

// paginators builds the strategy pair every listing offers, defaulting to
// def; keyOf supplies the cursor ordering key.
func paginators[T any](cfg config.Config, keyOf func(T) pagination.Key, def string) *views.Paginators[T] {
	return &views.Paginators[T]{
		Page: &pagination.PageNumber[T]{
			PageSize:    cfg.PageSize,
			MaxPageSize: cfg.MaxPageSize,
			Passthrough: cfg.Passthrough,
		},
		Cursor: &pagination.Cursor[T]{
			PageSize:    cfg.PageSize,
			MaxPageSize: cfg.MaxPageSize,
			KeyOf:       keyOf,
			Ordering:    cfg.Ordering,
			Passthrough: cfg.Passthrough,
		},
		Default: def,
	}
}
