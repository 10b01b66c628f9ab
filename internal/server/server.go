// Package server exposes the analyzer over HTTP.
//
// Routes:
//
//	POST /v1/analyze                 analyze a manifest, respond with the report
//	GET  /v1/reports/{fingerprint}   fetch a previously computed report
//	POST /v1/render                  analyze a manifest, respond with DOT or SVG
//	GET  /healthz                    liveness and build information
//
// Manifests are accepted as JSON, YAML or TOML, selected by the request's
// Content-Type. All analyses share one [analysis.Analyzer], so identical
// graphs submitted by different clients are computed once.
//
// Errors are reported as JSON with a machine-readable code:
//
//	{"error": {"code": "CYCLE_DETECTED", "message": "...", "request_id": "..."}}
package server

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/taskwave/pkg/analysis"
	apperr "github.com/matzehuels/taskwave/pkg/errors"
)

// DefaultMaxBodyBytes caps the size of a submitted manifest.
const DefaultMaxBodyBytes = 8 << 20

// Server serves analyses over HTTP.
type Server struct {
	httpServer      *http.Server
	router          chi.Router
	analyzer        *analysis.Analyzer
	logger          *log.Logger
	maxBodyBytes    int64
	inShutdown      atomic.Bool
	shutdownTimeout time.Duration
}

// Config holds server configuration.
type Config struct {
	// Address is the listen address (e.g., ":8080", "127.0.0.1:8080").
	Address string

	// ShutdownTimeout is the maximum time to wait for connections to drain
	// during shutdown. Defaults to 30 seconds.
	ShutdownTimeout time.Duration

	// ReadTimeout is the maximum duration for reading the entire request.
	// Defaults to 10 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Defaults to 60 seconds; SVG rendering of large graphs is slow.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request.
	// Defaults to 60 seconds.
	IdleTimeout time.Duration

	// MaxBodyBytes caps request bodies. Defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Logger receives request logs. Defaults to a discarding logger.
	Logger *log.Logger
}

// New creates a server that analyzes with a.
func New(a *analysis.Analyzer, cfg Config) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := &Server{
		analyzer:        a,
		logger:          cfg.Logger,
		maxBodyBytes:    cfg.MaxBodyBytes,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/render", s.handleRender)
		r.Get("/reports/{fingerprint}", s.handleReport)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, r, http.StatusMethodNotAllowed,
			apperr.New(apperr.ErrCodeUnsupported, "method %s not allowed", r.Method))
	})
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Start serves until the server is shut down. It returns
// http.ErrServerClosed after a graceful [Server.Shutdown].
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight requests to
// finish, up to the configured shutdown timeout. /healthz answers 503 while
// draining.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.httpServer.SetKeepAlivesEnabled(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// IsShuttingDown reports whether Shutdown has been called.
func (s *Server) IsShuttingDown() bool {
	return s.inShutdown.Load()
}
