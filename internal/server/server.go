// Package server exposes enumeration over HTTP.
//
// Routes:
//
//	POST /v1/enumerate         collect representatives as one JSON document
//	POST /v1/enumerate/stream  NDJSON, one word per line, as they are found
//	POST /v1/count             count only
//	GET  /v1/modes             supported modes
//	GET  /v1/catalog           stored best codes (?length=L)
//	GET  /v1/catalog/{length}/{weight}/{objective}
//	GET  /healthz              liveness and build info
//	GET  /metrics              Prometheus metrics
package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/jeweler/pkg/observability"
	"github.com/matzehuels/jeweler/pkg/pipeline"
)

// Defaults for [Config].
const (
	DefaultMaxResults     = 100000
	DefaultRequestTimeout = 30 * time.Second

	maxBodyBytes = 1 << 20
)

// requestIDHeader carries the request ID in both directions.
const requestIDHeader = "X-Request-ID"

// Config tunes the server.
type Config struct {
	// MaxResults caps the collecting route; larger results get 413.
	MaxResults int

	// RequestTimeout bounds the collecting and count routes. Streams are
	// bounded only by the client.
	RequestTimeout time.Duration

	// Gatherer backs /metrics. Nil serves the default registry.
	Gatherer prometheus.Gatherer
}

// Server holds the handlers' dependencies.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	cfg      Config
	validate *validator.Validate
}

// New creates a server. A nil logger discards output.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, logger)
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		runner:   runner,
		logger:   logger,
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/modes", s.handleModes)
		r.Get("/catalog", s.handleCatalogList)
		r.Get("/catalog/{length}/{weight}/{objective}", s.handleCatalogGet)
		r.Post("/enumerate/stream", s.handleStream)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.cfg.RequestTimeout))
			r.Post("/enumerate", s.handleEnumerate)
			r.Post("/count", s.handleCount)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// requestID echoes the caller's X-Request-ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// instrument reports each request to the HTTP hooks and the log.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		duration := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, code, duration)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", code,
			"bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", requestIDFrom(r.Context()))
	})
}
