// Package server exposes the counting pipeline over HTTP.
//
// Routes:
//
//	POST /v1/count?start=1&end=5[&exact=true][&refresh=true][&graph=name]
//	GET  /v1/runs?limit=50
//	GET  /v1/runs/{id}
//	GET  /healthz
//	GET  /metrics
//
// The count body is an edge list, or a JSON edge document when the request
// Content-Type is application/json. With ?graph=name the graph is read from
// the configured data directory instead and the body is ignored.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/uniquepaths/pkg/observability"
	"github.com/matzehuels/uniquepaths/pkg/pipeline"
	"github.com/matzehuels/uniquepaths/pkg/store"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Config *pipeline.Config        // nil uses pipeline.DefaultConfig
	Runner *pipeline.Runner        // required
	Logger *log.Logger             // nil uses the runner's logger
	Hooks  observability.HTTPHooks // nil uses the global HTTP hooks

	// Gatherer backs /metrics. Nil uses the default Prometheus registry.
	Gatherer prometheus.Gatherer
}

// Server serves the HTTP API. It is safe for concurrent use.
type Server struct {
	cfg     *pipeline.Config
	runner  *pipeline.Runner
	logger  *log.Logger
	hooks   observability.HTTPHooks
	metrics http.Handler
	router  chi.Router
}

// New builds a server and its routes. A runner without a store gets an
// in-memory one so run lookups work.
func New(opts Options) (*Server, error) {
	if opts.Runner == nil {
		return nil, errors.New("server: runner is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = pipeline.DefaultConfig()
	}
	if opts.Runner.Store == nil {
		opts.Runner.Store = store.NewMemoryStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = opts.Runner.Logger
	}
	hooks := opts.Hooks
	if hooks == nil {
		hooks = observability.HTTP()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		cfg:     cfg,
		runner:  opts.Runner,
		logger:  logger,
		hooks:   hooks,
		metrics: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics)

	r.Route("/v1", func(r chi.Router) {
		if s.cfg.Server.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
		}
		r.Post("/count", s.handleCount)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", srv.Addr)
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// instrument reports every request to the HTTP hooks, labelled by the
// matched route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		s.hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
