// Package server exposes the simulation pipeline, disease catalog and
// tree store over HTTP.
//
// Routes:
//
//	GET  /                  service banner
//	GET  /health            liveness probe
//	GET  /metrics           Prometheus metrics
//	POST /api/simulate      run risk propagation (and layout) on a tree
//	POST /api/layout        run layout only
//	GET  /api/diseases      list the disease catalog
//	POST /api/export        wrap a tree in the export envelope
//	GET  /api/trees         list stored trees
//	GET  /api/tree/{name}   load a stored tree
//	PUT  /api/tree/{name}   store a tree
//	DELETE /api/tree/{name} delete a stored tree
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/genehive/genehive/pkg/catalog"
	"github.com/genehive/genehive/pkg/pipeline"
	"github.com/genehive/genehive/pkg/snapshot"
	"github.com/genehive/genehive/pkg/store"
)

// Server wires the HTTP handlers to their backends.
type Server struct {
	runner  *pipeline.Runner
	catalog catalog.Catalog
	trees   store.Store
	logger  *log.Logger
	origins []string
	metrics *metrics

	// workspace holds the most recent tree a client worked on, feeding
	// the autosaver.
	wsMu      sync.Mutex
	workspace snapshot.Snapshot
}

// Options configures a Server.
type Options struct {
	Runner  *pipeline.Runner
	Catalog catalog.Catalog
	Trees   store.Store
	Logger  *log.Logger

	// CORSOrigins lists allowed browser origins. Empty disables CORS
	// headers entirely.
	CORSOrigins []string
}

// New creates a server. Runner, Catalog and Trees must be set; Logger
// defaults to the package default.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Server{
		runner:  opts.Runner,
		catalog: opts.Catalog,
		trees:   opts.Trees,
		logger:  opts.Logger,
		origins: opts.CORSOrigins,
		metrics: newMetrics(),
	}
}

// Workspace returns the most recent tree a client simulated, laid out
// or saved. The boolean reports whether any request has set it yet.
func (s *Server) Workspace() (snapshot.Snapshot, bool) {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()
	return s.workspace, len(s.workspace.Members) > 0
}

func (s *Server) setWorkspace(snap snapshot.Snapshot) {
	s.wsMu.Lock()
	s.workspace = snap
	s.wsMu.Unlock()
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.cors)
	r.Use(s.metrics.instrument)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/simulate", s.handleSimulate)
		r.Post("/layout", s.handleLayout)
		r.Get("/diseases", s.handleDiseases)
		r.Post("/export", s.handleExport)
		r.Get("/trees", s.handleListTrees)
		r.Route("/tree/{name}", func(r chi.Router) {
			r.Get("/", s.handleLoadTree)
			r.Put("/", s.handleSaveTree)
			r.Delete("/", s.handleDeleteTree)
		})
	})

	return r
}

// logRequests logs method, path, status and duration per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
