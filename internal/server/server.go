// Package server exposes flows over HTTP for a browser-side diagram surface.
//
// Each flow lives in an in-memory workspace keyed by a random UUID. The
// surface reports gestures (add, move, connect, delete, select, edit) and
// reads back the node and edge lists. Requests against one workspace are
// serialized, so the flow keeps a single writer at a time.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/flowgraph/pkg/cache"
	"github.com/matzehuels/flowgraph/pkg/config"
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/flow/edit"
)

// maxBodyBytes bounds request bodies, imports included.
const maxBodyBytes = 4 << 20

type workspace struct {
	mu      sync.Mutex
	graph   *flow.Graph
	session *edit.Session
}

// Server holds the workspaces and serves the HTTP API.
type Server struct {
	cfg      config.Config
	logger   *log.Logger
	gatherer prometheus.Gatherer

	artifacts cache.Cache

	mu    sync.RWMutex
	flows map[uuid.UUID]*workspace
}

// New creates a server. gatherer backs /metrics; nil serves the default
// Prometheus registry.
func New(cfg config.Config, logger *log.Logger, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		cfg:       cfg,
		logger:    logger,
		gatherer:  gatherer,
		artifacts: cache.NewNullCache(),
		flows:     make(map[uuid.UUID]*workspace),
	}
}

// SetCache sets the cache for rendered diagrams. Rendering is uncached by
// default.
func (s *Server) SetCache(c cache.Cache) { s.artifacts = c }

// Handler returns the chi router with every route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/flows", func(r chi.Router) {
		r.Post("/", s.createFlow)
		r.Route("/{flowID}", func(r chi.Router) {
			r.Get("/", s.withFlow(s.getFlow))
			r.Delete("/", s.deleteFlow)
			r.Post("/nodes", s.withFlow(s.addNode))
			r.Patch("/nodes/{nodeID}", s.withFlow(s.moveNode))
			r.Post("/connections", s.withFlow(s.connect))
			r.Post("/delete", s.withFlow(s.deleteElements))
			r.Put("/selection", s.withFlow(s.selectElements))
			r.Post("/edit/{target}/{elementID}", s.withFlow(s.beginEdit))
			r.Put("/edit/draft", s.withFlow(s.updateDraft))
			r.Post("/edit/save", s.withFlow(s.saveEdit))
			r.Post("/edit/cancel", s.withFlow(s.cancelEdit))
			r.Get("/export", s.withFlow(s.exportFlow))
			r.Post("/import", s.withFlow(s.importFlow))
			r.Get("/render", s.withFlow(s.renderFlow))
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
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) newWorkspace() (uuid.UUID, *workspace) {
	g := flow.New(s.cfg.GraphOptions(s.logger)...)
	ws := &workspace{graph: g, session: edit.NewSession(g)}
	id := uuid.New()

	s.mu.Lock()
	s.flows[id] = ws
	s.mu.Unlock()
	return id, ws
}

func parseFlowID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "flow id %q", raw)
	}
	return id, nil
}

func (s *Server) lookup(raw string) (*workspace, error) {
	id, err := parseFlowID(raw)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	ws, ok := s.flows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "flow %s", id)
	}
	return ws, nil
}

// flowHandler handles a request against one locked workspace.
type flowHandler func(w http.ResponseWriter, r *http.Request, ws *workspace)

func (s *Server) withFlow(h flowHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := s.lookup(chi.URLParam(r, "flowID"))
		if err != nil {
			s.respondError(w, err)
			return
		}
		ws.mu.Lock()
		defer ws.mu.Unlock()
		h(w, r, ws)
	}
}
