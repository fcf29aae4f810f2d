package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/retain/pkg/canvas"
	"github.com/vango-dev/retain/pkg/host"
	"github.com/vango-dev/retain/pkg/middleware"
	"github.com/vango-dev/retain/pkg/render"
	"github.com/vango-dev/retain/pkg/snapshot"
)

// Options wires a Server to a live canvas.
type Options struct {
	Config Config

	Loop     *host.Loop
	Document *canvas.Document
	Tap      *canvas.Tap
	Root     canvas.Handle

	// Store enables POST /snapshot and GET /snapshot/{key}. Optional.
	Store snapshot.Store

	// SnapshotName names saved snapshots. Default: "canvas".
	SnapshotName string

	// Registry enables the metrics endpoint and server metrics. Optional.
	Registry  *prometheus.Registry
	Namespace string

	Logger *slog.Logger
}

// Server serves one canvas to any number of browsers.
type Server struct {
	config Config
	loop   *host.Loop
	doc    *canvas.Document
	tap    *canvas.Tap
	root   canvas.Handle
	store  snapshot.Store
	name   string

	registry  *prometheus.Registry
	namespace string
	metrics   *Metrics
	hub       *Hub
	upgrader  websocket.Upgrader
	logger    *slog.Logger

	handler     http.Handler
	unsubscribe func()
	httpServer  *http.Server
}

// New creates a Server and subscribes its hub to opts.Tap.
func New(opts Options) *Server {
	cfg := opts.Config.withDefaults()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	ns := opts.Namespace
	if ns == "" {
		ns = "retain"
	}
	var metrics *Metrics
	if opts.Registry != nil {
		metrics = NewMetrics(opts.Registry, ns)
	}

	name := opts.SnapshotName
	if name == "" {
		name = "canvas"
	}

	s := &Server{
		config:    cfg,
		loop:      opts.Loop,
		doc:       opts.Document,
		tap:       opts.Tap,
		root:      opts.Root,
		store:     opts.Store,
		name:      name,
		registry:  opts.Registry,
		namespace: ns,
		metrics:   metrics,
		hub:       newHub(logger, metrics),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.checkOrigin,
		},
		logger: logger,
	}
	s.handler = s.routes()
	s.unsubscribe = s.tap.Subscribe(s.hub)
	return s
}

// Hub returns the op fan-out.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)
	r.Use(middleware.OpenTelemetry(middleware.WithFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz"
	})))
	if s.registry != nil {
		r.Use(middleware.Prometheus(
			middleware.WithRegistry(s.registry),
			middleware.WithNamespace(s.namespace),
		))
	}

	r.Get("/", s.handlePage)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", s.handleWebSocket)
	r.Route("/snapshot", func(r chi.Router) {
		r.Get("/", s.handleCurrent)
		r.Post("/", s.handleSave)
		r.Get("/{key}", s.handleLoad)
	})
	if s.registry != nil {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	}
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown disconnects clients and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.unsubscribe()
	s.hub.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// current reads the canvas content on the loop.
func (s *Server) current(ctx context.Context) (snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	err := s.loop.Do(ctx, func() {
		snap = snapshot.Snapshot{
			Name:    s.name,
			HTML:    s.doc.InnerHTML(s.root),
			Seq:     s.tap.Seq(),
			TakenAt: time.Now(),
		}
	})
	return snap, err
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	snap, err := s.current(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := render.PageData{
		Title:    s.config.Title,
		BodyHTML: snap.HTML,
		Scripts:  []render.ScriptTag{{Inline: clientScript}},
	}
	if err := render.NewStreamingRenderer(w, render.RendererConfig{}).RenderPage(page); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	snap, err := s.current(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "snapshot store not configured", http.StatusServiceUnavailable)
		return
	}
	snap, err := s.current(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if name := r.URL.Query().Get("name"); name != "" {
		snap.Name = name
	}
	key, err := s.store.Save(r.Context(), snap)
	if err != nil {
		s.logger.Error("save snapshot", "error", err)
		http.Error(w, "snapshot save failed", http.StatusInternalServerError)
		return
	}
	s.logger.Info("snapshot saved", "key", key, "seq", snap.Seq)
	writeJSON(w, http.StatusCreated, map[string]any{"key": key, "seq": snap.Seq})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "snapshot store not configured", http.StatusServiceUnavailable)
		return
	}
	snap, err := s.store.Load(r.Context(), chi.URLParam(r, "key"))
	switch {
	case stderrors.Is(err, snapshot.ErrNotFound):
		http.NotFound(w, r)
	case err != nil:
		s.logger.Error("load snapshot", "error", err)
		http.Error(w, "snapshot load failed", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, snap)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
