// Package server exposes the render pipeline and interactive sessions over HTTP.
//
// Routes:
//
//	POST /render                 render a data view, archive and return the record
//	GET  /renders/{id}           fetch an archived render (?format=svg for the raw artifact)
//	POST /sessions               open an interactive session
//	GET  /sessions/{id}          current session state and SVG
//	POST /sessions/{id}/click    {"index": n}
//	POST /sessions/{id}/hover    {"index": n}, a negative index is a mouseout
//	POST /sessions/{id}/legend   {"label": "..."}
//	POST /sessions/{id}/clear    clear the selection
//	GET  /healthz
//
// Session routes replay the pipeline for the stored data view (served from
// the artifact cache after the first render), restore the stored controller
// state, apply the event and store the new state.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dotplot/pkg/pipeline"
	"github.com/matzehuels/dotplot/pkg/session"
	"github.com/matzehuels/dotplot/pkg/store"
	"github.com/matzehuels/dotplot/pkg/textmeasure"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 32 << 20

// Config wires a Server. Runner is required; the other fields default to
// in-memory backends and a discarding logger.
type Config struct {
	Runner   *pipeline.Runner
	Sessions session.Store
	Archive  store.Archive
	Measurer textmeasure.Measurer
	Logger   *log.Logger

	// SessionTTL overrides session.DefaultTTL.
	SessionTTL time.Duration
}

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	sessions session.Store
	archive  store.Archive
	measurer textmeasure.Measurer
	logger   *log.Logger
	ttl      time.Duration
	router   chi.Router
}

// New creates a server from cfg.
func New(cfg Config) *Server {
	s := &Server{
		runner:   cfg.Runner,
		sessions: cfg.Sessions,
		archive:  cfg.Archive,
		measurer: cfg.Measurer,
		logger:   cfg.Logger,
		ttl:      cfg.SessionTTL,
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore()
	}
	if s.archive == nil {
		s.archive = store.NewCacheArchive(s.runner.Cache, s.runner.Keyer)
	}
	if s.measurer == nil {
		s.measurer = textmeasure.Default()
	}
	if s.logger == nil {
		s.logger = s.runner.Logger
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/render", s.handleRender)
	r.Get("/renders/{id}", s.handleGetRender)

	r.Post("/sessions", s.handleCreateSession)
	r.Get("/sessions/{id}", s.handleGetSession)
	r.Post("/sessions/{id}/click", s.handleEvent(clickEvent))
	r.Post("/sessions/{id}/hover", s.handleEvent(hoverEvent))
	r.Post("/sessions/{id}/legend", s.handleEvent(legendEvent))
	r.Post("/sessions/{id}/clear", s.handleEvent(clearEvent))
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and removes expired sessions every cleanup interval.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.cleanupLoop(ctx, 10*time.Minute)

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
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) cleanupLoop(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}

// Close releases the session store and archive.
func (s *Server) Close(ctx context.Context) error {
	err := s.sessions.Close()
	if aerr := s.archive.Close(ctx); err == nil {
		err = aerr
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
