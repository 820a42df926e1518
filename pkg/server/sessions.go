package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/interact"
	"github.com/matzehuels/dotplot/pkg/pipeline"
	"github.com/matzehuels/dotplot/pkg/render"
	"github.com/matzehuels/dotplot/pkg/session"
)

// sessionResponse is returned by every session route.
type sessionResponse struct {
	ID        string            `json:"id"`
	ExpiresAt time.Time         `json:"expires_at"`
	State     interact.Snapshot `json:"state"`
	SVG       string            `json:"svg"`
}

// eventRequest is the body of the session event routes.
type eventRequest struct {
	Index *int   `json:"index,omitempty"`
	Label string `json:"label,omitempty"`
}

// event applies one interaction to ctl.
type event func(ctx context.Context, ctl *interact.Controller, req eventRequest) error

func clickEvent(ctx context.Context, ctl *interact.Controller, req eventRequest) error {
	if req.Index == nil {
		return errors.New(errors.ErrCodeInvalidInput, "index is required")
	}
	return ctl.Click(ctx, *req.Index)
}

func hoverEvent(_ context.Context, ctl *interact.Controller, req eventRequest) error {
	if req.Index == nil || *req.Index < 0 {
		ctl.Mouseout()
		return nil
	}
	ctl.Hover(*req.Index)
	return nil
}

func legendEvent(ctx context.Context, ctl *interact.Controller, req eventRequest) error {
	if req.Label == "" {
		return errors.New(errors.ErrCodeInvalidInput, "label is required")
	}
	return ctl.LegendClick(ctx, req.Label)
}

func clearEvent(ctx context.Context, ctl *interact.Controller, _ eventRequest) error {
	return ctl.DocumentClick(ctx)
}

// live is a session with its chart replayed and controller restored.
type live struct {
	sess  *session.Session
	frame render.Frame
	hash  string
	sel   *interact.MemorySelection
	ctl   *interact.Controller
}

// replay runs the pipeline for sess and restores its controller state.
func (s *Server) replay(ctx context.Context, sess *session.Session) (*live, error) {
	opts := pipeline.Options{
		Settings: sess.Settings,
		Width:    sess.Width,
		Height:   sess.Height,
		Measurer: s.measurer,
	}
	res, err := s.runner.Update(ctx, sess.DataView, opts)
	if err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	frame := render.Frame{
		Collection: res.Collection,
		Geometry:   res.Geometry,
		Settings:   opts.Settings,
		Viewport:   opts.Viewport(),
	}

	sel := interact.NewMemorySelection(sess.Selected...)
	ctl := interact.New(sel, interact.OptionsFrom(opts.Settings, res.Collection.Flags))
	if len(sess.State.Marks) == len(res.Collection.Points) && len(sess.State.Marks) > 0 {
		ctl.Restore(sess.State)
	} else {
		ctl.Reset(interact.MarksFrom(res.Collection, opts.Settings, frame.PointColor), interact.LegendFrom(res.Collection))
	}
	return &live{sess: sess, frame: frame, hash: res.InputHash, sel: sel, ctl: ctl}, nil
}

// save stores the controller state and answers with the redrawn chart.
func (s *Server) save(w http.ResponseWriter, r *http.Request, l *live, status int) {
	l.sess.Selected = l.sel.Selected()
	l.sess.State = l.ctl.Snapshot()
	if err := s.sessions.Set(r.Context(), l.sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondSession(w, r, l, status)
}

func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, l *live, status int) {
	snap := l.ctl.Snapshot()
	artifacts, err := pipeline.RenderFrame(l.frame, pipeline.RenderOptions{
		ElementID: pipeline.ElementID(l.hash),
		Formats:   []string{pipeline.FormatSVG},
		Snapshot:  &snap,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	svg := artifacts[pipeline.FormatSVG]
	if r.URL.Query().Get("format") == pipeline.FormatSVG {
		w.Header().Set("Content-Type", contentTypes[pipeline.FormatSVG])
		w.WriteHeader(status)
		_, _ = w.Write(svg)
		return
	}
	writeJSON(w, status, sessionResponse{
		ID:        l.sess.ID,
		ExpiresAt: l.sess.ExpiresAt,
		State:     snap,
		SVG:       string(svg),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRender(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := session.New(req.DataView, req.Settings, req.Width, req.Height, s.ttl)
	l, err := s.replay(r.Context(), sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Keep the normalized settings and defaulted viewport.
	sess.Settings = l.frame.Settings
	sess.Width, sess.Height = l.frame.Viewport.Width, l.frame.Viewport.Height
	s.logger.Info("session opened", "session", sess.ID, "points", len(l.frame.Collection.Points))
	s.save(w, r, l, http.StatusCreated)
}

func (s *Server) load(r *http.Request) (*live, error) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return s.replay(r.Context(), sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	l, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondSession(w, r, l, http.StatusOK)
}

func (s *Server) handleEvent(apply event) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req eventRequest
		if r.ContentLength != 0 {
			if err := decode(w, r, &req); err != nil {
				s.writeError(w, r, err)
				return
			}
		}
		l, err := s.load(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := apply(r.Context(), l.ctl, req); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.save(w, r, l, http.StatusOK)
	}
}
