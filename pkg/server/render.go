package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dotplot/pkg/dataview"
	"github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/pipeline"
	"github.com/matzehuels/dotplot/pkg/settings"
	"github.com/matzehuels/dotplot/pkg/store"
)

// renderRequest is the body of POST /render and POST /sessions. Settings
// keys that are absent keep their defaults.
type renderRequest struct {
	DataView *dataview.DataView `json:"data_view"`
	pipeline.Options
}

func (s *Server) decodeRender(w http.ResponseWriter, r *http.Request) (*renderRequest, error) {
	req := &renderRequest{Options: pipeline.Options{Settings: settings.Default()}}
	if err := decode(w, r, req); err != nil {
		return nil, err
	}
	if req.DataView == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "data_view is required")
	}
	req.Measurer = s.measurer
	return req, nil
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:       "image/svg+xml",
	pipeline.FormatPNG:       "image/png",
	pipeline.FormatPDF:       "application/pdf",
	pipeline.FormatJSON:      "application/json",
	pipeline.FormatHierarchy: "image/svg+xml",
	pipeline.FormatDOT:       "text/vnd.graphviz",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRender(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Update(r.Context(), req.DataView, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec := store.FromResult(res, req.Options)
	if err := s.archive.Save(r.Context(), rec); err != nil {
		s.logger.Warn("archive render failed", "id", res.ID, "err", err)
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	rec, err := s.archive.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		writeJSON(w, http.StatusOK, rec)
		return
	}
	data, ok := rec.Artifacts[format]
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "render %s has no %s artifact", rec.ID, format))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
