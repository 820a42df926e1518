package pipeline

import (
	"github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/interact"
	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/render"
	"github.com/matzehuels/dotplot/pkg/render/hierarchy"
)

// RenderOptions configures [RenderFrame].
type RenderOptions struct {
	// ElementID is the id of the root SVG element.
	ElementID string
	Formats   []string
	Static    bool
	PNGScale  float64

	// Snapshot draws a controller state instead of the resting state.
	Snapshot *interact.Snapshot
}

// RenderFrame renders f in every requested format.
func RenderFrame(f render.Frame, opts RenderOptions) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.RenderSVG(f, svgOpts...)
		case FormatPNG:
			data, err = render.RenderPNG(f, render.WithPNGSVGOptions(svgOpts...), render.WithScale(opts.PNGScale))
		case FormatPDF:
			data, err = render.RenderPDF(f, render.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			jsonOpts := []render.JSONOption{render.WithJSONID(opts.ElementID)}
			if opts.Snapshot != nil {
				jsonOpts = append(jsonOpts, render.WithJSONSnapshot(*opts.Snapshot))
			}
			data, err = render.RenderJSON(f, jsonOpts...)
		case FormatHierarchy:
			data, err = hierarchy.RenderSVG(hierarchyDOT(f))
		case FormatDOT:
			data = []byte(hierarchyDOT(f))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			if errors.GetCode(err) != "" {
				return nil, err
			}
			return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(opts RenderOptions) []render.SVGOption {
	var svgOpts []render.SVGOption
	if opts.ElementID != "" {
		svgOpts = append(svgOpts, render.WithID(opts.ElementID))
	}
	if opts.Static {
		svgOpts = append(svgOpts, render.WithStatic())
	}
	if opts.Snapshot != nil {
		svgOpts = append(svgOpts, render.WithSnapshot(*opts.Snapshot))
	}
	return svgOpts
}

func hierarchyDOT(f render.Frame) string {
	c := f.Collection
	if c == nil {
		c = &model.Collection{}
	}
	return hierarchy.ToDOT(c, hierarchy.Options{Counts: true})
}
