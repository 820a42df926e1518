package render

import (
	"encoding/json"

	"github.com/matzehuels/dotplot/pkg/interact"
	"github.com/matzehuels/dotplot/pkg/layout"
	"github.com/matzehuels/dotplot/pkg/model"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	id       string
	snapshot *interact.Snapshot
}

// WithJSONID records a render id in the output.
func WithJSONID(id string) JSONOption { return func(r *jsonRenderer) { r.id = id } }

// WithJSONSnapshot writes mark state from the given snapshot instead of the
// resting state.
func WithJSONSnapshot(s interact.Snapshot) JSONOption {
	return func(r *jsonRenderer) { r.snapshot = &s }
}

type jsonOutput struct {
	ID       string            `json:"id,omitempty"`
	Geometry *layout.Geometry  `json:"geometry"`
	Points   []jsonPoint       `json:"points"`
	State    interact.Snapshot `json:"state"`
}

type jsonPoint struct {
	model.DataPoint
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

// RenderJSON writes the geometry, every point with its resolved position,
// radius and color, and the interaction state.
func RenderJSON(f Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{ID: r.id, Geometry: f.Geometry, Points: []jsonPoint{}}
	if f.Geometry != nil && f.Geometry.ErrorPanel == nil && f.Collection.Len() > 0 {
		pos := f.Positions()
		for i, p := range f.Collection.Points {
			out.Points = append(out.Points, jsonPoint{
				DataPoint: p,
				X:         pos[i][0],
				Y:         pos[i][1],
				Radius:    f.Geometry.Radius.Map(p.CategorySize),
				Color:     f.PointColor(p),
			})
		}
		out.State = f.Marks()
		if r.snapshot != nil && len(r.snapshot.Marks) == len(out.State.Marks) {
			out.State = *r.snapshot
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
