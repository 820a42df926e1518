// Package store archives finished renders so they can be fetched by id.
//
// [MongoArchive] keeps renders in a MongoDB collection and is used by
// `dotplot serve --mongo-uri`. [CacheArchive] keeps them in a [cache.Cache]
// with [cache.TTLRender] and is the default.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/dotplot/pkg/pipeline"
)

// ErrNotFound is returned when no render has the requested id.
var ErrNotFound = errors.New("render not found")

// Record is one archived render.
type Record struct {
	ID          string            `bson:"_id" json:"id"`
	InputHash   string            `bson:"input_hash" json:"input_hash"`
	Orientation string            `bson:"orientation" json:"orientation"`
	Width       float64           `bson:"width" json:"width"`
	Height      float64           `bson:"height" json:"height"`
	Points      int               `bson:"points" json:"points"`
	Unmatched   int               `bson:"unmatched,omitempty" json:"unmatched,omitempty"`
	Degraded    string            `bson:"degraded,omitempty" json:"degraded,omitempty"`
	Artifacts   map[string][]byte `bson:"artifacts" json:"artifacts"`
	DurationMS  int64             `bson:"duration_ms" json:"duration_ms"`
	CreatedAt   time.Time         `bson:"created_at" json:"created_at"`
}

// Formats returns the formats present in the record.
func (r *Record) Formats() []string {
	var out []string
	for _, f := range []string{
		pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF,
		pipeline.FormatJSON, pipeline.FormatHierarchy, pipeline.FormatDOT,
	} {
		if _, ok := r.Artifacts[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// FromResult builds a record from a pipeline result and the options it ran with.
func FromResult(res *pipeline.Result, opts pipeline.Options) Record {
	r := Record{
		ID:          res.ID,
		InputHash:   res.InputHash,
		Orientation: opts.Settings.Orientation,
		Width:       opts.Width,
		Height:      opts.Height,
		Points:      res.Stats.Points,
		Unmatched:   res.Stats.Unmatched,
		Artifacts:   res.Artifacts,
		DurationMS:  res.Stats.Total().Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}
	if res.Degraded != nil {
		r.Degraded = res.Degraded.Error()
	}
	return r
}

// Archive stores and retrieves renders.
type Archive interface {
	Save(ctx context.Context, r Record) error
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*Record, error)
	Close(ctx context.Context) error
}
