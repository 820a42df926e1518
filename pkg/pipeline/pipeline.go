// Package pipeline runs one dot plot update end to end.
//
// The CLI, the HTTP server and the terminal explorer all render through a
// [Runner] so every entry point shares caching, logging and the render
// lifecycle.
//
// # Stages
//
//  1. Transform: data view to [model.Collection]
//  2. Sort: category orders and sort keys
//  3. Layout: margins, scales, ticks and legend for the configured orientation
//  4. Render: SVG, PNG, PDF, JSON geometry or the category hierarchy
//
// Every update emits the render lifecycle through [observability.Render]:
// one started signal, then either finished or failed. Panics in any stage are
// recovered and reported as failed.
//
// # Degraded output
//
// A data view without a values section renders an empty document, and a log
// scale over non-positive values renders the error panel. Neither is an
// error: [Result.Degraded] carries the reason and the lifecycle finishes.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Update(ctx, dv, pipeline.Options{
//	    Settings: settings.Default(),
//	    Formats:  []string{pipeline.FormatSVG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dotplot/pkg/cache"
	"github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/layout"
	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/palette"
	"github.com/matzehuels/dotplot/pkg/settings"
	"github.com/matzehuels/dotplot/pkg/sorting"
	"github.com/matzehuels/dotplot/pkg/textmeasure"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600.0

	// DefaultPNGScale is the default PNG rasterization factor.
	DefaultPNGScale = 2.0

	// MaxViewport bounds either viewport dimension.
	MaxViewport = 20000.0
)

// Format constants for output formats.
const (
	FormatSVG       = "svg"
	FormatPNG       = "png"
	FormatPDF       = "pdf"
	FormatJSON      = "json"
	FormatHierarchy = "hierarchy"
	FormatDOT       = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:       true,
	FormatPNG:       true,
	FormatPDF:       true,
	FormatJSON:      true,
	FormatHierarchy: true,
	FormatDOT:       true,
}

// Stage names reported to [observability.RenderHooks.OnStageComplete].
const (
	StageTransform = "transform"
	StageSort      = "sort"
	StageLayout    = "layout"
	StageRender    = "render"
)

// =============================================================================
// Options
// =============================================================================

// Options configures one update. It is JSON-encodable for HTTP requests.
type Options struct {
	Settings settings.Settings `json:"settings"`

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	Static   bool     `json:"static,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`

	// Refresh bypasses cached artifacts.
	Refresh bool `json:"refresh,omitempty"`

	Logger   *log.Logger          `json:"-"`
	Measurer textmeasure.Measurer `json:"-"`
	Palette  palette.Palette      `json:"-"`

	validated bool
}

// Viewport returns the configured viewport.
func (o *Options) Viewport() layout.Viewport {
	return layout.Viewport{Width: o.Width, Height: o.Height}
}

// ValidateAndSetDefaults normalizes settings, applies defaults and validates
// every option. Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := ValidateViewport(o.Width, o.Height); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Settings.Normalize()
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns the cache key options of one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format: format,
		Width:  o.Width,
		Height: o.Height,
		Static: o.Static,
	}
	if format == FormatPNG {
		k.Scale = o.PNGScale
	}
	if o.Measurer != nil {
		k.Measurer = fmt.Sprintf("%T", o.Measurer)
	}
	return k
}

// =============================================================================
// Result
// =============================================================================

// Result is the output of one update.
type Result struct {
	// ID identifies this update in lifecycle signals and the render archive.
	ID string

	// InputHash fingerprints the data view and settings.
	InputHash string

	Collection *model.Collection
	Sort       sorting.Result
	Geometry   *layout.Geometry

	// Artifacts holds rendered documents keyed by format.
	Artifacts map[string][]byte

	// Degraded is set when the update rendered an empty document or the
	// error panel instead of the chart.
	Degraded error

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and per-stage timings.
type Stats struct {
	Points        int
	Unmatched     int
	TransformTime time.Duration
	SortTime      time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// Total returns the summed stage time.
func (s Stats) Total() time.Duration {
	return s.TransformTime + s.SortTime + s.LayoutTime + s.RenderTime
}

// CacheInfo reports cache use.
type CacheInfo struct {
	// RenderHit is true when every requested artifact came from the cache.
	RenderHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, hierarchy, dot)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateViewport checks that both dimensions are positive and bounded.
func ValidateViewport(width, height float64) error {
	if width <= 0 || height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport must be positive, got %gx%g", width, height)
	}
	if width > MaxViewport || height > MaxViewport {
		return errors.New(errors.ErrCodeInvalidInput, "viewport exceeds %g pixels, got %gx%g", MaxViewport, width, height)
	}
	return nil
}
