package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/dotplot/pkg/interact"
	"github.com/matzehuels/dotplot/pkg/layout"
	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/scale"
	"github.com/matzehuels/dotplot/pkg/settings"
)

// frameColor is the stroke of the plot frame lines.
const frameColor = "#A6A6A6"

// Frame is the output of one update, ready to draw.
type Frame struct {
	Collection *model.Collection
	Geometry   *layout.Geometry
	Settings   settings.Settings

	// Viewport sizes the empty document when there is no geometry.
	Viewport layout.Viewport
}

// PointColor resolves the fill color of p: the gradient color when a
// numeric color role is present, the legend color for categorical colors,
// otherwise the configured dot color.
func (f Frame) PointColor(p model.DataPoint) string {
	if g := f.Geometry; g != nil && g.Gradient != nil {
		if v, err := strconv.ParseFloat(p.CategoryColor, 64); err == nil {
			return g.Gradient.Color(v)
		}
	}
	if f.Collection != nil && f.Collection.Flags.ColorCategory {
		if c, ok := f.Collection.LegendColor(p.CategoryColor); ok {
			return c
		}
	}
	return f.Settings.Dots.Color
}

// Marks returns the resting interactive state of every point, with host
// highlights applied.
func (f Frame) Marks() interact.Snapshot {
	ctl := interact.New(nil, interact.OptionsFrom(f.Settings, f.Collection.Flags))
	ctl.Reset(interact.MarksFrom(f.Collection, f.Settings, f.PointColor), interact.LegendFrom(f.Collection))
	return ctl.Snapshot()
}

// Positions returns the chart coordinates of every point in order. Jitter
// draws are replayed from the start of the sequence.
func (f Frame) Positions() [][2]float64 {
	var j *scale.Jitter
	if f.Settings.Jitter {
		j = scale.NewJitter()
	}
	out := make([][2]float64, len(f.Collection.Points))
	for i, p := range f.Collection.Points {
		x, y := f.Geometry.Position(p, j)
		out[i] = [2]float64{x, y}
	}
	return out
}

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	id       string
	snapshot *interact.Snapshot
	static   bool
}

// WithID sets the id of the root element. The embedded script looks the
// chart up by this id, so charts sharing a page need distinct ids.
func WithID(id string) SVGOption { return func(r *svgRenderer) { r.id = id } }

// WithSnapshot draws marks and legend items in the given interaction state
// instead of the resting state.
func WithSnapshot(s interact.Snapshot) SVGOption {
	return func(r *svgRenderer) { r.snapshot = &s }
}

// WithStatic leaves out the interaction script and styles.
func WithStatic() SVGOption { return func(r *svgRenderer) { r.static = true } }

// RenderSVG draws the frame as a standalone SVG document.
func RenderSVG(f Frame, opts ...SVGOption) []byte {
	r := svgRenderer{id: "dotplot"}
	for _, opt := range opts {
		opt(&r)
	}

	g := f.Geometry
	if g == nil || f.Collection.Len() == 0 {
		return RenderEmpty(f.Viewport)
	}
	if g.ErrorPanel != nil {
		return RenderErrorPanel(g.ErrorPanel)
	}

	state := f.Marks()
	if r.snapshot != nil && len(r.snapshot.Marks) == len(state.Marks) {
		state = *r.snapshot
	}

	width := max(g.Viewport.Width, g.Content.Width)
	chartHeight := max(g.Chart.Height(), g.Content.Height)
	height := g.Chart.Top + chartHeight
	legendY := 0.0
	if g.Legend != nil && f.Settings.Legend.Position == settings.LegendBottom {
		legendY = height
		height += g.Legend.Height()
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" id="%s" class="dotPlot" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f"`,
		escapeXML(r.id), width, height, width, height)
	fmt.Fprintf(&buf, ` data-highlight-mode="%t" data-rest-opacity="%.2f" data-hover-stroke="%s" data-click-active="%t">`+"\n",
		state.HighlightMode, f.Settings.DotOpacity(), escapeXML(f.Settings.Dots.HoverColor), state.ClickActive)

	if g.Legend != nil {
		fmt.Fprintf(&buf, "  <g class=\"legend\" transform=\"translate(0,%.2f)\">\n", legendY)
		renderLegend(&buf, f, state.Legend)
		buf.WriteString("  </g>\n")
	}

	fmt.Fprintf(&buf, "  <g class=\"chart\" transform=\"translate(0,%.2f)\">\n", g.Chart.Top)
	renderBands(&buf, f)
	renderGrid(&buf, f)
	renderAxes(&buf, f)
	renderDots(&buf, f, state.Marks)
	buf.WriteString("  </g>\n")

	if !r.static {
		renderInteraction(&buf, r.id)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
