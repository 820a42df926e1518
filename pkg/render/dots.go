package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/dotplot/pkg/interact"
	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/settings"
)

const dotStrokeWidth = 2

var (
	sqrt3 = math.Sqrt(3)
	tan30 = math.Tan(math.Pi / 6)
)

// SymbolPath returns the path of a shape centered on the origin for a mark
// of radius r. Areas follow the circle: a square is 4r², a triangle 2.5r²,
// a diamond 2r².
func SymbolPath(shape string, r float64) string {
	switch shape {
	case settings.ShapeSquare:
		h := math.Sqrt(4*r*r) / 2
		return fmt.Sprintf("M%.2f,%.2fL%.2f,%.2f %.2f,%.2f %.2f,%.2fZ", -h, -h, h, -h, h, h, -h, h)
	case settings.ShapeTriangle:
		rx := math.Sqrt(2.5 * r * r / sqrt3)
		ry := rx * sqrt3 / 2
		return fmt.Sprintf("M0,%.2fL%.2f,%.2f %.2f,%.2fZ", -ry, rx, ry, -rx, ry)
	case settings.ShapeDiamond:
		ry := math.Sqrt(2 * r * r / (2 * tan30))
		rx := ry * tan30
		return fmt.Sprintf("M0,%.2fL%.2f,0 0,%.2f %.2f,0Z", -ry, rx, ry, -rx)
	}
	return ""
}

// Tooltip joins the tooltip entries of p, one "name: value" per line.
func Tooltip(p model.DataPoint) string {
	lines := make([]string, len(p.TooltipEntries))
	for i, e := range p.TooltipEntries {
		lines[i] = e.Name + ": " + e.Value
	}
	return strings.Join(lines, "\n")
}

func renderDots(buf *bytes.Buffer, f Frame, marks []interact.Mark) {
	s, g := f.Settings, f.Geometry
	pos := f.Positions()

	buf.WriteString("    <g class=\"dots\">\n")
	for i, p := range f.Collection.Points {
		m := marks[i]
		r := g.Radius.Map(p.CategorySize)
		fill := f.PointColor(p)
		if s.Dots.Style == settings.StyleOutline {
			fill = "none"
		}

		if s.Dots.Shape == settings.ShapeCircle || s.Dots.Shape == "" {
			fmt.Fprintf(buf, `      <circle class="dotPlot_dot" cx="0" cy="0" r="%.2f"`, r)
		} else {
			fmt.Fprintf(buf, `      <path class="dotPlot_dot" d="%s"`, SymbolPath(s.Dots.Shape, r))
		}
		fmt.Fprintf(buf, ` transform="translate(%.2f,%.2f)" fill="%s" stroke="%s" stroke-width="%d" fill-opacity="%.2f" stroke-opacity="%.2f"`,
			pos[i][0], pos[i][1], escapeXML(fill), escapeXML(m.Stroke), dotStrokeWidth, m.Opacity, m.Opacity)
		fmt.Fprintf(buf, ` data-index="%d" data-id="%s" data-color="%s" data-category="%s" data-group="%s" data-parent="%s" data-stroke="%s">`,
			i, escapeXML(string(m.ID)), escapeXML(m.Color), escapeXML(m.Category), escapeXML(m.Group), escapeXML(m.Parent), escapeXML(m.RestStroke))
		if tip := Tooltip(p); tip != "" {
			fmt.Fprintf(buf, "<title>%s</title>", escapeXML(tip))
		}
		if s.Dots.Shape == settings.ShapeCircle || s.Dots.Shape == "" {
			buf.WriteString("</circle>\n")
		} else {
			buf.WriteString("</path>\n")
		}
	}
	buf.WriteString("    </g>\n")
}
