package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/dotplot/pkg/layout"
	"github.com/matzehuels/dotplot/pkg/settings"
)

const axisTickLength = 5

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

type font struct {
	family string
	size   float64
	color  string
}

// writeLabel writes l as a text element. Truncated labels carry the full
// text as a tooltip.
func writeLabel(buf *bytes.Buffer, l layout.Label, class string, f font) {
	fmt.Fprintf(buf, `    <text class="%s" x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="middle" font-family="%s" font-size="%.1f" fill="%s"`,
		class, l.X, l.Y, l.Anchor, escapeXML(f.family), f.size, escapeXML(f.color))
	if l.Rotate != 0 {
		fmt.Fprintf(buf, ` transform="rotate(%.0f %.2f %.2f)"`, l.Rotate, l.X, l.Y)
	}
	buf.WriteString(">")
	buf.WriteString(escapeXML(l.Text))
	if l.Full != "" && l.Full != l.Text {
		fmt.Fprintf(buf, "<title>%s</title>", escapeXML(l.Full))
	}
	buf.WriteString("</text>\n")
}

func writeLine(buf *bytes.Buffer, class string, x1, y1, x2, y2 float64, stroke string, width float64, dash string) {
	fmt.Fprintf(buf, `    <line class="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"`,
		class, x1, y1, x2, y2, escapeXML(stroke), width)
	if dash != "" {
		fmt.Fprintf(buf, ` stroke-dasharray="%s"`, dash)
	}
	buf.WriteString("/>\n")
}

// renderBands fills alternating parent bands behind the plot.
func renderBands(buf *bytes.Buffer, f Frame) {
	bg := f.Settings.Background
	if !bg.Show {
		return
	}
	for _, b := range f.Geometry.ParentBands {
		color := bg.SecondaryColor
		if b.Even() {
			color = bg.PrimaryColor
		}
		fmt.Fprintf(buf, `    <rect class="parentBand" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="%.2f"/>`+"\n",
			b.Rect.Left, b.Rect.Top, b.Rect.Width(), b.Rect.Height(), escapeXML(color), f.Settings.BandOpacity())
	}
}

// renderGrid draws measure grid lines at every tick and category grid lines
// through every band center.
func renderGrid(buf *bytes.Buffer, f Frame) {
	s, g := f.Settings, f.Geometry
	gl := s.GridLines
	plot := g.Plot()
	horizontal := g.Horizontal()

	if gl.ShowAxisGridLines {
		for _, t := range g.MeasureTicks {
			if horizontal {
				x := plot.Left + t.Pos
				writeLine(buf, "gridLine", x, plot.Top, x, plot.Bottom, gl.Color, s.AxisGridWidth(), settings.DashArray(gl.Style))
			} else {
				y := plot.Top + t.Pos
				writeLine(buf, "gridLine", plot.Left, y, plot.Right, y, gl.Color, s.AxisGridWidth(), settings.DashArray(gl.Style))
			}
		}
	}
	if gl.ShowCategoryGridLines {
		for _, t := range g.CategoryTicks {
			if horizontal {
				y := plot.Top + t.Pos
				writeLine(buf, "categoryGridLine", plot.Left, y, plot.Right, y, gl.CategoryColor, s.CategoryGridWidth(), settings.DashArray(gl.CategoryStyle))
			} else {
				x := plot.Left + t.Pos
				writeLine(buf, "categoryGridLine", x, plot.Top, x, plot.Bottom, gl.CategoryColor, s.CategoryGridWidth(), settings.DashArray(gl.CategoryStyle))
			}
		}
	}
}

// renderAxes draws the plot frame, tick marks, tick labels, parent labels
// and axis titles.
func renderAxes(buf *bytes.Buffer, f Frame) {
	s, g := f.Settings, f.Geometry
	plot := g.Plot()
	horizontal := g.Horizontal()
	ma, ca := s.MeasureAxis(), s.CategoryAxis()

	// Frame lines along the measure and category axes.
	if horizontal {
		writeLine(buf, "axisLine", plot.Left, plot.Bottom, plot.Right, plot.Bottom, frameColor, 1, "")
		writeLine(buf, "axisLine", plot.Left, plot.Top, plot.Left, plot.Bottom, frameColor, 1, "")
	} else {
		writeLine(buf, "axisLine", plot.Left, plot.Bottom, plot.Right, plot.Bottom, frameColor, 1, "")
		x := plot.Left
		if ma.Position == settings.PositionRight {
			x = plot.Right
		}
		writeLine(buf, "axisLine", x, plot.Top, x, plot.Bottom, frameColor, 1, "")
	}

	measureFont := font{ma.LabelsFontFamily, ma.FontSize, ma.LabelsColor}
	for _, t := range g.MeasureTicks {
		if s.Ticks.ShowAxisTicks {
			switch {
			case horizontal:
				x := plot.Left + t.Pos
				writeLine(buf, "axisTick", x, plot.Bottom, x, plot.Bottom+axisTickLength, s.Ticks.Color, s.AxisTickWidth(), "")
			case ma.Position == settings.PositionRight:
				y := plot.Top + t.Pos
				writeLine(buf, "axisTick", plot.Right, y, plot.Right+axisTickLength, y, s.Ticks.Color, s.AxisTickWidth(), "")
			default:
				y := plot.Top + t.Pos
				writeLine(buf, "axisTick", plot.Left-axisTickLength, y, plot.Left, y, s.Ticks.Color, s.AxisTickWidth(), "")
			}
		}
		writeLabel(buf, t.Label, "measureLabel", measureFont)
	}
	if g.MeasureTitle != nil {
		writeLabel(buf, *g.MeasureTitle, "axisTitle", font{ma.TitleFontFamily, ma.TitleSize, ma.TitleColor})
	}

	categoryFont := font{ca.LabelsFontFamily, ca.FontSize, ca.LabelsColor}
	for _, t := range g.CategoryTicks {
		writeLabel(buf, t.Label, "categoryLabel", categoryFont)
	}
	if g.CategoryTitle != nil {
		writeLabel(buf, *g.CategoryTitle, "axisTitle", font{ca.TitleFontFamily, ca.TitleSize, ca.TitleColor})
	}

	pa := s.ParentAxis
	for _, b := range g.ParentBands {
		writeLabel(buf, b.Label, "parentLabel", font{pa.FontFamily, pa.FontSize, pa.FontColor})
		if !s.Ticks.ShowCategoryTicks || !b.HasBoundary {
			continue
		}
		if horizontal {
			writeLine(buf, "categoryTick", b.TickFrom, b.Boundary, b.TickTo, b.Boundary, s.Ticks.CategoryTickColor, s.CategoryTickWidth(), "")
		} else {
			writeLine(buf, "categoryTick", b.Boundary, b.TickFrom, b.Boundary, b.TickTo, s.Ticks.CategoryTickColor, s.CategoryTickWidth(), "")
		}
	}
}
