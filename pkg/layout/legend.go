package layout

import (
	"github.com/matzehuels/dotplot/pkg/format"
	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/scale"
	"github.com/matzehuels/dotplot/pkg/settings"
	"github.com/matzehuels/dotplot/pkg/textmeasure"
)

// Legend geometry constants.
const (
	legendPadding   = 10
	legendItemGap   = 15
	legendIconRatio = 0.8
	sizeCircles     = 6
)

// Legend is the legend strip. Coordinates are relative to the strip's
// top-left corner; the color row comes first, the size row below it.
type Legend struct {
	Position   string  `json:"position"`
	FontFamily string  `json:"font_family"`
	FontSize   float64 `json:"font_size"`
	RowHeight  float64 `json:"row_height"`

	Title *Label       `json:"title,omitempty"`
	Items []LegendItem `json:"items,omitempty"`
	Size  *SizeLegend  `json:"size,omitempty"`
}

// LegendItem is one color swatch with its label.
type LegendItem struct {
	Entry model.LegendEntry `json:"entry"`
	Icon  Rect              `json:"icon"`
	Label Label             `json:"label"`
}

// Circle is a circle in legend coordinates.
type Circle struct {
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	R  float64 `json:"r"`
}

// SizeLegend shows six graduated circles labelled with the smallest and
// largest size values.
type SizeLegend struct {
	Top      float64  `json:"top"`
	Height   float64  `json:"height"`
	Title    *Label   `json:"title,omitempty"`
	Circles  []Circle `json:"circles"`
	MinLabel Label    `json:"min_label"`
	MaxLabel Label    `json:"max_label"`
}

// Height returns the total height of the legend strip.
func (l *Legend) Height() float64 {
	if l == nil {
		return 0
	}
	var h float64
	if len(l.Items) > 0 {
		h += l.RowHeight
	}
	if l.Size != nil {
		h += l.Size.Height
	}
	return h
}

// PointToPixel converts a font size in points to pixels.
func PointToPixel(pt float64) float64 {
	return pt * 4 / 3
}

// layoutLegend places the color legend and the size legend. It returns nil
// when neither applies.
func layoutLegend(c *model.Collection, s settings.Settings, vp Viewport, m textmeasure.Measurer) *Legend {
	ls := s.Legend
	l := &Legend{
		Position:   ls.Position,
		FontFamily: ls.FontFamily,
		FontSize:   PointToPixel(ls.FontSize),
	}
	props := func(text string) textmeasure.TextProperties {
		return textmeasure.TextProperties{FontFamily: ls.FontFamily, FontSize: l.FontSize, Text: text}
	}
	textHeight := m.Height(props("X"))
	l.RowHeight = textHeight + legendPadding
	baseline := l.RowHeight/2 + textHeight/3

	if c.Flags.ColorCategory && len(c.Legend) > 0 {
		x := 0.0
		if ls.ShowTitle {
			title := ls.TitleText
			if title == "" {
				title = c.LegendTitle
			}
			if title != "" {
				text := textmeasure.Truncate(m, props(title), vp.Width/2)
				l.Title = &Label{Text: text, Full: title, X: x, Y: baseline, Anchor: "start"}
				x += m.Width(props(text)) + legendPadding
			}
		}
		icon := l.FontSize * legendIconRatio
		for _, e := range c.Legend {
			item := LegendItem{
				Entry: e,
				Icon: Rect{
					Left:   x,
					Right:  x + icon,
					Top:    (l.RowHeight - icon) / 2,
					Bottom: (l.RowHeight + icon) / 2,
				},
				Label: Label{Text: e.Label, Full: e.Label, X: x + icon + labelGap, Y: baseline, Anchor: "start"},
			}
			l.Items = append(l.Items, item)
			x += icon + labelGap + m.Width(props(e.Label)) + legendItemGap
		}
	}

	if c.Flags.Size {
		l.Size = layoutSizeLegend(c, s, l, vp, m)
		if len(l.Items) > 0 {
			l.Size.Top = l.RowHeight
		}
	}

	if len(l.Items) == 0 && l.Size == nil {
		return nil
	}
	return l
}

// layoutSizeLegend lays out six circles whose radii grow by a fixed share
// of the row height, preceded by the size title.
func layoutSizeLegend(c *model.Collection, s settings.Settings, l *Legend, vp Viewport, m textmeasure.Measurer) *SizeLegend {
	ls := s.Legend
	h := l.RowHeight
	sl := &SizeLegend{}

	offset := 0.0
	if ls.ShowTitle && c.SizeTitle != "" {
		p := textmeasure.TextProperties{FontFamily: ls.FontFamily, FontSize: l.FontSize, Text: c.SizeTitle}
		text := textmeasure.Truncate(m, p, vp.Width/2)
		p.Text = text
		sl.Title = &Label{Text: text, Full: c.SizeTitle, X: 2, Y: 9 + ls.FontSize, Anchor: "start"}
		offset = m.Width(p) + legendPadding
	}

	cx := offset + legendPadding
	var r float64
	for i := 0; i < sizeCircles; i++ {
		r = 2 + float64(i)*h/9
		cx += r*2 + labelGap + float64(i)
		sl.Circles = append(sl.Circles, Circle{CX: cx, R: r})
	}
	cy := r + h/7
	for i := range sl.Circles {
		sl.Circles[i].CY = cy
	}

	lo, hi := scale.Extent(c.SizeValues())
	f := format.New(format.Options{
		Format:    c.SizeFormat,
		Precision: ls.DecimalPlaces,
		Units:     ls.DisplayUnits,
		Reference: hi,
	})
	y := r*2 + h/2
	sl.MinLabel = Label{Text: f.Format(lo), Full: format.Number(lo, format.DefaultNumeric), X: sl.Circles[0].CX, Y: y, Anchor: "middle"}
	sl.MaxLabel = Label{Text: f.Format(hi), Full: format.Number(hi, format.DefaultNumeric), X: cx, Y: y, Anchor: "middle"}
	sl.Height = y + h/2.5
	return sl
}
