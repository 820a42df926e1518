// Package layout computes the pixel geometry of a dot plot.
//
// [Compute] takes a sorted [model.Collection], the chart settings, the
// viewport and a text measurer and returns a [Geometry]: margins grown from
// measured titles and labels, the measure and category scales, tick and
// parent label positions, alternating parent bands and the legend areas.
// Every update builds a fresh Geometry; nothing is carried between calls.
//
// Coordinates are chart-local: (0,0) is the top-left corner of the chart
// area below (or above) the legend, and the plot area starts at
// (Margins.Left, Margins.Top). When the categories do not fit at their
// minimum width the plot grows along the category axis and
// [Geometry.Scrolled] is set; [Geometry.Content] is then larger than the
// chart area.
//
// A log scale over zero, negative or percentage data is refused: Compute
// returns a Geometry carrying only an [ErrorPanel] together with an error
// coded [errors.ErrCodeLogDomain]. No log scale is built in that case.
package layout

import (
	"math"

	"github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/format"
	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/scale"
	"github.com/matzehuels/dotplot/pkg/settings"
	"github.com/matzehuels/dotplot/pkg/textmeasure"
)

// LogDomainMessage is shown in place of the chart when a log scale is refused.
const LogDomainMessage = "Data contains negative, percentage or zero values. To show these data points use a different scale."

const (
	// ErrorPanelFontSize is the font size of the error panel message.
	ErrorPanelFontSize = 16

	// ScrollGutter is taken from the orthogonal extent when the plot scrolls.
	ScrollGutter = 20

	labelGap       = 5
	parentGap      = 15
	bandInset      = 3
	verticalInset  = 2
	titleGap       = 10
	measurePadding = 10
)

// Label is a positioned text element. Text may be truncated; Full keeps the
// untruncated string for tooltips.
type Label struct {
	Text   string  `json:"text"`
	Full   string  `json:"full,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Rotate float64 `json:"rotate,omitempty"`
	Anchor string  `json:"anchor"`
}

// Tick is one axis tick. Pos is plot-local along the axis; Label is in chart
// coordinates.
type Tick struct {
	Key   string  `json:"key,omitempty"`
	Value float64 `json:"value"`
	Pos   float64 `json:"pos"`
	Label Label   `json:"label"`
}

// ErrorPanel replaces the chart when the requested scale cannot show the data.
type ErrorPanel struct {
	Message  string  `json:"message"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FontSize float64 `json:"font_size"`
}

// Geometry is the complete layout of one update.
type Geometry struct {
	Orientation string   `json:"orientation"`
	Viewport    Viewport `json:"viewport"`

	// Chart is the area left for axes and plot after the legend, in
	// document coordinates.
	Chart    Rect     `json:"chart"`
	Content  Viewport `json:"content"`
	Margins  Margins  `json:"margins"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Scrolled bool     `json:"scrolled"`
	MinWidth float64  `json:"min_width"`

	MeasureDomain [2]float64 `json:"measure_domain"`
	LogScale      bool       `json:"log_scale"`

	Measure   scale.Measure     `json:"-"`
	Band      scale.Band        `json:"-"`
	Radius    scale.Radius      `json:"-"`
	Gradient  *scale.Gradient   `json:"-"`
	Formatter *format.Formatter `json:"-"`

	MeasureTicks  []Tick       `json:"measure_ticks,omitempty"`
	CategoryTicks []Tick       `json:"category_ticks,omitempty"`
	ParentBands   []ParentBand `json:"parent_bands,omitempty"`
	MeasureTitle  *Label       `json:"measure_title,omitempty"`
	CategoryTitle *Label       `json:"category_title,omitempty"`

	Legend     *Legend     `json:"legend,omitempty"`
	ErrorPanel *ErrorPanel `json:"error_panel,omitempty"`
}

// Plot returns the plot area in chart coordinates.
func (g *Geometry) Plot() Rect {
	return Rect{
		Left:   g.Margins.Left,
		Right:  g.Margins.Left + g.Width,
		Top:    g.Margins.Top,
		Bottom: g.Margins.Top + g.Height,
	}
}

// Horizontal reports whether the measure axis runs horizontally.
func (g *Geometry) Horizontal() bool {
	return g.Orientation != settings.OrientationVertical
}

// Position returns the chart coordinates of p. When j is non-nil two draws
// are consumed, the first for x and the second for y; only the draw for the
// category coordinate is applied.
func (g *Geometry) Position(p model.DataPoint, j *scale.Jitter) (x, y float64) {
	var dx, dy float64
	if j != nil {
		dx = j.Next()
		dy = j.Next()
	}
	center, _ := g.Band.Center(p.CompositeParent)
	measure := g.Measure.Map(p.Value)
	if g.Horizontal() {
		return g.Margins.Left + measure, g.Margins.Top + center + dy
	}
	return g.Margins.Left + center + dx, g.Margins.Top + measure
}

// Compute lays out c for the configured orientation.
func Compute(c *model.Collection, s settings.Settings, vp Viewport, m textmeasure.Measurer) (*Geometry, error) {
	if c.Len() == 0 {
		return nil, errors.New(errors.ErrCodeMalformedView, "no points to lay out")
	}
	if m == nil {
		m = textmeasure.Default()
	}

	g := &Geometry{Orientation: s.Orientation, Viewport: vp}
	ma := s.MeasureAxis()
	if ma.Scale == settings.ScaleLog && (c.MinValue <= 0 || format.IsPercent(c.MeasureFormat)) {
		g.Chart = Rect{Right: vp.Width, Bottom: vp.Height}
		g.Content = vp
		g.ErrorPanel = &ErrorPanel{
			Message:  LogDomainMessage,
			Width:    vp.Width,
			Height:   vp.Height,
			FontSize: ErrorPanelFontSize,
		}
		return g, errors.New(errors.ErrCodeLogDomain, LogDomainMessage)
	}

	g.Chart = Rect{Right: vp.Width, Bottom: vp.Height}
	if s.Legend.Show {
		g.Legend = layoutLegend(c, s, vp, m)
	}
	if g.Legend != nil {
		h := g.Legend.Height()
		if s.Legend.Position == settings.LegendBottom {
			g.Chart.Bottom = max(1, vp.Height-h)
		} else {
			g.Chart.Top = min(h, vp.Height-1)
		}
	}

	p := newPass(c, s, m, g)
	if s.IsHorizontal() {
		p.horizontal()
	} else {
		p.vertical()
	}
	p.finish()
	return g, nil
}

// ResolveDomain applies the configured start and end to the natural domain
// [lo,hi]. Bounds that would invert the domain are ignored.
func ResolveDomain(a settings.Axis, lo, hi float64) (start, end float64) {
	start, end = lo, hi
	if a.Start != nil {
		if a.End != nil {
			if *a.Start < *a.End {
				start = *a.Start
			}
		} else if *a.Start < hi {
			start = *a.Start
		}
	}
	if a.End != nil {
		if a.Start != nil {
			if *a.Start < *a.End {
				end = *a.End
			}
		} else if *a.End > start {
			end = *a.End
		}
	}
	return start, end
}

// RecommendedTicks returns the tick count for an axis of the given pixel
// length. Vertical axes get more ticks for the same length.
func RecommendedTicks(length float64, vertical bool) int {
	small, medium := 300.0, 500.0
	if vertical {
		small, medium = 150, 300
	}
	switch {
	case length < small:
		return 3
	case length < medium:
		return 5
	}
	return 8
}

// =============================================================================
// Pass
// =============================================================================

// pass holds the state shared by one orientation pass.
type pass struct {
	c *model.Collection
	s settings.Settings
	m textmeasure.Measurer
	g *Geometry

	ma, ca settings.Axis
	keys   []string

	measureTitle  string
	categoryTitle string
	maxLabel      string
}

func newPass(c *model.Collection, s settings.Settings, m textmeasure.Measurer, g *Geometry) *pass {
	p := &pass{
		c:    c,
		s:    s,
		m:    m,
		g:    g,
		ma:   s.MeasureAxis(),
		ca:   s.CategoryAxis(),
		keys: c.CategoryKeys(),
	}

	p.measureTitle = p.ma.TitleText
	if p.measureTitle == "" {
		p.measureTitle = c.YTitle
	}
	p.categoryTitle = p.ca.TitleText
	if p.categoryTitle == "" {
		p.categoryTitle = c.XTitle
	}

	start, end := ResolveDomain(p.ma, c.MinValue, c.MaxValue)
	g.LogScale = p.ma.Scale == settings.ScaleLog
	if g.LogScale && start <= 0 {
		start = c.MinValue
	}
	g.MeasureDomain = [2]float64{start, end}

	precision := 0
	if p.ma.DecimalPlaces != nil {
		precision = *p.ma.DecimalPlaces
	}
	ref := math.Max(math.Abs(start), math.Abs(end))
	g.Formatter = format.New(format.Options{
		Format:    c.MeasureFormat,
		Precision: &precision,
		Units:     p.ma.DisplayUnits,
		Reference: ref,
	})
	p.maxLabel = g.Formatter.Format(ref)

	g.MinWidth = settings.CategoryMinWidth(p.ca, s.Jitter)
	lo, hi := settings.RadiusRange(s.Dots.Min, s.Dots.Max)
	g.Radius = scale.NewRadius(c.SizeValues(), lo, hi)
	if c.Flags.Gradient {
		gr := scale.NewGradient(c.ColorValues(), s.Gradient.MinColor, s.Gradient.MaxColor)
		g.Gradient = &gr
	}
	return p
}

func (p *pass) width(family string, size float64, text string) float64 {
	return p.m.Width(textmeasure.TextProperties{FontFamily: family, FontSize: size, Text: text})
}

func (p *pass) height(family string, size float64, text string) float64 {
	return p.m.Height(textmeasure.TextProperties{FontFamily: family, FontSize: size, Text: text})
}

func (p *pass) truncate(family string, size float64, text string, maxWidth float64) string {
	return textmeasure.Truncate(p.m, textmeasure.TextProperties{FontFamily: family, FontSize: size, Text: text}, maxWidth)
}

// measureScale builds the measure scale over the resolved domain.
func (p *pass) measureScale(r0, r1 float64) scale.Measure {
	d := p.g.MeasureDomain
	if p.g.LogScale {
		return scale.NewLog(d[0], d[1], r0, r1)
	}
	return scale.NewLinear(d[0], d[1], r0, r1)
}

// overflow grows the category extent to fit every category at its minimum
// width and returns the adjusted extents.
func (p *pass) overflow(category, other float64) (float64, float64) {
	need := p.g.MinWidth * float64(len(p.keys))
	if need > category {
		p.g.Scrolled = true
		return need, max(0, other-ScrollGutter)
	}
	return category, other
}

// =============================================================================
// Horizontal
// =============================================================================

// horizontal lays out a chart with the measure on the x axis and categories
// stacked bottom to top on the y axis.
func (p *pass) horizontal() {
	g, s, c := p.g, p.s, p.c
	ma, ca := p.ma, p.ca
	vw, vh := g.Chart.Width(), g.Chart.Height()

	mw := p.width(ma.LabelsFontFamily, ma.FontSize, p.maxLabel)
	mh := p.height(ma.LabelsFontFamily, ma.FontSize, p.maxLabel)

	var m Margins
	if ma.Show {
		if ma.ShowTitle {
			m.Bottom = p.height(ma.TitleFontFamily, ma.TitleSize, p.measureTitle) + labelGap
		}
		m.Bottom += mh + labelGap
	} else {
		m.Bottom = labelGap
	}

	var titleExtent, catExtent, parentExtent float64
	if ca.Show {
		if ca.ShowTitle {
			titleExtent = p.height(ca.TitleFontFamily, ca.TitleSize, p.categoryTitle) + labelGap
		}
		if s.Flip.FlipText {
			catExtent = p.width(ca.LabelsFontFamily, ca.FontSize, c.CatLongestText) + labelGap
		} else {
			catExtent = p.height(ca.LabelsFontFamily, ca.FontSize, c.CatLongestText) + labelGap
		}
		pa := s.ParentAxis
		switch {
		case c.Flags.Grouped() && s.Flip.FlipParentText:
			parentExtent = p.width(pa.FontFamily, pa.FontSize, c.ParentLongestText) + parentGap
		case c.Flags.Grouped():
			parentExtent = p.height(pa.FontFamily, pa.FontSize, c.ParentLongestText)
		default:
			parentExtent = mw / 2
		}
		m.Left = titleExtent + catExtent + parentExtent + labelGap
		m.Right = (mw + 2) / 2
	} else {
		m.Left = (mw + 2) / 2
		m.Right = m.Left
	}
	m.Left = max(0, m.Left-labelGap)

	width := max(0, vw-m.Left-m.Right)
	height := max(0, vh-m.Bottom)
	height, width = p.overflow(height, width)

	g.Margins, g.Width, g.Height = m, width, height
	g.Measure = p.measureScale(0, width)
	g.Band = scale.NewBand(p.keys, height, bandInset)
	g.Content = Viewport{Width: m.Left + width + m.Right, Height: m.Top + height + m.Bottom}
	if !g.Scrolled {
		g.Content.Width = vw
	}

	if ma.Show {
		for _, v := range scale.MeasureTicks(g.Measure, RecommendedTicks(width, false)) {
			pos := g.Measure.Map(v)
			text := g.Formatter.Format(v)
			g.MeasureTicks = append(g.MeasureTicks, Tick{
				Value: v,
				Pos:   pos,
				Label: Label{Text: text, Full: text, X: m.Left + pos, Y: m.Top + height + mh, Anchor: "middle"},
			})
		}
		if ma.ShowTitle {
			g.MeasureTitle = &Label{
				Text:   p.truncate(ma.TitleFontFamily, ma.TitleSize, p.measureTitle, width),
				Full:   p.measureTitle,
				X:      m.Left + width/2,
				Y:      m.Top + height + m.Bottom - labelGap,
				Anchor: "middle",
			}
		}
	}

	if !ca.Show {
		return
	}
	if ca.ShowTitle {
		g.CategoryTitle = &Label{
			Text:   p.truncate(ca.TitleFontFamily, ca.TitleSize, p.categoryTitle, height),
			Full:   p.categoryTitle,
			X:      labelGap,
			Y:      m.Top + height/2,
			Rotate: -90,
			Anchor: "middle",
		}
	}

	band := g.Band.Bandwidth()
	lh := p.height(ca.LabelsFontFamily, ca.FontSize, "X")
	for _, key := range p.keys {
		center, _ := g.Band.Center(key)
		full := tickText(key, c.Flags)
		l := Label{Full: full, Y: m.Top + center}
		if s.Flip.FlipText {
			l.Text = full
			l.X = m.Left - labelGap
			l.Anchor = "end"
		} else {
			l.Text = p.truncate(ca.LabelsFontFamily, ca.FontSize, full, band)
			l.X = m.Left - labelGap - lh/2
			l.Rotate = -90
			l.Anchor = "middle"
		}
		g.CategoryTicks = append(g.CategoryTicks, Tick{Key: key, Pos: center, Label: l})
	}

	if !c.Flags.Grouped() {
		return
	}
	pa := s.ParentAxis
	ph := p.height(pa.FontFamily, pa.FontSize, "X")
	g.ParentBands = MergeParentBands(p.keys, g.Band)
	for i := range g.ParentBands {
		b := &g.ParentBands[i]
		b.Rect = Rect{Left: m.Left, Right: m.Left + width, Top: m.Top + b.Start, Bottom: m.Top + b.End}
		b.TickFrom = titleExtent
		b.TickTo = m.Left
		l := Label{Full: b.Parent, Y: m.Top + (b.Start+b.End)/2}
		if s.Flip.FlipParentText {
			l.Text = b.Parent
			l.X = titleExtent
			l.Anchor = "start"
		} else {
			l.Text = p.truncate(pa.FontFamily, pa.FontSize, b.Parent, b.End-b.Start)
			l.X = titleExtent + ph/2
			l.Rotate = -90
			l.Anchor = "middle"
		}
		b.Label = l
	}
}

// =============================================================================
// Vertical
// =============================================================================

// vertical lays out a chart with categories left to right on the x axis and
// the measure on the y axis, on the left or right side.
func (p *pass) vertical() {
	g, s, c := p.g, p.s, p.c
	ma, ca := p.ma, p.ca
	vw, vh := g.Chart.Width(), g.Chart.Height()
	right := ma.Position == settings.PositionRight

	mh := p.height(ma.LabelsFontFamily, ma.FontSize, p.maxLabel)

	var m Margins
	var axisWidth float64
	if ma.Show {
		var side float64
		if ma.ShowTitle {
			side = p.height(ma.TitleFontFamily, ma.TitleSize, p.measureTitle) + titleGap
		}
		axisWidth = p.width(ma.LabelsFontFamily, ma.FontSize, p.maxLabel) + measurePadding
		if right {
			m.Right = side + axisWidth
		} else {
			m.Left = side + axisWidth
		}
	} else {
		m.Left = verticalInset
	}

	var labelHeight, parentHeight float64
	if ca.Show {
		if ca.ShowTitle {
			m.Bottom = p.height(ca.TitleFontFamily, ca.TitleSize, p.categoryTitle) + titleGap
		}
		labelHeight = p.height(ca.LabelsFontFamily, ca.FontSize, "X") + labelGap
		m.Bottom += labelHeight
		if c.Flags.Grouped() {
			parentHeight = p.height(s.ParentAxis.FontFamily, s.ParentAxis.FontSize, "X")
			m.Bottom += parentHeight + labelGap
		}
		m.Top = mh / 2
	} else {
		m.Top = mh / 2
		m.Bottom = mh / 2
	}

	width := max(0, vw-m.Left-m.Right)
	height := max(0, vh-m.Bottom-m.Top)
	width, height = p.overflow(width, height)

	g.Margins, g.Width, g.Height = m, width, height
	g.Measure = p.measureScale(height, 0)
	g.Band = scale.NewBand(p.keys, 0, max(0, width-verticalInset))
	g.Content = Viewport{Width: m.Left + width + m.Right, Height: m.Top + height + m.Bottom}
	if !g.Scrolled {
		g.Content.Width = vw
	}

	if ma.Show {
		for _, v := range scale.MeasureTicks(g.Measure, RecommendedTicks(height, true)) {
			pos := g.Measure.Map(v)
			text := g.Formatter.Format(v)
			l := Label{Text: text, Full: text, Y: m.Top + pos, X: m.Left - labelGap, Anchor: "end"}
			if right {
				l.X = m.Left + width + labelGap
				l.Anchor = "start"
			}
			g.MeasureTicks = append(g.MeasureTicks, Tick{Value: v, Pos: pos, Label: l})
		}
		if ma.ShowTitle {
			x := float64(titleGap)
			if right {
				x = m.Left + width + m.Right - titleGap
			}
			g.MeasureTitle = &Label{
				Text:   p.truncate(ma.TitleFontFamily, ma.TitleSize, p.measureTitle, height),
				Full:   p.measureTitle,
				X:      x,
				Y:      m.Top + height/2,
				Rotate: -90,
				Anchor: "middle",
			}
		}
	}

	if !ca.Show {
		return
	}
	if ca.ShowTitle {
		g.CategoryTitle = &Label{
			Text:   p.truncate(ca.TitleFontFamily, ca.TitleSize, p.categoryTitle, width),
			Full:   p.categoryTitle,
			X:      m.Left + width/2,
			Y:      m.Top + height + m.Bottom - labelGap,
			Anchor: "middle",
		}
	}

	band := g.Band.Bandwidth()
	base := m.Top + height
	for _, key := range p.keys {
		center, _ := g.Band.Center(key)
		full := tickText(key, c.Flags)
		g.CategoryTicks = append(g.CategoryTicks, Tick{
			Key: key,
			Pos: center,
			Label: Label{
				Text:   p.truncate(ca.LabelsFontFamily, ca.FontSize, full, band),
				Full:   full,
				X:      m.Left + center,
				Y:      base + labelHeight - labelGap,
				Anchor: "middle",
			},
		})
	}

	if !c.Flags.Grouped() {
		return
	}
	pa := s.ParentAxis
	g.ParentBands = MergeParentBands(p.keys, g.Band)
	for i := range g.ParentBands {
		b := &g.ParentBands[i]
		b.Rect = Rect{Left: m.Left + b.Start, Right: m.Left + b.End, Top: m.Top, Bottom: base}
		b.TickFrom = base
		b.TickTo = base + labelHeight + parentHeight + labelGap
		b.Label = Label{
			Text:   p.truncate(pa.FontFamily, pa.FontSize, b.Parent, b.End-b.Start),
			Full:   b.Parent,
			X:      m.Left + (b.Start+b.End)/2,
			Y:      base + labelHeight + parentHeight,
			Anchor: "middle",
		}
	}
}

// finish converts plot-local band boundaries to chart coordinates.
func (p *pass) finish() {
	g := p.g
	offset := g.Margins.Top
	if !g.Horizontal() {
		offset = g.Margins.Left
	}
	for i := range g.ParentBands {
		if g.ParentBands[i].HasBoundary {
			g.ParentBands[i].Boundary += offset
		}
	}
}

// tickText returns the display text of a category key: the category part,
// or the parent part when the view has no category group.
func tickText(key string, f model.Flags) string {
	parent, category := model.SplitComposite(key)
	if !f.CategoryGroup && f.Parent {
		return parent
	}
	return category
}
