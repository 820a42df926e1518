package settings

import (
	"math"

	"github.com/matzehuels/dotplot/pkg/errors"
)

// =============================================================================
// Validation
// =============================================================================

// Validate checks enumerated settings and colors.
func (s *Settings) Validate() error {
	if !ValidOrientations[s.Orientation] {
		return errors.New(errors.ErrCodeInvalidSettings, "invalid orientation: %q (must be horizontal or vertical)", s.Orientation)
	}
	for name, a := range map[string]Axis{"x_axis": s.XAxis, "y_axis": s.YAxis} {
		if !ValidScales[a.Scale] {
			return errors.New(errors.ErrCodeInvalidSettings, "invalid %s.scale: %q (must be linear or log)", name, a.Scale)
		}
		if a.Position != PositionLeft && a.Position != PositionRight {
			return errors.New(errors.ErrCodeInvalidSettings, "invalid %s.position: %q", name, a.Position)
		}
	}
	if !ValidShapes[s.Dots.Shape] {
		return errors.New(errors.ErrCodeInvalidSettings, "invalid dots.shape: %q (must be circle, square, triangle or diamond)", s.Dots.Shape)
	}
	if s.Dots.Style != StyleSolid && s.Dots.Style != StyleOutline {
		return errors.New(errors.ErrCodeInvalidSettings, "invalid dots.style: %q (must be solid or outline)", s.Dots.Style)
	}
	if !ValidLineStyles[s.GridLines.Style] || !ValidLineStyles[s.GridLines.CategoryStyle] {
		return errors.New(errors.ErrCodeInvalidSettings, "invalid grid line style (must be solid, dashed or dotted)")
	}
	for _, dir := range []string{s.Sort.Axis, s.Sort.Parent} {
		if dir != SortAscending && dir != SortDescending {
			return errors.New(errors.ErrCodeInvalidSettings, "invalid sort direction: %q (must be asc or desc)", dir)
		}
	}
	for _, c := range []string{
		s.Dots.Color, s.Dots.BorderColor, s.Dots.HoverColor,
		s.Gradient.MinColor, s.Gradient.MaxColor,
		s.Background.PrimaryColor, s.Background.SecondaryColor,
	} {
		if err := errors.ValidateColor(c); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Normalization
// =============================================================================

// Normalize applies the clamp policy in place:
//   - dot radius min defaults to 2 and is clamped to [1,10]
//   - dot radius max defaults to 6 and is clamped to [1,80], never below min
//   - decimal places above 4 become 4, negative values are cleared
//   - percentages (transparency, thickness) are clamped to [0,100]
//   - NaN and infinite numbers are treated as unset
func (s *Settings) Normalize() {
	d := Default()

	lo, hi := RadiusRange(s.Dots.Min, s.Dots.Max)
	s.Dots.Min, s.Dots.Max = &lo, &hi

	s.XAxis.normalize(d.XAxis)
	s.YAxis.normalize(d.YAxis)
	s.ParentAxis.FontSize = finiteOr(s.ParentAxis.FontSize, d.ParentAxis.FontSize)
	s.Legend.FontSize = finiteOr(s.Legend.FontSize, d.Legend.FontSize)
	s.Legend.DisplayUnits = finiteOr(s.Legend.DisplayUnits, d.Legend.DisplayUnits)
	s.Legend.DecimalPlaces = ClampDecimalPlaces(s.Legend.DecimalPlaces)

	s.Dots.Transparency = clampPercent(s.Dots.Transparency, d.Dots.Transparency)
	s.Background.Transparency = clampPercent(s.Background.Transparency, d.Background.Transparency)
	s.Ticks.Thickness = clampPercent(s.Ticks.Thickness, d.Ticks.Thickness)
	s.Ticks.CategoryTickThickness = clampPercent(s.Ticks.CategoryTickThickness, d.Ticks.CategoryTickThickness)
	s.GridLines.Thickness = clampPercent(s.GridLines.Thickness, d.GridLines.Thickness)
	s.GridLines.CategoryThickness = clampPercent(s.GridLines.CategoryThickness, d.GridLines.CategoryThickness)
}

func (a *Axis) normalize(d Axis) {
	a.TitleSize = finiteOr(a.TitleSize, d.TitleSize)
	a.FontSize = finiteOr(a.FontSize, d.FontSize)
	a.DisplayUnits = finiteOr(a.DisplayUnits, d.DisplayUnits)
	a.Start = finite(a.Start)
	a.End = finite(a.End)
	a.MinWidth = finite(a.MinWidth)
	a.DecimalPlaces = ClampDecimalPlaces(a.DecimalPlaces)
}

// RadiusRange resolves the configured dot radius range. The result always
// satisfies min in [1,10], max in [1,80] and max >= min. NaN or infinite
// values fall back to the defaults.
func RadiusRange(cfgMin, cfgMax *float64) (lo, hi float64) {
	cfgMin, cfgMax = finite(cfgMin), finite(cfgMax)
	lo = DefaultRadiusMin
	if cfgMin != nil {
		lo = clamp(*cfgMin, RadiusMinLower, RadiusMinUpper)
	}
	hi = DefaultRadiusMax
	if cfgMax != nil {
		hi = clamp(*cfgMax, RadiusMaxLower, RadiusMaxUpper)
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// ClampDecimalPlaces clamps a decimal place override to [0,4].
// Negative overrides mean "use the default" and are cleared.
func ClampDecimalPlaces(d *int) *int {
	if d == nil || *d < 0 {
		return nil
	}
	v := *d
	if v > MaxDecimalPlaces {
		v = MaxDecimalPlaces
	}
	return &v
}

// CategoryMinWidth returns the minimum pixel extent reserved per category on
// the categorical axis. A configured value is clamped to [5,300] and raised
// to the label font size; jitter raises it to at least 50.
func CategoryMinWidth(a Axis, jitter bool) float64 {
	w := DefaultMinWidth
	if jitter {
		w = DefaultJitterMinWidth
	}
	mw := finite(a.MinWidth)
	if mw == nil {
		return w
	}
	w = clamp(*mw, MinWidthLower, MinWidthUpper)
	if w < a.FontSize {
		w = a.FontSize
	}
	if jitter && w < DefaultJitterMinWidth {
		w = DefaultJitterMinWidth
	}
	return w
}

// =============================================================================
// Accessors
// =============================================================================

// IsHorizontal reports whether dots are laid out along a horizontal measure axis.
func (s *Settings) IsHorizontal() bool {
	return s.Orientation != OrientationVertical
}

// MeasureAxis returns the axis that carries measure values.
func (s *Settings) MeasureAxis() Axis {
	if s.IsHorizontal() {
		return s.XAxis
	}
	return s.YAxis
}

// CategoryAxis returns the axis that carries categories.
func (s *Settings) CategoryAxis() Axis {
	if s.IsHorizontal() {
		return s.YAxis
	}
	return s.XAxis
}

// DotOpacity is the resting opacity derived from the dot transparency.
func (s *Settings) DotOpacity() float64 {
	return (100 - s.Dots.Transparency) / 100
}

// BandOpacity is the fill opacity of background bands.
func (s *Settings) BandOpacity() float64 {
	return (100 - s.Background.Transparency) / 100
}

// AxisTickWidth maps the tick thickness percentage to a stroke width.
func (s *Settings) AxisTickWidth() float64 {
	return 0.25 + s.Ticks.Thickness/133.33
}

// CategoryTickWidth maps the category tick thickness percentage to a stroke width.
func (s *Settings) CategoryTickWidth() float64 {
	return 0.5 + s.Ticks.CategoryTickThickness/100
}

// AxisGridWidth maps the grid line thickness percentage to a stroke width.
func (s *Settings) AxisGridWidth() float64 {
	return 0.25 + s.GridLines.Thickness/133.33
}

// CategoryGridWidth maps the category grid line thickness to a stroke width.
func (s *Settings) CategoryGridWidth() float64 {
	return 0.5 + s.GridLines.CategoryThickness/100
}

// DashArray returns the SVG stroke-dasharray for a line style.
func DashArray(style string) string {
	switch style {
	case LineDashed:
		return "5, 5"
	case LineDotted:
		return "1, 5"
	}
	return ""
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampPercent(v, def float64) float64 {
	return clamp(finiteOr(v, def), 0, 100)
}

// finite returns nil for a nil, NaN or infinite value.
func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
