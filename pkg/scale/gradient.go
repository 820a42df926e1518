package scale

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Gradient maps numeric color values to a color between two endpoints.
type Gradient struct {
	lin      Linear
	from, to colorful.Color
}

// NewGradient builds a gradient over the extent of values. Invalid colors
// fall back to black and white.
func NewGradient(values []float64, minColor, maxColor string) Gradient {
	lo, hi := Extent(values)
	if len(values) == 0 {
		lo, hi = 0, 0
	}
	from, err := colorful.Hex(minColor)
	if err != nil {
		from = colorful.Color{R: 1, G: 1, B: 1}
	}
	to, err := colorful.Hex(maxColor)
	if err != nil {
		to = colorful.Color{}
	}
	return Gradient{lin: NewLinear(lo, hi, 0, 1), from: from, to: to}
}

// Color returns the hex color for v. Values outside the observed extent are
// clamped to the endpoints.
func (g Gradient) Color(v float64) string {
	t := min(max(g.lin.Map(v), 0), 1)
	return g.from.BlendRgb(g.to, t).Clamped().Hex()
}
