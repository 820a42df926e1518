package layout

// Rect is an axis-aligned rectangle in SVG user units (y grows downward).
type Rect struct {
	Left, Right float64
	Top, Bottom float64
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Margins are the distances between the chart edges and the plot area.
type Margins struct {
	Top, Bottom float64
	Left, Right float64
}

// Viewport is the pixel size available to a chart.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
