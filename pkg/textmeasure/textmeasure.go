// Package textmeasure measures rendered label extents for layout.
//
// The layout engine sizes margins from the width and height of titles and
// tick labels. [Opentype] measures with real glyph advances of an OpenType
// font; [Heuristic] approximates from character counts and is used when no
// font is available. [Families] picks a measurer by the first entry of the
// CSS font-family list: monospace stacks use Go Mono, everything else Go
// Regular.
package textmeasure

import (
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Ellipsis is appended to truncated labels.
const Ellipsis = "…"

// TextProperties describes one string to measure.
type TextProperties struct {
	FontFamily string
	FontSize   float64
	Text       string
}

// Measurer measures text in pixels.
type Measurer interface {
	Width(p TextProperties) float64
	Height(p TextProperties) float64
}

// =============================================================================
// Opentype
// =============================================================================

// Opentype measures text with an OpenType font at 72 DPI, so font sizes are pixels.
type Opentype struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewOpentype parses the embedded Go Regular font.
func NewOpentype() (*Opentype, error) {
	return NewOpentypeFrom(goregular.TTF)
}

// NewOpentypeFrom parses an OpenType or TrueType font.
func NewOpentypeFrom(data []byte) (*Opentype, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Opentype{font: f, faces: make(map[float64]font.Face)}, nil
}

func (o *Opentype) face(size float64) (font.Face, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if f, ok := o.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(o.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	o.faces[size] = f
	return f, nil
}

// Width returns the advance width of the text.
func (o *Opentype) Width(p TextProperties) float64 {
	if p.Text == "" || p.FontSize <= 0 {
		return 0
	}
	f, err := o.face(p.FontSize)
	if err != nil {
		return Heuristic{}.Width(p)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return toFloat(font.MeasureString(f, p.Text))
}

// Height returns the line height (ascent plus descent) of the face.
func (o *Opentype) Height(p TextProperties) float64 {
	if p.FontSize <= 0 {
		return 0
	}
	f, err := o.face(p.FontSize)
	if err != nil {
		return Heuristic{}.Height(p)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	m := f.Metrics()
	return toFloat(m.Ascent + m.Descent)
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// =============================================================================
// Heuristic
// =============================================================================

const (
	charWidthRatio  = 0.55
	lineHeightRatio = 1.2
)

// Heuristic estimates extents from the rune count and font size.
type Heuristic struct{}

// Width implements [Measurer].
func (Heuristic) Width(p TextProperties) float64 {
	return float64(utf8.RuneCountInString(p.Text)) * p.FontSize * charWidthRatio
}

// Height implements [Measurer].
func (Heuristic) Height(p TextProperties) float64 {
	return p.FontSize * lineHeightRatio
}

// =============================================================================
// Families
// =============================================================================

// Families dispatches on the primary font family. Family names are matched
// case-insensitively; unknown families use Fallback.
type Families struct {
	Faces    map[string]Measurer
	Fallback Measurer
}

func (f Families) pick(family string) Measurer {
	if m, ok := f.Faces[strings.ToLower(PrimaryFamily(family))]; ok {
		return m
	}
	return f.Fallback
}

// Width implements [Measurer].
func (f Families) Width(p TextProperties) float64 { return f.pick(p.FontFamily).Width(p) }

// Height implements [Measurer].
func (f Families) Height(p TextProperties) float64 { return f.pick(p.FontFamily).Height(p) }

// PrimaryFamily returns the first family of a CSS font-family list, unquoted.
func PrimaryFamily(list string) string {
	first, _, _ := strings.Cut(list, ",")
	return strings.Trim(strings.TrimSpace(first), `'"`)
}

// monoFamilies are measured with Go Mono.
var monoFamilies = []string{"monospace", "go mono", "courier", "courier new", "consolas", "menlo"}

// Default returns a [Families] measurer over the Go fonts, or [Heuristic]
// if they fail to parse.
func Default() Measurer {
	regular, err := NewOpentype()
	if err != nil {
		return Heuristic{}
	}
	fam := Families{Faces: make(map[string]Measurer), Fallback: regular}
	if mono, err := NewOpentypeFrom(gomono.TTF); err == nil {
		for _, name := range monoFamilies {
			fam.Faces[name] = mono
		}
	}
	return fam
}

// =============================================================================
// Helpers
// =============================================================================

// Truncate shortens p.Text with a trailing ellipsis until it fits maxWidth.
// Text that already fits is returned unchanged.
func Truncate(m Measurer, p TextProperties, maxWidth float64) string {
	if m.Width(p) <= maxWidth {
		return p.Text
	}
	runes := []rune(p.Text)
	for n := len(runes) - 1; n > 0; n-- {
		p.Text = string(runes[:n]) + Ellipsis
		if m.Width(p) <= maxWidth {
			return p.Text
		}
	}
	return Ellipsis
}
