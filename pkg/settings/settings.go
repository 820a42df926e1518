// Package settings holds the user-configurable chart settings.
//
// Settings are read from TOML (the same format the CLI uses for every other
// config file) and are read-only to the rendering core. [Default] returns a
// fully populated value; [Settings.Normalize] applies the clamp rules that the
// layout engine relies on, so every consumer sees consistent values.
//
// # Usage
//
//	s, warnings, err := settings.LoadFile("chart.toml")
//	if err != nil {
//	    return err
//	}
//	for _, w := range warnings {
//	    logger.Warn(w)
//	}
package settings

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dotplot/pkg/errors"
)

// =============================================================================
// Enumerations
// =============================================================================

// Orientation values.
const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
)

// Axis scale values.
const (
	ScaleLinear = "linear"
	ScaleLog    = "log"
)

// Sort directions.
const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

// Dot shapes.
const (
	ShapeCircle   = "circle"
	ShapeSquare   = "square"
	ShapeTriangle = "triangle"
	ShapeDiamond  = "diamond"
)

// Dot styles.
const (
	StyleSolid   = "solid"
	StyleOutline = "outline"
)

// Line styles for grid lines.
const (
	LineSolid  = "solid"
	LineDashed = "dashed"
	LineDotted = "dotted"
)

// Axis positions (vertical orientation only).
const (
	PositionLeft  = "left"
	PositionRight = "right"
)

// Legend positions.
const (
	LegendTop    = "top"
	LegendBottom = "bottom"
)

// ValidOrientations is the set of supported orientations.
var ValidOrientations = map[string]bool{OrientationHorizontal: true, OrientationVertical: true}

// ValidScales is the set of supported measure scales.
var ValidScales = map[string]bool{ScaleLinear: true, ScaleLog: true}

// ValidShapes is the set of supported dot shapes.
var ValidShapes = map[string]bool{ShapeCircle: true, ShapeSquare: true, ShapeTriangle: true, ShapeDiamond: true}

// ValidLineStyles is the set of supported grid line styles.
var ValidLineStyles = map[string]bool{LineSolid: true, LineDashed: true, LineDotted: true}

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultFontFamily = "'Segoe UI', wf_segoe-ui_normal, helvetica, arial, sans-serif"
	DefaultTextColor  = "#333333"
	DefaultFontSize   = 12.0

	DefaultRadiusMin = 2.0
	DefaultRadiusMax = 6.0

	// Radius bounds.
	RadiusMinLower = 1.0
	RadiusMinUpper = 10.0
	RadiusMaxLower = 1.0
	RadiusMaxUpper = 80.0

	// MaxDecimalPlaces is the largest accepted decimal place override.
	MaxDecimalPlaces = 4

	// Category label minimum width bounds and defaults (pixels per category).
	MinWidthLower         = 5.0
	MinWidthUpper         = 300.0
	DefaultMinWidth       = 30.0
	DefaultJitterMinWidth = 50.0
)

// =============================================================================
// Settings Groups
// =============================================================================

// Settings is the complete chart configuration.
type Settings struct {
	Orientation string     `toml:"orientation" json:"orientation"`
	XAxis       Axis       `toml:"x_axis" json:"x_axis"`
	YAxis       Axis       `toml:"y_axis" json:"y_axis"`
	ParentAxis  ParentAxis `toml:"parent_axis" json:"parent_axis"`
	Ticks       Ticks      `toml:"ticks" json:"ticks"`
	GridLines   GridLines  `toml:"grid_lines" json:"grid_lines"`
	Background  Background `toml:"background" json:"background"`
	Legend      Legend     `toml:"legend" json:"legend"`
	Dots        Dots       `toml:"dots" json:"dots"`
	Sort        Sort       `toml:"sort" json:"sort"`
	Gradient    Gradient   `toml:"gradient" json:"gradient"`
	Flip        Flip       `toml:"flip" json:"flip"`
	Jitter      bool       `toml:"jitter" json:"jitter"`
	Highlight   bool       `toml:"highlight" json:"highlight"`
}

// Axis configures one chart axis. Which axis carries measures depends on the
// orientation: the x axis in horizontal charts, the y axis in vertical ones.
type Axis struct {
	Show             bool     `toml:"show" json:"show"`
	ShowTitle        bool     `toml:"show_title" json:"show_title"`
	TitleText        string   `toml:"title_text" json:"title_text,omitempty"`
	TitleFontFamily  string   `toml:"title_font_family" json:"title_font_family"`
	TitleSize        float64  `toml:"title_size" json:"title_size"`
	TitleColor       string   `toml:"title_color" json:"title_color"`
	LabelsFontFamily string   `toml:"labels_font_family" json:"labels_font_family"`
	FontSize         float64  `toml:"font_size" json:"font_size"`
	LabelsColor      string   `toml:"labels_color" json:"labels_color"`
	Scale            string   `toml:"scale" json:"scale"`
	Start            *float64 `toml:"start" json:"start,omitempty"`
	End              *float64 `toml:"end" json:"end,omitempty"`
	DecimalPlaces    *int     `toml:"decimal_places" json:"decimal_places,omitempty"`
	MinWidth         *float64 `toml:"min_width" json:"min_width,omitempty"`
	DisplayUnits     float64  `toml:"display_units" json:"display_units"`
	Position         string   `toml:"position" json:"position"`
}

// ParentAxis configures parent category labels.
type ParentAxis struct {
	FontFamily string  `toml:"font_family" json:"font_family"`
	FontSize   float64 `toml:"font_size" json:"font_size"`
	FontColor  string  `toml:"font_color" json:"font_color"`
}

// Ticks configures axis and category tick marks. Thickness values are
// percentages (0-100) mapped to stroke widths by the renderer.
type Ticks struct {
	ShowAxisTicks         bool    `toml:"show_axis_ticks" json:"show_axis_ticks"`
	Color                 string  `toml:"color" json:"color"`
	Thickness             float64 `toml:"thickness" json:"thickness"`
	ShowCategoryTicks     bool    `toml:"show_category_ticks" json:"show_category_ticks"`
	CategoryTickColor     string  `toml:"category_tick_color" json:"category_tick_color"`
	CategoryTickThickness float64 `toml:"category_tick_thickness" json:"category_tick_thickness"`
}

// GridLines configures measure and category grid lines.
type GridLines struct {
	ShowAxisGridLines     bool    `toml:"show_axis_grid_lines" json:"show_axis_grid_lines"`
	Color                 string  `toml:"color" json:"color"`
	Thickness             float64 `toml:"thickness" json:"thickness"`
	Style                 string  `toml:"style" json:"style"`
	ShowCategoryGridLines bool    `toml:"show_category_grid_lines" json:"show_category_grid_lines"`
	CategoryColor         string  `toml:"category_color" json:"category_color"`
	CategoryThickness     float64 `toml:"category_thickness" json:"category_thickness"`
	CategoryStyle         string  `toml:"category_style" json:"category_style"`
}

// Background configures alternating parent bands.
type Background struct {
	Show           bool    `toml:"show" json:"show"`
	PrimaryColor   string  `toml:"primary_color" json:"primary_color"`
	SecondaryColor string  `toml:"secondary_color" json:"secondary_color"`
	Transparency   float64 `toml:"transparency" json:"transparency"`
}

// Legend configures the color and size legends.
type Legend struct {
	Show          bool    `toml:"show" json:"show"`
	Position      string  `toml:"position" json:"position"`
	ShowTitle     bool    `toml:"show_title" json:"show_title"`
	TitleText     string  `toml:"title_text" json:"title_text,omitempty"`
	FontFamily    string  `toml:"font_family" json:"font_family"`
	FontSize      float64 `toml:"font_size" json:"font_size"`
	LabelColor    string  `toml:"label_color" json:"label_color"`
	DisplayUnits  float64 `toml:"display_units" json:"display_units"`
	DecimalPlaces *int    `toml:"decimal_places" json:"decimal_places,omitempty"`
}

// Dots configures dot size range and appearance.
type Dots struct {
	Min          *float64 `toml:"min" json:"min,omitempty"`
	Max          *float64 `toml:"max" json:"max,omitempty"`
	Shape        string   `toml:"shape" json:"shape"`
	Style        string   `toml:"style" json:"style"`
	Color        string   `toml:"color" json:"color"`
	BorderColor  string   `toml:"border_color" json:"border_color"`
	Transparency float64  `toml:"transparency" json:"transparency"`
	HoverColor   string   `toml:"hover_color" json:"hover_color"`
}

// Sort configures sort direction for the category and parent axes.
type Sort struct {
	Axis   string `toml:"axis" json:"axis"`
	Parent string `toml:"parent" json:"parent"`
}

// Gradient configures continuous color mapping.
type Gradient struct {
	MinColor string `toml:"min_color" json:"min_color"`
	MaxColor string `toml:"max_color" json:"max_color"`
}

// Flip configures label rotation. FlipText lays category labels horizontally
// in horizontal charts; FlipParentText does the same for parent labels.
type Flip struct {
	FlipText       bool `toml:"flip_text" json:"flip_text"`
	FlipParentText bool `toml:"flip_parent_text" json:"flip_parent_text"`
}

// =============================================================================
// Constructors
// =============================================================================

func defaultAxis() Axis {
	return Axis{
		Show:             true,
		ShowTitle:        true,
		TitleFontFamily:  DefaultFontFamily,
		TitleSize:        DefaultFontSize,
		TitleColor:       DefaultTextColor,
		LabelsFontFamily: DefaultFontFamily,
		FontSize:         DefaultFontSize,
		LabelsColor:      DefaultTextColor,
		Scale:            ScaleLinear,
		Position:         PositionLeft,
	}
}

// Default returns settings with every field populated.
func Default() Settings {
	return Settings{
		Orientation: OrientationHorizontal,
		XAxis:       defaultAxis(),
		YAxis:       defaultAxis(),
		ParentAxis: ParentAxis{
			FontFamily: DefaultFontFamily,
			FontSize:   DefaultFontSize,
			FontColor:  DefaultTextColor,
		},
		Ticks: Ticks{
			ShowAxisTicks:         true,
			Color:                 DefaultTextColor,
			Thickness:             25,
			ShowCategoryTicks:     true,
			CategoryTickColor:     DefaultTextColor,
			CategoryTickThickness: 25,
		},
		GridLines: GridLines{
			ShowAxisGridLines:     true,
			Color:                 "#dddddd",
			Thickness:             25,
			Style:                 LineSolid,
			ShowCategoryGridLines: true,
			CategoryColor:         "#dddddd",
			CategoryThickness:     25,
			CategoryStyle:         LineDashed,
		},
		Background: Background{
			Show:           true,
			PrimaryColor:   "#bfbfbf",
			SecondaryColor: "#e5e5e5",
			Transparency:   50,
		},
		Legend: Legend{
			Show:       true,
			Position:   LegendTop,
			ShowTitle:  true,
			FontFamily: DefaultFontFamily,
			FontSize:   10,
			LabelColor: "#000000",
		},
		Dots: Dots{
			Shape:       ShapeCircle,
			Style:       StyleSolid,
			Color:       "#01b8aa",
			BorderColor: "#000000",
			HoverColor:  "#000000",
		},
		Sort: Sort{
			Axis:   SortAscending,
			Parent: SortAscending,
		},
		Gradient: Gradient{
			MinColor: "#e0f3ff",
			MaxColor: "#01589c",
		},
		Flip: Flip{
			FlipText:       true,
			FlipParentText: true,
		},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Decode reads TOML settings on top of [Default] and normalizes them.
// Keys that do not map to a setting are returned as warnings.
func Decode(r io.Reader) (Settings, []string, error) {
	s := Default()
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return Settings{}, nil, errors.Wrap(errors.ErrCodeInvalidSettings, err, "decode settings")
	}

	var warnings []string
	for _, key := range md.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unknown setting %q", key.String()))
	}

	if err := s.Validate(); err != nil {
		return Settings{}, warnings, err
	}
	s.Normalize()
	return s, warnings, nil
}

// LoadFile reads settings from a TOML file.
func LoadFile(path string) (Settings, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "settings file %s", path)
		}
		return Settings{}, nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes settings as TOML.
func (s Settings) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(s)
}
