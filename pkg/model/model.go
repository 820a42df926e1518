// Package model defines the visual data model of a dot plot: the plotted
// points, their aggregate collection and the legend.
//
// A [Collection] is rebuilt in full on every update by the transform stage and
// is never mutated incrementally; later stages only reorder its points and
// fill in sort keys.
package model

import (
	"strconv"
	"strings"
)

// CompositeSeparator joins a parent label and a category label into the
// composite key used on the category axis.
const CompositeSeparator = "$$$"

// DefaultPointColor is the color key of points without a color role.
const DefaultPointColor = "red"

// SelectionID is the opaque identity used to correlate a point with the
// selection manager. It is derived from the row index and the series group.
type SelectionID string

// TooltipEntry is one name/value line of a point's tooltip.
type TooltipEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DataPoint is one plotted dot.
type DataPoint struct {
	Category        string         `json:"category,omitempty"`
	CategoryGroup   string         `json:"category_group,omitempty"`
	XCategoryParent string         `json:"x_category_parent,omitempty"`
	CategorySize    float64        `json:"category_size"`
	Value           float64        `json:"value"`
	CategoryColor   string         `json:"category_color,omitempty"`
	Highlight       bool           `json:"highlight,omitempty"`
	TooltipEntries  []TooltipEntry `json:"tooltip,omitempty"`
	SelectionID     SelectionID    `json:"selection_id"`
	SortKey         int            `json:"sort_key"`
	CompositeParent string         `json:"composite_parent"`
}

// Flags records which optional roles are present in the current view.
// They gate axis title defaults, parent band merging and the legend mode.
type Flags struct {
	Category      bool `json:"category"`
	CategoryGroup bool `json:"category_group"`
	Parent        bool `json:"parent"`
	Size          bool `json:"size"`
	ColorCategory bool `json:"color_category"`
	Gradient      bool `json:"gradient"`
	Highlights    bool `json:"highlights"`
}

// Grouped reports whether both an axis category and a parent are present,
// which enables parent band merging and composite sort keys.
func (f Flags) Grouped() bool {
	return f.CategoryGroup && f.Parent
}

// PresentRoles counts how many of category, category group and parent are set.
func (f Flags) PresentRoles() int {
	n := 0
	for _, b := range []bool{f.Category, f.CategoryGroup, f.Parent} {
		if b {
			n++
		}
	}
	return n
}

// LegendEntry is one item of the color legend.
type LegendEntry struct {
	Label       string      `json:"label"`
	Color       string      `json:"color"`
	SelectionID SelectionID `json:"selection_id"`
	Selected    bool        `json:"selected"`
	Value       int         `json:"value"`
}

// DummyLegendLabel is the label of the placeholder legend entry used when only
// size encoding is present.
const DummyLegendLabel = "Dummy data"

// Collection is the ordered set of points plus derived aggregates.
type Collection struct {
	Points []DataPoint `json:"points"`

	MinValue float64 `json:"min_value"`
	MaxValue float64 `json:"max_value"`
	XTitle   string  `json:"x_title"`
	YTitle   string  `json:"y_title"`

	Legend      []LegendEntry `json:"legend,omitempty"`
	LegendTitle string        `json:"legend_title,omitempty"`
	SizeTitle   string        `json:"size_title,omitempty"`

	Flags Flags `json:"flags"`

	CatLongestText    string `json:"cat_longest_text,omitempty"`
	ParentLongestText string `json:"parent_longest_text,omitempty"`

	MeasureFormat string `json:"measure_format,omitempty"`
	SizeFormat    string `json:"size_format,omitempty"`

	// Row-ordered labels of the category group and parent columns, one per
	// view row including dropped rows. Sort orders derive from these.
	GroupLabels  []string `json:"-"`
	ParentLabels []string `json:"-"`
}

// Len returns the number of points.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Points)
}

// SizeValues returns every point's size value in point order.
func (c *Collection) SizeValues() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.CategorySize
	}
	return out
}

// Values returns every point's measure value in point order.
func (c *Collection) Values() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Value
	}
	return out
}

// ColorValues returns the numeric color values of points whose color key
// parses as a number. They are the domain of the gradient scale.
func (c *Collection) ColorValues() []float64 {
	var out []float64
	for _, p := range c.Points {
		if v, err := strconv.ParseFloat(p.CategoryColor, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// CategoryKeys returns the distinct composite category keys in point order.
// This is the domain of the categorical axis.
func (c *Collection) CategoryKeys() []string {
	seen := make(map[string]bool, len(c.Points))
	var out []string
	for _, p := range c.Points {
		if !seen[p.CompositeParent] {
			seen[p.CompositeParent] = true
			out = append(out, p.CompositeParent)
		}
	}
	return out
}

// LegendColor returns the legend color for a category color key.
func (c *Collection) LegendColor(key string) (string, bool) {
	for _, e := range c.Legend {
		if e.Label == key {
			return e.Color, true
		}
	}
	return "", false
}

// Composite builds the composite key of a parent and a category label.
func Composite(parent, category string) string {
	return parent + CompositeSeparator + category
}

// SplitComposite splits a composite key into its parent and category parts.
// A key without separator is treated as a bare category.
func SplitComposite(key string) (parent, category string) {
	if i := strings.Index(key, CompositeSeparator); i >= 0 {
		return key[:i], key[i+len(CompositeSeparator):]
	}
	return "", key
}
