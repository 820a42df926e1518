// Package dataview defines the tabular data view a chart is rendered from.
//
// A data view mirrors what a reporting host hands to a visual: parallel
// category columns, grouped value series and per-column metadata. Every
// column carries one or more roles that tell the transform what the column
// means for the chart. Cell values are loosely typed (strings, numbers, dates
// or null) and are decoded from JSON as-is.
//
// # JSON shape
//
//	{
//	  "metadata": {"columns": [{"displayName": "Region", "roles": {"category": true}}]},
//	  "categorical": {
//	    "categories": [{"source": {...}, "values": ["East", "West"]}],
//	    "values": {"groups": [{"name": null, "values": [
//	      {"source": {"displayName": "Sales", "roles": {"measure": true}}, "values": [10, 20]}
//	    ]}]}
//	  }
//	}
package dataview

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Role names understood by the transform.
const (
	RoleCategory      = "category"
	RoleCategoryGroup = "categoryGroup"
	RoleParent        = "xCategoryParent"
	RoleMeasure       = "measure"
	RoleSize          = "categorySize"
	RoleColor         = "categoryColor"
)

// Column types.
const (
	TypeText    = "text"
	TypeNumeric = "numeric"
	TypeDate    = "date"
)

// DataView is the root of a host data view.
type DataView struct {
	Metadata    Metadata     `json:"metadata"`
	Categorical *Categorical `json:"categorical,omitempty"`
}

// Metadata lists every column of the query.
type Metadata struct {
	Columns []Column `json:"columns"`
}

// Column describes one query column.
type Column struct {
	DisplayName string          `json:"displayName"`
	QueryName   string          `json:"queryName,omitempty"`
	Format      string          `json:"format,omitempty"`
	Type        string          `json:"type,omitempty"`
	Roles       map[string]bool `json:"roles,omitempty"`
}

// HasRole reports whether the column is tagged with role.
func (c Column) HasRole(role string) bool {
	return c.Roles[role]
}

// IsDate reports whether the column holds date/time values.
func (c Column) IsDate() bool {
	return c.Type == TypeDate
}

// Categorical is the categorical section: category columns and value groups.
type Categorical struct {
	Categories []CategoryColumn `json:"categories,omitempty"`
	Values     *ValueColumns    `json:"values,omitempty"`
}

// CategoryColumn holds one category column, one value per row.
type CategoryColumn struct {
	Source Column `json:"source"`
	Values []any  `json:"values"`
}

// ValueColumns holds the value series grouped by the series grouping column.
type ValueColumns struct {
	Source *Column      `json:"source,omitempty"`
	Groups []ValueGroup `json:"groups"`
}

// ValueGroup is one series group (for example one color category).
// Name is nil when the view has no series grouping.
type ValueGroup struct {
	Name   any           `json:"name"`
	Values []ValueColumn `json:"values"`
}

// ValueColumn holds one value series within a group.
type ValueColumn struct {
	Source     Column `json:"source"`
	Values     []any  `json:"values"`
	Highlights []any  `json:"highlights,omitempty"`
}

// =============================================================================
// Decoding
// =============================================================================

// Read decodes a data view from JSON.
func Read(r io.Reader) (*DataView, error) {
	var dv DataView
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&dv); err != nil {
		return nil, fmt.Errorf("decode data view: %w", err)
	}
	return &dv, nil
}

// Write encodes a data view as indented JSON.
func Write(w io.Writer, dv *DataView) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dv)
}

// =============================================================================
// Accessors
// =============================================================================

// Valid reports whether the view has the sections required to build a model:
// a categorical section, a values section and a categories section.
func (dv *DataView) Valid() bool {
	return dv != nil && dv.Categorical != nil &&
		dv.Categorical.Values != nil && len(dv.Categorical.Values.Groups) > 0 &&
		dv.Categorical.Categories != nil
}

// Rows returns the number of rows in the view (the longest category column).
func (dv *DataView) Rows() int {
	if dv == nil || dv.Categorical == nil {
		return 0
	}
	n := 0
	for _, c := range dv.Categorical.Categories {
		if len(c.Values) > n {
			n = len(c.Values)
		}
	}
	return n
}

// ColumnWithRole returns the first metadata column tagged with role.
func (dv *DataView) ColumnWithRole(role string) (Column, bool) {
	for _, c := range dv.Metadata.Columns {
		if c.HasRole(role) {
			return c, true
		}
	}
	return Column{}, false
}

// At returns the value at index i, or nil when out of range.
func At(values []any, i int) any {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

// Number coerces a cell to float64. ok is false for null and non-numeric cells.
func Number(v any) (f float64, ok bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Time coerces a cell to a time. RFC 3339 strings, plain dates and
// millisecond epoch numbers are accepted.
func Time(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
	case json.Number, float64, int64, int:
		if ms, ok := Number(t); ok {
			return time.UnixMilli(int64(ms)).UTC(), true
		}
	}
	return time.Time{}, false
}

// String renders a cell as plain text. Nil becomes the empty string.
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return fmt.Sprintf("%g", s)
	case time.Time:
		return s.Format("2006-01-02")
	}
	return fmt.Sprint(v)
}
