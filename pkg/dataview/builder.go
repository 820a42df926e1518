package dataview

import (
	"fmt"
	"slices"
)

// Field describes one column of row-oriented input for [FromRows].
type Field struct {
	Name   string
	Role   string
	Type   string
	Format string
}

// isSeries reports whether the field groups value series. A color field
// holding text becomes the series grouping (color categories); a numeric
// color field stays a value column (gradient colors).
func (f Field) isSeries() bool {
	return f.Role == RoleColor && f.Type != TypeNumeric
}

func (f Field) isCategory() bool {
	switch f.Role {
	case RoleCategory, RoleCategoryGroup, RoleParent:
		return true
	}
	return false
}

func (f Field) column() Column {
	typ := f.Type
	if typ == "" {
		typ = TypeText
		if !f.isCategory() && !f.isSeries() {
			typ = TypeNumeric
		}
	}
	return Column{
		DisplayName: f.Name,
		QueryName:   f.Name,
		Format:      f.Format,
		Type:        typ,
		Roles:       map[string]bool{f.Role: true},
	}
}

// FromRows builds a data view from row-oriented records, the shape produced
// by spreadsheet and CSV readers. Category fields become category columns,
// value fields become value columns, and a text color field splits the value
// columns into one group per distinct value (in first-seen order), with null
// cells in rows that belong to other groups.
func FromRows(fields []Field, rows [][]any) (*DataView, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields")
	}

	dv := &DataView{Categorical: &Categorical{Categories: []CategoryColumn{}}}
	series := -1
	var valueFields []int
	for i, f := range fields {
		if f.Role == "" {
			return nil, fmt.Errorf("field %q has no role", f.Name)
		}
		col := f.column()
		dv.Metadata.Columns = append(dv.Metadata.Columns, col)
		switch {
		case f.isCategory():
			values := make([]any, len(rows))
			for r, row := range rows {
				values[r] = At(row, i)
			}
			dv.Categorical.Categories = append(dv.Categorical.Categories, CategoryColumn{Source: col, Values: values})
		case f.isSeries():
			if series >= 0 {
				return nil, fmt.Errorf("more than one series field (%q and %q)", fields[series].Name, f.Name)
			}
			series = i
		default:
			valueFields = append(valueFields, i)
		}
	}

	// The transform treats the first value column as the primary measure.
	slices.SortStableFunc(valueFields, func(a, b int) int {
		am, bm := fields[a].Role == RoleMeasure, fields[b].Role == RoleMeasure
		switch {
		case am && !bm:
			return -1
		case bm && !am:
			return 1
		}
		return 0
	})

	groupOf := make([]int, len(rows))
	var names []any
	if series >= 0 {
		seen := map[string]int{}
		for r, row := range rows {
			name := At(row, series)
			key := String(name)
			idx, ok := seen[key]
			if !ok {
				idx = len(names)
				seen[key] = idx
				names = append(names, name)
			}
			groupOf[r] = idx
		}
		src := fields[series].column()
		dv.Categorical.Values = &ValueColumns{Source: &src}
	} else {
		names = []any{nil}
		dv.Categorical.Values = &ValueColumns{}
	}

	for g, name := range names {
		group := ValueGroup{Name: name}
		for _, i := range valueFields {
			values := make([]any, len(rows))
			for r, row := range rows {
				if groupOf[r] == g {
					values[r] = At(row, i)
				}
			}
			group.Values = append(group.Values, ValueColumn{Source: fields[i].column(), Values: values})
		}
		dv.Categorical.Values.Groups = append(dv.Categorical.Values.Groups, group)
	}

	return dv, nil
}
