package io

import (
	"fmt"
	"strings"

	"github.com/matzehuels/dotplot/pkg/dataview"
	"github.com/matzehuels/dotplot/pkg/errors"
)

// roles lists the accepted role names.
var roles = map[string]bool{
	dataview.RoleCategory:      true,
	dataview.RoleCategoryGroup: true,
	dataview.RoleParent:        true,
	dataview.RoleMeasure:       true,
	dataview.RoleSize:          true,
	dataview.RoleColor:         true,
}

// Binding binds one header to a role.
type Binding struct {
	Column string
	Role   string
	Format string
}

// Mapping is an ordered list of bindings. Unbound columns are ignored.
type Mapping []Binding

// ParseBinding parses "Column=role[:format]".
func ParseBinding(s string) (Binding, error) {
	col, rest, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(col) == "" {
		return Binding{}, errors.New(errors.ErrCodeInvalidInput, "binding %q must look like Column=role", s)
	}
	role, format, _ := strings.Cut(rest, ":")
	role = strings.TrimSpace(role)
	if !roles[role] {
		return Binding{}, errors.New(errors.ErrCodeInvalidInput, "unknown role %q in binding %q", role, s)
	}
	return Binding{Column: strings.TrimSpace(col), Role: role, Format: format}, nil
}

// ParseMapping parses every binding.
func ParseMapping(specs []string) (Mapping, error) {
	m := make(Mapping, 0, len(specs))
	for _, s := range specs {
		b, err := ParseBinding(s)
		if err != nil {
			return nil, err
		}
		m = append(m, b)
	}
	return m, nil
}

// InferMapping binds the first text column as the category group and the
// first numeric column as the measure. A column is numeric when every
// non-empty cell parses as a number.
func InferMapping(header []string, rows [][]any) Mapping {
	var m Mapping
	var haveGroup, haveMeasure bool
	for i, h := range header {
		numeric, seen := true, false
		for _, r := range rows {
			if i >= len(r) || r[i] == nil {
				continue
			}
			seen = true
			if _, ok := r[i].(float64); !ok {
				numeric = false
				break
			}
		}
		switch {
		case seen && numeric && !haveMeasure:
			m = append(m, Binding{Column: h, Role: dataview.RoleMeasure})
			haveMeasure = true
		case seen && !numeric && !haveGroup:
			m = append(m, Binding{Column: h, Role: dataview.RoleCategoryGroup})
			haveGroup = true
		}
	}
	return m
}

// build projects header/rows through m into a data view.
func build(header []string, rows [][]any, m Mapping) (*dataview.DataView, error) {
	if len(m) == 0 {
		m = InferMapping(header, rows)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	fields := make([]dataview.Field, len(m))
	cols := make([]int, len(m))
	for i, b := range m {
		c, ok := index[b.Column]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "column %q not found (have %s)", b.Column, strings.Join(header, ", "))
		}
		cols[i] = c
		fields[i] = dataview.Field{Name: b.Column, Role: b.Role, Format: b.Format}
		if b.Role == dataview.RoleColor && numericColumn(rows, c) {
			fields[i].Type = dataview.TypeNumeric
		}
	}

	projected := make([][]any, len(rows))
	for r, row := range rows {
		out := make([]any, len(cols))
		for i, c := range cols {
			if c < len(row) {
				out[i] = row[c]
			}
		}
		projected[r] = out
	}

	dv, err := dataview.FromRows(fields, projected)
	if err != nil {
		return nil, fmt.Errorf("build data view: %w", err)
	}
	return dv, nil
}

func numericColumn(rows [][]any, c int) bool {
	seen := false
	for _, r := range rows {
		if c >= len(r) || r[c] == nil {
			continue
		}
		if _, ok := r[c].(float64); !ok {
			return false
		}
		seen = true
	}
	return seen
}
