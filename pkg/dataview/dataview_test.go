package dataview

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

const sampleJSON = `{
  "metadata": {"columns": [
    {"displayName": "Region", "type": "text", "roles": {"category": true}},
    {"displayName": "Sales", "type": "numeric", "roles": {"measure": true}}
  ]},
  "categorical": {
    "categories": [{"source": {"displayName": "Region", "roles": {"category": true}}, "values": ["East", "West", null]}],
    "values": {"groups": [{"name": null, "values": [
      {"source": {"displayName": "Sales", "roles": {"measure": true}}, "values": [10, 20.5, null]}
    ]}]}
  }
}`

func TestRead(t *testing.T) {
	dv, err := Read(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if !dv.Valid() {
		t.Fatal("Valid() = false, want true")
	}
	if got := dv.Rows(); got != 3 {
		t.Errorf("Rows() = %d, want 3", got)
	}
	col, ok := dv.ColumnWithRole(RoleMeasure)
	if !ok || col.DisplayName != "Sales" {
		t.Errorf("ColumnWithRole(measure) = %+v, %v", col, ok)
	}

	values := dv.Categorical.Values.Groups[0].Values[0].Values
	if v, ok := Number(values[1]); !ok || v != 20.5 {
		t.Errorf("Number(values[1]) = %v, %v, want 20.5, true", v, ok)
	}
	if _, ok := Number(values[2]); ok {
		t.Error("Number(null) ok = true, want false")
	}

	var buf bytes.Buffer
	if err := Write(&buf, dv); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Error("Write() produced invalid JSON")
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		dv   *DataView
		want bool
	}{
		{"nil", nil, false},
		{"no categorical", &DataView{}, false},
		{"no values", &DataView{Categorical: &Categorical{Categories: []CategoryColumn{}}}, false},
		{"no categories", &DataView{Categorical: &Categorical{Values: &ValueColumns{Groups: []ValueGroup{{}}}}}, false},
		{"complete", &DataView{Categorical: &Categorical{
			Categories: []CategoryColumn{},
			Values:     &ValueColumns{Groups: []ValueGroup{{}}},
		}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dv.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{nil, 0, false},
		{3.5, 3.5, true},
		{7, 7, true},
		{json.Number("12"), 12, true},
		{"4.25", 4.25, true},
		{"abc", 0, false},
		{" 8 ", 8, true},
		{"12abc", 0, false},
		{"1,234", 0, false},
		{"7 apples", 0, false},
		{"NaN", 0, false},
		{true, 1, true},
		{[]int{1}, 0, false},
	}

	for _, tt := range tests {
		got, ok := Number(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Number(%v) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTime(t *testing.T) {
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
	}{
		{"date", "2024-03-01"},
		{"rfc3339", "2024-03-01T00:00:00Z"},
		{"epoch ms", json.Number("1709251200000")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Time(tt.in)
			if !ok || !got.Equal(want) {
				t.Errorf("Time(%v) = %v, %v, want %v", tt.in, got, ok, want)
			}
		})
	}

	if _, ok := Time("yesterday"); ok {
		t.Error("Time(yesterday) ok = true, want false")
	}
}

func TestFromRows(t *testing.T) {
	fields := []Field{
		{Name: "Region", Role: RoleCategory},
		{Name: "Size", Role: RoleSize},
		{Name: "Sales", Role: RoleMeasure},
		{Name: "Segment", Role: RoleColor},
	}
	rows := [][]any{
		{"East", 1.0, 10.0, "Retail"},
		{"West", 2.0, 20.0, "Online"},
		{"North", 3.0, 30.0, "Retail"},
	}

	dv, err := FromRows(fields, rows)
	if err != nil {
		t.Fatalf("FromRows() error: %v", err)
	}
	if !dv.Valid() {
		t.Fatal("Valid() = false")
	}
	if len(dv.Categorical.Categories) != 1 {
		t.Fatalf("categories = %d, want 1", len(dv.Categorical.Categories))
	}

	groups := dv.Categorical.Values.Groups
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Name != "Retail" || groups[1].Name != "Online" {
		t.Errorf("group names = %v, %v", groups[0].Name, groups[1].Name)
	}
	if groups[0].Values[0].Source.DisplayName != "Sales" {
		t.Errorf("first value column = %q, want measure first", groups[0].Values[0].Source.DisplayName)
	}
	retail := groups[0].Values[0].Values
	if retail[0] != 10.0 || retail[1] != nil || retail[2] != 30.0 {
		t.Errorf("retail measures = %v, want [10 <nil> 30]", retail)
	}
	if _, ok := dv.ColumnWithRole(RoleColor); !ok {
		t.Error("series column missing from metadata")
	}
}

func TestFromRowsErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
	}{
		{"no fields", nil},
		{"missing role", []Field{{Name: "x"}}},
		{"two series", []Field{{Name: "a", Role: RoleColor}, {Name: "b", Role: RoleColor}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromRows(tt.fields, nil); err == nil {
				t.Error("FromRows() error = nil, want error")
			}
		})
	}
}
