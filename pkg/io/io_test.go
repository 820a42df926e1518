package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/dotplot/pkg/dataview"
	"github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/model"
)

const salesCSV = `Region,Store,Sales
North,A,10
North,B,
South,C,7.5

`

func TestParseBinding(t *testing.T) {
	tests := []struct {
		in      string
		want    Binding
		wantErr bool
	}{
		{in: "Region=categoryGroup", want: Binding{Column: "Region", Role: dataview.RoleCategoryGroup}},
		{in: "Sales=measure:$#,0.00", want: Binding{Column: "Sales", Role: dataview.RoleMeasure, Format: "$#,0.00"}},
		{in: " Size = categorySize", want: Binding{Column: "Size", Role: dataview.RoleSize}},
		{in: "Region", wantErr: true},
		{in: "=measure", wantErr: true},
		{in: "Region=bogus", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBinding(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("ParseBinding(%q) error = %v, want %s", tt.in, err, errors.ErrCodeInvalidInput)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBinding(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseBinding(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", nil},
		{"  ", nil},
		{"12", 12.0},
		{"-0.5", -0.5},
		{"North", "North"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseCell(tt.in); got != tt.want {
				t.Errorf("ParseCell(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInferMapping(t *testing.T) {
	header := []string{"Region", "Store", "Sales", "Units"}
	rows := [][]any{
		{"North", "A", 10.0, 1.0},
		{"South", nil, nil, 2.0},
	}
	got := InferMapping(header, rows)
	want := Mapping{
		{Column: "Region", Role: dataview.RoleCategoryGroup},
		{Column: "Sales", Role: dataview.RoleMeasure},
	}
	if len(got) != len(want) {
		t.Fatalf("InferMapping() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("InferMapping()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadCSV(t *testing.T) {
	m := Mapping{
		{Column: "Region", Role: dataview.RoleParent},
		{Column: "Store", Role: dataview.RoleCategoryGroup},
		{Column: "Sales", Role: dataview.RoleMeasure},
	}
	dv, err := ReadCSV(strings.NewReader(salesCSV), ',', m)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if !dv.Valid() {
		t.Fatal("ReadCSV() returned an invalid view")
	}
	if got := dv.Rows(); got != 3 {
		t.Errorf("Rows() = %d, want 3", got)
	}
	if _, ok := dv.ColumnWithRole(dataview.RoleParent); !ok {
		t.Error("parent column missing")
	}
	values := dv.Categorical.Values.Groups[0].Values[0].Values
	if values[1] != nil {
		t.Errorf("empty cell = %v, want nil", values[1])
	}
}

func TestReadCSVTabs(t *testing.T) {
	dv, err := ReadCSV(strings.NewReader("Region\tSales\nNorth\t1\nSouth\t2\n"), '\t', nil)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := dv.Rows(); got != 2 {
		t.Errorf("Rows() = %d, want 2", got)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		m    Mapping
	}{
		{"empty", "", nil},
		{"unknown column", "Region,Sales\nNorth,1\n", Mapping{{Column: "Profit", Role: dataview.RoleMeasure}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), ',', tt.m)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ReadCSV() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()

	xlsx := filepath.Join(dir, "sales.xlsx")
	writeWorkbook(t, xlsx, [][]any{
		{"Region", "Sales"},
		{"North", 10},
		{"South", 7.5},
	})
	csvPath := filepath.Join(dir, "sales.csv")
	if err := os.WriteFile(csvPath, []byte(salesCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(dir, "sales.json")
	dv, err := ReadCSV(strings.NewReader(salesCSV), ',', nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := dataview.Write(&buf, dv); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jsonPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		rows int
	}{
		{"xlsx", xlsx, 2},
		{"csv", csvPath, 3},
		{"json", jsonPath, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dv, err := Import(tt.path, Options{})
			if err != nil {
				t.Fatalf("Import() error = %v", err)
			}
			if got := dv.Rows(); got != tt.rows {
				t.Errorf("Rows() = %d, want %d", got, tt.rows)
			}
		})
	}
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "nope.csv"), errors.ErrCodeFileNotFound},
		{"extension", txt, errors.ErrCodeUnsupported},
		{"empty path", "", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(tt.path, Options{})
			if !errors.Is(err, tt.code) {
				t.Errorf("Import() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func points() *model.Collection {
	return &model.Collection{Points: []model.DataPoint{
		{SortKey: 1, CategoryGroup: "A", Value: 10, SelectionID: "0"},
		{SortKey: 2, XCategoryParent: "South", CategoryGroup: "C", Value: 7.5, SelectionID: "1"},
	}}
}

func TestWritePointsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePointsCSV(&buf, points()); err != nil {
		t.Fatalf("WritePointsCSV() error = %v", err)
	}
	want := "sort_key,parent,group,category,value,size,color,selection_id\n" +
		"1,,A,,10,0,,0\n" +
		"2,South,C,,7.5,0,,1\n"
	if got := buf.String(); got != want {
		t.Errorf("WritePointsCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestWritePointsXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePointsXLSX(&buf, points()); err != nil {
		t.Fatalf("WritePointsXLSX() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(PointsSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if got := rows[2][1]; got != "South" {
		t.Errorf("parent cell = %q, want South", got)
	}
}
