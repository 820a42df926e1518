package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/dotplot/pkg/dataview"
	"github.com/matzehuels/dotplot/pkg/errors"
)

// Options configures [Import].
type Options struct {
	Mapping Mapping
	// Sheet selects an xlsx sheet. Empty uses the first sheet.
	Sheet string
}

// Import reads the data view stored at path.
func Import(path string, opts Options) (*dataview.DataView, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dv, err := dataview.Read(f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
		}
		return dv, nil
	case ".csv":
		return ReadCSV(f, ',', opts.Mapping)
	case ".tsv":
		return ReadCSV(f, '\t', opts.Mapping)
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, opts.Sheet, opts.Mapping)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported input %q (use .json, .csv, .tsv or .xlsx)", ext)
	}
}

// ReadCSV reads delimited records with a header row.
func ReadCSV(r io.Reader, comma rune, m Mapping) (*dataview.DataView, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read csv")
	}
	return fromRecords(records, m)
}

// ReadXLSX reads one sheet of a workbook with a header row.
func ReadXLSX(r io.Reader, sheet string, m Mapping) (*dataview.DataView, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read sheet %q", sheet)
	}
	return fromRecords(rows, m)
}

func fromRecords(records [][]string, m Mapping) (*dataview.DataView, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no header row")
	}
	header := records[0]
	rows := make([][]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := make([]any, len(header))
		for i := range header {
			if i < len(rec) {
				row[i] = ParseCell(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return build(header, rows, m)
}

// ParseCell converts one text cell: empty is null, numbers are float64.
func ParseCell(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func blank(rec []string) bool {
	for _, s := range rec {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}
