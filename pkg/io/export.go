package io

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/dotplot/pkg/model"
)

// pointHeader is the column order of exported points.
var pointHeader = []string{
	"sort_key", "parent", "group", "category", "value", "size", "color", "selection_id",
}

func pointRow(p model.DataPoint) []any {
	return []any{
		p.SortKey, p.XCategoryParent, p.CategoryGroup, p.Category,
		p.Value, p.CategorySize, p.CategoryColor, string(p.SelectionID),
	}
}

// WritePointsCSV writes one CSV row per point.
func WritePointsCSV(w io.Writer, c *model.Collection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(pointHeader); err != nil {
		return err
	}
	for _, p := range c.Points {
		row := pointRow(p)
		rec := make([]string, len(row))
		for i, v := range row {
			switch v := v.(type) {
			case string:
				rec[i] = v
			case int:
				rec[i] = strconv.Itoa(v)
			case float64:
				rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PointsSheet is the sheet name used by [WritePointsXLSX].
const PointsSheet = "Points"

// WritePointsXLSX writes the points to a single-sheet workbook.
func WritePointsXLSX(w io.Writer, c *model.Collection) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PointsSheet); err != nil {
		return err
	}
	header := make([]any, len(pointHeader))
	for i, h := range pointHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(PointsSheet, "A1", &header); err != nil {
		return err
	}
	for i, p := range c.Points {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := pointRow(p)
		if err := f.SetSheetRow(PointsSheet, cell, &row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}
