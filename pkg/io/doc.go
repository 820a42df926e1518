// Package io converts tabular files into data views and exports plotted points.
//
// # Import
//
// [Import] reads a file by extension:
//
//   - .json: a data view as understood by [dataview.Read]
//   - .csv, .tsv: a header row followed by records
//   - .xlsx: the first (or a named) sheet of a workbook, header row first
//
// Tabular files need a [Mapping] that binds header names to roles. Bindings
// are written "Column=role[:format]", for example
//
//	Region=categoryGroup
//	Sales=measure:$#,0.00
//
// When no binding is given, [InferMapping] binds the first text column as
// the category group and the first numeric column as the measure.
//
// Cells are sniffed the same way for CSV and XLSX: empty cells become null,
// numbers become float64, everything else stays a string.
//
// # Export
//
// [WritePointsCSV] and [WritePointsXLSX] write the sorted points of a
// collection, one row per dot, for inspection in a spreadsheet.
package io
