// Package exporter writes analysis results to disk.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility.
//
// PanelExporter: Writes aligned panels and comparison tables as dated CSV
// files, rendering missing values as empty cells.
//
// WorkbookWriter: Builds a single Excel workbook with one sheet per table and
// a line chart on each, for side-by-side review.
//
// SeriesCache: Caches per-symbol daily histories as CSV files so repeated
// runs can reuse previously fetched data.
//
// Example usage:
//
//	// Export the aligned panel and its comparison tables
//	panels := exporter.NewPanelExporter(paths)
//	err := panels.WriteCombined(panel)
//
//	// Build the review workbook
//	workbook := exporter.NewWorkbookWriter(paths)
//	err = workbook.Write(tables)
package exporter
