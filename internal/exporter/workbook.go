package exporter

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"relperf/internal/analytics"
	"relperf/internal/config"
)

// Table names one panel for workbook output. Sheet order follows slice order.
type Table struct {
	Name  string
	Panel *analytics.Panel
}

// WorkbookWriter builds the review workbook: one sheet per table, each with
// its data as a dated grid and a line chart beside it.
type WorkbookWriter struct {
	paths *config.Paths
}

// NewWorkbookWriter creates a new workbook writer
func NewWorkbookWriter(paths *config.Paths) *WorkbookWriter {
	return &WorkbookWriter{paths: paths}
}

// Write builds the workbook from the given tables and saves it to the
// well-known workbook location. Tables with no rows are skipped.
func (w *WorkbookWriter) Write(tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	wrote := 0
	for _, table := range tables {
		if table.Panel == nil || table.Panel.Rows() == 0 {
			continue
		}
		if err := w.writeSheet(f, table); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", table.Name, err)
		}
		wrote++
	}
	if wrote == 0 {
		return fmt.Errorf("no tables with data to write")
	}

	// Drop the default sheet and land on the first table
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	f.SetActiveSheet(0)

	path := w.paths.WorkbookXLS
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (w *WorkbookWriter) writeSheet(f *excelize.File, table Table) error {
	sheet := sheetName(table.Name)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	p := table.Panel

	// Header row
	header := make([]interface{}, 0, len(p.Columns)+1)
	header = append(header, "Date")
	for _, col := range p.Columns {
		header = append(header, col.Name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	// Data rows; missing values stay as empty cells
	for i, date := range p.Dates {
		row := make([]interface{}, 0, len(p.Columns)+1)
		row = append(row, formatDate(date))
		for _, col := range p.Columns {
			if math.IsNaN(col.Values[i]) {
				row = append(row, nil)
			} else {
				row = append(row, col.Values[i])
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return w.addChart(f, sheet, table)
}

// addChart places a line chart to the right of the data grid, one series per
// panel column, with dates as categories.
func (w *WorkbookWriter) addChart(f *excelize.File, sheet string, table Table) error {
	p := table.Panel
	lastRow := p.Rows() + 1

	series := make([]excelize.ChartSeries, 0, len(p.Columns))
	for i := range p.Columns {
		colName, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$%s$1", sheet, colName),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, lastRow),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, colName, colName, lastRow),
		})
	}

	anchor, err := excelize.CoordinatesToCellName(len(p.Columns)+3, 2)
	if err != nil {
		return err
	}
	return f.AddChart(sheet, anchor, &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: table.Name}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{
			Width:  760,
			Height: 420,
		},
	})
}

// sheetName trims a table name to the 31-character sheet name limit.
func sheetName(name string) string {
	if len(name) <= 31 {
		return name
	}
	return name[:31]
}
