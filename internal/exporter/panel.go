package exporter

import (
	"fmt"
	"strings"

	"relperf/internal/analytics"
	"relperf/internal/config"
)

// PanelExporter writes aligned panels and comparison tables as dated CSV files
type PanelExporter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
}

// NewPanelExporter creates a new panel exporter
func NewPanelExporter(paths *config.Paths) *PanelExporter {
	return &PanelExporter{
		csvWriter: NewCSVWriter(paths),
		paths:     paths,
	}
}

// PanelHeaders returns the CSV header row for a panel: the date column
// followed by the panel's columns in order.
func PanelHeaders(p *analytics.Panel) []string {
	headers := make([]string, 0, len(p.Columns)+1)
	headers = append(headers, "Date")
	return append(headers, p.ColumnNames()...)
}

// PanelRecords converts a panel to CSV records, one row per date. Missing
// values become empty cells.
func PanelRecords(p *analytics.Panel) [][]string {
	records := make([][]string, 0, p.Rows())
	for i, date := range p.Dates {
		row := make([]string, 0, len(p.Columns)+1)
		row = append(row, formatDate(date))
		for _, col := range p.Columns {
			row = append(row, formatValue(col.Values[i]))
		}
		records = append(records, row)
	}
	return records
}

// WritePanel writes a panel to the given path as a dated CSV file
func (e *PanelExporter) WritePanel(filePath string, p *analytics.Panel) error {
	if err := e.csvWriter.WriteSimpleCSV(filePath, PanelHeaders(p), PanelRecords(p)); err != nil {
		return fmt.Errorf("failed to write panel CSV: %w", err)
	}
	return nil
}

// WriteCombined writes the aligned level panel to the well-known combined
// CSV location.
func (e *PanelExporter) WriteCombined(p *analytics.Panel) error {
	return e.WritePanel(e.paths.CombinedCSV, p)
}

// WriteComparison writes an asset's comparison tables as three CSV files in
// the reports directory, named after the asset.
func (e *PanelExporter) WriteComparison(c *analytics.Comparison) error {
	asset := sanitizeName(c.Asset)
	tables := []struct {
		suffix string
		panel  *analytics.Panel
	}{
		{"excess_returns", c.Excess},
		{"correlation", c.Correlation},
		{"beta", c.Beta},
	}
	for _, table := range tables {
		filename := fmt.Sprintf("%s_%s.csv", asset, table.suffix)
		if err := e.WritePanel(filename, table.panel); err != nil {
			return fmt.Errorf("failed to write %s for %s: %w", table.suffix, c.Asset, err)
		}
	}
	return nil
}

// sanitizeName makes a symbol safe to use in a filename
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-")
	return replacer.Replace(name)
}
