package exporter

import (
	"math"
	"strconv"
	"time"
)

// dateLayout is the date format used across all exported files.
const dateLayout = "2006-01-02"

// formatValue formats a table value for CSV output. Missing values render as
// empty cells so spreadsheet tools treat them as gaps rather than zeros.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatFloat formats a float64 with a fixed number of decimal places.
func formatFloat(f float64, decimals int) string {
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

// formatDate formats a date for CSV output
func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// parseValue is the inverse of formatValue; empty cells come back as NaN.
func parseValue(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
