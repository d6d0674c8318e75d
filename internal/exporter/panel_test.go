package exporter

import (
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relperf/internal/analytics"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func testPanel() *analytics.Panel {
	return &analytics.Panel{
		Dates: []time.Time{day(2), day(3), day(4)},
		Columns: []analytics.Column{
			{Name: "GSOX Index", Values: []float64{100, 101.5, math.NaN()}},
			{Name: "SPX Index", Values: []float64{200, math.NaN(), 202}},
		},
	}
}

func TestPanelHeaders(t *testing.T) {
	headers := PanelHeaders(testPanel())
	assert.Equal(t, []string{"Date", "GSOX Index", "SPX Index"}, headers)
}

func TestPanelRecords(t *testing.T) {
	records := PanelRecords(testPanel())
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2024-01-02", "100", "200"}, records[0])
	assert.Equal(t, []string{"2024-01-03", "101.5", ""}, records[1], "missing values are empty cells")
	assert.Equal(t, []string{"2024-01-04", "", "202"}, records[2])
}

func TestWriteCombined(t *testing.T) {
	paths := testPaths(t)
	exporter := NewPanelExporter(paths)

	require.NoError(t, exporter.WriteCombined(testPanel()))

	data, err := os.ReadFile(paths.CombinedCSV)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Date,GSOX Index,SPX Index")
	assert.Contains(t, string(data), "2024-01-03,101.5,")
}

func TestWriteComparison(t *testing.T) {
	paths := testPaths(t)
	exporter := NewPanelExporter(paths)

	table := &analytics.Panel{
		Dates:   []time.Time{day(2)},
		Columns: []analytics.Column{{Name: "GSOX-vs-SPX", Values: []float64{1.5}}},
	}
	comparison := &analytics.Comparison{
		Asset:       "GSOX Index",
		Excess:      table,
		Correlation: table,
		Beta:        table,
	}

	require.NoError(t, exporter.WriteComparison(comparison))

	for _, name := range []string{
		"GSOX_Index_excess_returns.csv",
		"GSOX_Index_correlation.csv",
		"GSOX_Index_beta.csv",
	} {
		_, err := os.Stat(paths.GetReportPath(name))
		assert.NoError(t, err, "expected %s to exist", name)
	}
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "GSOX_Index", sanitizeName("GSOX Index"))
	assert.Equal(t, "A-B-C", sanitizeName("A/B:C"))
}
