package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"relperf/internal/analytics"
	"relperf/internal/config"
)

// SeriesCache persists per-symbol daily histories as CSV files under the
// cache directory, so runs can reuse previously fetched data.
type SeriesCache struct {
	csvWriter *CSVWriter
	paths     *config.Paths
}

// NewSeriesCache creates a new series cache
func NewSeriesCache(paths *config.Paths) *SeriesCache {
	return &SeriesCache{
		csvWriter: NewCSVWriter(paths),
		paths:     paths,
	}
}

var seriesHeaders = []string{"Date", "Value"}

// Save writes one symbol's history to its cache file, replacing any previous
// contents.
func (c *SeriesCache) Save(symbol string, series analytics.Series) error {
	stream, err := c.csvWriter.CreateStreamWriter(c.paths.SeriesCachePath(symbol), seriesHeaders)
	if err != nil {
		return fmt.Errorf("failed to create cache file for %s: %w", symbol, err)
	}

	for _, point := range series {
		record := []string{formatDate(point.Date), formatValue(point.Value)}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write cache record for %s: %w", symbol, err)
		}
	}
	return stream.Close()
}

// Load reads one symbol's cached history. A missing cache file is an error;
// callers decide whether to fall back to fetching.
func (c *SeriesCache) Load(symbol string) (analytics.Series, error) {
	file, err := os.Open(c.paths.SeriesCachePath(symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache file for %s: %w", symbol, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file for %s: %w", symbol, err)
	}

	var points []analytics.Point
	for i, record := range records {
		if len(record) < 2 {
			continue
		}
		// The first cell of the first row may carry the UTF-8 BOM
		dateCell := strings.TrimPrefix(record[0], "\uFEFF")
		if i == 0 && dateCell == seriesHeaders[0] {
			continue
		}
		date, err := time.Parse(dateLayout, dateCell)
		if err != nil {
			return nil, fmt.Errorf("bad date %q in cache for %s: %w", record[0], symbol, err)
		}
		value, err := parseValue(record[1])
		if err != nil {
			return nil, fmt.Errorf("bad value %q in cache for %s: %w", record[1], symbol, err)
		}
		points = append(points, analytics.Point{Date: date, Value: value})
	}
	return analytics.NewSeries(points), nil
}
