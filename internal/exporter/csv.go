package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"relperf/internal/config"
)

// utf8BOM marks CSV output as UTF-8 so Excel opens it correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes CSV files into the configured report and cache
// directories. Relative paths resolve to the reports directory unless
// prefixed with "cache/".
type CSVWriter struct {
	paths *config.Paths
}

func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteSimpleCSV writes headers and records to a fresh BOM-prefixed file,
// replacing any existing content.
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	file, err := w.open(filePath, false)
	if err != nil {
		return err
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := cw.Write(headers); err != nil {
			return fmt.Errorf("write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendToCSV appends records to an existing CSV file without touching
// its header row or BOM.
func (w *CSVWriter) AppendToCSV(filePath string, records [][]string) error {
	file, err := w.open(filePath, true)
	if err != nil {
		return err
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	for i, record := range records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("append record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// StreamWriter writes CSV rows one at a time, for outputs too large to
// assemble in memory.
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter opens a fresh BOM-prefixed file, writes the header
// row, and returns a streaming writer for the data rows.
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	file, err := w.open(filePath, false)
	if err != nil {
		return nil, err
	}

	cw := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := cw.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("write headers: %w", err)
		}
	}
	return &StreamWriter{file: file, writer: cw}, nil
}

// WriteRecord writes one data row.
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes buffered rows and closes the underlying file.
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// open resolves the target path, creates its directory, and opens the
// file either truncated with a fresh BOM or in append mode.
func (w *CSVWriter) open(filePath string, appendMode bool) (*os.File, error) {
	fullPath := w.resolvePath(filePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fullPath, err)
	}
	if !appendMode {
		if _, err := file.Write(utf8BOM); err != nil {
			file.Close()
			return nil, fmt.Errorf("write BOM: %w", err)
		}
	}
	return file, nil
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	// Cached histories live under the cache directory; everything else
	// is a report output.
	if strings.HasPrefix(filePath, "cache/") {
		return w.paths.GetCachePath(strings.TrimPrefix(filePath, "cache/"))
	}
	return w.paths.GetReportPath(filePath)
}
