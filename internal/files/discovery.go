package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"relperf/internal/config"
)

// FileInfo describes one discovered output file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds generated output files under the configured directories
type Discovery struct {
	paths *config.Paths
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(paths *config.Paths) *Discovery {
	return &Discovery{paths: paths}
}

// FindReports returns all generated report files (CSVs and workbooks) in the
// reports directory, newest first.
func (d *Discovery) FindReports() ([]FileInfo, error) {
	return d.findByExtension(d.paths.ReportsDir, ".csv", ".xlsx")
}

// FindSeriesCaches returns all cached per-symbol history files, newest first.
func (d *Discovery) FindSeriesCaches() ([]FileInfo, error) {
	caches, err := d.findByExtension(d.paths.CacheDir, ".csv")
	if err != nil {
		return nil, err
	}
	var out []FileInfo
	for _, f := range caches {
		if strings.HasSuffix(f.Name, "_history.csv") {
			out = append(out, f)
		}
	}
	return out, nil
}

// LatestReport returns the most recently written report file, or an error
// when there are none.
func (d *Discovery) LatestReport() (FileInfo, error) {
	reports, err := d.FindReports()
	if err != nil {
		return FileInfo{}, err
	}
	if len(reports) == 0 {
		return FileInfo{}, fmt.Errorf("no reports found in %s", d.paths.ReportsDir)
	}
	return reports[0], nil
}

func (d *Discovery) findByExtension(dir string, extensions ...string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var out []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		matched := false
		for _, want := range extensions {
			if ext == want {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, FileInfo{
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out, nil
}
