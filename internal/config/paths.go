package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	CacheDir   string `yaml:"cache_dir" envconfig:"CACHE_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// Paths resolves the configured directories against a base directory and
// names the well-known output files. It is the single source of truth for
// file locations across the exporters and CLI tools.
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	CacheDir   string
	LogsDir    string

	// Well-known report files
	CombinedCSV string
	WorkbookXLS string
}

// ResolvePaths builds Paths from configuration. Relative directories are
// resolved against the executable location, never the working directory, so
// the tools behave the same wherever they are launched from.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("resolve executable symlinks: %w", err)
	}
	return resolvePathsFrom(filepath.Dir(exe), cfg), nil
}

func resolvePathsFrom(baseDir string, cfg PathsConfig) *Paths {
	abs := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(baseDir, dir)
	}

	p := &Paths{
		BaseDir:    baseDir,
		DataDir:    abs(cfg.DataDir),
		ReportsDir: abs(cfg.ReportsDir),
		CacheDir:   abs(cfg.CacheDir),
		LogsDir:    abs(cfg.LogsDir),
	}
	p.CombinedCSV = filepath.Join(p.DataDir, "combined.csv")
	p.WorkbookXLS = filepath.Join(p.ReportsDir, "benchmark_report.xlsx")
	return p
}

// EnsureDirectories creates all configured directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.CacheDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the path for a named file inside the reports directory.
func (p *Paths) GetReportPath(name string) string {
	return filepath.Join(p.ReportsDir, name)
}

// GetCachePath returns the path for a named file inside the cache directory.
func (p *Paths) GetCachePath(name string) string {
	return filepath.Join(p.CacheDir, name)
}

// GetLogPath returns the path for a named log file inside the logs directory.
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// SeriesCachePath returns the per-symbol CSV cache location.
func (p *Paths) SeriesCachePath(symbol string) string {
	return filepath.Join(p.CacheDir, fmt.Sprintf("%s_history.csv", symbol))
}
