package files

import (
	"log/slog"
	"os"
	"time"

	"relperf/internal/config"
)

// Manager performs housekeeping on the output directories
type Manager struct {
	paths     *config.Paths
	discovery *Discovery
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths) *Manager {
	return &Manager{
		paths:     paths,
		discovery: NewDiscovery(paths),
	}
}

// CleanupCache removes cached series files older than maxAge and reports how
// many were removed. Files that fail to delete are logged and skipped.
func (m *Manager) CleanupCache(maxAge time.Duration) (int, error) {
	caches, err := m.discovery.FindSeriesCaches()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, f := range caches {
		if f.ModTime.After(cutoff) {
			continue
		}
		if err := os.Remove(f.Path); err != nil {
			slog.Warn("failed to remove stale cache file",
				slog.String("path", f.Path),
				slog.String("error", err.Error()))
			continue
		}
		slog.Debug("removed stale cache file", slog.String("path", f.Path))
		removed++
	}
	return removed, nil
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
