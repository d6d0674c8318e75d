package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relperf/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	p := &config.Paths{
		BaseDir:    base,
		DataDir:    filepath.Join(base, "data"),
		ReportsDir: filepath.Join(base, "reports"),
		CacheDir:   filepath.Join(base, "cache"),
		LogsDir:    filepath.Join(base, "logs"),
	}
	require.NoError(t, p.EnsureDirectories())
	return p
}

func writeFile(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	if !modTime.IsZero() {
		require.NoError(t, os.Chtimes(path, modTime, modTime))
	}
}

func TestFindReports(t *testing.T) {
	paths := testPaths(t)
	old := time.Now().Add(-time.Hour)
	writeFile(t, filepath.Join(paths.ReportsDir, "old_report.csv"), old)
	writeFile(t, filepath.Join(paths.ReportsDir, "benchmark_report.xlsx"), time.Time{})
	writeFile(t, filepath.Join(paths.ReportsDir, "notes.txt"), time.Time{})

	discovery := NewDiscovery(paths)
	reports, err := discovery.FindReports()
	require.NoError(t, err)
	require.Len(t, reports, 2, "only csv and xlsx files are reports")
	assert.Equal(t, "benchmark_report.xlsx", reports[0].Name, "newest first")

	latest, err := discovery.LatestReport()
	require.NoError(t, err)
	assert.Equal(t, "benchmark_report.xlsx", latest.Name)
}

func TestFindReportsMissingDir(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.RemoveAll(paths.ReportsDir))

	discovery := NewDiscovery(paths)
	reports, err := discovery.FindReports()
	require.NoError(t, err)
	assert.Empty(t, reports)

	_, err = discovery.LatestReport()
	require.Error(t, err)
}

func TestFindSeriesCaches(t *testing.T) {
	paths := testPaths(t)
	writeFile(t, filepath.Join(paths.CacheDir, "GSOX_history.csv"), time.Time{})
	writeFile(t, filepath.Join(paths.CacheDir, "scratch.csv"), time.Time{})

	discovery := NewDiscovery(paths)
	caches, err := discovery.FindSeriesCaches()
	require.NoError(t, err)
	require.Len(t, caches, 1)
	assert.Equal(t, "GSOX_history.csv", caches[0].Name)
}

func TestCleanupCache(t *testing.T) {
	paths := testPaths(t)
	stale := time.Now().Add(-48 * time.Hour)
	writeFile(t, filepath.Join(paths.CacheDir, "OLD_history.csv"), stale)
	writeFile(t, filepath.Join(paths.CacheDir, "FRESH_history.csv"), time.Time{})

	manager := NewManager(paths)
	removed, err := manager.CleanupCache(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.False(t, manager.FileExists(filepath.Join(paths.CacheDir, "OLD_history.csv")))
	assert.True(t, manager.FileExists(filepath.Join(paths.CacheDir, "FRESH_history.csv")))
}
