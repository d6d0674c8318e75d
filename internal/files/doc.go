// Package files provides discovery and housekeeping for generated output
// files.
//
// This package contains two main components:
//
// Discovery: Finds generated report CSVs, workbooks and cached series files,
// with utilities for sorting by recency and finding the latest output.
//
// Manager: Removes stale cached series files so scheduled refreshes do not
// accumulate history for symbols that are no longer tracked.
//
// Example usage:
//
//	// List generated reports, newest first
//	discovery := files.NewDiscovery(paths)
//	reports, err := discovery.FindReports()
//
//	// Drop cache entries older than a week
//	manager := files.NewManager(paths)
//	removed, err := manager.CleanupCache(7 * 24 * time.Hour)
package files
