package services

import "errors"

// Service-level errors
var (
	// Report errors
	ErrNoReportsFound = errors.New("no reports found")
	ErrRunInProgress  = errors.New("report run already in progress")

	// Symbol errors
	ErrSymbolNotFound   = errors.New("symbol not found")
	ErrNoBenchmarks     = errors.New("no benchmarks available")
	ErrNoCachedData     = errors.New("no cached data available")
	ErrInsufficientData = errors.New("not enough data for the requested windows")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
