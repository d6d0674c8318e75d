// Package services implements the business logic layer between the HTTP
// handlers, the provider client and the analytics engine.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
// The package provides these core services:
//
//	- ReportService: Runs the full fetch, align, analyze, export pipeline
//	- DataService: Serves comparison tables and report listings to the API
//	- HealthService: Provides system health checks
//
// # Common Service Pattern
//
// Services typically follow this structure:
//
//	type ServiceName struct {
//	    deps   Dependencies
//	    logger *slog.Logger
//	}
//
//	func (s *ServiceName) BusinessOperation(ctx context.Context, input Input) (*Output, error) {
//	    if err := input.Validate(); err != nil {
//	        return nil, fmt.Errorf("validation failed: %w", err)
//	    }
//	    ...
//	}
//
// Services return domain-specific errors that handlers transform into
// RFC 7807 problem responses.
package services
