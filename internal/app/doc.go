// Package app provides application initialization and lifecycle management
// for the web server. It wires configuration, logging, observability, the
// provider client, services and HTTP transport together at startup.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from environment and files
//	2. Initialize logging and observability
//	3. Create the provider client and services
//	4. Set up HTTP handlers and middleware
//	5. Start the scheduled refresh, if configured
//	6. Configure and start the HTTP server
//	7. Set up graceful shutdown handlers
//
// # Usage
//
// The main entry point is typically:
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM to drain active requests, stop the
// refresh scheduler and flush telemetry before exiting. Initialization
// errors are returned to the caller; the package never calls os.Exit
// directly.
package app
