// Package app wires the audit analysis server together and manages its
// lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration (defaults, YAML file, AUDIT_* environment)
//  2. Initialize logging and OpenTelemetry providers
//  3. Create business and runtime metrics
//  4. Build the analysis and health services
//  5. Set up the chi router, middleware and handlers
//  6. Run a startup probe through the analysis engine
//  7. Serve until SIGINT or SIGTERM, then shut down gracefully
//
// # Routes
//
//	POST /api/analyze            full workbook analysis
//	POST /api/validate           column validation per sheet
//	POST /api/preview            first rows of each sheet
//	POST /api/detect             format detection per sheet
//	GET  /api/columns/required   column catalog
//	GET  /api/metrics/catalog    metric descriptors per format
//	GET  /api/health[/ready|/live]
//	GET  /api/version
//	GET  /metrics                Prometheus exposition
package app
