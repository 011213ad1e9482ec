// Package config provides configuration management for the audit analysis
// server and CLI.
//
// # Configuration Sources
//
// Values are resolved in this order, later sources winning:
//
//	1. Default()
//	2. A YAML file: $AUDIT_CONFIG_FILE, ./config.yaml or ./configs/config.yaml
//	3. Environment variables
//
// # Environment Variables
//
// Variables follow the AUDIT_<SECTION>_<FIELD> pattern:
//
//	AUDIT_SERVER_PORT=8080
//	AUDIT_LOGGING_LEVEL=debug
//	AUDIT_ANALYSIS_MAX_UPLOAD_BYTES=67108864
//	AUDIT_ANALYSIS_CURRENCY=USD
//	AUDIT_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Validation
//
// Load rejects out-of-range ports, non-positive timeouts and upload limits,
// unknown log levels and unknown exporters. Log format is always JSON.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
