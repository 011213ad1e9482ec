package config

import (
	"time"

	"auditintel/pkg/contracts"
)

// Application constants
const (
	AppName    = "auditintel"
	AppVersion = contracts.Version

	// Rate limiting
	DefaultRateLimit = 50 // requests per second
	DefaultBurstSize = 100

	// Timeouts
	DefaultRequestTimeout = 2 * time.Minute

	// Log settings
	DefaultLogLevel = "info"
	DefaultLogFile  = "logs/auditintel.log"

	// Workbook intake
	DefaultMaxUploadBytes = 32 << 20 // 32MB
	DefaultPreviewRows    = 10
	MaxPreviewRows        = 100
	DefaultMaxSheets      = 50
	DefaultCurrency       = "TZS"

	// API endpoints
	APIBasePath     = "/api"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
)
