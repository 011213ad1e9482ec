package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"auditintel/internal/infrastructure"
	"auditintel/pkg/contracts"
)

// Health status values
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// ReadinessChecker is a dependency that must be ready before traffic is served
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	buildID   string
	checks    map[string]ReadinessChecker
	system    *infrastructure.SystemMetrics
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                       `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Version   string                       `json:"version"`
	Runtime   *infrastructure.RuntimeStats `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth     `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// HealthOption configures a HealthService
type HealthOption func(*HealthService)

// WithBuildInfo sets the build time and id reported by Version
func WithBuildInfo(buildTime, buildID string) HealthOption {
	return func(hs *HealthService) {
		hs.buildTime = buildTime
		hs.buildID = buildID
	}
}

// WithReadinessCheck adds a named dependency to the readiness probe
func WithReadinessCheck(name string, c ReadinessChecker) HealthOption {
	return func(hs *HealthService) { hs.checks[name] = c }
}

// WithSystemMetrics makes liveness report through the runtime gauges
func WithSystemMetrics(m *infrastructure.SystemMetrics) HealthOption {
	return func(hs *HealthService) { hs.system = m }
}

// NewHealthService creates a new health service
func NewHealthService(version string, logger *slog.Logger, opts ...HealthOption) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	hs := &HealthService{
		version:   version,
		checks:    make(map[string]ReadinessChecker),
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
	for _, opt := range opts {
		opt(hs)
	}

	hs.logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", hs.buildTime),
		slog.String("build_id", hs.buildID),
		slog.Int("readiness_checks", len(hs.checks)))
	return hs
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck runs every registered check. The service is ready only when
// all of them pass.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]ServiceHealth, len(hs.checks)),
	}

	for name, check := range hs.checks {
		if err := check.Ready(ctx); err != nil {
			status.Services[name] = ServiceHealth{Status: StatusNotReady, Message: err.Error()}
			status.Status = StatusNotReady
			hs.logger.WarnContext(ctx, "readiness check failed",
				slog.String("service", name),
				slog.String("error", err.Error()))
			continue
		}
		status.Services[name] = ServiceHealth{
			Status: StatusReady,
			Uptime: time.Since(hs.startTime).Round(time.Second).String(),
		}
	}
	return status
}

// LivenessCheck returns liveness status with runtime statistics
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	stats := hs.SystemStats(ctx)
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime:   &stats,
	}
}

// SystemStats samples the runtime. Uptime is measured from service creation.
func (hs *HealthService) SystemStats(ctx context.Context) infrastructure.RuntimeStats {
	var stats infrastructure.RuntimeStats
	if hs.system != nil {
		stats = hs.system.Collect(ctx)
	} else {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		stats = infrastructure.RuntimeStats{
			Goroutines:  int64(runtime.NumGoroutine()),
			HeapBytes:   int64(mem.HeapAlloc),
			SystemBytes: int64(mem.Sys),
			GCCount:     mem.NumGC,
			CPUCount:    runtime.NumCPU(),
			GoVersion:   runtime.Version(),
			Timestamp:   time.Now(),
		}
	}
	stats.UptimeSeconds = time.Since(hs.startTime).Seconds()
	return stats
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":       hs.version,
		"go_version":    runtime.Version(),
		"os":            runtime.GOOS,
		"arch":          runtime.GOARCH,
		"uptime":        time.Since(hs.startTime).Seconds(),
		"start_time":    hs.startTime.Format(time.RFC3339),
		"current_time":  time.Now().Format(time.RFC3339),
		"api_version":   contracts.APIVersion,
		"result_format": contracts.ResultFormatVersion,
	}

	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.buildID != "" {
		result["build_id"] = hs.buildID
	}
	return result
}
