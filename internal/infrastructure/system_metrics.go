package infrastructure

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeStats is a snapshot of process resource usage
type RuntimeStats struct {
	Goroutines    int64     `json:"goroutines"`
	HeapBytes     int64     `json:"heap_bytes"`
	SystemBytes   int64     `json:"system_bytes"`
	GCCount       uint32    `json:"gc_count"`
	CPUCount      int       `json:"cpu_count"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	GoVersion     string    `json:"go_version"`
	Timestamp     time.Time `json:"timestamp"`
}

// SystemMetrics samples the Go runtime and publishes the readings as gauges
type SystemMetrics struct {
	startTime time.Time

	goroutines metric.Int64Gauge
	heapBytes  metric.Int64Gauge
	sysBytes   metric.Int64Gauge
	uptime     metric.Float64Gauge
}

// NewSystemMetrics creates the runtime gauges on meter
func NewSystemMetrics(meter metric.Meter) (*SystemMetrics, error) {
	sm := &SystemMetrics{startTime: time.Now()}
	var err error

	if sm.goroutines, err = meter.Int64Gauge(
		"system_goroutines",
		metric.WithDescription("Number of active goroutines"),
	); err != nil {
		return nil, fmt.Errorf("failed to create system metrics: %w", err)
	}
	if sm.heapBytes, err = meter.Int64Gauge(
		"system_memory_usage_bytes",
		metric.WithDescription("Heap memory in use in bytes"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("failed to create system metrics: %w", err)
	}
	if sm.sysBytes, err = meter.Int64Gauge(
		"system_memory_system_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("failed to create system metrics: %w", err)
	}
	if sm.uptime, err = meter.Float64Gauge(
		"system_process_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create system metrics: %w", err)
	}
	return sm, nil
}

// Collect samples the runtime, records the gauges and returns the snapshot
func (sm *SystemMetrics) Collect(ctx context.Context) RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := RuntimeStats{
		Goroutines:    int64(runtime.NumGoroutine()),
		HeapBytes:     int64(mem.HeapAlloc),
		SystemBytes:   int64(mem.Sys),
		GCCount:       mem.NumGC,
		CPUCount:      runtime.NumCPU(),
		UptimeSeconds: time.Since(sm.startTime).Seconds(),
		GoVersion:     runtime.Version(),
		Timestamp:     time.Now(),
	}

	sm.goroutines.Record(ctx, stats.Goroutines)
	sm.heapBytes.Record(ctx, stats.HeapBytes)
	sm.sysBytes.Record(ctx, stats.SystemBytes)
	sm.uptime.Record(ctx, stats.UptimeSeconds)
	return stats
}

// Run collects every interval until ctx is cancelled
func (sm *SystemMetrics) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sm.Collect(ctx)
	for {
		select {
		case <-ticker.C:
			sm.Collect(ctx)
		case <-ctx.Done():
			return
		}
	}
}
