package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"auditintel/pkg/contracts/domain"
)

// BusinessMetrics holds all application-specific metrics
type BusinessMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Analysis metrics
	WorkbooksProcessed    metric.Int64Counter
	SheetsAnalyzed        metric.Int64Counter
	RowsAnalyzed          metric.Int64Counter
	SheetAnalysisDuration metric.Float64Histogram
	UploadBytes           metric.Int64Counter
	ValidationRuns        metric.Int64Counter

	// System metrics
	SystemErrors metric.Int64Counter
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.WorkbooksProcessed, err = meter.Int64Counter(
		"workbooks_processed_total",
		metric.WithDescription("Total number of workbooks processed, by operation and outcome"),
	); err != nil {
		return nil, err
	}
	if m.SheetsAnalyzed, err = meter.Int64Counter(
		"sheets_analyzed_total",
		metric.WithDescription("Total number of sheets analyzed, by format and outcome"),
	); err != nil {
		return nil, err
	}
	if m.RowsAnalyzed, err = meter.Int64Counter(
		"sheet_rows_analyzed_total",
		metric.WithDescription("Total number of data rows passed to analyzers"),
	); err != nil {
		return nil, err
	}
	if m.SheetAnalysisDuration, err = meter.Float64Histogram(
		"sheet_analysis_duration_seconds",
		metric.WithDescription("Per-sheet analysis duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.UploadBytes, err = meter.Int64Counter(
		"upload_bytes_total",
		metric.WithDescription("Total bytes of workbook uploads received"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	if m.ValidationRuns, err = meter.Int64Counter(
		"validation_runs_total",
		metric.WithDescription("Total number of workbook validations, by status"),
	); err != nil {
		return nil, err
	}

	if m.SystemErrors, err = meter.Int64Counter(
		"system_errors_total",
		metric.WithDescription("Total number of system errors"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// AnalysisRecorder feeds per-sheet observations from the analysis engine
// into BusinessMetrics. A nil recorder or nil metrics records nothing.
type AnalysisRecorder struct {
	metrics *BusinessMetrics
}

// NewAnalysisRecorder creates a recorder backed by m
func NewAnalysisRecorder(m *BusinessMetrics) *AnalysisRecorder {
	return &AnalysisRecorder{metrics: m}
}

// RecordSheet records one analyzed sheet
func (r *AnalysisRecorder) RecordSheet(ctx context.Context, format domain.Format, rows int, failed bool, elapsed time.Duration) {
	if r == nil || r.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("format", string(format)),
		attribute.String("status", outcome(!failed)),
	)
	r.metrics.SheetsAnalyzed.Add(ctx, 1, attrs)
	r.metrics.RowsAnalyzed.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("format", string(format))))
	r.metrics.SheetAnalysisDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordWorkbook records one processed workbook. op names the entry point,
// e.g. "analyze" or "validate".
func RecordWorkbook(ctx context.Context, m *BusinessMetrics, op string, bytes int64, success bool) {
	if m == nil {
		return
	}
	m.WorkbooksProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("status", outcome(success)),
	))
	if bytes > 0 {
		m.UploadBytes.Add(ctx, bytes, metric.WithAttributes(attribute.String("operation", op)))
	}
}

// RecordValidation records a workbook validation and its overall status
func RecordValidation(ctx context.Context, m *BusinessMetrics, status string) {
	if m == nil {
		return
	}
	m.ValidationRuns.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordSystemError counts an unexpected failure by component
func RecordSystemError(ctx context.Context, m *BusinessMetrics, component string) {
	if m == nil {
		return
	}
	m.SystemErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("component", component)))
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
