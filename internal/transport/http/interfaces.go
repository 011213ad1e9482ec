package http

import (
	"context"

	"auditintel/internal/services"
	"auditintel/internal/validation"
	"auditintel/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the workbook operations the handlers need
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, src services.Source) (*domain.Report, error)
	Validate(ctx context.Context, src services.Source) (*validation.WorkbookValidation, error)
	Preview(ctx context.Context, src services.Source, rows int, sheet string) (*services.PreviewResult, error)
	Detect(ctx context.Context, src services.Source) (*services.DetectResult, error)
	RequiredColumns() validation.ColumnCatalog
	MetricCatalog() map[domain.Format][]domain.MetricDescriptor
	MaxUploadBytes() int64
}

// HealthServiceInterface defines the probes served by HealthHandler
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
