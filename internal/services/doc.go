// Package services holds the business logic between the HTTP handlers and
// the analysis packages.
//
// AnalysisService turns an uploaded or on-disk workbook into a report,
// a validation result, a preview or a format listing. HealthService answers
// the health, readiness, liveness and version probes.
//
// Services take a context.Context on every blocking call, log through a
// component-scoped slog.Logger and return errors wrapping the sentinels in
// errors.go so handlers can map them with errors.Is.
package services
