package http

import (
	"log/slog"
	"net/http"

	apierrors "auditintel/internal/errors"
)

// MetricsHandler exposes the Prometheus scrape endpoint
type MetricsHandler struct {
	exporter     http.Handler
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewMetricsHandler wraps the exporter's handler. A nil exporter, as when
// the metric exporter is disabled, answers 503.
func NewMetricsHandler(exporter http.Handler, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &MetricsHandler{
		exporter:     exporter,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "metrics")),
	}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		h.logger.DebugContext(r.Context(), "metrics requested but no exporter is configured")
		h.errorHandler.HandleError(w, r, apierrors.ErrServiceUnavailable.WithDetails("metric exporter disabled"))
		return
	}
	h.exporter.ServeHTTP(w, r)
}
