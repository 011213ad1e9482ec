package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "auditintel/internal/errors"
	"auditintel/internal/middleware"
	"auditintel/internal/services"
)

const (
	// uploadField is the multipart field carrying the workbook
	uploadField = "file"
	// multipartMemory is held in memory while parsing; the rest spills to disk
	multipartMemory = 8 << 20
	// multipartOverhead allows for boundaries and headers around the file
	multipartOverhead = 1 << 20
)

// PreviewQuery holds the preview query parameters
type PreviewQuery struct {
	Rows  *int   `json:"rows" validate:"omitempty,min=1,max=100"`
	Sheet string `json:"sheet" validate:"sheetname"`
}

// AnalysisHandler serves the workbook analysis endpoints
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	validator    *middleware.RequestValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &AnalysisHandler{
		service:      service,
		validator:    middleware.NewRequestValidator(logger),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "analysis_handler")),
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeValidator("multipart/form-data"))
		if limit := h.service.MaxUploadBytes(); limit > 0 {
			r.Use(middleware.LimitBody(limit + multipartOverhead))
		}
		r.Post("/analyze", h.Analyze)
		r.Post("/validate", h.Validate)
		r.Post("/preview", h.Preview)
		r.Post("/detect", h.Detect)
	})

	r.Get("/columns/required", h.RequiredColumns)
	r.Get("/metrics/catalog", h.MetricCatalog)
	return r
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	src, cleanup, err := h.readUpload(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	defer cleanup()

	report, err := h.service.Analyze(r.Context(), src)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// Validate handles POST /api/validate
func (h *AnalysisHandler) Validate(w http.ResponseWriter, r *http.Request) {
	src, cleanup, err := h.readUpload(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	defer cleanup()

	result, err := h.service.Validate(r.Context(), src)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// Preview handles POST /api/preview?rows=N&sheet=S
func (h *AnalysisHandler) Preview(w http.ResponseWriter, r *http.Request) {
	query, err := h.parsePreviewQuery(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	src, cleanup, err := h.readUpload(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	defer cleanup()

	rows := 0
	if query.Rows != nil {
		rows = *query.Rows
	}
	result, err := h.service.Preview(r.Context(), src, rows, query.Sheet)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// Detect handles POST /api/detect
func (h *AnalysisHandler) Detect(w http.ResponseWriter, r *http.Request) {
	src, cleanup, err := h.readUpload(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	defer cleanup()

	result, err := h.service.Detect(r.Context(), src)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// RequiredColumns handles GET /api/columns/required
func (h *AnalysisHandler) RequiredColumns(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.RequiredColumns())
}

// MetricCatalog handles GET /api/metrics/catalog
func (h *AnalysisHandler) MetricCatalog(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.MetricCatalog())
}

func (h *AnalysisHandler) parsePreviewQuery(r *http.Request) (PreviewQuery, error) {
	q := PreviewQuery{Sheet: r.URL.Query().Get("sheet")}
	if raw := r.URL.Query().Get("rows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, apierrors.ErrValidation("rows", "rows must be an integer")
		}
		q.Rows = &n
	}
	if err := h.validator.ValidateStruct(q); err != nil {
		return q, err
	}
	return q, nil
}

// readUpload parses the multipart form and opens the uploaded workbook. The
// returned cleanup closes the file and removes any spilled temp files.
func (h *AnalysisHandler) readUpload(r *http.Request) (services.Source, func(), error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return services.Source{}, func() {}, err
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
		return services.Source{}, func() {}, err
	}

	cleanup := func() {
		_ = file.Close()
		_ = r.MultipartForm.RemoveAll()
	}

	h.logger.DebugContext(r.Context(), "upload received",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))
	return services.UploadSource(header.Filename, header.Size, file), cleanup, nil
}

// handleError maps transport and service errors onto API errors
func (h *AnalysisHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apierrors.APIError
	switch {
	case errors.As(err, &apiErr):
		// already mapped
	case bodyTooLarge(err), errors.Is(err, services.ErrFileTooLarge):
		err = apierrors.PayloadTooLargeError(h.service.MaxUploadBytes())
	case errors.Is(err, http.ErrMissingFile):
		err = apierrors.ErrMissingFile
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, services.ErrInvalidInput):
		err = apierrors.InvalidRequestWithError(err)
	case errors.Is(err, services.ErrUnsupportedFile), errors.Is(err, services.ErrTemporaryFile):
		err = apierrors.ErrUnsupportedFile
	case errors.Is(err, services.ErrEmptyFile):
		err = apierrors.ErrEmptyFile
	case errors.Is(err, services.ErrUnreadableWorkbook):
		err = apierrors.ErrWorkbookUnreadable
	case errors.Is(err, services.ErrNoSheets):
		err = apierrors.ErrNoSheets
	case errors.Is(err, services.ErrTooManySheets):
		err = apierrors.ErrTooManySheets.WithDetails(err.Error())
	case errors.Is(err, services.ErrSheetNotFound):
		err = apierrors.ErrSheetNotFound.WithDetails(err.Error())
	default:
		err = fmt.Errorf("%s %s: %w", r.Method, r.URL.Path, err)
	}
	h.errorHandler.HandleError(w, r, err)
}

// bodyTooLarge reports whether err came from an http.MaxBytesReader. The
// multipart reader does not always wrap it, so the message is checked too.
func bodyTooLarge(err error) bool {
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large")
}
