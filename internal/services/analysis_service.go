package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"auditintel/internal/analysis"
	"auditintel/internal/config"
	"auditintel/internal/dataprocessing"
	"auditintel/internal/infrastructure"
	"auditintel/internal/narrative"
	"auditintel/internal/validation"
	"auditintel/pkg/contracts/domain"
)

// Source is a workbook to process: an uploaded body or a file on disk
type Source struct {
	Name string
	Size int64

	body io.Reader
	path string
}

// UploadSource wraps an uploaded file. size is the size the client declared.
func UploadSource(filename string, size int64, body io.Reader) Source {
	return Source{Name: filename, Size: size, body: body}
}

// FileSource refers to a workbook on disk
func FileSource(path string) Source {
	return Source{Name: filepath.Base(path), path: path}
}

// PreviewResult holds the head of every previewed sheet
type PreviewResult struct {
	Status     string                                 `json:"status"`
	Sheets     int                                    `json:"sheets"`
	Data       map[string]dataprocessing.SheetPreview `json:"data"`
	SheetOrder []string                               `json:"sheet_order"`
}

// DetectResult lists the detected format of every sheet
type DetectResult struct {
	Status     string                       `json:"status"`
	Sheets     int                          `json:"sheets"`
	Formats    map[string]domain.FormatInfo `json:"formats"`
	SheetOrder []string                     `json:"sheet_order"`
}

// AnalysisService loads workbooks and runs them through the analysis engine
// and the validators. It holds no per-request state.
type AnalysisService struct {
	loader      *dataprocessing.WorkbookLoader
	engine      *analysis.Engine
	files       *validation.FileValidator
	metrics     *infrastructure.BusinessMetrics
	maxUpload   int64
	previewRows int
	logger      *slog.Logger
}

// NewAnalysisService creates the service. A nil engine is replaced by one
// narrating with the configured currency and seed; metrics may be nil.
func NewAnalysisService(cfg config.AnalysisConfig, engine *analysis.Engine, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = NewEngine(cfg, metrics, logger)
	}
	previewRows := cfg.PreviewRows
	if previewRows <= 0 {
		previewRows = config.DefaultPreviewRows
	}

	return &AnalysisService{
		loader: dataprocessing.NewWorkbookLoader(logger, dataprocessing.LoaderConfig{
			MaxSheets:           cfg.MaxSheets,
			SanitizeNullMarkers: cfg.SanitizeNullMarkers,
		}),
		engine:      engine,
		files:       validation.NewFileValidator(logger),
		metrics:     metrics,
		maxUpload:   cfg.MaxUploadBytes,
		previewRows: min(previewRows, config.MaxPreviewRows),
		logger:      logger.With(slog.String("component", "analysis_service")),
	}
}

// NewEngine builds the analysis engine the service uses by default
func NewEngine(cfg config.AnalysisConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *analysis.Engine {
	opts := []narrative.Option{}
	if cfg.Currency != "" {
		opts = append(opts, narrative.WithCurrency(cfg.Currency))
	}
	if cfg.NarrativeSeed != 0 {
		opts = append(opts, narrative.WithSelector(narrative.NewSeededSelector(cfg.NarrativeSeed)))
	}
	return analysis.NewEngine(logger,
		analysis.WithNarrator(narrative.New(opts...)),
		analysis.WithRecorder(infrastructure.NewAnalysisRecorder(metrics)),
	)
}

// Analyze runs every sheet of the workbook through the analysis engine
func (s *AnalysisService) Analyze(ctx context.Context, src Source) (*domain.Report, error) {
	start := time.Now()
	wb, err := s.load(ctx, "analyze", src)
	if err != nil {
		return nil, err
	}

	report, err := s.engine.AnalyzeWorkbook(ctx, wb)
	if err != nil {
		infrastructure.RecordWorkbook(ctx, s.metrics, "analyze", src.Size, false)
		return nil, fmt.Errorf("analyze %s: %w", src.Name, err)
	}
	infrastructure.RecordWorkbook(ctx, s.metrics, "analyze", src.Size, true)

	s.logger.InfoContext(ctx, "workbook analyzed",
		slog.String("source", src.Name),
		slog.Int("sheets", report.SheetsAnalyzed),
		slog.Duration("elapsed", time.Since(start)))
	return report, nil
}

// Validate checks structure, quality and value ranges of every sheet
func (s *AnalysisService) Validate(ctx context.Context, src Source) (*validation.WorkbookValidation, error) {
	wb, err := s.load(ctx, "validate", src)
	if err != nil {
		return nil, err
	}

	result := validation.ValidateWorkbook(wb)
	infrastructure.RecordWorkbook(ctx, s.metrics, "validate", src.Size, true)
	infrastructure.RecordValidation(ctx, s.metrics, result.Status)

	s.logger.InfoContext(ctx, "workbook validated",
		slog.String("source", src.Name),
		slog.String("status", result.Status),
		slog.Int("sheets", result.SheetsValidated))
	return result, nil
}

// Preview returns the first rows of each sheet, or of the named sheet only.
// rows <= 0 selects the configured default; larger values are capped.
func (s *AnalysisService) Preview(ctx context.Context, src Source, rows int, sheet string) (*PreviewResult, error) {
	wb, err := s.load(ctx, "preview", src)
	if err != nil {
		return nil, err
	}

	if rows <= 0 {
		rows = s.previewRows
	}
	rows = min(rows, config.MaxPreviewRows)

	tables := wb.Sheets
	if sheet != "" {
		t, ok := wb.Sheet(sheet)
		if !ok {
			infrastructure.RecordWorkbook(ctx, s.metrics, "preview", src.Size, false)
			return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
		}
		tables = []*domain.Table{t}
	}

	out := &PreviewResult{
		Status:     "success",
		Sheets:     len(tables),
		Data:       make(map[string]dataprocessing.SheetPreview, len(tables)),
		SheetOrder: make([]string, 0, len(tables)),
	}
	for _, t := range tables {
		out.Data[t.Name] = dataprocessing.Preview(t, rows)
		out.SheetOrder = append(out.SheetOrder, t.Name)
	}
	infrastructure.RecordWorkbook(ctx, s.metrics, "preview", src.Size, true)
	return out, nil
}

// Detect reports the detected format of every sheet without analyzing it
func (s *AnalysisService) Detect(ctx context.Context, src Source) (*DetectResult, error) {
	wb, err := s.load(ctx, "detect", src)
	if err != nil {
		return nil, err
	}

	out := &DetectResult{
		Status:     "success",
		Sheets:     len(wb.Sheets),
		Formats:    make(map[string]domain.FormatInfo, len(wb.Sheets)),
		SheetOrder: wb.SheetNames(),
	}
	for _, t := range wb.Sheets {
		out.Formats[t.Name] = analysis.DescribeFormat(t)
	}
	infrastructure.RecordWorkbook(ctx, s.metrics, "detect", src.Size, true)
	return out, nil
}

// RequiredColumns returns the required, recommended and optional columns
func (s *AnalysisService) RequiredColumns() validation.ColumnCatalog {
	return validation.Columns()
}

// MetricCatalog describes every top-level metric, per format
func (s *AnalysisService) MetricCatalog() map[domain.Format][]domain.MetricDescriptor {
	return domain.MetricCatalog()
}

// MaxUploadBytes is the upload size limit, zero when unlimited
func (s *AnalysisService) MaxUploadBytes() int64 {
	return s.maxUpload
}

// Ready runs a one-row workbook through the engine
func (s *AnalysisService) Ready(ctx context.Context) error {
	probe := domain.NewTable("readiness",
		[]string{analysis.ColCompliance, analysis.ColScoreGap, analysis.ColStatus, analysis.ColChecklistTitle},
		[][]domain.Cell{{domain.NumberCell(100), domain.NumberCell(0), domain.TextCell("CLOSED"), domain.TextCell("probe")}})
	report, err := s.engine.AnalyzeWorkbook(ctx, &domain.Workbook{Source: "readiness", Sheets: []*domain.Table{probe}})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	if report.SheetsAnalyzed != 1 {
		return fmt.Errorf("%w: readiness probe analyzed %d sheets", ErrServiceUnavailable, report.SheetsAnalyzed)
	}
	return nil
}

// load checks the source's name and size, then reads it into a workbook
func (s *AnalysisService) load(ctx context.Context, op string, src Source) (*domain.Workbook, error) {
	var (
		wb  *domain.Workbook
		err error
	)
	if src.path != "" {
		wb, err = s.loadFile(ctx, src)
	} else {
		wb, err = s.loadUpload(ctx, src)
	}
	if err != nil {
		infrastructure.RecordWorkbook(ctx, s.metrics, op, src.Size, false)
		s.logger.WarnContext(ctx, "workbook rejected",
			slog.String("operation", op),
			slog.String("source", src.Name),
			slog.String("error", err.Error()))
		return nil, err
	}
	return wb, nil
}

func (s *AnalysisService) loadUpload(ctx context.Context, src Source) (*domain.Workbook, error) {
	if src.body == nil {
		return nil, fmt.Errorf("%w: upload %s has no body", ErrInvalidInput, src.Name)
	}
	if err := s.files.ValidateUpload(src.Name, src.Size, s.maxUpload); err != nil {
		return nil, err
	}
	return s.loader.Read(ctx, src.body, src.Name)
}

func (s *AnalysisService) loadFile(ctx context.Context, src Source) (*domain.Workbook, error) {
	if err := s.files.ValidateExcelFile(src.path); err != nil {
		return nil, err
	}
	if info, err := os.Stat(src.path); err == nil && info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, src.path)
	}
	return s.loader.LoadFile(ctx, src.path)
}
