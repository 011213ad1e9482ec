package analysis

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"auditintel/pkg/contracts/domain"
)

const tracerName = "auditintel/analysis"

// Narrator renders the human-readable part of a sheet result
type Narrator interface {
	Summarize(sheet string, info domain.FormatInfo, result domain.AnalysisResult) string
	Insights(result domain.AnalysisResult) *domain.Insights
}

// Recorder receives one observation per analyzed sheet
type Recorder interface {
	RecordSheet(ctx context.Context, format domain.Format, rows int, failed bool, elapsed time.Duration)
}

// Engine classifies and analyzes every sheet of a workbook. It keeps no state
// between calls, so one Engine can serve concurrent requests.
type Engine struct {
	logger   *slog.Logger
	narrator Narrator
	recorder Recorder
	tracer   trace.Tracer
}

// Option configures an Engine
type Option func(*Engine)

// WithNarrator sets the summary and insight generator
func WithNarrator(n Narrator) Option {
	return func(e *Engine) { e.narrator = n }
}

// WithRecorder sets the per-sheet metrics sink
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithTracer overrides the tracer taken from the global provider
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// NewEngine creates an analysis engine
func NewEngine(logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		logger: logger.With(slog.String("component", "analysis_engine")),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze dispatches a sheet to the analyzer for its detected format.
// Unknown sheets return ErrUnknownFormat; schema problems return a
// *MissingColumnError.
func Analyze(t *domain.Table) (domain.AnalysisResult, error) {
	switch DetectFormat(t) {
	case domain.FormatDetailedFindings:
		r, err := AnalyzeFindings(t)
		if err != nil {
			return nil, err
		}
		return r, nil
	case domain.FormatMultiTender:
		r, err := AnalyzeMultiTender(t)
		if err != nil {
			return nil, err
		}
		return r, nil
	case domain.FormatEntitySummary:
		r, err := AnalyzeEntitySummary(t)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, ErrUnknownFormat
	}
}

// AnalyzeSheet produces the full result for a single sheet
func (e *Engine) AnalyzeSheet(ctx context.Context, t *domain.Table) *domain.SheetResult {
	ctx, span := e.tracer.Start(ctx, "analysis.sheet",
		trace.WithAttributes(attribute.String("sheet.name", t.Name), attribute.Int("sheet.rows", t.Len())))
	defer span.End()

	start := time.Now()
	info := DescribeFormat(t)
	span.SetAttributes(attribute.String("sheet.format", string(info.Format)))

	var result domain.AnalysisResult
	r, err := Analyze(t)
	switch {
	case err == nil:
		result = r
	case info.Format == domain.FormatUnknown:
		result = unknownFormatResult(t)
	default:
		result = errorResult(info.Format, err)
	}

	failed := domain.IsError(result)
	if failed {
		span.SetStatus(codes.Error, result.(*domain.ErrorResult).Message)
		e.logger.WarnContext(ctx, "sheet not analyzed",
			slog.String("sheet", t.Name),
			slog.String("format", string(info.Format)),
			slog.String("reason", result.(*domain.ErrorResult).Message))
	} else {
		e.logger.InfoContext(ctx, "sheet analyzed",
			slog.String("sheet", t.Name),
			slog.String("format", string(info.Format)),
			slog.Int("rows", t.Len()))
	}

	out := &domain.SheetResult{
		DataFormat: info.Format,
		FormatInfo: info,
		Analysis:   result,
		Insights:   domain.NewInsights(),
	}
	if e.narrator != nil {
		out.Summary = e.narrator.Summarize(t.Name, info, result)
		if !failed {
			out.Insights = e.narrator.Insights(result)
		}
	}

	if e.recorder != nil {
		e.recorder.RecordSheet(ctx, info.Format, t.Len(), failed, time.Since(start))
	}
	return out
}

// AnalyzeWorkbook analyzes every sheet in order and rolls the results up.
// A bad sheet never aborts the workbook; only context cancellation does.
func (e *Engine) AnalyzeWorkbook(ctx context.Context, wb *domain.Workbook) (*domain.Report, error) {
	ctx, span := e.tracer.Start(ctx, "analysis.workbook",
		trace.WithAttributes(attribute.String("workbook.source", wb.Source), attribute.Int("workbook.sheets", len(wb.Sheets))))
	defer span.End()

	report := &domain.Report{
		Status:     domain.StatusSuccess,
		Source:     wb.Source,
		SheetOrder: make([]string, 0, len(wb.Sheets)),
		Results:    make(map[string]*domain.SheetResult, len(wb.Sheets)),
	}

	for _, sheet := range wb.Sheets {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return nil, err
		}
		report.Results[sheet.Name] = e.AnalyzeSheet(ctx, sheet)
		report.SheetOrder = append(report.SheetOrder, sheet.Name)
	}

	report.SheetsAnalyzed = len(report.SheetOrder)
	report.OverallSummary = Summarize(report)
	return report, nil
}

// Summarize rolls sheet totals into the workbook summary. Errored sheets are
// listed but contribute nothing, and sheets with a zero average compliance
// are left out of the compliance mean.
func Summarize(report *domain.Report) domain.OverallSummary {
	s := domain.OverallSummary{
		SheetsProcessed: append([]string{}, report.SheetOrder...),
		DetectedFormats: make(map[string]domain.FormatInfo, len(report.Results)),
	}
	var compliance meanAcc
	for _, name := range report.SheetOrder {
		r := report.Results[name]
		s.DetectedFormats[name] = r.FormatInfo
		if r.Analysis == nil || domain.IsError(r.Analysis) {
			continue
		}
		tot := r.Analysis.Totals()
		s.TotalRecordsAnalyzed += tot.Records
		s.TotalOpenFindings += tot.OpenFindings
		s.TotalHighRiskFindings += tot.HighRiskFindings
		s.TotalRedFlags += tot.RedFlags
		if tot.AverageCompliance > 0 {
			compliance.add(tot.AverageCompliance)
		}
	}
	s.OverallComplianceRate = round2(compliance.mean())
	return s
}
