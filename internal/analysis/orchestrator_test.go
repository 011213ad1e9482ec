package analysis

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"auditintel/internal/shared/testutil"
	"auditintel/pkg/contracts/domain"
)

type stubNarrator struct {
	insightCalls int
}

func (n *stubNarrator) Summarize(sheet string, info domain.FormatInfo, _ domain.AnalysisResult) string {
	return sheet + " is " + string(info.Format)
}

func (n *stubNarrator) Insights(domain.AnalysisResult) *domain.Insights {
	n.insightCalls++
	ins := domain.NewInsights()
	ins.Recommendations = append(ins.Recommendations, "keep going")
	return ins
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordSheet(ctx context.Context, format domain.Format, rows int, failed bool, elapsed time.Duration) {
	m.Called(ctx, format, rows, failed, elapsed)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func zeroComplianceSheet() *domain.Table {
	t := newTable([]string{"Compliance %", "Score Gap", "Status", "Checklist Title"},
		[]any{"0%", 4, "OPEN", "Evaluation"},
	)
	t.Name = "Zero"
	return t
}

func testWorkbook() *domain.Workbook {
	findings := sampleFindings()
	findings.Name = "Findings"
	tenders := sampleMultiTender()
	tenders.Name = "Tenders"
	entities := newTable([]string{"Procuring Entity", "Overall %", "Tenders"},
		[]any{"Ministry of Works", "91%", 3},
		[]any{"City Council", "40%", 1},
	)
	entities.Name = "Entities"
	notes := newTable([]string{"Foo", "Bar"}, []any{"x", "y"})
	notes.Name = "Notes"

	return &domain.Workbook{
		Source: "audit.xlsx",
		Sheets: []*domain.Table{findings, notes, tenders, zeroComplianceSheet(), entities},
	}
}

func TestAnalyzeDispatch(t *testing.T) {
	r, err := Analyze(sampleFindings())
	require.NoError(t, err)
	assert.IsType(t, &domain.FindingsAnalysis{}, r)

	r, err = Analyze(sampleMultiTender())
	require.NoError(t, err)
	assert.Equal(t, domain.FormatMultiTender, r.ResultFormat())

	r, err = Analyze(newTable([]string{"Foo"}))
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Nil(t, r, "no typed nil behind the interface")
}

func TestAnalyzeWorkbook(t *testing.T) {
	engine := NewEngine(discardLogger())

	report, err := engine.AnalyzeWorkbook(context.Background(), testWorkbook())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess, report.Status)
	assert.Equal(t, "audit.xlsx", report.Source)
	assert.Equal(t, 5, report.SheetsAnalyzed)
	assert.Equal(t, []string{"Findings", "Notes", "Tenders", "Zero", "Entities"}, report.SheetOrder)
	require.Len(t, report.Results, 5)

	assert.Equal(t, domain.FormatDetailedFindings, report.Results["Findings"].DataFormat)
	assert.Equal(t, domain.FormatMultiTender, report.Results["Tenders"].DataFormat)
	assert.Equal(t, domain.FormatEntitySummary, report.Results["Entities"].DataFormat)
	assert.Equal(t, domain.FormatUnknown, report.Results["Notes"].DataFormat)
}

func TestAnalyzeWorkbookOverallSummary(t *testing.T) {
	engine := NewEngine(discardLogger())

	report, err := engine.AnalyzeWorkbook(context.Background(), testWorkbook())
	require.NoError(t, err)

	s := report.OverallSummary
	assert.Equal(t, 5+4+1+2, s.TotalRecordsAnalyzed, "unknown sheet contributes nothing")
	assert.Equal(t, 58.75, s.OverallComplianceRate, "zero-average sheet is left out of the mean")
	assert.Equal(t, 3+3+1, s.TotalOpenFindings)
	assert.Equal(t, 1+1, s.TotalHighRiskFindings)
	assert.Equal(t, 2+2, s.TotalRedFlags)
	assert.Equal(t, report.SheetOrder, s.SheetsProcessed)
	assert.Len(t, s.DetectedFormats, 5)
	assert.Equal(t, domain.FormatUnknown, s.DetectedFormats["Notes"].Format)
}

func TestAnalyzeWorkbookUnknownSheet(t *testing.T) {
	narrator := &stubNarrator{}
	logger, logs := testutil.NewTestLogger(t)
	engine := NewEngine(logger, WithNarrator(narrator))

	report, err := engine.AnalyzeWorkbook(context.Background(), testWorkbook())
	require.NoError(t, err)
	testutil.AssertSheetLogged(t, logs, "analysis_engine", "Findings", "sheet analyzed")
	testutil.AssertSheetLogged(t, logs, "analysis_engine", "Notes", "sheet not analyzed")

	notes := report.Results["Notes"]
	require.True(t, domain.IsError(notes.Analysis))
	assert.Equal(t, "Notes is unknown", notes.Summary)
	assert.True(t, notes.Insights.Empty())

	raw, err := json.Marshal(notes.Analysis)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Unknown data format. Columns found: Foo, Bar","columns":["Foo","Bar"]}`, string(raw))

	raw, err = json.Marshal(notes.Insights)
	require.NoError(t, err)
	assert.JSONEq(t, `{"priority_actions":[],"positive_highlights":[],"areas_of_concern":[],"recommendations":[]}`, string(raw))

	assert.Equal(t, 4, narrator.insightCalls, "no insights for errored sheets")
	assert.Equal(t, "Findings is detailed_findings", report.Results["Findings"].Summary)
	assert.Equal(t, []string{"keep going"}, report.Results["Findings"].Insights.Recommendations)
}

func TestUnknownSheetListsFirstTenColumns(t *testing.T) {
	cols := []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9", "c10", "c11", "c12"}
	result := NewEngine(discardLogger()).AnalyzeSheet(context.Background(), newTable(cols))

	errResult, ok := result.Analysis.(*domain.ErrorResult)
	require.True(t, ok)
	assert.Equal(t, cols[:10], errResult.Columns)
	assert.Equal(t, "Unknown data format. Columns found: c1, c2, c3, c4, c5, c6, c7, c8, c9, c10", errResult.Message)
}

func TestAnalyzeWorkbookRecordsEverySheet(t *testing.T) {
	rec := &mockRecorder{}
	rec.On("RecordSheet", mock.Anything, domain.FormatDetailedFindings, 5, false, mock.AnythingOfType("time.Duration")).Once()
	rec.On("RecordSheet", mock.Anything, domain.FormatUnknown, 1, true, mock.AnythingOfType("time.Duration")).Once()
	rec.On("RecordSheet", mock.Anything, domain.FormatMultiTender, 4, false, mock.AnythingOfType("time.Duration")).Once()
	rec.On("RecordSheet", mock.Anything, domain.FormatDetailedFindings, 1, false, mock.AnythingOfType("time.Duration")).Once()
	rec.On("RecordSheet", mock.Anything, domain.FormatEntitySummary, 2, false, mock.AnythingOfType("time.Duration")).Once()

	engine := NewEngine(discardLogger(), WithRecorder(rec))
	_, err := engine.AnalyzeWorkbook(context.Background(), testWorkbook())
	require.NoError(t, err)

	rec.AssertExpectations(t)
}

func TestAnalyzeWorkbookSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	engine := NewEngine(discardLogger(), WithTracer(tp.Tracer("test")))
	_, err := engine.AnalyzeWorkbook(context.Background(), testWorkbook())
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 6)

	var failed []string
	for _, s := range spans[:5] {
		assert.Equal(t, "analysis.sheet", s.Name())
		if s.Status().Code == codes.Error {
			failed = append(failed, s.Status().Description)
		}
	}
	assert.Equal(t, []string{"Unknown data format. Columns found: Foo, Bar"}, failed)
	assert.Equal(t, "analysis.workbook", spans[5].Name())
}

func TestAnalyzeWorkbookCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewEngine(discardLogger()).AnalyzeWorkbook(ctx, testWorkbook())
	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeWorkbookEmpty(t *testing.T) {
	report, err := NewEngine(nil).AnalyzeWorkbook(context.Background(), &domain.Workbook{})
	require.NoError(t, err)

	assert.Equal(t, 0, report.SheetsAnalyzed)
	assert.Equal(t, 0.0, report.OverallSummary.OverallComplianceRate)
	assert.NotNil(t, report.OverallSummary.SheetsProcessed)

	raw, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"status": "success",
		"sheets_analyzed": 0,
		"sheet_order": [],
		"overall_summary": {
			"total_records_analyzed": 0,
			"overall_compliance_rate": 0,
			"total_open_findings": 0,
			"total_high_risk_findings": 0,
			"total_red_flags": 0,
			"sheets_processed": [],
			"detected_formats": {}
		},
		"results": {}
	}`, string(raw))
}

func TestAnalyzeSheetDoesNotMutateTable(t *testing.T) {
	tbl := sampleFindings()
	before := tbl.Clone()

	NewEngine(discardLogger()).AnalyzeSheet(context.Background(), tbl)
	assert.Equal(t, before.Rows, tbl.Rows)
	assert.Equal(t, before.Columns, tbl.Columns)
}
