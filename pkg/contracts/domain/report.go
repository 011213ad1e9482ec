package domain

// AnalysisResult is implemented by every per-format result and by ErrorResult
type AnalysisResult interface {
	ResultFormat() Format
	Totals() SheetTotals
}

// SheetTotals is the slice of a sheet's metrics that rolls up into the overall summary
type SheetTotals struct {
	Records           int
	AverageCompliance float64
	OpenFindings      int
	HighRiskFindings  int
	RedFlags          int
}

// ErrorResult replaces the analysis of a sheet that could not be analyzed.
// It never carries metrics.
type ErrorResult struct {
	Format  Format   `json:"-"`
	Message string   `json:"error"`
	Columns []string `json:"columns,omitempty"`
}

// Error makes ErrorResult usable as an error value
func (e *ErrorResult) Error() string { return e.Message }

// ResultFormat implements AnalysisResult
func (e *ErrorResult) ResultFormat() Format { return e.Format }

// Totals implements AnalysisResult; errored sheets contribute nothing
func (e *ErrorResult) Totals() SheetTotals { return SheetTotals{} }

// IsError reports whether r is an ErrorResult
func IsError(r AnalysisResult) bool {
	_, ok := r.(*ErrorResult)
	return ok
}

// Insights groups the narrative observations for a sheet
type Insights struct {
	PriorityActions    []string `json:"priority_actions"`
	PositiveHighlights []string `json:"positive_highlights"`
	AreasOfConcern     []string `json:"areas_of_concern"`
	Recommendations    []string `json:"recommendations"`
}

// NewInsights returns Insights whose lists encode as [] rather than null
func NewInsights() *Insights {
	return &Insights{
		PriorityActions:    []string{},
		PositiveHighlights: []string{},
		AreasOfConcern:     []string{},
		Recommendations:    []string{},
	}
}

// Empty reports whether no insight was produced
func (i *Insights) Empty() bool {
	return i == nil || len(i.PriorityActions)+len(i.PositiveHighlights)+len(i.AreasOfConcern)+len(i.Recommendations) == 0
}

// SheetResult is the per-sheet output of a workbook analysis
type SheetResult struct {
	DataFormat Format         `json:"data_format"`
	FormatInfo FormatInfo     `json:"format_info"`
	Analysis   AnalysisResult `json:"analysis"`
	Summary    string         `json:"summary"`
	Insights   *Insights      `json:"insights"`
}

// OverallSummary rolls sheet totals up across a workbook
type OverallSummary struct {
	TotalRecordsAnalyzed  int                   `json:"total_records_analyzed"`
	OverallComplianceRate float64               `json:"overall_compliance_rate"`
	TotalOpenFindings     int                   `json:"total_open_findings"`
	TotalHighRiskFindings int                   `json:"total_high_risk_findings"`
	TotalRedFlags         int                   `json:"total_red_flags"`
	SheetsProcessed       []string              `json:"sheets_processed"`
	DetectedFormats       map[string]FormatInfo `json:"detected_formats"`
}

// Report is the complete analysis of one workbook
type Report struct {
	Status         string                  `json:"status"`
	Source         string                  `json:"source,omitempty"`
	SheetsAnalyzed int                     `json:"sheets_analyzed"`
	SheetOrder     []string                `json:"sheet_order"`
	OverallSummary OverallSummary          `json:"overall_summary"`
	Results        map[string]*SheetResult `json:"results"`
}

// StatusSuccess is the status reported for a completed analysis
const StatusSuccess = "success"
