package domain

// EntitySummaryAnalysis is the result for an entity_summary sheet
type EntitySummaryAnalysis struct {
	TotalEntities             int     `json:"total_entities"`
	AverageOverallPerformance float64 `json:"average_overall_performance"`

	PerformanceDistribution PerformanceDistribution `json:"performance_distribution"`
	CategoryBreakdown       map[string]int          `json:"category_breakdown"`
	StatusBreakdown         map[string]int          `json:"status_breakdown"`

	TendersAnalysis      *TendersAnalysis      `json:"tenders_analysis,omitempty"`
	TenderingPerformance *TenderingPerformance `json:"tendering_performance,omitempty"`

	TopPerformers    []EntityPerformer `json:"top_performers"`
	BottomPerformers []EntityPerformer `json:"bottom_performers"`

	EntityByCategory map[string]CategoryPerformance `json:"entity_by_category,omitzero"`
	DetailedEntities map[string]EntityDetail        `json:"detailed_entities"`
}

// PerformanceDistribution buckets entities by overall percentage
type PerformanceDistribution struct {
	Excellent        int `json:"excellent"`
	Good             int `json:"good"`
	Satisfactory     int `json:"satisfactory"`
	NeedsImprovement int `json:"needs_improvement"`
}

type TendersAnalysis struct {
	TotalTenders            int     `json:"total_tenders"`
	AverageTendersPerEntity float64 `json:"average_tenders_per_entity"`
	MaxTenders              int     `json:"max_tenders"`
	MinTenders              int     `json:"min_tenders"`
}

type TenderingPerformance struct {
	AverageTenderingScore float64 `json:"average_tendering_score"`
	EntitiesAbove80       int     `json:"entities_above_80"`
	EntitiesBelow60       int     `json:"entities_below_60"`
}

// EntityPerformer is one entry of the top or bottom performer rankings
type EntityPerformer struct {
	Entity            string  `json:"entity"`
	OverallPercentage float64 `json:"overall_percentage"`
	Tenders           int     `json:"tenders"`
	TenderNumber      string  `json:"tender_number"`
}

type CategoryPerformance struct {
	Count          int     `json:"count"`
	AverageOverall float64 `json:"average_overall"`
	TotalTenders   int     `json:"total_tenders"`
}

// EntityDetail is the per-entity record; when a name repeats the last row wins.
// Missing scores read as zero and missing text as N/A.
type EntityDetail struct {
	OverallPercentage float64 `json:"overall_percentage"`
	Tenders           int     `json:"tenders"`
	TenderingAvg      float64 `json:"tendering_avg"`
	AppMarks          float64 `json:"app_marks"`
	InstitutionScore  float64 `json:"institution_score"`
	Status            string  `json:"status"`
	Category          string  `json:"category"`
	TenderNumber      string  `json:"tender_number"`
}

// NotAvailable is the placeholder used when an optional text value is missing
const NotAvailable = "N/A"

// ResultFormat implements AnalysisResult
func (a *EntitySummaryAnalysis) ResultFormat() Format { return FormatEntitySummary }

// Totals implements AnalysisResult. Entity rows are counted as records; the
// overall percentage is a performance score, not a compliance rate.
func (a *EntitySummaryAnalysis) Totals() SheetTotals {
	return SheetTotals{Records: a.TotalEntities}
}
