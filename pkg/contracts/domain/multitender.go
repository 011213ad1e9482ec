package domain

// MultiTenderAnalysis is the result for a detailed_findings_multi_tender sheet.
// Values are bare; labels and descriptions come from MetricCatalog.
type MultiTenderAnalysis struct {
	TotalFindings            int     `json:"total_findings"`
	OpenFindings             int     `json:"open_findings"`
	ClosedFindings           int     `json:"closed_findings"`
	RedFlags                 int     `json:"red_flags"`
	TotalBudget              float64 `json:"total_budget"`
	AverageBudgetPerFinding  float64 `json:"average_budget_per_finding"`
	TotalTenders             int     `json:"total_tenders"`
	UniqueTenders            int     `json:"unique_tenders"`
	AverageTendersPerFinding float64 `json:"average_tenders_per_finding"`

	BudgetRangeDistribution map[string]TenderBudgetRange `json:"budget_range_distribution"`

	PEAnalysis          map[string]PETenderStats        `json:"pe_analysis"`
	ChecklistAnalysis   map[string]ChecklistTenderStats `json:"checklist_analysis"`
	TopEntitiesByBudget []EntityBudgetSummary           `json:"top_entities_by_budget"`
	DetailedFindings    []FindingDetail                 `json:"detailed_findings"`
}

// Tender budget range labels, smallest first
const (
	TenderRangeUpTo50M   = "0-50M"
	TenderRange50To100M  = "50M-100M"
	TenderRange100To200M = "100M-200M"
	TenderRange200To500M = "200M-500M"
	TenderRangeOver500M  = "500M+"
)

// TenderRanges lists the tender budget ranges in ascending order
var TenderRanges = []string{TenderRangeUpTo50M, TenderRange50To100M, TenderRange100To200M, TenderRange200To500M, TenderRangeOver500M}

type TenderBudgetRange struct {
	Count       int     `json:"count"`
	TotalBudget float64 `json:"total_budget"`
	Percentage  float64 `json:"percentage"`
}

// PETenderStats aggregates multi-tender findings for one procuring entity
type PETenderStats struct {
	TotalFindings  int      `json:"total_findings"`
	OpenFindings   int      `json:"open_findings"`
	ClosedFindings int      `json:"closed_findings"`
	TotalBudget    float64  `json:"total_budget"`
	TotalTenders   int      `json:"total_tenders"`
	TenderNumbers  []string `json:"tender_numbers"`
	TenderDetails  []Tender `json:"tender_details"`
	RedFlags       int      `json:"red_flags"`
}

// Checklist risk levels
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
	RiskLow    = "Low"
)

type ChecklistTenderStats struct {
	TotalFindings            int     `json:"total_findings"`
	OpenFindings             int     `json:"open_findings"`
	ClosedFindings           int     `json:"closed_findings"`
	CompletionRate           float64 `json:"completion_rate"`
	TotalBudget              float64 `json:"total_budget"`
	AverageBudgetPerFinding  float64 `json:"average_budget_per_finding"`
	TotalTenders             int     `json:"total_tenders"`
	AverageTendersPerFinding float64 `json:"average_tenders_per_finding"`
	RedFlags                 int     `json:"red_flags"`
	AffectedEntities         int     `json:"affected_entities"`
	RiskLevel                string  `json:"risk_level"`
}

// EntityBudgetSummary is one row of the top-entities-by-budget ranking
type EntityBudgetSummary struct {
	EntityName    string   `json:"entity_name"`
	TotalBudget   float64  `json:"total_budget"`
	TotalFindings int      `json:"total_findings"`
	OpenFindings  int      `json:"open_findings"`
	TotalTenders  int      `json:"total_tenders"`
	TenderNumbers []string `json:"tender_numbers"`
	TenderDetails []Tender `json:"tender_details"`
	RedFlags      int      `json:"red_flags"`
}

// FindingDetail is the per-row view of a multi-tender finding
type FindingDetail struct {
	PEName         string   `json:"pe_name"`
	Checklist      string   `json:"checklist"`
	FindingTitle   string   `json:"finding_title"`
	Status         string   `json:"status"`
	RedFlag        string   `json:"red_flag"`
	TotalBudget    float64  `json:"total_budget"`
	TenderCount    int      `json:"tender_count"`
	Tenders        []Tender `json:"tenders"`
	Description    string   `json:"description,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	CreatedAt      string   `json:"created_at,omitempty"`
}

// ResultFormat implements AnalysisResult
func (a *MultiTenderAnalysis) ResultFormat() Format { return FormatMultiTender }

// Totals implements AnalysisResult. Multi-tender sheets carry no compliance score.
func (a *MultiTenderAnalysis) Totals() SheetTotals {
	return SheetTotals{
		Records:      a.TotalFindings,
		OpenFindings: a.OpenFindings,
		RedFlags:     a.RedFlags,
	}
}
