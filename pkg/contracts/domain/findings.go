package domain

// FindingsAnalysis is the result for a detailed_findings sheet.
// Grouped sections are nil, and omitted from JSON, when their grouping column is absent.
type FindingsAnalysis struct {
	TotalRecords             int     `json:"total_records"`
	AverageCompliance        float64 `json:"average_compliance"`
	OpenFindings             int     `json:"open_findings"`
	ClosedFindings           int     `json:"closed_findings"`
	HighRiskFindings         int     `json:"high_risk_findings"`
	MediumRiskFindings       int     `json:"medium_risk_findings"`
	LowRiskFindings          int     `json:"low_risk_findings"`
	RedFlagCount             int     `json:"red_flag_count"`
	MissingComplianceRecords int     `json:"missing_compliance_records"`

	AuditTypeBreakdown map[string]int `json:"audit_type_breakdown"`
	CategoryBreakdown  map[string]int `json:"category_breakdown"`
	TopEntities        map[string]int `json:"top_entities"`
	ChecklistBreakdown map[string]int `json:"checklist_breakdown"`

	ComplianceDistribution ComplianceDistribution `json:"compliance_distribution"`

	FinancialAnalysis *FinancialAnalysis `json:"financial_analysis,omitempty"`
	ScoreAnalysis     *ScoreAnalysis     `json:"score_analysis,omitempty"`

	PENameAnalysis            map[string]PEFindingStats        `json:"pe_name_analysis,omitzero"`
	ChecklistDetailedAnalysis map[string]ChecklistFindingStats `json:"checklist_detailed_analysis,omitzero"`
	EntityAnalysis            map[string]EntityFindingStats    `json:"entity_analysis,omitzero"`
	StatusDetailedAnalysis    StatusDetailedAnalysis           `json:"status_detailed_analysis"`
	BudgetDistribution        *BudgetDistribution              `json:"budget_distribution,omitempty"`
}

// ComplianceDistribution buckets rows by compliance percentage
type ComplianceDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

type FinancialAnalysis struct {
	TotalBudget            float64 `json:"total_budget"`
	AverageBudget          float64 `json:"average_budget"`
	BudgetAtRisk           float64 `json:"budget_at_risk"`
	BudgetAtRiskPercentage float64 `json:"budget_at_risk_percentage"`
}

type ScoreAnalysis struct {
	TotalExpectedScore   float64 `json:"total_expected_score"`
	TotalActualScore     float64 `json:"total_actual_score"`
	TotalScoreGap        float64 `json:"total_score_gap"`
	ScoreAchievementRate float64 `json:"score_achievement_rate"`
}

// PEFindingStats aggregates findings for one procuring entity
type PEFindingStats struct {
	TotalFindings     int     `json:"total_findings"`
	OpenFindings      int     `json:"open_findings"`
	ClosedFindings    int     `json:"closed_findings"`
	AverageCompliance float64 `json:"average_compliance"`
	TotalBudget       float64 `json:"total_budget"`
	HighRiskFindings  int     `json:"high_risk_findings"`
	RedFlagCount      int     `json:"red_flag_count"`
	PECategory        string  `json:"pe_category"`
}

// ChecklistFindingStats aggregates findings for one checklist item
type ChecklistFindingStats struct {
	TotalFindings     int     `json:"total_findings"`
	OpenFindings      int     `json:"open_findings"`
	ClosedFindings    int     `json:"closed_findings"`
	AverageCompliance float64 `json:"average_compliance"`
	TotalScoreGap     float64 `json:"total_score_gap"`
	AuditType         string  `json:"audit_type"`
}

// EntityFindingStats aggregates findings for one audited entity, keyed "Name (Number)"
type EntityFindingStats struct {
	TotalFindings     int     `json:"total_findings"`
	OpenFindings      int     `json:"open_findings"`
	ClosedFindings    int     `json:"closed_findings"`
	AverageCompliance float64 `json:"average_compliance"`
	TotalBudget       float64 `json:"total_budget"`
	BudgetAtRisk      float64 `json:"budget_at_risk"`
	HighRisk          int     `json:"high_risk"`
	MediumRisk        int     `json:"medium_risk"`
	LowRisk           int     `json:"low_risk"`
}

// StatusDetailedAnalysis always carries both statuses, even when one has no rows
type StatusDetailedAnalysis struct {
	Open   StatusStats `json:"OPEN"`
	Closed StatusStats `json:"CLOSED"`
}

type StatusStats struct {
	Count                 int            `json:"count"`
	AverageCompliance     float64        `json:"average_compliance"`
	TotalBudget           float64        `json:"total_budget"`
	TotalScoreGap         float64        `json:"total_score_gap"`
	HighRiskCount         int            `json:"high_risk_count"`
	RedFlagCount          int            `json:"red_flag_count"`
	AuditTypeDistribution map[string]int `json:"audit_type_distribution"`
}

// Budget range labels used by BudgetDistribution, smallest first
const (
	BudgetRangeUnder10M = "< 10M"
	BudgetRange10To50M  = "10M - 50M"
	BudgetRange50To100M = "50M - 100M"
	BudgetRangeOver100M = "> 100M"
)

// BudgetRanges lists the BudgetDistribution labels in ascending order
var BudgetRanges = []string{BudgetRangeUnder10M, BudgetRange10To50M, BudgetRange50To100M, BudgetRangeOver100M}

type BudgetDistribution struct {
	TotalBudget             float64        `json:"total_budget"`
	BudgetRangeDistribution map[string]int `json:"budget_range_distribution"`
	TopBudgetItems          []BudgetItem   `json:"top_budget_items"`
	TopPEsByBudget          []PEBudget     `json:"top_pes_by_budget"`
}

type BudgetItem struct {
	Entity            string   `json:"entity"`
	Budget            float64  `json:"budget"`
	Status            string   `json:"status"`
	Compliance        *float64 `json:"compliance"`
	PercentageOfTotal float64  `json:"percentage_of_total"`
}

type PEBudget struct {
	PEName      string  `json:"pe_name"`
	TotalBudget float64 `json:"total_budget"`
}

// ResultFormat implements AnalysisResult
func (a *FindingsAnalysis) ResultFormat() Format { return FormatDetailedFindings }

// Totals implements AnalysisResult
func (a *FindingsAnalysis) Totals() SheetTotals {
	return SheetTotals{
		Records:           a.TotalRecords,
		AverageCompliance: a.AverageCompliance,
		OpenFindings:      a.OpenFindings,
		HighRiskFindings:  a.HighRiskFindings,
		RedFlags:          a.RedFlagCount,
	}
}
