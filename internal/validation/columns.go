package validation

import (
	"auditintel/internal/analysis"
	"auditintel/pkg/contracts/domain"
)

// ColumnCatalog groups the columns an upload is expected to carry
type ColumnCatalog struct {
	Required    []string `json:"required_columns"`
	Recommended []string `json:"recommended_columns"`
	Optional    []string `json:"optional_columns"`
}

// recommendedColumns enable the richer parts of the findings analysis
var recommendedColumns = []string{
	analysis.ColExpectedScore,
	analysis.ColActualScore,
	analysis.ColRedFlag,
	analysis.ColAuditType,
	analysis.ColPECategory,
	analysis.ColEstimatedBudget,
	analysis.ColEntityName,
}

// Columns returns the catalog served to clients. Required columns are those of
// the detailed findings format.
func Columns() ColumnCatalog {
	return ColumnCatalog{
		Required: analysis.RequiredColumns(domain.FormatDetailedFindings),
		Recommended: []string{
			analysis.ColExpectedScore,
			analysis.ColActualScore,
			analysis.ColRedFlag,
			analysis.ColAuditType,
			analysis.ColPECategory,
			analysis.ColPEName,
			"Financial Year",
			analysis.ColEstimatedBudget,
			analysis.ColEntityName,
			analysis.ColEntityNumber,
			analysis.ColFindingTitle,
			analysis.ColFindingDescription,
			analysis.ColRecommendation,
			"Implication",
			"Management Response",
		},
		Optional: []string{
			"Auditor Opinion",
			"Created Date",
			"Updated Date",
			"Requirement Name",
		},
	}
}
