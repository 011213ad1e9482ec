package validation

import (
	"fmt"
	"strings"

	"auditintel/internal/analysis"
	"auditintel/pkg/contracts/domain"
)

// WarningPrefix marks validation messages that do not invalidate a sheet
const WarningPrefix = "Warning:"

// Workbook validation status values
const (
	StatusValid   = "valid"
	StatusInvalid = "invalid"
)

// SheetValidation is the validation outcome for one sheet
type SheetValidation struct {
	Format        domain.Format  `json:"format"`
	IsValid       bool           `json:"is_valid"`
	Errors        []string       `json:"errors"`
	QualityReport *QualityReport `json:"quality_report"`
	RangeWarnings []string       `json:"range_warnings"`
}

// WorkbookValidation aggregates sheet validations in workbook order
type WorkbookValidation struct {
	Status            string                      `json:"status"`
	SheetsValidated   int                         `json:"sheets_validated"`
	ValidationResults map[string]*SheetValidation `json:"validation_results"`
	SheetOrder        []string                    `json:"sheet_order"`
}

// ValidateStructure checks a sheet's columns and row count. Sheets of an
// unrecognised format are held to the detailed findings requirements.
// Messages starting with WarningPrefix do not affect validity.
func ValidateStructure(t *domain.Table) (bool, []string) {
	format := analysis.DetectFormat(t)
	required := analysis.RequiredColumns(format)
	if required == nil {
		required = analysis.RequiredColumns(domain.FormatDetailedFindings)
	}

	errs := []string{}
	if missing := t.MissingColumns(required); len(missing) > 0 {
		errs = append(errs, fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")))
	}
	if t.Len() == 0 {
		errs = append(errs, "Excel sheet is empty")
	}
	if format == domain.FormatDetailedFindings || format == domain.FormatUnknown {
		if missing := t.MissingColumns(recommendedColumns); len(missing) > 0 {
			errs = append(errs, fmt.Sprintf("%s Missing recommended columns for enhanced analysis: %s",
				WarningPrefix, strings.Join(missing, ", ")))
		}
	}

	valid := true
	for _, e := range errs {
		if !strings.HasPrefix(e, WarningPrefix) {
			valid = false
			break
		}
	}
	return valid, errs
}

// ValidateSheet runs the structure, quality and range checks on one sheet
func ValidateSheet(t *domain.Table) *SheetValidation {
	valid, errs := ValidateStructure(t)
	return &SheetValidation{
		Format:        analysis.DetectFormat(t),
		IsValid:       valid,
		Errors:        errs,
		QualityReport: Quality(t),
		RangeWarnings: RangeWarnings(t),
	}
}

// ValidateWorkbook validates every sheet. The workbook is valid only when
// every sheet is.
func ValidateWorkbook(wb *domain.Workbook) *WorkbookValidation {
	out := &WorkbookValidation{
		Status:            StatusValid,
		SheetsValidated:   len(wb.Sheets),
		ValidationResults: make(map[string]*SheetValidation, len(wb.Sheets)),
		SheetOrder:        wb.SheetNames(),
	}
	for _, t := range wb.Sheets {
		sv := ValidateSheet(t)
		out.ValidationResults[t.Name] = sv
		if !sv.IsValid {
			out.Status = StatusInvalid
		}
	}
	return out
}
