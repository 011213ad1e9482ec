package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"auditintel/pkg/contracts/domain"
)

// OverallSheet is the sheet column value of a workbook's rollup row
const OverallSheet = "(overall)"

// SummaryHeaders are the columns of a summary export
var SummaryHeaders = []string{
	"File",
	"Sheet",
	"Format",
	"Records",
	"Average Compliance %",
	"Open Findings",
	"High Risk Findings",
	"Red Flags",
	"Error",
}

// ReportEntry pairs a report with the file it came from
type ReportEntry struct {
	File   string
	Report *domain.Report
}

// SummaryRecords flattens reports into one row per sheet plus one rollup row
// per workbook, in workbook sheet order
func SummaryRecords(entries []ReportEntry) [][]string {
	var records [][]string
	for _, e := range entries {
		if e.Report == nil {
			continue
		}
		for _, name := range e.Report.SheetOrder {
			res := e.Report.Results[name]
			if res == nil || res.Analysis == nil {
				continue
			}
			records = append(records, sheetRecord(e.File, name, res))
		}

		s := e.Report.OverallSummary
		records = append(records, []string{
			e.File,
			OverallSheet,
			"",
			formatInt(s.TotalRecordsAnalyzed),
			formatFloat(s.OverallComplianceRate),
			formatInt(s.TotalOpenFindings),
			formatInt(s.TotalHighRiskFindings),
			formatInt(s.TotalRedFlags),
			"",
		})
	}
	return records
}

func sheetRecord(file, sheet string, res *domain.SheetResult) []string {
	if e, ok := res.Analysis.(*domain.ErrorResult); ok {
		msg := e.Message
		if len(e.Columns) > 0 {
			msg += " (" + strings.Join(e.Columns, ", ") + ")"
		}
		return []string{file, sheet, string(res.DataFormat), "", "", "", "", "", msg}
	}

	t := res.Analysis.Totals()
	return []string{
		file,
		sheet,
		string(res.DataFormat),
		formatInt(t.Records),
		formatFloat(t.AverageCompliance),
		formatInt(t.OpenFindings),
		formatInt(t.HighRiskFindings),
		formatInt(t.RedFlags),
		"",
	}
}

// ExportFile writes the summary of entries to path. The extension picks the
// format: .csv or .xlsx.
func ExportFile(path string, entries []ReportEntry) error {
	records := SummaryRecords(entries)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		sw, err := CreateStreamWriter(path, SummaryHeaders)
		if err != nil {
			return err
		}
		for i, r := range records {
			if err := sw.WriteRecord(r); err != nil {
				sw.Close()
				return fmt.Errorf("failed to write record %d: %w", i, err)
			}
		}
		return sw.Close()
	case ".xlsx":
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		return WriteSummaryWorkbook(path, records)
	default:
		return fmt.Errorf("unsupported export format %q: use .csv or .xlsx", filepath.Ext(path))
	}
}
