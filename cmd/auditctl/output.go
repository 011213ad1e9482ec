package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v2"

	"auditintel/internal/services"
	"auditintel/internal/validation"
	"auditintel/pkg/contracts/domain"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
	outputText = "text"
	outputCSV  = "csv"
)

func validOutput(format string) bool {
	switch format {
	case outputJSON, outputYAML, outputText, outputCSV:
		return true
	}
	return false
}

// writeStructured encodes v as indented JSON or as YAML. YAML goes through
// the JSON encoding so both formats share field names and key order.
func writeStructured(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if format != outputYAML {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var doc any
	if strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		var list []yaml.MapSlice
		err = yaml.Unmarshal(data, &list)
		doc = list
	} else {
		var m yaml.MapSlice
		err = yaml.Unmarshal(data, &m)
		doc = m
	}
	if err != nil {
		return fmt.Errorf("convert result to yaml: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func renderReport(r fileResult[*domain.Report]) string {
	var b strings.Builder
	s := r.Result.OverallSummary
	fmt.Fprintf(&b, "%s: %d sheets, %d records, overall compliance %.2f%%\n",
		r.File, r.Result.SheetsAnalyzed, s.TotalRecordsAnalyzed, s.OverallComplianceRate)
	fmt.Fprintf(&b, "  open findings: %d  high risk: %d  red flags: %d\n",
		s.TotalOpenFindings, s.TotalHighRiskFindings, s.TotalRedFlags)

	for _, name := range r.Result.SheetOrder {
		res := r.Result.Results[name]
		if res == nil {
			continue
		}
		fmt.Fprintf(&b, "\n  [%s] %s\n", name, res.DataFormat)
		if e, ok := res.Analysis.(*domain.ErrorResult); ok {
			fmt.Fprintf(&b, "    error: %s\n", e.Message)
			if len(e.Columns) > 0 {
				fmt.Fprintf(&b, "    columns: %s\n", strings.Join(e.Columns, ", "))
			}
			continue
		}
		if res.Summary != "" {
			fmt.Fprintf(&b, "    %s\n", res.Summary)
		}
		if res.Insights != nil {
			writeList(&b, "priority", res.Insights.PriorityActions)
			writeList(&b, "concern", res.Insights.AreasOfConcern)
			writeList(&b, "positive", res.Insights.PositiveHighlights)
			writeList(&b, "recommend", res.Insights.Recommendations)
		}
	}
	return b.String()
}

func writeList(b *strings.Builder, label string, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "    %s: %s\n", label, item)
	}
}

func renderValidation(r fileResult[*validation.WorkbookValidation]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s (%d sheets)\n", r.File, r.Result.Status, r.Result.SheetsValidated)
	for _, name := range r.Result.SheetOrder {
		sv := r.Result.ValidationResults[name]
		if sv == nil {
			continue
		}
		state := "valid"
		if !sv.IsValid {
			state = "invalid"
		}
		fmt.Fprintf(&b, "  %s: %s (%s)\n", name, state, sv.Format)
		for _, msg := range sv.Errors {
			fmt.Fprintf(&b, "    - %s\n", msg)
		}
		for _, msg := range sv.RangeWarnings {
			fmt.Fprintf(&b, "    ! %s\n", msg)
		}
	}
	return b.String()
}

func renderDetect(r fileResult[*services.DetectResult]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", r.File)
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, name := range r.Result.SheetOrder {
		info := r.Result.Formats[name]
		fmt.Fprintf(tw, "  %s\t%s\t%d rows\t%d columns\n", name, info.Format, info.TotalRows, info.TotalColumns)
	}
	_ = tw.Flush()
	return b.String()
}

func renderPreview(r fileResult[*services.PreviewResult]) string {
	var b strings.Builder
	for _, name := range r.Result.SheetOrder {
		p := r.Result.Data[name]
		fmt.Fprintf(&b, "%s [%s] %d of %d rows\n", r.File, name, len(p.Preview), p.TotalRows)

		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(p.Columns, "\t"))
		for _, row := range p.Preview {
			cells := make([]string, len(row.Cells))
			for i, cell := range row.Cells {
				cells[i] = cell.String()
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		_ = tw.Flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func renderColumns(c validation.ColumnCatalog) string {
	var b strings.Builder
	for _, group := range []struct {
		label   string
		columns []string
	}{
		{"required", c.Required},
		{"recommended", c.Recommended},
		{"optional", c.Optional},
	} {
		fmt.Fprintf(&b, "%s:\n", group.label)
		for _, col := range group.columns {
			fmt.Fprintf(&b, "  %s\n", col)
		}
	}
	return b.String()
}
