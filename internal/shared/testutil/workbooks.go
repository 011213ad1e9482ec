package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SheetFixture is one worksheet: a header row followed by data rows
type SheetFixture struct {
	Name   string
	Header []any
	Rows   [][]any
}

// FindingsSheet is a small detailed-findings sheet: two OPEN findings, one
// CLOSED, one of them a red flag and one high risk.
func FindingsSheet(name string) SheetFixture {
	return SheetFixture{
		Name:   name,
		Header: []any{"Compliance %", "Score Gap", "Status", "Checklist Title", "PE Name", "Red Flag", "Estimated Budget"},
		Rows: [][]any{
			{85, 1, "OPEN", "Tender Evaluation", "Ministry of Water", "NO", 1500000},
			{40, 6, "OPEN", "Contract Award", "Ministry of Water", "YES", 60000000},
			{95, 0, "CLOSED", "Tender Evaluation", "City Council", "NO", 250000},
		},
	}
}

// EntitySummarySheet is a two-entity summary sheet
func EntitySummarySheet(name string) SheetFixture {
	return SheetFixture{
		Name:   name,
		Header: []any{"Procuring Entity", "Overall %", "Tenders", "Status"},
		Rows: [][]any{
			{"Ministry of Water", 82.5, 12, "OPEN"},
			{"City Council", 45, 3, "CLOSED"},
		},
	}
}

// UnknownSheet has no recognised column set
func UnknownSheet(name string) SheetFixture {
	return SheetFixture{
		Name:   name,
		Header: []any{"Foo", "Bar"},
		Rows:   [][]any{{"a", 1}},
	}
}

// NewWorkbook builds an in-memory workbook from the fixtures. The caller
// owns the returned file; it is closed when the test ends.
func NewWorkbook(t *testing.T, sheets ...SheetFixture) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("create sheet %q: %v", s.Name, err)
		}
		if len(s.Header) > 0 {
			header := s.Header
			if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
				t.Fatalf("write header: %v", err)
			}
		}
		for j, row := range s.Rows {
			row := row
			if err := f.SetSheetRow(s.Name, fmt.Sprintf("A%d", j+2), &row); err != nil {
				t.Fatalf("write row: %v", err)
			}
		}
	}
	return f
}

// WriteWorkbook saves the fixtures as name inside a temp dir and returns the path
func WriteWorkbook(t *testing.T, name string, sheets ...SheetFixture) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := NewWorkbook(t, sheets...).SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// WorkbookBytes returns the fixtures encoded as an .xlsx file
func WorkbookBytes(t *testing.T, sheets ...SheetFixture) []byte {
	t.Helper()
	buf, err := NewWorkbook(t, sheets...).WriteToBuffer()
	if err != nil {
		t.Fatalf("encode workbook: %v", err)
	}
	return buf.Bytes()
}
