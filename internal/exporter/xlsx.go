package exporter

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// SummarySheet is the sheet name of a workbook export
const SummarySheet = "Summary"

// numericColumns are the SummaryHeaders indexes written as numbers
var numericColumns = map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true}

// WriteSummaryWorkbook writes records under a bold header row to a single
// sheet workbook. Numeric columns are stored as numbers.
func WriteSummaryWorkbook(path string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(SummaryHeaders))
	for i, h := range SummaryHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(SummaryHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}

	for i, record := range records {
		row := make([]any, len(record))
		for j, v := range record {
			row[j] = cellValue(j, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func cellValue(col int, v string) any {
	if v == "" || !numericColumns[col] {
		return v
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n
	}
	return v
}
