// Package exporter writes analysis reports as flat summary tables.
//
// Each workbook contributes one row per sheet (its format, record count and
// rolled-up totals, or the error that replaced its analysis) followed by a
// rollup row whose Sheet column is OverallSheet.
//
// Example usage:
//
//	entries := []exporter.ReportEntry{{File: "q1.xlsx", Report: report}}
//
//	// CSV with a UTF-8 BOM so Excel opens it correctly
//	err := exporter.ExportFile("out/summary.csv", entries)
//
//	// or a single-sheet workbook
//	err = exporter.ExportFile("out/summary.xlsx", entries)
package exporter
