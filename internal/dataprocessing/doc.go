// Package dataprocessing turns uploaded audit workbooks into domain tables.
//
// # Loading
//
// WorkbookLoader reads .xlsx and .xlsm files through excelize, either from
// disk or from an upload stream:
//
//	loader := dataprocessing.NewWorkbookLoader(logger, dataprocessing.LoaderConfig{MaxSheets: 50})
//	wb, err := loader.Read(ctx, file, header.Filename)
//
// Each sheet becomes a domain.Table. The first non-blank row is the header
// row; header names are trimmed and blank headers are named "Unnamed: N".
// Cells stored as numbers become number cells, everything else is kept as
// text exactly as written so the analyzers can apply their own coercion.
// Fully blank data rows are skipped.
//
// # Previews
//
// Preview returns the first rows of a table in a JSON form that keeps the
// sheet's column order, for the preview endpoint and the CLI.
//
// # Errors
//
// Unreadable input wraps ErrUnreadableWorkbook. ErrNoSheets and
// ErrTooManySheets report workbook shape problems. Per-sheet failures are
// wrapped with the sheet name.
package dataprocessing
