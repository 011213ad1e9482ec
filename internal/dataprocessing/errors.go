package dataprocessing

import "errors"

var (
	// ErrUnreadableWorkbook is returned when the input is not a readable spreadsheet
	ErrUnreadableWorkbook = errors.New("workbook could not be read")
	// ErrNoSheets is returned for a workbook without worksheets
	ErrNoSheets = errors.New("workbook has no sheets")
	// ErrTooManySheets is returned when a workbook exceeds the configured sheet limit
	ErrTooManySheets = errors.New("workbook has too many sheets")
)
