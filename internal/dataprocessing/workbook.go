package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"auditintel/internal/analysis"
	"auditintel/pkg/contracts/domain"
)

// LoaderConfig controls how workbooks are turned into tables
type LoaderConfig struct {
	MaxSheets           int  // 0 means no limit
	SanitizeNullMarkers bool // turn "N/A", "-", "null" and similar into empty cells
}

// WorkbookLoader reads spreadsheet workbooks into domain tables. The first
// row of every sheet is the header row; headers are trimmed.
type WorkbookLoader struct {
	logger *slog.Logger
	config LoaderConfig
}

// NewWorkbookLoader creates a loader
func NewWorkbookLoader(logger *slog.Logger, cfg LoaderConfig) *WorkbookLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookLoader{
		logger: logger.With(slog.String("component", "workbook_loader")),
		config: cfg,
	}
}

// LoadFile opens a workbook from disk
func (l *WorkbookLoader) LoadFile(ctx context.Context, path string) (*domain.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	return l.readSheets(ctx, f, filepath.Base(path))
}

// Read loads a workbook from a stream, e.g. an uploaded file
func (l *WorkbookLoader) Read(ctx context.Context, r io.Reader, source string) (*domain.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	return l.readSheets(ctx, f, source)
}

func (l *WorkbookLoader) readSheets(ctx context.Context, f *excelize.File, source string) (*domain.Workbook, error) {
	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, ErrNoSheets
	}
	if l.config.MaxSheets > 0 && len(names) > l.config.MaxSheets {
		return nil, fmt.Errorf("%w: %d sheets, limit is %d", ErrTooManySheets, len(names), l.config.MaxSheets)
	}

	wb := &domain.Workbook{Source: source, Sheets: make([]*domain.Table, 0, len(names))}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := l.readSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, t)
		l.logger.DebugContext(ctx, "sheet loaded",
			slog.String("source", source),
			slog.String("sheet", name),
			slog.Int("rows", t.Len()),
			slog.Int("columns", len(t.Columns)))
	}

	l.logger.InfoContext(ctx, "workbook loaded",
		slog.String("source", source),
		slog.Int("sheets", len(wb.Sheets)))
	return wb, nil
}

func (l *WorkbookLoader) readSheet(f *excelize.File, sheet string) (*domain.Table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	// leading blank rows are skipped; the first non-blank row is the header
	first := 0
	for first < len(rows) && blankRow(rows[first]) {
		first++
	}
	if first == len(rows) {
		return domain.NewTable(sheet, nil, nil), nil
	}

	header := rows[first]
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}
	columns := make([]string, len(header))
	for j, h := range header {
		columns[j] = h
		if strings.TrimSpace(h) == "" {
			columns[j] = fmt.Sprintf("Unnamed: %d", j)
		}
	}

	cells := make([][]domain.Cell, 0, len(rows)-first-1)
	for i := first + 1; i < len(rows); i++ {
		raw := rows[i]
		if blankRow(raw) {
			continue
		}
		row := make([]domain.Cell, len(columns))
		for j := range row {
			if j >= len(raw) {
				row[j] = domain.EmptyCell()
				continue
			}
			row[j] = l.cell(f, sheet, j+1, i+1, raw[j])
		}
		cells = append(cells, row)
	}

	return domain.NewTable(sheet, columns, cells), nil
}

// cell types a raw value. Numbers stored as numbers (or untyped cells that
// parse as numbers) become number cells; everything else stays text.
func (l *WorkbookLoader) cell(f *excelize.File, sheet string, col, row int, raw string) domain.Cell {
	if strings.TrimSpace(raw) == "" {
		return domain.EmptyCell()
	}
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return domain.TextCell(raw)
	}
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		typ = excelize.CellTypeUnset
	}

	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeUnset, excelize.CellTypeFormula, excelize.CellTypeDate:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return domain.NumberCell(v)
		}
	case excelize.CellTypeBool:
		return domain.TextCell(strings.ToUpper(boolText(raw)))
	}

	if l.config.SanitizeNullMarkers && analysis.IsNullMarker(raw) {
		return domain.EmptyCell()
	}
	return domain.TextCell(raw)
}

func boolText(raw string) string {
	switch raw {
	case "1":
		return "true"
	case "0":
		return "false"
	}
	return raw
}

func blankRow(raw []string) bool {
	for _, v := range raw {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
