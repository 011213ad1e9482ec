package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CellKind identifies which variant a Cell holds
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// String returns the lowercase name of the kind
func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	default:
		return "empty"
	}
}

// Cell is a single spreadsheet value: a number, a piece of text, or nothing.
// The zero value is an empty cell.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
}

// NumberCell returns a numeric cell
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Num: v} }

// TextCell returns a text cell
func TextCell(s string) Cell { return Cell{Kind: CellText, Str: s} }

// EmptyCell returns an empty cell
func EmptyCell() Cell { return Cell{} }

// IsEmpty reports whether the cell has no value
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// String renders the cell as it would appear in a sheet. Empty cells render as "".
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellText:
		return c.Str
	default:
		return ""
	}
}

// Trimmed returns the string form with surrounding whitespace removed
func (c Cell) Trimmed() string {
	return strings.TrimSpace(c.String())
}

// MarshalJSON encodes numbers as JSON numbers, text as strings and empty as null
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellNumber:
		return json.Marshal(c.Num)
	case CellText:
		return json.Marshal(c.Str)
	default:
		return []byte("null"), nil
	}
}

// Table is one sheet: ordered column names and ordered rows of cells.
// Rows may be shorter than the header; missing trailing cells read as empty.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`

	index map[string]int
}

// NewTable builds a table with whitespace-trimmed column names
func NewTable(name string, columns []string, rows [][]Cell) *Table {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = strings.TrimSpace(c)
	}
	t := &Table{Name: name, Columns: cols, Rows: rows}
	t.buildIndex()
	return t
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		// first occurrence wins for duplicated headers
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
}

// ColumnIndex returns the position of the named column
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t.index == nil {
		t.buildIndex()
	}
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the table carries the named column (exact match)
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// MissingColumns returns the names from required that the table lacks, in order
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, c := range required {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Len returns the number of data rows
func (t *Table) Len() int { return len(t.Rows) }

// Cell returns the value at row/column, or an empty cell when out of range
func (t *Table) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return Cell{}
	}
	r := t.Rows[row]
	if col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// Column returns every value of the named column, or nil if the column is absent
func (t *Table) Column(name string) []Cell {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil
	}
	out := make([]Cell, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Cell(i, idx)
	}
	return out
}

// Head returns a copy of the table restricted to its first n rows
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	c := t.Clone()
	c.Rows = c.Rows[:n]
	return c
}

// Clone deep-copies the table
func (t *Table) Clone() *Table {
	rows := make([][]Cell, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append([]Cell(nil), r...)
	}
	return NewTable(t.Name, append([]string(nil), t.Columns...), rows)
}

// Workbook is an ordered list of sheets from a single upload
type Workbook struct {
	Source string   `json:"source"`
	Sheets []*Table `json:"sheets"`
}

// SheetNames returns sheet names in workbook order
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet looks a table up by name
func (w *Workbook) Sheet(name string) (*Table, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
