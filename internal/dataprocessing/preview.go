package dataprocessing

import (
	"bytes"
	"encoding/json"

	"auditintel/pkg/contracts/domain"
)

// SheetPreview is the head of a sheet plus its shape
type SheetPreview struct {
	TotalRows    int          `json:"total_rows"`
	TotalColumns int          `json:"total_columns"`
	Columns      []string     `json:"columns"`
	Preview      []PreviewRow `json:"preview"`
}

// PreviewRow is one row keyed by column name. It encodes as a JSON object
// whose keys follow the sheet's column order.
type PreviewRow struct {
	Columns []string
	Cells   []domain.Cell
}

// Get returns the cell under the named column
func (r PreviewRow) Get(column string) (domain.Cell, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Cells[i], true
		}
	}
	return domain.EmptyCell(), false
}

func (r PreviewRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.Cells[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Preview returns the first n rows of t. Non-positive n yields no rows.
func Preview(t *domain.Table, n int) SheetPreview {
	head := t.Head(max(n, 0))
	p := SheetPreview{
		TotalRows:    t.Len(),
		TotalColumns: len(t.Columns),
		Columns:      append([]string{}, t.Columns...),
		Preview:      make([]PreviewRow, 0, head.Len()),
	}
	for i := 0; i < head.Len(); i++ {
		cells := make([]domain.Cell, len(t.Columns))
		for j := range cells {
			cells[j] = head.Cell(i, j)
		}
		p.Preview = append(p.Preview, PreviewRow{Columns: p.Columns, Cells: cells})
	}
	return p
}
