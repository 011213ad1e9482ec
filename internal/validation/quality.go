package validation

import (
	"math"
	"strconv"
	"strings"

	"auditintel/pkg/contracts/domain"
)

// Column data type labels
const (
	TypeNumber = "number"
	TypeText   = "text"
	TypeMixed  = "mixed"
	TypeEmpty  = "empty"
)

// QualityReport summarises completeness and typing of a sheet
type QualityReport struct {
	TotalRows     int                    `json:"total_rows"`
	TotalColumns  int                    `json:"total_columns"`
	DuplicateRows int                    `json:"duplicate_rows"`
	MissingData   map[string]MissingData `json:"missing_data"`
	DataTypes     map[string]string      `json:"data_types"`
	Columns       []string               `json:"columns"`
}

// MissingData counts empty cells in one column
type MissingData struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Quality builds the quality report for t. Only columns with at least one
// empty cell appear in MissingData.
func Quality(t *domain.Table) *QualityReport {
	r := &QualityReport{
		TotalRows:     t.Len(),
		TotalColumns:  len(t.Columns),
		DuplicateRows: duplicateRows(t),
		MissingData:   map[string]MissingData{},
		DataTypes:     make(map[string]string, len(t.Columns)),
		Columns:       append([]string{}, t.Columns...),
	}

	for j, col := range t.Columns {
		var missing, numbers, texts int
		for i := 0; i < t.Len(); i++ {
			switch t.Cell(i, j).Kind {
			case domain.CellNumber:
				numbers++
			case domain.CellText:
				texts++
			default:
				missing++
			}
		}
		if missing > 0 {
			r.MissingData[col] = MissingData{
				Count:      missing,
				Percentage: math.Round(float64(missing)/float64(t.Len())*100*100) / 100,
			}
		}
		r.DataTypes[col] = columnType(numbers, texts)
	}
	return r
}

func columnType(numbers, texts int) string {
	switch {
	case numbers > 0 && texts > 0:
		return TypeMixed
	case numbers > 0:
		return TypeNumber
	case texts > 0:
		return TypeText
	default:
		return TypeEmpty
	}
}

// duplicateRows counts rows identical to an earlier row
func duplicateRows(t *domain.Table) int {
	seen := make(map[string]struct{}, t.Len())
	dups := 0
	for i := 0; i < t.Len(); i++ {
		key := rowKey(t, i)
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

func rowKey(t *domain.Table, i int) string {
	var b strings.Builder
	for j := range t.Columns {
		c := t.Cell(i, j)
		b.WriteString(strconv.Itoa(int(c.Kind)))
		b.WriteByte(':')
		switch c.Kind {
		case domain.CellNumber:
			b.WriteString(strconv.FormatFloat(c.Num, 'g', -1, 64))
		case domain.CellText:
			b.WriteString(c.Str)
		}
		b.WriteByte(0x1f)
	}
	return b.String()
}
