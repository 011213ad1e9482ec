package analysis

import (
	"strings"

	"auditintel/pkg/contracts/domain"
)

// Column headers recognised across the supported sheet formats
const (
	ColCompliance         = "Compliance %"
	ColScoreGap           = "Score Gap"
	ColStatus             = "Status"
	ColChecklistTitle     = "Checklist Title"
	ColPEName             = "PE Name"
	ColPECategory         = "PE Category"
	ColEntityName         = "Entity Name"
	ColEntityNumber       = "Entity Number"
	ColRedFlag            = "Red Flag"
	ColAuditType          = "Audit Type"
	ColExpectedScore      = "Expected Score"
	ColActualScore        = "Actual Score"
	ColEstimatedBudget    = "Estimated Budget"
	ColTenders            = "Tenders"
	ColTotalBudget        = "Total Budget"
	ColTenderCount        = "Tender Count"
	ColFindingTitle       = "Finding Title"
	ColFindingDescription = "Finding Description"
	ColRecommendation     = "Recommendation"
	ColCreatedAt          = "Created At"
	ColProcuringEntity    = "Procuring Entity"
	ColOverall            = "Overall %"
	ColTenderingAvg       = "Tendering Avg"
	ColAppMarks           = "App Marks"
	ColInstitution        = "Institution"
	ColSummaryCategory    = "Pe Category"
	ColTenderNumber       = "Tender Number"
)

// Status values compared after trimming and upper-casing
const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// numericColumn is a cleaned numeric column. Null entries have ok[i] == false.
type numericColumn struct {
	present bool
	vals    []float64
	ok      []bool
}

func cleanColumn(t *domain.Table, name string, clean func(domain.Cell) (float64, bool)) numericColumn {
	cells := t.Column(name)
	if cells == nil {
		return numericColumn{vals: make([]float64, t.Len()), ok: make([]bool, t.Len())}
	}
	col := numericColumn{present: true, vals: make([]float64, len(cells)), ok: make([]bool, len(cells))}
	for i, c := range cells {
		col.vals[i], col.ok[i] = clean(c)
	}
	return col
}

func (c numericColumn) at(i int) (float64, bool) {
	if i >= len(c.vals) {
		return 0, false
	}
	return c.vals[i], c.ok[i]
}

// value returns the entry or zero when null
func (c numericColumn) value(i int) float64 {
	v, _ := c.at(i)
	return v
}

func (c numericColumn) nonNull() int {
	n := 0
	for _, ok := range c.ok {
		if ok {
			n++
		}
	}
	return n
}

func (c numericColumn) max() (float64, bool) {
	var m float64
	found := false
	for i, ok := range c.ok {
		if ok && (!found || c.vals[i] > m) {
			m, found = c.vals[i], true
		}
	}
	return m, found
}

func (c numericColumn) scale(f float64) {
	for i, ok := range c.ok {
		if ok {
			c.vals[i] *= f
		}
	}
}

// textColumn is a trimmed text view of a column. Empty cells read as "".
type textColumn struct {
	present bool
	vals    []string
}

func textOf(t *domain.Table, name string) textColumn {
	cells := t.Column(name)
	if cells == nil {
		return textColumn{vals: make([]string, t.Len())}
	}
	col := textColumn{present: true, vals: make([]string, len(cells))}
	for i, c := range cells {
		col.vals[i] = c.Trimmed()
	}
	return col
}

func (c textColumn) at(i int) string {
	if i >= len(c.vals) {
		return ""
	}
	return c.vals[i]
}

// or returns the entry, or fallback when blank
func (c textColumn) or(i int, fallback string) string {
	if v := c.at(i); v != "" {
		return v
	}
	return fallback
}

func (c textColumn) upper(i int) string {
	return strings.ToUpper(c.at(i))
}

func (c textColumn) isOpen(i int) bool   { return c.upper(i) == StatusOpen }
func (c textColumn) isClosed(i int) bool { return c.upper(i) == StatusClosed }

func checkRequired(t *domain.Table, required []string) error {
	if missing := t.MissingColumns(required); len(missing) > 0 {
		return &MissingColumnError{Column: missing[0]}
	}
	return nil
}
