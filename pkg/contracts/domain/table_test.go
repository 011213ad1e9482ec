package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableTrimsColumns(t *testing.T) {
	tbl := NewTable("Findings", []string{" Status ", "Compliance %\t", "Score Gap"}, nil)

	assert.Equal(t, []string{"Status", "Compliance %", "Score Gap"}, tbl.Columns)
	assert.True(t, tbl.HasColumn("Compliance %"))
	assert.False(t, tbl.HasColumn("compliance %"), "lookups are case-sensitive")
	assert.Equal(t, []string{"Checklist Title"}, tbl.MissingColumns([]string{"Status", "Checklist Title"}))
}

func TestTableCellOutOfRange(t *testing.T) {
	tbl := NewTable("s", []string{"A", "B"}, [][]Cell{{TextCell("x")}})

	assert.Equal(t, TextCell("x"), tbl.Cell(0, 0))
	assert.True(t, tbl.Cell(0, 1).IsEmpty(), "short rows pad with empty cells")
	assert.True(t, tbl.Cell(5, 0).IsEmpty())
	assert.Nil(t, tbl.Column("Missing"))
	assert.Len(t, tbl.Column("B"), 1)
}

func TestTableCloneIsIndependent(t *testing.T) {
	tbl := NewTable("s", []string{"A"}, [][]Cell{{NumberCell(1)}, {NumberCell(2)}})
	clone := tbl.Clone()
	clone.Rows[0][0] = NumberCell(99)

	assert.Equal(t, 1.0, tbl.Rows[0][0].Num)
	assert.Equal(t, 1, tbl.Head(1).Len())
	assert.Equal(t, 2, tbl.Head(10).Len())
	assert.Equal(t, 2, tbl.Len())
}

func TestCellJSON(t *testing.T) {
	data, err := json.Marshal([]Cell{NumberCell(12.5), TextCell("OPEN"), EmptyCell()})
	require.NoError(t, err)
	assert.JSONEq(t, `[12.5, "OPEN", null]`, string(data))

	assert.Equal(t, "1500000", NumberCell(1500000).String())
	assert.Equal(t, "CLOSED", TextCell("  CLOSED ").Trimmed())
}

func TestErrorResultMarshalsOnlyError(t *testing.T) {
	var r AnalysisResult = &ErrorResult{Format: FormatDetailedFindings, Message: "Missing required column: Status"}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "Missing required column: Status"}`, string(data))
	assert.True(t, IsError(r))
	assert.Equal(t, SheetTotals{}, r.Totals())
}

func TestFindingsAnalysisOmitsAbsentGroups(t *testing.T) {
	a := &FindingsAnalysis{
		AuditTypeBreakdown: map[string]int{},
		PENameAnalysis:     map[string]PEFindingStats{},
	}

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "pe_name_analysis", "present but empty groups are kept")
	assert.NotContains(t, decoded, "entity_analysis")
	assert.NotContains(t, decoded, "financial_analysis")
	assert.Contains(t, decoded, "status_detailed_analysis")
}

func TestMetricCatalogCoversKnownFormats(t *testing.T) {
	catalog := MetricCatalog()
	for _, f := range KnownFormats {
		assert.NotEmpty(t, catalog[f], "format %s", f)
	}

	m, ok := DescribeMetric(FormatMultiTender, "red_flags")
	require.True(t, ok)
	assert.Equal(t, "Count of findings marked as RED FLAG indicating critical compliance issues or risks", m.Description)

	_, ok = DescribeMetric(FormatUnknown, "anything")
	assert.False(t, ok)
}
