package analysis

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditintel/pkg/contracts/domain"
)

func sampleFindings() *domain.Table {
	return newTable(findingsColumns,
		//    Compliance, Gap, Status, Checklist, PE, PE Cat, Entity, Number, Red Flag, Audit, Exp, Act, Budget
		[]any{"0.00%", 4, "OPEN", "Evaluation", "Ministry of Works", "Central", "Roads Agency", "101", "YES", "Procurement", 4, 0, "92,100,000"},
		[]any{"60%", 2, " open ", "Evaluation", "Ministry of Works", "Central", "Roads Agency", "101", "No", "Procurement", 5, 3, 5000000},
		[]any{"80%", 1, "CLOSED", "Contract Award", "City Council", "LGA", "Water Board", nil, "yes", "Contract", 5, 4, 150000000},
		[]any{"95%", 0, "CLOSED", "Contract Award", "City Council", "LGA", "Water Board", nil, nil, "Contract", 2, 2, nil},
		[]any{"N/A", 3, "OPEN", "Planning", "City Council", nil, nil, nil, nil, nil, nil, nil, "abc"},
	)
}

func TestAnalyzeFindingsScenario(t *testing.T) {
	tbl := newTable([]string{"Compliance %", "Score Gap", "Status", "Checklist Title", "Estimated Budget"},
		[]any{"0.00%", 4, "OPEN", "Evaluation", 92100000},
	)

	got, err := AnalyzeFindings(tbl)
	require.NoError(t, err)

	assert.Equal(t, 1, got.TotalRecords)
	assert.Equal(t, 0.0, got.AverageCompliance)
	assert.Equal(t, 1, got.OpenFindings)
	assert.Equal(t, 1, got.HighRiskFindings)
	require.NotNil(t, got.FinancialAnalysis)
	assert.Equal(t, 92100000.0, got.FinancialAnalysis.TotalBudget)
	assert.Equal(t, 100.0, got.FinancialAnalysis.BudgetAtRiskPercentage)
}

func TestAnalyzeFindingsMissingColumn(t *testing.T) {
	required := RequiredColumns(domain.FormatDetailedFindings)
	for i, missing := range required {
		t.Run(missing, func(t *testing.T) {
			cols := append(append([]string{}, required[:i]...), required[i+1:]...)
			got, err := AnalyzeFindings(newTable(cols, []any{"50%", 1, "OPEN"}))

			require.Error(t, err)
			assert.Nil(t, got)
			var mce *MissingColumnError
			require.ErrorAs(t, err, &mce)
			assert.Equal(t, missing, mce.Column)
			assert.Equal(t, "Missing required column: "+missing, err.Error())
		})
	}
}

func TestAnalyzeFindingsTotals(t *testing.T) {
	got, err := AnalyzeFindings(sampleFindings())
	require.NoError(t, err)

	assert.Equal(t, 5, got.TotalRecords)
	assert.Equal(t, 58.75, got.AverageCompliance)
	assert.Equal(t, 3, got.OpenFindings)
	assert.Equal(t, 2, got.ClosedFindings)
	assert.Equal(t, 1, got.HighRiskFindings)
	assert.Equal(t, 1, got.MediumRiskFindings)
	assert.Equal(t, 1, got.LowRiskFindings)
	assert.Equal(t, 2, got.RedFlagCount)
	assert.Equal(t, 1, got.MissingComplianceRecords)
	assert.Equal(t, domain.ComplianceDistribution{Excellent: 1, Good: 1, Fair: 1, Poor: 1}, got.ComplianceDistribution)

	assert.Equal(t, map[string]int{"Procurement": 2, "Contract": 2}, got.AuditTypeBreakdown)
	assert.Equal(t, map[string]int{"Central": 2, "LGA": 2}, got.CategoryBreakdown)
	assert.Equal(t, map[string]int{"Roads Agency": 2, "Water Board": 2, "City Council": 1}, got.TopEntities)
	assert.Equal(t, map[string]int{"Evaluation": 2, "Contract Award": 2, "Planning": 1}, got.ChecklistBreakdown)
}

func TestAnalyzeFindingsRiskTiersAreDisjoint(t *testing.T) {
	got, err := AnalyzeFindings(sampleFindings())
	require.NoError(t, err)

	tiers := got.HighRiskFindings + got.MediumRiskFindings + got.LowRiskFindings
	assert.LessOrEqual(t, tiers, got.TotalRecords)
	// the 95% row has a zero gap and the N/A row has no compliance
	assert.Equal(t, 3, tiers)
}

func TestAnalyzeFindingsFinancialAndScore(t *testing.T) {
	got, err := AnalyzeFindings(sampleFindings())
	require.NoError(t, err)

	require.NotNil(t, got.FinancialAnalysis)
	assert.Equal(t, domain.FinancialAnalysis{
		TotalBudget:            247100000,
		AverageBudget:          82366666.67,
		BudgetAtRisk:           97100000,
		BudgetAtRiskPercentage: 39.3,
	}, *got.FinancialAnalysis)

	require.NotNil(t, got.ScoreAnalysis)
	assert.Equal(t, domain.ScoreAnalysis{
		TotalExpectedScore:   16,
		TotalActualScore:     9,
		TotalScoreGap:        7,
		ScoreAchievementRate: 56.25,
	}, *got.ScoreAnalysis)
}

func TestAnalyzeFindingsGroups(t *testing.T) {
	got, err := AnalyzeFindings(sampleFindings())
	require.NoError(t, err)

	require.Contains(t, got.PENameAnalysis, "Ministry of Works")
	assert.Equal(t, domain.PEFindingStats{
		TotalFindings:     2,
		OpenFindings:      2,
		AverageCompliance: 30,
		TotalBudget:       97100000,
		HighRiskFindings:  1,
		RedFlagCount:      1,
		PECategory:        "Central",
	}, got.PENameAnalysis["Ministry of Works"])
	assert.Equal(t, 3, got.PENameAnalysis["City Council"].TotalFindings)
	assert.Equal(t, 87.5, got.PENameAnalysis["City Council"].AverageCompliance)

	assert.Equal(t, domain.ChecklistFindingStats{
		TotalFindings:     2,
		ClosedFindings:    2,
		AverageCompliance: 87.5,
		TotalScoreGap:     1,
		AuditType:         "Contract",
	}, got.ChecklistDetailedAnalysis["Contract Award"])
	assert.Equal(t, domain.NotAvailable, got.ChecklistDetailedAnalysis["Planning"].AuditType)

	require.Contains(t, got.EntityAnalysis, "Roads Agency (101)")
	require.Contains(t, got.EntityAnalysis, "Water Board")
	roads := got.EntityAnalysis["Roads Agency (101)"]
	assert.Equal(t, 1, roads.HighRisk)
	assert.Equal(t, 1, roads.MediumRisk)
	assert.Equal(t, 97100000.0, roads.BudgetAtRisk)
	assert.Len(t, got.EntityAnalysis, 2, "rows without an entity name are not grouped")
}

func TestAnalyzeFindingsEntityKeys(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    [][]any
		want    map[string]int
	}{
		{
			name:    "number column only",
			columns: []string{"Compliance %", "Score Gap", "Status", "Checklist Title", "Entity Number"},
			rows: [][]any{
				{"50%", 1, "OPEN", "Evaluation", "E-01"},
				{"70%", 2, "CLOSED", "Evaluation", "E-02"},
				{"90%", 0, "CLOSED", "Award", "E-01"},
			},
			want: map[string]int{"E-01": 2, "E-02": 1},
		},
		{
			name:    "blank name falls back to number",
			columns: []string{"Compliance %", "Score Gap", "Status", "Checklist Title", "Entity Name", "Entity Number"},
			rows: [][]any{
				{"50%", 1, "OPEN", "Evaluation", nil, "E-01"},
				{"70%", 2, "OPEN", "Evaluation", "Roads Agency", nil},
				{"80%", 0, "CLOSED", "Award", "Water Board", "W-7"},
				{"60%", 0, "CLOSED", "Award", nil, nil},
			},
			want: map[string]int{"E-01": 1, "Roads Agency": 1, "Water Board (W-7)": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AnalyzeFindings(newTable(tt.columns, tt.rows...))
			require.NoError(t, err)

			require.Len(t, got.EntityAnalysis, len(tt.want))
			for key, total := range tt.want {
				require.Contains(t, got.EntityAnalysis, key)
				assert.Equal(t, total, got.EntityAnalysis[key].TotalFindings, key)
			}
		})
	}
}

func TestAnalyzeFindingsStatusDetail(t *testing.T) {
	got, err := AnalyzeFindings(sampleFindings())
	require.NoError(t, err)

	open := got.StatusDetailedAnalysis.Open
	assert.Equal(t, 3, open.Count, "status is matched after trimming surrounding spaces")
	assert.Equal(t, 30.0, open.AverageCompliance)
	assert.Equal(t, 97100000.0, open.TotalBudget)
	assert.Equal(t, 9.0, open.TotalScoreGap)
	assert.Equal(t, 1, open.HighRiskCount)
	assert.Equal(t, 1, open.RedFlagCount)
	assert.Equal(t, map[string]int{"Procurement": 2}, open.AuditTypeDistribution)

	closed := got.StatusDetailedAnalysis.Closed
	assert.Equal(t, 2, closed.Count)
	assert.Equal(t, 1, closed.RedFlagCount)
}

func TestAnalyzeFindingsBudgetDistribution(t *testing.T) {
	got, err := AnalyzeFindings(sampleFindings())
	require.NoError(t, err)

	dist := got.BudgetDistribution
	require.NotNil(t, dist)
	assert.Equal(t, 247100000.0, dist.TotalBudget)
	assert.Equal(t, map[string]int{
		domain.BudgetRangeUnder10M: 1,
		domain.BudgetRange10To50M:  0,
		domain.BudgetRange50To100M: 1,
		domain.BudgetRangeOver100M: 1,
	}, dist.BudgetRangeDistribution)

	require.Len(t, dist.TopBudgetItems, 3)
	top := dist.TopBudgetItems[0]
	assert.Equal(t, "Water Board", top.Entity)
	assert.Equal(t, 150000000.0, top.Budget)
	assert.Equal(t, "CLOSED", top.Status)
	require.NotNil(t, top.Compliance)
	assert.Equal(t, 80.0, *top.Compliance)
	assert.Equal(t, 60.7, top.PercentageOfTotal)

	require.Len(t, dist.TopPEsByBudget, 2)
	assert.Equal(t, domain.PEBudget{PEName: "City Council", TotalBudget: 150000000}, dist.TopPEsByBudget[0])
}

func TestAnalyzeFindingsOptionalSectionsOmitted(t *testing.T) {
	tbl := newTable([]string{"Compliance %", "Score Gap", "Status", "Checklist Title"},
		[]any{"70%", 1, "OPEN", "Evaluation"},
	)

	got, err := AnalyzeFindings(tbl)
	require.NoError(t, err)

	assert.Nil(t, got.FinancialAnalysis)
	assert.Nil(t, got.ScoreAnalysis)
	assert.Nil(t, got.PENameAnalysis)
	assert.Nil(t, got.EntityAnalysis)
	assert.Nil(t, got.BudgetDistribution)
	assert.NotNil(t, got.ChecklistDetailedAnalysis)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))
	assert.NotContains(t, keys, "pe_name_analysis")
	assert.NotContains(t, keys, "entity_analysis")
	assert.Contains(t, keys, "status_detailed_analysis")
}

func TestAnalyzeFindingsZeroRows(t *testing.T) {
	got, err := AnalyzeFindings(newTable(findingsColumns))
	require.NoError(t, err)

	assert.Equal(t, 0, got.TotalRecords)
	assert.Equal(t, 0.0, got.AverageCompliance)
	assert.Equal(t, domain.ComplianceDistribution{}, got.ComplianceDistribution)
	assert.Nil(t, got.FinancialAnalysis, "no non-null budget")
	assert.Nil(t, got.ScoreAnalysis)
	assert.Empty(t, got.PENameAnalysis)
	assert.NotNil(t, got.PENameAnalysis, "column present, so the group map is empty rather than omitted")
	assert.Equal(t, 0, got.StatusDetailedAnalysis.Open.Count)
	assert.Equal(t, 0.0, got.StatusDetailedAnalysis.Closed.AverageCompliance)
}

func TestAnalyzeFindingsAverageBounds(t *testing.T) {
	tbl := newTable([]string{"Compliance %", "Score Gap", "Status", "Checklist Title"},
		[]any{"abc", 1, "OPEN", "A"},
		[]any{nil, 1, "OPEN", "A"},
	)
	got, err := AnalyzeFindings(tbl)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.AverageCompliance)
	assert.Equal(t, 2, got.MissingComplianceRecords)

	got, err = AnalyzeFindings(sampleFindings())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.AverageCompliance, 0.0)
	assert.LessOrEqual(t, got.AverageCompliance, 100.0)
}

func TestAnalyzeFindingsIsIdempotent(t *testing.T) {
	tbl := sampleFindings()
	before := tbl.Clone()

	first, err := AnalyzeFindings(tbl)
	require.NoError(t, err)
	second, err := AnalyzeFindings(tbl)
	require.NoError(t, err)
	third, err := AnalyzeFindings(tbl.Clone())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first, third); diff != "" {
		t.Errorf("deep copy run differs (-first +copy):\n%s", diff)
	}
	assert.Equal(t, before.Rows, tbl.Rows, "input table must not be mutated")
}
