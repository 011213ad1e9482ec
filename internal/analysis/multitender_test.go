package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditintel/pkg/contracts/domain"
)

func sampleMultiTender() *domain.Table {
	cols := append(append([]string{}, multiTenderColumns...), "Finding Description", "Created At")
	longText := strings.Repeat("evaluation committee delay ", 10)
	return newTable(cols,
		// PE, Checklist, Tenders, Total Budget, Tender Count, Finding Title, Status, Red Flag, Description, Created At
		[]any{"Ministry of Works", "Evaluation",
			"TR152/006/2024/2025/W/07 (Own Funds, Budget: 150,000,000, Works), TR152/006/2024/2025/G/02 (Budget: 20,000,000, Goods)",
			"170,000,000", 2, "Late evaluation", "OPEN", "RED FLAG", longText, "03/09/2025"},
		[]any{"Ministry of Works", "Evaluation",
			"TR152/006/2024/2025/W/07 (Budget: 150,000,000, Works)",
			150000000, 1, "Repeat finding", "CLOSED", "NOT RED FLAG", "short", nil},
		[]any{"City Council", "Award",
			"TR9/1/2024/S/01 (Budget: 600,000,000, Services), TR9/1/2024/S/02 (Services)",
			nil, 2, nil, "OPEN", "yes", nil, nil},
		[]any{"City Council", "Planning", nil, "abc", nil, "Missing plan", "OPEN", "NO", nil, nil},
	)
}

func TestAnalyzeMultiTenderTotals(t *testing.T) {
	got, err := AnalyzeMultiTender(sampleMultiTender())
	require.NoError(t, err)

	assert.Equal(t, 4, got.TotalFindings)
	assert.Equal(t, 3, got.OpenFindings)
	assert.Equal(t, 1, got.ClosedFindings)
	assert.Equal(t, 2, got.RedFlags)
	assert.Equal(t, 320000000.0, got.TotalBudget)
	assert.Equal(t, 160000000.0, got.AverageBudgetPerFinding)
	assert.Equal(t, 5, got.TotalTenders)
	assert.Equal(t, 1.67, got.AverageTendersPerFinding)
	assert.Equal(t, 4, got.UniqueTenders)
}

func TestAnalyzeMultiTenderBudgetRanges(t *testing.T) {
	got, err := AnalyzeMultiTender(sampleMultiTender())
	require.NoError(t, err)

	assert.Equal(t, map[string]domain.TenderBudgetRange{
		domain.TenderRangeUpTo50M:   {Count: 1, TotalBudget: 20000000, Percentage: 33.33},
		domain.TenderRange50To100M:  {},
		domain.TenderRange100To200M: {Count: 1, TotalBudget: 150000000, Percentage: 33.33},
		domain.TenderRange200To500M: {},
		domain.TenderRangeOver500M:  {Count: 1, TotalBudget: 600000000, Percentage: 33.33},
	}, got.BudgetRangeDistribution)
}

func TestAnalyzeMultiTenderGroups(t *testing.T) {
	got, err := AnalyzeMultiTender(sampleMultiTender())
	require.NoError(t, err)

	works := got.PEAnalysis["Ministry of Works"]
	assert.Equal(t, 2, works.TotalFindings)
	assert.Equal(t, 1, works.OpenFindings)
	assert.Equal(t, 1, works.ClosedFindings)
	assert.Equal(t, 320000000.0, works.TotalBudget)
	assert.Equal(t, 3, works.TotalTenders, "per-entity tender lists are not deduplicated")
	assert.Equal(t, []string{"TR152/006/2024/2025/W/07", "TR152/006/2024/2025/G/02", "TR152/006/2024/2025/W/07"}, works.TenderNumbers)
	assert.Equal(t, 1, works.RedFlags)

	council := got.PEAnalysis["City Council"]
	assert.Equal(t, 2, council.OpenFindings)
	assert.Equal(t, 0.0, council.TotalBudget)
	assert.Equal(t, 2, council.TotalTenders)

	eval := got.ChecklistAnalysis["Evaluation"]
	assert.Equal(t, domain.ChecklistTenderStats{
		TotalFindings:            2,
		OpenFindings:             1,
		ClosedFindings:           1,
		CompletionRate:           50,
		TotalBudget:              320000000,
		AverageBudgetPerFinding:  160000000,
		TotalTenders:             3,
		AverageTendersPerFinding: 1.5,
		RedFlags:                 1,
		AffectedEntities:         1,
		RiskLevel:                domain.RiskHigh,
	}, eval)
	assert.Equal(t, domain.RiskHigh, got.ChecklistAnalysis["Award"].RiskLevel)
	assert.Equal(t, domain.RiskMedium, got.ChecklistAnalysis["Planning"].RiskLevel)
	assert.Equal(t, 0.0, got.ChecklistAnalysis["Planning"].AverageBudgetPerFinding)
}

func TestAnalyzeMultiTenderTopEntities(t *testing.T) {
	got, err := AnalyzeMultiTender(sampleMultiTender())
	require.NoError(t, err)

	require.Len(t, got.TopEntitiesByBudget, 2)
	assert.Equal(t, "Ministry of Works", got.TopEntitiesByBudget[0].EntityName)
	assert.Equal(t, 320000000.0, got.TopEntitiesByBudget[0].TotalBudget)
	assert.Equal(t, 3, got.TopEntitiesByBudget[0].TotalTenders)
	assert.Equal(t, "City Council", got.TopEntitiesByBudget[1].EntityName)
}

func TestAnalyzeMultiTenderDetailedFindings(t *testing.T) {
	got, err := AnalyzeMultiTender(sampleMultiTender())
	require.NoError(t, err)

	require.Len(t, got.DetailedFindings, 4)
	first := got.DetailedFindings[0]
	assert.Equal(t, "Ministry of Works", first.PEName)
	assert.Equal(t, "RED FLAG", first.RedFlag)
	assert.Equal(t, 170000000.0, first.TotalBudget)
	assert.Equal(t, 2, first.TenderCount)
	assert.Len(t, first.Tenders, 2)
	assert.Equal(t, 203, len([]rune(first.Description)))
	assert.True(t, strings.HasSuffix(first.Description, "..."))
	assert.Equal(t, "03/09/2025", first.CreatedAt)

	assert.Equal(t, "short", got.DetailedFindings[1].Description)

	third := got.DetailedFindings[2]
	assert.Equal(t, domain.NotAvailable, third.FindingTitle)
	assert.Equal(t, 0.0, third.TotalBudget)
	assert.Empty(t, third.Description)

	fourth := got.DetailedFindings[3]
	assert.NotNil(t, fourth.Tenders)
	assert.Empty(t, fourth.Tenders)
	assert.Equal(t, 0, fourth.TenderCount)
}

func TestAnalyzeMultiTenderRedFlagGuard(t *testing.T) {
	tbl := newTable(multiTenderColumns,
		[]any{"PE", "C", nil, 1, 1, "F", "OPEN", "NOT RED FLAG"},
		[]any{"PE", "C", nil, 1, 1, "F", "OPEN", " red flag "},
		[]any{"PE", "C", nil, 1, 1, "F", "OPEN", "RED FLAGGED"},
	)

	got, err := AnalyzeMultiTender(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RedFlags)
}

func TestAnalyzeMultiTenderDeduplicatesTenders(t *testing.T) {
	tender := "TR152/006/2024/2025/W/07 (Budget: 141,671,840, Works)"
	tbl := newTable(multiTenderColumns,
		[]any{"PE A", "C", tender, 141671840, 1, "F1", "OPEN", "NO"},
		[]any{"PE B", "C", tender, 141671840, 1, "F2", "OPEN", "NO"},
	)

	got, err := AnalyzeMultiTender(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UniqueTenders)
	assert.Equal(t, 2, got.TotalTenders)
	assert.Equal(t, 1, got.BudgetRangeDistribution[domain.TenderRange100To200M].Count)
	assert.Equal(t, 100.0, got.BudgetRangeDistribution[domain.TenderRange100To200M].Percentage)
}

func TestAnalyzeMultiTenderFirstPositiveBudgetWins(t *testing.T) {
	tbl := newTable(multiTenderColumns,
		[]any{"PE", "C", "TR1/1/2024/W/01 (Works)", nil, 1, "F", "OPEN", "NO"},
		[]any{"PE", "C", "TR1/1/2024/W/01 (Budget: 60,000,000)", nil, 1, "F", "OPEN", "NO"},
		[]any{"PE", "C", "TR1/1/2024/W/01 (Budget: 700,000,000)", nil, 1, "F", "OPEN", "NO"},
	)

	got, err := AnalyzeMultiTender(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UniqueTenders)
	assert.Equal(t, 1, got.BudgetRangeDistribution[domain.TenderRange50To100M].Count)
	assert.Equal(t, 0, got.BudgetRangeDistribution[domain.TenderRangeOver500M].Count)
}

func TestAnalyzeMultiTenderMissingColumn(t *testing.T) {
	cols := multiTenderColumns[:len(multiTenderColumns)-1]
	got, err := AnalyzeMultiTender(newTable(cols))

	assert.Nil(t, got)
	require.Error(t, err)
	assert.Equal(t, "Missing required column: Red Flag", err.Error())
}

func TestAnalyzeMultiTenderZeroRows(t *testing.T) {
	got, err := AnalyzeMultiTender(newTable(multiTenderColumns))
	require.NoError(t, err)

	assert.Equal(t, 0, got.TotalFindings)
	assert.Equal(t, 0.0, got.AverageBudgetPerFinding)
	assert.Equal(t, 0.0, got.AverageTendersPerFinding)
	assert.Equal(t, 0, got.UniqueTenders)
	assert.Len(t, got.BudgetRangeDistribution, 5)
	assert.Equal(t, 0.0, got.BudgetRangeDistribution[domain.TenderRangeOver500M].Percentage)
	assert.Empty(t, got.PEAnalysis)
	assert.Empty(t, got.TopEntitiesByBudget)
	assert.NotNil(t, got.DetailedFindings)
}

func TestChecklistRisk(t *testing.T) {
	assert.Equal(t, domain.RiskLow, checklistRisk(domain.ChecklistTenderStats{OpenFindings: 1, ClosedFindings: 1}))
	assert.Equal(t, domain.RiskMedium, checklistRisk(domain.ChecklistTenderStats{OpenFindings: 2, ClosedFindings: 1}))
	assert.Equal(t, domain.RiskHigh, checklistRisk(domain.ChecklistTenderStats{RedFlags: 1}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab...", truncate("abc", 2))
	assert.Equal(t, "ñü...", truncate("ñüé", 2))
}
