package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditintel/pkg/contracts/domain"
)

var entityColumns = []string{
	"Procuring Entity", "Overall %", "Tenders", "Tendering Avg", "App Marks",
	"Institution", "Status", "Pe Category", "Tender Number",
}

func TestAnalyzeEntitySummaryDecimalRescale(t *testing.T) {
	tbl := newTable(entityColumns,
		[]any{"Ministry of Works", "0.92", 10, 0.85, 40, 30, "Compliant", "Ministry", "TR1/1/2024/W/01"},
		[]any{"City Council", "0.55", 4, 0.5, 20, 10, "Non-Compliant", "LGA", nil},
		[]any{"Water Board", "0.87", 6, nil, nil, nil, "Compliant", "Agency", nil},
	)

	got, err := AnalyzeEntitySummary(tbl)
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalEntities)
	assert.Equal(t, 78.0, got.AverageOverallPerformance)
	assert.Equal(t, domain.PerformanceDistribution{Excellent: 1, Good: 1, NeedsImprovement: 1}, got.PerformanceDistribution)

	require.NotNil(t, got.TenderingPerformance)
	assert.Equal(t, 67.5, got.TenderingPerformance.AverageTenderingScore)
	assert.Equal(t, 1, got.TenderingPerformance.EntitiesAbove80)
	assert.Equal(t, 1, got.TenderingPerformance.EntitiesBelow60)

	assert.Equal(t, 92.0, got.DetailedEntities["Ministry of Works"].OverallPercentage)
	assert.Equal(t, 85.0, got.DetailedEntities["Ministry of Works"].TenderingAvg)
}

func TestAnalyzeEntitySummaryNoRescaleAboveOne(t *testing.T) {
	tbl := newTable([]string{"Procuring Entity", "Overall %"},
		[]any{"A", "0.5"},
		[]any{"B", "75%"},
	)

	got, err := AnalyzeEntitySummary(tbl)
	require.NoError(t, err)
	assert.Equal(t, 37.75, got.AverageOverallPerformance)
	assert.Equal(t, 1, got.PerformanceDistribution.NeedsImprovement)
	assert.Equal(t, 1, got.PerformanceDistribution.Good)
}

func TestAnalyzeEntitySummaryBreakdowns(t *testing.T) {
	tbl := newTable(entityColumns,
		[]any{"Ministry of Works", "95%", 10, "82%", 40, 30, "Compliant", "Ministry", "TR1/1/2024/W/01"},
		[]any{"City Council", "55%", 4, "50%", 20, 10, "Non-Compliant", "LGA", nil},
		[]any{"Town Council", "65%", 2, nil, nil, nil, "Compliant", "LGA", nil},
		[]any{"Water Board", "N/A", nil, nil, nil, nil, nil, nil, nil},
	)

	got, err := AnalyzeEntitySummary(tbl)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"Ministry": 1, "LGA": 2}, got.CategoryBreakdown)
	assert.Equal(t, map[string]int{"Compliant": 2, "Non-Compliant": 1}, got.StatusBreakdown)

	require.NotNil(t, got.TendersAnalysis)
	assert.Equal(t, domain.TendersAnalysis{
		TotalTenders:            16,
		AverageTendersPerEntity: 5.33,
		MaxTenders:              10,
		MinTenders:              2,
	}, *got.TendersAnalysis)

	assert.Equal(t, domain.CategoryPerformance{Count: 2, AverageOverall: 60, TotalTenders: 6}, got.EntityByCategory["LGA"])

	detail := got.DetailedEntities["Water Board"]
	assert.Equal(t, 0.0, detail.OverallPercentage)
	assert.Equal(t, domain.NotAvailable, detail.Status)
	assert.Equal(t, domain.NotAvailable, detail.TenderNumber)
}

func TestAnalyzeEntitySummaryPerformers(t *testing.T) {
	tbl := newTable([]string{"Procuring Entity", "Overall %", "Tenders", "Tender Number"},
		[]any{"A", "90%", 1, "TR-A"},
		[]any{"B", "70%", 2, nil},
		[]any{"C", "90%", 3, nil},
		[]any{"D", nil, 4, nil},
		[]any{"E", "10%", nil, nil},
		[]any{"F", "50%", 6, nil},
		[]any{"G", "60%", 7, nil},
	)

	got, err := AnalyzeEntitySummary(tbl)
	require.NoError(t, err)

	names := func(ps []domain.EntityPerformer) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.Entity
		}
		return out
	}
	assert.Equal(t, []string{"A", "C", "B", "G", "F"}, names(got.TopPerformers), "ties keep sheet order")
	assert.Equal(t, []string{"E", "F", "G", "B", "A"}, names(got.BottomPerformers))
	assert.Equal(t, domain.EntityPerformer{Entity: "A", OverallPercentage: 90, Tenders: 1, TenderNumber: "TR-A"}, got.TopPerformers[0])
	assert.Equal(t, 0, got.BottomPerformers[0].Tenders)
	assert.Equal(t, domain.NotAvailable, got.BottomPerformers[0].TenderNumber)
}

func TestAnalyzeEntitySummaryLastRowWins(t *testing.T) {
	tbl := newTable([]string{"Procuring Entity", "Overall %", "Status"},
		[]any{"Dup", "40%", "First"},
		[]any{"Dup", "80%", "Second"},
		[]any{nil, "99%", "Nameless"},
	)

	got, err := AnalyzeEntitySummary(tbl)
	require.NoError(t, err)

	require.Len(t, got.DetailedEntities, 1)
	assert.Equal(t, "Second", got.DetailedEntities["Dup"].Status)
	assert.Equal(t, 80.0, got.DetailedEntities["Dup"].OverallPercentage)
	assert.Equal(t, 3, got.TotalEntities)
}

func TestAnalyzeEntitySummaryMissingColumn(t *testing.T) {
	got, err := AnalyzeEntitySummary(newTable([]string{"Procuring Entity", "Tenders"}))
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Equal(t, "Missing required column: Overall %", err.Error())
}

func TestAnalyzeEntitySummaryZeroRows(t *testing.T) {
	got, err := AnalyzeEntitySummary(newTable(entityColumns))
	require.NoError(t, err)

	assert.Equal(t, 0, got.TotalEntities)
	assert.Equal(t, 0.0, got.AverageOverallPerformance)
	assert.Nil(t, got.TendersAnalysis)
	assert.Nil(t, got.TenderingPerformance)
	assert.Empty(t, got.TopPerformers)
	assert.Empty(t, got.DetailedEntities)
}
