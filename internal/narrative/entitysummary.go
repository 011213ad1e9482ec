package narrative

import (
	"fmt"

	"auditintel/pkg/contracts/domain"
)

const (
	strongPerformance   = 80.0
	weakPerformance     = 60.0
	improvementShare    = 30.0
	criticalPerformance = 50.0
	bestPractice        = 90.0
	lowTenderVolume     = 5.0
)

func (n *Narrator) entitySummary(sheet string, a *domain.EntitySummaryAnalysis) string {
	var t text
	t.add("%s - Entity Performance Report:", sheet)
	t.add(divider)
	t.add("Total Entities: %d", a.TotalEntities)
	t.add("Average Overall Performance: %s%%", num(a.AverageOverallPerformance))

	d := a.PerformanceDistribution
	t.section("Performance Distribution:")
	t.add("  - Excellent (>=90%%): %d", d.Excellent)
	t.add("  - Good (75-89%%): %d", d.Good)
	t.add("  - Satisfactory (60-74%%): %d", d.Satisfactory)
	t.add("  - Needs Improvement (<60%%): %d", d.NeedsImprovement)

	if len(a.CategoryBreakdown) > 0 {
		t.section("Entity Categories:")
		for _, c := range rankKeys(a.CategoryBreakdown, func(v int) float64 { return float64(v) }) {
			t.add("  - %s: %d", c, a.CategoryBreakdown[c])
		}
	}

	if ta := a.TendersAnalysis; ta != nil {
		t.section("Tenders Overview:")
		t.add("  - Total Tenders: %d", ta.TotalTenders)
		t.add("  - Average per Entity: %s", num(ta.AverageTendersPerEntity))
		t.add("  - Range: %d - %d", ta.MinTenders, ta.MaxTenders)
	}

	if p := a.TenderingPerformance; p != nil {
		t.section("Tendering Performance:")
		t.add("  - Average Score: %s%%", num(p.AverageTenderingScore))
		t.add("  - Entities >=80%%: %d", p.EntitiesAbove80)
		t.add("  - Entities <60%%: %d", p.EntitiesBelow60)
	}

	if len(a.TopPerformers) > 0 {
		t.section("Top %d Performers:", len(a.TopPerformers))
		writePerformers(&t, a.TopPerformers)
	}
	if len(a.BottomPerformers) > 0 {
		t.section("Bottom %d Performers (Need Support):", len(a.BottomPerformers))
		writePerformers(&t, a.BottomPerformers)
	}

	if len(a.EntityByCategory) > 0 {
		t.section("Performance by Category:")
		for _, c := range sortedKeys(a.EntityByCategory) {
			cp := a.EntityByCategory[c]
			t.add("  - %s:", c)
			t.add("    - Count: %d, Avg Overall: %s%%", cp.Count, num(cp.AverageOverall))
			t.add("    - Total Tenders: %d", cp.TotalTenders)
		}
	}

	if len(a.StatusBreakdown) > 0 {
		t.section("Status Distribution:")
		for _, s := range rankKeys(a.StatusBreakdown, func(v int) float64 { return float64(v) }) {
			t.add("  - %s: %d", s, a.StatusBreakdown[s])
		}
	}

	return t.String()
}

func writePerformers(t *text, ps []domain.EntityPerformer) {
	for i, p := range ps {
		t.add("  %d. %s", i+1, p.Entity)
		t.add("     Overall: %s%%, Tenders: %d", num(p.OverallPercentage), p.Tenders)
	}
}

func (n *Narrator) entityInsights(a *domain.EntitySummaryAnalysis) *domain.Insights {
	ins := domain.NewInsights()

	switch avg := a.AverageOverallPerformance; {
	case avg >= strongPerformance:
		ins.PositiveHighlights = append(ins.PositiveHighlights, n.say(phraseStrongEntities, num(avg)))
	case avg < weakPerformance:
		ins.AreasOfConcern = append(ins.AreasOfConcern, n.say(phraseWeakEntities, num(avg)))
	}

	d := a.PerformanceDistribution
	if a.TotalEntities > 0 {
		if pct := share(d.NeedsImprovement, a.TotalEntities); pct > improvementShare {
			ins.PriorityActions = append(ins.PriorityActions,
				fmt.Sprintf("%d entities (%.1f%%) need immediate performance improvement", d.NeedsImprovement, pct))
		}
		if d.Excellent > 0 {
			ins.PositiveHighlights = append(ins.PositiveHighlights,
				fmt.Sprintf("%d entities (%.1f%%) achieving excellent performance (>=90%%)", d.Excellent, share(d.Excellent, a.TotalEntities)))
		}
	}

	if p := a.TenderingPerformance; p != nil && p.EntitiesBelow60 > 0 {
		ins.AreasOfConcern = append(ins.AreasOfConcern,
			fmt.Sprintf("%d entities have tendering scores below 60%%", p.EntitiesBelow60))
		ins.Recommendations = append(ins.Recommendations,
			"Provide targeted tendering training for low-performing entities")
	}

	if len(a.BottomPerformers) > 0 {
		if low := a.BottomPerformers[0]; low.OverallPercentage < criticalPerformance {
			ins.PriorityActions = append(ins.PriorityActions,
				fmt.Sprintf("Urgent: %s has critical performance level (%s%%)", low.Entity, num(low.OverallPercentage)))
		}
	}
	if len(a.TopPerformers) > 0 {
		if top := a.TopPerformers[0]; top.OverallPercentage >= bestPractice {
			ins.PositiveHighlights = append(ins.PositiveHighlights,
				fmt.Sprintf("Outstanding: %s achieved %s%% - best practice model", top.Entity, num(top.OverallPercentage)))
		}
	}

	if c := countWhere(a.EntityByCategory, func(cp domain.CategoryPerformance) bool { return cp.AverageOverall < weakPerformance }); c > 0 {
		ins.Recommendations = append(ins.Recommendations,
			fmt.Sprintf("Focus improvement efforts on %d underperforming categories", c))
	}

	if ta := a.TendersAnalysis; ta != nil {
		if ta.TotalTenders > 0 {
			ins.PositiveHighlights = append(ins.PositiveHighlights,
				fmt.Sprintf("Total of %d tenders processed across all entities", ta.TotalTenders))
		}
		if ta.AverageTendersPerEntity < lowTenderVolume {
			ins.AreasOfConcern = append(ins.AreasOfConcern,
				fmt.Sprintf("Low average tender volume per entity (%.1f) - may indicate capacity issues", ta.AverageTendersPerEntity))
		}
	}

	if d.NeedsImprovement > 0 {
		ins.Recommendations = append(ins.Recommendations,
			"Establish mentorship program pairing high and low performers")
		if d.Excellent > 0 {
			ins.Recommendations = append(ins.Recommendations,
				"Document and share best practices from excellent performers")
		}
	}

	return ins
}
