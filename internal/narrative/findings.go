package narrative

import (
	"fmt"

	"auditintel/pkg/contracts/domain"
)

const (
	highBudgetRiskPct     = 50.0
	goodComplianceFloor   = 75.0
	lowComplianceCeiling  = 50.0
	taskForceOpenRatio    = 70.0
	busyPEFindings        = 5
	largePEBudget         = 50_000_000.0
	excellentPECompliance = 90.0
	openBudgetConcern     = 100_000_000.0
	goodClosureRate       = 70.0
	poorClosureRate       = 30.0
	entityBudgetAtRisk    = 10_000_000.0
	entitiesAtRiskFloor   = 3
	topItemsShareConcern  = 60.0
	busyChecklistOpen     = 3
)

func (n *Narrator) findingsSummary(sheet string, a *domain.FindingsAnalysis) string {
	var t text
	t.add("%s Analysis Report:", sheet)
	t.add(divider)
	t.add("Total Records: %d", a.TotalRecords)
	t.add("Average Compliance: %s%%", num(a.AverageCompliance))
	t.add("Open Findings: %d", a.OpenFindings)
	t.add("Closed Findings: %d", a.ClosedFindings)

	t.section("Risk Distribution:")
	t.add("  - High Risk: %d", a.HighRiskFindings)
	t.add("  - Medium Risk: %d", a.MediumRiskFindings)
	t.add("  - Low Risk: %d", a.LowRiskFindings)

	if a.RedFlagCount > 0 {
		t.section("Red Flags: %d", a.RedFlagCount)
	}

	d := a.ComplianceDistribution
	t.section("Compliance Distribution:")
	t.add("  - Excellent (>=90%%): %d", d.Excellent)
	t.add("  - Good (75-89%%): %d", d.Good)
	t.add("  - Fair (50-74%%): %d", d.Fair)
	t.add("  - Poor (<50%%): %d", d.Poor)

	if s := a.ScoreAnalysis; s != nil {
		t.section("Score Analysis:")
		t.add("  - Total Expected: %s", num(s.TotalExpectedScore))
		t.add("  - Total Actual: %s", num(s.TotalActualScore))
		t.add("  - Score Gap: %s", num(s.TotalScoreGap))
		t.add("  - Achievement Rate: %s%%", num(s.ScoreAchievementRate))
	}

	if f := a.FinancialAnalysis; f != nil {
		t.section("Financial Overview:")
		t.add("  - Total Budget: %s", n.money(f.TotalBudget))
		t.add("  - Budget at Risk: %s (%s%%)", n.money(f.BudgetAtRisk), num(f.BudgetAtRiskPercentage))
	}

	open, closed := a.StatusDetailedAnalysis.Open, a.StatusDetailedAnalysis.Closed
	t.section("Status Detailed Analysis:")
	t.section("  OPEN Findings (%d):", open.Count)
	t.add("    - Avg Compliance: %s%%", num(open.AverageCompliance))
	t.add("    - Total Budget: %s", n.money(open.TotalBudget))
	t.add("    - High Risk: %d", open.HighRiskCount)
	t.add("    - Red Flags: %d", open.RedFlagCount)
	t.section("  CLOSED Findings (%d):", closed.Count)
	t.add("    - Avg Compliance: %s%%", num(closed.AverageCompliance))
	t.add("    - Total Budget: %s", n.money(closed.TotalBudget))

	if len(a.PENameAnalysis) > 0 {
		t.section("Analysis by Public Entity (%d entities):", len(a.PENameAnalysis))
		keys := rankKeys(a.PENameAnalysis, func(s domain.PEFindingStats) float64 { return float64(s.TotalFindings) })
		for _, name := range keys[:min(5, len(keys))] {
			pe := a.PENameAnalysis[name]
			t.section("  - %s:", name)
			t.add("    - Total Findings: %d", pe.TotalFindings)
			t.add("    - Open: %d, Closed: %d", pe.OpenFindings, pe.ClosedFindings)
			t.add("    - Avg Compliance: %s%%", num(pe.AverageCompliance))
			t.add("    - Budget: %s", n.money(pe.TotalBudget))
			if pe.HighRiskFindings > 0 {
				t.add("    - High Risk: %d", pe.HighRiskFindings)
			}
		}
	}

	if len(a.EntityAnalysis) > 0 {
		t.section("Entity Analysis (%d entities):", len(a.EntityAnalysis))
		keys := rankKeys(a.EntityAnalysis, func(s domain.EntityFindingStats) float64 { return s.TotalBudget })
		for _, key := range keys[:min(5, len(keys))] {
			e := a.EntityAnalysis[key]
			t.section("  - %s:", key)
			t.add("    - Findings: %d (Open: %d)", e.TotalFindings, e.OpenFindings)
			t.add("    - Budget: %s", n.money(e.TotalBudget))
			t.add("    - Budget at Risk: %s", n.money(e.BudgetAtRisk))
			t.add("    - Compliance: %s%%", num(e.AverageCompliance))
		}
	}

	if b := a.BudgetDistribution; b != nil {
		t.section("Budget Distribution Analysis:")
		t.add("  - Total Budget: %s", n.money(b.TotalBudget))
		t.section("  Budget Ranges:")
		for _, r := range domain.BudgetRanges {
			t.add("    - %s: %d items", r, b.BudgetRangeDistribution[r])
		}
		if len(b.TopBudgetItems) > 0 {
			t.section("  Top Budget Items:")
			for _, item := range b.TopBudgetItems[:min(3, len(b.TopBudgetItems))] {
				t.add("    - %s", item.Entity)
				t.add("      Budget: %s (%s%% of total)", n.money(item.Budget), num(item.PercentageOfTotal))
				t.add("      Status: %s, Compliance: %s", item.Status, compliance(item.Compliance))
			}
		}
	}

	if len(a.ChecklistDetailedAnalysis) > 0 {
		t.section("Checklist Detailed Analysis (%d checklists):", len(a.ChecklistDetailedAnalysis))
		keys := rankKeys(a.ChecklistDetailedAnalysis, func(s domain.ChecklistFindingStats) float64 { return float64(s.TotalFindings) })
		for _, name := range keys[:min(3, len(keys))] {
			c := a.ChecklistDetailedAnalysis[name]
			t.section("  - %s", clip(name, 70))
			t.add("    - Findings: %d (Open: %d)", c.TotalFindings, c.OpenFindings)
			t.add("    - Avg Compliance: %s%%", num(c.AverageCompliance))
			t.add("    - Audit Type: %s", c.AuditType)
		}
	}

	return t.String()
}

func compliance(v *float64) string {
	if v == nil {
		return domain.NotAvailable
	}
	return num(*v) + "%"
}

func (n *Narrator) findingsInsights(a *domain.FindingsAnalysis) *domain.Insights {
	ins := domain.NewInsights()

	if a.HighRiskFindings > 0 {
		ins.PriorityActions = append(ins.PriorityActions, n.say(phraseHighRiskAction, a.HighRiskFindings))
	}
	if a.RedFlagCount > 0 {
		ins.PriorityActions = append(ins.PriorityActions, n.say(phraseRedFlagAction, a.RedFlagCount))
	}

	if f := a.FinancialAnalysis; f != nil && f.BudgetAtRiskPercentage > highBudgetRiskPct {
		ins.AreasOfConcern = append(ins.AreasOfConcern,
			fmt.Sprintf("High financial risk: %s%% of budget associated with open findings", num(f.BudgetAtRiskPercentage)))
	}

	switch {
	case a.AverageCompliance >= goodComplianceFloor:
		ins.PositiveHighlights = append(ins.PositiveHighlights, n.say(phraseGoodCompliance, num(a.AverageCompliance)))
	case a.AverageCompliance < lowComplianceCeiling:
		ins.AreasOfConcern = append(ins.AreasOfConcern, n.say(phraseLowCompliance, num(a.AverageCompliance)))
	}

	if s := a.ScoreAnalysis; s != nil {
		switch {
		case s.ScoreAchievementRate >= goodComplianceFloor:
			ins.PositiveHighlights = append(ins.PositiveHighlights,
				fmt.Sprintf("Strong score achievement rate of %s%%", num(s.ScoreAchievementRate)))
		case s.ScoreAchievementRate < lowComplianceCeiling:
			ins.AreasOfConcern = append(ins.AreasOfConcern,
				fmt.Sprintf("Low score achievement rate of %s%% indicates systemic issues", num(s.ScoreAchievementRate)))
		}
	}

	if share(a.OpenFindings, a.TotalRecords) > taskForceOpenRatio {
		ins.Recommendations = append(ins.Recommendations,
			"Establish dedicated task force to address high volume of open findings")
	}
	if a.HighRiskFindings > 0 {
		ins.Recommendations = append(ins.Recommendations,
			"Prioritize resolution of high-risk findings before proceeding with new initiatives")
	}
	if a.ComplianceDistribution.Poor > a.ComplianceDistribution.Excellent {
		ins.Recommendations = append(ins.Recommendations,
			"Implement comprehensive training program to improve compliance rates")
	}

	if pes := a.PENameAnalysis; len(pes) > 0 {
		if c := countWhere(pes, func(s domain.PEFindingStats) bool { return s.TotalFindings > busyPEFindings }); c > 0 {
			ins.AreasOfConcern = append(ins.AreasOfConcern,
				fmt.Sprintf("%d Public Entities have more than %d findings each", c, busyPEFindings))
		}
		if c := countWhere(pes, func(s domain.PEFindingStats) bool { return s.TotalBudget > largePEBudget }); c > 0 {
			ins.PriorityActions = append(ins.PriorityActions,
				fmt.Sprintf("Focus on %d PEs with budgets exceeding %s 50M", c, n.currency))
		}
		if c := countWhere(pes, func(s domain.PEFindingStats) bool { return s.AverageCompliance >= excellentPECompliance }); c > 0 {
			ins.PositiveHighlights = append(ins.PositiveHighlights,
				fmt.Sprintf("%d Public Entities achieved excellent compliance (>=90%%)", c))
		}
	}

	open, closed := a.StatusDetailedAnalysis.Open, a.StatusDetailedAnalysis.Closed
	if open.TotalBudget > openBudgetConcern {
		ins.AreasOfConcern = append(ins.AreasOfConcern,
			fmt.Sprintf("%s in budget linked to open findings", n.money(open.TotalBudget)))
	}
	if total := open.Count + closed.Count; total > 0 {
		rate := share(closed.Count, total)
		switch {
		case rate >= goodClosureRate:
			ins.PositiveHighlights = append(ins.PositiveHighlights, fmt.Sprintf("Good finding closure rate: %.1f%%", rate))
		case rate < poorClosureRate:
			ins.Recommendations = append(ins.Recommendations,
				fmt.Sprintf("Improve finding resolution - only %.1f%% closure rate", rate))
		}
	}

	if ents := a.EntityAnalysis; len(ents) > 0 {
		if c := countWhere(ents, func(s domain.EntityFindingStats) bool { return s.HighRisk > 0 }); c > 0 {
			ins.PriorityActions = append(ins.PriorityActions,
				fmt.Sprintf("%d entities have high-risk findings requiring immediate action", c))
		}
		if c := countWhere(ents, func(s domain.EntityFindingStats) bool { return s.BudgetAtRisk > entityBudgetAtRisk }); c > entitiesAtRiskFloor {
			ins.AreasOfConcern = append(ins.AreasOfConcern,
				fmt.Sprintf("%d entities have budget at risk exceeding %s 10M", c, n.currency))
		}
	}

	if b := a.BudgetDistribution; b != nil {
		if len(b.TopBudgetItems) > 0 {
			var top3 float64
			for _, item := range b.TopBudgetItems[:min(3, len(b.TopBudgetItems))] {
				top3 += item.PercentageOfTotal
			}
			if top3 > topItemsShareConcern {
				ins.AreasOfConcern = append(ins.AreasOfConcern,
					fmt.Sprintf("Budget concentration: Top 3 items represent %.1f%% of total budget", top3))
			}
		}
		if high := b.BudgetRangeDistribution[domain.BudgetRangeOver100M]; high > 0 {
			ins.Recommendations = append(ins.Recommendations,
				fmt.Sprintf("Prioritize monitoring of %d high-value items (>100M %s)", high, n.currency))
		}
	}

	if cl := a.ChecklistDetailedAnalysis; len(cl) > 0 {
		if c := countWhere(cl, func(s domain.ChecklistFindingStats) bool { return s.AverageCompliance < lowComplianceCeiling }); c > 0 {
			ins.Recommendations = append(ins.Recommendations,
				fmt.Sprintf("Review and strengthen %d checklists with compliance below 50%%", c))
		}
		if c := countWhere(cl, func(s domain.ChecklistFindingStats) bool { return s.OpenFindings > busyChecklistOpen }); c > 0 {
			ins.PriorityActions = append(ins.PriorityActions,
				fmt.Sprintf("%d checklists have more than %d open findings", c, busyChecklistOpen))
		}
	}

	return ins
}
