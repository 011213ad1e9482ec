package narrative

import (
	"fmt"
	"strings"

	"auditintel/pkg/contracts/domain"
)

const (
	highValueFindings     = 100_000_000.0
	prioritizeValueBudget = 50_000_000.0
	goodCompletionRate    = 70.0
	lowCompletionRate     = 50.0
	systemicTenderAverage = 2.0
	trainingEntityFloor   = 3
)

func (n *Narrator) multiTenderSummary(sheet string, a *domain.MultiTenderAnalysis) string {
	var t text
	t.add("%s - Multi-Tender Findings Report:", sheet)
	t.add(divider)
	t.add("Total Findings: %d", a.TotalFindings)
	t.add("Open Findings: %d", a.OpenFindings)
	t.add("Closed Findings: %d", a.ClosedFindings)
	if a.RedFlags > 0 {
		t.add("Red Flags: %d", a.RedFlags)
	}

	t.section("Budget Overview:")
	t.add("  - Total Budget: %s", n.moneyWhole(a.TotalBudget))
	t.add("  - Average per Finding: %s", n.moneyWhole(a.AverageBudgetPerFinding))

	t.section("Tender Overview:")
	t.add("  - Total Tenders: %d", a.TotalTenders)
	t.add("  - Unique Tenders: %d", a.UniqueTenders)
	t.add("  - Average per Finding: %.2f", a.AverageTendersPerFinding)

	if a.UniqueTenders > 0 {
		t.section("Budget Range Distribution:")
		for _, name := range domain.TenderRanges {
			r := a.BudgetRangeDistribution[name]
			if r.Count == 0 {
				continue
			}
			t.add("  - %s: %d tenders (%.1f%%) - %s", name, r.Count, r.Percentage, n.moneyWhole(r.TotalBudget))
		}
	}

	if len(a.TopEntitiesByBudget) > 0 {
		t.section("Top Entities by Budget:")
		for _, e := range a.TopEntitiesByBudget[:min(5, len(a.TopEntitiesByBudget))] {
			t.add("  - %s:", e.EntityName)
			t.add("    - Budget: %s", n.moneyWhole(e.TotalBudget))
			t.add("    - Findings: %d (Open: %d)", e.TotalFindings, e.OpenFindings)
			t.add("    - Tenders: %d", e.TotalTenders)
			if len(e.TenderNumbers) > 0 {
				t.add("    - Tender Numbers: %s", tenderList(e.TenderNumbers, 3))
			}
		}
	}

	if len(a.ChecklistAnalysis) > 0 {
		t.section("Analysis by Checklist:")
		keys := rankKeys(a.ChecklistAnalysis, func(s domain.ChecklistTenderStats) float64 { return float64(s.TotalFindings) })
		for _, name := range keys[:min(5, len(keys))] {
			c := a.ChecklistAnalysis[name]
			t.add("  - %s", clip(name, 80))
			t.add("    - Findings: %d (Open: %d, Closed: %d)", c.TotalFindings, c.OpenFindings, c.ClosedFindings)
			t.add("    - Budget: %s (Avg: %s)", n.moneyWhole(c.TotalBudget), n.moneyWhole(c.AverageBudgetPerFinding))
			t.add("    - Tenders: %d (Avg: %.2f)", c.TotalTenders, c.AverageTendersPerFinding)
			t.add("    - Risk Level: %s", c.RiskLevel)
		}
	}

	return t.String()
}

// tenderList joins the first n tender numbers and counts the rest
func tenderList(numbers []string, n int) string {
	if len(numbers) <= n {
		return strings.Join(numbers, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(numbers[:n], ", "), len(numbers)-n)
}

func (n *Narrator) multiTenderInsights(a *domain.MultiTenderAnalysis) *domain.Insights {
	ins := domain.NewInsights()

	if a.OpenFindings > 0 {
		ins.PriorityActions = append(ins.PriorityActions,
			n.say(phraseOpenMultiTender, a.OpenFindings, share(a.OpenFindings, a.TotalFindings)))
	}
	if a.RedFlags > 0 {
		ins.PriorityActions = append(ins.PriorityActions,
			fmt.Sprintf("CRITICAL: %d red flags detected - urgent action required", a.RedFlags))
	}
	if a.TotalBudget > highValueFindings {
		ins.PriorityActions = append(ins.PriorityActions,
			fmt.Sprintf("High-value findings totaling %s (%.1fM) - prioritize resolution",
				n.moneyWhole(a.TotalBudget), a.TotalBudget/1_000_000))
	}
	if len(a.TopEntitiesByBudget) > 0 {
		if top := a.TopEntitiesByBudget[0]; top.OpenFindings > 0 {
			ins.PriorityActions = append(ins.PriorityActions,
				fmt.Sprintf("Focus on %s: %d open findings with %s budget affecting %d tenders",
					top.EntityName, top.OpenFindings, n.moneyWhole(top.TotalBudget), top.TotalTenders))
		}
	}

	if a.ClosedFindings > 0 {
		ins.PositiveHighlights = append(ins.PositiveHighlights,
			fmt.Sprintf("%d findings (%.1f%%) successfully closed", a.ClosedFindings, share(a.ClosedFindings, a.TotalFindings)))
	}
	if a.UniqueTenders > 0 {
		ins.PositiveHighlights = append(ins.PositiveHighlights,
			fmt.Sprintf("Tracking %d unique tenders with comprehensive oversight (duplicate tenders removed)", a.UniqueTenders))
	}
	if c := countWhere(a.ChecklistAnalysis, func(s domain.ChecklistTenderStats) bool { return s.CompletionRate >= goodCompletionRate }); c > 0 {
		ins.PositiveHighlights = append(ins.PositiveHighlights,
			fmt.Sprintf("%d checklist(s) showing good completion rate (>=70%%)", c))
	}

	if a.OpenFindings > a.ClosedFindings {
		ins.AreasOfConcern = append(ins.AreasOfConcern,
			fmt.Sprintf("More open findings (%d) than closed (%d) - resolution rate needs improvement", a.OpenFindings, a.ClosedFindings))
	}
	if a.AverageTendersPerFinding > systemicTenderAverage {
		ins.AreasOfConcern = append(ins.AreasOfConcern,
			fmt.Sprintf("Average of %.1f tenders per finding - may indicate systemic issues", a.AverageTendersPerFinding))
	}
	for _, name := range sortedKeys(a.ChecklistAnalysis) {
		c := a.ChecklistAnalysis[name]
		if c.RiskLevel != domain.RiskHigh {
			continue
		}
		ins.AreasOfConcern = append(ins.AreasOfConcern,
			fmt.Sprintf("Checklist '%s': High risk level with %d red flags affecting %d entities",
				clipPlain(name, 50), c.RedFlags, c.AffectedEntities))
		break
	}
	if r := a.BudgetRangeDistribution[domain.TenderRangeOver500M]; r.Count > 0 {
		ins.AreasOfConcern = append(ins.AreasOfConcern,
			fmt.Sprintf("%d high-value tenders (>500M %s) totaling %s - require enhanced monitoring",
				r.Count, n.currency, n.moneyWhole(r.TotalBudget)))
	}

	if a.RedFlags > 0 {
		ins.Recommendations = append(ins.Recommendations,
			"Immediately investigate and document action plans for all red flag findings")
	}
	if a.OpenFindings > 0 {
		ins.Recommendations = append(ins.Recommendations,
			"Establish clear timelines and assign ownership for resolving open findings")
	}
	if a.TotalBudget > prioritizeValueBudget {
		ins.Recommendations = append(ins.Recommendations,
			"Prioritize high-value findings to minimize financial risk exposure")
	}
	if len(a.TopEntitiesByBudget) > trainingEntityFloor {
		ins.Recommendations = append(ins.Recommendations,
			fmt.Sprintf("Conduct training sessions for the %d entities with findings to prevent recurrence", len(a.TopEntitiesByBudget)))
	}
	if countWhere(a.ChecklistAnalysis, func(s domain.ChecklistTenderStats) bool { return s.CompletionRate < lowCompletionRate }) > 0 {
		ins.Recommendations = append(ins.Recommendations,
			"Focus resources on checklists with low completion rates to improve overall compliance")
	}

	return ins
}

// clipPlain cuts to n runes without an ellipsis
func clipPlain(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
