package analysis

import (
	"sort"

	"auditintel/pkg/contracts/domain"
)

const (
	topEntitiesByBudget = 5
	detailTextLimit     = 200
)

type tenderRange struct {
	name     string
	min, max float64
}

// tenderRanges are half-open [min, max) in the reporting currency
var tenderRanges = []tenderRange{
	{domain.TenderRangeUpTo50M, 0, 50_000_000},
	{domain.TenderRange50To100M, 50_000_000, 100_000_000},
	{domain.TenderRange100To200M, 100_000_000, 200_000_000},
	{domain.TenderRange200To500M, 200_000_000, 500_000_000},
	{domain.TenderRangeOver500M, 500_000_000, 0},
}

func (r tenderRange) contains(v float64) bool {
	return v >= r.min && (r.max == 0 || v < r.max)
}

type multiTenderFrame struct {
	n int

	budget      numericColumn
	tenderCount numericColumn

	peName       textColumn
	checklist    textColumn
	status       textColumn
	redFlag      textColumn
	findingTitle textColumn
	description  textColumn
	recommend    textColumn
	createdAt    textColumn

	tenders [][]domain.Tender
}

func newMultiTenderFrame(t *domain.Table) *multiTenderFrame {
	f := &multiTenderFrame{
		n:            t.Len(),
		budget:       cleanColumn(t, ColTotalBudget, CleanNumeric),
		tenderCount:  cleanColumn(t, ColTenderCount, CleanNumeric),
		peName:       textOf(t, ColPEName),
		checklist:    textOf(t, ColChecklistTitle),
		status:       textOf(t, ColStatus),
		redFlag:      textOf(t, ColRedFlag),
		findingTitle: textOf(t, ColFindingTitle),
		description:  textOf(t, ColFindingDescription),
		recommend:    textOf(t, ColRecommendation),
		createdAt:    textOf(t, ColCreatedAt),
		tenders:      make([][]domain.Tender, t.Len()),
	}
	tenderCells := t.Column(ColTenders)
	for i := range f.tenders {
		f.tenders[i] = ParseTenders(tenderCells[i])
	}
	return f
}

// isRedFlag accepts only the exact markers RED FLAG and YES, so
// "NOT RED FLAG" does not count.
func (f *multiTenderFrame) isRedFlag(i int) bool {
	v := f.redFlag.upper(i)
	return v == "RED FLAG" || v == "YES"
}

// AnalyzeMultiTender computes finding, budget and tender metrics for a sheet
// whose rows each reference several tenders.
func AnalyzeMultiTender(t *domain.Table) (*domain.MultiTenderAnalysis, error) {
	if err := checkRequired(t, RequiredColumns(domain.FormatMultiTender)); err != nil {
		return nil, err
	}

	f := newMultiTenderFrame(t)
	out := &domain.MultiTenderAnalysis{TotalFindings: f.n}

	var budget, tenders meanAcc
	for i := 0; i < f.n; i++ {
		if f.status.isOpen(i) {
			out.OpenFindings++
		} else if f.status.isClosed(i) {
			out.ClosedFindings++
		}
		if f.isRedFlag(i) {
			out.RedFlags++
		}
		budget.addIf(f.budget.at(i))
		tenders.addIf(f.tenderCount.at(i))
	}
	out.TotalBudget = round2(budget.sum)
	out.AverageBudgetPerFinding = round2(budget.mean())
	out.TotalTenders = int(tenders.sum)
	out.AverageTendersPerFinding = round2(tenders.mean())

	unique, budgets := f.uniqueTenders()
	out.UniqueTenders = unique
	out.BudgetRangeDistribution = tenderBudgetRanges(budgets)

	pes, peOrder := f.peAnalysis()
	out.PEAnalysis = pes
	out.ChecklistAnalysis = f.checklistAnalysis()
	out.TopEntitiesByBudget = topEntitiesBudget(pes, peOrder)
	out.DetailedFindings = f.detailedFindings()

	return out, nil
}

// uniqueTenders counts distinct tender numbers and returns, per number, the
// budget of its first sighting that carried a positive budget
func (f *multiTenderFrame) uniqueTenders() (int, []float64) {
	seen := map[string]struct{}{}
	budgeted := map[string]struct{}{}
	var budgets []float64
	for _, row := range f.tenders {
		for _, td := range row {
			if td.TenderNumber == "" {
				continue
			}
			seen[td.TenderNumber] = struct{}{}
			if td.Budget <= 0 {
				continue
			}
			if _, ok := budgeted[td.TenderNumber]; !ok {
				budgeted[td.TenderNumber] = struct{}{}
				budgets = append(budgets, td.Budget)
			}
		}
	}
	return len(seen), budgets
}

func tenderBudgetRanges(budgets []float64) map[string]domain.TenderBudgetRange {
	out := make(map[string]domain.TenderBudgetRange, len(tenderRanges))
	for _, r := range tenderRanges {
		var br domain.TenderBudgetRange
		for _, b := range budgets {
			if r.contains(b) {
				br.Count++
				br.TotalBudget += b
			}
		}
		br.TotalBudget = round2(br.TotalBudget)
		br.Percentage = round2(pct(float64(br.Count), float64(len(budgets))))
		out[r.name] = br
	}
	return out
}

func (f *multiTenderFrame) tenderRefs(rows []int) ([]string, []domain.Tender) {
	numbers := []string{}
	details := []domain.Tender{}
	for _, i := range rows {
		for _, td := range f.tenders[i] {
			if td.TenderNumber == "" {
				continue
			}
			numbers = append(numbers, td.TenderNumber)
			details = append(details, td)
		}
	}
	return numbers, details
}

func (f *multiTenderFrame) peAnalysis() (map[string]domain.PETenderStats, []string) {
	g := groupBy(f.peName)
	out := make(map[string]domain.PETenderStats, len(g.order))
	for _, pe := range g.order {
		rows := g.rows[pe]
		var s domain.PETenderStats
		var budget float64
		for _, i := range rows {
			s.TotalFindings++
			if f.status.isOpen(i) {
				s.OpenFindings++
			} else if f.status.isClosed(i) {
				s.ClosedFindings++
			}
			budget += f.budget.value(i)
			if f.isRedFlag(i) {
				s.RedFlags++
			}
		}
		s.TotalBudget = round2(budget)
		s.TenderNumbers, s.TenderDetails = f.tenderRefs(rows)
		s.TotalTenders = len(s.TenderNumbers)
		out[pe] = s
	}
	return out, g.order
}

func (f *multiTenderFrame) checklistAnalysis() map[string]domain.ChecklistTenderStats {
	g := groupBy(f.checklist)
	out := make(map[string]domain.ChecklistTenderStats, len(g.order))
	for _, title := range g.order {
		var s domain.ChecklistTenderStats
		var budget, tenders meanAcc
		entities := map[string]struct{}{}
		for _, i := range g.rows[title] {
			s.TotalFindings++
			if f.status.isOpen(i) {
				s.OpenFindings++
			} else if f.status.isClosed(i) {
				s.ClosedFindings++
			}
			budget.addIf(f.budget.at(i))
			tenders.addIf(f.tenderCount.at(i))
			if f.isRedFlag(i) {
				s.RedFlags++
			}
			if pe := f.peName.at(i); pe != "" {
				entities[pe] = struct{}{}
			}
		}
		s.CompletionRate = round2(pct(float64(s.ClosedFindings), float64(s.TotalFindings)))
		s.TotalBudget = round2(budget.sum)
		s.AverageBudgetPerFinding = round2(budget.mean())
		s.TotalTenders = int(tenders.sum)
		s.AverageTendersPerFinding = round2(tenders.mean())
		s.AffectedEntities = len(entities)
		s.RiskLevel = checklistRisk(s)
		out[title] = s
	}
	return out
}

func checklistRisk(s domain.ChecklistTenderStats) string {
	switch {
	case s.RedFlags > 0:
		return domain.RiskHigh
	case s.OpenFindings > s.ClosedFindings:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func topEntitiesBudget(pes map[string]domain.PETenderStats, order []string) []domain.EntityBudgetSummary {
	names := append([]string(nil), order...)
	sort.SliceStable(names, func(a, b int) bool {
		return pes[names[a]].TotalBudget > pes[names[b]].TotalBudget
	})
	if len(names) > topEntitiesByBudget {
		names = names[:topEntitiesByBudget]
	}
	out := make([]domain.EntityBudgetSummary, 0, len(names))
	for _, name := range names {
		s := pes[name]
		out = append(out, domain.EntityBudgetSummary{
			EntityName:    name,
			TotalBudget:   s.TotalBudget,
			TotalFindings: s.TotalFindings,
			OpenFindings:  s.OpenFindings,
			TotalTenders:  s.TotalTenders,
			TenderNumbers: s.TenderNumbers,
			TenderDetails: s.TenderDetails,
			RedFlags:      s.RedFlags,
		})
	}
	return out
}

func (f *multiTenderFrame) detailedFindings() []domain.FindingDetail {
	out := make([]domain.FindingDetail, 0, f.n)
	for i := 0; i < f.n; i++ {
		d := domain.FindingDetail{
			PEName:         f.peName.or(i, "Unknown"),
			Checklist:      f.checklist.or(i, "Unknown"),
			FindingTitle:   f.findingTitle.or(i, domain.NotAvailable),
			Status:         f.status.or(i, "Unknown"),
			RedFlag:        f.redFlag.or(i, domain.NotAvailable),
			TotalBudget:    round2(f.budget.value(i)),
			TenderCount:    int(f.tenderCount.value(i)),
			Tenders:        f.tenders[i],
			Description:    truncate(f.description.at(i), detailTextLimit),
			Recommendation: truncate(f.recommend.at(i), detailTextLimit),
			CreatedAt:      f.createdAt.at(i),
		}
		if d.Tenders == nil {
			d.Tenders = []domain.Tender{}
		}
		out = append(out, d)
	}
	return out
}

// truncate cuts s to limit runes and marks the cut with "..."
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
