package analysis

import (
	"fmt"
	"sort"

	"auditintel/pkg/contracts/domain"
)

const (
	highRiskCeiling   = 50.0
	mediumRiskCeiling = 75.0

	excellentFloor = 90.0
	goodFloor      = 75.0
	fairFloor      = 50.0

	topEntitiesLimit   = 10
	topChecklistsLimit = 10
	topBudgetItems     = 5
	topPEsByBudget     = 10
)

type riskTier int

const (
	riskNone riskTier = iota
	riskHigh
	riskMedium
	riskLow
)

// findingsFrame holds the cleaned columns of a detailed findings sheet.
// The source table is never modified.
type findingsFrame struct {
	n int

	compliance numericColumn
	scoreGap   numericColumn
	expected   numericColumn
	actual     numericColumn
	budget     numericColumn

	status     textColumn
	checklist  textColumn
	peName     textColumn
	peCategory textColumn
	entityName textColumn
	entityNum  textColumn
	redFlag    textColumn
	auditType  textColumn

	tiers []riskTier
}

func newFindingsFrame(t *domain.Table) *findingsFrame {
	f := &findingsFrame{
		n:          t.Len(),
		compliance: cleanColumn(t, ColCompliance, CleanPercentage),
		scoreGap:   cleanColumn(t, ColScoreGap, CleanNumeric),
		expected:   cleanColumn(t, ColExpectedScore, CleanNumeric),
		actual:     cleanColumn(t, ColActualScore, CleanNumeric),
		budget:     cleanColumn(t, ColEstimatedBudget, CleanNumeric),
		status:     textOf(t, ColStatus),
		checklist:  textOf(t, ColChecklistTitle),
		peName:     textOf(t, ColPEName),
		peCategory: textOf(t, ColPECategory),
		entityName: textOf(t, ColEntityName),
		entityNum:  textOf(t, ColEntityNumber),
		redFlag:    textOf(t, ColRedFlag),
		auditType:  textOf(t, ColAuditType),
	}
	f.tiers = make([]riskTier, f.n)
	for i := range f.tiers {
		f.tiers[i] = f.tier(i)
	}
	return f
}

// tier assigns a risk tier only to rows with a positive score gap
func (f *findingsFrame) tier(i int) riskTier {
	c, cok := f.compliance.at(i)
	g, gok := f.scoreGap.at(i)
	if !cok || !gok || g <= 0 {
		return riskNone
	}
	switch {
	case c < highRiskCeiling:
		return riskHigh
	case c < mediumRiskCeiling:
		return riskMedium
	default:
		return riskLow
	}
}

func (f *findingsFrame) isRedFlag(i int) bool {
	return f.redFlag.upper(i) == "YES"
}

// AnalyzeFindings computes compliance, risk and financial metrics for a
// detailed findings sheet. A missing required column returns a
// *MissingColumnError and no partial result.
func AnalyzeFindings(t *domain.Table) (*domain.FindingsAnalysis, error) {
	if err := checkRequired(t, RequiredColumns(domain.FormatDetailedFindings)); err != nil {
		return nil, err
	}

	f := newFindingsFrame(t)
	out := &domain.FindingsAnalysis{TotalRecords: f.n}

	var compliance meanAcc
	for i := 0; i < f.n; i++ {
		c, ok := f.compliance.at(i)
		compliance.addIf(c, ok)
		if !ok {
			out.MissingComplianceRecords++
		} else {
			switch {
			case c >= excellentFloor:
				out.ComplianceDistribution.Excellent++
			case c >= goodFloor:
				out.ComplianceDistribution.Good++
			case c >= fairFloor:
				out.ComplianceDistribution.Fair++
			default:
				out.ComplianceDistribution.Poor++
			}
		}

		if f.status.isOpen(i) {
			out.OpenFindings++
		} else if f.status.isClosed(i) {
			out.ClosedFindings++
		}

		switch f.tiers[i] {
		case riskHigh:
			out.HighRiskFindings++
		case riskMedium:
			out.MediumRiskFindings++
		case riskLow:
			out.LowRiskFindings++
		}

		if f.isRedFlag(i) {
			out.RedFlagCount++
		}
	}
	out.AverageCompliance = round2(compliance.mean())

	out.AuditTypeBreakdown = countValues(f.auditType)
	out.CategoryBreakdown = countValues(f.peCategory)
	out.TopEntities = f.topEntities()
	out.ChecklistBreakdown = f.topChecklists()

	out.FinancialAnalysis = f.financialAnalysis()
	out.ScoreAnalysis = f.scoreAnalysis()
	if f.peName.present {
		out.PENameAnalysis = f.peNameAnalysis()
	}
	out.ChecklistDetailedAnalysis = f.checklistAnalysis()
	if f.entityName.present || f.entityNum.present {
		out.EntityAnalysis = f.entityAnalysis()
	}
	out.StatusDetailedAnalysis = domain.StatusDetailedAnalysis{
		Open:   f.statusStats(f.status.isOpen),
		Closed: f.statusStats(f.status.isClosed),
	}
	out.BudgetDistribution = f.budgetDistribution()

	return out, nil
}

// entityLabel names the audited entity of a row, preferring Entity Name over PE Name
func (f *findingsFrame) entityLabel(i int) string {
	if v := f.entityName.at(i); v != "" {
		return v
	}
	return f.peName.at(i)
}

func (f *findingsFrame) topEntities() map[string]int {
	c := newCounter()
	for i := 0; i < f.n; i++ {
		c.add(f.entityLabel(i))
	}
	return c.top(topEntitiesLimit)
}

func (f *findingsFrame) topChecklists() map[string]int {
	c := newCounter()
	for _, v := range f.checklist.vals {
		c.add(v)
	}
	return c.top(topChecklistsLimit)
}

func (f *findingsFrame) financialAnalysis() *domain.FinancialAnalysis {
	if !f.budget.present || f.budget.nonNull() == 0 {
		return nil
	}
	var total, atRisk float64
	for i := 0; i < f.n; i++ {
		b, ok := f.budget.at(i)
		if !ok {
			continue
		}
		total += b
		if f.status.isOpen(i) {
			atRisk += b
		}
	}
	return &domain.FinancialAnalysis{
		TotalBudget:            round2(total),
		AverageBudget:          round2(total / float64(f.budget.nonNull())),
		BudgetAtRisk:           round2(atRisk),
		BudgetAtRiskPercentage: round2(pct(atRisk, total)),
	}
}

func (f *findingsFrame) scoreAnalysis() *domain.ScoreAnalysis {
	if !f.expected.present || !f.actual.present {
		return nil
	}
	var expected, actual, gap float64
	rows, gapRows := 0, 0
	for i := 0; i < f.n; i++ {
		e, eok := f.expected.at(i)
		a, aok := f.actual.at(i)
		if !eok || !aok {
			continue
		}
		rows++
		expected += e
		actual += a
		if g, ok := f.scoreGap.at(i); ok {
			gap += g
			gapRows++
		}
	}
	if rows == 0 {
		return nil
	}
	if gapRows == 0 {
		gap = expected - actual
	}
	return &domain.ScoreAnalysis{
		TotalExpectedScore:   round2(expected),
		TotalActualScore:     round2(actual),
		TotalScoreGap:        round2(gap),
		ScoreAchievementRate: round2(pct(actual, expected)),
	}
}

func (f *findingsFrame) peNameAnalysis() map[string]domain.PEFindingStats {
	g := groupBy(f.peName)
	out := make(map[string]domain.PEFindingStats, len(g.order))
	for _, pe := range g.order {
		var s domain.PEFindingStats
		var compliance meanAcc
		var budget float64
		for _, i := range g.rows[pe] {
			s.TotalFindings++
			if f.status.isOpen(i) {
				s.OpenFindings++
			} else if f.status.isClosed(i) {
				s.ClosedFindings++
			}
			compliance.addIf(f.compliance.at(i))
			budget += f.budget.value(i)
			if f.tiers[i] == riskHigh {
				s.HighRiskFindings++
			}
			if f.isRedFlag(i) {
				s.RedFlagCount++
			}
			if s.PECategory == "" {
				s.PECategory = f.peCategory.at(i)
			}
		}
		s.AverageCompliance = round2(compliance.mean())
		s.TotalBudget = round2(budget)
		if s.PECategory == "" {
			s.PECategory = domain.NotAvailable
		}
		out[pe] = s
	}
	return out
}

func (f *findingsFrame) checklistAnalysis() map[string]domain.ChecklistFindingStats {
	g := groupBy(f.checklist)
	out := make(map[string]domain.ChecklistFindingStats, len(g.order))
	for _, title := range g.order {
		var s domain.ChecklistFindingStats
		var compliance meanAcc
		var gap float64
		for _, i := range g.rows[title] {
			s.TotalFindings++
			if f.status.isOpen(i) {
				s.OpenFindings++
			} else if f.status.isClosed(i) {
				s.ClosedFindings++
			}
			compliance.addIf(f.compliance.at(i))
			gap += f.scoreGap.value(i)
			if s.AuditType == "" {
				s.AuditType = f.auditType.at(i)
			}
		}
		s.AverageCompliance = round2(compliance.mean())
		s.TotalScoreGap = round2(gap)
		if s.AuditType == "" {
			s.AuditType = domain.NotAvailable
		}
		out[title] = s
	}
	return out
}

// entityKey renders "Name (Number)", or whichever of the two is given
func (f *findingsFrame) entityKey(i int) string {
	name, num := f.entityName.at(i), f.entityNum.at(i)
	switch {
	case name != "" && num != "":
		return fmt.Sprintf("%s (%s)", name, num)
	case name != "":
		return name
	default:
		return num
	}
}

func (f *findingsFrame) entityAnalysis() map[string]domain.EntityFindingStats {
	keys := textColumn{present: true, vals: make([]string, f.n)}
	for i := range keys.vals {
		keys.vals[i] = f.entityKey(i)
	}
	g := groupBy(keys)
	out := make(map[string]domain.EntityFindingStats, len(g.order))
	for _, key := range g.order {
		var s domain.EntityFindingStats
		var compliance meanAcc
		var budget, atRisk float64
		for _, i := range g.rows[key] {
			s.TotalFindings++
			open := f.status.isOpen(i)
			if open {
				s.OpenFindings++
			} else if f.status.isClosed(i) {
				s.ClosedFindings++
			}
			compliance.addIf(f.compliance.at(i))
			b := f.budget.value(i)
			budget += b
			if open {
				atRisk += b
			}
			switch f.tiers[i] {
			case riskHigh:
				s.HighRisk++
			case riskMedium:
				s.MediumRisk++
			case riskLow:
				s.LowRisk++
			}
		}
		s.AverageCompliance = round2(compliance.mean())
		s.TotalBudget = round2(budget)
		s.BudgetAtRisk = round2(atRisk)
		out[key] = s
	}
	return out
}

func (f *findingsFrame) statusStats(match func(int) bool) domain.StatusStats {
	s := domain.StatusStats{AuditTypeDistribution: map[string]int{}}
	var compliance meanAcc
	var budget, gap float64
	audit := newCounter()
	for i := 0; i < f.n; i++ {
		if !match(i) {
			continue
		}
		s.Count++
		compliance.addIf(f.compliance.at(i))
		budget += f.budget.value(i)
		gap += f.scoreGap.value(i)
		if f.tiers[i] == riskHigh {
			s.HighRiskCount++
		}
		if f.isRedFlag(i) {
			s.RedFlagCount++
		}
		audit.add(f.auditType.at(i))
	}
	s.AverageCompliance = round2(compliance.mean())
	s.TotalBudget = round2(budget)
	s.TotalScoreGap = round2(gap)
	s.AuditTypeDistribution = audit.all()
	return s
}

func budgetRange(v float64) string {
	switch {
	case v < 10_000_000:
		return domain.BudgetRangeUnder10M
	case v < 50_000_000:
		return domain.BudgetRange10To50M
	case v <= 100_000_000:
		return domain.BudgetRange50To100M
	default:
		return domain.BudgetRangeOver100M
	}
}

func (f *findingsFrame) budgetDistribution() *domain.BudgetDistribution {
	if !f.budget.present || f.budget.nonNull() == 0 {
		return nil
	}

	dist := &domain.BudgetDistribution{
		BudgetRangeDistribution: make(map[string]int, len(domain.BudgetRanges)),
		TopBudgetItems:          []domain.BudgetItem{},
		TopPEsByBudget:          []domain.PEBudget{},
	}
	for _, r := range domain.BudgetRanges {
		dist.BudgetRangeDistribution[r] = 0
	}

	var total float64
	var rows []int
	for i := 0; i < f.n; i++ {
		b, ok := f.budget.at(i)
		if !ok {
			continue
		}
		total += b
		rows = append(rows, i)
		dist.BudgetRangeDistribution[budgetRange(b)]++
	}
	dist.TotalBudget = round2(total)

	sort.SliceStable(rows, func(a, b int) bool {
		return f.budget.vals[rows[a]] > f.budget.vals[rows[b]]
	})
	if len(rows) > topBudgetItems {
		rows = rows[:topBudgetItems]
	}
	for _, i := range rows {
		b := f.budget.vals[i]
		item := domain.BudgetItem{
			Entity:            f.entityLabel(i),
			Budget:            round2(b),
			Status:            f.status.or(i, domain.NotAvailable),
			PercentageOfTotal: round2(pct(b, total)),
		}
		if item.Entity == "" {
			item.Entity = "Unknown"
		}
		if c, ok := f.compliance.at(i); ok {
			c = round2(c)
			item.Compliance = &c
		}
		dist.TopBudgetItems = append(dist.TopBudgetItems, item)
	}

	if f.peName.present {
		g := groupBy(f.peName)
		pes := make([]domain.PEBudget, 0, len(g.order))
		for _, pe := range g.order {
			var sum float64
			for _, i := range g.rows[pe] {
				sum += f.budget.value(i)
			}
			pes = append(pes, domain.PEBudget{PEName: pe, TotalBudget: sum})
		}
		sort.SliceStable(pes, func(a, b int) bool { return pes[a].TotalBudget > pes[b].TotalBudget })
		if len(pes) > topPEsByBudget {
			pes = pes[:topPEsByBudget]
		}
		for i := range pes {
			pes[i].TotalBudget = round2(pes[i].TotalBudget)
		}
		dist.TopPEsByBudget = pes
	}

	return dist
}
