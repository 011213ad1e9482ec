package analysis

import (
	"sort"

	"auditintel/pkg/contracts/domain"
)

const (
	satisfactoryFloor = 60.0
	tenderingHigh     = 80.0
	tenderingLow      = 60.0
	performersLimit   = 5
)

var entitySummaryRequired = []string{ColProcuringEntity, ColOverall}

type entityFrame struct {
	n int

	overall      numericColumn
	tenderingAvg numericColumn
	tenders      numericColumn
	appMarks     numericColumn
	institution  numericColumn

	entity       textColumn
	category     textColumn
	status       textColumn
	tenderNumber textColumn
}

// rescaleFraction multiplies a percentage column by 100 when every value is
// at most 1, which is how spreadsheets store 0.85 for 85%.
func rescaleFraction(c numericColumn) {
	if m, ok := c.max(); ok && m <= 1.0 {
		c.scale(100)
	}
}

func newEntityFrame(t *domain.Table) *entityFrame {
	f := &entityFrame{
		n:            t.Len(),
		overall:      cleanColumn(t, ColOverall, CleanPercentage),
		tenderingAvg: cleanColumn(t, ColTenderingAvg, CleanPercentage),
		tenders:      cleanColumn(t, ColTenders, CleanNumeric),
		appMarks:     cleanColumn(t, ColAppMarks, CleanNumeric),
		institution:  cleanColumn(t, ColInstitution, CleanNumeric),
		entity:       textOf(t, ColProcuringEntity),
		category:     textOf(t, ColSummaryCategory),
		status:       textOf(t, ColStatus),
		tenderNumber: textOf(t, ColTenderNumber),
	}
	rescaleFraction(f.overall)
	rescaleFraction(f.tenderingAvg)
	return f
}

// AnalyzeEntitySummary computes performance metrics for a sheet with one
// aggregated row per procuring entity.
func AnalyzeEntitySummary(t *domain.Table) (*domain.EntitySummaryAnalysis, error) {
	if err := checkRequired(t, entitySummaryRequired); err != nil {
		return nil, err
	}

	f := newEntityFrame(t)
	out := &domain.EntitySummaryAnalysis{TotalEntities: f.n}

	var overall meanAcc
	for i := 0; i < f.n; i++ {
		v, ok := f.overall.at(i)
		if !ok {
			continue
		}
		overall.add(v)
		switch {
		case v >= excellentFloor:
			out.PerformanceDistribution.Excellent++
		case v >= goodFloor:
			out.PerformanceDistribution.Good++
		case v >= satisfactoryFloor:
			out.PerformanceDistribution.Satisfactory++
		default:
			out.PerformanceDistribution.NeedsImprovement++
		}
	}
	out.AverageOverallPerformance = round2(overall.mean())

	out.CategoryBreakdown = countValues(f.category)
	out.StatusBreakdown = countValues(f.status)
	out.TendersAnalysis = f.tendersAnalysis()
	out.TenderingPerformance = f.tenderingPerformance()
	out.TopPerformers, out.BottomPerformers = f.performers()
	if f.category.present {
		out.EntityByCategory = f.byCategory()
	}
	out.DetailedEntities = f.detailedEntities()

	return out, nil
}

func (f *entityFrame) tendersAnalysis() *domain.TendersAnalysis {
	if !f.tenders.present || f.tenders.nonNull() == 0 {
		return nil
	}
	var acc meanAcc
	var lo, hi float64
	for i := 0; i < f.n; i++ {
		v, ok := f.tenders.at(i)
		if !ok {
			continue
		}
		if acc.n == 0 || v < lo {
			lo = v
		}
		if acc.n == 0 || v > hi {
			hi = v
		}
		acc.add(v)
	}
	return &domain.TendersAnalysis{
		TotalTenders:            int(acc.sum),
		AverageTendersPerEntity: round2(acc.mean()),
		MaxTenders:              int(hi),
		MinTenders:              int(lo),
	}
}

func (f *entityFrame) tenderingPerformance() *domain.TenderingPerformance {
	if !f.tenderingAvg.present || f.tenderingAvg.nonNull() == 0 {
		return nil
	}
	var acc meanAcc
	p := &domain.TenderingPerformance{}
	for i := 0; i < f.n; i++ {
		v, ok := f.tenderingAvg.at(i)
		if !ok {
			continue
		}
		acc.add(v)
		if v >= tenderingHigh {
			p.EntitiesAbove80++
		}
		if v < tenderingLow {
			p.EntitiesBelow60++
		}
	}
	p.AverageTenderingScore = round2(acc.mean())
	return p
}

func (f *entityFrame) performer(i int) domain.EntityPerformer {
	return domain.EntityPerformer{
		Entity:            f.entity.at(i),
		OverallPercentage: round2(f.overall.value(i)),
		Tenders:           int(f.tenders.value(i)),
		TenderNumber:      f.tenderNumber.or(i, domain.NotAvailable),
	}
}

// performers ranks rows with an overall value; ties keep sheet order
func (f *entityFrame) performers() (top, bottom []domain.EntityPerformer) {
	var rows []int
	for i := 0; i < f.n; i++ {
		if _, ok := f.overall.at(i); ok {
			rows = append(rows, i)
		}
	}

	desc := append([]int(nil), rows...)
	sort.SliceStable(desc, func(a, b int) bool { return f.overall.vals[desc[a]] > f.overall.vals[desc[b]] })
	asc := append([]int(nil), rows...)
	sort.SliceStable(asc, func(a, b int) bool { return f.overall.vals[asc[a]] < f.overall.vals[asc[b]] })

	top = make([]domain.EntityPerformer, 0, performersLimit)
	for _, i := range desc[:min(performersLimit, len(desc))] {
		top = append(top, f.performer(i))
	}
	bottom = make([]domain.EntityPerformer, 0, performersLimit)
	for _, i := range asc[:min(performersLimit, len(asc))] {
		bottom = append(bottom, f.performer(i))
	}
	return top, bottom
}

func (f *entityFrame) byCategory() map[string]domain.CategoryPerformance {
	g := groupBy(f.category)
	out := make(map[string]domain.CategoryPerformance, len(g.order))
	for _, cat := range g.order {
		var overall meanAcc
		var tenders float64
		for _, i := range g.rows[cat] {
			overall.addIf(f.overall.at(i))
			tenders += f.tenders.value(i)
		}
		out[cat] = domain.CategoryPerformance{
			Count:          len(g.rows[cat]),
			AverageOverall: round2(overall.mean()),
			TotalTenders:   int(tenders),
		}
	}
	return out
}

// detailedEntities keys rows by entity name; a repeated name keeps its last row
func (f *entityFrame) detailedEntities() map[string]domain.EntityDetail {
	out := make(map[string]domain.EntityDetail, f.n)
	for i := 0; i < f.n; i++ {
		name := f.entity.at(i)
		if name == "" {
			continue
		}
		out[name] = domain.EntityDetail{
			OverallPercentage: round2(f.overall.value(i)),
			Tenders:           int(f.tenders.value(i)),
			TenderingAvg:      round2(f.tenderingAvg.value(i)),
			AppMarks:          round2(f.appMarks.value(i)),
			InstitutionScore:  round2(f.institution.value(i)),
			Status:            f.status.or(i, domain.NotAvailable),
			Category:          f.category.or(i, domain.NotAvailable),
			TenderNumber:      f.tenderNumber.or(i, domain.NotAvailable),
		}
	}
	return out
}
