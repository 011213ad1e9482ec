package domain

// MetricDescriptor documents one top-level metric of an analysis result
type MetricDescriptor struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Unit        string `json:"unit,omitempty"`
}

var metricCatalog = map[Format][]MetricDescriptor{
	FormatDetailedFindings: {
		{Key: "total_records", Label: "Total Records", Description: "Number of audit findings in the sheet", Unit: "findings"},
		{Key: "average_compliance", Label: "Average Compliance", Description: "Mean compliance percentage over findings with a compliance value", Unit: "%"},
		{Key: "open_findings", Label: "Open Findings", Description: "Findings with status OPEN", Unit: "findings"},
		{Key: "closed_findings", Label: "Closed Findings", Description: "Findings with status CLOSED", Unit: "findings"},
		{Key: "high_risk_findings", Label: "High Risk Findings", Description: "Findings with a score gap and compliance below 50%", Unit: "findings"},
		{Key: "medium_risk_findings", Label: "Medium Risk Findings", Description: "Findings with a score gap and compliance from 50% to below 75%", Unit: "findings"},
		{Key: "low_risk_findings", Label: "Low Risk Findings", Description: "Findings with a score gap and compliance of 75% or more", Unit: "findings"},
		{Key: "red_flag_count", Label: "Red Flags", Description: "Findings marked YES in the Red Flag column", Unit: "findings"},
		{Key: "missing_compliance_records", Label: "Missing Compliance", Description: "Findings without a usable compliance value", Unit: "findings"},
		{Key: "compliance_distribution", Label: "Compliance Distribution", Description: "Findings bucketed as excellent (90+), good (75-90), fair (50-75) and poor (<50)"},
		{Key: "financial_analysis", Label: "Financial Analysis", Description: "Estimated budget totals and the share held by open findings", Unit: "currency"},
		{Key: "score_analysis", Label: "Score Analysis", Description: "Expected versus actual score totals and achievement rate"},
		{Key: "pe_name_analysis", Label: "Procuring Entity Analysis", Description: "Findings, compliance and budget per procuring entity"},
		{Key: "checklist_detailed_analysis", Label: "Checklist Analysis", Description: "Findings, compliance and score gap per checklist item"},
		{Key: "entity_analysis", Label: "Entity Analysis", Description: "Findings, budget at risk and risk tiers per audited entity"},
		{Key: "status_detailed_analysis", Label: "Status Analysis", Description: "Metrics for OPEN and CLOSED findings"},
		{Key: "budget_distribution", Label: "Budget Distribution", Description: "Budget ranges, largest items and top procuring entities by budget", Unit: "currency"},
	},
	FormatMultiTender: {
		{Key: "total_findings", Label: "Total Findings", Description: "Total number of audit findings identified across all procuring entities", Unit: "findings"},
		{Key: "open_findings", Label: "Open Findings", Description: "Number of findings with status OPEN that require action or resolution", Unit: "findings"},
		{Key: "closed_findings", Label: "Closed Findings", Description: "Number of findings with status CLOSED that have been resolved or addressed", Unit: "findings"},
		{Key: "red_flags", Label: "Red Flags", Description: "Count of findings marked as RED FLAG indicating critical compliance issues or risks", Unit: "findings"},
		{Key: "total_budget", Label: "Total Budget", Description: "Aggregate budget amount across all findings and tenders in the analysis", Unit: "currency"},
		{Key: "average_budget_per_finding", Label: "Average Budget per Finding", Description: "Mean budget allocation per finding, calculated by dividing total budget by number of findings", Unit: "currency"},
		{Key: "total_tenders", Label: "Total Tenders", Description: "Total count of tenders referenced across all findings", Unit: "tenders"},
		{Key: "unique_tenders", Label: "Unique Tenders", Description: "Number of unique tender numbers after removing duplicates across findings", Unit: "tenders"},
		{Key: "average_tenders_per_finding", Label: "Average Tenders per Finding", Description: "Average number of tenders associated with each finding", Unit: "tenders"},
		{Key: "budget_range_distribution", Label: "Tender Budget Ranges", Description: "Distribution of unique tenders across budget ranges, removing duplicates to get accurate budget allocation insights", Unit: "currency"},
		{Key: "pe_analysis", Label: "Procuring Entity Analysis", Description: "Analysis of findings grouped by Procuring Entity (PE), showing performance metrics and tender details for each entity"},
		{Key: "checklist_analysis", Label: "Checklist Analysis", Description: "Detailed breakdown of findings grouped by checklist/compliance requirement, showing status, budget impact, and risk indicators"},
		{Key: "top_entities_by_budget", Label: "Top Entities by Budget", Description: "Top 5 procuring entities ranked by total budget allocation across all their findings, including detailed tender information", Unit: "currency"},
		{Key: "detailed_findings", Label: "Detailed Findings", Description: "Complete list of individual findings with full details including PE name, checklist, status, budget, tender information, and recommendations"},
	},
	FormatEntitySummary: {
		{Key: "total_entities", Label: "Total Entities", Description: "Number of procuring entities in the summary", Unit: "entities"},
		{Key: "average_overall_performance", Label: "Average Overall Performance", Description: "Mean overall percentage across entities", Unit: "%"},
		{Key: "performance_distribution", Label: "Performance Distribution", Description: "Entities bucketed as excellent (90+), good (75-90), satisfactory (60-75) and needs improvement (<60)"},
		{Key: "category_breakdown", Label: "Category Breakdown", Description: "Entities per PE category", Unit: "entities"},
		{Key: "status_breakdown", Label: "Status Breakdown", Description: "Entities per status", Unit: "entities"},
		{Key: "tenders_analysis", Label: "Tenders Analysis", Description: "Tender totals and spread across entities", Unit: "tenders"},
		{Key: "tendering_performance", Label: "Tendering Performance", Description: "Average tendering score and entities above 80% or below 60%", Unit: "%"},
		{Key: "top_performers", Label: "Top Performers", Description: "The five entities with the highest overall percentage"},
		{Key: "bottom_performers", Label: "Bottom Performers", Description: "The five entities with the lowest overall percentage"},
		{Key: "entity_by_category", Label: "Entities by Category", Description: "Count, average overall and tenders per category"},
		{Key: "detailed_entities", Label: "Detailed Entities", Description: "Per-entity scores, status and category"},
	},
}

// MetricCatalog returns the metric descriptors for every known format
func MetricCatalog() map[Format][]MetricDescriptor {
	out := make(map[Format][]MetricDescriptor, len(metricCatalog))
	for f, m := range metricCatalog {
		out[f] = append([]MetricDescriptor(nil), m...)
	}
	return out
}

// DescribeMetric looks up a single metric. Unknown keys return false.
func DescribeMetric(format Format, key string) (MetricDescriptor, bool) {
	for _, m := range metricCatalog[format] {
		if m.Key == key {
			return m, true
		}
	}
	return MetricDescriptor{}, false
}
