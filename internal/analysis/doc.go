// Package analysis turns audit spreadsheets into structured metrics.
//
// A sheet is classified by its column set into one of three formats:
//
//   - detailed_findings: one row per finding with compliance, score gap and status
//   - detailed_findings_multi_tender: one row per finding that references several tenders
//   - entity_summary: one row per procuring entity with an overall percentage
//
// Each format has its own analyzer (AnalyzeFindings, AnalyzeMultiTender,
// AnalyzeEntitySummary). Cell values go through CleanPercentage or
// CleanNumeric first, so "85%", "1,500,000" and native numbers are all
// accepted and anything unparseable is skipped rather than failing the sheet.
//
// Engine runs a whole workbook: it classifies every sheet, dispatches it,
// attaches narrative text through a Narrator and rolls the per-sheet totals
// into an OverallSummary. Analyzers are pure functions of their input table;
// rounding to two decimals happens only when results are assembled.
package analysis
