package validation

import (
	"fmt"

	"auditintel/internal/analysis"
	"auditintel/pkg/contracts/domain"
)

// RangeWarnings reports values outside their usual ranges: compliance
// outside 0-100, negative score gaps and actual scores above expected.
// Values that cannot be parsed are ignored.
func RangeWarnings(t *domain.Table) []string {
	warnings := []string{}

	if t.HasColumn(analysis.ColCompliance) {
		n := 0
		for _, c := range t.Column(analysis.ColCompliance) {
			if v, ok := analysis.CleanPercentage(c); ok && (v < 0 || v > 100) {
				n++
			}
		}
		if n > 0 {
			warnings = append(warnings, fmt.Sprintf("%d records have compliance %% outside 0-100%% range", n))
		}
	}

	if t.HasColumn(analysis.ColScoreGap) {
		n := 0
		for _, c := range t.Column(analysis.ColScoreGap) {
			if v, ok := analysis.CleanNumeric(c); ok && v < 0 {
				n++
			}
		}
		if n > 0 {
			warnings = append(warnings, fmt.Sprintf("%d records have negative score gaps", n))
		}
	}

	if t.HasColumn(analysis.ColExpectedScore) && t.HasColumn(analysis.ColActualScore) {
		expected := t.Column(analysis.ColExpectedScore)
		actual := t.Column(analysis.ColActualScore)
		n := 0
		for i := range expected {
			e, eok := analysis.CleanNumeric(expected[i])
			a, aok := analysis.CleanNumeric(actual[i])
			if eok && aok && a > e {
				n++
			}
		}
		if n > 0 {
			warnings = append(warnings, fmt.Sprintf("%d records have actual score > expected score", n))
		}
	}

	return warnings
}
