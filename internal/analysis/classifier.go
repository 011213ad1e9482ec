package analysis

import (
	"auditintel/pkg/contracts/domain"
)

type formatSpec struct {
	format      domain.Format
	required    []string
	keyFields   []string
	description string
}

// formatSpecs is checked in order; the first entry whose columns are all present wins
var formatSpecs = []formatSpec{
	{
		format:      domain.FormatDetailedFindings,
		required:    []string{ColCompliance, ColScoreGap, ColStatus, ColChecklistTitle},
		keyFields:   []string{ColCompliance, ColScoreGap, ColStatus, ColChecklistTitle, ColPEName, ColEntityName},
		description: "Individual audit findings with detailed compliance metrics",
	},
	{
		format: domain.FormatMultiTender,
		required: []string{
			ColPEName, ColChecklistTitle, ColTenders, ColTotalBudget,
			ColTenderCount, ColFindingTitle, ColStatus, ColRedFlag,
		},
		keyFields: []string{
			ColPEName, ColChecklistTitle, ColTenders, ColTotalBudget,
			ColTenderCount, ColFindingTitle, ColStatus, ColRedFlag,
		},
		description: "Detailed findings with multiple tenders per finding",
	},
	{
		format:      domain.FormatEntitySummary,
		required:    []string{ColProcuringEntity, ColOverall, ColTenders},
		keyFields:   []string{ColProcuringEntity, ColOverall, ColTenders, ColStatus},
		description: "Aggregated entity-level summary with overall performance",
	},
}

const unknownDescription = "Unknown format - may require custom analysis"

// DetectFormat classifies a sheet by its column set
func DetectFormat(t *domain.Table) domain.Format {
	for _, spec := range formatSpecs {
		if len(t.MissingColumns(spec.required)) == 0 {
			return spec.format
		}
	}
	return domain.FormatUnknown
}

// DescribeFormat classifies a sheet and reports its dimensions
func DescribeFormat(t *domain.Table) domain.FormatInfo {
	format := DetectFormat(t)
	info := domain.FormatInfo{
		Format:       format,
		TotalRows:    t.Len(),
		TotalColumns: len(t.Columns),
		Columns:      append([]string{}, t.Columns...),
		Description:  unknownDescription,
		KeyFields:    []string{},
	}
	if spec, ok := specFor(format); ok {
		info.Description = spec.description
		info.KeyFields = append([]string{}, spec.keyFields...)
	}
	return info
}

// RequiredColumns returns the columns a format needs to be detected
func RequiredColumns(format domain.Format) []string {
	if spec, ok := specFor(format); ok {
		return append([]string{}, spec.required...)
	}
	return nil
}

func specFor(format domain.Format) (formatSpec, bool) {
	for _, spec := range formatSpecs {
		if spec.format == format {
			return spec, true
		}
	}
	return formatSpec{}, false
}
