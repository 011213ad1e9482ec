package domain

// Format identifies the shape of an audit sheet
type Format string

const (
	FormatDetailedFindings Format = "detailed_findings"
	FormatMultiTender      Format = "detailed_findings_multi_tender"
	FormatEntitySummary    Format = "entity_summary"
	FormatUnknown          Format = "unknown"
)

// KnownFormats lists the formats in classification precedence order
var KnownFormats = []Format{
	FormatDetailedFindings,
	FormatMultiTender,
	FormatEntitySummary,
}

// IsKnown reports whether f is one of the analyzable formats
func (f Format) IsKnown() bool {
	for _, k := range KnownFormats {
		if f == k {
			return true
		}
	}
	return false
}

// FormatInfo describes a classified sheet
type FormatInfo struct {
	Format       Format   `json:"format"`
	TotalRows    int      `json:"total_rows"`
	TotalColumns int      `json:"total_columns"`
	Columns      []string `json:"columns"`
	Description  string   `json:"description"`
	KeyFields    []string `json:"key_fields"`
}

// Tender is one procurement reference parsed out of a free-text tender cell
type Tender struct {
	TenderNumber string  `json:"tender_number"`
	Budget       float64 `json:"budget"`
	Type         string  `json:"type"`
}

// Tender types recognised in tender descriptions
const (
	TenderTypeWorks    = "Works"
	TenderTypeGoods    = "Goods"
	TenderTypeServices = "Services"
	TenderTypeUnknown  = "Unknown"
)
