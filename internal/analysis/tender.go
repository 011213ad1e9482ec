package analysis

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"auditintel/pkg/contracts/domain"
)

var (
	tenderStartPattern  = regexp.MustCompile(`TR\d+/`)
	tenderNumberPattern = regexp.MustCompile(`TR\d+/[\d/]+/[A-Z]/\d+`)
	tenderBudgetPattern = regexp.MustCompile(`Budget:\s*([\d,]+)`)
)

// tenderTypes are matched in order; the first substring hit wins
var tenderTypes = []string{domain.TenderTypeWorks, domain.TenderTypeGoods, domain.TenderTypeServices}

// ParseTenders extracts tender references from a cell such as
//
//	TR152/006/2024/2025/W/07 (Own Funds, Budget: 150,000,000, Works), TR152/006/2024/2025/G/02 (...)
//
// Non-text and blank cells yield no tenders. Segments that do not look like a
// tender still produce a best-effort record.
func ParseTenders(c domain.Cell) []domain.Tender {
	if c.Kind != domain.CellText || strings.TrimSpace(c.Str) == "" {
		return nil
	}

	var tenders []domain.Tender
	for _, part := range splitTenders(c.Str) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tenders = append(tenders, parseTender(part))
	}
	return tenders
}

// splitTenders cuts s at every comma that is followed, after optional
// whitespace, by the start of a tender number. The comma and the whitespace
// are dropped.
func splitTenders(s string) []string {
	var parts []string
	start := 0
	for _, loc := range tenderStartPattern.FindAllStringIndex(s, -1) {
		k := loc[0]
		for k > start {
			r, size := utf8.DecodeLastRuneInString(s[start:k])
			if !unicode.IsSpace(r) {
				break
			}
			k -= size
		}
		if k > start && s[k-1] == ',' {
			parts = append(parts, s[start:k-1])
			start = loc[0]
		}
	}
	return append(parts, s[start:])
}

func parseTender(part string) domain.Tender {
	t := domain.Tender{Type: domain.TenderTypeUnknown}

	if m := tenderNumberPattern.FindString(part); m != "" {
		t.TenderNumber = m
	} else {
		head, _, _ := strings.Cut(part, "(")
		t.TenderNumber = strings.TrimSpace(head)
	}

	if m := tenderBudgetPattern.FindStringSubmatch(part); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			t.Budget = v
		}
	}

	for _, typ := range tenderTypes {
		if strings.Contains(part, typ) {
			t.Type = typ
			break
		}
	}
	return t
}
