package analysis

import (
	"math"
	"strconv"
	"strings"

	"auditintel/pkg/contracts/domain"
)

// nullMarkers are text values treated as missing data
var nullMarkers = map[string]struct{}{
	"":     {},
	"N/A":  {},
	"n/a":  {},
	"NA":   {},
	"null": {},
	"NULL": {},
	"None": {},
	"-":    {},
}

// IsNullMarker reports whether s, once trimmed, is a textual stand-in for "no value"
func IsNullMarker(s string) bool {
	_, ok := nullMarkers[strings.TrimSpace(s)]
	return ok
}

// CleanPercentage converts a cell to a percentage number. "85%", " 85 " and
// 85 all yield 85. Anything unparseable yields ok == false.
func CleanPercentage(c domain.Cell) (float64, bool) {
	switch c.Kind {
	case domain.CellNumber:
		return finite(c.Num)
	case domain.CellText:
		s := strings.TrimSpace(c.Str)
		s = strings.TrimSuffix(s, "%")
		return parseFloat(strings.TrimSpace(s))
	default:
		return 0, false
	}
}

// CleanNumeric converts a cell to a number, dropping thousands separators:
// "1,500,000" yields 1500000.
func CleanNumeric(c domain.Cell) (float64, bool) {
	switch c.Kind {
	case domain.CellNumber:
		return finite(c.Num)
	case domain.CellText:
		s := strings.ReplaceAll(strings.TrimSpace(c.Str), ",", "")
		return parseFloat(s)
	default:
		return 0, false
	}
}

func parseFloat(s string) (float64, bool) {
	if s == "" || strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
