package analysis

import (
	"errors"
	"fmt"
	"strings"

	"auditintel/pkg/contracts/domain"
)

// ErrUnknownFormat is returned when a sheet matches none of the known formats
var ErrUnknownFormat = errors.New("unknown data format")

// MissingColumnError reports the first required column absent from a sheet
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("Missing required column: %s", e.Column)
}

// unknownFormatResult lists at most the first ten columns found
func unknownFormatResult(t *domain.Table) *domain.ErrorResult {
	cols := t.Columns
	if len(cols) > 10 {
		cols = cols[:10]
	}
	cols = append([]string(nil), cols...)
	return &domain.ErrorResult{
		Format:  domain.FormatUnknown,
		Message: fmt.Sprintf("Unknown data format. Columns found: %s", strings.Join(cols, ", ")),
		Columns: cols,
	}
}

// errorResult converts an analyzer error into the sheet-level error result
func errorResult(format domain.Format, err error) *domain.ErrorResult {
	return &domain.ErrorResult{Format: format, Message: err.Error()}
}
