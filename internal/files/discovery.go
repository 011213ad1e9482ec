package files

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"auditintel/internal/validation"
)

// ErrNoWorkbooks is returned when the inputs resolve to no workbook at all
var ErrNoWorkbooks = errors.New("no workbooks found")

// Discovery expands inputs into workbook paths
type Discovery struct {
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{
		validator: validation.NewFileValidator(logger),
		logger:    logger,
	}
}

// Expand resolves every input in order, dropping repeated paths. Plain file
// inputs are kept as given so that a bad file is reported by whoever opens
// it rather than silently skipped.
func (d *Discovery) Expand(inputs []string) ([]string, error) {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	add := func(paths ...string) {
		for _, p := range paths {
			key := filepath.Clean(p)
			if !seen[key] {
				seen[key] = true
				out = append(out, p)
			}
		}
	}

	for _, input := range inputs {
		switch {
		case isPattern(input):
			matches, err := d.FindByPattern(input)
			if err != nil {
				return nil, err
			}
			add(matches...)
		case isDir(input):
			workbooks, err := d.validator.ListWorkbooks(input)
			if err != nil {
				return nil, err
			}
			add(workbooks...)
		default:
			add(input)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoWorkbooks, strings.Join(inputs, ", "))
	}
	return out, nil
}

// FindByPattern returns the workbooks matching a glob pattern, sorted by name
func (d *Discovery) FindByPattern(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []string
	for _, match := range matches {
		if isDir(match) {
			continue
		}
		if err := d.validator.ValidateExcelFile(match); err != nil {
			d.logger.Debug("Skipping pattern match",
				slog.String("file", match),
				slog.String("reason", err.Error()))
			continue
		}
		files = append(files, match)
	}
	slices.Sort(files)
	return files, nil
}

func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
