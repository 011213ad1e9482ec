package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrUnsupportedFile is returned for names without a spreadsheet extension
	ErrUnsupportedFile = errors.New("unsupported file type")
	// ErrTemporaryFile is returned for Office lock files such as "~$report.xlsx"
	ErrTemporaryFile = errors.New("temporary Excel file")
	// ErrFileTooLarge is returned when an upload exceeds the size limit
	ErrFileTooLarge = errors.New("file too large")
	// ErrEmptyFile is returned for zero-byte uploads
	ErrEmptyFile = errors.New("file is empty")
)

// WorkbookExtensions are the accepted spreadsheet extensions, lower case
var WorkbookExtensions = []string{".xlsx", ".xlsm", ".xls"}

// FileValidator checks workbook paths and uploads before they are parsed
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks that path names a readable workbook on disk
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.checkName(path); err != nil {
		return err
	}
	return v.ValidateFile(path)
}

// ValidateUpload checks an uploaded file's name and size. A limit of zero or
// less disables the size check.
func (v *FileValidator) ValidateUpload(filename string, size, limit int64) error {
	if err := v.checkName(filename); err != nil {
		return err
	}
	if size == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, filename)
	}
	if limit > 0 && size > limit {
		v.logger.Warn("Upload exceeds size limit",
			slog.String("file", filename),
			slog.Int64("size", size),
			slog.Int64("limit", limit))
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, size, limit)
	}
	return nil
}

// ListWorkbooks returns the workbook files directly inside dir, sorted by
// name. Temporary lock files are skipped.
func (v *FileValidator) ListWorkbooks(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return nil, fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || v.checkName(e.Name()) != nil {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	slices.Sort(files)

	if len(files) == 0 {
		v.logger.Warn("No workbooks found",
			slog.String("directory", dir))
	} else {
		v.logger.Info("Input directory validated",
			slog.String("directory", dir),
			slog.Int("files_found", len(files)))
	}
	return files, nil
}

func (v *FileValidator) checkName(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(WorkbookExtensions, ext) {
		v.logger.Debug("File is not an Excel file",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("%w: %s (extension %q)", ErrUnsupportedFile, filepath.Base(path), ext)
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Skipping temporary Excel file",
			slog.String("file", path))
		return fmt.Errorf("%w: %s", ErrTemporaryFile, filepath.Base(path))
	}
	return nil
}
