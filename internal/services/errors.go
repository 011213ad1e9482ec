package services

import (
	"errors"

	"auditintel/internal/dataprocessing"
	"auditintel/internal/validation"
)

// Service errors. The intake errors are the loader's and validator's own
// sentinels, so errors.Is matches at every layer.
var (
	// Upload errors
	ErrUnsupportedFile = validation.ErrUnsupportedFile
	ErrTemporaryFile   = validation.ErrTemporaryFile
	ErrFileTooLarge    = validation.ErrFileTooLarge
	ErrEmptyFile       = validation.ErrEmptyFile

	// Workbook errors
	ErrUnreadableWorkbook = dataprocessing.ErrUnreadableWorkbook
	ErrNoSheets           = dataprocessing.ErrNoSheets
	ErrTooManySheets      = dataprocessing.ErrTooManySheets
	ErrSheetNotFound      = errors.New("sheet not found")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
