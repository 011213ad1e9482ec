package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, CodeInvalidRequest},
		{"missing file", ErrMissingFile, http.StatusBadRequest, CodeMissingFile},
		{"unsupported file", ErrUnsupportedFile, http.StatusBadRequest, CodeUnsupportedFile},
		{"empty file", ErrEmptyFile, http.StatusBadRequest, CodeEmptyFile},
		{"sheet not found", ErrSheetNotFound, http.StatusNotFound, CodeSheetNotFound},
		{"payload too large", ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, CodePayloadTooLarge},
		{"unreadable workbook", ErrWorkbookUnreadable, http.StatusUnprocessableEntity, CodeWorkbookUnreadable},
		{"no sheets", ErrNoSheets, http.StatusUnprocessableEntity, CodeNoSheets},
		{"too many sheets", ErrTooManySheets, http.StatusUnprocessableEntity, CodeTooManySheets},
		{"rate limited", ErrRateLimitExceeded, http.StatusTooManyRequests, CodeRateLimitExceeded},
		{"internal", ErrInternalServer, http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestAPIError_WithDetails(t *testing.T) {
	err := PayloadTooLargeError(1024)

	assert.Equal(t, map[string]int64{"max_bytes": 1024}, err.Details)
	assert.Nil(t, ErrPayloadTooLarge.Details, "shared error must not be mutated")
	assert.Equal(t, ErrPayloadTooLarge.StatusCode, err.StatusCode)
}

func TestAPIError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("upload: %w", ErrUnsupportedFile)

	var apiErr *APIError
	require.True(t, stderrors.As(wrapped, &apiErr))
	assert.Equal(t, CodeUnsupportedFile, apiErr.ErrorCode)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("rows", "rows must be between 1 and 100")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, ValidationError{Field: "rows", Message: "rows must be between 1 and 100"}, err.Details)

	multi := NewValidationErrors([]ValidationError{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}})
	assert.Len(t, multi.Details.(ValidationErrors).Errors, 2)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, NotFoundError("sheet"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, false, resp["success"])
	body := resp["error"].(map[string]any)
	assert.Equal(t, "sheet not found", body["message"])
	assert.Equal(t, CodeNotFound, body["error_code"])
}

func TestAppError(t *testing.T) {
	cause := stderrors.New("zip: not a valid zip file")
	err := NewParsingError("cannot open workbook", cause).WithContext("file", "audit.xlsx")

	assert.Equal(t, "[PARSING] cannot open workbook: zip: not a valid zip file", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "audit.xlsx", err.Context["file"])

	assert.Equal(t, "[NOT_FOUND] sheet not found", NewNotFoundError("sheet").Error())

	var nilCtx AppError
	nilCtx.WithContext("k", 1)
	assert.Equal(t, 1, nilCtx.Context["k"])
}

func TestAppErrorConstructors(t *testing.T) {
	tests := []struct {
		err  *AppError
		want ErrorType
	}{
		{NewParsingError("p", nil), ErrTypeParsing},
		{NewAppValidationError("v", nil), ErrTypeValidation},
		{NewAnalysisError("a", nil), ErrTypeAnalysis},
		{NewStorageError("s", nil), ErrTypeStorage},
		{NewNotFoundError("n"), ErrTypeNotFound},
		{NewConfigError("c", nil), ErrTypeConfig},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "", "/api/preview").
		WithExtension("error_code", CodeValidationFailed).
		WithExtension("status", 999)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, TypeValidation, got["type"])
	assert.Equal(t, float64(http.StatusBadRequest), got["status"], "extensions cannot override standard members")
	assert.Equal(t, "/api/preview", got["instance"])
	assert.Equal(t, CodeValidationFailed, got["error_code"])
	assert.NotContains(t, got, "detail", "empty detail is omitted")

	var zero ProblemDetails
	zero.WithExtension("k", "v")
	assert.Equal(t, "v", zero.Extensions["k"])
}
