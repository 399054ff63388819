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

func TestAPIError(t *testing.T) {
	err := ErrValidation("format", "must be xlsx or csv")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
	assert.Equal(t, ValidationError{Field: "format", Message: "must be xlsx or csv"}, err.Details)
	assert.Equal(t, "Request validation failed", err.Error())

	missing := MissingFile("scan")
	assert.Contains(t, missing.Message, `"scan"`)

	multi := NewValidationErrors([]ValidationError{{Field: "a"}, {Field: "b"}})
	assert.Len(t, multi.Details.(ValidationErrors).Errors, 2)
}

func TestAppError(t *testing.T) {
	cause := fmt.Errorf("scan: column %q mapped to %q not found", "WAKTU", "scan_time")
	err := NewSchemaError("scan", "scan_time", "WAKTU", cause)

	assert.Equal(t, ErrTypeSchema, err.Type)
	assert.Equal(t, "scan", err.Context["source"])
	assert.Equal(t, "WAKTU", err.Context["column"])
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "[SCHEMA]")

	wrapped := fmt.Errorf("process: %w", err)
	assert.Equal(t, ErrTypeSchema, TypeOf(wrapped))
	assert.Equal(t, ErrorType(""), TypeOf(stderrors.New("plain")))
}

func TestAppError_Constructors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want ErrorType
	}{
		{"parsing", NewParsingError("bad csv", nil), ErrTypeParsing},
		{"unsupported", NewUnsupportedFormatError("scan.pdf", nil), ErrTypeUnsupported},
		{"storage", NewStorageError("write failed", nil), ErrTypeStorage},
		{"validation", NewAppValidationError("bad date"), ErrTypeValidation},
		{"not found", NewNotFoundError("scan file"), ErrTypeNotFound},
		{"config", NewConfigError("bad yaml", nil), ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}

	assert.Equal(t, "[NOT_FOUND] scan file not found", NewNotFoundError("scan file").Error())
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeSchema, "Schema Mismatch", "detail", "/api/packing/process").
		WithExtension("field", "scan_time")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeSchema, body["type"])
	assert.Equal(t, float64(400), body["status"])
	assert.Equal(t, "scan_time", body["field"])
	assert.Equal(t, "/api/packing/process", body["instance"])
}

func TestProblemDetails_ExtensionsCannotOverrideStandardMembers(t *testing.T) {
	problem := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "").
		WithExtension("status", 200)

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, float64(404), body["status"])
	assert.NotContains(t, body, "detail")
}

func TestProblemDetails_Write(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, NewProblemDetails(http.StatusTeapot, TypeInternal, "Teapot", "", "").Write(rec))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, ContentTypeProblem, rec.Header().Get("Content-Type"))
}
