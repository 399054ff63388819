package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packtrack/internal/shared/testutil"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	assert.Equal(t, ContentTypeProblem, rec.Header().Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func requestWithID(method, path, reqID string) *http.Request {
	r := httptest.NewRequest(method, path, nil)
	ctx := context.WithValue(r.Context(), middleware.RequestIDKey, reqID)
	return r.WithContext(ctx)
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantExt    map[string]interface{}
	}{
		{
			name:       "deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "body too large",
			err:        fmt.Errorf("parse form: %w", &http.MaxBytesError{Limit: 1024}),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
		},
		{
			name:       "api validation error",
			err:        ErrValidation("format", "unknown"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantExt:    map[string]interface{}{"error_code": "VALIDATION_FAILED"},
		},
		{
			name:       "missing file",
			err:        MissingFile("contents"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantExt:    map[string]interface{}{"error_code": "MISSING_PARAMETER"},
		},
		{
			name:       "schema error carries field context",
			err:        NewSchemaError("contents", "quantity", "JUMLAH", fmt.Errorf(`contents: column "JUMLAH" mapped to "quantity" not found`)),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeSchema,
			wantExt:    map[string]interface{}{"source": "contents", "field": "quantity", "column": "JUMLAH"},
		},
		{
			name:       "unmapped field omits empty column",
			err:        NewSchemaError("scan", "operator_name", "", nil),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeSchema,
			wantExt:    map[string]interface{}{"field": "operator_name"},
		},
		{
			name:       "parsing error",
			err:        NewParsingError("read scan table", io.ErrUnexpectedEOF),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeParsing,
		},
		{
			name:       "unsupported format",
			err:        NewUnsupportedFormatError("scan.pdf", nil),
			wantStatus: http.StatusUnsupportedMediaType,
			wantType:   TypeUnsupportedMedia,
			wantExt:    map[string]interface{}{"file": "scan.pdf"},
		},
		{
			name:       "storage error is internal",
			err:        NewStorageError("disk full", nil),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
		{
			name:       "plain error is internal",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			rec := httptest.NewRecorder()
			handler.HandleError(rec, requestWithID(http.MethodPost, "/api/packing/process", "req-1"), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "req-1", body["trace_id"])
			assert.Equal(t, "/api/packing/process", body["instance"])
			for k, v := range tt.wantExt {
				assert.Equal(t, v, body[k], "extension %s", k)
			}
			if _, ok := tt.wantExt["column"]; !ok && tt.wantType == TypeSchema {
				assert.NotContains(t, body, "column")
			}
			assert.NotContains(t, body, "stack")
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	handler := NewErrorHandler(slog.New(slog.NewJSONHandler(io.Discard, nil)), false)
	rec := httptest.NewRecorder()

	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, rec.Body.Len())
}

func TestErrorHandler_LogLevel(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	handler.HandleError(httptest.NewRecorder(), requestWithID(http.MethodGet, "/x", "r"), ErrMissingParameter)
	handler.HandleError(httptest.NewRecorder(), requestWithID(http.MethodGet, "/x", "r"), fmt.Errorf("boom"))

	assert.Len(t, logs.GetRecordsByLevel(slog.LevelWarn), 1)
	assert.Len(t, logs.GetRecordsByLevel(slog.LevelError), 1)
	assert.True(t, logs.ContainsAttr("component", "error_handler"))
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	rec := httptest.NewRecorder()
	handler.HandleError(rec, requestWithID(http.MethodGet, "/x", "r"), fmt.Errorf("boom"))

	body := decodeProblem(t, rec)
	assert.NotEmpty(t, body["stack"])
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	handler.HandlePanic(rec, requestWithID(http.MethodGet, "/boom", "req-9"), "kaboom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, "req-9", body["trace_id"])
	assert.NotContains(t, body, "panic")
	testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	handler.NotFound(rec, requestWithID(http.MethodGet, "/nope", "a"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	handler.MethodNotAllowed(rec, requestWithID(http.MethodDelete, "/api/health", "b"))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body := decodeProblem(t, rec)
	assert.True(t, strings.Contains(body["detail"].(string), "DELETE"))
}

func TestErrorHandler_JSON(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	handler.JSON(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusAccepted, map[string]string{"ok": "yes"})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())
}
