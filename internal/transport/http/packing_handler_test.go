package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"packtrack/internal/dataprocessing"
	apierrors "packtrack/internal/errors"
	"packtrack/internal/exporter"
	"packtrack/internal/middleware"
	"packtrack/internal/services"
	"packtrack/internal/shared/testutil"
	"packtrack/pkg/contracts/domain"
)

// MockPackingService is a mock implementation of PackingServiceInterface
type MockPackingService struct {
	mock.Mock
}

func (m *MockPackingService) Suggest(ctx context.Context, scan, contents services.Upload) (*services.Suggestion, error) {
	args := m.Called(scan, contents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Suggestion), args.Error(1)
}

func (m *MockPackingService) Process(ctx context.Context, req services.PackingRequest) (*services.PackingReport, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PackingReport), args.Error(1)
}

type upload struct {
	field, name, content string
}

func multipartRequest(t *testing.T, target string, uploads []upload, fields map[string][]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, u := range uploads {
		part, err := w.CreateFormFile(u.field, u.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(u.content))
		require.NoError(t, err)
	}
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func requiredUploads() []upload {
	return []upload{
		{FieldScan, "scan.xlsx", "scan-bytes"},
		{FieldContents, "contents.csv", "contents-bytes"},
	}
}

func newPackingHandler(t *testing.T, svc PackingServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewPackingHandler(svc, middleware.NewValidator(logger), logger, apierrors.NewErrorHandler(logger, false))
	return h.Routes()
}

func sampleReport() *services.PackingReport {
	table := domain.NewTable(dataprocessing.PreferredColumns...)
	table.AppendRow("2024-01-05", "09:00:00", "ANA", "A1", "Single-Item", "LATE", "5", "X1", "1")
	return &services.PackingReport{
		RunID:    "run-1",
		Table:    table,
		Summary:  dataprocessing.Summary{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), TotalShipments: 1, Late: 1},
		Warnings: []string{},
	}
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	assert.Equal(t, apierrors.ContentTypeProblem, rec.Header().Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPackingHandler_Suggest(t *testing.T) {
	svc := new(MockPackingService)
	suggestion := &services.Suggestion{
		Mapping:     dataprocessing.SuggestMapping(testutil.ScanHeader, testutil.ContentsHeader),
		ScanColumns: testutil.ScanHeader,
	}
	svc.On("Suggest",
		services.Upload{Name: "scan.xlsx", Data: []byte("scan-bytes")},
		services.Upload{Name: "contents.csv", Data: []byte("contents-bytes")},
	).Return(suggestion, nil)

	rec := httptest.NewRecorder()
	newPackingHandler(t, svc).ServeHTTP(rec, multipartRequest(t, "/suggest", requiredUploads(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got services.Suggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "TANGGAL SCAN", got.Mapping.Scan.ScanDate)
	svc.AssertExpectations(t)
}

func TestPackingHandler_Process(t *testing.T) {
	svc := new(MockPackingService)
	svc.On("Process", mock.MatchedBy(func(req services.PackingRequest) bool {
		return req.Source == "http" &&
			req.Scan.Name == "scan.xlsx" &&
			req.Special != nil && req.Special.Name == "special.csv" &&
			req.Handling == nil &&
			req.Mapping.Contents.Quantity == "JUMLAH" &&
			req.Mapping.Scan.ScanDate == "" &&
			req.Filter.OrderType == domain.OrderTypeSimpleMixed &&
			req.Filter.Date.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)) &&
			assert.ObjectsAreEqual([]string{"ANA", "BUDI", "CICI"}, req.Filter.Operators)
	})).Return(sampleReport(), nil)

	uploads := append(requiredUploads(), upload{FieldSpecial, "special.csv", "SPECIAL ITEM\nX1\n"})
	req := multipartRequest(t, "/process", uploads, map[string][]string{
		"quantity":   {"JUMLAH"},
		"date":       {"2024-01-05"},
		"order_type": {"Simple-Mixed"},
		"operators":  {"ANA, BUDI", "CICI"},
	})

	rec := httptest.NewRecorder()
	newPackingHandler(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, dataprocessing.PreferredColumns, got.Columns)
	assert.Len(t, got.Rows, 1)
	assert.Equal(t, 1, got.Shipments)
	assert.Equal(t, 1, got.Summary.Late)
	svc.AssertExpectations(t)
}

func TestPackingHandler_Process_EmptyResult(t *testing.T) {
	svc := new(MockPackingService)
	svc.On("Process", mock.Anything).Return(&services.PackingReport{
		RunID:    "run-2",
		Table:    domain.NewTable(dataprocessing.PreferredColumns...),
		Warnings: []string{services.WarningEmptyJoin},
	}, nil)

	rec := httptest.NewRecorder()
	newPackingHandler(t, svc).ServeHTTP(rec, multipartRequest(t, "/process", requiredUploads(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rows":[]`)
	assert.Contains(t, rec.Body.String(), services.WarningEmptyJoin)
}

func TestPackingHandler_Process_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		uploads []upload
		fields  map[string][]string
		field   string
	}{
		{
			name:    "missing scan",
			uploads: []upload{{FieldContents, "contents.csv", "x"}},
			field:   "scan",
		},
		{
			name:    "missing contents",
			uploads: []upload{{FieldScan, "scan.csv", "x"}},
			field:   "contents",
		},
		{
			name:    "bad date",
			uploads: requiredUploads(),
			fields:  map[string][]string{"date": {"05/01/2024"}},
			field:   "date",
		},
		{
			name:    "unknown order type",
			uploads: requiredUploads(),
			fields:  map[string][]string{"order_type": {"Bulky"}},
			field:   "order_type",
		},
		{
			name:    "not a spreadsheet",
			uploads: []upload{{FieldScan, "scan.pdf", "x"}, {FieldContents, "contents.csv", "x"}},
			field:   "scan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockPackingService)
			rec := httptest.NewRecorder()
			newPackingHandler(t, svc).ServeHTTP(rec, multipartRequest(t, "/process", tt.uploads, tt.fields))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			problem := decodeProblem(t, rec)
			assert.Equal(t, apierrors.TypeValidation, problem["type"])
			assert.Contains(t, rec.Body.String(), tt.field)
			svc.AssertNotCalled(t, "Process", mock.Anything)
		})
	}
}

func TestPackingHandler_Process_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "schema mismatch",
			err:        apierrors.NewSchemaError("contents", "quantity", "JUMLAH", nil),
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeSchema,
		},
		{
			name:       "unsupported format",
			err:        apierrors.NewUnsupportedFormatError("scan.xls", nil),
			wantStatus: http.StatusUnsupportedMediaType,
			wantType:   apierrors.TypeUnsupportedMedia,
		},
		{
			name:       "unexpected",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantType:   apierrors.TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockPackingService)
			svc.On("Process", mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			newPackingHandler(t, svc).ServeHTTP(rec, multipartRequest(t, "/process", requiredUploads(), nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantType, decodeProblem(t, rec)["type"])
		})
	}
}

func TestPackingHandler_Export(t *testing.T) {
	svc := new(MockPackingService)
	svc.On("Process", mock.Anything).Return(sampleReport(), nil)

	rec := httptest.NewRecorder()
	newPackingHandler(t, svc).ServeHTTP(rec, multipartRequest(t, "/export?format=csv", requiredUploads(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exporter.FormatCSV.ContentType(), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "PACKING TRACKER.csv")
	assert.Equal(t, "run-1", rec.Header().Get(RunIDHeader))

	body := strings.TrimPrefix(rec.Body.String(), "\xEF\xBB\xBF")
	assert.True(t, strings.HasPrefix(body, "SCAN DATE,SCAN TIME"))
}

func TestPackingHandler_Export_BadFormat(t *testing.T) {
	svc := new(MockPackingService)

	rec := httptest.NewRecorder()
	newPackingHandler(t, svc).ServeHTTP(rec, multipartRequest(t, "/export?format=pdf", requiredUploads(), nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Process", mock.Anything)
}

func TestPackingHandler_RequiresMultipart(t *testing.T) {
	svc := new(MockPackingService)

	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newPackingHandler(t, svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"ANA", "BUDI", "CICI"}, splitList([]string{" ANA ,BUDI,", "", "CICI"}))
	assert.Nil(t, splitList(nil))
}
