package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"packtrack/internal/dataprocessing"
	apierrors "packtrack/internal/errors"
	"packtrack/internal/exporter"
	"packtrack/internal/middleware"
	"packtrack/internal/services"
	"packtrack/pkg/contracts/domain"
)

// Multipart file fields
const (
	FieldScan     = "scan"
	FieldContents = "contents"
	FieldSpecial  = "special"
	FieldHandling = "handling"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files
const multipartMemory = 8 << 20

// RunIDHeader carries the run id on export downloads
const RunIDHeader = "X-Run-ID"

// packingForm holds the non-file inputs of a packing request
type packingForm struct {
	ScanFile     string   `json:"scan" validate:"required,spreadsheet"`
	ContentsFile string   `json:"contents" validate:"required,spreadsheet"`
	SpecialFile  string   `json:"special" validate:"omitempty,spreadsheet"`
	HandlingFile string   `json:"handling" validate:"omitempty,spreadsheet"`
	Date         string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	OrderType    string   `json:"order_type" validate:"omitempty,ordertype"`
	Operators    []string `json:"operators" validate:"max=100"`

	ScanDate           string `json:"scan_date" validate:"max=200"`
	ScanTime           string `json:"scan_time" validate:"max=200"`
	Operator           string `json:"operator_name" validate:"max=200"`
	ScanShipmentID     string `json:"scan_shipment_id" validate:"max=200"`
	ContentsShipmentID string `json:"contents_shipment_id" validate:"max=200"`
	ItemCode           string `json:"item_code" validate:"max=200"`
	Quantity           string `json:"quantity" validate:"max=200"`
}

func (f packingForm) mapping() dataprocessing.Mapping {
	return dataprocessing.Mapping{
		Scan: dataprocessing.ScanColumns{
			ScanDate:   f.ScanDate,
			ScanTime:   f.ScanTime,
			Operator:   f.Operator,
			ShipmentID: f.ScanShipmentID,
		},
		Contents: dataprocessing.ContentsColumns{
			ShipmentID: f.ContentsShipmentID,
			ItemCode:   f.ItemCode,
			Quantity:   f.Quantity,
		},
	}
}

// filter converts the validated form into an engine filter
func (f packingForm) filter() dataprocessing.Filter {
	var filter dataprocessing.Filter
	if f.Date != "" {
		filter.Date, _ = time.Parse("2006-01-02", f.Date)
	}
	if f.OrderType != "" {
		filter.OrderType, _ = domain.ParseOrderType(f.OrderType)
	}
	filter.Operators = f.Operators
	return filter
}

// ProcessResponse is the JSON body of a processed run
type ProcessResponse struct {
	RunID     string                 `json:"run_id"`
	Columns   []string               `json:"columns"`
	Rows      [][]string             `json:"rows"`
	Shipments int                    `json:"shipments"`
	Summary   dataprocessing.Summary `json:"summary"`
	Mapping   dataprocessing.Mapping `json:"mapping"`
	Warnings  []string               `json:"warnings"`
	Cached    bool                   `json:"cached"`
}

// PackingHandler handles packing uploads
type PackingHandler struct {
	service      PackingServiceInterface
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPackingHandler creates a new packing handler
func NewPackingHandler(service PackingServiceInterface, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PackingHandler {
	return &PackingHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "packing_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the packing routes. Every route takes a multipart upload.
func (h *PackingHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data"))

	r.Post("/suggest", h.Suggest)
	r.Post("/process", h.Process)
	r.Post("/export", h.Export)

	return r
}

// Suggest handles POST /api/packing/suggest
func (h *PackingHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, parseFormError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	scan, err := readUpload(r, FieldScan, true)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	contents, err := readUpload(r, FieldContents, true)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	form := packingForm{ScanFile: scan.Name, ContentsFile: contents.Name}
	if err := h.validator.ValidateStruct(form); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	suggestion, err := h.service.Suggest(r.Context(), *scan, *contents)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, suggestion)
}

// Process handles POST /api/packing/process
func (h *PackingHandler) Process(w http.ResponseWriter, r *http.Request) {
	report, ok := h.process(w, r)
	if !ok {
		return
	}

	rows := report.Table.Rows
	if rows == nil {
		rows = [][]string{}
	}

	render.JSON(w, r, ProcessResponse{
		RunID:     report.RunID,
		Columns:   report.Table.Columns,
		Rows:      rows,
		Shipments: report.Shipments(),
		Summary:   report.Summary,
		Mapping:   report.Mapping,
		Warnings:  report.Warnings,
		Cached:    report.Cached,
	})
}

// Export handles POST /api/packing/export?format=xlsx|csv
func (h *PackingHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	report, ok := h.process(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(&buf, format, report.Export()); err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("failed to export report: %w", err))
		return
	}

	h.logger.InfoContext(r.Context(), "report exported",
		slog.String("request_id", chimw.GetReqID(r.Context())),
		slog.String("run_id", report.RunID),
		slog.String("format", string(format)),
		slog.Int("bytes", buf.Len()))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName()))
	w.Header().Set(RunIDHeader, report.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// process parses, validates and runs a packing request. On failure the
// error response has been written and ok is false.
func (h *PackingHandler) process(w http.ResponseWriter, r *http.Request) (*services.PackingReport, bool) {
	reqID := chimw.GetReqID(r.Context())

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, parseFormError(err))
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	req := services.PackingRequest{Source: "http"}
	form := packingForm{
		Date:               formValue(r, "date"),
		OrderType:          formValue(r, "order_type"),
		Operators:          splitList(r.MultipartForm.Value["operators"]),
		ScanDate:           formValue(r, "scan_date"),
		ScanTime:           formValue(r, "scan_time"),
		Operator:           formValue(r, "operator_name"),
		ScanShipmentID:     formValue(r, "scan_shipment_id"),
		ContentsShipmentID: formValue(r, "contents_shipment_id"),
		ItemCode:           formValue(r, "item_code"),
		Quantity:           formValue(r, "quantity"),
	}

	uploads := []struct {
		field    string
		required bool
		name     *string
		assign   func(*services.Upload)
	}{
		{FieldScan, true, &form.ScanFile, func(u *services.Upload) { req.Scan = *u }},
		{FieldContents, true, &form.ContentsFile, func(u *services.Upload) { req.Contents = *u }},
		{FieldSpecial, false, &form.SpecialFile, func(u *services.Upload) { req.Special = u }},
		{FieldHandling, false, &form.HandlingFile, func(u *services.Upload) { req.Handling = u }},
	}
	for _, up := range uploads {
		u, err := readUpload(r, up.field, up.required)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return nil, false
		}
		if u != nil {
			*up.name = u.Name
			up.assign(u)
		}
	}

	if err := h.validator.ValidateStruct(form); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	req.Mapping = form.mapping()
	req.Filter = form.filter()

	h.logger.InfoContext(r.Context(), "processing packing upload",
		slog.String("request_id", reqID),
		slog.String("scan_file", req.Scan.Name),
		slog.String("contents_file", req.Contents.Name))

	report, err := h.service.Process(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return report, true
}

// readUpload reads a multipart file field. A missing optional field
// returns nil without error.
func readUpload(r *http.Request, field string, required bool) (*services.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		if required {
			return nil, apierrors.MissingFile(field)
		}
		return nil, nil
	}
	if err != nil {
		return nil, parseFormError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s upload: %w", field, err)
	}
	return &services.Upload{Name: header.Filename, Data: data}, nil
}

// parseFormError keeps body size errors intact for the 413 mapping
func parseFormError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return apierrors.InvalidRequestWithError(err)
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// splitList flattens repeated and comma-separated values, dropping blanks
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
