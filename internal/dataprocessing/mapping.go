package dataprocessing

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"packtrack/pkg/contracts/domain"
)

// Canonical field names used in schema errors and mapping payloads
const (
	FieldScanDate   = "scan_date"
	FieldScanTime   = "scan_time"
	FieldOperator   = "operator_name"
	FieldShipmentID = "shipment_id"
	FieldItemCode   = "item_code"
	FieldQuantity   = "quantity"
)

// Source names used in schema errors
const (
	SourceScan     = "scan"
	SourceContents = "contents"
)

// ScanColumns maps canonical scan fields to source column names
type ScanColumns struct {
	ScanDate   string `json:"scan_date" validate:"required"`
	ScanTime   string `json:"scan_time" validate:"required"`
	Operator   string `json:"operator_name" validate:"required"`
	ShipmentID string `json:"shipment_id" validate:"required"`
}

// ContentsColumns maps canonical contents fields to source column names
type ContentsColumns struct {
	ShipmentID string `json:"shipment_id" validate:"required"`
	ItemCode   string `json:"item_code" validate:"required"`
	Quantity   string `json:"quantity" validate:"required"`
}

// Mapping is the explicit canonical-field → source-column mapping chosen by
// the caller. The engine never guesses columns on its own.
type Mapping struct {
	Scan     ScanColumns     `json:"scan"`
	Contents ContentsColumns `json:"contents"`
}

// Key returns a stable textual form of the mapping, used for cache keys
func (m Mapping) Key() string {
	return strings.Join([]string{
		m.Scan.ScanDate, m.Scan.ScanTime, m.Scan.Operator, m.Scan.ShipmentID,
		m.Contents.ShipmentID, m.Contents.ItemCode, m.Contents.Quantity,
	}, "\x1f")
}

// Merge returns m with every non-blank column of override applied on top
func (m Mapping) Merge(override Mapping) Mapping {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&m.Scan.ScanDate, override.Scan.ScanDate)
	set(&m.Scan.ScanTime, override.Scan.ScanTime)
	set(&m.Scan.Operator, override.Scan.Operator)
	set(&m.Scan.ShipmentID, override.Scan.ShipmentID)
	set(&m.Contents.ShipmentID, override.Contents.ShipmentID)
	set(&m.Contents.ItemCode, override.Contents.ItemCode)
	set(&m.Contents.Quantity, override.Contents.Quantity)
	return m
}

// SchemaError reports a canonical field that is unmapped or mapped to a
// column missing from its source table
type SchemaError struct {
	Source string
	Field  string
	Column string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: required field %q is not mapped", e.Source, e.Field)
	}
	return fmt.Sprintf("%s: column %q mapped to %q not found", e.Source, e.Column, e.Field)
}

var mappingValidator = newMappingValidator()

func newMappingValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that every canonical field is mapped and that the mapped
// columns exist in the given tables. The first violation is returned.
func (m Mapping) Validate(scans, contents domain.Table) error {
	if err := validateRequired(SourceScan, m.Scan); err != nil {
		return err
	}
	if err := validateRequired(SourceContents, m.Contents); err != nil {
		return err
	}

	scanFields := []struct{ field, column string }{
		{FieldScanDate, m.Scan.ScanDate},
		{FieldScanTime, m.Scan.ScanTime},
		{FieldOperator, m.Scan.Operator},
		{FieldShipmentID, m.Scan.ShipmentID},
	}
	for _, f := range scanFields {
		if !scans.HasColumn(f.column) {
			return &SchemaError{Source: SourceScan, Field: f.field, Column: f.column}
		}
	}

	contentsFields := []struct{ field, column string }{
		{FieldShipmentID, m.Contents.ShipmentID},
		{FieldItemCode, m.Contents.ItemCode},
		{FieldQuantity, m.Contents.Quantity},
	}
	for _, f := range contentsFields {
		if !contents.HasColumn(f.column) {
			return &SchemaError{Source: SourceContents, Field: f.field, Column: f.column}
		}
	}
	return nil
}

func validateRequired(source string, s interface{}) error {
	err := mappingValidator.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &SchemaError{Source: source, Field: verrs[0].Field()}
	}
	return fmt.Errorf("validate %s mapping: %w", source, err)
}

// extraColumns returns the indexes of the columns not covered by mapped
func extraColumns(t domain.Table, mapped ...string) []int {
	used := make(map[int]bool, len(mapped))
	for _, m := range mapped {
		if idx := t.Index(m); idx >= 0 {
			used[idx] = true
		}
	}
	var extra []int
	for i := range t.Columns {
		if !used[i] {
			extra = append(extra, i)
		}
	}
	return extra
}

func pick(t domain.Table, row []string, idx []int) []string {
	if len(idx) == 0 {
		return nil
	}
	values := make([]string, len(idx))
	for i, c := range idx {
		values[i] = t.Cell(row, c)
	}
	return values
}

// ExtractScans converts the scan table into scan records using the mapping.
// Dates and times are parsed here; durations are computed later.
func ExtractScans(t domain.Table, cols ScanColumns) []domain.ScanRecord {
	dateIdx := t.Index(cols.ScanDate)
	timeIdx := t.Index(cols.ScanTime)
	opIdx := t.Index(cols.Operator)
	idIdx := t.Index(cols.ShipmentID)
	extra := extraColumns(t, cols.ScanDate, cols.ScanTime, cols.Operator, cols.ShipmentID)

	records := make([]domain.ScanRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		rec := domain.ScanRecord{
			Row:        i,
			ScanDate:   t.Cell(row, dateIdx),
			ScanTime:   t.Cell(row, timeIdx),
			Operator:   strings.TrimSpace(t.Cell(row, opIdx)),
			ShipmentID: strings.TrimSpace(t.Cell(row, idIdx)),
			Extra:      pick(t, row, extra),
		}
		if d, ok := ParseScanDate(rec.ScanDate); ok {
			rec.Date = d
			if tod, ok := ParseScanTime(rec.ScanTime); ok {
				rec.Timestamp = d.Add(tod)
			}
		}
		records = append(records, rec)
	}
	return records
}

// ExtractItems converts the contents table into item records using the mapping
func ExtractItems(t domain.Table, cols ContentsColumns) []domain.ShipmentItemRecord {
	idIdx := t.Index(cols.ShipmentID)
	itemIdx := t.Index(cols.ItemCode)
	qtyIdx := t.Index(cols.Quantity)
	extra := extraColumns(t, cols.ShipmentID, cols.ItemCode, cols.Quantity)

	records := make([]domain.ShipmentItemRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		records = append(records, domain.ShipmentItemRecord{
			Row:        i,
			ShipmentID: strings.TrimSpace(t.Cell(row, idIdx)),
			ItemCode:   t.Cell(row, itemIdx),
			Quantity:   ParseQuantity(t.Cell(row, qtyIdx)),
			Extra:      pick(t, row, extra),
		})
	}
	return records
}

// extraNames returns the column names for the given indexes
func extraNames(t domain.Table, idx []int) []string {
	names := make([]string, len(idx))
	for i, c := range idx {
		names[i] = t.Columns[c]
	}
	return names
}
