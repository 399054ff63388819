package files

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"packtrack/pkg/contracts/domain"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyWorkbook is returned when the first sheet has no header row
	ErrEmptyWorkbook = errors.New("workbook has no header row")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Format identifies a tabular file format by extension
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat returns the format for a file name, based on its extension
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// ReadWorkbook reads the first sheet of an xlsx file, or a csv file, into a
// table. The first non-blank row is the header; header names are trimmed and
// upper-cased. Blank rows are skipped and short rows padded.
func ReadWorkbook(r io.Reader, name string) (domain.Table, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return domain.Table{}, err
	}

	var rows [][]string
	switch format {
	case FormatXLSX:
		rows, err = readXLSXRows(r)
	case FormatCSV:
		rows, err = readCSVRows(r)
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return buildTable(rows, name)
}

func readXLSXRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	sheet := sheets[0]
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	// date and time cells are rendered from their stored serial so that the
	// display format never decides how they parse
	dates := newDateCells(f, sheet)
	for i, row := range rows {
		if i >= len(raw) {
			break
		}
		for j := range row {
			if j >= len(raw[i]) {
				continue
			}
			if v, ok := dates.value(i, j, raw[i][j]); ok {
				row[j] = v
			}
		}
	}
	return rows, nil
}

func readCSVRows(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func buildTable(rows [][]string, name string) (domain.Table, error) {
	start := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return domain.Table{}, fmt.Errorf("%s: %w", name, ErrEmptyWorkbook)
	}

	header := rows[start]
	// trailing blank header cells come from formatting, not data
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToUpper(strings.TrimSpace(h))
	}

	table := domain.NewTable(columns...)
	for _, row := range rows[start+1:] {
		if isBlankRow(row) {
			continue
		}
		table.AppendRow(row...)
	}
	return table, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
