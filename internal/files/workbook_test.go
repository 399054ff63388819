package files

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadWorkbook_XLSX(t *testing.T) {
	buf := buildXLSX(t, [][]interface{}{
		{" nama ", "No Resi", "Qty"},
		{"ANA", "A1", 5},
		{nil, nil, nil},
		{"BUDI", "B1"},
	})

	table, err := ReadWorkbook(buf, "Scan.XLSX")
	require.NoError(t, err)

	assert.Equal(t, []string{"NAMA", "NO RESI", "QTY"}, table.Columns)
	assert.Equal(t, [][]string{
		{"ANA", "A1", "5"},
		{"BUDI", "B1", ""},
	}, table.Rows)
}

func TestReadWorkbook_XLSXDateStyles(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		format string
		want   string
	}{
		{"day first date", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "dd/mm/yyyy", "2024-01-15"},
		{"long date", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "d mmmm yyyy", "2024-01-15"},
		{"date time", time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), "m/d/yy h:mm", "2024-01-15 08:00:00"},
		{"dotted time", 0.375, "hh.mm", "09:00:00"},
		{"dotted time rounds to second", float64(9*60+5) / (24 * 60), "hh.mm", "09:05:00"},
		{"elapsed hours", 0.5, "[h]:mm", "12:00:00"},
		{"text date", "15/01/2024", "@", "15/01/2024"},
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Value"))
	for i, tt := range tests {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, tt.value))
		format := tt.format
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
		require.NoError(t, err)
		require.NoError(t, f.SetCellStyle(sheet, cell, cell, style))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := ReadWorkbook(buf, "scan.xlsx")
	require.NoError(t, err)
	require.Equal(t, len(tests), table.Len())

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Rows[i][0])
		})
	}
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"dd/mm/yyyy", true},
		{"d mmmm yyyy", true},
		{"hh.mm", true},
		{"[h]:mm:ss", true},
		{"General", false},
		{"#,##0.00", false},
		{"0.00E+00", false},
		{`0 "days"`, false},
		{`\d0`, false},
		{"[Red]0.00", false},
		{"[$Rp-421]#,##0", false},
		{"@", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormatCode(tt.code))
		})
	}
}

func TestFormatSerial(t *testing.T) {
	tests := []struct {
		name     string
		serial   float64
		date1904 bool
		want     string
	}{
		{"date", 45306, false, "2024-01-15"},
		{"date time", 45306.375, false, "2024-01-15 09:00:00"},
		{"time of day", 0.75, false, "18:00:00"},
		{"midnight time", 0, false, "00:00:00"},
		{"rounds into next day", 45306.999999999, false, "2024-01-16"},
		{"1904 date system", 43844, true, "2024-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := formatSerial(tt.serial, tt.date1904)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadWorkbook_CSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    [][]string
	}{
		{
			name:    "plain",
			content: "NO RESI,SKU,QTY\nA1,X1,2\n",
			want:    [][]string{{"A1", "X1", "2"}},
		},
		{
			name:    "utf-8 bom and ragged rows",
			content: "\xEF\xBB\xBFno resi,sku,qty\nA1,X1\nA2,X2,1,extra\n",
			want:    [][]string{{"A1", "X1", ""}, {"A2", "X2", "1"}},
		},
		{
			name:    "leading blank lines",
			content: ",,\nNO RESI,SKU,QTY\n,,\nA1,\"X,1\",3\n",
			want:    [][]string{{"A1", "X,1", "3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadWorkbook(strings.NewReader(tt.content), "contents.csv")
			require.NoError(t, err)
			assert.Equal(t, []string{"NO RESI", "SKU", "QTY"}, table.Columns)
			assert.Equal(t, tt.want, table.Rows)
		})
	}
}

func TestReadWorkbook_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		target  error
	}{
		{"legacy xls", "scan.xls", "whatever", ErrUnsupportedFormat},
		{"no extension", "scan", "whatever", ErrUnsupportedFormat},
		{"empty csv", "scan.csv", "", ErrEmptyWorkbook},
		{"blank csv", "scan.csv", " , \n,,\n", ErrEmptyWorkbook},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadWorkbook(strings.NewReader(tt.content), tt.file)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestReadWorkbook_CorruptXLSX(t *testing.T) {
	_, err := ReadWorkbook(strings.NewReader("not a zip"), "scan.xlsx")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("a.XLSM")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = DetectFormat("dir.v2/a.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
}
