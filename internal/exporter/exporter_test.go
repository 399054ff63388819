package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"packtrack/internal/dataprocessing"
	"packtrack/pkg/contracts/domain"
)

func sampleReport() Report {
	table := domain.NewTable(dataprocessing.PreferredColumns...)
	table.AppendRow("2024-01-05", "09:00:00", "ANA", "A1", "Single-Item", "LATE", "5", "X1", "5")
	table.AppendRow("2024-01-05", "09:05:00", "ANA", "A2", "Simple-Mixed", "OK", "1", "X1", "1")
	table.AppendRow("2024-01-05", "09:05:00", "ANA", "A2", "Simple-Mixed", "OK", "1", "X2", "2")

	summary := domain.NewTable("METRIC", "VALUE")
	summary.AppendRow("Date", "2024-01-05")
	summary.AppendRow("Total Shipments", "2")

	return Report{Table: table, Summary: summary, Shipments: 2}
}

func TestEncodeCSV(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		want    string
	}{
		{
			name: "basic write with headers",
			options: WriteOptions{
				Headers: []string{"Name", "City"},
				Records: [][]string{{"Ana", "Jakarta"}, {"Budi", "Surabaya, Jatim"}},
			},
			want: "Name,City\nAna,Jakarta\nBudi,\"Surabaya, Jatim\"\n",
		},
		{
			name: "write with BOM prefix",
			options: WriteOptions{
				Headers:   []string{"A"},
				BOMPrefix: true,
			},
			want: "\xEF\xBB\xBFA\n",
		},
		{
			name:    "write without headers",
			options: WriteOptions{Records: [][]string{{"1", "2"}}},
			want:    "1,2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, EncodeCSV(&buf, tt.options))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatXLSX, false},
		{"XLSX", FormatXLSX, false},
		{" csv ", FormatCSV, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "PACKING TRACKER.csv", FormatCSV.FileName())
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
}

func TestExport_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, FormatCSV, sampleReport()))

	content := strings.TrimPrefix(buf.String(), "\xEF\xBB\xBF")
	assert.NotEqual(t, buf.String(), content, "csv export should start with a BOM")

	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "SCAN DATE,SCAN TIME,OPERATOR,SHIPMENT ID,ORDER TYPE,STATUS,DURATION,ITEM,QTY", lines[0])
	assert.Equal(t, "2024-01-05,09:00:00,ANA,A1,Single-Item,LATE,5,X1,5", lines[1])
}

func TestExport_Workbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, FormatXLSX, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{PackingSheet, SummarySheet}, f.GetSheetList())

	label, err := f.GetCellValue(PackingSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Total Shipments", label)
	total, err := f.GetCellValue(PackingSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	rows, err := f.GetRows(PackingSheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, dataprocessing.PreferredColumns, rows[2])
	assert.Equal(t, "A1", rows[3][3])
	assert.Equal(t, "LATE", rows[3][5])

	// numeric columns are stored as numbers
	cellType, err := f.GetCellType(PackingSheet, "I5")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
	assert.NotEqual(t, excelize.CellTypeInlineString, cellType)

	formats, err := f.GetConditionalFormats(PackingSheet)
	require.NoError(t, err)
	assert.Contains(t, formats, "F4:F6")
	require.Len(t, formats["F4:F6"], 2)
	for i, want := range []string{"OK", "LATE"} {
		rule := formats["F4:F6"][i]
		assert.Equal(t, "text", rule.Type)
		assert.Equal(t, "containing", rule.Criteria)
		assert.Equal(t, want, rule.Value)
	}

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"METRIC", "VALUE"}, {"Date", "2024-01-05"}, {"Total Shipments", "2"}}, summary)
}

func TestExport_EmptyWorkbook(t *testing.T) {
	report := Report{
		Table:   domain.NewTable(dataprocessing.PreferredColumns...),
		Summary: domain.NewTable("METRIC", "VALUE"),
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, FormatXLSX, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	formats, err := f.GetConditionalFormats(PackingSheet)
	require.NoError(t, err)
	assert.Empty(t, formats)
}

func TestExport_UnknownFormat(t *testing.T) {
	assert.Error(t, Export(&bytes.Buffer{}, Format("pdf"), sampleReport()))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", FormatCSV.FileName())

	require.NoError(t, WriteFile(path, FormatCSV, sampleReport()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))
}
