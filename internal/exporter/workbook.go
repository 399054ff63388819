package exporter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"packtrack/internal/dataprocessing"
	"packtrack/pkg/contracts/domain"
)

// Sheet names and layout of the exported workbook
const (
	PackingSheet = "PACKING"
	SummarySheet = "SUMMARY"

	totalLabel     = "Total Shipments"
	headerRow      = 3
	statusRowLimit = 1048576
)

// numericColumns are written as numbers rather than text when they parse
var numericColumns = map[string]bool{
	dataprocessing.ColumnDuration: true,
	dataprocessing.ColumnQuantity: true,
}

// WriteWorkbook renders the report as an xlsx workbook with a PACKING sheet
// and a SUMMARY sheet. Status cells are colored by conditional formatting.
func WriteWorkbook(w io.Writer, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PackingSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writePackingSheet(f, report); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeTable(f, SummarySheet, 1, report.Summary); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "A", "B", 24); err != nil {
		return fmt.Errorf("failed to size summary columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writePackingSheet(f *excelize.File, report Report) error {
	if err := f.SetSheetRow(PackingSheet, "A1", &[]interface{}{totalLabel, report.Shipments}); err != nil {
		return fmt.Errorf("failed to write total: %w", err)
	}
	if err := writeTable(f, PackingSheet, headerRow, report.Table); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if len(report.Table.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(report.Table.Columns), headerRow)
		if err := f.SetCellStyle(PackingSheet, "A1", "A1", bold); err != nil {
			return fmt.Errorf("failed to style total: %w", err)
		}
		if err := f.SetCellStyle(PackingSheet, fmt.Sprintf("A%d", headerRow), last, bold); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
		lastCol, _ := excelize.ColumnNumberToName(len(report.Table.Columns))
		if err := f.SetColWidth(PackingSheet, "A", lastCol, 16); err != nil {
			return fmt.Errorf("failed to size columns: %w", err)
		}
	}

	return formatStatusColumn(f, report.Table)
}

// formatStatusColumn colors OK cells green and LATE cells red
func formatStatusColumn(f *excelize.File, table domain.Table) error {
	idx := table.Index(dataprocessing.ColumnStatus)
	if idx < 0 || table.Len() == 0 {
		return nil
	}
	col, err := excelize.ColumnNumberToName(idx + 1)
	if err != nil {
		return err
	}
	lastRow := headerRow + table.Len()
	if lastRow > statusRowLimit {
		lastRow = statusRowLimit
	}
	ref := fmt.Sprintf("%s%d:%s%d", col, headerRow+1, col, lastRow)

	okStyle, err := f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "006100"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C6EFCE"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create OK style: %w", err)
	}
	lateStyle, err := f.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create LATE style: %w", err)
	}

	err = f.SetConditionalFormat(PackingSheet, ref, []excelize.ConditionalFormatOptions{
		{Type: "text", Criteria: "containing", Format: &okStyle, Value: string(domain.StatusOK)},
		{Type: "text", Criteria: "containing", Format: &lateStyle, Value: string(domain.StatusLate)},
	})
	if err != nil {
		return fmt.Errorf("failed to set status formatting: %w", err)
	}
	return nil
}

// writeTable writes the header at startRow and the rows below it
func writeTable(f *excelize.File, sheet string, startRow int, table domain.Table) error {
	header := make([]interface{}, len(table.Columns))
	numeric := make([]bool, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
		numeric[i] = numericColumns[c]
	}
	cell, err := excelize.CoordinatesToCellName(1, startRow)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table.Rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
			if j < len(numeric) && numeric[j] {
				if n, err := strconv.ParseInt(v, 10, 64); err == nil {
					values[j] = n
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, startRow+1+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	return nil
}
