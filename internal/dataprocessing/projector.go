package dataprocessing

import (
	"strconv"

	"packtrack/pkg/contracts/domain"
)

// Output column names
const (
	ColumnScanDate   = "SCAN DATE"
	ColumnScanTime   = "SCAN TIME"
	ColumnOperator   = "OPERATOR"
	ColumnShipmentID = "SHIPMENT ID"
	ColumnOrderType  = "ORDER TYPE"
	ColumnStatus     = "STATUS"
	ColumnDuration   = "DURATION"
	ColumnItem       = "ITEM"
	ColumnQuantity   = "QTY"
)

// PreferredColumns is the fixed column prefix of the projected table
var PreferredColumns = []string{
	ColumnScanDate,
	ColumnScanTime,
	ColumnOperator,
	ColumnShipmentID,
	ColumnOrderType,
	ColumnStatus,
	ColumnDuration,
	ColumnItem,
	ColumnQuantity,
}

// Suffixes for carried-through source columns whose name is already taken
const (
	scanSuffix     = " (SCAN)"
	contentsSuffix = " (CONTENTS)"
)

// Project broadcasts each shipment's verdicts onto its joined rows and builds
// the output table. The returned records carry the broadcast values too.
// scanExtra and contentsExtra name the unmapped source columns carried in
// each record's Extra values.
func Project(joined []domain.JoinedRecord, summaries []domain.ShipmentSummary, scanExtra, contentsExtra []string) ([]domain.JoinedRecord, domain.Table) {
	byID := make(map[string]domain.ShipmentSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ShipmentID] = s
	}

	table := domain.NewTable(outputColumns(scanExtra, contentsExtra)...)
	records := make([]domain.JoinedRecord, len(joined))
	for i, rec := range joined {
		s := byID[rec.Scan.ShipmentID]
		rec.OrderType = s.OrderType
		rec.Status = s.Status
		records[i] = rec

		row := make([]string, 0, len(table.Columns))
		row = append(row,
			FormatScanDate(rec.Scan),
			rec.Scan.ScanTime,
			rec.Scan.Operator,
			rec.Scan.ShipmentID,
			string(rec.OrderType),
			string(rec.Status),
			strconv.FormatInt(rec.Scan.DurationSeconds/60, 10),
			rec.Item.ItemCode,
			strconv.FormatInt(rec.Item.Quantity, 10),
		)
		row = append(row, padded(rec.Scan.Extra, len(scanExtra))...)
		row = append(row, padded(rec.Item.Extra, len(contentsExtra))...)
		table.Rows = append(table.Rows, row)
	}
	return records, table
}

// FormatScanDate renders the parsed date as YYYY-MM-DD, or the raw value
func FormatScanDate(s domain.ScanRecord) string {
	if s.HasDate() {
		return s.Date.Format("2006-01-02")
	}
	return s.ScanDate
}

func outputColumns(scanExtra, contentsExtra []string) []string {
	cols := make([]string, 0, len(PreferredColumns)+len(scanExtra)+len(contentsExtra))
	taken := make(map[string]bool)
	for _, c := range PreferredColumns {
		cols = append(cols, c)
		taken[NormalizeHeader(c)] = true
	}
	for _, c := range scanExtra {
		name := c
		if taken[NormalizeHeader(name)] {
			name += scanSuffix
		}
		cols = append(cols, name)
		taken[NormalizeHeader(name)] = true
	}
	for _, c := range contentsExtra {
		name := c
		if taken[NormalizeHeader(name)] {
			name += contentsSuffix
		}
		cols = append(cols, name)
		taken[NormalizeHeader(name)] = true
	}
	return cols
}

func padded(values []string, n int) []string {
	if len(values) == n {
		return values
	}
	out := make([]string, n)
	copy(out, values)
	return out
}
