// Package exporter writes packing reports as xlsx workbooks or CSV files.
//
// The workbook carries two sheets:
//
// PACKING: "Total Shipments" and the distinct shipment count in A1:B1, the
// result header on row 3 and the rows below it. STATUS cells are colored by
// conditional formatting, OK green and LATE red.
//
// SUMMARY: the METRIC/VALUE summary table.
//
// CSV exports carry only the result rows and start with a UTF-8 BOM for Excel
// compatibility.
//
// Example usage:
//
//	report := exporter.Report{Table: table, Summary: summary.Table(), Shipments: n}
//	err := exporter.WriteFile("out/PACKING TRACKER.xlsx", exporter.FormatXLSX, report)
package exporter
