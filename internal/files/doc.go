// Package files reads packing input tables and discovers input files.
//
// Workbook reading accepts xlsx (first sheet, via excelize) and csv. Header
// names are trimmed and upper-cased, matching the header folding applied by
// the packing engine.
//
// Example usage:
//
//	f, err := os.Open("scan.xlsx")
//	table, err := files.ReadWorkbook(f, "scan.xlsx")
//
//	// Pick the latest scan, contents and optional lookup files in a folder
//	inputs, err := files.NewDiscovery("").DiscoverInputs("incoming")
package files
