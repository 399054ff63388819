package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// ScanHeader and ContentsHeader are the column names used by the sample logs
var (
	ScanHeader     = []string{"TANGGAL SCAN", "JAM SCAN", "NAMA", "NO RESI"}
	ContentsHeader = []string{"NO RESI", "SKU", "QTY"}
)

// SampleScanRows is a small scan log for one operator on 2024-01-05:
// A1 at 09:00, A2 at 09:05, A3 at 09:06.
var SampleScanRows = [][]string{
	{"2024-01-05", "09:00:00", "ANA", "A1"},
	{"2024-01-05", "09:05:00", "ANA", "A2"},
	{"2024-01-05", "09:06:00", "ANA", "A3"},
}

// SampleContentsRows lists the contents of A1, A2 and A3
var SampleContentsRows = [][]string{
	{"A1", "X1", "1"},
	{"A2", "X1", "1"},
	{"A2", "X2", "2"},
	{"A3", "X3", "1"},
}

// CSVBytes renders a header and rows as CSV
func CSVBytes(t *testing.T, header []string, rows [][]string) []byte {
	t.Helper()

	path := WriteCSV(t, t.TempDir(), "table.csv", header, rows)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv fixture: %v", err)
	}
	return data
}

// WriteCSV writes a CSV fixture into dir and returns its path
func WriteCSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv fixture: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write csv fixture: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write csv fixture: %v", err)
	}
	return path
}
