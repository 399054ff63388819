package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"packtrack/pkg/contracts/domain"
)

// Report is everything written by an export: the projected result rows, the
// summary key-value table and the distinct shipment count shown above the rows
type Report struct {
	Table     domain.Table
	Summary   domain.Table
	Shipments int
}

// Export writes the report in the given format. CSV exports carry only the
// result rows.
func Export(w io.Writer, format Format, report Report) error {
	switch format {
	case FormatXLSX:
		return WriteWorkbook(w, report)
	case FormatCSV:
		return EncodeCSV(w, WriteOptions{
			Headers:   report.Table.Columns,
			Records:   report.Table.Rows,
			BOMPrefix: true,
		})
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteFile exports the report to path, creating parent directories
func WriteFile(path string, format Format, report Report) error {
	slog.Info("Writing report",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("row_count", report.Table.Len()))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Export(file, format, report); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
