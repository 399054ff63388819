package files

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const secondsPerDay = 24 * 60 * 60

// Built-in number format ids that render dates or times
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// dateCells resolves date-styled cells of one sheet to canonical text:
// 2006-01-02 for dates, 2006-01-02 15:04:05 for date-times and 15:04:05 for
// times of day.
type dateCells struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]bool
}

func newDateCells(f *excelize.File, sheet string) *dateCells {
	d := &dateCells{f: f, sheet: sheet, styles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// value returns the canonical text for the cell at zero-based row/col when
// its style is a date or time format and raw is a serial number
func (d *dateCells) value(row, col int, raw string) (string, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || serial < 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return "", false
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", false
	}
	styleID, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil || !d.isDateStyle(styleID) {
		return "", false
	}
	switch cellType, _ := d.f.GetCellType(d.sheet, cell); cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return "", false
	}
	return formatSerial(serial, d.date1904)
}

func (d *dateCells) isDateStyle(id int) bool {
	if isDate, ok := d.styles[id]; ok {
		return isDate
	}
	isDate := false
	if style, err := d.f.GetStyle(id); err == nil && style != nil {
		isDate = builtInDateFormats[style.NumFmt] ||
			(style.CustomNumFmt != nil && isDateFormatCode(*style.CustomNumFmt))
	}
	d.styles[id] = isDate
	return isDate
}

// isDateFormatCode reports whether a number format code contains date or time
// tokens outside quoted literals, escapes and bracketed sections. Elapsed-time
// brackets such as [h] count as time tokens.
func isDateFormatCode(code string) bool {
	inQuote := false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '\\' || c == '_' || c == '*':
			i++
		case c == '[':
			end := strings.IndexByte(code[i:], ']')
			if end < 0 {
				return false
			}
			inner := strings.ToLower(code[i+1 : i+end])
			if inner != "" && strings.Trim(inner, "hms") == "" {
				return true
			}
			i += end
		default:
			switch c | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}

// formatSerial renders an Excel serial as canonical date, date-time or time text
func formatSerial(serial float64, date1904 bool) (string, bool) {
	days := math.Floor(serial)
	secs := math.Round((serial - days) * secondsPerDay)
	if secs >= secondsPerDay {
		days++
		secs = 0
	}
	clock := time.Duration(secs) * time.Second

	if days == 0 {
		return time.Time{}.Add(clock).Format("15:04:05"), true
	}
	t, err := excelize.ExcelDateToTime(days, date1904)
	if err != nil {
		return "", false
	}
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if secs == 0 {
		return date.Format("2006-01-02"), true
	}
	return date.Add(clock).Format("2006-01-02 15:04:05"), true
}
