package dataprocessing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order when parsing scan dates. Month-first layouts
// come before day-first ones, matching how spreadsheet exports render dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
	"01-02-06",
	"1-2-06",
	"01-02-2006",
	"02-Jan-2006",
	"2-Jan-06",
	"2 Jan 2006",
	"Jan 2, 2006",
	"20060102",
}

// timeLayouts are tried in order after a bare HH:MM has been padded to HH:MM:SS.
// Date-time values contribute only their clock part.
var timeLayouts = []string{
	"15:04:05",
	"3:04:05 PM",
	"3:04 PM",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

var bareHourMinute = regexp.MustCompile(`^(\d{1,2}:\d{2})$`)

// thousandsGrouped matches numbers written with comma thousands separators
var thousandsGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// maxExcelSerial is the serial number of 9999-12-31, the last date Excel supports
const maxExcelSerial = 2958465

const secondsPerDay = 24 * 60 * 60

// maxQuantity caps absurd quantities so that per-shipment sums cannot overflow
const maxQuantity = 1 << 40

// ParseScanDate parses a raw scan date into a calendar date at midnight UTC.
// Excel serial numbers are accepted. The second return value is false when
// the value cannot be parsed.
func ParseScanDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateToDate(t), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return truncateToDate(t), true
		}
	}
	return time.Time{}, false
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseScanTime parses a raw time of day into the offset from midnight.
// A bare HH:MM is read as HH:MM:00, and a number in [0, 1) as an Excel
// fraction of a day.
func ParseScanTime(raw string) (time.Duration, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v < 0 || v >= 1 || math.IsNaN(v) {
			return 0, false
		}
		return time.Duration(math.Round(v*secondsPerDay)) * time.Second, true
	}
	s = bareHourMinute.ReplaceAllString(s, "${1}:00")
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Duration(t.Hour())*time.Hour +
			time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second, true
	}
	return 0, false
}

// parseNumber reads a numeric cell. Commas are accepted only as thousands
// separators, so a decimal comma such as 1,5 is malformed.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if thousandsGrouped.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseQuantity reads an item quantity. Missing, malformed and negative
// values become 0; fractional values are truncated.
func ParseQuantity(raw string) int64 {
	v, ok := parseNumber(raw)
	if !ok || v <= 0 {
		return 0
	}
	if v >= maxQuantity {
		return maxQuantity
	}
	return int64(v)
}

// ParseBonus reads a handling bonus in seconds. Malformed values become 0.
func ParseBonus(raw string) float64 {
	v, ok := parseNumber(raw)
	if !ok {
		return 0
	}
	return v
}
