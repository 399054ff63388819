package dataprocessing

import (
	"strconv"
	"time"

	"packtrack/pkg/contracts/domain"
)

// Summary metric labels, in report order
const (
	MetricDate           = "Date"
	MetricTotalShipments = "Total Shipments"
	MetricOrdersPrefix   = "Orders - "
	MetricStatusPrefix   = "Status - "
)

// Filter selects result rows. Zero-valued fields select everything.
type Filter struct {
	Date      time.Time
	Operators []string
	OrderType domain.OrderType
}

// IsZero reports whether the filter selects every row
func (f Filter) IsZero() bool {
	return f.Date.IsZero() && len(f.Operators) == 0 && f.OrderType == ""
}

// Match reports whether a record passes the filter
func (f Filter) Match(rec domain.JoinedRecord) bool {
	if !f.Date.IsZero() {
		if !rec.Scan.HasDate() || !rec.Scan.Date.Equal(truncateToDate(f.Date)) {
			return false
		}
	}
	if len(f.Operators) > 0 {
		found := false
		for _, op := range f.Operators {
			if op == rec.Scan.Operator {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.OrderType != "" && rec.OrderType != f.OrderType {
		return false
	}
	return true
}

// Apply returns the records and table rows passing the filter. records and
// table rows must be parallel, as returned by Project.
func (f Filter) Apply(records []domain.JoinedRecord, table domain.Table) ([]domain.JoinedRecord, domain.Table) {
	if f.IsZero() {
		return records, table
	}
	out := domain.NewTable(table.Columns...)
	var kept []domain.JoinedRecord
	for i, rec := range records {
		if !f.Match(rec) {
			continue
		}
		kept = append(kept, rec)
		if i < len(table.Rows) {
			out.Rows = append(out.Rows, table.Rows[i])
		}
	}
	return kept, out
}

// Summary counts distinct shipments by order type and status
type Summary struct {
	Date           time.Time                `json:"date"`
	TotalShipments int                      `json:"total_shipments"`
	OrderTypes     map[domain.OrderType]int `json:"order_types"`
	OK             int                      `json:"ok"`
	Late           int                      `json:"late"`
}

// Summarize counts each shipment once, using the first record seen for it
func Summarize(records []domain.JoinedRecord, date time.Time) Summary {
	s := Summary{
		Date:       date,
		OrderTypes: make(map[domain.OrderType]int),
	}
	seen := make(map[string]bool)
	for _, rec := range records {
		id := rec.Scan.ShipmentID
		if seen[id] {
			continue
		}
		seen[id] = true
		s.TotalShipments++
		s.OrderTypes[rec.OrderType]++
		switch rec.Status {
		case domain.StatusOK:
			s.OK++
		case domain.StatusLate:
			s.Late++
		}
	}
	return s
}

// Consistent reports whether every shipment received exactly one status
func (s Summary) Consistent() bool {
	return s.TotalShipments == s.OK+s.Late
}

// Table renders the summary as the fixed METRIC/VALUE table
func (s Summary) Table() domain.Table {
	t := domain.NewTable("METRIC", "VALUE")
	t.AppendRow(MetricDate, s.Date.Format("2006-01-02"))
	t.AppendRow(MetricTotalShipments, strconv.Itoa(s.TotalShipments))
	for _, ot := range domain.KnownOrderTypes {
		t.AppendRow(MetricOrdersPrefix+string(ot), strconv.Itoa(s.OrderTypes[ot]))
	}
	t.AppendRow(MetricStatusPrefix+string(domain.StatusOK), strconv.Itoa(s.OK))
	t.AppendRow(MetricStatusPrefix+string(domain.StatusLate), strconv.Itoa(s.Late))
	return t
}

// LatestScanDate returns the most recent parsed scan date, or zero
func LatestScanDate(records []domain.JoinedRecord) time.Time {
	var latest time.Time
	for _, rec := range records {
		if rec.Scan.HasDate() && rec.Scan.Date.After(latest) {
			latest = rec.Scan.Date
		}
	}
	return latest
}
