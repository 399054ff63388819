package dataprocessing

import (
	"sort"
	"time"

	"packtrack/pkg/contracts/domain"
)

// ComputeDurations sets DurationSeconds on every scan: the seconds until the
// next scan by the same operator on the same calendar day. The input slice
// is not modified; the returned slice is in processing order.
//
// Ordering: operator, then date (undated rows last), then timestamp with
// unparseable timestamps last, ties keeping source order. The last scan of a
// group, any scan whose own or next timestamp is missing, and undated scans
// get 0. Negative gaps are clamped to 0.
func ComputeDurations(scans []domain.ScanRecord) []domain.ScanRecord {
	out := make([]domain.ScanRecord, len(scans))
	copy(out, scans)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Operator != b.Operator {
			return a.Operator < b.Operator
		}
		if a.HasDate() != b.HasDate() {
			return a.HasDate()
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.HasTimestamp() != b.HasTimestamp() {
			return a.HasTimestamp()
		}
		return a.Timestamp.Before(b.Timestamp)
	})

	for i := range out {
		out[i].DurationSeconds = 0
		if !out[i].HasDate() || i+1 >= len(out) {
			continue
		}
		next := out[i+1]
		if !sameGroup(out[i], next) {
			continue
		}
		if !out[i].HasTimestamp() || !next.HasTimestamp() {
			continue
		}
		gap := int64(next.Timestamp.Sub(out[i].Timestamp) / time.Second)
		if gap > 0 {
			out[i].DurationSeconds = gap
		}
	}
	return out
}

// sameGroup reports whether two scans share operator and calendar day
func sameGroup(a, b domain.ScanRecord) bool {
	return a.Operator == b.Operator && a.Date.Equal(b.Date)
}
