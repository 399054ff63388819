package dataprocessing

import (
	"sort"

	"packtrack/pkg/contracts/domain"
)

// Aggregate collapses joined rows into one summary per shipment, in order of
// first appearance. The duration is taken from the first joined row of each
// shipment. Handling bonuses are summed once per distinct item code and are
// not multiplied by quantity. Order type and status are left for the
// classifier.
func Aggregate(joined []domain.JoinedRecord, bonuses map[string]float64) []domain.ShipmentSummary {
	index := make(map[string]int)
	items := make(map[string]map[string]struct{})
	var summaries []domain.ShipmentSummary

	for _, rec := range joined {
		id := rec.Scan.ShipmentID
		pos, seen := index[id]
		if !seen {
			pos = len(summaries)
			index[id] = pos
			items[id] = make(map[string]struct{})
			summaries = append(summaries, domain.ShipmentSummary{
				ShipmentID:      id,
				DurationSeconds: rec.Scan.DurationSeconds,
			})
		}
		summaries[pos].TotalQuantity += rec.Item.Quantity
		items[id][rec.NormalizedItem] = struct{}{}
	}

	for i := range summaries {
		distinct := items[summaries[i].ShipmentID]
		summaries[i].DistinctItems = len(distinct)

		codes := make([]string, 0, len(distinct))
		for code := range distinct {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		if len(codes) == 1 {
			summaries[i].SoleItem = codes[0]
		}
		var bonus float64
		for _, code := range codes {
			bonus += bonuses[code]
		}
		summaries[i].HandlingBonusSeconds = bonus
	}
	return summaries
}
