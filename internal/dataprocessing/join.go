package dataprocessing

import (
	"packtrack/pkg/contracts/domain"
)

// Join pairs every scan with every contents line of the same shipment.
// Shipments present on only one side produce no rows, and empty shipment ids
// never match. Output follows the scan order, then contents source order.
func Join(scans []domain.ScanRecord, items []domain.ShipmentItemRecord) []domain.JoinedRecord {
	byShipment := make(map[string][]domain.ShipmentItemRecord)
	for _, item := range items {
		if item.ShipmentID == "" {
			continue
		}
		byShipment[item.ShipmentID] = append(byShipment[item.ShipmentID], item)
	}

	var joined []domain.JoinedRecord
	for _, scan := range scans {
		if scan.ShipmentID == "" {
			continue
		}
		for _, item := range byShipment[scan.ShipmentID] {
			joined = append(joined, domain.JoinedRecord{
				Scan:           scan,
				Item:           item,
				NormalizedItem: NormalizeItemCode(item.ItemCode),
			})
		}
	}
	return joined
}
