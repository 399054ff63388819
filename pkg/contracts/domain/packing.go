package domain

import (
	"time"
)

// OrderType classifies a shipment by the shape of its contents
type OrderType string

const (
	OrderTypeUnknown      OrderType = "Unknown"
	OrderTypeSingleItem   OrderType = "Single-Item"
	OrderTypeSpecial      OrderType = "Special"
	OrderTypeSimpleMixed  OrderType = "Simple-Mixed"
	OrderTypeComplexMixed OrderType = "Complex-Mixed"
)

// KnownOrderTypes lists the order types reported in the summary, in report order
var KnownOrderTypes = []OrderType{
	OrderTypeSingleItem,
	OrderTypeSpecial,
	OrderTypeSimpleMixed,
	OrderTypeComplexMixed,
}

// ParseOrderType converts a label into an OrderType. Unrecognized labels
// return false.
func ParseOrderType(s string) (OrderType, bool) {
	if s == string(OrderTypeUnknown) {
		return OrderTypeUnknown, true
	}
	for _, t := range KnownOrderTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Status is the timeliness verdict for a shipment
type Status string

const (
	StatusOK   Status = "OK"
	StatusLate Status = "LATE"
)

// ScanRecord is one scan event from the scan log.
// Date and Timestamp are zero when the raw values could not be parsed.
type ScanRecord struct {
	Row             int       `json:"row"`
	ScanDate        string    `json:"scan_date"`
	ScanTime        string    `json:"scan_time"`
	Operator        string    `json:"operator_name"`
	ShipmentID      string    `json:"shipment_id"`
	Date            time.Time `json:"date"`
	Timestamp       time.Time `json:"scan_timestamp"`
	DurationSeconds int64     `json:"duration_seconds"`
	Extra           []string  `json:"extra,omitempty"`
}

// HasDate reports whether the scan date parsed
func (s ScanRecord) HasDate() bool {
	return !s.Date.IsZero()
}

// HasTimestamp reports whether both date and time parsed
func (s ScanRecord) HasTimestamp() bool {
	return !s.Timestamp.IsZero()
}

// ShipmentItemRecord is one (shipment, item) line of the contents log
type ShipmentItemRecord struct {
	Row        int      `json:"row"`
	ShipmentID string   `json:"shipment_id"`
	ItemCode   string   `json:"item_code"`
	Quantity   int64    `json:"quantity"`
	Extra      []string `json:"extra,omitempty"`
}

// JoinedRecord pairs a scan with one item of the same shipment.
// OrderType and Status are broadcast from the shipment summary.
type JoinedRecord struct {
	Scan           ScanRecord         `json:"scan"`
	Item           ShipmentItemRecord `json:"item"`
	NormalizedItem string             `json:"-"`
	OrderType      OrderType          `json:"order_type"`
	Status         Status             `json:"status"`
}

// ShipmentSummary holds the aggregated facts and verdicts of one shipment
type ShipmentSummary struct {
	ShipmentID           string    `json:"shipment_id"`
	DistinctItems        int       `json:"distinct_item_count"`
	TotalQuantity        int64     `json:"total_quantity"`
	SoleItem             string    `json:"sole_item_code,omitempty"`
	DurationSeconds      int64     `json:"duration_seconds"`
	HandlingBonusSeconds float64   `json:"handling_bonus_seconds"`
	AllowedSeconds       float64   `json:"allowed_seconds"`
	OrderType            OrderType `json:"order_type"`
	Status               Status    `json:"status"`
}
