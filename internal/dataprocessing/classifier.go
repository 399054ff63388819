package dataprocessing

import (
	"packtrack/pkg/contracts/domain"
)

// Built-in rule constants
const (
	DefaultSecondsPerUnit         = 30.0
	DefaultSimpleMixedMaxQuantity = 3
)

// DefaultSpecialItemCodes are the item codes treated as special single-item
// orders when no special-item file is supplied
var DefaultSpecialItemCodes = [...]string{
	"C222-AK328-2",
	"C222-AK328-8",
	"C222-AK328-7",
	"C222-AK328-1",
	"C222-AK328-5",
}

// DefaultHandlingBonuses are the extra seconds granted per item code when no
// handling file is supplied
var DefaultHandlingBonuses = [...]struct {
	ItemCode string
	Seconds  float64
}{
	{ItemCode: "BM-AKS28-1", Seconds: 60},
}

// Rules configures classification. Keys of SpecialItems and HandlingBonuses
// are normalized item codes.
type Rules struct {
	SpecialItems           map[string]struct{}
	HandlingBonuses        map[string]float64
	SecondsPerUnit         float64
	SimpleMixedMaxQuantity int64
}

// DefaultSpecialItems returns a fresh copy of the built-in special-item set
func DefaultSpecialItems() map[string]struct{} {
	set := make(map[string]struct{}, len(DefaultSpecialItemCodes))
	for _, code := range DefaultSpecialItemCodes {
		set[NormalizeItemCode(code)] = struct{}{}
	}
	return set
}

// DefaultHandlingBonusMap returns a fresh copy of the built-in handling map
func DefaultHandlingBonusMap() map[string]float64 {
	m := make(map[string]float64, len(DefaultHandlingBonuses))
	for _, b := range DefaultHandlingBonuses {
		m[NormalizeItemCode(b.ItemCode)] = b.Seconds
	}
	return m
}

// DefaultRules returns the built-in lookup tables and constants
func DefaultRules() Rules {
	return Rules{
		SpecialItems:           DefaultSpecialItems(),
		HandlingBonuses:        DefaultHandlingBonusMap(),
		SecondsPerUnit:         DefaultSecondsPerUnit,
		SimpleMixedMaxQuantity: DefaultSimpleMixedMaxQuantity,
	}
}

// WithLookups returns a copy of the rules with the given lookup tables.
// A nil table keeps the current one.
func (r Rules) WithLookups(special map[string]struct{}, bonuses map[string]float64) Rules {
	if special != nil {
		r.SpecialItems = special
	}
	if bonuses != nil {
		r.HandlingBonuses = bonuses
	}
	return r
}

// Classifier assigns order types and timeliness verdicts to shipments
type Classifier struct {
	rules Rules
}

// NewClassifier creates a classifier. Missing lookup tables fall back to the
// built-in defaults and non-positive constants to the default constants.
func NewClassifier(rules Rules) *Classifier {
	if rules.SpecialItems == nil {
		rules.SpecialItems = DefaultSpecialItems()
	}
	if rules.HandlingBonuses == nil {
		rules.HandlingBonuses = DefaultHandlingBonusMap()
	}
	if rules.SecondsPerUnit <= 0 {
		rules.SecondsPerUnit = DefaultSecondsPerUnit
	}
	if rules.SimpleMixedMaxQuantity <= 0 {
		rules.SimpleMixedMaxQuantity = DefaultSimpleMixedMaxQuantity
	}
	return &Classifier{rules: rules}
}

// Rules returns the rules the classifier was built with
func (c *Classifier) Rules() Rules {
	return c.rules
}

// OrderType applies the order-type cascade; the first matching rule wins.
// A non-positive distinct count means the count is unknown.
func (c *Classifier) OrderType(distinctItems int, totalQuantity int64, soleItem string) domain.OrderType {
	switch {
	case distinctItems <= 0:
		return domain.OrderTypeUnknown
	case distinctItems == 1:
		if _, ok := c.rules.SpecialItems[soleItem]; ok {
			return domain.OrderTypeSpecial
		}
		return domain.OrderTypeSingleItem
	case totalQuantity <= c.rules.SimpleMixedMaxQuantity:
		return domain.OrderTypeSimpleMixed
	default:
		return domain.OrderTypeComplexMixed
	}
}

// AllowedSeconds is the time budget for a shipment
func (c *Classifier) AllowedSeconds(totalQuantity int64, bonusSeconds float64) float64 {
	return float64(totalQuantity)*c.rules.SecondsPerUnit + bonusSeconds
}

// Status compares the actual duration against the allowance
func (c *Classifier) Status(durationSeconds int64, allowedSeconds float64) domain.Status {
	if float64(durationSeconds) <= allowedSeconds {
		return domain.StatusOK
	}
	return domain.StatusLate
}

// Classify fills order type, allowance and status on a summary
func (c *Classifier) Classify(s domain.ShipmentSummary) domain.ShipmentSummary {
	s.OrderType = c.OrderType(s.DistinctItems, s.TotalQuantity, s.SoleItem)
	s.AllowedSeconds = c.AllowedSeconds(s.TotalQuantity, s.HandlingBonusSeconds)
	s.Status = c.Status(s.DurationSeconds, s.AllowedSeconds)
	return s
}

// ClassifyAll classifies every summary, returning a new slice
func (c *Classifier) ClassifyAll(summaries []domain.ShipmentSummary) []domain.ShipmentSummary {
	out := make([]domain.ShipmentSummary, len(summaries))
	for i, s := range summaries {
		out[i] = c.Classify(s)
	}
	return out
}
