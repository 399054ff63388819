package dataprocessing

import (
	"strings"

	"packtrack/pkg/contracts/domain"
)

// SpecialItemsFromTable reads a special-item set from a one-column table.
// The item column is suggested from the header candidates; blank cells are
// skipped. An empty table yields an empty set, not the default.
func SpecialItemsFromTable(t domain.Table) map[string]struct{} {
	set := make(map[string]struct{})
	col := SuggestColumn(t.Columns, SpecialItemCandidates)
	for _, v := range t.Column(col) {
		if strings.TrimSpace(v) == "" {
			continue
		}
		set[NormalizeItemCode(v)] = struct{}{}
	}
	return set
}

// HandlingBonusesFromTable reads item → bonus seconds from a two-column
// table. Malformed bonuses become 0; a repeated item keeps the last value.
func HandlingBonusesFromTable(t domain.Table) map[string]float64 {
	bonuses := make(map[string]float64)
	itemIdx := t.Index(SuggestColumn(t.Columns, HandlingItemCandidates))
	bonusIdx := t.Index(SuggestColumn(t.Columns, HandlingBonusCandidates))
	if itemIdx < 0 {
		return bonuses
	}
	for _, row := range t.Rows {
		code := t.Cell(row, itemIdx)
		if strings.TrimSpace(code) == "" {
			continue
		}
		bonuses[NormalizeItemCode(code)] = ParseBonus(t.Cell(row, bonusIdx))
	}
	return bonuses
}
