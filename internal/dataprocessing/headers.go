package dataprocessing

import (
	"strings"
)

// Candidate header names tried, in order, when suggesting a column mapping.
// Source exports come in English and Indonesian variants.
var (
	ScanDateCandidates         = []string{"SCAN DATE", "TANGGAL SCAN", "TGL SCAN", "DATE"}
	ScanTimeCandidates         = []string{"SCAN TIME", "JAM SCAN", "TIME"}
	OperatorCandidates         = []string{"OPERATOR", "NAMA", "NAME"}
	ScanShipmentCandidates     = []string{"SHIPMENT ID", "NO RESI", "RESI", "TRACKING NUMBER"}
	ContentsShipmentCandidates = []string{"SHIPMENT ID", "NO RESI", "NO_RESI", "RESI"}
	ItemCandidates             = []string{"ITEM", "ITEM CODE", "SKU", "KODE SKU"}
	QuantityCandidates         = []string{"QTY", "QUANTITY", "KUANTITAS"}
	SpecialItemCandidates      = []string{"SPECIAL ITEM", "SPECIAL SKU", "SKU SPESIAL"}
	HandlingItemCandidates     = []string{"HANDLING ITEM", "SKU KHUSUS"}
	HandlingBonusCandidates    = []string{"BONUS_SECONDS", "BONUS SEC", "BONUS_SEC", "BONUS(SECONDS)", "BONUS_DETIK", "BONUS(DETIK)", "BONUS"}
)

// NormalizeHeader folds a header name for comparison: surrounding whitespace
// is removed and letters are upper-cased.
func NormalizeHeader(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeItemCode folds an item code for set membership checks.
// Only case and surrounding whitespace are folded.
func NormalizeItemCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// SuggestColumn returns the first header matching a candidate, trying the
// candidates in order. When nothing matches the first header is returned, and
// "" when there are no headers at all.
func SuggestColumn(headers []string, candidates []string) string {
	if len(headers) == 0 {
		return ""
	}
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}
	for _, cand := range candidates {
		want := NormalizeHeader(cand)
		for i, n := range normalized {
			if n == want {
				return headers[i]
			}
		}
	}
	return headers[0]
}

// SuggestMapping pre-selects a mapping for both source tables. The result is
// a starting point that a human may override before running the engine.
func SuggestMapping(scanHeaders, contentsHeaders []string) Mapping {
	return Mapping{
		Scan: ScanColumns{
			ScanDate:   SuggestColumn(scanHeaders, ScanDateCandidates),
			ScanTime:   SuggestColumn(scanHeaders, ScanTimeCandidates),
			Operator:   SuggestColumn(scanHeaders, OperatorCandidates),
			ShipmentID: SuggestColumn(scanHeaders, ScanShipmentCandidates),
		},
		Contents: ContentsColumns{
			ShipmentID: SuggestColumn(contentsHeaders, ContentsShipmentCandidates),
			ItemCode:   SuggestColumn(contentsHeaders, ItemCandidates),
			Quantity:   SuggestColumn(contentsHeaders, QuantityCandidates),
		},
	}
}
