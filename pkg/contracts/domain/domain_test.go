package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderType(t *testing.T) {
	tests := []struct {
		input string
		want  OrderType
		ok    bool
	}{
		{"Single-Item", OrderTypeSingleItem, true},
		{"Special", OrderTypeSpecial, true},
		{"Simple-Mixed", OrderTypeSimpleMixed, true},
		{"Complex-Mixed", OrderTypeComplexMixed, true},
		{"Unknown", OrderTypeUnknown, true},
		{"single-item", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseOrderType(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanRecord_ParsedFlags(t *testing.T) {
	var rec ScanRecord
	assert.False(t, rec.HasDate())
	assert.False(t, rec.HasTimestamp())

	rec.Date = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.True(t, rec.HasDate())
	assert.False(t, rec.HasTimestamp())
}

func TestTable(t *testing.T) {
	cols := []string{" Shipment ID ", "qty"}
	tbl := NewTable(cols...)
	cols[0] = "changed"

	tbl.AppendRow("R1", "2")
	tbl.AppendRow("R2")
	tbl.AppendRow("R3", "1", "dropped")

	assert.Equal(t, " Shipment ID ", tbl.Columns[0])
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, 0, tbl.Index("shipment id"))
	assert.Equal(t, 1, tbl.Index("QTY"))
	assert.Equal(t, -1, tbl.Index("  "))
	assert.False(t, tbl.HasColumn("ITEM"))

	assert.Equal(t, []string{"2", "", "1"}, tbl.Column("Qty"))
	assert.Nil(t, tbl.Column("ITEM"))
	assert.Equal(t, "", tbl.Cell([]string{"only"}, 3))
	assert.Equal(t, "", tbl.Cell([]string{"only"}, -1))
}
