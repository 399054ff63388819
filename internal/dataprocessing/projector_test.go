package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packtrack/pkg/contracts/domain"
)

func TestProject(t *testing.T) {
	scan := scanAt(0, "ANA", "2024-01-05", "09:00:00", "A1")
	scan.DurationSeconds = 330
	scan.Extra = []string{"WH-1", "x"}

	joined := []domain.JoinedRecord{
		{
			Scan:           scan,
			Item:           domain.ShipmentItemRecord{ShipmentID: "A1", ItemCode: "X1", Quantity: 5, Extra: []string{"red"}},
			NormalizedItem: "X1",
		},
	}
	summaries := []domain.ShipmentSummary{
		{ShipmentID: "A1", OrderType: domain.OrderTypeSingleItem, Status: domain.StatusLate},
	}

	records, table := Project(joined, summaries, []string{"WAREHOUSE", "Status"}, []string{"COLOR"})

	assert.Equal(t, []string{
		"SCAN DATE", "SCAN TIME", "OPERATOR", "SHIPMENT ID", "ORDER TYPE", "STATUS",
		"DURATION", "ITEM", "QTY", "WAREHOUSE", "Status (SCAN)", "COLOR",
	}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{
		"2024-01-05", "09:00:00", "ANA", "A1", "Single-Item", "LATE",
		"5", "X1", "5", "WH-1", "x", "red",
	}, table.Rows[0])

	require.Len(t, records, 1)
	assert.Equal(t, domain.OrderTypeSingleItem, records[0].OrderType)
	assert.Equal(t, domain.StatusLate, records[0].Status)
	// input records keep their zero verdicts
	assert.Empty(t, joined[0].Status)
}

func TestProject_ContentsCollision(t *testing.T) {
	joined := []domain.JoinedRecord{
		{
			Scan: domain.ScanRecord{ShipmentID: "A1", ScanDate: "bad date", Extra: []string{"n1"}},
			Item: domain.ShipmentItemRecord{ShipmentID: "A1", Extra: []string{"n2"}},
		},
	}

	_, table := Project(joined, nil, []string{"NOTE"}, []string{"note"})

	assert.Equal(t, "NOTE", table.Columns[9])
	assert.Equal(t, "note (CONTENTS)", table.Columns[10])
	assert.Equal(t, "bad date", table.Rows[0][0])
}

func TestProject_PadsShortExtras(t *testing.T) {
	joined := []domain.JoinedRecord{
		{Scan: domain.ScanRecord{ShipmentID: "A1"}, Item: domain.ShipmentItemRecord{ShipmentID: "A1"}},
	}

	_, table := Project(joined, nil, []string{"A", "B"}, nil)

	require.Len(t, table.Rows[0], len(table.Columns))
	assert.Equal(t, "", table.Rows[0][10])
}
